package models

// Slot is a discrete bookable time-of-day for a given doctor and date.
// Generation order is the canonical display order.
type Slot struct {
	Label     string `json:"label"` // e.g. "09:30"
	Available bool   `json:"available"`
}

// SlotAvailability is the ephemeral resolver output for the current
// (doctor, date) pair. It is recomputed on every change to either input and
// never persisted beyond the session snapshot.
type SlotAvailability struct {
	Loading bool   `json:"loading"`
	Slots   []Slot `json:"slots"`
	Error   string `json:"error,omitempty"` // set when resolution failed; distinct from "no slots"
}

// SlotAvailable reports whether label is present and bookable in the set.
func (a SlotAvailability) SlotAvailable(label string) bool {
	for _, s := range a.Slots {
		if s.Label == label && s.Available {
			return true
		}
	}
	return false
}
