package booking

import (
	"context"
	"log"

	"medibook/models"
)

// resolveLocked issues a new slot resolution for the current (doctor, date)
// pair. Callers must hold w.mu. Previous slots are cleared immediately so a
// stale set is never shown while a new resolution is pending.
//
// Each request carries a sequence number; runResolve discards any completion
// whose number no longer matches, so overlapping resolutions are applied in
// trigger order regardless of completion order.
func (w *Wizard) resolveLocked() {
	w.resolveSeq++

	if w.draft.Doctor == nil || w.draft.Date == "" {
		// No resolution is issued until both inputs are set. An empty set
		// can hold no selected time.
		w.availability = models.SlotAvailability{}
		w.draft.Time = ""
		return
	}

	w.availability = models.SlotAvailability{Loading: true}
	go w.runResolve(w.resolveSeq, w.draft.Doctor.ID, w.draft.Date)
}

func (w *Wizard) runResolve(seq uint64, doctorID, date string) {
	slots, err := w.slots.Slots(context.Background(), doctorID, date)

	w.mu.Lock()
	if seq != w.resolveSeq {
		// Superseded while in flight; a later request owns the state now.
		w.mu.Unlock()
		return
	}
	if err != nil {
		log.Printf("[resolve] slot resolution failed for doctor %s on %s: %v", doctorID, date, err)
		w.availability = models.SlotAvailability{Error: err.Error()}
	} else {
		w.availability = models.SlotAvailability{Slots: slots}
	}
	// Reconcile in the same critical section as the slot replacement: a
	// selected time absent from the newly available set is cleared before
	// anyone can observe the new slots.
	if w.draft.Time != "" && !w.availability.SlotAvailable(w.draft.Time) {
		w.draft.Time = ""
	}
	snap := w.snapshotLocked()
	w.mu.Unlock()
	w.notify(snap)
}

// Availability returns a copy of the current slot availability state.
func (w *Wizard) Availability() models.SlotAvailability {
	w.mu.Lock()
	defer w.mu.Unlock()
	avail := w.availability
	if len(avail.Slots) > 0 {
		avail.Slots = append([]models.Slot(nil), w.availability.Slots...)
	}
	return avail
}
