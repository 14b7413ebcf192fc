package models

// BookingStep identifies the wizard step a session is on. The flow is
// linear: doctor selection, then date/time selection, then confirmation.
type BookingStep string

const (
	StepDoctorSelection   BookingStep = "doctor-selection"
	StepDateTimeSelection BookingStep = "datetime-selection"
	StepConfirmation      BookingStep = "confirmation"
)

// BookingSession is the serializable snapshot of a booking wizard, stored in
// Redis between requests. The live wizard is the source of truth; the
// snapshot is refreshed on every mutation and on resolver completion.
type BookingSession struct {
	SessionID    string           `json:"sessionId"`
	Patient      PatientContext   `json:"patient"`
	Step         BookingStep      `json:"step"`
	Draft        DraftBooking     `json:"draft"`
	Availability SlotAvailability `json:"availability"`
}
