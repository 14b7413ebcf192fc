package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"medibook/models"
)

// Wizard owns a single draft booking and walks it through the linear step
// flow: doctor selection, date/time selection, confirmation. All state is
// guarded by one mutex; slot resolution runs in the background and applies
// its result under the same lock (see availability.go), so there is never a
// moment where a stale selected time is observable against a new slot set.
type Wizard struct {
	mu sync.Mutex

	sessionID string
	patient   models.PatientContext

	step         models.BookingStep
	draft        models.DraftBooking
	availability models.SlotAvailability

	// resolveSeq tags each resolution request; a completion whose tag no
	// longer matches is discarded (last trigger wins).
	resolveSeq uint64

	// confirming marks a submission in flight. While set, further Confirm
	// and Back calls are rejected so the draft is consumed at most once.
	confirming bool

	slots    SlotSource
	onChange func(models.BookingSession)
}

// NewWizard creates a wizard at the doctor-selection step with an empty
// draft. onChange receives a snapshot after every state change (including
// asynchronous resolver completions); it may be nil.
func NewWizard(sessionID string, patient models.PatientContext, slots SlotSource, onChange func(models.BookingSession)) *Wizard {
	return &Wizard{
		sessionID: sessionID,
		patient:   patient,
		step:      models.StepDoctorSelection,
		draft:     models.DraftBooking{Type: models.TypeConsultation},
		slots:     slots,
		onChange:  onChange,
	}
}

// RestoreWizard rebuilds a wizard from a persisted session snapshot. The
// snapshot's availability is treated as stale: when both doctor and date are
// present a fresh resolution is triggered immediately.
func RestoreWizard(snap models.BookingSession, slots SlotSource, onChange func(models.BookingSession)) *Wizard {
	w := &Wizard{
		sessionID: snap.SessionID,
		patient:   snap.Patient,
		step:      snap.Step,
		draft:     snap.Draft,
		slots:     slots,
		onChange:  onChange,
	}
	if w.draft.Type == "" {
		w.draft.Type = models.TypeConsultation
	}
	w.mu.Lock()
	w.resolveLocked()
	w.mu.Unlock()
	return w
}

// SessionID returns the wizard's session identifier.
func (w *Wizard) SessionID() string { return w.sessionID }

// Patient returns the identity the wizard acts on behalf of.
func (w *Wizard) Patient() models.PatientContext { return w.patient }

// Snapshot returns a copy of the current wizard state.
func (w *Wizard) Snapshot() models.BookingSession {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

func (w *Wizard) snapshotLocked() models.BookingSession {
	snap := models.BookingSession{
		SessionID:    w.sessionID,
		Patient:      w.patient,
		Step:         w.step,
		Draft:        w.draft,
		Availability: w.availability,
	}
	// Copy the slices so callers never alias wizard-owned state.
	if len(w.draft.Requirements) > 0 {
		snap.Draft.Requirements = append([]string(nil), w.draft.Requirements...)
	}
	if len(w.availability.Slots) > 0 {
		snap.Availability.Slots = append([]models.Slot(nil), w.availability.Slots...)
	}
	return snap
}

func (w *Wizard) notify(snap models.BookingSession) {
	if w.onChange != nil {
		w.onChange(snap)
	}
}

// SelectDoctor sets the draft's doctor and re-triggers slot resolution.
// Re-selecting the same doctor re-resolves too; availability may have
// changed since the last resolution.
func (w *Wizard) SelectDoctor(doctor models.Doctor) {
	w.mu.Lock()
	d := doctor
	w.draft.Doctor = &d
	w.resolveLocked()
	snap := w.snapshotLocked()
	w.mu.Unlock()
	w.notify(snap)
}

// SelectDate sets the draft's date ("YYYY-MM-DD") and re-triggers slot
// resolution.
func (w *Wizard) SelectDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return NewInvalidInputError(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", date))
	}
	w.mu.Lock()
	w.draft.Date = date
	w.resolveLocked()
	snap := w.snapshotLocked()
	w.mu.Unlock()
	w.notify(snap)
	return nil
}

// SelectTime sets the draft's time. The label must be a member of the most
// recently resolved slot set and available; anything else is rejected, which
// keeps the draft invariant structural rather than checked at submit time.
func (w *Wizard) SelectTime(label string) error {
	w.mu.Lock()
	if w.availability.Loading {
		w.mu.Unlock()
		return NewSlotError("slot availability is still loading")
	}
	if !w.availability.SlotAvailable(label) {
		w.mu.Unlock()
		return NewSlotError(fmt.Sprintf("slot %q is not available for the selected doctor and date", label))
	}
	w.draft.Time = label
	snap := w.snapshotLocked()
	w.mu.Unlock()
	w.notify(snap)
	return nil
}

// SetType sets the appointment type. It never touches availability or the
// selected time.
func (w *Wizard) SetType(t models.AppointmentType) error {
	if !t.Valid() {
		return NewInvalidInputError(fmt.Sprintf("unknown appointment type %q", t))
	}
	w.mu.Lock()
	w.draft.Type = t
	snap := w.snapshotLocked()
	w.mu.Unlock()
	w.notify(snap)
	return nil
}

// SetReason sets the free-text visit reason.
func (w *Wizard) SetReason(reason string) {
	w.mu.Lock()
	w.draft.Reason = reason
	snap := w.snapshotLocked()
	w.mu.Unlock()
	w.notify(snap)
}

// ToggleRequirement adds or removes a special requirement. Only entries from
// the fixed option list are accepted. Toggling twice restores the original
// membership.
func (w *Wizard) ToggleRequirement(req string) error {
	if !validRequirement(req) {
		return NewInvalidInputError(fmt.Sprintf("unknown requirement %q", req))
	}
	w.mu.Lock()
	if w.draft.HasRequirement(req) {
		kept := w.draft.Requirements[:0]
		for _, r := range w.draft.Requirements {
			if r != req {
				kept = append(kept, r)
			}
		}
		w.draft.Requirements = kept
	} else {
		w.draft.Requirements = append(w.draft.Requirements, req)
	}
	snap := w.snapshotLocked()
	w.mu.Unlock()
	w.notify(snap)
	return nil
}

func validRequirement(req string) bool {
	for _, opt := range models.RequirementOptions {
		if opt == req {
			return true
		}
	}
	return false
}

// Step returns the current wizard step.
func (w *Wizard) Step() models.BookingStep {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Next advances to the following step if its guard holds.
func (w *Wizard) Next() error {
	w.mu.Lock()
	switch w.step {
	case models.StepDoctorSelection:
		if w.draft.Doctor == nil {
			w.mu.Unlock()
			return NewGuardError("select a doctor before continuing")
		}
		w.step = models.StepDateTimeSelection
		// Entering the date/time step re-resolves availability.
		w.resolveLocked()
	case models.StepDateTimeSelection:
		if w.draft.Date == "" || w.draft.Time == "" {
			w.mu.Unlock()
			return NewGuardError("select a date and time before continuing")
		}
		w.step = models.StepConfirmation
	case models.StepConfirmation:
		w.mu.Unlock()
		return NewGuardError("already at the confirmation step; use confirm to finish")
	}
	snap := w.snapshotLocked()
	w.mu.Unlock()
	w.notify(snap)
	return nil
}

// Back returns to the previous step. Backward navigation is always allowed
// and never discards entered data.
func (w *Wizard) Back() error {
	w.mu.Lock()
	switch w.step {
	case models.StepDoctorSelection:
		w.mu.Unlock()
		return NewGuardError("already at the first step")
	case models.StepDateTimeSelection:
		w.step = models.StepDoctorSelection
	case models.StepConfirmation:
		if w.confirming {
			w.mu.Unlock()
			return NewGuardError("booking submission is in progress")
		}
		w.step = models.StepDateTimeSelection
	}
	snap := w.snapshotLocked()
	w.mu.Unlock()
	w.notify(snap)
	return nil
}

// Confirm performs the terminal submit: it builds the appointment record
// from the draft and hands it to the submitter. On success the wizard resets
// to its initial state and the appointment is returned. On failure the draft
// is left intact so the patient can retry.
func (w *Wizard) Confirm(ctx context.Context, submitter BookingSubmitter, newID func() string) (*models.Appointment, error) {
	w.mu.Lock()
	if w.confirming {
		w.mu.Unlock()
		return nil, NewGuardError("booking submission is already in progress")
	}
	if w.step != models.StepConfirmation {
		w.mu.Unlock()
		return nil, NewGuardError("booking is not at the confirmation step")
	}
	if !w.draft.Complete() {
		w.mu.Unlock()
		return nil, NewGuardError("booking draft is incomplete")
	}
	w.confirming = true
	appt := buildAppointment(newID(), w.patient, w.draft)
	w.mu.Unlock()

	// Submission runs outside the lock so a slow submitter never blocks
	// reads; the confirming flag keeps Confirm and Back out until it
	// returns.
	err := submitter.Submit(ctx, &appt)

	w.mu.Lock()
	w.confirming = false
	if err != nil {
		w.mu.Unlock()
		return nil, err
	}
	w.step = models.StepDoctorSelection
	w.draft = models.DraftBooking{Type: models.TypeConsultation}
	w.availability = models.SlotAvailability{}
	w.resolveSeq++ // invalidate any in-flight resolution
	snap := w.snapshotLocked()
	w.mu.Unlock()
	w.notify(snap)

	return &appt, nil
}

func buildAppointment(id string, patient models.PatientContext, draft models.DraftBooking) models.Appointment {
	return models.Appointment{
		ID:           id,
		PatientID:    patient.PatientID,
		PatientName:  patient.Name,
		PatientEmail: patient.Email,
		DoctorID:     draft.Doctor.ID,
		DoctorName:   draft.Doctor.Name,
		Date:         draft.Date,
		Time:         draft.Time,
		Type:         draft.Type,
		Reason:       draft.Reason,
		Requirements: append([]string(nil), draft.Requirements...),
		Status:       "confirmed",
		CreatedAt:    time.Now(),
	}
}
