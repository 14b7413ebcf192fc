package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medibook/models"
)

func waitResolved(t *testing.T, w *Wizard) {
	t.Helper()
	require.Eventually(t, func() bool {
		return !w.Availability().Loading
	}, 2*time.Second, 5*time.Millisecond, "slot resolution never completed")
}

func patientFixture() models.PatientContext {
	return models.PatientContext{
		PatientID: "pat-1",
		Name:      "Alex Morgan",
		Email:     "alex@example.com",
	}
}

func TestNextBlockedWithoutDoctor(t *testing.T) {
	w := NewWizard("s1", patientFixture(), &stubSlotSource{}, nil)

	err := w.Next()
	require.Error(t, err)
	assert.Equal(t, CodeGuard, ErrorCode(err))
	assert.Equal(t, models.StepDoctorSelection, w.Step())
}

func TestNextBlockedWithoutDateAndTime(t *testing.T) {
	src := &stubSlotSource{slots: availableSlots("09:00")}
	w := NewWizard("s1", patientFixture(), src, nil)
	w.SelectDoctor(testDoctor())

	require.NoError(t, w.Next())
	assert.Equal(t, models.StepDateTimeSelection, w.Step())

	err := w.Next()
	require.Error(t, err)
	assert.Equal(t, CodeGuard, ErrorCode(err))

	require.NoError(t, w.SelectDate("2025-10-10"))
	err = w.Next()
	require.Error(t, err, "date alone must not satisfy the guard")
	assert.Equal(t, models.StepDateTimeSelection, w.Step())
}

func TestNextAtConfirmationIsGuarded(t *testing.T) {
	w := wizardAtConfirmation(t)
	err := w.Next()
	require.Error(t, err)
	assert.Equal(t, CodeGuard, ErrorCode(err))
}

func TestBackAtFirstStepIsGuarded(t *testing.T) {
	w := NewWizard("s1", patientFixture(), &stubSlotSource{}, nil)
	err := w.Back()
	require.Error(t, err)
	assert.Equal(t, CodeGuard, ErrorCode(err))
}

func TestBackPreservesEnteredData(t *testing.T) {
	w := wizardAtConfirmation(t)
	w.SetReason("chest pain")
	require.NoError(t, w.ToggleRequirement("wheelchair access"))

	require.NoError(t, w.Back())
	assert.Equal(t, models.StepDateTimeSelection, w.Step())
	require.NoError(t, w.Back())
	assert.Equal(t, models.StepDoctorSelection, w.Step())

	snap := w.Snapshot()
	require.NotNil(t, snap.Draft.Doctor)
	assert.Equal(t, "doc-1", snap.Draft.Doctor.ID)
	assert.Equal(t, "2025-10-10", snap.Draft.Date)
	assert.Equal(t, "09:00", snap.Draft.Time)
	assert.Equal(t, "chest pain", snap.Draft.Reason)
	assert.Equal(t, []string{"wheelchair access"}, snap.Draft.Requirements)

	// Walking forward again needs no re-entry.
	require.NoError(t, w.Next())
	waitResolved(t, w)
	require.NoError(t, w.Next())
	assert.Equal(t, models.StepConfirmation, w.Step())
}

func TestSelectTimeRejectsUnknownAndUnavailableLabels(t *testing.T) {
	src := &stubSlotSource{slots: []models.Slot{
		{Label: "09:00", Available: true},
		{Label: "10:00", Available: false},
	}}
	w := NewWizard("s1", patientFixture(), src, nil)
	w.SelectDoctor(testDoctor())
	require.NoError(t, w.SelectDate("2025-10-10"))
	waitResolved(t, w)

	err := w.SelectTime("10:00")
	require.Error(t, err)
	assert.Equal(t, CodeSlot, ErrorCode(err))

	err = w.SelectTime("23:30")
	require.Error(t, err)
	assert.Equal(t, CodeSlot, ErrorCode(err))

	require.NoError(t, w.SelectTime("09:00"))
	assert.Equal(t, "09:00", w.Snapshot().Draft.Time)
}

func TestSelectTimeRejectedWhileLoading(t *testing.T) {
	src := newGatedSlotSource()
	w := NewWizard("s1", patientFixture(), src, nil)
	w.SelectDoctor(testDoctor())
	require.NoError(t, w.SelectDate("2025-10-10"))

	call := <-src.started
	err := w.SelectTime("09:00")
	require.Error(t, err)
	assert.Equal(t, CodeSlot, ErrorCode(err))

	call.gate <- availableSlots("09:00")
	waitResolved(t, w)
	require.NoError(t, w.SelectTime("09:00"))
}

func TestToggleRequirementIsIdempotentPair(t *testing.T) {
	w := NewWizard("s1", patientFixture(), &stubSlotSource{}, nil)

	require.NoError(t, w.ToggleRequirement("quiet room"))
	assert.Equal(t, []string{"quiet room"}, w.Snapshot().Draft.Requirements)

	require.NoError(t, w.ToggleRequirement("quiet room"))
	assert.Empty(t, w.Snapshot().Draft.Requirements)

	err := w.ToggleRequirement("private jet")
	require.Error(t, err)
	assert.Equal(t, CodeInvalidInput, ErrorCode(err))
}

func TestTypeAndReasonNeverTriggerResolution(t *testing.T) {
	src := &stubSlotSource{slots: availableSlots("09:00", "09:30")}
	w := NewWizard("s1", patientFixture(), src, nil)
	w.SelectDoctor(testDoctor())
	require.NoError(t, w.SelectDate("2025-10-10"))
	waitResolved(t, w)
	require.NoError(t, w.SelectTime("09:30"))

	calls := src.callCount()
	require.NoError(t, w.SetType(models.TypeFollowUp))
	w.SetReason("routine check")
	require.NoError(t, w.ToggleRequirement("extended consultation"))

	assert.Equal(t, calls, src.callCount())
	snap := w.Snapshot()
	assert.Equal(t, "09:30", snap.Draft.Time)
	assert.False(t, snap.Availability.Loading)
}

func TestSetTypeRejectsUnknownType(t *testing.T) {
	w := NewWizard("s1", patientFixture(), &stubSlotSource{}, nil)
	err := w.SetType(models.AppointmentType("house call"))
	require.Error(t, err)
	assert.Equal(t, CodeInvalidInput, ErrorCode(err))
}

func TestSelectDateRejectsMalformedDate(t *testing.T) {
	w := NewWizard("s1", patientFixture(), &stubSlotSource{}, nil)
	err := w.SelectDate("10/10/2025")
	require.Error(t, err)
	assert.Equal(t, CodeInvalidInput, ErrorCode(err))
}

func TestConfirmGuardedOutsideConfirmationStep(t *testing.T) {
	w := NewWizard("s1", patientFixture(), &stubSlotSource{}, nil)
	_, err := w.Confirm(context.Background(), &captureSubmitter{}, func() string { return "a1" })
	require.Error(t, err)
	assert.Equal(t, CodeGuard, ErrorCode(err))
}

func TestConfirmFailurePreservesDraft(t *testing.T) {
	w := wizardAtConfirmation(t)
	submitter := &captureSubmitter{err: errors.New("database unavailable")}

	_, err := w.Confirm(context.Background(), submitter, func() string { return "a1" })
	require.Error(t, err)

	snap := w.Snapshot()
	assert.Equal(t, models.StepConfirmation, snap.Step)
	require.NotNil(t, snap.Draft.Doctor)
	assert.Equal(t, "2025-10-10", snap.Draft.Date)
	assert.Equal(t, "09:00", snap.Draft.Time)
}

func TestConcurrentConfirmsConsumeDraftOnce(t *testing.T) {
	w := wizardAtConfirmation(t)
	submitter := newGatedSubmitter()

	firstDone := make(chan error, 1)
	go func() {
		_, err := w.Confirm(context.Background(), submitter, func() string { return "a1" })
		firstDone <- err
	}()
	<-submitter.entered

	// A second confirm while the first is in flight must be rejected, not
	// submitted a second time.
	_, err := w.Confirm(context.Background(), submitter, func() string { return "a2" })
	require.Error(t, err)
	assert.Equal(t, CodeGuard, ErrorCode(err))

	// Back is also refused until the submission settles.
	err = w.Back()
	require.Error(t, err)
	assert.Equal(t, CodeGuard, ErrorCode(err))

	submitter.release <- nil
	require.NoError(t, <-firstDone)
	assert.Len(t, submitter.submitted(), 1)
}

func TestConfirmRetryAllowedAfterFailedSubmission(t *testing.T) {
	w := wizardAtConfirmation(t)
	submitter := newGatedSubmitter()

	firstDone := make(chan error, 1)
	go func() {
		_, err := w.Confirm(context.Background(), submitter, func() string { return "a1" })
		firstDone <- err
	}()
	<-submitter.entered
	submitter.release <- errors.New("database unavailable")
	require.Error(t, <-firstDone)

	// The failed submission releases the in-flight state; a retry goes
	// through.
	secondDone := make(chan error, 1)
	go func() {
		_, err := w.Confirm(context.Background(), submitter, func() string { return "a2" })
		secondDone <- err
	}()
	<-submitter.entered
	submitter.release <- nil
	require.NoError(t, <-secondDone)
	assert.Len(t, submitter.submitted(), 1)
}

func TestEndToEndBookingFlow(t *testing.T) {
	src := &stubSlotSource{slots: []models.Slot{
		{Label: "09:00", Available: true},
		{Label: "09:30", Available: true},
		{Label: "10:00", Available: false},
	}}
	var snapMu sync.Mutex
	var snapshots []models.BookingSession
	w := NewWizard("s1", patientFixture(), src, func(snap models.BookingSession) {
		snapMu.Lock()
		snapshots = append(snapshots, snap)
		snapMu.Unlock()
	})

	w.SelectDoctor(testDoctor())
	require.NoError(t, w.Next())
	require.NoError(t, w.SelectDate("2025-10-10"))
	waitResolved(t, w)

	avail := w.Availability()
	require.Len(t, avail.Slots, 3)
	assert.True(t, avail.SlotAvailable("09:30"))
	assert.False(t, avail.SlotAvailable("10:00"))

	require.Error(t, w.SelectTime("10:00"))
	require.NoError(t, w.SelectTime("09:00"))
	require.NoError(t, w.Next())
	assert.Equal(t, models.StepConfirmation, w.Step())

	require.NoError(t, w.SetType(models.TypeConsultation))
	w.SetReason("annual physical")
	require.NoError(t, w.ToggleRequirement("sign language interpreter"))

	summary := SummarizeDraft(w.Snapshot().Draft)
	assert.Equal(t, "Dr. Sarah Johnson", summary.DoctorName)
	assert.Equal(t, "Cardiology", summary.Specialty)
	assert.Equal(t, "2025-10-10", summary.Date)
	assert.Equal(t, "09:00", summary.Time)
	assert.Equal(t, []string{"sign language interpreter"}, summary.Requirements)

	submitter := &captureSubmitter{}
	appt, err := w.Confirm(context.Background(), submitter, func() string { return "appt-1" })
	require.NoError(t, err)

	assert.Equal(t, "appt-1", appt.ID)
	assert.Equal(t, "pat-1", appt.PatientID)
	assert.Equal(t, "doc-1", appt.DoctorID)
	assert.Equal(t, "Dr. Sarah Johnson", appt.DoctorName)
	assert.Equal(t, "2025-10-10", appt.Date)
	assert.Equal(t, "09:00", appt.Time)
	assert.Equal(t, "confirmed", appt.Status)
	require.Len(t, submitter.submitted(), 1)

	// Wizard is reset after a successful confirm.
	reset := w.Snapshot()
	assert.Equal(t, models.StepDoctorSelection, reset.Step)
	assert.Nil(t, reset.Draft.Doctor)
	assert.Empty(t, reset.Draft.Time)
	snapMu.Lock()
	assert.NotEmpty(t, snapshots)
	snapMu.Unlock()
}

// wizardAtConfirmation builds a wizard with a complete draft parked at the
// confirmation step.
func wizardAtConfirmation(t *testing.T) *Wizard {
	t.Helper()
	src := &stubSlotSource{slots: availableSlots("09:00", "09:30")}
	w := NewWizard("s1", patientFixture(), src, nil)
	w.SelectDoctor(testDoctor())
	require.NoError(t, w.Next())
	require.NoError(t, w.SelectDate("2025-10-10"))
	waitResolved(t, w)
	require.NoError(t, w.SelectTime("09:00"))
	require.NoError(t, w.Next())
	require.Equal(t, models.StepConfirmation, w.Step())
	return w
}
