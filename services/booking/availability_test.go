package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medibook/models"
)

func TestResolutionNotIssuedUntilDoctorAndDateSet(t *testing.T) {
	src := &stubSlotSource{slots: availableSlots("09:00")}
	w := NewWizard("s1", patientFixture(), src, nil)

	require.NoError(t, w.SelectDate("2025-10-10"))
	assert.Equal(t, 0, src.callCount(), "no resolution without a doctor")

	avail := w.Availability()
	assert.False(t, avail.Loading)
	assert.Empty(t, avail.Slots)
}

func TestResolutionLoadingStateWhileInFlight(t *testing.T) {
	src := newGatedSlotSource()
	w := NewWizard("s1", patientFixture(), src, nil)
	w.SelectDoctor(testDoctor())
	require.NoError(t, w.SelectDate("2025-10-10"))

	call := <-src.started
	avail := w.Availability()
	assert.True(t, avail.Loading)
	assert.Empty(t, avail.Slots, "stale slots are never shown while loading")

	call.gate <- availableSlots("09:00", "09:30")
	waitResolved(t, w)
	assert.Len(t, w.Availability().Slots, 2)
}

func TestLastTriggerWinsWhenCompletionsArriveOutOfOrder(t *testing.T) {
	src := newGatedSlotSource()
	w := NewWizard("s1", patientFixture(), src, nil)
	w.SelectDoctor(testDoctor())

	require.NoError(t, w.SelectDate("2025-10-10"))
	first := <-src.started
	require.Equal(t, "2025-10-10", first.date)

	require.NoError(t, w.SelectDate("2025-10-11"))
	second := <-src.started
	require.Equal(t, "2025-10-11", second.date)

	// The later trigger completes first.
	second.gate <- availableSlots("11:00")
	waitResolved(t, w)
	assert.Equal(t, "11:00", w.Availability().Slots[0].Label)

	// The earlier trigger's result arrives afterwards and must be discarded.
	first.gate <- availableSlots("09:00")
	time.Sleep(50 * time.Millisecond)

	avail := w.Availability()
	require.Len(t, avail.Slots, 1)
	assert.Equal(t, "11:00", avail.Slots[0].Label)
	assert.False(t, avail.Loading)
}

func TestSelectedTimeClearedWhenNoLongerAvailable(t *testing.T) {
	src := &stubSlotSource{slots: availableSlots("09:00", "09:30")}
	w := NewWizard("s1", patientFixture(), src, nil)
	w.SelectDoctor(testDoctor())
	require.NoError(t, w.SelectDate("2025-10-10"))
	waitResolved(t, w)
	require.NoError(t, w.SelectTime("09:00"))

	// Another patient takes 09:00; the next resolution reflects that.
	src.set([]models.Slot{
		{Label: "09:00", Available: false},
		{Label: "09:30", Available: true},
	}, nil)
	w.SelectDoctor(testDoctor())
	waitResolved(t, w)

	snap := w.Snapshot()
	assert.Empty(t, snap.Draft.Time, "selected time must not survive losing its slot")
	assert.False(t, snap.Availability.SlotAvailable("09:00"))
}

func TestSelectedTimeSurvivesWhenStillAvailable(t *testing.T) {
	src := &stubSlotSource{slots: availableSlots("09:00", "09:30")}
	w := NewWizard("s1", patientFixture(), src, nil)
	w.SelectDoctor(testDoctor())
	require.NoError(t, w.SelectDate("2025-10-10"))
	waitResolved(t, w)
	require.NoError(t, w.SelectTime("09:30"))

	w.SelectDoctor(testDoctor())
	waitResolved(t, w)
	assert.Equal(t, "09:30", w.Snapshot().Draft.Time)
}

func TestResolutionFailureIsStateNotPanic(t *testing.T) {
	src := &stubSlotSource{err: errors.New("scheduling system offline")}
	w := NewWizard("s1", patientFixture(), src, nil)
	w.SelectDoctor(testDoctor())
	require.NoError(t, w.SelectDate("2025-10-10"))
	waitResolved(t, w)

	avail := w.Availability()
	assert.Contains(t, avail.Error, "scheduling system offline")
	assert.Empty(t, avail.Slots)

	// A failed resolution cannot vouch for any slot.
	err := w.SelectTime("09:00")
	require.Error(t, err)
	assert.Equal(t, CodeSlot, ErrorCode(err))
}

func TestClearingDateEmptiesAvailabilityAndTime(t *testing.T) {
	src := &stubSlotSource{slots: availableSlots("09:00")}
	w := NewWizard("s1", patientFixture(), src, nil)
	w.SelectDoctor(testDoctor())
	require.NoError(t, w.SelectDate("2025-10-10"))
	waitResolved(t, w)
	require.NoError(t, w.SelectTime("09:00"))

	// Restoring a snapshot with no date behaves the same as never setting one.
	snap := w.Snapshot()
	snap.Draft.Date = ""
	restored := RestoreWizard(snap, src, nil)

	avail := restored.Availability()
	assert.False(t, avail.Loading)
	assert.Empty(t, avail.Slots)
	assert.Empty(t, restored.Snapshot().Draft.Time)
}
