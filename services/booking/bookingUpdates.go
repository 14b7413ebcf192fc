// File: services/booking/bookingUpdates.go
package booking

import (
	"context"
	"fmt"
	"time"

	"medibook/models"
	"medibook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SelectDoctor validates the doctor against the directory and records the
// selection; the wizard re-resolves availability as a side effect.
func (s *DefaultBookingSessionService) SelectDoctor(sessionID, doctorID string) (*models.BookingSession, error) {
	w, err := s.wizard(sessionID)
	if err != nil {
		return nil, err
	}

	doctor, err := s.DoctorRepo.GetByID(doctorID)
	if err != nil {
		return nil, NewInvalidInputError(fmt.Sprintf("doctor %s not found in the directory", doctorID))
	}

	w.SelectDoctor(*doctor)
	snap := w.Snapshot()
	return &snap, nil
}

// SelectDate records the requested calendar date; the wizard re-resolves
// availability as a side effect.
func (s *DefaultBookingSessionService) SelectDate(sessionID, date string) (*models.BookingSession, error) {
	w, err := s.wizard(sessionID)
	if err != nil {
		return nil, err
	}
	if err := w.SelectDate(date); err != nil {
		return nil, err
	}
	snap := w.Snapshot()
	return &snap, nil
}

// SelectTime records the chosen slot label.
func (s *DefaultBookingSessionService) SelectTime(sessionID, label string) (*models.BookingSession, error) {
	w, err := s.wizard(sessionID)
	if err != nil {
		return nil, err
	}
	if err := w.SelectTime(label); err != nil {
		return nil, err
	}
	snap := w.Snapshot()
	return &snap, nil
}

// UpdateDetails applies the optional type/reason/requirement fields. These
// never trigger slot resolution and never invalidate the selected time.
func (s *DefaultBookingSessionService) UpdateDetails(sessionID string, upd DetailsUpdate) (*models.BookingSession, error) {
	w, err := s.wizard(sessionID)
	if err != nil {
		return nil, err
	}
	if upd.Type != nil {
		if err := w.SetType(*upd.Type); err != nil {
			return nil, err
		}
	}
	if upd.Reason != nil {
		w.SetReason(*upd.Reason)
	}
	if upd.ToggleRequirement != nil {
		if err := w.ToggleRequirement(*upd.ToggleRequirement); err != nil {
			return nil, err
		}
	}
	snap := w.Snapshot()
	return &snap, nil
}

// Next advances the wizard one step.
func (s *DefaultBookingSessionService) Next(sessionID string) (*models.BookingSession, error) {
	w, err := s.wizard(sessionID)
	if err != nil {
		return nil, err
	}
	if err := w.Next(); err != nil {
		return nil, err
	}
	snap := w.Snapshot()
	return &snap, nil
}

// Back returns the wizard to the previous step, preserving entered data.
func (s *DefaultBookingSessionService) Back(sessionID string) (*models.BookingSession, error) {
	w, err := s.wizard(sessionID)
	if err != nil {
		return nil, err
	}
	if err := w.Back(); err != nil {
		return nil, err
	}
	snap := w.Snapshot()
	return &snap, nil
}

// Availability returns the current slot availability for a session.
func (s *DefaultBookingSessionService) Availability(sessionID string) (*models.SlotAvailability, error) {
	w, err := s.wizard(sessionID)
	if err != nil {
		return nil, err
	}
	avail := w.Availability()
	return &avail, nil
}

// Summary returns the confirmation-step projection of the session's draft.
func (s *DefaultBookingSessionService) Summary(sessionID string) (*BookingSummary, error) {
	w, err := s.wizard(sessionID)
	if err != nil {
		return nil, err
	}
	snap := w.Snapshot()
	summary := SummarizeDraft(snap.Draft)
	return &summary, nil
}

// Confirm finalizes the booking: the wizard hands the completed draft to the
// submitter, and on success the session is consumed and notifications go out
// in the background. Submission failure leaves the session (and its draft)
// intact for retry.
func (s *DefaultBookingSessionService) Confirm(ctx context.Context, sessionID string) (*models.Appointment, error) {
	w, err := s.wizard(sessionID)
	if err != nil {
		return nil, err
	}

	appointment, err := w.Confirm(ctx, s.Submitter, func() string { return uuid.New().String() })
	if err != nil {
		return nil, err
	}

	s.dropSession(sessionID)

	if s.NotificationSvc != nil {
		go s.sendBookingNotifications(*appointment)
	}

	return appointment, nil
}

// sendBookingNotifications delivers the confirmation email and schedules the
// 24h reminder. Notification failure never fails the booking.
func (s *DefaultBookingSessionService) sendBookingNotifications(appointment models.Appointment) {
	logger := utils.GetLogger()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.NotificationSvc.SendBookingConfirmation(ctx, appointment); err != nil {
		logger.Warn("failed to send booking confirmation",
			zap.String("appointmentID", appointment.ID), zap.Error(err))
	}
	if err := s.NotificationSvc.ScheduleReminder(appointment); err != nil {
		logger.Warn("failed to schedule appointment reminder",
			zap.String("appointmentID", appointment.ID), zap.Error(err))
	}
}
