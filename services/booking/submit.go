package booking

import (
	"context"
	"fmt"

	appointmentRepo "medibook/database/repository/appointment"
	"medibook/models"
)

// RepoBookingSubmitter implements BookingSubmitter against the appointment
// repository. It re-checks slot occupancy at write time; a slot taken
// between confirmation and submission surfaces as a submission failure and
// the wizard keeps the draft for retry.
type RepoBookingSubmitter struct {
	Appointments appointmentRepo.AppointmentRepository
}

func (s *RepoBookingSubmitter) Submit(ctx context.Context, appointment *models.Appointment) error {
	taken, err := s.Appointments.ExistsForSlot(appointment.DoctorID, appointment.Date, appointment.Time)
	if err != nil {
		return NewSubmitError(fmt.Sprintf("failed to verify slot availability: %v", err))
	}
	if taken {
		return NewSubmitError(fmt.Sprintf("slot %s on %s was just booked by another patient", appointment.Time, appointment.Date))
	}
	if err := s.Appointments.Create(appointment); err != nil {
		return NewSubmitError(fmt.Sprintf("failed to create appointment: %v", err))
	}
	return nil
}
