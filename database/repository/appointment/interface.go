package appointmentRepo

import "medibook/models"

// AppointmentRepository defines methods for appointment data access.
type AppointmentRepository interface {
	// Create inserts a new appointment record.
	Create(appointment *models.Appointment) error
	// GetByID retrieves an appointment by its unique ID.
	GetByID(id string) (*models.Appointment, error)
	// GetByDoctorAndDate returns all non-cancelled appointments for a doctor
	// on a calendar date.
	GetByDoctorAndDate(doctorID, date string) ([]models.Appointment, error)
	// ExistsForSlot reports whether a non-cancelled appointment already
	// occupies the given doctor/date/time slot.
	ExistsForSlot(doctorID, date, timeLabel string) (bool, error)
	// GetByPatient returns all appointments booked by a patient.
	GetByPatient(patientID string) ([]models.Appointment, error)
	// Cancel marks an appointment as cancelled.
	Cancel(id string) error
}
