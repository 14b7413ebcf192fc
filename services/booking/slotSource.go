package booking

import (
	"context"
	"fmt"

	appointmentRepo "medibook/database/repository/appointment"
	"medibook/models"
)

// Consultation slots run every half hour from opening to the last slot
// before closing. The generation order here is the canonical display order.
const (
	openingHour = 9
	closingHour = 17
)

var slotLabels = buildSlotLabels()

func buildSlotLabels() []string {
	labels := make([]string, 0, (closingHour-openingHour)*2)
	for h := openingHour; h < closingHour; h++ {
		labels = append(labels, fmt.Sprintf("%02d:00", h), fmt.Sprintf("%02d:30", h))
	}
	return labels
}

// AppointmentSlotSource derives slot availability from existing appointment
// records: a candidate slot is unavailable when a non-cancelled appointment
// already occupies it for that doctor and date.
type AppointmentSlotSource struct {
	Appointments appointmentRepo.AppointmentRepository
}

func (s *AppointmentSlotSource) Slots(ctx context.Context, doctorID, date string) ([]models.Slot, error) {
	appointments, err := s.Appointments.GetByDoctorAndDate(doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings for doctor %s on %s: %w", doctorID, date, err)
	}

	taken := make(map[string]bool, len(appointments))
	for _, a := range appointments {
		taken[a.Time] = true
	}

	slots := make([]models.Slot, 0, len(slotLabels))
	for _, label := range slotLabels {
		slots = append(slots, models.Slot{Label: label, Available: !taken[label]})
	}
	return slots, nil
}
