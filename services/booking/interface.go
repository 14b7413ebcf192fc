package booking

import (
	"context"
	"sync"

	doctorRepo "medibook/database/repository/doctor"
	"medibook/models"
	"medibook/services/notification"

	"github.com/go-redis/redis/v8"
)

// SlotSource resolves the bookable slots for a doctor on a calendar date.
// It is the external availability collaborator; implementations may hit the
// database or a remote scheduling system.
type SlotSource interface {
	Slots(ctx context.Context, doctorID, date string) ([]models.Slot, error)
}

// BookingSubmitter persists a completed draft as an appointment. Submission
// failure (including a slot conflict detected at write time) is returned to
// the caller; the draft is never consumed on failure.
type BookingSubmitter interface {
	Submit(ctx context.Context, appointment *models.Appointment) error
}

// DetailsUpdate carries the optional step-3 fields. Nil pointers leave the
// corresponding draft field untouched.
type DetailsUpdate struct {
	Type              *models.AppointmentType `json:"type,omitempty"`
	Reason            *string                 `json:"reason,omitempty"`
	ToggleRequirement *string                 `json:"toggleRequirement,omitempty"`
}

// BookingSessionService defines the interface for managing a stateful booking session.
type BookingSessionService interface {
	InitiateSession(patient models.PatientContext) (*models.BookingSession, error)
	GetSession(sessionID string) (*models.BookingSession, error)
	SelectDoctor(sessionID, doctorID string) (*models.BookingSession, error)
	SelectDate(sessionID, date string) (*models.BookingSession, error)
	SelectTime(sessionID, label string) (*models.BookingSession, error)
	UpdateDetails(sessionID string, upd DetailsUpdate) (*models.BookingSession, error)
	Next(sessionID string) (*models.BookingSession, error)
	Back(sessionID string) (*models.BookingSession, error)
	Availability(sessionID string) (*models.SlotAvailability, error)
	Summary(sessionID string) (*BookingSummary, error)
	Confirm(ctx context.Context, sessionID string) (*models.Appointment, error)
	CancelSession(sessionID string) error
}

// DefaultBookingSessionService implements BookingSessionService. The session
// cache client is injected at construction so snapshot writes from resolver
// goroutines never race a global.
type DefaultBookingSessionService struct {
	DoctorRepo      doctorRepo.DoctorRepository
	Slots           SlotSource
	Submitter       BookingSubmitter
	NotificationSvc notification.NotificationService
	Cache           *redis.Client

	mu     sync.Mutex
	active map[string]*Wizard
}

// NewDefaultBookingSessionService wires the booking session service with its
// collaborators.
func NewDefaultBookingSessionService(
	doctors doctorRepo.DoctorRepository,
	slots SlotSource,
	submitter BookingSubmitter,
	notifSvc notification.NotificationService,
	cache *redis.Client,
) *DefaultBookingSessionService {
	return &DefaultBookingSessionService{
		DoctorRepo:      doctors,
		Slots:           slots,
		Submitter:       submitter,
		NotificationSvc: notifSvc,
		Cache:           cache,
		active:          make(map[string]*Wizard),
	}
}
