// File: services/booking/booking.go
package booking

import (
	"context"
	"encoding/json"
	"fmt"

	"medibook/models"
	"medibook/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// InitiateSession creates a new booking session for the given patient,
// assigns it a unique SessionID, registers the live wizard and stores a
// snapshot in Redis. It returns the initial session snapshot.
func (s *DefaultBookingSessionService) InitiateSession(patient models.PatientContext) (*models.BookingSession, error) {
	if patient.PatientID == "" {
		return nil, NewInvalidInputError("patient context is missing a patient ID")
	}

	sessionID := uuid.New().String()
	w := NewWizard(sessionID, patient, s.Slots, s.persistSnapshot)

	s.mu.Lock()
	if s.active == nil {
		s.active = make(map[string]*Wizard)
	}
	s.active[sessionID] = w
	s.mu.Unlock()

	snap := w.Snapshot()
	s.persistSnapshot(snap)
	return &snap, nil
}

// GetSession returns the current snapshot for a session.
func (s *DefaultBookingSessionService) GetSession(sessionID string) (*models.BookingSession, error) {
	w, err := s.wizard(sessionID)
	if err != nil {
		return nil, err
	}
	snap := w.Snapshot()
	return &snap, nil
}

// CancelSession allows the client to explicitly cancel a booking session.
// It drops the live wizard and deletes the snapshot from the cache.
func (s *DefaultBookingSessionService) CancelSession(sessionID string) error {
	s.mu.Lock()
	delete(s.active, sessionID)
	s.mu.Unlock()

	ctx := context.Background()
	if err := s.Cache.Del(ctx, utils.SessionKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to cancel booking session: %w", err)
	}
	return nil
}

// wizard returns the live wizard for a session, rehydrating it from the
// Redis snapshot if this process has not seen the session yet (restart, or
// another instance initiated it). Rehydration re-resolves availability; the
// persisted slot set is stale by definition.
func (s *DefaultBookingSessionService) wizard(sessionID string) (*Wizard, error) {
	if sessionID == "" {
		return nil, NewInvalidInputError("booking session not initialized")
	}

	s.mu.Lock()
	if w, ok := s.active[sessionID]; ok {
		s.mu.Unlock()
		return w, nil
	}
	s.mu.Unlock()

	ctx := context.Background()
	sessionData, err := s.Cache.Get(ctx, utils.SessionKeyPrefix+sessionID).Result()
	if err == redis.Nil {
		return nil, NewSessionNotFoundError("booking session not found or expired")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking session: %w", err)
	}

	var snap models.BookingSession
	if err := json.Unmarshal([]byte(sessionData), &snap); err != nil {
		return nil, fmt.Errorf("failed to parse booking session: %w", err)
	}

	w := RestoreWizard(snap, s.Slots, s.persistSnapshot)

	s.mu.Lock()
	if s.active == nil {
		s.active = make(map[string]*Wizard)
	}
	// Another request may have rehydrated concurrently; keep the first.
	if existing, ok := s.active[sessionID]; ok {
		s.mu.Unlock()
		return existing, nil
	}
	s.active[sessionID] = w
	s.mu.Unlock()

	return w, nil
}

// persistSnapshot mirrors a wizard snapshot into Redis with the session TTL.
// It is called after every wizard mutation and on resolver completion, so
// the snapshot a client reads is never older than the last change.
func (s *DefaultBookingSessionService) persistSnapshot(snap models.BookingSession) {
	logger := utils.GetLogger()

	sessionData, err := json.Marshal(snap)
	if err != nil {
		logger.Sugar().Errorf("failed to marshal booking session %s: %v", snap.SessionID, err)
		return
	}

	ctx := context.Background()
	if err := s.Cache.Set(ctx, utils.SessionKeyPrefix+snap.SessionID, sessionData, utils.SessionTTL).Err(); err != nil {
		logger.Sugar().Errorf("failed to store booking session %s: %v", snap.SessionID, err)
	}
}

// dropSession removes a consumed session after a successful confirm.
func (s *DefaultBookingSessionService) dropSession(sessionID string) {
	s.mu.Lock()
	delete(s.active, sessionID)
	s.mu.Unlock()

	ctx := context.Background()
	s.Cache.Del(ctx, utils.SessionKeyPrefix+sessionID)
}
