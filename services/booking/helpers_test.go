package booking

import (
	"context"
	"sync"

	"medibook/models"
)

// stubSlotSource returns a fixed slot set (or error) immediately. Swap the
// fields between resolutions to simulate availability changing over time.
type stubSlotSource struct {
	mu    sync.Mutex
	slots []models.Slot
	err   error
	calls int
}

func (s *stubSlotSource) Slots(ctx context.Context, doctorID, date string) ([]models.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return append([]models.Slot(nil), s.slots...), nil
}

func (s *stubSlotSource) set(slots []models.Slot, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = slots
	s.err = err
}

func (s *stubSlotSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// gatedSlotSource blocks each resolution until the test releases it, so
// completion order can be scripted independently of trigger order.
type gatedSlotSource struct {
	mu      sync.Mutex
	started chan *gatedCall
}

type gatedCall struct {
	doctorID string
	date     string
	gate     chan []models.Slot
}

func newGatedSlotSource() *gatedSlotSource {
	return &gatedSlotSource{started: make(chan *gatedCall, 8)}
}

func (g *gatedSlotSource) Slots(ctx context.Context, doctorID, date string) ([]models.Slot, error) {
	call := &gatedCall{doctorID: doctorID, date: date, gate: make(chan []models.Slot)}
	g.started <- call
	return <-call.gate, nil
}

// gatedSubmitter holds each submission in flight until the test releases it
// with a result, and records successes.
type gatedSubmitter struct {
	mu           sync.Mutex
	entered      chan struct{}
	release      chan error
	appointments []models.Appointment
}

func newGatedSubmitter() *gatedSubmitter {
	return &gatedSubmitter{
		entered: make(chan struct{}, 4),
		release: make(chan error),
	}
}

func (g *gatedSubmitter) Submit(ctx context.Context, appointment *models.Appointment) error {
	g.entered <- struct{}{}
	if err := <-g.release; err != nil {
		return err
	}
	g.mu.Lock()
	g.appointments = append(g.appointments, *appointment)
	g.mu.Unlock()
	return nil
}

func (g *gatedSubmitter) submitted() []models.Appointment {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]models.Appointment(nil), g.appointments...)
}

// captureSubmitter records submitted appointments, or fails every submit
// when err is set.
type captureSubmitter struct {
	mu           sync.Mutex
	appointments []models.Appointment
	err          error
}

func (c *captureSubmitter) Submit(ctx context.Context, appointment *models.Appointment) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.appointments = append(c.appointments, *appointment)
	return nil
}

func (c *captureSubmitter) submitted() []models.Appointment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Appointment(nil), c.appointments...)
}

func availableSlots(labels ...string) []models.Slot {
	slots := make([]models.Slot, 0, len(labels))
	for _, l := range labels {
		slots = append(slots, models.Slot{Label: l, Available: true})
	}
	return slots
}

func testDoctor() models.Doctor {
	return models.Doctor{
		ID:        "doc-1",
		Name:      "Dr. Sarah Johnson",
		Specialty: "Cardiology",
		Branch:    "Downtown Medical Center",
		Rating:    4.8,
	}
}
