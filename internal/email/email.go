package email

import (
	"context"
	"log"

	"github.com/roamtravel/roamcore/internal/kafka"
)

// Sender delivers trip notifications. The current implementation only logs;
// it exists so the worker's consume loop has a real delivery seam.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.TripEvent) error {
	log.Printf("notify: trip %s (%s) %s, %d passengers", event.TripGUID, event.TripName, event.Type, event.PassengerCount)
	return nil
}
