// Package events publishes a record of each assistant interaction.
package events

import (
	"context"
	"time"

	"github.com/Suhaib536/Ai-SalesCall-Assist/internal/models"
	"github.com/google/uuid"
)

// Kind names the pipeline entry point that produced an event.
type Kind string

const (
	KindInteraction Kind = "interaction"
	KindObjection   Kind = "objection"
	KindSummary     Kind = "summary"
)

type InteractionEvent struct {
	ID          string         `json:"id"`
	Kind        Kind           `json:"kind"`
	Customer    string         `json:"customer"`
	StateOfMind int            `json:"state_of_mind,omitempty"`
	Emotion     models.Emotion `json:"emotion,omitempty"`
	Text        string         `json:"text"`
	Output      string         `json:"output"`
	Timestamp   time.Time      `json:"timestamp"`
}

// NewEvent stamps a fresh id and the current UTC time.
func NewEvent(kind Kind, customer, text, output string) InteractionEvent {
	return InteractionEvent{
		ID:        uuid.New().String(),
		Kind:      kind,
		Customer:  customer,
		Text:      text,
		Output:    output,
		Timestamp: time.Now().UTC(),
	}
}

// Publisher delivers interaction events somewhere outside the process.
type Publisher interface {
	Publish(ctx context.Context, event InteractionEvent) error
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, InteractionEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
