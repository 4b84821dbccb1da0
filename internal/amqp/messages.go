package amqp

import (
	"encoding/json"
	"time"
)

const (
	KindMutation   = "mutation"
	KindValidation = "validation"
)

// Event is the single message shape on the bus. Mutation events tell the
// worker the collection changed (it re-reads the store for the data);
// validation events carry the rejected input's message for the audit log.
type Event struct {
	Kind      string    `json:"kind"`
	Op        string    `json:"op,omitempty"`
	Count     int       `json:"count,omitempty"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMutationEvent creates an event for an applied mutation.
func NewMutationEvent(op string, count int) *Event {
	return &Event{
		Kind:      KindMutation,
		Op:        op,
		Count:     count,
		Timestamp: time.Now(),
	}
}

// NewValidationEvent creates an event for a rejected mutation.
func NewValidationEvent(message string) *Event {
	return &Event{
		Kind:      KindValidation,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EventFromJSON creates an event from JSON bytes.
func EventFromJSON(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
