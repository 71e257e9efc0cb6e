package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

type EventType string

const (
	EventLeadCaptured      EventType = "lead.captured"
	EventPartnerRegistered EventType = "partner.registered"
	EventLeadsDigest       EventType = "leads.digest"
)

// Event is the envelope written to the stream. Payload is kept as raw JSON so
// consumers decode it into the type matching Type.
type Event struct {
	ID         string
	Type       EventType
	Payload    json.RawMessage
	OccurredAt time.Time
}

func NewEvent(eventType EventType, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return Event{
		Type:       eventType,
		Payload:    raw,
		OccurredAt: time.Now().UTC(),
	}, nil
}

func (e Event) values() map[string]any {
	return map[string]any{
		"type":       string(e.Type),
		"payload":    string(e.Payload),
		"occurredAt": e.OccurredAt.Format(time.RFC3339Nano),
	}
}

func eventFromValues(id string, values map[string]any) (Event, error) {
	typ, _ := values["type"].(string)
	if typ == "" {
		return Event{}, fmt.Errorf("message %s: missing type", id)
	}
	payload, _ := values["payload"].(string)
	if payload == "" {
		payload = "null"
	}
	occurred := time.Time{}
	if raw, ok := values["occurredAt"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			occurred = t
		}
	}
	return Event{
		ID:         id,
		Type:       EventType(typ),
		Payload:    json.RawMessage(payload),
		OccurredAt: occurred,
	}, nil
}
