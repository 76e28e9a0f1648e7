package channel

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/PathumRathnayaka/employee-monitoring-system/internal/models"

	"github.com/go-playground/validator/v10"
)

var (
	ErrMalformedPayload = errors.New("malformed update payload")
	ErrMissingTimestamp = errors.New("update payload missing timestamp")
	ErrUnknownShape     = errors.New("update payload matches neither delta nor snapshot")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// deltaPayload is the status_update shape.
type deltaPayload struct {
	EventType string          `json:"event_type" validate:"required,oneof=sleep phone away"`
	Active    *bool           `json:"active" validate:"required"`
	Timestamp json.RawMessage `json:"timestamp"`
}

// snapshotPayload is the status_batch_update and /events/live shape.
type snapshotPayload struct {
	Sleep     *bool           `json:"sleep" validate:"required"`
	Phone     *bool           `json:"phone" validate:"required"`
	Away      *bool           `json:"away" validate:"required"`
	Timestamp json.RawMessage `json:"timestamp"`
}

// DecodeUpdate turns a push payload into a Delta or Snapshot by its shape.
// A payload with an event_type key is a delta; one carrying sleep/phone/away is a snapshot.
// Snapshot timestamps are optional, delta timestamps are required.
func DecodeUpdate(payload []byte) (models.Update, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(payload, &keys); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	if _, ok := keys["event_type"]; ok {
		return decodeDelta(payload)
	}
	for _, f := range models.Fields {
		if _, ok := keys[string(f)]; ok {
			return decodeSnapshot(payload)
		}
	}
	return nil, ErrUnknownShape
}

func decodeDelta(payload []byte) (models.Update, error) {
	var p deltaPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if err := validate.Struct(p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	ts, err := models.ParseTimestamp(p.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if ts.IsZero() {
		return nil, ErrMissingTimestamp
	}
	return models.Delta{Field: models.Field(p.EventType), Active: *p.Active, Timestamp: ts}, nil
}

func decodeSnapshot(payload []byte) (models.Update, error) {
	var p snapshotPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if err := validate.Struct(p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	ts, err := models.ParseTimestamp(p.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return models.Snapshot{Sleep: *p.Sleep, Phone: *p.Phone, Away: *p.Away, Timestamp: ts}, nil
}

