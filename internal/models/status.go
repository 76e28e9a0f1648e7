package models

import "time"

// Field names a tracked activity state. Values match the wire event_type.
type Field string

const (
	FieldSleep Field = "sleep"
	FieldPhone Field = "phone"
	FieldAway  Field = "away"
)

// Fields lists the tracked fields in a stable order.
var Fields = [...]Field{FieldSleep, FieldPhone, FieldAway}

// index returns the position of f in Fields, or -1.
func (f Field) index() int {
	for i, known := range Fields {
		if f == known {
			return i
		}
	}
	return -1
}

// Valid reports whether f is one of the tracked fields.
func (f Field) Valid() bool { return f.index() >= 0 }

// StatusRecord is the reconciled view of the subject's current activity.
// The three booleans are independent and may all be true at once.
type StatusRecord struct {
	Sleep bool `json:"sleep"`
	Phone bool `json:"phone"`
	Away  bool `json:"away"`

	LastChangedField Field     `json:"last_changed_field,omitempty"`
	LastChangedAt    time.Time `json:"last_changed_at,omitzero"`
	SyncedAt         time.Time `json:"synced_at,omitzero"` // last applied snapshot

	// changedAt holds the per-field stamp of the last applied change, indexed like Fields.
	changedAt [len(Fields)]time.Time
}

// Get returns the value of f. Unknown fields read as false.
func (r StatusRecord) Get(f Field) bool {
	switch f {
	case FieldSleep:
		return r.Sleep
	case FieldPhone:
		return r.Phone
	case FieldAway:
		return r.Away
	}
	return false
}

// With returns a copy of r with f set to active. Unknown fields leave r unchanged.
func (r StatusRecord) With(f Field, active bool) StatusRecord {
	switch f {
	case FieldSleep:
		r.Sleep = active
	case FieldPhone:
		r.Phone = active
	case FieldAway:
		r.Away = active
	}
	return r
}

// ChangedAt returns the stamp of the last change applied to f.
func (r StatusRecord) ChangedAt(f Field) time.Time {
	if i := f.index(); i >= 0 {
		return r.changedAt[i]
	}
	return time.Time{}
}

// Stamped returns a copy of r with the change stamp of f set to ts.
func (r StatusRecord) Stamped(f Field, ts time.Time) StatusRecord {
	if i := f.index(); i >= 0 {
		r.changedAt[i] = ts
	}
	return r
}

// SameValues reports whether r and o agree on all three fields.
func (r StatusRecord) SameValues(o StatusRecord) bool {
	return r.Sleep == o.Sleep && r.Phone == o.Phone && r.Away == o.Away
}

// LiveStatus is the wire shape of GET /events/live/{subjectId}.
type LiveStatus struct {
	Sleep bool `json:"sleep"`
	Phone bool `json:"phone"`
	Away  bool `json:"away"`
}
