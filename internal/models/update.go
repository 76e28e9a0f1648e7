package models

import "time"

// Update is an input to the reconciler: either a Delta or a Snapshot.
type Update interface {
	isUpdate()
}

// Delta is a single-field change with its provenance timestamp.
type Delta struct {
	Field     Field
	Active    bool
	Timestamp time.Time
}

// Snapshot replaces all tracked fields. Timestamp may be zero.
type Snapshot struct {
	Sleep     bool
	Phone     bool
	Away      bool
	Timestamp time.Time
}

func (Delta) isUpdate()    {}
func (Snapshot) isUpdate() {}

// SnapshotOf converts a live status payload into a Snapshot stamped with ts.
func SnapshotOf(s LiveStatus, ts time.Time) Snapshot {
	return Snapshot{Sleep: s.Sleep, Phone: s.Phone, Away: s.Away, Timestamp: ts}
}

// Get returns the snapshot value of f.
func (s Snapshot) Get(f Field) bool {
	switch f {
	case FieldSleep:
		return s.Sleep
	case FieldPhone:
		return s.Phone
	case FieldAway:
		return s.Away
	}
	return false
}
