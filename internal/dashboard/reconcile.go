package dashboard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PathumRathnayaka/employee-monitoring-system/internal/models"
)

// Policy decides how updates from different sources are ordered.
type Policy int

const (
	// ArrivalOrder applies every update in the order it arrives; the last applied wins per field.
	// A delayed delta may overwrite a newer snapshot.
	ArrivalOrder Policy = iota
	// MonotonicTimestamp applies a change to a field only if its timestamp is after
	// the last change applied to that field.
	MonotonicTimestamp
)

func (p Policy) String() string {
	if p == MonotonicTimestamp {
		return "monotonic"
	}
	return "arrival"
}

var (
	ErrNilUpdate        = errors.New("nil update")
	ErrUnknownField     = errors.New("unknown status field")
	ErrMissingTimestamp = errors.New("delta without timestamp")
	ErrStaleUpdate      = errors.New("update older than current field state")
	errUnknownPolicy    = errors.New("unknown ordering policy")
)

// ParsePolicy maps a config value to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "arrival":
		return ArrivalOrder, nil
	case "monotonic":
		return MonotonicTimestamp, nil
	}
	return ArrivalOrder, fmt.Errorf("%w: %q", errUnknownPolicy, s)
}

// Reconciler merges updates into a StatusRecord under a Policy.
type Reconciler struct {
	Policy Policy
}

// Reconcile applies u to current under the arrival-order policy.
func Reconcile(current models.StatusRecord, u models.Update) (models.StatusRecord, error) {
	return Reconciler{Policy: ArrivalOrder}.Reconcile(current, u)
}

// Reconcile returns the record that results from applying u to current.
// It never mutates current; on error the returned record equals current.
// ErrStaleUpdate is only returned by MonotonicTimestamp for a rejected delta.
func (r Reconciler) Reconcile(current models.StatusRecord, u models.Update) (models.StatusRecord, error) {
	switch u := u.(type) {
	case models.Delta:
		return r.applyDelta(current, u)
	case models.Snapshot:
		return r.applySnapshot(current, u), nil
	case nil:
		return current, ErrNilUpdate
	default:
		return current, fmt.Errorf("unsupported update %T", u)
	}
}

func (r Reconciler) applyDelta(current models.StatusRecord, d models.Delta) (models.StatusRecord, error) {
	if !d.Field.Valid() {
		return current, fmt.Errorf("%w: %q", ErrUnknownField, d.Field)
	}
	if d.Timestamp.IsZero() {
		return current, ErrMissingTimestamp
	}
	if r.Policy == MonotonicTimestamp && !d.Timestamp.After(current.ChangedAt(d.Field)) {
		return current, ErrStaleUpdate
	}

	next := current.With(d.Field, d.Active).Stamped(d.Field, d.Timestamp)
	next.LastChangedField = d.Field
	next.LastChangedAt = d.Timestamp
	return next, nil
}

// applySnapshot replaces all fields. Under MonotonicTimestamp a timestamped snapshot
// only replaces fields whose last change is older than the snapshot.
func (r Reconciler) applySnapshot(current models.StatusRecord, s models.Snapshot) models.StatusRecord {
	next := current
	for _, f := range models.Fields {
		if r.Policy == MonotonicTimestamp && !s.Timestamp.IsZero() && !s.Timestamp.After(current.ChangedAt(f)) {
			continue
		}
		next = next.With(f, s.Get(f))
		if !s.Timestamp.IsZero() {
			next = next.Stamped(f, s.Timestamp)
		}
	}
	if !s.Timestamp.IsZero() {
		next.SyncedAt = s.Timestamp
	}
	return next
}

// TimelineEventOf derives the timeline entry an applied delta produces.
func TimelineEventOf(d models.Delta) models.TimelineEvent {
	return models.TimelineEvent{
		EventType:  d.Field,
		Transition: models.TransitionFor(d.Active),
		Timestamp:  d.Timestamp,
	}
}
