package renderer

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/spectral-engine/spectral/engine/core"
	"github.com/spectral-engine/spectral/engine/renderer/metadata"
)

// TimeQuery measures GPU time. A QueryTimeElapsed query brackets work with
// Begin/End; a QueryTimestamp query records single points in time via
// Timestamp. Results are reported in nanoseconds.
type TimeQuery struct {
	backend  Backend
	id       uint32
	target   metadata.QueryTarget
	label    string
	released bool
}

// NewTimeQuery creates a timer query of the given target. Fails when the
// backend does not support timer queries.
func NewTimeQuery(backend Backend, target metadata.QueryTarget) (*TimeQuery, error) {
	if !backend.SupportsTimerQueries() {
		return nil, fmt.Errorf("%w: timer queries", core.ErrNotSupported)
	}
	id, err := backend.QueryCreate(target)
	if err != nil {
		return nil, err
	}
	return &TimeQuery{
		backend: backend,
		id:      id,
		target:  target,
		label:   fmt.Sprintf("query-%s", uuid.New().String()[:8]),
	}, nil
}

// WrapTimeQuery adopts an externally created backend query id. The wrapped
// query is destroyed with the object unless Release is called first.
func WrapTimeQuery(backend Backend, id uint32, target metadata.QueryTarget) (*TimeQuery, error) {
	if !backend.SupportsTimerQueries() {
		return nil, fmt.Errorf("%w: timer queries", core.ErrNotSupported)
	}
	return &TimeQuery{
		backend: backend,
		id:      id,
		target:  target,
		label:   fmt.Sprintf("query-%s", uuid.New().String()[:8]),
	}, nil
}

// ID returns the backend query id.
func (q *TimeQuery) ID() uint32 {
	return q.id
}

func (q *TimeQuery) Target() metadata.QueryTarget {
	return q.target
}

func (q *TimeQuery) Label() string {
	return q.label
}

func (q *TimeQuery) SetLabel(label string) {
	q.label = label
}

// Begin starts measuring elapsed time. Only valid on QueryTimeElapsed
// queries.
func (q *TimeQuery) Begin() error {
	if q.target != metadata.QueryTimeElapsed {
		return fmt.Errorf("time query %q: Begin requires a %s target, have %s",
			q.label, metadata.QueryTimeElapsed, q.target)
	}
	return q.backend.QueryBegin(q.id)
}

// End stops measuring elapsed time. Only valid on QueryTimeElapsed queries.
func (q *TimeQuery) End() error {
	if q.target != metadata.QueryTimeElapsed {
		return fmt.Errorf("time query %q: End requires a %s target, have %s",
			q.label, metadata.QueryTimeElapsed, q.target)
	}
	return q.backend.QueryEnd(q.id)
}

// Timestamp records the current GPU timestamp. Only valid on
// QueryTimestamp queries.
func (q *TimeQuery) Timestamp() error {
	if q.target != metadata.QueryTimestamp {
		return fmt.Errorf("time query %q: Timestamp requires a %s target, have %s",
			q.label, metadata.QueryTimestamp, q.target)
	}
	return q.backend.QueryTimestamp(q.id)
}

// Result blocks until the query result is available and returns it in
// nanoseconds.
func (q *TimeQuery) Result() (uint64, error) {
	return q.backend.QueryResult(q.id)
}

// Release detaches the backend query from this object and returns its id.
// The caller becomes responsible for destroying it.
func (q *TimeQuery) Release() uint32 {
	q.released = true
	return q.id
}

// Destroy frees the backend query unless it was released.
func (q *TimeQuery) Destroy() {
	if !q.released {
		q.backend.QueryDestroy(q.id)
	}
}
