// Package series models the named time series a scenario writes to the
// cluster. The in-memory model is the expectation side of series
// reconciliation: its point count is what the cluster must eventually
// report back.
package series

import "encoding/json"

// Point is a single timestamped value.
type Point struct {
	Ts    int64
	Value float64
}

// MarshalJSON encodes a point as the [timestamp, value] pair the ingest
// endpoint expects.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{p.Ts, p.Value})
}

// Series is a named ordered sequence of points. Points added after the
// last commit are considered pending: written but possibly not yet
// reflected in the cluster's queryable length.
type Series struct {
	name    string
	points  []Point
	pending bool
}

// New creates an empty series with the given name.
func New(name string) *Series {
	return &Series{name: name}
}

// Name returns the series identity.
func (s *Series) Name() string {
	return s.name
}

// Add appends a point and marks the series as having pending points.
func (s *Series) Add(ts int64, value float64) {
	s.points = append(s.points, Point{Ts: ts, Value: value})
	s.pending = true
}

// Len returns the number of expected points.
func (s *Series) Len() int {
	return len(s.points)
}

// Points returns the ordered point sequence.
func (s *Series) Points() []Point {
	return s.points
}

// CommitPending reports whether the series had points pending commit and
// clears the pending state. A reconciliation mismatch observed while
// points were pending is write-buffering latency, not data loss; once
// committed, the next comparison is strict.
func (s *Series) CommitPending() bool {
	pending := s.pending
	s.pending = false
	return pending
}
