package query

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// ServerStatus is one row of the "servers" result set.
type ServerStatus struct {
	Name   string
	Status string
}

func (s ServerStatus) String() string {
	return fmt.Sprintf("%s:%s", s.Name, s.Status)
}

// SeriesCount is one row of the "series" result set.
type SeriesCount struct {
	Name   string
	Length int
}

// Result wraps a raw query response. Result sets are arrays of column
// pairs, e.g. "servers": [["node0", "running"], ...].
type Result struct {
	raw []byte
}

// NewResult wraps a raw JSON response body.
func NewResult(raw []byte) *Result {
	return &Result{raw: raw}
}

// Servers returns the (name, status) rows of the "servers" result set.
func (r *Result) Servers() []ServerStatus {
	var rows []ServerStatus
	for _, pair := range gjson.GetBytes(r.raw, "servers").Array() {
		cols := pair.Array()
		if len(cols) < 2 {
			continue
		}

		rows = append(rows, ServerStatus{
			Name:   cols[0].String(),
			Status: cols[1].String(),
		})
	}

	return rows
}

// Series returns the (name, length) rows of the "series" result set.
func (r *Result) Series() []SeriesCount {
	var rows []SeriesCount
	for _, pair := range gjson.GetBytes(r.raw, "series").Array() {
		cols := pair.Array()
		if len(cols) < 2 {
			continue
		}

		rows = append(rows, SeriesCount{
			Name:   cols[0].String(),
			Length: int(cols[1].Int()),
		})
	}

	return rows
}
