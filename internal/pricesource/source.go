// Package pricesource defines the interface for fetching historical asset
// prices from external quote vendors, plus the calendar-day range type the
// fetch contract is expressed in.
package pricesource

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Day clamps a timestamp to its calendar day (midnight UTC). All dates in
// this package are day-granular.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewDateRange builds a range from two timestamps, clamped to days.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: Day(start), End: Day(end)}
}

// Empty reports whether the range contains no days (start after end).
func (r DateRange) Empty() bool {
	return r.Start.After(r.End)
}

// Contains reports whether the given day falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Days returns the number of calendar days in the range, zero when empty.
func (r DateRange) Days() int {
	if r.Empty() {
		return 0
	}
	return int(r.End.Sub(r.Start)/(24*time.Hour)) + 1
}

// String formats the range for logs and error messages.
func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
}

// Observation is a single dated price reported by a quote source.
type Observation struct {
	Date  time.Time
	Price decimal.Decimal
}

// Source fetches historical price observations for one instrument.
type Source interface {
	// Name returns the source's display name (e.g. "MarketWatch").
	Name() string

	// Fetch returns daily price observations for the given instrument
	// identifier over the requested range. Observations outside the range
	// may be returned as delivered by the vendor; callers must reject them.
	Fetch(ctx context.Context, identifier string, r DateRange) ([]Observation, error)
}

// FetchError represents a failed fetch against a quote source.
type FetchError struct {
	Source     string
	Identifier string
	Err        error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: no prices for %s: %v", e.Source, e.Identifier, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error { return e.Err }
