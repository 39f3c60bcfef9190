// Package schedule turns a subscription plan and a date range into the
// concrete calendar dates on which delivery occurs. Both the checkout flow
// and the admin dashboard derive delivery dates through this package, so
// the functions here are pure and deterministic.
package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/freshplatter/platter-backend/pkg/plan"
)

var (
	// ErrUnrecognizedPlan is returned when a plan has no delivery weekday
	// set. A silent default here would corrupt billing-relevant delivery
	// commitments, so callers always get an explicit failure.
	ErrUnrecognizedPlan = errors.New("plan has no delivery schedule")

	ErrMissingStartDate = errors.New("delivery start date is required")
	ErrMissingEndDate   = errors.New("delivery end date is required")
)

// Day normalizes t to midnight UTC of its calendar date. All comparisons
// in this package are calendar-day comparisons.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ExpandDates walks every calendar day from start to end inclusive and
// keeps the days whose weekday belongs to the plan's delivery set, in
// chronological order.
//
// oneTime is a single delivery: the result is always [start] and any end
// date is ignored. For ranged plans a zero end date is an error, while
// start > end is a valid empty expansion; the two cases stay
// distinguishable for callers. Legacy pack codes (threeDays, sevenDays,
// thirtyDays) and unknown codes fail with ErrUnrecognizedPlan.
func ExpandDates(code plan.Code, start, end time.Time) ([]time.Time, error) {
	days, ok := code.Weekdays()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnrecognizedPlan, code)
	}
	if start.IsZero() {
		return nil, ErrMissingStartDate
	}

	if code == plan.OneTime {
		return []time.Time{Day(start)}, nil
	}

	if end.IsZero() {
		return nil, ErrMissingEndDate
	}

	allowed := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		allowed[d] = true
	}

	var dates []time.Time
	for d, last := Day(start), Day(end); !d.After(last); d = d.AddDate(0, 0, 1) {
		if allowed[d.Weekday()] {
			dates = append(dates, d)
		}
	}
	return dates, nil
}

// ComputeEndDate derives the delivery window end from its start.
//
// Two deliberately different rules coexist: monthly is a fixed 30
// calendar-day window (start + 29 days, regardless of weekday), while the
// weekday plans walk forward counting delivery-weekday hits until one full
// week's worth has been seen, ending on the final hit. The divergence is
// inherited from the live billing rules and must not be unified.
func ComputeEndDate(start time.Time, code plan.Code) (time.Time, error) {
	days, ok := code.Weekdays()
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognizedPlan, code)
	}
	if start.IsZero() {
		return time.Time{}, ErrMissingStartDate
	}

	switch code {
	case plan.OneTime:
		return Day(start), nil
	case plan.Monthly:
		return Day(start).AddDate(0, 0, 29), nil
	}

	allowed := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		allowed[d] = true
	}

	// The start day itself may or may not be a delivery day; the walk
	// counts only actual hits.
	hits := 0
	d := Day(start)
	for {
		if allowed[d.Weekday()] {
			hits++
			if hits == len(days) {
				return d, nil
			}
		}
		d = d.AddDate(0, 0, 1)
	}
}
