package plan

import (
	"fmt"
	"time"
)

// Code identifies a subscription cadence or a legacy fixed-duration pack.
// The set of codes is closed; anything else is rejected at the boundary by
// Parse so that price and schedule lookups never see an unknown code.
type Code string

const (
	OneTime    Code = "oneTime"     // single delivery
	Monthly    Code = "monthly"     // 30-day window, Mon-Sat deliveries
	Weekly3MWF Code = "weekly3_MWF" // Mon/Wed/Fri
	Weekly3TTS Code = "weekly3_TTS" // Tue/Thu/Sat
	Weekly6    Code = "weekly6"     // Mon-Sat

	// Legacy fixed-duration packs. Still valid price-table keys on older
	// catalog entries and historical orders, but they carry no delivery
	// weekday set.
	ThreeDays  Code = "threeDays"
	SevenDays  Code = "sevenDays"
	ThirtyDays Code = "thirtyDays"
)

// ErrUnknownCode is returned by Parse for a code outside the closed set.
var ErrUnknownCode = fmt.Errorf("unknown plan code")

// Codes lists every recognized code in canonical order.
var Codes = []Code{OneTime, Monthly, Weekly3MWF, Weekly3TTS, Weekly6, ThreeDays, SevenDays, ThirtyDays}

var all = map[Code]struct{}{
	OneTime:    {},
	Monthly:    {},
	Weekly3MWF: {},
	Weekly3TTS: {},
	Weekly6:    {},
	ThreeDays:  {},
	SevenDays:  {},
	ThirtyDays: {},
}

// deliveryWeekdays maps each schedulable plan to the weekdays on which a
// delivery occurs. Legacy pack codes are deliberately absent: they priced
// a fixed bundle and never drove the delivery calendar.
var deliveryWeekdays = map[Code][]time.Weekday{
	Weekly3MWF: {time.Monday, time.Wednesday, time.Friday},
	Weekly3TTS: {time.Tuesday, time.Thursday, time.Saturday},
	Weekly6:    {time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday},
	Monthly:    {time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday},
	OneTime:    {time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday},
}

// Parse validates a raw plan code string.
func Parse(s string) (Code, error) {
	c := Code(s)
	if _, ok := all[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCode, s)
	}
	return c, nil
}

// Valid reports whether c belongs to the closed code set.
func (c Code) Valid() bool {
	_, ok := all[c]
	return ok
}

// Weekdays returns the delivery weekday set for c. ok is false for legacy
// pack codes and for codes outside the closed set.
func (c Code) Weekdays() ([]time.Weekday, bool) {
	days, ok := deliveryWeekdays[c]
	return days, ok
}

// DeliversOn reports whether a delivery for plan c falls on weekday d.
func (c Code) DeliversOn(d time.Weekday) bool {
	days, ok := deliveryWeekdays[c]
	if !ok {
		return false
	}
	for _, day := range days {
		if day == d {
			return true
		}
	}
	return false
}

// ResolvePrice looks up the price for c in a product's price table,
// falling back to the oneTime price and then to the first populated key.
// ok is false only when the table is empty; a resolvable table never
// produces an undefined price.
func ResolvePrice(table map[Code]float64, c Code) (Code, float64, bool) {
	if price, found := table[c]; found {
		return c, price, true
	}
	if price, found := table[OneTime]; found {
		return OneTime, price, true
	}
	for _, code := range Codes {
		if price, found := table[code]; found {
			return code, price, true
		}
	}
	return "", 0, false
}
