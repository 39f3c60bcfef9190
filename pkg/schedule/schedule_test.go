package schedule

import (
	"testing"
	"time"

	"github.com/freshplatter/platter-backend/pkg/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// 2025-01-06 is a Monday.
var monday = date(2025, time.January, 6)

func TestExpandDates_Weekly3MWF(t *testing.T) {
	// Monday through the following Sunday yields exactly Mon, Wed, Fri.
	dates, err := ExpandDates(plan.Weekly3MWF, monday, monday.AddDate(0, 0, 6))
	require.NoError(t, err)

	assert.Equal(t, []time.Time{
		date(2025, time.January, 6),
		date(2025, time.January, 8),
		date(2025, time.January, 10),
	}, dates)
}

func TestExpandDates_Weekly3TTS(t *testing.T) {
	dates, err := ExpandDates(plan.Weekly3TTS, monday, monday.AddDate(0, 0, 6))
	require.NoError(t, err)

	assert.Equal(t, []time.Time{
		date(2025, time.January, 7),
		date(2025, time.January, 9),
		date(2025, time.January, 11),
	}, dates)
}

func TestExpandDates_MonthlySkipsSundays(t *testing.T) {
	end := monday.AddDate(0, 0, 13)
	dates, err := ExpandDates(plan.Monthly, monday, end)
	require.NoError(t, err)

	assert.Len(t, dates, 12)
	for _, d := range dates {
		assert.NotEqual(t, time.Sunday, d.Weekday())
	}
}

func TestExpandDates_StartNotOnDeliveryDay(t *testing.T) {
	// Start on a Sunday; the first MWF hit is the Monday after.
	sunday := monday.AddDate(0, 0, -1)
	dates, err := ExpandDates(plan.Weekly3MWF, sunday, sunday.AddDate(0, 0, 3))
	require.NoError(t, err)

	require.NotEmpty(t, dates)
	assert.Equal(t, monday, dates[0])
}

func TestExpandDates_OneTimeIgnoresEndDate(t *testing.T) {
	d := date(2025, time.March, 14)

	for _, end := range []time.Time{{}, d.AddDate(0, 0, 30), d.AddDate(0, 0, -5)} {
		dates, err := ExpandDates(plan.OneTime, d, end)
		require.NoError(t, err)
		assert.Equal(t, []time.Time{d}, dates)
	}
}

func TestExpandDates_StartAfterEndIsValidEmpty(t *testing.T) {
	dates, err := ExpandDates(plan.Weekly6, monday, monday.AddDate(0, 0, -3))
	assert.NoError(t, err)
	assert.Empty(t, dates)
}

func TestExpandDates_MissingDates(t *testing.T) {
	_, err := ExpandDates(plan.Weekly6, time.Time{}, monday)
	assert.ErrorIs(t, err, ErrMissingStartDate)

	_, err = ExpandDates(plan.Weekly6, monday, time.Time{})
	assert.ErrorIs(t, err, ErrMissingEndDate)
}

func TestExpandDates_UnrecognizedPlan(t *testing.T) {
	_, err := ExpandDates(plan.Code("bogusPlan"), monday, monday.AddDate(0, 0, 7))
	assert.ErrorIs(t, err, ErrUnrecognizedPlan)

	// Legacy packs carry no delivery calendar either.
	_, err = ExpandDates(plan.ThirtyDays, monday, monday.AddDate(0, 0, 30))
	assert.ErrorIs(t, err, ErrUnrecognizedPlan)
}

func TestExpandDates_NormalizesToMidnightUTC(t *testing.T) {
	noisy := time.Date(2025, time.January, 6, 17, 43, 12, 0, time.UTC)
	dates, err := ExpandDates(plan.Weekly3MWF, noisy, noisy.AddDate(0, 0, 2))
	require.NoError(t, err)
	require.NotEmpty(t, dates)
	assert.Equal(t, monday, dates[0])
}

func TestComputeEndDate_Weekly3StartingMonday(t *testing.T) {
	// Three hits from a Monday: Mon, Wed, Fri of the same week.
	end, err := ComputeEndDate(monday, plan.Weekly3MWF)
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.January, 10), end)
}

func TestComputeEndDate_Weekly3StartingOffCycle(t *testing.T) {
	// Starting Tuesday, the MWF hits are Wed, Fri, next Mon.
	end, err := ComputeEndDate(monday.AddDate(0, 0, 1), plan.Weekly3MWF)
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.January, 13), end)
}

func TestComputeEndDate_Weekly6(t *testing.T) {
	// Six hits from a Monday end on the Saturday five days later.
	end, err := ComputeEndDate(monday, plan.Weekly6)
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.January, 11), end)
}

func TestComputeEndDate_MonthlyFixedWindow(t *testing.T) {
	// Fixed 30-calendar-day window, independent of weekday.
	end, err := ComputeEndDate(date(2025, time.January, 1), plan.Monthly)
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.January, 30), end)
}

func TestComputeEndDate_OneTime(t *testing.T) {
	d := date(2025, time.July, 20) // a Sunday, still its own end date
	end, err := ComputeEndDate(d, plan.OneTime)
	require.NoError(t, err)
	assert.Equal(t, d, end)
}

func TestComputeEndDate_UnrecognizedPlan(t *testing.T) {
	_, err := ComputeEndDate(monday, plan.Code("bogusPlan"))
	assert.ErrorIs(t, err, ErrUnrecognizedPlan)

	_, err = ComputeEndDate(monday, plan.SevenDays)
	assert.ErrorIs(t, err, ErrUnrecognizedPlan)
}

func TestComputeEndDate_MissingStart(t *testing.T) {
	_, err := ComputeEndDate(time.Time{}, plan.Weekly6)
	assert.ErrorIs(t, err, ErrMissingStartDate)
}

func TestExpandDates_RoundTripWithComputedEnd(t *testing.T) {
	// Expanding up to the computed end date yields exactly one week's
	// worth of deliveries for every weekday plan.
	for _, c := range []plan.Code{plan.Weekly3MWF, plan.Weekly3TTS, plan.Weekly6} {
		days, ok := c.Weekdays()
		require.True(t, ok)

		end, err := ComputeEndDate(monday, c)
		require.NoError(t, err)

		dates, err := ExpandDates(c, monday, end)
		require.NoError(t, err)
		assert.Len(t, dates, len(days), "plan %q", c)
	}
}
