package plan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_KnownCodes(t *testing.T) {
	for _, c := range Codes {
		parsed, err := Parse(string(c))
		assert.NoError(t, err)
		assert.Equal(t, c, parsed)
	}
}

func TestParse_UnknownCode(t *testing.T) {
	_, err := Parse("bogusPlan")
	assert.ErrorIs(t, err, ErrUnknownCode)

	_, err = Parse("")
	assert.ErrorIs(t, err, ErrUnknownCode)
}

func TestWeekdays_Weekly3MWF(t *testing.T) {
	days, ok := Weekly3MWF.Weekdays()
	require.True(t, ok)
	assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday, time.Friday}, days)
}

func TestWeekdays_Weekly6ExcludesSunday(t *testing.T) {
	days, ok := Weekly6.Weekdays()
	require.True(t, ok)
	assert.Len(t, days, 6)
	assert.NotContains(t, days, time.Sunday)
}

func TestWeekdays_LegacyPacksHaveNone(t *testing.T) {
	for _, c := range []Code{ThreeDays, SevenDays, ThirtyDays} {
		_, ok := c.Weekdays()
		assert.False(t, ok, "legacy pack %q must not have a weekday set", c)
	}
}

func TestDeliversOn(t *testing.T) {
	assert.True(t, Weekly3TTS.DeliversOn(time.Saturday))
	assert.False(t, Weekly3TTS.DeliversOn(time.Monday))
	assert.False(t, Monthly.DeliversOn(time.Sunday))
	assert.False(t, Code("bogusPlan").DeliversOn(time.Monday))
}

func TestResolvePrice_DirectHit(t *testing.T) {
	table := map[Code]float64{OneTime: 100, Monthly: 2400}

	code, price, ok := ResolvePrice(table, Monthly)
	require.True(t, ok)
	assert.Equal(t, Monthly, code)
	assert.Equal(t, 2400.0, price)
}

func TestResolvePrice_FallsBackToOneTime(t *testing.T) {
	table := map[Code]float64{OneTime: 100, Monthly: 2400}

	code, price, ok := ResolvePrice(table, Weekly6)
	require.True(t, ok)
	assert.Equal(t, OneTime, code)
	assert.Equal(t, 100.0, price)
}

func TestResolvePrice_FallsBackToFirstAvailable(t *testing.T) {
	table := map[Code]float64{Weekly3TTS: 900}

	code, price, ok := ResolvePrice(table, Monthly)
	require.True(t, ok)
	assert.Equal(t, Weekly3TTS, code)
	assert.Equal(t, 900.0, price)
}

func TestResolvePrice_EmptyTable(t *testing.T) {
	_, _, ok := ResolvePrice(nil, OneTime)
	assert.False(t, ok)
}
