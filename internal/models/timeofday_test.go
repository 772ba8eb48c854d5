package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	m, err := ParseClock("09:05")
	require.NoError(t, err)
	assert.Equal(t, Minutes(545), m)
	assert.Equal(t, "09:05", m.Clock())

	_, err = ParseClock("24:00")
	assert.Error(t, err)
	_, err = ParseClock("nine")
	assert.Error(t, err)
}

func TestMinutesJSONRoundTrip(t *testing.T) {
	payload, err := json.Marshal(MustClock("16:45"))
	require.NoError(t, err)
	assert.Equal(t, `"16:45"`, string(payload))

	var m Minutes
	require.NoError(t, json.Unmarshal([]byte(`"13:30"`), &m))
	assert.Equal(t, MustClock("13:30"), m)
}

func TestMinutesScan(t *testing.T) {
	var m Minutes
	require.NoError(t, m.Scan("11:15"))
	assert.Equal(t, MustClock("11:15"), m)

	require.NoError(t, m.Scan([]byte("17:15")))
	assert.Equal(t, MustClock("17:15"), m)

	require.NoError(t, m.Scan(time.Date(2025, 6, 16, 14, 30, 0, 0, time.UTC)))
	assert.Equal(t, MustClock("14:30"), m)

	assert.Error(t, m.Scan(3.14))
}

func TestWeekdayHelpers(t *testing.T) {
	assert.Equal(t, Monday, WeekdayOf(time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, Sunday, WeekdayOf(time.Date(2025, 6, 22, 0, 0, 0, 0, time.UTC)))

	day, err := ParseWeekday("friday")
	require.NoError(t, err)
	assert.Equal(t, Friday, day)

	_, err = ParseWeekday("someday")
	assert.Error(t, err)

	assert.True(t, IsWeekend(time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC)))
	assert.False(t, IsWeekend(time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)))
}

func TestAvailabilityWindowCovers(t *testing.T) {
	w := AvailabilityWindow{Day: Monday, StartTime: MustClock("09:00"), EndTime: MustClock("12:00")}

	assert.True(t, w.Covers(Monday, MustClock("09:00"), MustClock("09:30")))
	assert.True(t, w.Covers(Monday, MustClock("11:15"), MustClock("11:45")))
	assert.False(t, w.Covers(Monday, MustClock("11:45"), MustClock("12:15")))
	assert.False(t, w.Covers(Tuesday, MustClock("09:00"), MustClock("09:30")))
}
