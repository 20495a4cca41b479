package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-01-10"`), &d))
	assert.Equal(t, NewDate(2024, time.January, 10), d)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-01-10"`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`"10/01/2024"`), &d))
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-01-10", d.String())

	require.NoError(t, d.Scan([]byte("2024-02-01T00:00:00Z")))
	assert.Equal(t, "2024-02-01", d.String())

	assert.Error(t, d.Scan(42))
}

func TestTimeOfDay_ParseAndScan(t *testing.T) {
	tod, err := ParseTimeOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 9, Minute: 30}, tod)
	assert.Equal(t, 9*time.Hour+30*time.Minute, tod.Duration())

	var scanned TimeOfDay
	require.NoError(t, scanned.Scan("17:15:00"))
	assert.Equal(t, "17:15:00", scanned.String())

	require.NoError(t, scanned.Scan(time.Date(0, 1, 1, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, TimeOfDay{Hour: 8}, scanned)

	assert.True(t, TimeOfDay{Hour: 8}.Before(TimeOfDay{Hour: 9}))
	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)
}

func TestAvailability_CoversAndOverlaps(t *testing.T) {
	window := &Availability{
		Date:      NewDate(2024, time.January, 10),
		StartTime: TimeOfDay{Hour: 9},
		EndTime:   TimeOfDay{Hour: 12},
	}

	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	assert.True(t, window.Covers(start, start.Add(time.Hour)))
	assert.True(t, window.Covers(start.Add(2*time.Hour), start.Add(3*time.Hour)))
	assert.False(t, window.Covers(start.Add(2*time.Hour), start.Add(4*time.Hour)))
	assert.False(t, window.Covers(start.Add(24*time.Hour), start.Add(25*time.Hour)))

	other := &Availability{Date: window.Date, StartTime: TimeOfDay{Hour: 11}, EndTime: TimeOfDay{Hour: 13}}
	assert.True(t, window.Overlaps(other))

	adjacent := &Availability{Date: window.Date, StartTime: TimeOfDay{Hour: 12}, EndTime: TimeOfDay{Hour: 13}}
	assert.False(t, window.Overlaps(adjacent))

	nextDay := &Availability{Date: NewDate(2024, time.January, 11), StartTime: TimeOfDay{Hour: 9}, EndTime: TimeOfDay{Hour: 12}}
	assert.False(t, window.Overlaps(nextDay))
}

func TestAppointment_Overlaps(t *testing.T) {
	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	apt := &Appointment{StartTime: start, EndTime: &end}

	assert.True(t, apt.Overlaps(start.Add(30*time.Minute), start.Add(90*time.Minute)))
	assert.False(t, apt.Overlaps(end, end.Add(time.Hour)))

	open := &Appointment{StartTime: start}
	assert.True(t, open.Overlaps(start, end))
	assert.False(t, open.Overlaps(end, end.Add(time.Hour)))
}
