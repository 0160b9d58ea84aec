package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerops-dev/crew-scheduler/backend/internal/domain"
)

func TestIsWideBody(t *testing.T) {
	cases := map[string]bool{
		"333":  true,
		"332":  true,
		"B789": true,
		"359":  true,
		"320":  false,
		"32Q":  false,
		"32N":  false,
		"AT7":  false,
		"":     false,
	}
	for code, want := range cases {
		assert.Equal(t, want, IsWideBody(code), "type %q", code)
	}
}

func timePtr(t time.Time) *time.Time { return &t }

func TestServiceWindowNarrowArrival(t *testing.T) {
	sta := time.Date(2025, 11, 9, 8, 0, 0, 0, time.UTC)
	turn := &domain.Turnaround{
		AircraftType: "320",
		Arrival:      &domain.LegInfo{FlightNumber: "EI263", Scheduled: timePtr(sta)},
	}

	start, end, ok := ServiceWindow(turn, domain.LegArrival)
	require.True(t, ok)
	assert.Equal(t, sta, start)
	assert.Equal(t, sta.Add(15*time.Minute), end)
}

func TestServiceWindowWideDeparture(t *testing.T) {
	std := time.Date(2025, 11, 9, 14, 0, 0, 0, time.UTC)
	turn := &domain.Turnaround{
		AircraftType: "333",
		Departure:    &domain.LegInfo{FlightNumber: "EI107", Scheduled: timePtr(std)},
	}

	start, end, ok := ServiceWindow(turn, domain.LegDeparture)
	require.True(t, ok)
	assert.Equal(t, std.Add(-70*time.Minute), start)
	assert.Equal(t, std, end)
}

func TestServiceWindowMissingSchedule(t *testing.T) {
	turn := &domain.Turnaround{
		AircraftType: "320",
		Arrival:      &domain.LegInfo{FlightNumber: "EI100"},
	}

	_, _, ok := ServiceWindow(turn, domain.LegArrival)
	assert.False(t, ok)

	_, _, ok = ServiceWindow(turn, domain.LegDeparture)
	assert.False(t, ok, "absent leg has no window")
}
