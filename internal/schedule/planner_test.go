package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerops-dev/crew-scheduler/backend/internal/domain"
)

func TestDemandProfileSingleNarrowArrival(t *testing.T) {
	// A 15-minute arrival window starting on a slot boundary touches exactly
	// one slot.
	turns := []*domain.Turnaround{arrivalTurn("A1", "320", at(10, 0))}

	demand := DemandProfile(turns, testDate, time.UTC)
	for i, count := range demand {
		if i == 40 { // 10:00
			assert.Equal(t, 1, count)
		} else {
			assert.Zero(t, count, "slot %d", i)
		}
	}
}

func TestDemandProfileClipsToDate(t *testing.T) {
	// Departure at 00:10: the window [23:35 previous day, 00:10] contributes
	// only the first slot of the planning date.
	early := departureTurn("D1", "320", at(0, 10))
	// Arrival at 23:50: the window runs past midnight and is clipped to the
	// final slot.
	late := arrivalTurn("A1", "320", at(23, 50))

	demand := DemandProfile([]*domain.Turnaround{early, late}, testDate, time.UTC)
	assert.Equal(t, 1, demand[0])
	assert.Equal(t, 1, demand[95])
	for i := 1; i < 95; i++ {
		assert.Zero(t, demand[i], "slot %d", i)
	}
}

func TestDemandProfileDSTChangeDays(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Dublin")
	require.NoError(t, err)

	// 2025-10-26 has 25 local hours in Dublin. A late arrival must still land
	// in the final slots of that date rather than fall past the clip boundary.
	late := arrivalTurn("A1", "320", time.Date(2025, 10, 26, 23, 30, 0, 0, loc))
	demand := DemandProfile([]*domain.Turnaround{late}, "2025-10-26", loc)
	assert.Equal(t, 1, demand[94])

	// 2025-03-30 has 23 local hours. An arrival after the next midnight must
	// not leak into the short day.
	next := arrivalTurn("A2", "320", time.Date(2025, 3, 31, 0, 30, 0, 0, loc))
	demand = DemandProfile([]*domain.Turnaround{next}, "2025-03-30", loc)
	assert.Zero(t, maxOf(demand))
}

func TestDemandProfileIgnoresOtherDates(t *testing.T) {
	other := arrivalTurn("A1", "320", time.Date(2025, 11, 12, 10, 0, 0, 0, time.UTC))
	demand := DemandProfile([]*domain.Turnaround{other}, testDate, time.UTC)
	assert.Zero(t, maxOf(demand))
}

func TestPlanCapacityCoversPeak(t *testing.T) {
	// Three concurrent narrow-body arrivals create a demand of 3 in one slot;
	// the planner must commit exactly three shifts whose spans cover it.
	turns := []*domain.Turnaround{
		arrivalTurn("A1", "320", at(10, 0)),
		arrivalTurn("A2", "320", at(10, 0)),
		arrivalTurn("A3", "320", at(10, 0)),
	}

	plan := PlanCapacity(turns, testDate, time.UTC)

	assert.Equal(t, 3, plan.TotalTeams)
	require.NotEmpty(t, plan.Shifts)
	for _, shift := range plan.Shifts {
		startSlot := int(shift.StartHour * 60 / slotMinutes)
		covered := false
		for i := 0; i < shiftDurationSlots; i++ {
			if (startSlot+i)%slotsPerDay == 40 {
				covered = true
			}
		}
		assert.True(t, covered, "shift starting %.1f misses the peak", shift.StartHour)
	}
	assert.Equal(t, 3, plan.Capacity[40])
}

func TestPlanCapacityUncoverableDemand(t *testing.T) {
	// 02:00 lies outside every allowed span (the latest start, 17:00, ends at
	// 01:30); the planner stops without committing anything.
	turns := []*domain.Turnaround{arrivalTurn("A1", "320", at(2, 0))}

	plan := PlanCapacity(turns, testDate, time.UTC)

	assert.Empty(t, plan.Shifts)
	assert.Zero(t, plan.TotalTeams)
	assert.Zero(t, plan.Utilization)
}

func TestPlanCapacityEmptySchedule(t *testing.T) {
	plan := PlanCapacity(nil, testDate, time.UTC)
	assert.Empty(t, plan.Shifts)
	assert.Zero(t, plan.Utilization)
	assert.Len(t, plan.Demand, slotsPerDay)
	assert.Len(t, plan.Capacity, slotsPerDay)
}

func TestPlanCapacityUtilizationBounds(t *testing.T) {
	var turns []*domain.Turnaround
	for hour := 6; hour < 18; hour++ {
		turns = append(turns, arrivalTurn(at(hour, 0).Format("A-15:04"), "333", at(hour, 0)))
		turns = append(turns, departureTurn(at(hour, 30).Format("D-15:04"), "320", at(hour, 30)))
	}

	plan := PlanCapacity(turns, testDate, time.UTC)

	assert.GreaterOrEqual(t, plan.Utilization, 0)
	assert.LessOrEqual(t, plan.Utilization, 100)
	assert.NotEmpty(t, plan.Shifts)

	// Committed shift patterns are unique per start hour and sorted.
	seen := map[float64]bool{}
	last := -1.0
	for _, shift := range plan.Shifts {
		assert.False(t, seen[shift.StartHour], "duplicate pattern at %.1f", shift.StartHour)
		seen[shift.StartHour] = true
		assert.Greater(t, shift.StartHour, last)
		last = shift.StartHour
	}
}

func TestPlanCapacityShiftsMergeByStartHour(t *testing.T) {
	// Identical concurrent demand forces repeated commits; patterns with the
	// same start hour must merge rather than duplicate.
	turns := []*domain.Turnaround{
		arrivalTurn("A1", "320", at(10, 0)),
		arrivalTurn("A2", "320", at(10, 0)),
	}

	plan := PlanCapacity(turns, testDate, time.UTC)
	require.Len(t, plan.Shifts, 1)
	assert.Equal(t, 2, plan.Shifts[0].TeamCount)
}
