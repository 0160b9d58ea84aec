package schedule

import (
	"math"
	"sort"
	"time"

	"github.com/aerops-dev/crew-scheduler/backend/internal/domain"
)

const (
	slotMinutes = 15
	slotsPerDay = 24 * 60 / slotMinutes

	shiftDurationHours = 8.5
	shiftDurationSlots = int(shiftDurationHours * 60 / slotMinutes)

	// Allowed shift start grid: 04:00 to 17:00 inclusive, half-hour steps.
	earliestStartHour = 4.0
	latestStartHour   = 17.0
)

// Planner demand durations in minutes. This table belongs to the planner and
// is maintained independently of the service-window table in aircraft.go.
const (
	planNarrowArrivalMinutes   = 15
	planNarrowDepartureMinutes = 35
	planWideArrivalMinutes     = 25
	planWideDepartureMinutes   = 70
)

// DemandProfile counts, per 15-minute slot of dateKey, how many crews must be
// engaged concurrently. Windows crossing midnight contribute only their
// in-range portion.
func DemandProfile(turnarounds []*domain.Turnaround, dateKey string, loc *time.Location) []int {
	demand := make([]int, slotsPerDay)

	dayStart, err := ParseDateKey(dateKey, loc)
	if err != nil {
		return demand
	}
	// Next local midnight, not dayStart+24h: DST-change days are 23 or 25
	// hours long and a fixed offset would shift the clip boundary.
	dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Millisecond)

	for _, t := range turnarounds {
		wide := IsWideBody(t.AircraftType)
		if t.Arrival != nil {
			addLegDemand(demand, t.Arrival.Scheduled, false, wide, dayStart, dayEnd, loc)
		}
		if t.Departure != nil {
			addLegDemand(demand, t.Departure.Scheduled, true, wide, dayStart, dayEnd, loc)
		}
	}
	return demand
}

func addLegDemand(demand []int, scheduled *time.Time, departure, wide bool, dayStart, dayEnd time.Time, loc *time.Location) {
	if scheduled == nil {
		return
	}

	var minutes int
	switch {
	case departure && wide:
		minutes = planWideDepartureMinutes
	case departure:
		minutes = planNarrowDepartureMinutes
	case wide:
		minutes = planWideArrivalMinutes
	default:
		minutes = planNarrowArrivalMinutes
	}
	duration := time.Duration(minutes) * time.Minute

	var start, end time.Time
	if departure {
		end = *scheduled
		start = end.Add(-duration)
	} else {
		start = *scheduled
		end = start.Add(duration)
	}

	// Entirely outside the planning date contributes nothing.
	if end.Before(dayStart) || start.After(dayEnd) {
		return
	}
	if start.Before(dayStart) {
		start = dayStart
	}
	if end.After(dayEnd) {
		end = dayEnd
	}

	startSlot := minuteOfDay(start, loc) / slotMinutes
	endSlot := (minuteOfDay(end, loc) + slotMinutes - 1) / slotMinutes
	for i := startSlot; i < endSlot; i++ {
		if i >= 0 && i < slotsPerDay {
			demand[i]++
		}
	}
}

func minuteOfDay(t time.Time, loc *time.Location) int {
	local := t.In(loc)
	return local.Hour()*60 + local.Minute()
}

// PlanCapacity computes a minimal covering shift roster for one date with a
// greedy peak-smashing loop: each iteration commits one 8.5-hour shift at the
// start hour covering the most slots with unmet demand, with a bonus for
// slots at the current global peak. Demand that no allowed start time can
// reach (typically very late night) is left uncovered and shows up in the
// utilization figure rather than as an error.
func PlanCapacity(turnarounds []*domain.Turnaround, dateKey string, loc *time.Location) *domain.PlanResult {
	demand := DemandProfile(turnarounds, dateKey, loc)

	var startHours []float64
	for h := earliestStartHour; h <= latestStartHour; h += 0.5 {
		startHours = append(startHours, h)
	}

	capacity := make([]int, slotsPerDay)
	unmet := make([]int, slotsPerDay)
	copy(unmet, demand)
	maxUnmet := maxOf(unmet)

	var shifts []domain.PlannerShift
	for maxUnmet > 0 {
		bestStart := -1.0
		bestScore := -1.0

		for _, startHour := range startHours {
			startSlot := int(startHour * 60 / slotMinutes)
			score := 0.0
			for i := 0; i < shiftDurationSlots; i++ {
				idx := (startSlot + i) % slotsPerDay
				if unmet[idx] > 0 {
					score++
					if unmet[idx] == maxUnmet {
						score += 0.5
					}
				}
			}
			if score > bestScore {
				bestScore = score
				bestStart = startHour
			}
		}

		if bestStart < 0 || bestScore <= 0 {
			// Remaining demand is outside every allowed shift span.
			break
		}

		startSlot := int(bestStart * 60 / slotMinutes)
		for i := 0; i < shiftDurationSlots; i++ {
			idx := (startSlot + i) % slotsPerDay
			capacity[idx]++
			if unmet[idx] > 0 {
				unmet[idx]--
			}
		}

		merged := false
		for i := range shifts {
			if shifts[i].StartHour == bestStart {
				shifts[i].TeamCount++
				merged = true
				break
			}
		}
		if !merged {
			shifts = append(shifts, domain.PlannerShift{
				StartHour: bestStart,
				EndHour:   math.Mod(bestStart+shiftDurationHours, 24),
				TeamCount: 1,
			})
		}

		maxUnmet = maxOf(unmet)
	}

	sort.Slice(shifts, func(i, j int) bool { return shifts[i].StartHour < shifts[j].StartHour })

	totalTeams := 0
	for _, s := range shifts {
		totalTeams += s.TeamCount
	}

	usefulWork, totalCapacity := 0, 0
	for i := 0; i < slotsPerDay; i++ {
		usefulWork += min(capacity[i], demand[i])
		totalCapacity += capacity[i]
	}
	utilization := 0
	if totalCapacity > 0 {
		utilization = int(math.Round(float64(usefulWork) / float64(totalCapacity) * 100))
	}

	profile := make([]domain.DemandSlot, slotsPerDay)
	for i, count := range demand {
		profile[i] = domain.DemandSlot{TimeSlot: i * slotMinutes, RequiredTeams: count}
	}

	return &domain.PlanResult{
		TotalTeams:  totalTeams,
		Shifts:      shifts,
		Demand:      profile,
		Capacity:    capacity,
		Utilization: utilization,
	}
}

func maxOf(values []int) int {
	out := 0
	for _, v := range values {
		if v > out {
			out = v
		}
	}
	return out
}
