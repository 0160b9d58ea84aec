package schedule

import (
	"sort"
	"strings"
	"time"

	"github.com/aerops-dev/crew-scheduler/backend/internal/domain"
)

// Buffer is the minimum idle time required between two jobs on the same team.
const Buffer = 10 * time.Minute

type window struct {
	start, end time.Time
}

type task struct {
	turnaroundID string
	leg          domain.LegType
	window       window
	turnaround   *domain.Turnaround
}

// teamState tracks one team's committed workload during a run.
type teamState struct {
	jobs     []window
	jobCount int
}

func (ts *teamState) add(w window) {
	ts.jobs = append(ts.jobs, w)
	ts.jobCount++
}

func (ts *teamState) overlaps(w window) bool {
	for _, job := range ts.jobs {
		if w.start.Before(job.end) && w.end.After(job.start) {
			return true
		}
	}
	return false
}

// violatesBuffer reports whether w sits closer than Buffer to any committed
// job without overlapping it.
func (ts *teamState) violatesBuffer(w window) bool {
	for _, job := range ts.jobs {
		if gap := w.start.Sub(job.end); gap >= 0 && gap < Buffer {
			return true
		}
		if gap := job.start.Sub(w.end); gap >= 0 && gap < Buffer {
			return true
		}
	}
	return false
}

// cancelledRemarks matches the feed's cancellation markers: free text naming
// a cancellation in either spelling, or the bare status code X.
func cancelledRemarks(remarks string) bool {
	lower := strings.ToLower(remarks)
	return strings.Contains(lower, "cancelled") || strings.Contains(lower, "canceled") || remarks == "X"
}

// AutoAssign produces a fresh assignment set for every non-cancelled,
// non-pinned leg scheduled on dateKey, plus the keys of tasks no team could
// take. Inputs are treated as an immutable snapshot; identical inputs always
// yield identical outputs.
//
// Departures are scheduled before arrivals: outbound legs carry hard slot
// constraints, so they get first pick of the crews. Within each pass the
// least-loaded eligible team wins, with the lexically smallest team id as
// tie-break. A task committed early can starve a later one; that is the
// accepted cost of the single greedy pass.
func AutoAssign(
	turnarounds []*domain.Turnaround,
	teams []*domain.Team,
	assignments domain.AssignmentSet,
	pins domain.PinSet,
	dateKey string,
	loc *time.Location,
) (domain.AssignmentSet, []string) {
	result := assignments.Clone()

	// Reset every non-pinned leg on the target date.
	for _, t := range turnarounds {
		entry := result[t.ID]
		if t.Arrival != nil && onDate(t.Arrival.Scheduled, dateKey, loc) && !pins.Pinned(t.ID, domain.LegArrival) {
			entry.Arrival = ""
		}
		if t.Departure != nil && onDate(t.Departure.Scheduled, dateKey, loc) && !pins.Pinned(t.ID, domain.LegDeparture) {
			entry.Departure = ""
		}
		if entry.Empty() {
			delete(result, t.ID)
		} else {
			result[t.ID] = entry
		}
	}

	// Seed team workloads with the surviving pinned assignments.
	states := make(map[string]*teamState, len(teams))
	for _, team := range teams {
		states[team.ID] = &teamState{}
	}
	for _, t := range turnarounds {
		for _, leg := range []domain.LegType{domain.LegArrival, domain.LegDeparture} {
			teamID := result[t.ID].Get(leg)
			if teamID == "" || !pins.Pinned(t.ID, leg) {
				continue
			}
			start, end, ok := ServiceWindow(t, leg)
			if !ok {
				continue
			}
			if state, tracked := states[teamID]; tracked {
				state.add(window{start: start, end: end})
			}
		}
	}

	// Extract assignable tasks.
	var departures, arrivals []task
	for _, t := range turnarounds {
		for _, leg := range []domain.LegType{domain.LegArrival, domain.LegDeparture} {
			info := t.Leg(leg)
			if info == nil || !onDate(info.Scheduled, dateKey, loc) {
				continue
			}
			if pins.Pinned(t.ID, leg) || cancelledRemarks(t.Remarks(leg)) {
				continue
			}
			start, end, ok := ServiceWindow(t, leg)
			if !ok {
				continue
			}
			item := task{turnaroundID: t.ID, leg: leg, window: window{start: start, end: end}, turnaround: t}
			if leg == domain.LegDeparture {
				departures = append(departures, item)
			} else {
				arrivals = append(arrivals, item)
			}
		}
	}
	sortTasks(departures)
	sortTasks(arrivals)

	assignBatch(departures, teams, states, result, loc)
	assignBatch(arrivals, teams, states, result, loc)

	// Report legs on the date that ended up without a crew.
	var unassigned []string
	for _, t := range turnarounds {
		if t.Arrival != nil && onDate(t.Arrival.Scheduled, dateKey, loc) && result[t.ID].Arrival == "" {
			unassigned = append(unassigned, t.ID+"-arrival")
		}
		if t.Departure != nil && onDate(t.Departure.Scheduled, dateKey, loc) && result[t.ID].Departure == "" {
			unassigned = append(unassigned, t.ID+"-departure")
		}
	}

	return result, unassigned
}

func sortTasks(tasks []task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].window.start.Before(tasks[j].window.start)
	})
}

func assignBatch(
	tasks []task,
	teams []*domain.Team,
	states map[string]*teamState,
	result domain.AssignmentSet,
	loc *time.Location,
) {
	for _, item := range tasks {
		var candidates []*domain.Team

		for _, team := range teams {
			state := states[team.ID]

			// Shift window: the task must start within [start, end) of the
			// team's shift, compared as plain local hours.
			local := item.window.start.In(loc)
			startHour := float64(local.Hour()) + float64(local.Minute())/60
			if startHour < team.ShiftStartHour || startHour >= team.ShiftEndHour {
				continue
			}

			if team.Capacity() < item.turnaround.RequiredTeamSize {
				continue
			}
			if state.overlaps(item.window) || state.violatesBuffer(item.window) {
				continue
			}
			candidates = append(candidates, team)
		}

		if len(candidates) == 0 {
			// Expected, non-fatal: the leg stays unassigned for manual
			// override.
			continue
		}

		sort.SliceStable(candidates, func(i, j int) bool {
			loadI := states[candidates[i].ID].jobCount
			loadJ := states[candidates[j].ID].jobCount
			if loadI != loadJ {
				return loadI < loadJ
			}
			return candidates[i].ID < candidates[j].ID
		})

		chosen := candidates[0]
		entry := result[item.turnaroundID]
		entry.Set(item.leg, chosen.ID)
		result[item.turnaroundID] = entry
		states[chosen.ID].add(item.window)
	}
}
