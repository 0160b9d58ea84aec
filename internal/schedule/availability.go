package schedule

import "github.com/aerops-dev/crew-scheduler/backend/internal/domain"

// CheckAvailability answers whether a team is free to take one leg, for the
// manual-override path. It scans every leg currently assigned to the team and
// reports the first strict temporal overlap along with the conflicting flight
// number.
//
// Unlike AutoAssign this check enforces no idle buffer between jobs; a human
// picking a team only needs to know about hard clashes. The asymmetry is
// deliberate and long-standing.
func CheckAvailability(
	t *domain.Turnaround,
	leg domain.LegType,
	team *domain.Team,
	assignments domain.AssignmentSet,
	turnarounds []*domain.Turnaround,
) (bool, string) {
	start, end, ok := ServiceWindow(t, leg)
	if !ok {
		return false, ""
	}

	for _, other := range turnarounds {
		entry, assigned := assignments[other.ID]
		if !assigned {
			continue
		}
		for _, otherLeg := range []domain.LegType{domain.LegArrival, domain.LegDeparture} {
			if entry.Get(otherLeg) != team.ID {
				continue
			}
			if other.ID == t.ID && otherLeg == leg {
				continue
			}
			otherStart, otherEnd, windowOK := ServiceWindow(other, otherLeg)
			if !windowOK {
				continue
			}
			if start.Before(otherEnd) && end.After(otherStart) {
				flightNumber := ""
				if info := other.Leg(otherLeg); info != nil {
					flightNumber = info.FlightNumber
				}
				return false, flightNumber
			}
		}
	}

	return true, ""
}
