// Package roster derives display rosters for individual crew members and
// expands planner shift patterns into concrete teams.
//
// Rosters are not stored per day. Each member's calendar is generated on
// demand from a stable hash of their name, so the same month always renders
// the same pattern, and explicit overrides layer on top.
package roster

import (
	"fmt"
	"math"
	"time"

	"github.com/aerops-dev/crew-scheduler/backend/internal/domain"
)

const dateKeyLayout = "2006-01-02"

// calendarDays covers a six-week month view including leading/trailing days.
const calendarDays = 42

// Shift is a single rostered duty for one calendar day.
type Shift struct {
	Type  string    `json:"type"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overrides maps date keys to shifts that replace the generated roster.
type Overrides map[string]Shift

type shiftPattern struct {
	name           string
	cycleLength    int
	workDays       []int
	shiftType      string
	startHourRange [2]int
	durationHours  int
}

// splitOffPatterns place the two off days apart within the cycle.
var splitOffPatterns = []shiftPattern{
	{name: "4 Early / 2 Off Split", cycleLength: 6, workDays: []int{0, 1, 3, 4}, shiftType: "Early", startHourRange: [2]int{4, 7}, durationHours: 8},
	{name: "4 Late / 2 Off Split", cycleLength: 6, workDays: []int{0, 1, 3, 4}, shiftType: "Late", startHourRange: [2]int{13, 16}, durationHours: 8},
	{name: "5 On / 2 Off Split", cycleLength: 7, workDays: []int{0, 1, 2, 4, 5}, shiftType: "On", startHourRange: [2]int{8, 11}, durationHours: 8},
}

var consecutiveOffPatterns = []shiftPattern{
	{name: "4 Early / 2 Off Consecutive", cycleLength: 6, workDays: []int{0, 1, 2, 3}, shiftType: "Early", startHourRange: [2]int{4, 7}, durationHours: 8},
	{name: "4 Late / 2 Off Consecutive", cycleLength: 6, workDays: []int{0, 1, 2, 3}, shiftType: "Late", startHourRange: [2]int{13, 16}, durationHours: 8},
	{name: "5 On / 2 Off Consecutive", cycleLength: 7, workDays: []int{0, 1, 2, 3, 4}, shiftType: "On", startHourRange: [2]int{8, 11}, durationHours: 8},
}

// aidanBurkeCycle is a negotiated 11-day personal roster. Days absent from
// the map are off.
var aidanBurkeCycle = map[int]struct{ startHour, durationHours int }{
	0:  {4, 8},
	1:  {5, 8},
	2:  {6, 8},
	4:  {11, 8},
	5:  {9, 8},
	7:  {8, 8},
	9:  {15, 8},
	10: {5, 8},
}

const aidanBurkeCycleLength = 11

// rosterEpoch anchors every repeating cycle so day-in-cycle is stable across
// months.
func rosterEpoch(loc *time.Location) time.Time {
	return time.Date(2024, time.January, 1, 0, 0, 0, 0, loc)
}

// nameHash is a 31-multiplier string hash folded to a non-negative int32.
// It must stay bit-identical across releases or every generated roster
// shifts under people's feet.
func nameHash(s string) int {
	var h int32
	for _, c := range s {
		h = h<<5 - h + int32(c)
	}
	if h < 0 {
		h = -h
	}
	return int(h)
}

// GenerateMonth builds the roster for one member across a six-week window
// starting at the first day of monthDate's month. Overrides win over the
// generated pattern for their date.
func GenerateMonth(memberName string, monthDate time.Time, overrides Overrides, loc *time.Location) map[string]Shift {
	roster := make(map[string]Shift)
	if memberName == "" {
		return roster
	}

	epoch := rosterEpoch(loc)
	firstOfMonth := time.Date(monthDate.Year(), monthDate.Month(), 1, 0, 0, 0, 0, loc)

	for d := 0; d < calendarDays; d++ {
		day := firstOfMonth.AddDate(0, 0, d)
		dateKey := day.Format(dateKeyLayout)

		if shift, ok := overrides[dateKey]; ok {
			roster[dateKey] = shift
			continue
		}

		// Rounding absorbs DST days that are not exactly 24h long.
		diffDays := int(math.Round(day.Sub(epoch).Hours() / 24))

		if memberName == "Aidan Burke" {
			if info, on := aidanBurkeCycle[cycleDay(diffDays, aidanBurkeCycleLength)]; on {
				roster[dateKey] = dutyOn(day, "On", info.startHour, info.durationHours)
			}
			continue
		}

		hash := nameHash(memberName)
		if hash%2 == 0 {
			if shift, on := permanentCycleShift(memberName, dateKey, day, diffDays, hash); on {
				roster[dateKey] = shift
			}
			continue
		}

		if shift, on := rotatingPatternShift(memberName, dateKey, day, diffDays, hash); on {
			roster[dateKey] = shift
		}
	}
	return roster
}

// permanentCycleShift handles members on the fixed 12-day cycle: four
// earlies, two off, four lates, two off. The member's hash staggers which
// third of the workforce starts the cycle when.
func permanentCycleShift(memberName, dateKey string, day time.Time, diffDays, hash int) (Shift, bool) {
	group := hash % 3
	dayInCycle := cycleDay(diffDays-group*4, 12)

	switch {
	case dayInCycle <= 3:
		return dutyOn(day, "Early", startHourFor(memberName, dateKey, 4, 10), 8), true
	case dayInCycle >= 6 && dayInCycle <= 9:
		return dutyOn(day, "Late", startHourFor(memberName, dateKey, 11, 17), 8), true
	default:
		return Shift{}, false
	}
}

// rotatingPatternShift handles members on the split-off patterns. One week
// in every four, chosen per member, swaps to the consecutive-off variant of
// the same pattern.
func rotatingPatternShift(memberName, dateKey string, day time.Time, diffDays, hash int) (Shift, bool) {
	index := hash % len(splitOffPatterns)
	consecutiveOffWeek := (hash >> 8) % 4
	weekInCycle := cycleDay(diffDays, 28) / 7

	pattern := splitOffPatterns[index]
	if weekInCycle == consecutiveOffWeek {
		pattern = consecutiveOffPatterns[index]
	}

	dayInCycle := cycleDay(diffDays, pattern.cycleLength)
	for _, workDay := range pattern.workDays {
		if dayInCycle == workDay {
			start := startHourFor(memberName, dateKey, pattern.startHourRange[0], pattern.startHourRange[1])
			return dutyOn(day, pattern.shiftType, start, pattern.durationHours), true
		}
	}
	return Shift{}, false
}

// startHourFor jitters the start hour within the pattern's range, stable per
// member per day.
func startHourFor(memberName, dateKey string, minHour, maxHour int) int {
	dayHash := nameHash(fmt.Sprintf("%s-%s", memberName, dateKey))
	return minHour + dayHash%(maxHour-minHour+1)
}

func dutyOn(day time.Time, shiftType string, startHour, durationHours int) Shift {
	start := time.Date(day.Year(), day.Month(), day.Day(), startHour, 0, 0, 0, day.Location())
	return Shift{Type: shiftType, Start: start, End: start.Add(time.Duration(durationHours) * time.Hour)}
}

func cycleDay(diffDays, cycleLength int) int {
	return ((diffDays % cycleLength) + cycleLength) % cycleLength
}

// MaterializeTeams expands committed planner shift patterns into concrete
// teams, one per counted team, each with the standard five-person turnaround
// crew.
func MaterializeTeams(shifts []domain.PlannerShift) []*domain.Team {
	var teams []*domain.Team
	counter := 1
	for _, shift := range shifts {
		for i := 0; i < shift.TeamCount; i++ {
			teams = append(teams, &domain.Team{
				ID:             fmt.Sprintf("team_%d", counter),
				Name:           fmt.Sprintf("Crew %d", counter),
				ShiftStartHour: shift.StartHour,
				ShiftEndHour:   shift.EndHour,
				Members: []domain.CrewMember{
					{Name: fmt.Sprintf("Crew %d Leader", counter), Skill: domain.SkillLeader, StartHour: shift.StartHour},
					{Name: fmt.Sprintf("Crew %d Driver", counter), Skill: domain.SkillDriver, StartHour: shift.StartHour},
					{Name: fmt.Sprintf("Crew %d Headset", counter), Skill: domain.SkillHeadset, StartHour: shift.StartHour},
					{Name: fmt.Sprintf("Crew %d Loader", counter), Skill: domain.SkillLoader, StartHour: shift.StartHour},
					{Name: fmt.Sprintf("Crew %d Loader 2", counter), Skill: domain.SkillLoader, StartHour: shift.StartHour},
				},
			})
			counter++
		}
	}
	return teams
}
