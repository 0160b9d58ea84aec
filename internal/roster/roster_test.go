package roster

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerops-dev/crew-scheduler/backend/internal/domain"
)

func TestNameHash(t *testing.T) {
	assert.Equal(t, 97, nameHash("a"))
	assert.Equal(t, 3105, nameHash("ab"))
	assert.GreaterOrEqual(t, nameHash("Sean O'Farrell"), 0)
	assert.GreaterOrEqual(t, nameHash("a very long name to push the hash around the int32 range"), 0)
}

func TestGenerateMonthDeterministic(t *testing.T) {
	month := time.Date(2025, time.November, 15, 0, 0, 0, 0, time.UTC)
	first := GenerateMonth("Niamh Kelly", month, nil, time.UTC)
	second := GenerateMonth("Niamh Kelly", month, nil, time.UTC)
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

func TestGenerateMonthStableAcrossMonthWindows(t *testing.T) {
	// The six-week windows of consecutive months overlap; a date key present
	// in both must carry the identical shift because the cycle runs off the
	// fixed epoch, not off the month.
	jan := GenerateMonth("Niamh Kelly", time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), nil, time.UTC)
	feb := GenerateMonth("Niamh Kelly", time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), nil, time.UTC)

	shared := 0
	for key, shift := range feb {
		if other, ok := jan[key]; ok {
			assert.Equal(t, other, shift, "date %s", key)
			shared++
		}
	}
	assert.NotZero(t, shared)
}

func TestGenerateMonthAidanBurkeCycle(t *testing.T) {
	// The epoch is day zero of the personal cycle, so January 2024 reads the
	// cycle off directly.
	roster := GenerateMonth("Aidan Burke", time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), nil, time.UTC)

	first, ok := roster["2024-01-01"]
	require.True(t, ok)
	assert.Equal(t, "On", first.Type)
	assert.Equal(t, time.Date(2024, 1, 1, 4, 0, 0, 0, time.UTC), first.Start)
	assert.Equal(t, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), first.End)

	_, off := roster["2024-01-04"]
	assert.False(t, off, "day 3 of the cycle is off")

	// Day 11 wraps back to the start of the cycle.
	wrapped, ok := roster["2024-01-12"]
	require.True(t, ok)
	assert.Equal(t, first.Start.AddDate(0, 0, 11), wrapped.Start)
}

func TestGenerateMonthOverridesWin(t *testing.T) {
	month := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	custom := Shift{
		Type:  "On",
		Start: time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 2, 6, 0, 0, 0, time.UTC),
	}

	roster := GenerateMonth("Aidan Burke", month, Overrides{"2024-01-01": custom}, time.UTC)
	assert.Equal(t, custom, roster["2024-01-01"])
}

// pickName walks generated names until one lands on the requested hash
// parity, so the test does not hardcode hash values.
func pickName(t *testing.T, even bool) string {
	t.Helper()
	for i := 0; i < 64; i++ {
		name := fmt.Sprintf("Crew Member %d", i)
		if (nameHash(name)%2 == 0) == even {
			return name
		}
	}
	t.Fatal("no name with requested parity")
	return ""
}

func TestGenerateMonthPermanentCycleShape(t *testing.T) {
	name := pickName(t, true)
	month := time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC)

	roster := GenerateMonth(name, month, nil, time.UTC)
	require.NotEmpty(t, roster)
	assert.Less(t, len(roster), calendarDays, "a permanent cycle includes off days")

	for key, shift := range roster {
		assert.Equal(t, 8*time.Hour, shift.End.Sub(shift.Start), "date %s", key)
		switch shift.Type {
		case "Early":
			assert.GreaterOrEqual(t, shift.Start.Hour(), 4, "date %s", key)
			assert.LessOrEqual(t, shift.Start.Hour(), 10, "date %s", key)
		case "Late":
			assert.GreaterOrEqual(t, shift.Start.Hour(), 11, "date %s", key)
			assert.LessOrEqual(t, shift.Start.Hour(), 17, "date %s", key)
		default:
			t.Fatalf("unexpected shift type %q on %s", shift.Type, key)
		}
	}
}

func TestGenerateMonthRotatingPatternShape(t *testing.T) {
	name := pickName(t, false)
	month := time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC)

	roster := GenerateMonth(name, month, nil, time.UTC)
	require.NotEmpty(t, roster)
	assert.Less(t, len(roster), calendarDays, "every pattern has off days")

	for key, shift := range roster {
		assert.Equal(t, 8*time.Hour, shift.End.Sub(shift.Start), "date %s", key)
		assert.Contains(t, []string{"Early", "Late", "On"}, shift.Type, "date %s", key)
	}
}

func TestGenerateMonthEmptyName(t *testing.T) {
	assert.Empty(t, GenerateMonth("", time.Now(), nil, time.UTC))
}

func TestMaterializeTeams(t *testing.T) {
	shifts := []domain.PlannerShift{
		{StartHour: 4.5, EndHour: 13, TeamCount: 2},
		{StartHour: 10, EndHour: 18.5, TeamCount: 1},
	}

	teams := MaterializeTeams(shifts)
	require.Len(t, teams, 3)

	assert.Equal(t, "team_1", teams[0].ID)
	assert.Equal(t, "Crew 1", teams[0].Name)
	assert.Equal(t, 4.5, teams[0].ShiftStartHour)
	assert.Equal(t, 13.0, teams[0].ShiftEndHour)

	assert.Equal(t, "team_3", teams[2].ID)
	assert.Equal(t, 10.0, teams[2].ShiftStartHour)

	require.Len(t, teams[0].Members, 5)
	skills := []domain.Skill{}
	for _, m := range teams[0].Members {
		skills = append(skills, m.Skill)
		assert.Equal(t, 4.5, m.StartHour)
	}
	assert.Equal(t, []domain.Skill{
		domain.SkillLeader,
		domain.SkillDriver,
		domain.SkillHeadset,
		domain.SkillLoader,
		domain.SkillLoader,
	}, skills)
	assert.Equal(t, "Crew 1 Loader 2", teams[0].Members[4].Name)
}

func TestMaterializeTeamsEmpty(t *testing.T) {
	assert.Empty(t, MaterializeTeams(nil))
}
