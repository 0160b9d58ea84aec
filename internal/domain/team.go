package domain

type Skill string

const (
	SkillLeader  Skill = "Leader"
	SkillHeadset Skill = "Headset"
	SkillDriver  Skill = "Driver"
	SkillLoader  Skill = "Loader"
)

type CrewMember struct {
	Name      string  `json:"name"`
	Skill     Skill   `json:"skill"`
	StartHour float64 `json:"startHour"`
}

// Team is a crew unit available for assignment. Shift hours are in the 0-24
// range; capacity is the member count.
type Team struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	ShiftStartHour float64      `json:"shiftStartHour"`
	ShiftEndHour   float64      `json:"shiftEndHour"`
	Members        []CrewMember `json:"members"`
	Version        int32        `json:"-"`
}

func (t *Team) Capacity() int {
	return len(t.Members)
}
