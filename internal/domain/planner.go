package domain

// PlannerShift is one proposed work shift pattern. StartHour uses half-hour
// resolution (e.g. 4, 4.5, ... 17); EndHour wraps past midnight.
type PlannerShift struct {
	StartHour float64 `json:"startHour"`
	EndHour   float64 `json:"endHour"`
	TeamCount int     `json:"teamCount"`
}

// DemandSlot is the per-15-minute-slot crew requirement used for charting.
type DemandSlot struct {
	TimeSlot      int `json:"timeSlot"` // minutes from midnight
	RequiredTeams int `json:"requiredTeams"`
}

// PlanResult is the capacity planner output for one date. Demand and Capacity
// have one entry per 15-minute slot of the day.
type PlanResult struct {
	TotalTeams  int            `json:"totalTeams"`
	Shifts      []PlannerShift `json:"shifts"`
	Demand      []DemandSlot   `json:"demandProfile"`
	Capacity    []int          `json:"capacityProfile"`
	Utilization int            `json:"utilization"` // percentage, 0-100
}
