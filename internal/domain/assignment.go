package domain

// LegAssignment binds each leg of one turnaround to a team id. An empty
// string means the leg is unassigned.
type LegAssignment struct {
	Arrival   string `json:"arrival,omitempty"`
	Departure string `json:"departure,omitempty"`
}

func (a LegAssignment) Get(leg LegType) string {
	if leg == LegArrival {
		return a.Arrival
	}
	return a.Departure
}

func (a *LegAssignment) Set(leg LegType, teamID string) {
	if leg == LegArrival {
		a.Arrival = teamID
	} else {
		a.Departure = teamID
	}
}

func (a LegAssignment) Empty() bool {
	return a.Arrival == "" && a.Departure == ""
}

// AssignmentSet holds every team binding for one operational date, keyed by
// turnaround id.
type AssignmentSet map[string]LegAssignment

// Clone returns a deep copy so engine runs never mutate caller state.
func (s AssignmentSet) Clone() AssignmentSet {
	out := make(AssignmentSet, len(s))
	for id, a := range s {
		out[id] = a
	}
	return out
}

// LegPins flags each leg of one turnaround as protected from automatic
// reassignment.
type LegPins struct {
	Arrival   bool `json:"arrival,omitempty"`
	Departure bool `json:"departure,omitempty"`
}

func (p LegPins) Get(leg LegType) bool {
	if leg == LegArrival {
		return p.Arrival
	}
	return p.Departure
}

// PinSet marks assignment keys the auto-assigner must leave untouched.
type PinSet map[string]LegPins

func (s PinSet) Pinned(turnaroundID string, leg LegType) bool {
	return s[turnaroundID].Get(leg)
}
