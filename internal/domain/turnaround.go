package domain

import "time"

type LegType string

const (
	LegArrival   LegType = "arrival"
	LegDeparture LegType = "departure"
)

// LegInfo is one operational movement of a turnaround. Scheduled is STA for
// arrivals and STD for departures; Slot is only set for departures (CTOT).
type LegInfo struct {
	FlightNumber string     `json:"flightNumber"`
	City         string     `json:"city"`
	Scheduled    *time.Time `json:"scheduled"`
	Estimated    *time.Time `json:"estimated,omitempty"`
	Actual       *time.Time `json:"actual,omitempty"`
	Slot         *time.Time `json:"slot,omitempty"`
}

// Turnaround is one aircraft visit: up to one arrival leg and up to one
// departure leg. When both legs are present the departure is strictly after
// the arrival and within 18 hours of it.
type Turnaround struct {
	ID               string   `json:"id"`
	AircraftType     string   `json:"aircraftType"`
	Registration     string   `json:"aircraftRegistration"`
	Stand            string   `json:"stand"`
	RequiredTeamSize int      `json:"requiredTeamSize"`
	Arrival          *LegInfo `json:"arrival,omitempty"`
	Departure        *LegInfo `json:"departure,omitempty"`
	ArrivalRemarks   string   `json:"arrivalRemarks,omitempty"`
	DepartureRemarks string   `json:"departureRemarks,omitempty"`
}

// Leg returns the requested leg, or nil when the turnaround does not have it.
func (t *Turnaround) Leg(leg LegType) *LegInfo {
	if leg == LegArrival {
		return t.Arrival
	}
	return t.Departure
}

// Remarks returns the free-text remarks attached to the requested leg.
func (t *Turnaround) Remarks(leg LegType) string {
	if leg == LegArrival {
		return t.ArrivalRemarks
	}
	return t.DepartureRemarks
}
