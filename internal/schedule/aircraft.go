package schedule

import (
	"strings"
	"time"

	"github.com/aerops-dev/crew-scheduler/backend/internal/domain"
)

// wideBodyCodes are substrings of aircraft type codes that identify a
// wide-body airframe. Unknown codes classify as narrow-body.
var wideBodyCodes = []string{
	"330", "332", "333", "340", "350", "359", "380",
	"747", "767", "777", "787", "788", "789",
}

// Service durations in minutes. Arrivals model on-chocks to service-complete,
// departures service-start to off-chocks. These are policy constants.
const (
	narrowArrivalMinutes   = 15
	narrowDepartureMinutes = 35
	wideArrivalMinutes     = 25
	wideDepartureMinutes   = 70
)

func IsWideBody(aircraftType string) bool {
	for _, code := range wideBodyCodes {
		if strings.Contains(aircraftType, code) {
			return true
		}
	}
	return false
}

// ServiceWindow computes the interval during which a crew is engaged with one
// leg of a turnaround. The arrival window starts at STA, the departure window
// ends at STD. ok is false when the relevant scheduled time is absent.
func ServiceWindow(t *domain.Turnaround, leg domain.LegType) (start, end time.Time, ok bool) {
	info := t.Leg(leg)
	if info == nil || info.Scheduled == nil {
		return time.Time{}, time.Time{}, false
	}

	wide := IsWideBody(t.AircraftType)

	if leg == domain.LegArrival {
		minutes := narrowArrivalMinutes
		if wide {
			minutes = wideArrivalMinutes
		}
		start = *info.Scheduled
		return start, start.Add(time.Duration(minutes) * time.Minute), true
	}

	minutes := narrowDepartureMinutes
	if wide {
		minutes = wideDepartureMinutes
	}
	end = *info.Scheduled
	return end.Add(-time.Duration(minutes) * time.Minute), end, true
}
