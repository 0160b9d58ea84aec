package schedule

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/aerops-dev/crew-scheduler/backend/internal/domain"
)

// feedRecord mirrors the nested shape of the upstream operational flight feed.
// Only the fields the reconciler consumes are declared.
type feedRecord struct {
	FlightIdentification struct {
		FlightIdentity  string `json:"FlightIdentity"`
		CodeShareStatus string `json:"CodeShareStatus"`
		FlightDirection string `json:"FlightDirection"`
	} `json:"FlightIdentification"`
	FlightData struct {
		OperationalTimes struct {
			ScheduledDateTime          string `json:"ScheduledDateTime"`
			EstimatedDateTime          string `json:"EstimatedDateTime"`
			EstimatedOnBlocksDateTime  string `json:"EstimatedOnBlocksDateTime"`
			EstimatedOffBlocksDateTime string `json:"EstimatedOffBlocksDateTime"`
			ActualOnBlocksDateTime     string `json:"ActualOnBlocksDateTime"`
			ActualOffBlocksDateTime    string `json:"ActualOffBlocksDateTime"`
			WheelsDownDateTime         string `json:"WheelsDownDateTime"`
			WheelsUpDateTime           string `json:"WheelsUpDateTime"`
		} `json:"OperationalTimes"`
		Airport struct {
			Stand struct {
				StandPosition string `json:"StandPosition"`
			} `json:"Stand"`
		} `json:"Airport"`
		Aircraft struct {
			AircraftRegistration string `json:"AircraftRegistration"`
			AircraftTypeICAOCode string `json:"AircraftTypeICAOCode"`
		} `json:"Aircraft"`
		Flight struct {
			OriginAirportIATACode      string `json:"OriginAirportIATACode"`
			DestinationAirportIATACode string `json:"DestinationAirportIATACode"`
			FlightStatusCode           string `json:"FlightStatusCode"`
		} `json:"Flight"`
	} `json:"FlightData"`
	CDMInfoFields struct {
		CalculatedTakeOffDateTime string `json:"CalculatedTakeOffDateTime"`
	} `json:"CDMInfoFields"`
}

type feedEnvelope struct {
	Flights []feedRecord `json:"Flights"`
}

// leg is the normalized, ephemeral form of one feed record.
type leg struct {
	flightNumber string
	codeShare    string
	direction    domain.LegType // empty when the feed direction is unknown
	scheduled    *time.Time
	estimated    *time.Time
	actual       *time.Time
	slot         *time.Time
	registration string
	aircraftType string
	stand        string
	origin       string
	destination  string
	status       string
}

// route is the leg's pairing route: origin for arrivals, destination for
// departures.
func (l *leg) route() string {
	if l.direction == domain.LegArrival {
		return l.origin
	}
	return l.destination
}

var statusVocabulary = map[string]string{
	"S": "Scheduled",
	"A": "Active",
	"L": "Landed",
	"D": "Diverted",
	"C": "Cancelled",
	"X": "Cancelled",
	"F": "Final Approach",
	"E": "Estimated",
	"O": "On Block",
	"Z": "Off Block",
}

// mapStatus translates a provider status code into the fixed vocabulary.
// Unrecognized codes pass through unchanged.
func mapStatus(code string) string {
	if mapped, ok := statusVocabulary[code]; ok {
		return mapped
	}
	return code
}

var feedTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// parseFeedTime treats unparsable or empty timestamps as absent. Timestamps
// without a zone offset are interpreted in the engine's local zone.
func parseFeedTime(s string, loc *time.Location) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range feedTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return &t
		}
	}
	return nil
}

// decodeFeed accepts either a bare array of records or a {Flights:[...]}
// wrapper. Any other JSON shape yields an empty feed.
func decodeFeed(payload []byte) ([]feedRecord, error) {
	var envelope feedEnvelope
	if err := json.Unmarshal(payload, &envelope); err == nil && envelope.Flights != nil {
		return envelope.Flights, nil
	}

	var records []feedRecord
	if err := json.Unmarshal(payload, &records); err == nil {
		return records, nil
	}

	// Not an array and not a wrapper: check the payload is at least valid
	// JSON so garbage is surfaced rather than swallowed.
	var probe any
	if err := json.Unmarshal(payload, &probe); err != nil {
		return nil, err
	}
	return nil, nil
}

func normalizeRecord(record feedRecord, loc *time.Location) leg {
	fID := record.FlightIdentification
	ops := record.FlightData.OperationalTimes
	aircraft := record.FlightData.Aircraft
	flight := record.FlightData.Flight

	var direction domain.LegType
	switch fID.FlightDirection {
	case "Arrival":
		direction = domain.LegArrival
	case "Departure":
		direction = domain.LegDeparture
	}

	estimated := parseFeedTime(ops.EstimatedDateTime, loc)
	if direction == domain.LegArrival && ops.EstimatedOnBlocksDateTime != "" {
		estimated = parseFeedTime(ops.EstimatedOnBlocksDateTime, loc)
	} else if direction == domain.LegDeparture && ops.EstimatedOffBlocksDateTime != "" {
		estimated = parseFeedTime(ops.EstimatedOffBlocksDateTime, loc)
	}

	var actual *time.Time
	switch direction {
	case domain.LegArrival:
		actual = parseFeedTime(ops.ActualOnBlocksDateTime, loc)
		if actual == nil {
			actual = parseFeedTime(ops.WheelsDownDateTime, loc)
		}
	case domain.LegDeparture:
		actual = parseFeedTime(ops.ActualOffBlocksDateTime, loc)
		if actual == nil {
			actual = parseFeedTime(ops.WheelsUpDateTime, loc)
		}
	}

	return leg{
		flightNumber: fID.FlightIdentity,
		codeShare:    fID.CodeShareStatus,
		direction:    direction,
		scheduled:    parseFeedTime(ops.ScheduledDateTime, loc),
		estimated:    estimated,
		actual:       actual,
		slot:         parseFeedTime(record.CDMInfoFields.CalculatedTakeOffDateTime, loc),
		registration: aircraft.AircraftRegistration,
		aircraftType: aircraft.AircraftTypeICAOCode,
		stand:        record.FlightData.Airport.Stand.StandPosition,
		origin:       flight.OriginAirportIATACode,
		destination:  flight.DestinationAirportIATACode,
		status:       mapStatus(flight.FlightStatusCode),
	}
}

// dropLeg reports whether a normalized leg is operationally irrelevant:
// missing identity or schedule, or a non-operating code-share copy.
func dropLeg(l leg, rules PairingRules) bool {
	if l.flightNumber == "" || l.scheduled == nil {
		return true
	}
	if l.codeShare != "" {
		if n, err := strconv.Atoi(l.codeShare); err == nil && n > 0 {
			return true
		}
		if l.codeShare == rules.MarketingCodeShareMarker {
			return true
		}
	}
	return false
}
