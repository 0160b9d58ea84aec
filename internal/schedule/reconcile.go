package schedule

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aerops-dev/crew-scheduler/backend/internal/domain"
)

const defaultRequiredTeamSize = 3

// PairingRules holds the configurable tables the reconciler uses to rank
// duplicate legs and to bound turnaround pairing. The carrier tables are
// operational data, not algorithm: adjust them without touching the pairing
// walk.
type PairingRules struct {
	// MaxTurnaroundGap is the longest arrival-to-departure gap that still
	// pairs both legs into one turnaround.
	MaxTurnaroundGap time.Duration

	// OperatingCodeShareMarker denotes the operating carrier's copy of a
	// code-share flight; MarketingCodeShareMarker denotes a marketing copy
	// that never operates.
	OperatingCodeShareMarker string
	MarketingCodeShareMarker string

	// HighFrequencyCarriers use internal flight numbering at or above
	// HighFrequencyNumber for duplicate marketing entries, which ranks them
	// lowest.
	HighFrequencyCarriers []string
	HighFrequencyNumber   int

	// CarrierPriorities ranks named carrier prefixes; anything absent gets
	// DefaultCarrierPriority.
	CarrierPriorities      map[string]int
	DefaultCarrierPriority int

	// RegistrationPrefixes maps a carrier prefix to its national aircraft
	// registration prefix. A match strongly ranks the operating leg first.
	RegistrationPrefixes map[string]string
}

func DefaultPairingRules() PairingRules {
	return PairingRules{
		MaxTurnaroundGap:         18 * time.Hour,
		OperatingCodeShareMarker: "P",
		MarketingCodeShareMarker: "S",
		HighFrequencyCarriers:    []string{"EI", "BA", "IB", "VY", "QF", "AY"},
		HighFrequencyNumber:      4000,
		CarrierPriorities: map[string]int{
			"EI": 20,
			"EA": 18,
			"AA": 15, "UA": 15, "DL": 15, "AC": 15, "TS": 15,
			"ET": 15, "EK": 15, "QR": 15, "BA": 15, "IB": 15, "VY": 15,
		},
		DefaultCarrierPriority: 5,
		RegistrationPrefixes: map[string]string{
			"EI": "EI",
			"BA": "G",
			"AA": "N",
		},
	}
}

// carrierScore ranks a leg by its operating carrier. High-frequency internal
// numbering for the named carriers ranks lowest of all.
func (r PairingRules) carrierScore(flightNumber string) int {
	prefix := carrierPrefix(flightNumber)
	number := flightNumberPart(flightNumber)
	for _, carrier := range r.HighFrequencyCarriers {
		if prefix == carrier && number >= r.HighFrequencyNumber {
			return 1
		}
	}
	if score, ok := r.CarrierPriorities[prefix]; ok {
		return score
	}
	return r.DefaultCarrierPriority
}

// registrationScore rewards a leg whose airframe carries the carrier's
// national registration prefix.
func (r PairingRules) registrationScore(l *leg) int {
	regPrefix, ok := r.RegistrationPrefixes[carrierPrefix(l.flightNumber)]
	if !ok {
		return 0
	}
	if strings.HasPrefix(strings.ToUpper(l.registration), regPrefix) {
		return 100
	}
	return 0
}

func (r PairingRules) codeShareScore(l *leg) int {
	if l.codeShare == r.OperatingCodeShareMarker {
		return 10
	}
	return 5
}

func carrierPrefix(flightNumber string) string {
	if len(flightNumber) < 2 {
		return strings.ToUpper(flightNumber)
	}
	return strings.ToUpper(flightNumber[:2])
}

func flightNumberPart(flightNumber string) int {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, flightNumber)
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// Reconcile converts a raw feed payload into turnarounds using the default
// pairing rules. Malformed records are dropped silently; only an unparsable
// payload is an error.
func Reconcile(payload []byte, loc *time.Location) ([]*domain.Turnaround, error) {
	return ReconcileWithRules(payload, loc, DefaultPairingRules())
}

func ReconcileWithRules(payload []byte, loc *time.Location, rules PairingRules) ([]*domain.Turnaround, error) {
	records, err := decodeFeed(payload)
	if err != nil {
		return nil, err
	}

	var legs []*leg
	for _, record := range records {
		l := normalizeRecord(record, loc)
		if dropLeg(l, rules) {
			continue
		}
		legs = append(legs, &l)
	}

	// Legs with a registration pair per airframe; the rest dedup as singles.
	byRegistration := map[string][]*leg{}
	var regOrder []string
	var singles []*leg

	for _, l := range legs {
		if l.registration == "" {
			singles = append(singles, l)
			continue
		}
		if _, seen := byRegistration[l.registration]; !seen {
			regOrder = append(regOrder, l.registration)
		}
		byRegistration[l.registration] = append(byRegistration[l.registration], l)
	}

	var turnarounds []*domain.Turnaround
	for _, reg := range regOrder {
		group := byRegistration[reg]
		rules.sortRegistrationGroup(group)
		group = dedupAdjacent(group)
		turnarounds = append(turnarounds, pairGroup(group, rules)...)
	}
	turnarounds = append(turnarounds, dedupSingles(singles, rules)...)

	return turnarounds, nil
}

// sortRegistrationGroup orders one airframe's legs by scheduled time, then by
// the operating-leg heuristics: registration match, operating code-share,
// carrier priority, flight number.
func (r PairingRules) sortRegistrationGroup(group []*leg) {
	sort.SliceStable(group, func(i, j int) bool {
		a, b := group[i], group[j]
		if !a.scheduled.Equal(*b.scheduled) {
			return a.scheduled.Before(*b.scheduled)
		}
		if sa, sb := r.registrationScore(a), r.registrationScore(b); sa != sb {
			return sa > sb
		}
		if sa, sb := r.codeShareScore(a), r.codeShareScore(b); sa != sb {
			return sa > sb
		}
		if sa, sb := r.carrierScore(a.flightNumber), r.carrierScore(b.flightNumber); sa != sb {
			return sa > sb
		}
		return a.flightNumber < b.flightNumber
	})
}

// dedupAdjacent removes consecutive entries sharing the same scheduled time
// and direction, keeping the best-ranked (first) one.
func dedupAdjacent(group []*leg) []*leg {
	if len(group) == 0 {
		return group
	}
	out := group[:1]
	for _, current := range group[1:] {
		prev := out[len(out)-1]
		if current.scheduled.Equal(*prev.scheduled) && current.direction == prev.direction {
			continue
		}
		out = append(out, current)
	}
	return out
}

// pairGroup walks one airframe's deduplicated legs keeping a single pending
// arrival. A departure closes the pending arrival into a paired turnaround
// only when it is strictly later and within the maximum gap.
func pairGroup(group []*leg, rules PairingRules) []*domain.Turnaround {
	var out []*domain.Turnaround
	var pendingArrival *leg

	for _, l := range group {
		switch l.direction {
		case domain.LegArrival:
			if pendingArrival != nil {
				out = append(out, buildTurnaround(pendingArrival, nil))
			}
			pendingArrival = l
		case domain.LegDeparture:
			if pendingArrival == nil {
				out = append(out, buildTurnaround(nil, l))
				continue
			}
			gap := l.scheduled.Sub(*pendingArrival.scheduled)
			if gap > 0 && gap < rules.MaxTurnaroundGap {
				out = append(out, buildTurnaround(pendingArrival, l))
			} else {
				out = append(out, buildTurnaround(pendingArrival, nil))
				out = append(out, buildTurnaround(nil, l))
			}
			pendingArrival = nil
		default:
			out = append(out, buildTurnaround(nil, l))
		}
	}
	if pendingArrival != nil {
		out = append(out, buildTurnaround(pendingArrival, nil))
	}
	return out
}

// dedupSingles groups registration-less legs by (direction, scheduled time,
// route) and keeps only the best-ranked leg of each group; the rest are
// marketing duplicates.
func dedupSingles(singles []*leg, rules PairingRules) []*domain.Turnaround {
	groups := map[string][]*leg{}
	var order []string

	for _, l := range singles {
		key := fmt.Sprintf("%s_%d_%s", l.direction, l.scheduled.UnixMilli(), l.route())
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], l)
	}

	var out []*domain.Turnaround
	for _, key := range order {
		group := groups[key]
		sort.SliceStable(group, func(i, j int) bool {
			a, b := group[i], group[j]
			if sa, sb := rules.codeShareScore(a), rules.codeShareScore(b); sa != sb {
				return sa > sb
			}
			if sa, sb := rules.carrierScore(a.flightNumber), rules.carrierScore(b.flightNumber); sa != sb {
				return sa > sb
			}
			return a.flightNumber < b.flightNumber
		})
		main := group[0]
		if main.direction == domain.LegArrival {
			out = append(out, buildTurnaround(main, nil))
		} else {
			out = append(out, buildTurnaround(nil, main))
		}
	}
	return out
}

func buildTurnaround(arrival, departure *leg) *domain.Turnaround {
	primary := arrival
	if primary == nil {
		primary = departure
	}

	var id string
	if primary.flightNumber != "" && primary.scheduled != nil {
		id = fmt.Sprintf("%s_%d", primary.flightNumber, primary.scheduled.UnixMilli())
	} else {
		// Legs with no identifying data get a random id; this is the only
		// non-deterministic output of the reconciler.
		id = "turn_" + uuid.NewString()
	}

	aircraftType := primary.aircraftType
	if aircraftType == "" {
		aircraftType = "320"
	}

	t := &domain.Turnaround{
		ID:               id,
		AircraftType:     aircraftType,
		Registration:     primary.registration,
		Stand:            primary.stand,
		RequiredTeamSize: defaultRequiredTeamSize,
	}

	if arrival != nil {
		t.Arrival = &domain.LegInfo{
			FlightNumber: arrival.flightNumber,
			City:         arrival.origin,
			Scheduled:    arrival.scheduled,
			Estimated:    arrival.estimated,
			Actual:       arrival.actual,
		}
		t.ArrivalRemarks = arrival.status
	}
	if departure != nil {
		t.Departure = &domain.LegInfo{
			FlightNumber: departure.flightNumber,
			City:         departure.destination,
			Scheduled:    departure.scheduled,
			Estimated:    departure.estimated,
			Actual:       departure.actual,
			Slot:         departure.slot,
		}
		t.DepartureRemarks = departure.status
	}
	return t
}
