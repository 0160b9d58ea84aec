package schedule

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordOpt func(*feedRecord)

func withCodeShare(status string) recordOpt {
	return func(r *feedRecord) { r.FlightIdentification.CodeShareStatus = status }
}

func withStatusCode(code string) recordOpt {
	return func(r *feedRecord) { r.FlightData.Flight.FlightStatusCode = code }
}

func withRoute(origin, destination string) recordOpt {
	return func(r *feedRecord) {
		r.FlightData.Flight.OriginAirportIATACode = origin
		r.FlightData.Flight.DestinationAirportIATACode = destination
	}
}

func feedLeg(flight, direction, scheduled, reg, aircraftType string, opts ...recordOpt) feedRecord {
	var r feedRecord
	r.FlightIdentification.FlightIdentity = flight
	r.FlightIdentification.FlightDirection = direction
	r.FlightData.OperationalTimes.ScheduledDateTime = scheduled
	r.FlightData.Aircraft.AircraftRegistration = reg
	r.FlightData.Aircraft.AircraftTypeICAOCode = aircraftType
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func marshalFeed(t *testing.T, records ...feedRecord) []byte {
	t.Helper()
	payload, err := json.Marshal(feedEnvelope{Flights: records})
	require.NoError(t, err)
	return payload
}

func TestReconcilePairsArrivalWithDeparture(t *testing.T) {
	payload := marshalFeed(t,
		feedLeg("EI100", "Arrival", "2025-11-09T05:15:00", "EI-FNH", "32Q"),
		feedLeg("EI101", "Departure", "2025-11-09T13:15:00", "EI-FNH", "32Q"),
	)

	turns, err := Reconcile(payload, time.UTC)
	require.NoError(t, err)
	require.Len(t, turns, 1)

	turn := turns[0]
	require.NotNil(t, turn.Arrival)
	require.NotNil(t, turn.Departure)
	assert.Equal(t, "EI100", turn.Arrival.FlightNumber)
	assert.Equal(t, "EI101", turn.Departure.FlightNumber)
	assert.Equal(t, "EI-FNH", turn.Registration)
	assert.Equal(t, 3, turn.RequiredTeamSize)

	sta := time.Date(2025, 11, 9, 5, 15, 0, 0, time.UTC)
	assert.Equal(t, fmt.Sprintf("EI100_%d", sta.UnixMilli()), turn.ID)
}

func TestReconcileSplitsWhenGapExceedsLimit(t *testing.T) {
	payload := marshalFeed(t,
		feedLeg("EI100", "Arrival", "2025-11-09T05:15:00", "EI-FNH", "32Q"),
		feedLeg("EI101", "Departure", "2025-11-10T23:59:00", "EI-FNH", "32Q"),
	)

	turns, err := Reconcile(payload, time.UTC)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Nil(t, turns[0].Departure)
	assert.Nil(t, turns[1].Arrival)
}

func TestReconcileSplitsWhenDepartureNotAfterArrival(t *testing.T) {
	payload := marshalFeed(t,
		feedLeg("EI200", "Arrival", "2025-11-09T10:00:00", "EI-DVM", "320"),
		feedLeg("EI201", "Departure", "2025-11-09T09:00:00", "EI-DVM", "320"),
	)

	turns, err := Reconcile(payload, time.UTC)
	require.NoError(t, err)

	// The departure sorts before the arrival; with nothing pending it becomes
	// its own turnaround and the arrival flushes at the end of the walk.
	require.Len(t, turns, 2)
	assert.Nil(t, turns[0].Arrival)
	assert.Nil(t, turns[1].Departure)
}

func TestReconcileDropsIncompleteAndCodeShareLegs(t *testing.T) {
	payload := marshalFeed(t,
		feedLeg("", "Arrival", "2025-11-09T05:15:00", "EI-AAA", "320"),
		feedLeg("EI300", "Arrival", "", "EI-AAB", "320"),
		feedLeg("BA5901", "Arrival", "2025-11-09T06:00:00", "EI-AAC", "320", withCodeShare("2")),
		feedLeg("EI304", "Arrival", "2025-11-09T07:00:00", "EI-AAD", "320", withCodeShare("S")),
		feedLeg("EI305", "Arrival", "2025-11-09T08:00:00", "EI-AAE", "320", withCodeShare("P")),
	)

	turns, err := Reconcile(payload, time.UTC)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "EI305", turns[0].Arrival.FlightNumber)
}

func TestReconcileMapsStatusCodes(t *testing.T) {
	payload := marshalFeed(t,
		feedLeg("EI400", "Arrival", "2025-11-09T05:15:00", "EI-AAF", "320", withStatusCode("L")),
		feedLeg("EI401", "Departure", "2025-11-09T09:15:00", "EI-AAF", "320", withStatusCode("QQ")),
	)

	turns, err := Reconcile(payload, time.UTC)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "Landed", turns[0].ArrivalRemarks)
	assert.Equal(t, "QQ", turns[0].DepartureRemarks, "unknown codes pass through")
}

func TestReconcileDedupsAdjacentSameTimeSameDirection(t *testing.T) {
	// The marketing copy shares registration, time and direction; the
	// operating code-share entry must win the ranking and the duplicate must
	// collapse.
	payload := marshalFeed(t,
		feedLeg("UA6930", "Arrival", "2025-11-09T05:15:00", "EI-FNH", "32Q"),
		feedLeg("EI100", "Arrival", "2025-11-09T05:15:00", "EI-FNH", "32Q", withCodeShare("P")),
		feedLeg("EI101", "Departure", "2025-11-09T13:15:00", "EI-FNH", "32Q"),
	)

	turns, err := Reconcile(payload, time.UTC)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "EI100", turns[0].Arrival.FlightNumber)
}

func TestReconcileSinglesKeepTopRankedPerGroup(t *testing.T) {
	// No registration: duplicates of the same movement group by direction,
	// time and route. Carrier priority decides the survivor.
	payload := marshalFeed(t,
		feedLeg("FR1234", "Departure", "2025-11-09T11:00:00", "", "320", withRoute("", "STN")),
		feedLeg("EI560", "Departure", "2025-11-09T11:00:00", "", "320", withRoute("", "STN")),
		feedLeg("EI562", "Departure", "2025-11-09T12:00:00", "", "320", withRoute("", "BCN")),
	)

	turns, err := Reconcile(payload, time.UTC)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "EI560", turns[0].Departure.FlightNumber)
	assert.Equal(t, "EI562", turns[1].Departure.FlightNumber)
}

func TestReconcileAcceptsBareArrayPayload(t *testing.T) {
	records := []feedRecord{
		feedLeg("EI500", "Arrival", "2025-11-09T05:15:00", "EI-AAG", "320"),
	}
	payload, err := json.Marshal(records)
	require.NoError(t, err)

	turns, err := Reconcile(payload, time.UTC)
	require.NoError(t, err)
	assert.Len(t, turns, 1)
}

func TestReconcileRejectsGarbage(t *testing.T) {
	_, err := Reconcile([]byte("not json"), time.UTC)
	assert.Error(t, err)

	turns, err := Reconcile([]byte(`{"unexpected": true}`), time.UTC)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestReconcileDeterministic(t *testing.T) {
	payload := marshalFeed(t,
		feedLeg("EI100", "Arrival", "2025-11-09T05:15:00", "EI-FNH", "32Q"),
		feedLeg("EI101", "Departure", "2025-11-09T13:15:00", "EI-FNH", "32Q"),
		feedLeg("EI560", "Departure", "2025-11-09T11:00:00", "", "320", withRoute("", "STN")),
		feedLeg("EI104", "Arrival", "2025-11-09T04:20:00", "EI-EAV", "333"),
	)

	first, err := Reconcile(payload, time.UTC)
	require.NoError(t, err)
	second, err := Reconcile(payload, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
