package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/aerops-dev/crew-scheduler/backend/internal/domain"
	"github.com/aerops-dev/crew-scheduler/backend/internal/schedule"
)

// Turboprop types are handled by a separate regional unit and never reach
// the mainline crews.
var excludedAircraftTypes = map[string]bool{
	"AT7":  true,
	"AT76": true,
}

func (h *Handler) todayKey() string {
	return schedule.DateKey(time.Now(), h.location)
}

// dateParam reads and validates the date query parameter, defaulting to the
// operational today.
func (h *Handler) dateParam(r *http.Request) (string, error) {
	dateKey := r.URL.Query().Get("date")
	if dateKey == "" {
		return h.todayKey(), nil
	}
	if _, err := schedule.ParseDateKey(dateKey, h.location); err != nil {
		return "", err
	}
	return dateKey, nil
}

// loadTurnarounds fetches the feed for the date (live or cached) and runs
// reconciliation.
func (h *Handler) loadTurnarounds(ctx context.Context, dateKey string) ([]*domain.Turnaround, bool, error) {
	payload, online, err := h.feedService.Snapshot(ctx, dateKey, h.location)
	if err != nil {
		return nil, false, err
	}

	if online {
		feedOnline.Set(1)
	} else {
		feedOnline.Set(0)
	}

	turnarounds, err := schedule.Reconcile(payload, h.location)
	if err != nil {
		return nil, online, err
	}

	kept := turnarounds[:0]
	for _, t := range turnarounds {
		if !excludedAircraftTypes[t.AircraftType] {
			kept = append(kept, t)
		}
	}
	return kept, online, nil
}

type scheduleSnapshotResponse struct {
	Date        string               `json:"date"`
	Online      bool                 `json:"online"`
	Turnarounds []*domain.Turnaround `json:"turnarounds"`
}

// GetTurnarounds returns the reconciled schedule for a date.
func (h *Handler) GetTurnarounds(w http.ResponseWriter, r *http.Request) {
	dateKey, err := h.dateParam(r)
	if err != nil {
		h.errorResponse(w, r, "invalid date, expected YYYY-MM-DD")
		return
	}

	turnarounds, online, err := h.loadTurnarounds(r.Context(), dateKey)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "schedule loaded", scheduleSnapshotResponse{
		Date:        dateKey,
		Online:      online,
		Turnarounds: turnarounds,
	})
}

type refreshScheduleRequest struct {
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// RefreshSchedule re-fetches the feed and discards the stored assignments
// for the date, keeping only the pinned ones.
func (h *Handler) RefreshSchedule(w http.ResponseWriter, r *http.Request) {
	var req refreshScheduleRequest
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	dateKey := req.Date
	if dateKey == "" {
		dateKey = h.todayKey()
	}

	turnarounds, online, err := h.loadTurnarounds(r.Context(), dateKey)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if len(turnarounds) > 0 {
		assignments, pins, err := h.repository.GetAssignments(dateKey)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}

		for id, entry := range assignments {
			for _, leg := range []domain.LegType{domain.LegArrival, domain.LegDeparture} {
				if entry.Get(leg) != "" && !pins.Pinned(id, leg) {
					entry.Set(leg, "")
				}
			}
			if entry.Empty() {
				delete(assignments, id)
			} else {
				assignments[id] = entry
			}
		}
		if err := h.repository.SaveAssignments(dateKey, assignments, pins); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	h.successResponse(w, r, "schedule refreshed", scheduleSnapshotResponse{
		Date:        dateKey,
		Online:      online,
		Turnarounds: turnarounds,
	})
}

func (h *Handler) publishMail(msg domain.MailMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
