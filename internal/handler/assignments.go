package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aerops-dev/crew-scheduler/backend/internal/domain"
	"github.com/aerops-dev/crew-scheduler/backend/internal/schedule"
)

type assignmentsResponse struct {
	Date        string               `json:"date"`
	Assignments domain.AssignmentSet `json:"assignments"`
	Pins        domain.PinSet        `json:"pins"`
}

func (h *Handler) GetAssignments(w http.ResponseWriter, r *http.Request) {
	dateKey, err := h.dateParam(r)
	if err != nil {
		h.errorResponse(w, r, "invalid date, expected YYYY-MM-DD")
		return
	}

	assignments, pins, err := h.repository.GetAssignments(dateKey)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "assignments loaded", assignmentsResponse{
		Date:        dateKey,
		Assignments: assignments,
		Pins:        pins,
	})
}

type autoAssignRequest struct {
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type autoAssignResponse struct {
	Date           string               `json:"date"`
	Online         bool                 `json:"online"`
	Assignments    domain.AssignmentSet `json:"assignments"`
	UnassignedKeys []string             `json:"unassignedKeys"`
}

func (h *Handler) AutoAssign(w http.ResponseWriter, r *http.Request) {
	var req autoAssignRequest
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

	teams, err := h.repository.GetAllTeams()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if len(teams) == 0 {
		h.errorResponse(w, r, "no teams available, create teams or apply a capacity plan first")
		return
	}

	stored, pins, err := h.repository.GetAssignments(dateKey)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	result, unassigned := schedule.AutoAssign(turnarounds, teams, stored, pins, dateKey, h.location)

	if err := h.repository.SaveAssignments(dateKey, result, pins); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	unassignedLegs.WithLabelValues(dateKey).Set(float64(len(unassigned)))

	if len(unassigned) > 0 {
		assignedCount := 0
		for _, entry := range result {
			if entry.Arrival != "" {
				assignedCount++
			}
			if entry.Departure != "" {
				assignedCount++
			}
		}
		mail := domain.MailMessage{
			Type: "unassigned_report",
			To:   h.config.Email.To,
			Data: domain.UnassignedReportMailData{
				DateKey:        dateKey,
				UnassignedKeys: unassigned,
				AssignedCount:  assignedCount,
			},
		}
		if err := h.publishMail(mail); err != nil {
			// assignment already persisted, a lost report is not worth a 500
			slog.Error("failed to publish unassigned report", "date", dateKey, "error", err)
		}
	}

	h.successResponse(w, r, "auto-assignment complete", autoAssignResponse{
		Date:           dateKey,
		Online:         online,
		Assignments:    result,
		UnassignedKeys: unassigned,
	})
}

type manualAssignRequest struct {
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	TurnaroundID string `json:"turnaroundId" validate:"required"`
	Leg          string `json:"leg" validate:"required,oneof=arrival departure"`
	TeamID       string `json:"teamId"`
}

func (h *Handler) ManualAssign(w http.ResponseWriter, r *http.Request) {
	var req manualAssignRequest
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	leg := domain.LegType(req.Leg)

	// clearing a leg needs no availability check
	if req.TeamID == "" {
		if err := h.repository.UpsertAssignment(req.Date, req.TurnaroundID, leg, ""); err != nil {
			h.internalServerError(w, r, err)
			return
		}
		h.successResponse(w, r, "assignment cleared", nil)
		return
	}

	team, err := h.repository.GetTeamByID(req.TeamID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "team does not exist")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	turnarounds, _, err := h.loadTurnarounds(r.Context(), req.Date)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	var target *domain.Turnaround
	for _, t := range turnarounds {
		if t.ID == req.TurnaroundID {
			target = t
			break
		}
	}
	if target == nil {
		h.errorResponse(w, r, "turnaround not found in the current schedule")
		return
	}

	assignments, _, err := h.repository.GetAssignments(req.Date)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	available, conflict := schedule.CheckAvailability(target, leg, team, assignments, turnarounds)
	if !available {
		if conflict != "" {
			h.errorResponse(w, r, fmt.Sprintf("%s is busy with flight %s", team.Name, conflict))
		} else {
			h.errorResponse(w, r, "this leg has no service window")
		}
		return
	}

	if err := h.repository.UpsertAssignment(req.Date, req.TurnaroundID, leg, req.TeamID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "assignment saved", nil)
}

type pinAssignmentRequest struct {
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	TurnaroundID string `json:"turnaroundId" validate:"required"`
	Leg          string `json:"leg" validate:"required,oneof=arrival departure"`
	Pinned       bool   `json:"pinned"`
}

func (h *Handler) PinAssignment(w http.ResponseWriter, r *http.Request) {
	var req pinAssignmentRequest
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.SetAssignmentPinned(req.Date, req.TurnaroundID, domain.LegType(req.Leg), req.Pinned); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "pin updated", nil)
}
