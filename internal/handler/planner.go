package handler

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"

	"github.com/aerops-dev/crew-scheduler/backend/internal/domain"
	"github.com/aerops-dev/crew-scheduler/backend/internal/roster"
	"github.com/aerops-dev/crew-scheduler/backend/internal/schedule"
)

type planCapacityRequest struct {
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	// Apply materializes the proposed shifts into a fresh team roster.
	Apply bool `json:"apply"`
}

type planCapacityResponse struct {
	Date   string             `json:"date"`
	Online bool               `json:"online"`
	Plan   *domain.PlanResult `json:"plan"`
	Teams  []*domain.Team     `json:"teams,omitempty"`
}

func (h *Handler) PlanCapacity(w http.ResponseWriter, r *http.Request) {
	var req planCapacityRequest
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

	plan := schedule.PlanCapacity(turnarounds, dateKey, h.location)

	resp := planCapacityResponse{
		Date:   dateKey,
		Online: online,
		Plan:   plan,
	}

	if req.Apply {
		teams := roster.MaterializeTeams(plan.Shifts)
		if err := h.repository.ReplaceAllTeams(teams); err != nil {
			h.internalServerError(w, r, err)
			return
		}
		resp.Teams = teams

		mail := domain.MailMessage{
			Type: "shift_plan",
			To:   h.config.Email.To,
			Data: domain.ShiftPlanMailData{
				DateKey:     dateKey,
				TotalTeams:  plan.TotalTeams,
				Utilization: plan.Utilization,
				Shifts:      shiftPlanRows(plan.Shifts),
			},
		}
		if err := h.publishMail(mail); err != nil {
			slog.Error("failed to publish shift plan", "date", dateKey, "error", err)
		}
	}

	h.successResponse(w, r, "capacity plan ready", resp)
}

func shiftPlanRows(shifts []domain.PlannerShift) []domain.ShiftPlanMailRow {
	rows := make([]domain.ShiftPlanMailRow, len(shifts))
	for i, s := range shifts {
		rows[i] = domain.ShiftPlanMailRow{
			Start:     formatShiftHour(s.StartHour),
			End:       formatShiftHour(s.EndHour),
			TeamCount: s.TeamCount,
		}
	}
	return rows
}

// formatShiftHour renders a fractional hour as HH:MM, so 4.5 becomes "04:30".
func formatShiftHour(hour float64) string {
	minutes := int(math.Round(hour * 60))
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
