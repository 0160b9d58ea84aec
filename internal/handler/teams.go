package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/aerops-dev/crew-scheduler/backend/internal/domain"
)

type crewMemberRequest struct {
	Name      string  `json:"name" validate:"required"`
	Skill     string  `json:"skill" validate:"required,oneof=Leader Headset Driver Loader"`
	StartHour float64 `json:"startHour" validate:"gte=0,lt=24"`
}

func toMembers(reqs []crewMemberRequest) []domain.CrewMember {
	members := make([]domain.CrewMember, 0, len(reqs))
	for _, m := range reqs {
		members = append(members, domain.CrewMember{
			Name:      m.Name,
			Skill:     domain.Skill(m.Skill),
			StartHour: m.StartHour,
		})
	}
	return members
}

func (h *Handler) GetAllTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.repository.GetAllTeams()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "teams loaded", teams)
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	team := r.Context().Value(TeamCtx).(*domain.Team)
	h.successResponse(w, r, "team loaded", team)
}

type createTeamRequest struct {
	ID             string              `json:"id" validate:"required"`
	Name           string              `json:"name" validate:"required"`
	ShiftStartHour float64             `json:"shiftStartHour" validate:"gte=0,lt=24"`
	ShiftEndHour   float64             `json:"shiftEndHour" validate:"gte=0,lte=24"`
	Members        []crewMemberRequest `json:"members" validate:"required,min=1,dive"`
}

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req createTeamRequest
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	team := &domain.Team{
		ID:             req.ID,
		Name:           req.Name,
		ShiftStartHour: req.ShiftStartHour,
		ShiftEndHour:   req.ShiftEndHour,
		Members:        toMembers(req.Members),
	}

	if err := h.repository.CreateTeam(team); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			h.errorResponse(w, r, "team id already exists")
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "team created", team)
}

type updateTeamRequest struct {
	Name           *string             `json:"name" validate:"omitempty,min=1"`
	ShiftStartHour *float64            `json:"shiftStartHour" validate:"omitempty,gte=0,lt=24"`
	ShiftEndHour   *float64            `json:"shiftEndHour" validate:"omitempty,gte=0,lte=24"`
	Members        []crewMemberRequest `json:"members" validate:"omitempty,min=1,dive"`
	Version        int32               `json:"version"`
}

func (h *Handler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	team := r.Context().Value(TeamCtx).(*domain.Team)

	var req updateTeamRequest
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Name != nil {
		team.Name = *req.Name
	}
	if req.ShiftStartHour != nil {
		team.ShiftStartHour = *req.ShiftStartHour
	}
	if req.ShiftEndHour != nil {
		team.ShiftEndHour = *req.ShiftEndHour
	}
	if req.Members != nil {
		team.Members = toMembers(req.Members)
	}
	team.Version = req.Version

	if err := h.repository.UpdateTeam(team); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "team was modified by someone else, reload and retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "team updated", team)
}

func (h *Handler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	team := r.Context().Value(TeamCtx).(*domain.Team)

	if err := h.repository.DeleteTeam(team.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "team deleted", nil)
}
