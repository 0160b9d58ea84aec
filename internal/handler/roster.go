package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aerops-dev/crew-scheduler/backend/internal/roster"
)

// GetMemberRoster renders a member's generated duty calendar for one month.
// month is YYYY-MM and defaults to the current month.
func (h *Handler) GetMemberRoster(w http.ResponseWriter, r *http.Request) {
	member := chi.URLParam(r, "member")
	if member == "" {
		h.errorResponse(w, r, "invalid member name")
		return
	}

	monthDate := time.Now().In(h.location)
	if month := r.URL.Query().Get("month"); month != "" {
		parsed, err := time.ParseInLocation("2006-01", month, h.location)
		if err != nil {
			h.errorResponse(w, r, "invalid month, expected YYYY-MM")
			return
		}
		monthDate = parsed
	}

	shifts := roster.GenerateMonth(member, monthDate, nil, h.location)

	h.successResponse(w, r, "roster generated", map[string]any{
		"member": member,
		"month":  monthDate.Format("2006-01"),
		"shifts": shifts,
	})
}
