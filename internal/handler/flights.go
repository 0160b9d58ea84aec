package handler

import (
	"net/http"
)

// ProxyFlights forwards the raw provider payload to the flight board view so
// browser clients never see the upstream credentials.
func (h *Handler) ProxyFlights(w http.ResponseWriter, r *http.Request) {
	var payload []byte
	var err error

	if latestModTime := r.URL.Query().Get("latestModTime"); latestModTime != "" {
		payload, err = h.feedClient.Updates(r.Context(), latestModTime)
	} else {
		dateKey := r.URL.Query().Get("date")
		if dateKey == "" {
			dateKey = h.todayKey()
		}
		direction := r.URL.Query().Get("direction")
		payload, err = h.feedClient.Snapshot(r.Context(), dateKey, direction, h.location)
	}
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		h.logInternalServerError(r, err)
	}
}
