package httpapi

import (
	"net/http"
	"strconv"
)

type ApplicantsHandler struct {
	Deps Deps
}

func (h ApplicantsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	rows, err := h.Deps.listApplicants()(r.Context(), h.Deps.DB, limit)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "list_failed", err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"applicants": rows, "count": len(rows)})
}
