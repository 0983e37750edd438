package httpapi

import "net/http"

// NewMux wires the dashboard-facing JSON API. The dashboard itself is
// a separate frontend; everything here returns data, not markup.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	ph := PullHandler{Deps: d}
	mux.HandleFunc("/pull", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ph.Run,
	}))
	mux.HandleFunc("/pull/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ph.Status,
	}))

	ah := AnalysisHandler{Deps: d}
	mux.HandleFunc("/analysis", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:  ah.Cards,
		http.MethodPost: ah.Refresh,
	}))

	aph := ApplicantsHandler{Deps: d}
	mux.HandleFunc("/applicants", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: aph.List,
	}))

	dbh := DBHandler{DB: d.DB}
	mux.HandleFunc("/db/checkpoint", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: dbh.Checkpoint,
	}))

	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	hh := HealthHandler{}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	return mux
}
