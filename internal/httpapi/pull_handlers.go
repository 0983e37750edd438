package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"gradpulse-engine/internal/events"
	"gradpulse-engine/internal/pipeline"
	"gradpulse-engine/internal/store"
)

type PullHandler struct {
	Deps Deps
}

type pullRequest struct {
	Pages   *int  `json:"pages"`
	DelayMS *int  `json:"delay_ms"`
	UseLLM  *bool `json:"use_llm"`
	Force   bool  `json:"force"`
}

// Run executes one pull cycle synchronously and reports its counts.
// A cycle already in flight comes back as 409, not a queue.
func (h PullHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req pullRequest
	if r.Body != nil {
		// An empty body means "use config defaults".
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	opts := pipeline.Opts{
		Pages:  h.Deps.DefaultPages,
		UseLLM: h.Deps.DefaultUseLLM,
		Force:  req.Force,
	}
	if req.Pages != nil {
		opts.Pages = *req.Pages
	}
	if req.DelayMS != nil {
		opts.Delay = time.Duration(*req.DelayMS) * time.Millisecond
	}
	if req.UseLLM != nil {
		opts.UseLLM = *req.UseLLM
	}

	res, err := h.Deps.RunPull(r.Context(), opts)
	if err != nil {
		if errors.Is(err, pipeline.ErrBusy) {
			WriteJSON(w, http.StatusConflict, map[string]any{"ok": false, "busy": true})
			return
		}
		WriteError(w, r, http.StatusInternalServerError, "pull_failed", err.Error())
		return
	}

	if h.Deps.Hub != nil {
		h.Deps.Hub.Publish(events.MakeEvent(RequestIDFrom(r.Context()), "pull_completed", 1, res))
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "result": res})
}

// Status reports whether a cycle is in flight and the table size.
func (h PullHandler) Status(w http.ResponseWriter, r *http.Request) {
	busy := false
	if h.Deps.PullBusy != nil {
		busy = h.Deps.PullBusy()
	}

	out := map[string]any{"busy": busy}
	if h.Deps.DB != nil {
		n, err := store.CountApplicants(r.Context(), h.Deps.DB)
		if err != nil {
			WriteError(w, r, http.StatusInternalServerError, "status_failed", err.Error())
			return
		}
		out["applicants"] = n
	}
	WriteJSON(w, http.StatusOK, out)
}
