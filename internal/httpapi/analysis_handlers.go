package httpapi

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type AnalysisHandler struct {
	Deps Deps
}

// Refresh reruns every analysis query and rewrites the card files.
func (h AnalysisHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if h.Deps.RunAnalysis == nil {
		WriteError(w, r, http.StatusNotImplemented, "analysis_disabled", "no analysis runner configured")
		return
	}
	written, err := h.Deps.RunAnalysis(r.Context())
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "analysis_failed", err.Error())
		return
	}

	names := make([]string, len(written))
	for i, p := range written {
		names[i] = filepath.Base(p)
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "written": len(names), "files": names})
}

// Cards returns the pre-rendered card JSON, keyed by card name.
func (h AnalysisHandler) Cards(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(h.Deps.CardsDir)
	if err != nil {
		if os.IsNotExist(err) {
			WriteJSON(w, http.StatusOK, map[string]any{})
			return
		}
		WriteError(w, r, http.StatusInternalServerError, "cards_unreadable", err.Error())
		return
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "q_") && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	cards := map[string]json.RawMessage{}
	for _, name := range names {
		b, err := os.ReadFile(filepath.Join(h.Deps.CardsDir, name))
		if err != nil {
			continue
		}
		cards[strings.TrimSuffix(name, ".json")] = b
	}
	WriteJSON(w, http.StatusOK, cards)
}
