package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rhuss/recherche/pkg/api"
)

// LivenessMessage is returned by the root route.
const LivenessMessage = "Deep Research API is running. Use POST /research to start research."

// WriteJSON writes v as a JSON body with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("writing response body failed", "error", err)
	}
}

// WriteResult writes a successful research result with status 200.
func WriteResult(w http.ResponseWriter, res *api.ResearchResult) {
	out := api.ResearchResult{
		ReportMarkdown: res.ReportMarkdown,
		Learnings:      res.Learnings,
		VisitedURLs:    res.VisitedURLs,
	}
	if out.Learnings == nil {
		out.Learnings = []string{}
	}
	if out.VisitedURLs == nil {
		out.VisitedURLs = []string{}
	}
	WriteJSON(w, http.StatusOK, out)
}

// WriteLiveness writes the fixed liveness message with status 200.
func WriteLiveness(w http.ResponseWriter) {
	WriteJSON(w, http.StatusOK, api.MessageResponse{Message: LivenessMessage})
}
