package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
)

// Enricher is the lookup the handler delegates to.
type Enricher interface {
	Enrich(ctx context.Context, owner, repo string) (*Enrichment, error)
}

// Handler serves POST requests carrying a github_url and responds with the
// enriched repository payload. Failure modes map to distinct statuses:
// malformed request 400, not found 404, upstream access denied 403,
// upstream generic error 502.
type Handler struct {
	enricher Enricher
	logger   zerolog.Logger
}

// NewHandler creates an enrichment HTTP handler.
func NewHandler(enricher Enricher, logger zerolog.Logger) *Handler {
	return &Handler{enricher: enricher, logger: logger}
}

type enrichRequest struct {
	GitHubURL string `json:"github_url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed, use POST"})
		return
	}

	var req enrichRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON in request body"})
		return
	}
	if req.GitHubURL == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing 'github_url' field in request body"})
		return
	}

	owner, repo, err := ParseRepoURL(req.GitHubURL)
	if err != nil {
		h.writeError(w, req.GitHubURL, err)
		return
	}

	h.logger.Debug().Str("owner", owner).Str("repo", repo).Msg("enriching repository")

	enrichment, err := h.enricher.Enrich(r.Context(), owner, repo)
	if err != nil {
		h.writeError(w, req.GitHubURL, err)
		return
	}

	h.logger.Info().Str("repo", enrichment.FullName).Msg("enriched repository")

	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	writeJSON(w, http.StatusOK, enrichment)
}

func (h *Handler) writeError(w http.ResponseWriter, githubURL string, err error) {
	status := http.StatusInternalServerError
	var enrichErr *Error
	if errors.As(err, &enrichErr) {
		status = enrichErr.StatusCode()
	}

	h.logger.Error().Err(err).Int("status", status).Str("url", githubURL).Msg("enrichment failed")
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
