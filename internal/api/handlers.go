package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gorilla/mux"

	"pitchcraft/internal/charts"
	"pitchcraft/internal/models"
	"pitchcraft/internal/store"
)

const (
	msgInvalidBody      = "Invalid request body"
	msgTextRequired     = "Text content is required"
	msgTextTooLong      = "Text content is too long"
	msgInvalidPrompts   = "Invalid prompts array"
	msgInvalidIntent    = "Unsupported chart intent"
	msgGenerateFailed   = "Failed to generate presentation"
	msgImagesFailed     = "Failed to generate images"
	msgDeckNotFound     = "Presentation not found"
	msgStoreUnavailable = "Presentation storage is not configured"
	msgSearchDisabled   = "Search is not configured"
	msgQueryRequired    = "Query parameter q is required"
	msgSearchFailed     = "Search failed"
	msgInvalidSize      = "Query parameter size must be a positive integer"
	msgWorkflowDisabled = "Workflow engine is not configured"
	msgWorkflowFailed   = "Failed to start workflow"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{"success": false, "error": msg})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.options.MaxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return false
	}
	return true
}

// checkText trims text in place and writes a 400 when it is unusable.
func (s *Server) checkText(w http.ResponseWriter, text *string) bool {
	*text = strings.TrimSpace(*text)
	if *text == "" {
		writeError(w, http.StatusBadRequest, msgTextRequired)
		return false
	}
	if utf8.RuneCountInString(*text) > s.options.MaxTextLength {
		writeError(w, http.StatusBadRequest, msgTextTooLong)
		return false
	}
	return true
}

type textRequest struct {
	Text string `json:"text"`
}

type presentationResponse struct {
	Success      bool           `json:"success"`
	Presentation []models.Slide `json:"presentation"`
	DeckID       string         `json:"deckId"`
	Tier         models.Tier    `json:"tier"`
	Note         string         `json:"note,omitempty"`
}

func (s *Server) generatePresentationHandler(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !s.decode(w, r, &req) || !s.checkText(w, &req.Text) {
		return
	}

	d, err := s.deps.Generator.Generate(r.Context(), req.Text)
	if err != nil {
		s.logger.Error("presentation generation failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, msgGenerateFailed)
		return
	}

	writeJSON(w, http.StatusOK, presentationResponse{
		Success:      true,
		Presentation: d.Slides,
		DeckID:       d.ID,
		Tier:         d.Tier,
		Note:         d.Note,
	})
}

type imagesRequest struct {
	Prompts []string `json:"prompts"`
}

func (s *Server) generateImagesHandler(w http.ResponseWriter, r *http.Request) {
	var req imagesRequest
	r.Body = http.MaxBytesReader(w, r.Body, s.options.MaxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Prompts == nil {
		writeError(w, http.StatusBadRequest, msgInvalidPrompts)
		return
	}

	images, note := s.deps.Images.GenerateForPrompts(r.Context(), req.Prompts)
	if err := r.Context().Err(); err != nil {
		writeError(w, http.StatusInternalServerError, msgImagesFailed)
		return
	}

	body := map[string]interface{}{"success": true, "images": images}
	if note != "" {
		body["note"] = note
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) extractHandler(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !s.decode(w, r, &req) || !s.checkText(w, &req.Text) {
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"profile": s.deps.Generator.Extract(r.Context(), req.Text),
	})
}

type chartRequest struct {
	Metrics []models.Metric `json:"metrics"`
	Text    string          `json:"text"`
	Intent  string          `json:"intent"`
}

// chartsHandler synthesizes from explicit metrics, or from metrics extracted
// out of text when none are given.
func (s *Server) chartsHandler(w http.ResponseWriter, r *http.Request) {
	var req chartRequest
	if !s.decode(w, r, &req) {
		return
	}

	intent, ok := charts.ParseIntent(req.Intent)
	if !ok {
		writeError(w, http.StatusBadRequest, msgInvalidIntent)
		return
	}

	metrics := req.Metrics
	if metrics == nil && strings.TrimSpace(req.Text) != "" {
		if !s.checkText(w, &req.Text) {
			return
		}
		metrics = s.deps.Generator.Extract(r.Context(), req.Text).Metrics
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"chartData": charts.Synthesize(metrics, intent),
	})
}

func (s *Server) getPresentationHandler(w http.ResponseWriter, r *http.Request) {
	if s.deps.Store == nil {
		writeError(w, http.StatusServiceUnavailable, msgStoreUnavailable)
		return
	}

	id := mux.Vars(r)["id"]
	d, err := s.deps.Store.Get(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, msgDeckNotFound)
		return
	case err != nil:
		s.logger.Error("presentation lookup failed", map[string]interface{}{
			"deckId": id,
			"error":  err.Error(),
		})
		writeError(w, http.StatusServiceUnavailable, msgStoreUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "deck": d})
}

func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	if s.deps.Search == nil {
		writeError(w, http.StatusServiceUnavailable, msgSearchDisabled)
		return
	}

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, msgQueryRequired)
		return
	}
	size, ok := searchSize(r.URL.Query().Get("size"))
	if !ok {
		writeError(w, http.StatusBadRequest, msgInvalidSize)
		return
	}

	hits, err := s.deps.Search.Search(r.Context(), q, size)
	if err != nil {
		s.logger.Error("profile search failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, msgSearchFailed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "results": hits})
}

// maxSearchSize stays well under the index's max_result_window.
const maxSearchSize = 100

// searchSize parses the size parameter. Empty means the index default; larger
// values are clamped to maxSearchSize.
func searchSize(raw string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	size, err := strconv.Atoi(raw)
	if err != nil || size < 1 {
		return 0, false
	}
	if size > maxSearchSize {
		size = maxSearchSize
	}
	return size, true
}

type workflowRequest struct {
	Text  string `json:"text"`
	Email string `json:"email,omitempty"`
}

func (s *Server) startWorkflowHandler(w http.ResponseWriter, r *http.Request) {
	if s.deps.Workflows == nil {
		writeError(w, http.StatusServiceUnavailable, msgWorkflowDisabled)
		return
	}

	var req workflowRequest
	if !s.decode(w, r, &req) || !s.checkText(w, &req.Text) {
		return
	}

	vars := map[string]interface{}{"text": req.Text}
	if req.Email != "" {
		vars["recipientEmail"] = req.Email
	}

	key, err := s.deps.Workflows.StartProcess(r.Context(), s.options.ProcessID, vars)
	if err != nil {
		s.logger.Error("workflow start failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusServiceUnavailable, msgWorkflowFailed)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"success":            true,
		"processInstanceKey": key,
	})
}

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) readyHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(s.deps.Checks))
	for name, check := range s.deps.Checks {
		if err := check(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	ready := "ready"
	if status != http.StatusOK {
		ready = "not ready"
	}
	writeJSON(w, status, map[string]interface{}{"status": ready, "checks": checks})
}
