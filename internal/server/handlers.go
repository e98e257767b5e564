package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"explainer/internal/core"
	"explainer/internal/explain"
	"explainer/internal/logger"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// HealthResponse is the /health body
type HealthResponse struct {
	Status string `json:"status"`
	Mode   string `json:"mode"`
	Uptime string `json:"uptime"`
}

// ExplainRequest is the body of POST /api/explain. Exactly one of Topic,
// Text and URL is set.
type ExplainRequest struct {
	Topic string `json:"topic,omitempty"`
	Text  string `json:"text,omitempty"`
	URL   string `json:"url,omitempty"`
	Level string `json:"level"`
	Mode  string `json:"mode,omitempty"`
}

// AskRequest is the body of POST /api/ask.
type AskRequest struct {
	Question string             `json:"question"`
	Style    string             `json:"style,omitempty"`
	Mode     string             `json:"mode,omitempty"`
	History  []core.ChatMessage `json:"history,omitempty"`
}

// ResultResponse is the JSON form of an explain.Result.
type ResultResponse struct {
	Status      explain.Status             `json:"status"`
	Reason      explain.Reason             `json:"reason,omitempty"`
	Message     string                     `json:"message,omitempty"` // User-facing failure text
	Error       string                     `json:"error,omitempty"`
	Explanation *core.GeneratedExplanation `json:"explanation,omitempty"`
}

// ErrorResponse is returned for malformed requests
type ErrorResponse struct {
	Error string `json:"error"`
}

func newResultResponse(result explain.Result) ResultResponse {
	if result.OK() {
		explanation := result.Explanation
		return ResultResponse{Status: result.Status, Explanation: &explanation}
	}
	return ResultResponse{
		Status:  result.Status,
		Reason:  result.Reason,
		Message: result.Display(),
		Error:   result.ErrorMessage(),
	}
}

// statusFor maps a Result to an HTTP status code.
func statusFor(result explain.Result) int {
	if result.OK() {
		return http.StatusOK
	}
	switch result.Reason {
	case explain.ReasonTopicNotFound:
		return http.StatusNotFound
	case explain.ReasonMissingConfig:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

// handleHealth handles the /health endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Mode:   string(s.defaultMode),
		Uptime: time.Since(s.started).Round(time.Second).String(),
	})
}

// parseMode resolves a mode field, empty meaning the server default.
func (s *Server) parseMode(value string) (core.BackendMode, error) {
	if strings.TrimSpace(value) == "" {
		return s.defaultMode, nil
	}
	return core.ParseBackendMode(value)
}

// handleAPIExplain handles POST /api/explain
func (s *Server) handleAPIExplain(w http.ResponseWriter, r *http.Request) {
	var req ExplainRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sources := 0
	for _, v := range []string{req.Topic, req.Text, req.URL} {
		if strings.TrimSpace(v) != "" {
			sources++
		}
	}
	if sources != 1 {
		s.respondError(w, http.StatusBadRequest, "exactly one of topic, text or url is required")
		return
	}

	mode, err := s.parseMode(req.Mode)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	level := core.Level(strings.ToLower(strings.TrimSpace(req.Level)))
	e, failed := s.explainerFor(r.Context(), mode)
	if failed != nil {
		s.respondResult(w, *failed)
		return
	}

	var result explain.Result
	switch {
	case strings.TrimSpace(req.Topic) != "":
		result = e.ExplainTopic(r.Context(), strings.TrimSpace(req.Topic), level)
	case strings.TrimSpace(req.URL) != "":
		result = e.ExplainURL(r.Context(), strings.TrimSpace(req.URL), level)
	default:
		result = e.ExplainLevel(r.Context(), core.ExplanationRequest{SourceText: req.Text, Level: level, BackendMode: mode})
	}
	s.respondResult(w, result)
}

// handleAPIAsk handles POST /api/ask
func (s *Server) handleAPIAsk(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		s.respondError(w, http.StatusBadRequest, "question is required")
		return
	}

	style, err := core.ParseStyle(req.Style)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	mode, err := s.parseMode(req.Mode)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	for _, msg := range req.History {
		if msg.Role != core.RoleUser && msg.Role != core.RoleAssistant {
			s.respondError(w, http.StatusBadRequest, "history roles must be user or assistant")
			return
		}
	}

	e, failed := s.explainerFor(r.Context(), mode)
	if failed != nil {
		s.respondResult(w, *failed)
		return
	}

	result := e.ExplainStyle(r.Context(), core.ExplanationRequest{
		SourceText:  req.Question,
		Style:       style,
		BackendMode: mode,
	}, req.History)
	s.respondResult(w, result)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid JSON body: " + err.Error())
	}
	return nil
}

func (s *Server) respondResult(w http.ResponseWriter, result explain.Result) {
	s.respondJSON(w, statusFor(result), newResultResponse(result))
}

// respondJSON writes a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode JSON response", err)
	}
}

// respondError writes a JSON error
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{Error: message})
}
