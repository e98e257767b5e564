package server

import (
	"bytes"
	"net/http"
	"strings"

	"explainer/internal/core"
	"explainer/internal/explain"
	"explainer/internal/logger"
)

// pageData is the view model shared by the form pages
type pageData struct {
	Title  string
	Levels []core.Level
	Modes  []string

	Level core.Level
	Mode  string
	Topic string
	Text  string

	Submitted   bool
	Failed      bool
	Message     string
	Explanation string
}

func (s *Server) newPageData(title string) pageData {
	return pageData{
		Title:  title,
		Levels: core.Levels(),
		Modes:  core.ModeOptions(),
		Level:  core.LevelChild,
		Mode:   s.defaultMode.Label(),
	}
}

// handleHomePage renders the landing page
func (s *Server) handleHomePage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, "home.html", s.newPageData("Educational Explainer"))
}

// handleTopicPage renders the topic form and, on POST, the explanation
func (s *Server) handleTopicPage(w http.ResponseWriter, r *http.Request) {
	data := s.newPageData("Explain a topic")
	if r.Method != http.MethodPost {
		s.renderPage(w, http.StatusOK, "topic.html", data)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	data.Topic = strings.TrimSpace(r.PostForm.Get("topic"))
	if data.Topic == "" {
		s.renderPage(w, http.StatusOK, "topic.html", data)
		return
	}

	status := s.explainForm(r, &data, func(e *explain.Explainer, level core.Level, _ core.BackendMode) explain.Result {
		return e.ExplainTopic(r.Context(), data.Topic, level)
	})
	s.renderPage(w, status, "topic.html", data)
}

// handleTextPage renders the text form and, on POST, the explanation
func (s *Server) handleTextPage(w http.ResponseWriter, r *http.Request) {
	data := s.newPageData("Explain your text")
	if r.Method != http.MethodPost {
		s.renderPage(w, http.StatusOK, "text.html", data)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	data.Text = strings.TrimSpace(r.PostForm.Get("text"))
	if data.Text == "" {
		s.renderPage(w, http.StatusOK, "text.html", data)
		return
	}

	status := s.explainForm(r, &data, func(e *explain.Explainer, level core.Level, mode core.BackendMode) explain.Result {
		return e.ExplainLevel(r.Context(), core.ExplanationRequest{SourceText: data.Text, Level: level, BackendMode: mode})
	})
	s.renderPage(w, status, "text.html", data)
}

// explainForm reads the level and mode fields, runs explain and fills data
// with the outcome. It returns the HTTP status to render with.
func (s *Server) explainForm(r *http.Request, data *pageData, run func(*explain.Explainer, core.Level, core.BackendMode) explain.Result) int {
	data.Submitted = true
	data.Level = core.Level(r.PostForm.Get("level"))

	mode, err := s.parseMode(r.PostForm.Get("mode"))
	if err != nil {
		data.Failed = true
		data.Message = err.Error()
		return http.StatusBadRequest
	}
	data.Mode = mode.Label()

	var result explain.Result
	if e, failed := s.explainerFor(r.Context(), mode); failed != nil {
		result = *failed
	} else {
		result = run(e, data.Level, mode)
	}

	if result.OK() {
		data.Level = result.Explanation.Level
		data.Explanation = result.Explanation.Text
	} else {
		data.Failed = true
		data.Message = result.Display()
	}
	return statusFor(result)
}

func (s *Server) renderPage(w http.ResponseWriter, status int, name string, data pageData) {
	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, name, data); err != nil {
		logger.Error("Failed to render page", err, "template", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
