package server

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"explainer/internal/core"
)

//go:embed templates/*.html
var templateFS embed.FS

// TemplateRenderer renders the embedded HTML pages
type TemplateRenderer struct {
	templates *template.Template
}

// NewTemplateRenderer parses the embedded templates
func NewTemplateRenderer() (*TemplateRenderer, error) {
	funcMap := template.FuncMap{
		"truncate":   truncateString,
		"levelLabel": levelLabel,
		"paragraphs": paragraphs,
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	return &TemplateRenderer{templates: tmpl}, nil
}

// Render executes a template with the given data
func (tr *TemplateRenderer) Render(w io.Writer, name string, data any) error {
	if err := tr.templates.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return nil
}

// truncateString truncates a string to the specified length and adds "..."
func truncateString(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length] + "..."
}

func levelLabel(level core.Level) string {
	switch level {
	case core.LevelChild:
		return "Child (10 years old)"
	case core.LevelTeen:
		return "High school"
	default:
		return "Expert"
	}
}

// paragraphs splits text on blank lines for display.
func paragraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
