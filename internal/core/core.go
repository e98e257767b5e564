package core

import (
	"fmt"
	"strings"
	"time"
)

// Level is the audience an explanation is tuned for in topic/text mode.
type Level string

const (
	LevelChild  Level = "child"
	LevelTeen   Level = "teen"
	LevelExpert Level = "expert"
)

// Levels lists the levels in the order the level selector shows them.
func Levels() []Level {
	return []Level{LevelChild, LevelTeen, LevelExpert}
}

// ParseLevel returns the matching level. An empty or unknown value falls
// through to LevelExpert with ok=false so callers can log the fall-through.
func ParseLevel(value string) (level Level, ok bool) {
	switch Level(strings.ToLower(strings.TrimSpace(value))) {
	case LevelChild:
		return LevelChild, true
	case LevelTeen:
		return LevelTeen, true
	case LevelExpert:
		return LevelExpert, true
	}
	return LevelExpert, false
}

// Style is the explanation style in chat-assistant mode.
type Style string

const (
	StyleDefault       Style = "default"
	StyleChildFriendly Style = "child_friendly"
	StyleExamplesOnly  Style = "examples_only"
	StyleExpert        Style = "expert"
)

// styleLabels are the exact strings the style selector emits.
var styleLabels = map[Style]string{
	StyleDefault:       "💡 Default",
	StyleChildFriendly: "🧒 Child-Friendly",
	StyleExamplesOnly:  "📚 Examples Only",
	StyleExpert:        "🧠 Expert",
}

// Styles lists the styles in selector order.
func Styles() []Style {
	return []Style{StyleDefault, StyleChildFriendly, StyleExamplesOnly, StyleExpert}
}

// Label returns the selector label for the style.
func (s Style) Label() string {
	if label, ok := styleLabels[s]; ok {
		return label
	}
	return styleLabels[StyleDefault]
}

// ParseStyle accepts either a canonical style name or an exact selector label.
func ParseStyle(value string) (Style, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return StyleDefault, nil
	}
	for _, style := range Styles() {
		if value == string(style) || value == style.Label() {
			return style, nil
		}
	}
	return StyleDefault, fmt.Errorf("unknown explanation style %q (valid: %s)", value, strings.Join(StyleOptions(), ", "))
}

// StyleOptions returns the selector labels in order.
func StyleOptions() []string {
	options := make([]string, 0, len(styleLabels))
	for _, style := range Styles() {
		options = append(options, style.Label())
	}
	return options
}

// BackendMode selects between the local model process and the remote hosted endpoint.
type BackendMode string

const (
	ModeLocal  BackendMode = "local"
	ModeRemote BackendMode = "remote"
)

// Mode selector labels. Comparisons are made against these exact strings.
const (
	ModeLabelOnline  = "🛰️ Online"
	ModeLabelOffline = "💻 Offline"
)

// ModeOptions returns the mode selector labels in order.
func ModeOptions() []string {
	return []string{ModeLabelOnline, ModeLabelOffline}
}

// Label returns the selector label for the mode.
func (m BackendMode) Label() string {
	if m == ModeRemote {
		return ModeLabelOnline
	}
	return ModeLabelOffline
}

// ParseBackendMode maps a selector label or canonical name to a BackendMode.
// Unlike a substring check, an unrecognised value is an error rather than a
// silent fall-through to the local backend.
func ParseBackendMode(value string) (BackendMode, error) {
	switch strings.TrimSpace(value) {
	case ModeLabelOnline, string(ModeRemote):
		return ModeRemote, nil
	case ModeLabelOffline, string(ModeLocal):
		return ModeLocal, nil
	}
	return "", fmt.Errorf("unknown backend mode %q (valid: %q, %q, %q, %q)",
		value, ModeLabelOnline, ModeLabelOffline, ModeRemote, ModeLocal)
}

// ExplanationRequest is one user submission. It lives for a single request.
type ExplanationRequest struct {
	SourceText  string      `json:"source_text"`           // Text to explain (topic summary, page text or user input)
	Level       Level       `json:"level,omitempty"`       // Audience level for topic/text mode
	Style       Style       `json:"style,omitempty"`       // Style for chat-assistant mode
	BackendMode BackendMode `json:"backend_mode"`          // Which backend family to call
	Topic       string      `json:"topic,omitempty"`       // Topic name when the source text came from the knowledge source
	SourceURL   string      `json:"source_url,omitempty"`  // Page URL when the source text came from a web page
}

// GeneratedExplanation is the immutable output of the generator.
type GeneratedExplanation struct {
	Text        string    `json:"text"`                 // Post-processed explanation text
	Level       Level     `json:"level,omitempty"`      // Level used, if any
	Style       Style     `json:"style,omitempty"`      // Style used, if any
	Subheading  string    `json:"subheading,omitempty"` // Heading shown above the text
	BackendUsed string    `json:"backend_used"`         // Backend name, e.g. "ollama:gemma3"
	Prompt      string    `json:"prompt"`               // Prompt sent to the backend
	GeneratedAt time.Time `json:"generated_at"`         // When generation completed
}

// Gender is the preferred voice gender for speech synthesis.
type Gender string

const (
	GenderDefault Gender = "default"
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
)

// ParseGender accepts "Default", "Male", "Female" in any case.
func ParseGender(value string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "default":
		return GenderDefault, nil
	case "male":
		return GenderMale, nil
	case "female":
		return GenderFemale, nil
	}
	return GenderDefault, fmt.Errorf("unknown voice gender %q (valid: default, male, female)", value)
}

// Speech rate bounds in words per minute.
const (
	MinSpeechRate     = 100
	MaxSpeechRate     = 250
	DefaultSpeechRate = 150
)

// VoiceConfig holds the per-session speech settings.
type VoiceConfig struct {
	Rate   int    `json:"rate"`   // Words per minute, bounded to [MinSpeechRate, MaxSpeechRate]
	Gender Gender `json:"gender"` // Preferred voice gender
}

// Normalized returns a copy with the rate clamped and the gender defaulted.
func (v VoiceConfig) Normalized() VoiceConfig {
	switch {
	case v.Rate == 0:
		v.Rate = DefaultSpeechRate
	case v.Rate < MinSpeechRate:
		v.Rate = MinSpeechRate
	case v.Rate > MaxSpeechRate:
		v.Rate = MaxSpeechRate
	}
	if v.Gender == "" {
		v.Gender = GenderDefault
	}
	return v
}

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is a single (role, content) conversation entry.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
