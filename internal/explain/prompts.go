package explain

import (
	"strings"

	"explainer/internal/core"
)

// SystemPrompt is the fixed system instruction for chat-assistant mode.
const SystemPrompt = "You are a helpful assistant. Please provide a helpful response to the user queries."

// questionTemplate frames every chat-assistant user turn.
const questionTemplate = "Question: {question}"

const textMarker = "Text to explain: "

var levelTemplates = map[core.Level]string{
	core.LevelChild: `Explain this to a 10-year-old child using:
1. Very simple words
2. Short sentences
3. Familiar examples from daily life
4. No technical terms
5. Use analogies with toys or games
`,
	core.LevelTeen: `Explain this to a high school student using:
1. Moderate complexity
2. Some basic technical terms
3. Real-world examples
4. Clear step-by-step explanations
`,
	core.LevelExpert: `Explain this at an advanced college level using:
1. Technical terminology
2. Detailed theoretical concepts
3. Scientific principles
4. Complex relationships
5. Reference to advanced topics
`,
}

// BuildLevelPrompt returns the instruction for explaining text at level.
// The text is appended verbatim. Unknown levels use the expert template.
func BuildLevelPrompt(text string, level core.Level) string {
	template, ok := levelTemplates[level]
	if !ok {
		template = levelTemplates[core.LevelExpert]
	}
	return template + textMarker + text
}

// BuildStylePrompt wraps text in the single-sentence instruction for style.
// The default style returns text unchanged.
func BuildStylePrompt(text string, style core.Style) string {
	switch style {
	case core.StyleChildFriendly:
		return "Explain '" + text + "' like I am 10 years old using real-life examples."
	case core.StyleExamplesOnly:
		return "Explain '" + text + "' with examples only!"
	case core.StyleExpert:
		return "Explain '" + text + "' using technical and complex terminology."
	default:
		return text
	}
}

// BuildQuestion frames a chat-assistant user turn.
func BuildQuestion(prompt string) string {
	return strings.Replace(questionTemplate, "{question}", prompt, 1)
}

// Subheading is the heading shown above a chat-assistant answer.
func Subheading(style core.Style) string {
	switch style {
	case core.StyleChildFriendly:
		return "🧒 Explaining like you're 10..."
	case core.StyleExamplesOnly:
		return "📚 Explaining using examples..."
	case core.StyleExpert:
		return "🧠 Explaining like a Pro..."
	default:
		return "💡 Standard Explanation"
	}
}
