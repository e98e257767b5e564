package summarize

import "explainer/internal/core"

// Summary prompt prefixes. The text follows the colon directly.
const (
	childPrefix  = "Summarize this for a 10 year old:"
	teenPrefix   = "Summarize this for a High School Student:"
	expertPrefix = "Summarize this technically for a college Student:"
)

// BuildSummaryPrompt returns the summarization prompt for level. Any level
// other than child or teen gets the technical prompt.
func BuildSummaryPrompt(text string, level core.Level) string {
	switch level {
	case core.LevelChild:
		return childPrefix + text
	case core.LevelTeen:
		return teenPrefix + text
	default:
		return expertPrefix + text
	}
}
