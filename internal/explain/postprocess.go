package explain

import (
	"strings"

	"explainer/internal/core"
)

// QuestionInvitation closes every child-level explanation.
const QuestionInvitation = "Do you understand? If not, feel free to ask questions!"

const (
	teenHeading   = "Key Points to Remember:"
	expertHeading = "Technical Analysis:"
	sentenceSep   = ". "
)

// PostProcess applies the level-specific formatting to generated text.
//
// Child output is re-paragraphed into chunks of at most two sentences and
// closed with QuestionInvitation. Teen and expert output get a heading.
// Unknown levels are treated as expert.
func PostProcess(level core.Level, text string) string {
	switch level {
	case core.LevelChild:
		return paragraphs(text, 2) + "\n\n" + QuestionInvitation
	case core.LevelTeen:
		return teenHeading + "\n\n" + text
	default:
		return expertHeading + "\n\n" + text
	}
}

// paragraphs splits text on ". " and joins every n pieces into a paragraph.
func paragraphs(text string, n int) string {
	sentences := strings.Split(text, sentenceSep)
	chunks := make([]string, 0, (len(sentences)+n-1)/n)
	for i := 0; i < len(sentences); i += n {
		end := min(i+n, len(sentences))
		chunks = append(chunks, strings.Join(sentences[i:end], sentenceSep))
	}
	return strings.Join(chunks, "\n\n")
}
