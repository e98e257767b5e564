// Package markdown strips presentation markup from generated text so it
// reads naturally when spoken.
package markdown

import "regexp"

// pass is one ordered rewrite step. Later passes assume the earlier ones ran.
type pass struct {
	pattern     *regexp.Regexp
	replacement string
}

// A "*" or "-" marker must be followed by whitespace, otherwise "**bold**" at
// the start of a line would lose its first asterisk to the bullet pass. A
// "•" never opens emphasis and is stripped either way.
var passes = []pass{
	{regexp.MustCompile(`(?m)^[ \t]*(?:[*\-][ \t]+|•[ \t]*)`), ""},
	{regexp.MustCompile(`(?m)^[ \t]*\d+\.[ \t]+`), ""},
	{regexp.MustCompile(`\*\*(.*?)\*\*`), "$1"},
	{regexp.MustCompile(`\*(.*?)\*`), "$1"},
	{regexp.MustCompile(`_(.*?)_`), "$1"},
	{regexp.MustCompile("`(.*?)`"), "$1"},
	{regexp.MustCompile(`\[(.*?)\]\(.*?\)`), "$1"},
}

// Strip removes bullets, ordinal list markers, bold, italic, underscore
// emphasis, inline code and links, keeping the inner text. The ordered
// passes are repeated until the text stops changing, so Strip(Strip(s)) ==
// Strip(s). Every effective round shortens the text, so the loop ends.
func Strip(text string) string {
	for {
		next := stripOnce(text)
		if next == text {
			return text
		}
		text = next
	}
}

func stripOnce(text string) string {
	for _, p := range passes {
		text = p.pattern.ReplaceAllString(text, p.replacement)
	}
	return text
}
