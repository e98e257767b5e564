package tts

import (
	"strings"

	"explainer/internal/core"
)

// SelectVoice picks a voice for the gender preference. A voice whose
// engine-reported gender matches wins; otherwise the first voice whose name
// or ID contains the gender word. "male" never matches a "female" voice.
// For the default preference, or when nothing matches, it returns false and
// the engine's default voice should be used.
func SelectVoice(voices []Voice, gender core.Gender) (Voice, bool) {
	if gender == core.GenderDefault || gender == "" {
		return Voice{}, false
	}
	want := string(gender)

	for _, v := range voices {
		if strings.EqualFold(v.Gender, want) {
			return v, true
		}
	}

	for _, v := range voices {
		if v.Gender != "" && !strings.EqualFold(v.Gender, want) {
			continue
		}
		if mentions(v.Name, want) || mentions(v.ID, want) {
			return v, true
		}
	}

	return Voice{}, false
}

// mentions reports whether s contains the gender word, treating "male"
// inside "female" as no match.
func mentions(s, gender string) bool {
	s = strings.ToLower(s)
	if gender == string(core.GenderMale) {
		s = strings.ReplaceAll(s, "female", "")
	}
	return strings.Contains(s, gender)
}
