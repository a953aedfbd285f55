package agent

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultFallback is returned when the model response is unusable.
const DefaultFallback = "Book through the system by selecting a date and time."

const (
	answerMarker   = "Answer:"
	minAnswerRunes = 5
)

// CleanResponse strips an echoed prompt, drops everything except letters,
// digits, whitespace and , . ! ? and falls back when the remainder is shorter
// than five runes or still contains the question.
func CleanResponse(question, response, fallback string) string {
	if i := strings.LastIndex(response, answerMarker); i >= 0 {
		response = strings.TrimSpace(response[i+len(answerMarker):])
	}

	var b strings.Builder
	b.Grow(len(response))
	for _, r := range response {
		if keepRune(r) {
			b.WriteRune(r)
		}
	}
	cleaned := strings.TrimSpace(b.String())

	if utf8.RuneCountInString(cleaned) < minAnswerRunes ||
		strings.Contains(strings.ToLower(cleaned), strings.ToLower(question)) {
		return fallback
	}
	return cleaned
}

func keepRune(r rune) bool {
	switch r {
	case ',', '.', '!', '?':
		return true
	}
	return unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r)
}
