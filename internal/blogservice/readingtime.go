package blogservice

import "strings"

// WordsPerMinute is the reading speed used to estimate reading time.
const WordsPerMinute = 200

// EstimateReadingTime returns the minutes needed to read text, rounded up with a floor of one minute.
// The empty string has no computable reading time and yields 0.
func EstimateReadingTime(text string) int {
	if text == "" {
		return 0
	}

	words := len(strings.Fields(text))
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute

	return max(1, minutes)
}

// ReadingTimeOf is EstimateReadingTime for arbitrary input; anything but a string yields 0.
func ReadingTimeOf(v any) int {
	text, ok := v.(string)
	if !ok {
		return 0
	}

	return EstimateReadingTime(text)
}
