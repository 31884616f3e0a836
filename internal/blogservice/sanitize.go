package blogservice

import (
	"regexp"
	"strings"
)

var (
	scriptTagRX    = regexp.MustCompile(`(?is)<\s*script[^>]*>.*?<\s*/\s*script\s*>`)
	eventHandlerRX = regexp.MustCompile(`(?i)(<[a-z][^>]*?)\s+on[a-z]+\s*=\s*("[^"]*"|'[^']*'|[^\s>]+)`)
)

// sanitizeMarkdown strips script elements and inline event handlers of html tags embedded in markdown.
func sanitizeMarkdown(markdown string) string {
	markdown = scriptTagRX.ReplaceAllString(markdown, "")

	for eventHandlerRX.MatchString(markdown) {
		markdown = eventHandlerRX.ReplaceAllString(markdown, "$1")
	}

	return markdown
}

func sanitizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			out = append(out, tag)
		}
	}

	return out
}
