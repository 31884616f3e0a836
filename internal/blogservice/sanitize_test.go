package blogservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeMarkdown(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "no script tag",
			input: "Hello, World!",
			want:  "Hello, World!",
		},
		{
			name:  "script tag",
			input: "<script>alert('Hello, World!');</script>",
			want:  "",
		},
		{
			name:  "multiple script tags",
			input: "Here is some text.\n<script>alert('Hello, world!');</script>\nMore text.\n<SCRIPT SRC=\"evil.js\"></SCRIPT>",
			want:  "Here is some text.\n\nMore text.\n",
		},
		{
			name:  "multiline script",
			input: "a<script>\nvar x = 1;\n</script>b",
			want:  "ab",
		},
		{
			name:  "event handler",
			input: `<img src="cat.png" onerror="alert(1)">`,
			want:  `<img src="cat.png">`,
		},
		{
			name:  "several handlers",
			input: `<a href="#" onclick='x()' onmouseover=y()>link</a>`,
			want:  `<a href="#">link</a>`,
		},
		{
			name:  "prose mentioning on is untouched",
			input: "set one = 1 and only = 2",
			want:  "set one = 1 and only = 2",
		},
		{
			name:  "markdown untouched",
			input: "# Title\n\nSome *emphasis* and `code`.",
			want:  "# Title\n\nSome *emphasis* and `code`.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			output := sanitizeMarkdown(tc.input)
			assert.Equal(t, tc.want, output)
		})
	}
}

func TestSanitizeTags(t *testing.T) {
	assert.Equal(t, []string{"go", "web"}, sanitizeTags([]string{" go ", "", "web", "   "}))
	assert.Equal(t, []string{}, sanitizeTags(nil))
}
