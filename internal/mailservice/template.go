package mailservice

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

// Every email template defines these three blocks.
var emailParts = []string{"subject", "plainBody", "htmlBody"}

// NewTemplate parses the embedded email templates, keyed by file name.
func NewTemplate() *Template {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		panic(err)
	}

	tp := &Template{set: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		tp.set[path.Base(file)] = template.Must(template.New("email").ParseFS(templateFS, file))
	}

	return tp
}

// Render executes the named template with data.
func (tp *Template) Render(name string, data any) (*Email, error) {
	t, ok := tp.set[name]
	if !ok {
		return nil, fmt.Errorf("unknown email template %q", name)
	}

	rendered := make(map[string]string, len(emailParts))
	for _, part := range emailParts {
		var buf bytes.Buffer
		if err := t.ExecuteTemplate(&buf, part, data); err != nil {
			return nil, fmt.Errorf("could not render %s of %s: %w", part, name, err)
		}
		rendered[part] = strings.TrimSpace(buf.String())
	}

	return &Email{
		Subject:   rendered["subject"],
		PlainBody: rendered["plainBody"],
		HTMLBody:  rendered["htmlBody"],
	}, nil
}
