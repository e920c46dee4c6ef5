// Package prompt renders prompt templates and templated filenames with a
// job's variables using Go's text/template package.
package prompt

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// Render fills a template string with the given variables. Rendering is
// strict: referencing a variable that is not present in vars is an error
// rather than a silent empty substitution, so a successful render never
// contains unresolved markers.
func Render(name, text string, vars map[string]any) (string, error) {
	if !strings.Contains(text, "{{") { // fast path: no template markers
		return text, nil
	}

	tmpl, err := template.New(name).Option("missingkey=error").Funcs(template.FuncMap{
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
	}).Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}

	return buf.String(), nil
}

// RenderFile renders the template file at path with the given variables.
// A missing template file propagates as an error.
func RenderFile(path string, vars map[string]any) (string, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read template: %w", err)
	}
	return Render(filepath.Base(path), string(text), vars)
}
