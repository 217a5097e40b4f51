// Package render substitutes a guarded template with the full result set.
// html/template does the contextual escaping; the markup guard has
// already discarded templates carrying active-content markers.
package render

import (
	"fmt"
	"html/template"
	"strings"
)

// Data is what a template gets to reference: the full row sequence and
// the tenant identifier.
type Data struct {
	Rows   []map[string]any
	UserID int64
}

// Render parses the generated template and executes it against the rows.
// A template that fails to parse or execute is a 500-class failure for
// the turn, not a panic.
func Render(tmpl string, data Data) (string, error) {
	t, err := template.New("markup").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return b.String(), nil
}
