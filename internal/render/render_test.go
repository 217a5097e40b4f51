package render

import (
	"strings"
	"testing"
)

func TestRender_RangeOverRows(t *testing.T) {
	tmpl := `<div class='product-grid'>{{range .Rows}}<div class='product-card'>{{.name}} — ${{.price}}</div>{{end}}</div>`
	out, err := Render(tmpl, Data{
		UserID: 7,
		Rows: []map[string]any{
			{"name": "Blue Denim Jacket", "price": 89.99},
			{"name": "Navy Blue Jacket", "price": 129.99},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Blue Denim Jacket") || !strings.Contains(out, "129.99") {
		t.Errorf("rendered markup missing row data: %q", out)
	}
	if strings.Count(out, "product-card") != 2 {
		t.Errorf("expected one card per row, got %q", out)
	}
}

func TestRender_EscapesRowValues(t *testing.T) {
	tmpl := `<div>{{range .Rows}}{{.name}}{{end}}</div>`
	out, err := Render(tmpl, Data{Rows: []map[string]any{{"name": "<script>alert(1)</script>"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("row values must be escaped, got %q", out)
	}
}

func TestRender_ParseError(t *testing.T) {
	if _, err := Render(`{{range .Rows}`, Data{}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestRender_EmptyRows(t *testing.T) {
	tmpl := `<div class='product-grid'>{{range .Rows}}<div>{{.name}}</div>{{end}}</div>`
	out, err := Render(tmpl, Data{Rows: nil})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `<div class='product-grid'></div>` {
		t.Errorf("unexpected output for empty rows: %q", out)
	}
}
