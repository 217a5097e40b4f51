package store

import "testing"

func TestIsReadStatement(t *testing.T) {
	tests := []struct {
		statement string
		want      bool
	}{
		{"SELECT * FROM products", true},
		{"  select 1", true},
		{"WITH c AS (SELECT 1) SELECT * FROM c", true},
		{"INSERT INTO cart (user_id, product_id) VALUES (7, 1)", false},
		{"UPDATE cart SET quantity = 2 WHERE user_id = 7", false},
		{"DELETE FROM cart WHERE user_id = 7", false},
	}
	for _, tt := range tests {
		if got := isReadStatement(tt.statement); got != tt.want {
			t.Errorf("isReadStatement(%q) = %v, want %v", tt.statement, got, tt.want)
		}
	}
}

func TestHasReturning(t *testing.T) {
	if !hasReturning("INSERT INTO cart (user_id) VALUES (7) RETURNING id") {
		t.Error("expected RETURNING to be detected")
	}
	if !hasReturning("insert into cart (user_id) values (7) returning id") {
		t.Error("expected lowercase returning to be detected")
	}
	if hasReturning("INSERT INTO cart (user_id) VALUES (7)") {
		t.Error("plain insert should not be classified as returning")
	}
}
