package tenant

import "testing"

func TestScopedTableReferenced(t *testing.T) {
	tests := []struct {
		name      string
		statement string
		want      bool
	}{
		{"cart select", "SELECT * FROM cart WHERE user_id = 7", true},
		{"orders insert", "insert into orders (user_id, total_amount) values (7, 10)", true},
		{"order_items join", "SELECT * FROM ORDER_ITEMS oi JOIN orders o ON o.id = oi.order_id", true},
		{"products only", "SELECT * FROM products WHERE color = 'blue'", false},
		{"mixed case", "Select * From CaRt", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScopedTableReferenced(tt.statement); got != tt.want {
				t.Errorf("ScopedTableReferenced(%q) = %v, want %v", tt.statement, got, tt.want)
			}
		})
	}
}

func TestPredicatePresent(t *testing.T) {
	tc := Context{UserID: 7}

	tests := []struct {
		name      string
		statement string
		want      bool
	}{
		{"spaced form", "SELECT * FROM cart WHERE user_id = 7", true},
		{"unspaced form", "SELECT * FROM cart WHERE user_id=7", true},
		{"uppercase column", "SELECT * FROM cart WHERE USER_ID = 7", true},
		{"missing predicate", "SELECT * FROM cart", false},
		{"wrong tenant", "SELECT * FROM cart WHERE user_id = 8", false},
		{"parameter binding not recognised", "SELECT * FROM cart WHERE user_id = $1", false},
		{"reversed operands not recognised", "SELECT * FROM cart WHERE 7 = user_id", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tc.PredicatePresent(tt.statement); got != tt.want {
				t.Errorf("PredicatePresent(%q) = %v, want %v", tt.statement, got, tt.want)
			}
		})
	}
}

func TestPredicateForms(t *testing.T) {
	tc := Context{UserID: 42}
	forms := tc.PredicateForms()
	if len(forms) != 2 {
		t.Fatalf("expected 2 predicate forms, got %d", len(forms))
	}
	if forms[0] != "user_id = 42" || forms[1] != "user_id=42" {
		t.Errorf("unexpected forms: %v", forms)
	}
}
