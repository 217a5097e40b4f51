package tenant

import (
	"fmt"
	"strings"
)

// Context is the caller-supplied identity that scopes row-level access.
// It always comes from the transport layer, never from model output.
type Context struct {
	UserID int64
}

// scopedTables are the tables whose rows belong to a single user. Any
// statement touching one of them must carry the literal tenant predicate.
var scopedTables = []string{"cart", "orders", "order_items"}

// ScopedTableReferenced reports whether the statement mentions any
// tenant-scoped table. Matching is an uppercase substring check, same
// trade-off as the rest of the guard: conservative, no SQL parsing.
func ScopedTableReferenced(statement string) bool {
	upper := strings.ToUpper(statement)
	for _, tbl := range scopedTables {
		if strings.Contains(upper, strings.ToUpper(tbl)) {
			return true
		}
	}
	return false
}

// PredicateForms returns the accepted literal spellings of the tenant
// predicate for this context, lowercased for comparison. Only the exact
// spaced and unspaced equality forms are recognised; parameter binding
// and reversed operand order are not detected.
func (c Context) PredicateForms() []string {
	return []string{
		fmt.Sprintf("user_id = %d", c.UserID),
		fmt.Sprintf("user_id=%d", c.UserID),
	}
}

// PredicatePresent reports whether the statement carries the literal
// tenant predicate in either accepted form.
func (c Context) PredicatePresent(statement string) bool {
	lower := strings.ToLower(statement)
	for _, form := range c.PredicateForms() {
		if strings.Contains(lower, form) {
			return true
		}
	}
	return false
}
