// Package guard validates model-generated SQL and markup before anything
// downstream touches it. The checks are textual — ordered substring rules,
// not a parser. That trades soundness for auditability: a rule can falsely
// reject an awkwardly written statement, but it must never accept a
// destructive or cross-tenant one.
package guard

import (
	"fmt"
	"strings"

	"github.com/outfitter-labs/outfitter/internal/tenant"
)

// Verdict is the outcome of guarding one artifact. It is never partial:
// a rejected statement must not be executed at all.
type Verdict struct {
	OK     bool
	Reason string
}

func accept() Verdict              { return Verdict{OK: true} }
func reject(reason string) Verdict { return Verdict{OK: false, Reason: reason} }

// forbiddenKeywords are schema- or privilege-mutating operations that
// generated SQL is never allowed to perform.
var forbiddenKeywords = []string{"DROP", "ALTER", "TRUNCATE", "CREATE", "GRANT", "REVOKE"}

// sqlRule is one ordered check. Rules run first to last; the first
// rejection wins and its reason is surfaced to the caller.
type sqlRule struct {
	name  string
	check func(statement string, tc tenant.Context) Verdict
}

var sqlRules = []sqlRule{
	{name: "forbidden_keyword", check: checkForbiddenKeywords},
	{name: "catalog_delete", check: checkCatalogDelete},
	{name: "tenant_predicate", check: checkTenantPredicate},
}

// ValidateSQL runs the ordered rule list against one statement.
func ValidateSQL(statement string, tc tenant.Context) Verdict {
	for _, rule := range sqlRules {
		if v := rule.check(statement, tc); !v.OK {
			return v
		}
	}
	return accept()
}

func checkForbiddenKeywords(statement string, _ tenant.Context) Verdict {
	upper := strings.ToUpper(statement)
	for _, kw := range forbiddenKeywords {
		if strings.Contains(upper, kw) {
			return reject(fmt.Sprintf("Forbidden operation: %s", kw))
		}
	}
	return accept()
}

// checkCatalogDelete blocks row deletion from the product catalog. The
// catalog is shared reference data; no tenant predicate makes deleting
// from it acceptable.
func checkCatalogDelete(statement string, _ tenant.Context) Verdict {
	if strings.Contains(strings.ToUpper(statement), "DELETE FROM PRODUCTS") {
		return reject("Cannot delete products")
	}
	return accept()
}

// checkTenantPredicate requires the literal user_id equality predicate on
// any statement touching a tenant-scoped table. Only the exact spaced and
// unspaced forms are recognised; see tenant.PredicateForms.
func checkTenantPredicate(statement string, tc tenant.Context) Verdict {
	if !tenant.ScopedTableReferenced(statement) {
		return accept()
	}
	if !tc.PredicatePresent(statement) {
		return reject("Must include user_id constraint")
	}
	return accept()
}

// ValidateStatements guards a whole round of statements. Validation is
// all-or-nothing: if any statement is rejected, none of them may run, and
// the first rejection is returned.
func ValidateStatements(statements []string, tc tenant.Context) Verdict {
	for _, stmt := range statements {
		if v := ValidateSQL(stmt, tc); !v.OK {
			return v
		}
	}
	return accept()
}
