package pipeline

import (
	"net/http"

	"github.com/outfitter-labs/outfitter/internal/store"
)

// Mode selects how many oracle rounds a turn takes.
type Mode string

const (
	// ModeSingle asks for message, SQL and markup in one round.
	ModeSingle Mode = "single"
	// ModeTwoRound asks for SQL first, then for a rendering template
	// once the query has run.
	ModeTwoRound Mode = "two_round"
)

// Request is one caller turn.
type Request struct {
	Message   string
	UserID    int64
	SessionID string
}

// ExecutedQuery echoes one statement and its result in the success payload.
type ExecutedQuery struct {
	Query  string            `json:"query"`
	Result store.QueryResult `json:"result"`
}

// Kind classifies turn failures for status mapping.
type Kind string

const (
	// KindGuard is a guard rejection: user-correctable, 400-class.
	KindGuard Kind = "guard_rejected"
	// KindExecutor is a store-level failure: 500-class, never retried.
	KindExecutor Kind = "executor_failed"
	// KindOracle is a failure talking to the model: 500-class.
	KindOracle Kind = "oracle_failed"
	// KindInternal is any other fault recovered at the turn boundary.
	KindInternal Kind = "internal_error"
)

// TurnError is a terminal, caller-visible turn failure.
type TurnError struct {
	Kind   Kind
	Reason string
}

func (e *TurnError) Error() string { return e.Reason }

// StatusCode maps the failure kind to its HTTP-equivalent status.
func (e *TurnError) StatusCode() int {
	if e.Kind == KindGuard {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Result is how a turn terminates. Exactly one of the two shapes holds:
// Err nil with Message (and possibly HTML) set, or Err non-nil.
type Result struct {
	Message  string
	HTML     string
	Executed []ExecutedQuery
	Err      *TurnError
}
