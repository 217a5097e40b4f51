// Package pipeline sequences one caller turn end to end: build a prompt,
// ask the oracle, guard whatever comes back, execute guarded SQL, and in
// the two-round variant ask again for a template and render it. Nothing
// the oracle produces reaches the executor or the caller without passing
// its guard first.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/outfitter-labs/outfitter/internal/events"
	"github.com/outfitter-labs/outfitter/internal/guard"
	"github.com/outfitter-labs/outfitter/internal/planner"
	"github.com/outfitter-labs/outfitter/internal/render"
	"github.com/outfitter-labs/outfitter/internal/session"
	"github.com/outfitter-labs/outfitter/internal/store"
	"github.com/outfitter-labs/outfitter/internal/tenant"
)

// Executor runs one validated statement. Satisfied by *store.Store.
type Executor interface {
	Execute(ctx context.Context, statement string) store.QueryResult
}

// Config tunes per-turn behavior. Zero values get sane defaults in New.
type Config struct {
	Mode          Mode
	HistoryWindow int
	OracleTimeout time.Duration
	SampleRows    int
}

type Pipeline struct {
	planner  *planner.Planner
	exec     Executor
	sessions *session.Store
	events   *events.Publisher
	logger   *slog.Logger
	cfg      Config
}

func New(p *planner.Planner, exec Executor, sessions *session.Store, ev *events.Publisher, cfg Config, logger *slog.Logger) *Pipeline {
	if cfg.Mode == "" {
		cfg.Mode = ModeSingle
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = 5
	}
	if cfg.OracleTimeout <= 0 {
		cfg.OracleTimeout = 60 * time.Second
	}
	if cfg.SampleRows <= 0 {
		cfg.SampleRows = 3
	}
	return &Pipeline{
		planner:  p,
		exec:     exec,
		sessions: sessions,
		events:   ev,
		logger:   logger,
		cfg:      cfg,
	}
}

// Run handles one turn. All failures come back inside the Result; no
// error crosses the turn boundary.
func (p *Pipeline) Run(ctx context.Context, req Request) Result {
	turnID := uuid.New().String()
	tc := tenant.Context{UserID: req.UserID}

	log := p.logger.With("turn_id", turnID, "session_id", req.SessionID, "user_id", req.UserID)

	var res Result
	switch p.cfg.Mode {
	case ModeTwoRound:
		res = p.runTwoRound(ctx, log, req, tc, turnID)
	default:
		res = p.runSingle(ctx, log, req, tc, turnID)
	}

	status := "ok"
	if res.Err != nil {
		status = string(res.Err.Kind)
	}
	p.events.Publish(events.SubjectTurnCompleted, events.TurnCompleted{
		TurnID:        turnID,
		SessionID:     req.SessionID,
		UserID:        req.UserID,
		Status:        status,
		StatementsRun: len(res.Executed),
		Timestamp:     events.Now(),
	})
	log.Info("turn finished", "status", status, "statements_run", len(res.Executed))
	return res
}

func (p *Pipeline) history(sessionID string) []planner.HistoryEntry {
	turns := p.sessions.Recent(sessionID, p.cfg.HistoryWindow)
	out := make([]planner.HistoryEntry, len(turns))
	for i, t := range turns {
		out[i] = planner.HistoryEntry{Role: t.Role, Content: t.Content}
	}
	return out
}

// remember appends the exchange to session memory. This happens after
// fence stripping and before validation: memory records what was said,
// not what was allowed to execute.
func (p *Pipeline) remember(sessionID, userMessage, assistantRaw string) {
	p.sessions.Append(sessionID,
		session.Turn{Role: "user", Content: userMessage},
		session.Turn{Role: "assistant", Content: assistantRaw},
	)
}

func (p *Pipeline) runSingle(ctx context.Context, log *slog.Logger, req Request, tc tenant.Context, turnID string) Result {
	art, err := p.oracleRound(ctx, func(octx context.Context) (planner.Artifact, error) {
		return p.planner.Plan(octx, planner.PromptInput{
			UserID:  req.UserID,
			History: p.history(req.SessionID),
			Message: req.Message,
		})
	})
	if err != nil {
		log.Error("oracle round failed", "error", err)
		return Result{Err: &TurnError{Kind: KindOracle, Reason: err.Error()}}
	}

	p.remember(req.SessionID, req.Message, art.Raw)

	if !art.Decoded {
		// Decode failure degrades to a plain message, never an error.
		return Result{Message: art.Message}
	}

	executed, terr := p.guardAndExecute(ctx, log, art.SQL, tc, req, turnID)
	if terr != nil {
		return Result{Err: terr}
	}

	markup := p.guardMarkup(log, art.Template, req, turnID)
	return Result{Message: art.Message, HTML: markup, Executed: executed}
}

func (p *Pipeline) runTwoRound(ctx context.Context, log *slog.Logger, req Request, tc tenant.Context, turnID string) Result {
	art, err := p.oracleRound(ctx, func(octx context.Context) (planner.Artifact, error) {
		return p.planner.PlanSQL(octx, planner.PromptInput{
			UserID:  req.UserID,
			History: p.history(req.SessionID),
			Message: req.Message,
		})
	})
	if err != nil {
		log.Error("sql round failed", "error", err)
		return Result{Err: &TurnError{Kind: KindOracle, Reason: err.Error()}}
	}

	p.remember(req.SessionID, req.Message, art.Raw)

	if !art.Decoded || len(art.SQL) == 0 {
		return Result{Message: art.Message}
	}

	executed, terr := p.guardAndExecute(ctx, log, art.SQL, tc, req, turnID)
	if terr != nil {
		return Result{Err: terr}
	}

	// The template round sees the last statement, its row count, and a
	// bounded sample. The full rows only meet the template at render time.
	last := executed[len(executed)-1]
	rows := last.Result.Rows
	sample := rows
	if len(sample) > p.cfg.SampleRows {
		sample = sample[:p.cfg.SampleRows]
	}

	tart, err := p.oracleRound(ctx, func(octx context.Context) (planner.Artifact, error) {
		return p.planner.PlanTemplate(octx, planner.TemplateInput{
			UserID:    req.UserID,
			Message:   req.Message,
			Statement: last.Query,
			RowCount:  len(rows),
			Sample:    sample,
		})
	})
	if err != nil {
		log.Error("template round failed", "error", err)
		return Result{Err: &TurnError{Kind: KindOracle, Reason: err.Error()}}
	}

	p.sessions.Append(req.SessionID, session.Turn{Role: "assistant", Content: tart.Raw})

	message := tart.Message
	if message == "" {
		message = art.Message
	}
	if !tart.Decoded {
		return Result{Message: message, Executed: executed}
	}

	tmpl := p.guardMarkup(log, tart.Template, req, turnID)
	if tmpl == "" {
		return Result{Message: message, Executed: executed}
	}

	html, err := render.Render(tmpl, render.Data{Rows: rows, UserID: req.UserID})
	if err != nil {
		log.Error("template render failed", "error", err)
		return Result{Err: &TurnError{Kind: KindInternal, Reason: err.Error()}}
	}
	return Result{Message: message, HTML: html, Executed: executed}
}

// oracleRound bounds one oracle call with the configured timeout.
func (p *Pipeline) oracleRound(ctx context.Context, round func(context.Context) (planner.Artifact, error)) (planner.Artifact, error) {
	octx, cancel := context.WithTimeout(ctx, p.cfg.OracleTimeout)
	defer cancel()
	return round(octx)
}

// guardAndExecute validates the whole round before running anything.
// All-or-nothing: one rejection means zero statements execute, and the
// first executor failure terminates the round.
func (p *Pipeline) guardAndExecute(ctx context.Context, log *slog.Logger, statements []string, tc tenant.Context, req Request, turnID string) ([]ExecutedQuery, *TurnError) {
	if v := guard.ValidateStatements(statements, tc); !v.OK {
		log.Warn("sql guard rejected round", "reason", v.Reason)
		p.events.Publish(events.SubjectGuardRejected, events.GuardRejected{
			TurnID:    turnID,
			SessionID: req.SessionID,
			UserID:    req.UserID,
			Guard:     "sql",
			Reason:    v.Reason,
			Timestamp: events.Now(),
		})
		return nil, &TurnError{Kind: KindGuard, Reason: v.Reason}
	}

	executed := make([]ExecutedQuery, 0, len(statements))
	for _, stmt := range statements {
		res := p.exec.Execute(ctx, stmt)
		executed = append(executed, ExecutedQuery{Query: stmt, Result: res})
		if !res.Success {
			log.Error("statement failed", "error", res.Error)
			return nil, &TurnError{Kind: KindExecutor, Reason: res.Error}
		}
	}
	return executed, nil
}

// guardMarkup sanitizes generated markup. Rejection substitutes empty
// markup rather than failing the turn — the caller always gets at least
// the conversational message.
func (p *Pipeline) guardMarkup(log *slog.Logger, markup string, req Request, turnID string) string {
	if markup == "" {
		return ""
	}
	clean := guard.SanitizeMarkup(markup)
	if clean == "" {
		log.Warn("markup guard discarded generated markup")
		p.events.Publish(events.SubjectGuardRejected, events.GuardRejected{
			TurnID:    turnID,
			SessionID: req.SessionID,
			UserID:    req.UserID,
			Guard:     "markup",
			Reason:    "active content marker",
			Timestamp: events.Now(),
		})
	}
	return clean
}
