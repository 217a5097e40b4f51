// Package planner turns caller turns into prompts, sends them to the
// generative oracle, and decodes the output into untrusted artifacts.
package planner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/outfitter-labs/outfitter/internal/gemini"
)

const maxOutputTokens = 8192

type Planner struct {
	llm    *gemini.Client
	logger *slog.Logger
}

func New(llm *gemini.Client, logger *slog.Logger) *Planner {
	return &Planner{llm: llm, logger: logger}
}

// Plan runs one single-round exchange: the model is asked for message,
// SQL and markup together.
func (p *Planner) Plan(ctx context.Context, in PromptInput) (Artifact, error) {
	return p.round(ctx, "chat", BuildChatPrompt(in))
}

// PlanSQL runs the first round of the two-round variant.
func (p *Planner) PlanSQL(ctx context.Context, in PromptInput) (Artifact, error) {
	return p.round(ctx, "sql", BuildSQLPrompt(in))
}

// PlanTemplate runs the second round of the two-round variant.
func (p *Planner) PlanTemplate(ctx context.Context, in TemplateInput) (Artifact, error) {
	return p.round(ctx, "template", BuildTemplatePrompt(in))
}

func (p *Planner) round(ctx context.Context, kind, prompt string) (Artifact, error) {
	raw, err := p.llm.Complete(ctx, prompt, maxOutputTokens)
	if err != nil {
		return Artifact{}, fmt.Errorf("oracle %s round: %w", kind, err)
	}

	art := decodeArtifact(stripFences(raw))
	if !art.Decoded {
		p.logger.Warn("oracle output not structured, degrading to plain message",
			"round", kind,
			"raw_len", len(art.Raw),
		)
	} else {
		p.logger.Debug("oracle round decoded",
			"round", kind,
			"sql_statements", len(art.SQL),
			"has_markup", art.Template != "",
		)
	}
	return art, nil
}
