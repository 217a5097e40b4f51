package planner

import (
	"encoding/json"
	"strings"
)

// HistoryEntry is one prior turn included in prompt construction.
type HistoryEntry struct {
	Role    string
	Content string
}

// PromptInput carries the typed fields a chat prompt is built from.
// Prompt text is assembled from these, never by substituting into the
// caller's message.
type PromptInput struct {
	UserID  int64
	History []HistoryEntry
	Message string
}

// TemplateInput carries what the second round of the two-round variant
// gets to see: the executed statement, the row count, and a bounded
// sample of rows. Never the full result set.
type TemplateInput struct {
	UserID    int64
	Message   string
	Statement string
	RowCount  int
	Sample    []map[string]any
}

// Artifact is the oracle's output for one round, decoded best-effort.
// Nothing in it is trusted: SQL must pass the SQL guard before execution
// and markup must pass the markup guard before it is returned.
type Artifact struct {
	Message  string
	SQL      []string
	Template string
	Raw      string
	Decoded  bool
}

// oracleResponse is the JSON shape the model is asked to produce. The
// sql field arrives as either a single string or a list; html and
// template are alternate names for the markup field.
type oracleResponse struct {
	Message  string  `json:"message"`
	SQL      sqlList `json:"sql"`
	HTML     string  `json:"html"`
	Template string  `json:"template"`
}

type sqlList []string

func (s *sqlList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single != "" {
			*s = sqlList{single}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = sqlList(many)
	return nil
}

// stripFences removes a wrapping markdown code fence, with or without a
// language hint, from oracle output. Unfenced text passes through.
func stripFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	// Drop the language hint on the opening fence, if any.
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 && isFenceHint(trimmed[:idx]) {
		trimmed = trimmed[idx+1:]
	} else {
		trimmed = strings.TrimPrefix(trimmed, "json")
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// isFenceHint reports whether a fence's first line looks like a bare
// language tag rather than content.
func isFenceHint(line string) bool {
	line = strings.TrimSpace(line)
	for _, r := range line {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// decodeArtifact parses stripped oracle text into an Artifact. Decode
// failure is not an error: the raw text degrades to a plain
// conversational message with no SQL and no markup.
func decodeArtifact(raw string) Artifact {
	var resp oracleResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return Artifact{Message: raw, Raw: raw}
	}

	markup := resp.HTML
	if markup == "" {
		markup = resp.Template
	}
	return Artifact{
		Message:  resp.Message,
		SQL:      resp.SQL,
		Template: markup,
		Raw:      raw,
		Decoded:  true,
	}
}
