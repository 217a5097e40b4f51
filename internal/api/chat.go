package api

import (
	"encoding/json"
	"net/http"

	"github.com/outfitter-labs/outfitter/internal/pipeline"
)

// ChatRequest is one caller turn. user_id and session_id fall back to
// the demo defaults when omitted.
type ChatRequest struct {
	Message   string `json:"message"`
	UserID    int64  `json:"user_id"`
	SessionID string `json:"session_id"`
}

// ChatResponse is the success payload. sql_executed is always present,
// as an empty list when the turn ran no statements.
type ChatResponse struct {
	Message     string                   `json:"message"`
	HTML        string                   `json:"html"`
	SQLExecuted []pipeline.ExecutedQuery `json:"sql_executed"`
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return
	}
	if req.UserID == 0 {
		req.UserID = 1
	}
	if req.SessionID == "" {
		req.SessionID = "default"
	}

	res := s.runner.Run(r.Context(), pipeline.Request{
		Message:   req.Message,
		UserID:    req.UserID,
		SessionID: req.SessionID,
	})
	if res.Err != nil {
		writeJSON(w, res.Err.StatusCode(), map[string]string{"error": res.Err.Reason})
		return
	}

	executed := res.Executed
	if executed == nil {
		executed = []pipeline.ExecutedQuery{}
	}
	writeJSON(w, http.StatusOK, ChatResponse{
		Message:     res.Message,
		HTML:        res.HTML,
		SQLExecuted: executed,
	})
}
