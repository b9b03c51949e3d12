// Package server exposes the search agent over a small JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/lexcodex/asklang/agents/search"
	"github.com/lexcodex/asklang/citations"
	"github.com/lexcodex/asklang/tools"
)

// requestTimeout bounds one conversational turn end to end. The agent loop
// has no cancellation primitive of its own; the time budget is imposed here.
const requestTimeout = 2 * time.Minute

// Invoker is the slice of the agent the server needs. Sessions are
// caller-owned: each request carries its own history, and the server keeps no
// state between turns.
type Invoker interface {
	InvokeWithMode(ctx context.Context, history []interface{}, mode string) (*search.InvokeResult, error)
}

// Summarizer is the page fetch-and-summarize collaborator.
type Summarizer interface {
	SummarizeURL(ctx context.Context, url string) (string, error)
}

// APIServer exposes HTTP endpoints for driving the agent without a UI.
type APIServer struct {
	Agent      Invoker
	Summarizer Summarizer
	Logger     *log.Logger
}

// AskRequest carries one turn's history. Each entry is either a [role,
// content] pair or a {role, content} record; mixed histories are fine. Mode
// overrides the server's answer mode for this request only.
type AskRequest struct {
	History []json.RawMessage `json:"history"`
	Mode    string            `json:"mode,omitempty"`
}

// AskResponse returns the answer with its grounded sources.
type AskResponse struct {
	Answer    string              `json:"answer"`
	Sources   []string            `json:"sources"`
	ToolTrace []search.TraceEntry `json:"tool_trace,omitempty"`
	Truncated bool                `json:"truncated,omitempty"`
	Error     string              `json:"error,omitempty"`
}

// SummarizeRequest names the page to summarize.
type SummarizeRequest struct {
	URL string `json:"url"`
}

// SummarizeResponse carries the model's summary text verbatim.
type SummarizeResponse struct {
	Summary string `json:"summary"`
	Error   string `json:"error,omitempty"`
}

// Serve starts listening on the provided address.
func (s *APIServer) Serve(addr string) error {
	return s.ServeContext(context.Background(), addr)
}

// ServeContext allows the caller to control shutdown via context cancellation.
func (s *APIServer) ServeContext(ctx context.Context, addr string) error {
	server := s.newHTTPServer(addr)
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	if s.Logger != nil {
		s.Logger.Printf("API listening on %s", addr)
	}
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *APIServer) newHTTPServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/ask", s.handleAsk)
	mux.HandleFunc("/api/summarize", s.handleSummarize)
	return &http.Server{
		Addr:    addr,
		Handler: mux,
	}
}

func (s *APIServer) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	history, err := decodeHistory(req.History)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	result, err := s.Agent.InvokeWithMode(ctx, history, req.Mode)
	if err != nil {
		// a failed turn: report it without touching the caller's history
		s.logf("ask failed: %v", err)
		writeJSONStatus(w, http.StatusBadGateway, AskResponse{Error: err.Error()})
		return
	}
	writeJSON(w, AskResponse{
		Answer:    result.FinalText,
		Sources:   search.GroundedSources(result),
		ToolTrace: result.ToolTrace,
		Truncated: result.Truncated,
	})
}

func (s *APIServer) handleSummarize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.Summarizer == nil {
		http.Error(w, "summarizer not configured", http.StatusNotImplemented)
		return
	}
	var req SummarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(citations.ExtractURLs(req.URL)) == 0 {
		http.Error(w, "url must be absolute http(s)", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	summary, err := s.Summarizer.SummarizeURL(ctx, req.URL)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, tools.ErrFetchFailed) {
			status = http.StatusUnprocessableEntity
		}
		s.logf("summarize failed: %v", err)
		writeJSONStatus(w, status, SummarizeResponse{Error: err.Error()})
		return
	}
	writeJSON(w, SummarizeResponse{Summary: summary})
}

// decodeHistory accepts both pair and record entries, mirroring the agent's
// normalization contract.
func decodeHistory(raw []json.RawMessage) ([]interface{}, error) {
	history := make([]interface{}, 0, len(raw))
	for _, entry := range raw {
		var pair []string
		if err := json.Unmarshal(entry, &pair); err == nil {
			if len(pair) != 2 {
				return nil, errors.New("history pair entries must be exactly [role, content]")
			}
			history = append(history, [2]string{pair[0], pair[1]})
			continue
		}
		var record map[string]interface{}
		if err := json.Unmarshal(entry, &record); err == nil {
			history = append(history, record)
			continue
		}
		var text string
		if err := json.Unmarshal(entry, &text); err != nil {
			return nil, errors.New("history entries must be [role, content] pairs or {role, content} records")
		}
		history = append(history, text)
	}
	return history, nil
}

func (s *APIServer) logf(format string, args ...interface{}) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
	}
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	writeJSONStatus(w, http.StatusOK, data)
}

func writeJSONStatus(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
