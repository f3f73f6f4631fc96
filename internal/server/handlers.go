package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/born-ml/morpho/internal/analyzer"
)

type analyzeRequest struct {
	Sentences [][]string `json:"sentences,omitempty"`
	Text      string     `json:"text,omitempty"`
}

type sentenceJSON struct {
	Analyses []analyzer.Analysis `json:"analyses"`
	Error    string              `json:"error,omitempty"`
}

type analyzeResponse struct {
	Results []sentenceJSON `json:"results"`
}

type tagsResponse struct {
	Tags     []string `json:"tags"`
	LemmaOps []string `json:"lemma_ops"`
}

type healthResponse struct {
	Status   string            `json:"status"`
	Decoder  string            `json:"decoder"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response", zap.String("id", RequestID(r.Context())), zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.writeJSON(w, r, status, errorResponse{Error: msg, RequestID: RequestID(r.Context())})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, r, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var body analyzeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "body must be JSON with 'sentences' or 'text'")
		return
	}
	if body.Sentences != nil && body.Text != "" {
		s.writeError(w, r, http.StatusBadRequest, "'sentences' and 'text' are mutually exclusive")
		return
	}

	if err := s.sem.Acquire(r.Context(), 1); err != nil {
		s.writeError(w, r, http.StatusServiceUnavailable, "request cancelled while waiting for capacity")
		return
	}
	defer s.sem.Release(1)

	var (
		results []analyzer.Result
		err     error
	)
	if body.Sentences != nil {
		results, err = s.an.Analyze(body.Sentences)
	} else {
		results, err = s.an.AnalyzeText(body.Text)
	}
	switch {
	case errors.Is(err, analyzer.ErrEmptyBatch):
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.logger.Error("analyze", zap.String("id", RequestID(r.Context())), zap.Error(err))
		s.writeError(w, r, http.StatusInternalServerError, "internal analysis error")
		return
	}

	out := analyzeResponse{Results: make([]sentenceJSON, len(results))}
	for i, res := range results {
		out.Results[i].Analyses = res.Analyses
		if out.Results[i].Analyses == nil {
			out.Results[i].Analyses = []analyzer.Analysis{}
		}
		if res.Err != nil {
			out.Results[i].Error = res.Err.Error()
		}
	}
	s.writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, r, http.StatusMethodNotAllowed, "GET required")
		return
	}
	s.writeJSON(w, r, http.StatusOK, tagsResponse{Tags: s.an.Tags(), LemmaOps: s.an.LemmaOps()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, r, http.StatusMethodNotAllowed, "GET required")
		return
	}
	s.writeJSON(w, r, http.StatusOK, healthResponse{
		Status:   "ok",
		Decoder:  string(s.an.Decoder()),
		Metadata: s.an.Metadata(),
	})
}
