package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/born-ml/morpho/internal/analyzer"
	"github.com/born-ml/morpho/internal/config"
	"github.com/born-ml/morpho/internal/model/modeltest"
)

func newTestServer(t *testing.T, mutate ...func(*analyzer.Options)) *Server {
	t.Helper()
	opts := analyzer.DefaultOptions()
	for _, m := range mutate {
		m(&opts)
	}
	an, err := analyzer.FromArtifact(modeltest.CatSits(), opts)
	require.NoError(t, err)
	cfg := config.Default().Server
	return New(an, cfg, nil)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

type analysisBody struct {
	Token      string            `json:"token"`
	Position   int               `json:"position"`
	Tag        string            `json:"tag"`
	POS        string            `json:"pos"`
	Feats      map[string]string `json:"feats"`
	Lemma      string            `json:"lemma"`
	Confidence float64           `json:"confidence"`
}

type analyzeBody struct {
	Results []struct {
		Analyses []analysisBody `json:"analyses"`
		Error    string         `json:"error"`
	} `json:"results"`
}

func decodeAnalyze(t *testing.T, rec *httptest.ResponseRecorder) analyzeBody {
	t.Helper()
	var out analyzeBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestAnalyze_Sentences(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/analyze", `{"sentences":[["Кошка","сидит","на","окне","."],[]]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	out := decodeAnalyze(t, rec)
	require.Len(t, out.Results, 2)
	got := out.Results[0].Analyses
	require.Len(t, got, 5)
	assert.Equal(t, "NOUN", got[0].POS)
	assert.Equal(t, modeltest.TagNounNom, got[0].Tag)
	assert.Equal(t, "Nom", got[0].Feats["Case"])
	assert.Equal(t, "сидеть", got[1].Lemma)
	assert.Equal(t, 3, got[3].Position)
	assert.Equal(t, "окно", got[3].Lemma)
	assert.NotNil(t, out.Results[1].Analyses)
	assert.Empty(t, out.Results[1].Analyses)
}

func TestAnalyze_Text(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/analyze", `{"text":"Кошка сидит на окне. Кошка сидит."}`)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decodeAnalyze(t, rec)
	require.Len(t, out.Results, 2)
	assert.Len(t, out.Results[1].Analyses, 3)
}

func TestAnalyze_SentenceTooLong(t *testing.T) {
	s := newTestServer(t, func(o *analyzer.Options) { o.MaxLength = 2 })
	rec := do(t, s, http.MethodPost, "/api/analyze", `{"sentences":[["на","окне","."],["на"]]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decodeAnalyze(t, rec)
	assert.Contains(t, out.Results[0].Error, "sentence too long")
	assert.Empty(t, out.Results[1].Error)
	assert.Len(t, out.Results[1].Analyses, 1)
}

func TestAnalyze_BadRequests(t *testing.T) {
	s := newTestServer(t)
	for name, body := range map[string]string{
		"not json":  `{`,
		"unknown":   `{"words":["a"]}`,
		"empty":     `{"sentences":[]}`,
		"blank":     `{"text":"   "}`,
		"both":      `{"text":"a","sentences":[["a"]]}`,
		"no fields": `{}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/analyze", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			var e errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
			assert.NotEmpty(t, e.Error)
			assert.Equal(t, rec.Header().Get(RequestIDHeader), e.RequestID)
		})
	}
}

func TestAnalyze_InternalError(t *testing.T) {
	art := modeltest.Clone(modeltest.CatSits())
	bias := art.Tensors["tag_proj.bias"]
	for i := range bias.Data {
		bias.Data[i] = float32(math.NaN())
	}
	an, err := analyzer.FromArtifact(art, analyzer.DefaultOptions())
	require.NoError(t, err)
	core, logs := observer.New(zapcore.InfoLevel)
	s := New(an, config.Default().Server, zap.New(core))

	rec := do(t, s, http.MethodPost, "/api/analyze", `{"sentences":[["кошка"]]}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	failed := logs.FilterMessage("analyze").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.ErrorLevel, failed[0].Level)
	id := rec.Header().Get(RequestIDHeader)
	assert.Equal(t, id, failed[0].ContextMap()["id"])

	requests := logs.FilterMessage("request").All()
	require.Len(t, requests, 1)
	assert.Equal(t, "/api/analyze", requests[0].ContextMap()["path"])
	assert.EqualValues(t, http.StatusInternalServerError, requests[0].ContextMap()["status"])
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, s, http.MethodGet, "/api/analyze", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, s, http.MethodPost, "/api/tags", "{}").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, s, http.MethodDelete, "/api/health", "").Code)
}

func TestTags(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/tags", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var out tagsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, modeltest.DefaultTags, out.Tags)
	assert.Equal(t, modeltest.DefaultLemmaOps, out.LemmaOps)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var out healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "ok", out.Status)
	assert.Equal(t, "viterbi", out.Decoder)
	assert.Equal(t, "cat-sits", out.Metadata["name"])
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/health", "")
	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	assert.NoError(t, err)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(RequestIDHeader, id)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.NotEqual(t, "not-a-uuid", rec.Header().Get(RequestIDHeader))
}

func TestCORS(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/analyze", nil)
	req.Header.Set("Origin", "https://example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestInflightLimit(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.sem.Acquire(context.Background(), config.DefaultMaxInflight))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewBufferString(`{"sentences":[["на"]]}`)).WithContext(ctx)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	s.sem.Release(config.DefaultMaxInflight)
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/api/analyze", `{"sentences":[["на"]]}`).Code)
}

func TestListenAndServe_Shutdown(t *testing.T) {
	an, err := analyzer.FromArtifact(modeltest.CatSits(), analyzer.DefaultOptions())
	require.NoError(t, err)
	cfg := config.Default().Server
	cfg.Addr = "127.0.0.1:0"
	s := New(an, cfg, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
