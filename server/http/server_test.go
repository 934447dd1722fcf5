package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/w-h-a/tutor"
	"github.com/w-h-a/tutor/ingestor"
	"github.com/w-h-a/tutor/retriever"
	"github.com/w-h-a/tutor/server"
	memorystore "github.com/w-h-a/tutor/store/memory"
)

type fakeEmbedder struct{}

func (e *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{float32(len(texts[i])) + 1, 1, 0}
	}
	return vectors, nil
}

type fakeGenerator struct{}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return "generated answer", nil
}

func newTestServer(t *testing.T, opts ...server.Option) *httpServer {
	t.Helper()

	emb := &fakeEmbedder{}
	st := memorystore.NewStore()

	tut := tutor.New(
		tutor.WithIngestor(ingestor.New(ingestor.WithEmbedder(emb), ingestor.WithStore(st))),
		tutor.WithRetriever(retriever.New(retriever.WithEmbedder(emb), retriever.WithStore(st))),
		tutor.WithGenerator(&fakeGenerator{}),
	)

	s, ok := NewServer(tut, opts...).(*httpServer)
	require.True(t, ok)
	return s
}

func do(s *httpServer, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := do(s, http.MethodGet, "/api/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
}

func TestIngestText(t *testing.T) {
	s := newTestServer(t)

	rec := do(s, http.MethodPost, "/api/ingest", []byte(`{
		"items": [{"type":"text","name":"doc1","text":"Para A.\n\nPara B."}]
	}`))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, float64(1), body["total_chunks"])
}

func TestIngestRejectsInvalidJSON(t *testing.T) {
	s := newTestServer(t)

	rec := do(s, http.MethodPost, "/api/ingest", []byte(`{broken`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, decode(t, rec)["ok"])
}

func TestIngestRejectsEmptyBatch(t *testing.T) {
	s := newTestServer(t)

	rec := do(s, http.MethodPost, "/api/ingest", []byte(`{"items": []}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIngestRejectsUnsupportedType(t *testing.T) {
	s := newTestServer(t)

	rec := do(s, http.MethodPost, "/api/ingest", []byte(`{
		"items": [{"type":"csv","name":"data.csv"}]
	}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "csv")
}

func TestIngestRejectsMissingField(t *testing.T) {
	s := newTestServer(t)

	rec := do(s, http.MethodPost, "/api/ingest", []byte(`{
		"items": [{"type":"text","name":"doc1"}]
	}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAsk(t *testing.T) {
	s := newTestServer(t)

	rec := do(s, http.MethodPost, "/api/ingest", []byte(`{
		"items": [{"type":"text","name":"doc1","text":"Photosynthesis converts light into chemical energy."}]
	}`))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(s, http.MethodPost, "/api/ask", []byte(`{"question":"what does photosynthesis do?"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "generated answer", body["answer"])
	assert.Equal(t, true, body["grounded"])

	citations, ok := body["citations"].([]any)
	require.True(t, ok)
	require.Len(t, citations, 1)
	citation, ok := citations[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "doc1", citation["title"])
	assert.Equal(t, float64(0), citation["chunkIndex"])
}

func TestAskEmptyStoreFallsBack(t *testing.T) {
	s := newTestServer(t)

	rec := do(s, http.MethodPost, "/api/ask", []byte(`{"question":"what is a monad?"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, false, body["grounded"])
}

func TestAskRejectsMissingQuestion(t *testing.T) {
	s := newTestServer(t)

	rec := do(s, http.MethodPost, "/api/ask", []byte(`{}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSHeaders(t *testing.T) {
	s := newTestServer(t, server.WithCORSOrigins("http://localhost:3000"))

	req := httptest.NewRequest(http.MethodOptions, "/api/ask", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSUnknownOrigin(t *testing.T) {
	s := newTestServer(t, server.WithCORSOrigins("http://localhost:3000"))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
