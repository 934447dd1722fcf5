package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/w-h-a/tutor"
	"github.com/w-h-a/tutor/ingestor"
	"github.com/w-h-a/tutor/server"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type httpServer struct {
	options server.Options
	tutor   *tutor.Tutor
	srv     *http.Server
}

func (s *httpServer) Run() error {
	slog.Info("http server listening", "address", s.options.Address)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *httpServer) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *httpServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

type ingestRequest struct {
	Items          []json.RawMessage `json:"items"`
	ConversationID string            `json:"conversationId"`
}

func (s *httpServer) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "no items provided")
		return
	}

	items, err := ingestor.DecodeItems(req.Items)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var opts []ingestor.IngestOption
	if len(req.ConversationID) > 0 {
		opts = append(opts, ingestor.WithConversation(req.ConversationID))
	}

	result, err := s.tutor.Ingest(r.Context(), items, opts...)
	if err != nil {
		slog.ErrorContext(r.Context(), "ingest failed", "error", err)
		writeError(w, ingestStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":           true,
		"ingested":     result.Ingested,
		"total_chunks": result.TotalChunks,
	})
}

type askRequest struct {
	Question     string          `json:"question"`
	TopK         int             `json:"topK"`
	Scope        []string        `json:"scope"`
	Conversation []tutor.Message `json:"conversation"`
}

func (s *httpServer) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if len(req.Question) == 0 {
		writeError(w, http.StatusBadRequest, "missing question")
		return
	}

	opts := []tutor.AskOption{
		tutor.WithTopK(req.TopK),
		tutor.WithHistory(req.Conversation),
	}
	if len(req.Scope) > 0 {
		opts = append(opts, tutor.WithScope(req.Scope...))
	}

	answer, err := s.tutor.Ask(r.Context(), req.Question, opts...)
	if err != nil {
		slog.ErrorContext(r.Context(), "answer failed", "error", err)
		writeError(w, http.StatusInternalServerError, "answer failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"answer":    answer.Text,
		"citations": answer.Citations,
		"grounded":  answer.Grounded,
	})
}

func ingestStatus(err error) int {
	if errors.Is(err, ingestor.ErrMissingField) || errors.Is(err, ingestor.ErrUnsupportedType) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"ok": false, "error": message})
}

func (s *httpServer) cors(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		for _, allowed := range s.options.CORSOrigins {
			if allowed == origin || allowed == "*" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				break
			}
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}

func NewServer(t *tutor.Tutor, opts ...server.Option) server.Server {
	options := server.NewOptions(opts...)

	s := &httpServer{
		options: options,
		tutor:   t,
	}

	router := mux.NewRouter()
	router.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/api/ingest", s.handleIngest).Methods(http.MethodPost, http.MethodOptions)
	router.HandleFunc("/api/ask", s.handleAsk).Methods(http.MethodPost, http.MethodOptions)

	var handler http.Handler = router
	handler = s.cors(handler)

	if ms, ok := MiddlewareFrom(options.Context); ok {
		for i := len(ms) - 1; i >= 0; i-- {
			handler = ms[i](handler)
		}
	}

	handler = otelhttp.NewHandler(handler, "tutor.http")

	s.srv = &http.Server{
		Addr:              options.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}
