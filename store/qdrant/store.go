package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/w-h-a/tutor/store"
	getsafe "github.com/w-h-a/tutor/util/get_safe"
)

type qdrantStore struct {
	options store.Options
	client  *http.Client
}

func (s *qdrantStore) Add(ctx context.Context, records []store.Record) error {
	if len(records) == 0 {
		return nil
	}

	points := make([]map[string]any, 0, len(records))

	for _, rec := range records {
		payload := map[string]any{
			"record_id":  rec.Id,
			"content":    rec.Content,
			"metadata":   rec.Metadata,
			"created_at": time.Now().UTC().Format(time.RFC3339Nano),
		}

		if conv := getsafe.String(rec.Metadata, store.MetaConversation); len(conv) > 0 {
			payload[store.MetaConversation] = conv
		}

		points = append(points, map[string]any{
			// qdrant point ids must be uuids; derive one from the record id
			// so a replayed add of the same record overwrites, not duplicates
			"id":      uuid.NewSHA1(uuid.NameSpaceOID, []byte(rec.Id)).String(),
			"vector":  rec.Embedding,
			"payload": payload,
		})
	}

	req := map[string]any{
		"points": points,
	}

	var rsp qdrantEnvelope[json.RawMessage]

	path := fmt.Sprintf("/collections/%s/points?wait=true", url.PathEscape(s.options.Collection))

	if err := s.do(ctx, http.MethodPut, path, req, &rsp); err != nil {
		return err
	}

	if !strings.EqualFold(rsp.Status.State, "ok") && len(rsp.Status.Error) > 0 {
		return errors.New(rsp.Status.Error)
	}

	return nil
}

func (s *qdrantStore) Query(ctx context.Context, vector []float32, k int, opts ...store.QueryOption) ([]store.Candidate, error) {
	if k < 1 {
		return nil, nil
	}

	options := store.NewQueryOptions(opts...)

	req := map[string]any{
		"vector": vector,
		"limit":  k,
		// embeddings are never read back off a hit
		"with_vector":  false,
		"with_payload": true,
	}

	if len(options.Conversation) > 0 {
		req["filter"] = map[string]any{
			"must": []map[string]any{
				{
					"key":   store.MetaConversation,
					"match": map[string]any{"value": options.Conversation},
				},
			},
		}
	}

	var rsp qdrantEnvelope[[]qdrantPointResult]

	path := fmt.Sprintf("/collections/%s/points/search", url.PathEscape(s.options.Collection))

	if err := s.do(ctx, http.MethodPost, path, req, &rsp); err != nil {
		return nil, err
	}

	candidates := make([]store.Candidate, 0, len(rsp.Result))

	for _, point := range rsp.Result {
		rec := store.Record{
			Id:       getsafe.String(point.Payload, "record_id"),
			Content:  getsafe.String(point.Payload, "content"),
			Metadata: getsafe.Metadata(point.Payload, "metadata"),
		}

		candidates = append(candidates, store.Candidate{
			Record: rec,
			// qdrant reports cosine similarity; the contract is distance
			Distance: 1.0 - point.Score,
		})
	}

	return candidates, nil
}

func (s *qdrantStore) Count(ctx context.Context) (int, error) {
	var rsp qdrantEnvelope[qdrantCountResult]

	path := fmt.Sprintf("/collections/%s/points/count", url.PathEscape(s.options.Collection))

	if err := s.do(ctx, http.MethodPost, path, map[string]any{"exact": true}, &rsp); err != nil {
		return 0, err
	}

	return rsp.Result.Count, nil
}

func (s *qdrantStore) do(ctx context.Context, method string, path string, req any, rsp any) error {
	u := s.options.Location + path
	var buf io.Reader
	if req != nil {
		data, err := json.Marshal(req)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(data)
	}

	request, err := http.NewRequestWithContext(ctx, method, u, buf)
	if err != nil {
		return err
	}

	request.Header.Set("Content-Type", "application/json")

	if len(s.options.ApiKey) > 0 {
		request.Header.Set("api-key", s.options.ApiKey)
		request.Header.Set("Authorization", "Bearer "+s.options.ApiKey)
	}

	response, err := s.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("qdrant http %d: %s", response.StatusCode, string(payload))
	}

	if rsp != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, rsp); err != nil {
			return err
		}
	}

	return nil
}

func (s *qdrantStore) configure() error {
	exists, err := s.collectionExists()
	if err != nil {
		return err
	}

	if exists {
		return nil
	}

	return s.createCollection()
}

func (s *qdrantStore) collectionExists() (bool, error) {
	path := fmt.Sprintf("/collections/%s", url.PathEscape(s.options.Collection))

	var rsp qdrantEnvelope[json.RawMessage]

	err := s.do(context.Background(), http.MethodGet, path, nil, &rsp)
	if err != nil {
		if strings.Contains(err.Error(), "404") {
			return false, nil
		}
		return false, err
	}

	return strings.EqualFold(rsp.Status.State, "ok"), nil
}

func (s *qdrantStore) createCollection() error {
	req := map[string]any{
		"vectors": map[string]any{
			"size":     s.options.VectorSize,
			"distance": s.options.Distance,
		},
	}

	path := fmt.Sprintf("/collections/%s", url.PathEscape(s.options.Collection))

	var rsp qdrantEnvelope[json.RawMessage]

	if err := s.do(context.Background(), http.MethodPut, path, req, &rsp); err != nil {
		return err
	}

	if !strings.EqualFold(rsp.Status.State, "ok") {
		return errors.New(rsp.Status.Error)
	}

	return nil
}

func NewStore(opts ...store.Option) store.Store {
	options := store.NewOptions(opts...)

	if len(options.Location) == 0 ||
		len(options.Collection) == 0 ||
		options.VectorSize == 0 {
		panic("missing location, collection, or vector size for qdrant store")
	}

	client := &http.Client{
		Timeout: 15 * time.Second,
	}

	s := &qdrantStore{
		options: options,
		client:  client,
	}

	if err := s.configure(); err != nil {
		panic(err)
	}

	return s
}
