package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/infrastructure/resilience"
)

const defaultSearchLimit = 5

type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// TMClient is the semantic translation memory: source texts are embedded and
// searched by cosine similarity, filtered by language pair.
type TMClient struct {
	baseURL    string
	collection string
	embedder   Embedder
	limit      int
	httpClient *http.Client
	executor   *resilience.Executor

	ensureMu          sync.Mutex
	ensuredCollection bool
	ensuredVectorSize int
}

type Option func(*TMClient)

// WithExecutor routes collection, upsert and search requests through exec.
func WithExecutor(exec *resilience.Executor) Option {
	return func(c *TMClient) {
		c.executor = exec
	}
}

func New(baseURL, collection string, embedder Embedder, limit int, opts ...Option) *TMClient {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	c := &TMClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		collection: collection,
		embedder:   embedder,
		limit:      limit,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *TMClient) AddEntries(ctx context.Context, entries []domain.TMEntry) error {
	if len(entries) == 0 {
		return nil
	}
	sources := make([]string, len(entries))
	for i, e := range entries {
		sources[i] = e.SourceText
	}
	vectors, err := c.embedder.Embed(ctx, sources)
	if err != nil {
		return fmt.Errorf("embed tm entries: %w", err)
	}
	if len(vectors) != len(entries) {
		return fmt.Errorf("entries/vectors mismatch: %d/%d", len(entries), len(vectors))
	}

	if err := c.ensureCollection(ctx, len(vectors[0])); err != nil {
		return err
	}

	type point struct {
		ID      string         `json:"id"`
		Vector  []float32      `json:"vector"`
		Payload map[string]any `json:"payload"`
	}

	points := make([]point, 0, len(entries))
	for i, e := range entries {
		points = append(points, point{
			ID:     pointID(e.ID),
			Vector: vectors[i],
			Payload: map[string]any{
				"entry_id":        e.ID,
				"source_text":     e.SourceText,
				"target_text":     e.TargetText,
				"source_language": strings.ToLower(e.SourceLanguage),
				"target_language": strings.ToLower(e.TargetLanguage),
				"domain":          e.Domain,
				"segment_type":    string(e.SegmentType),
			},
		})
	}

	url := fmt.Sprintf("%s/collections/%s/points?wait=true", c.baseURL, c.collection)
	if err := c.doJSON(ctx, http.MethodPut, url, map[string]any{"points": points}, nil, "upsert"); err != nil {
		return err
	}
	return nil
}

func (c *TMClient) FindTMMatches(ctx context.Context, query domain.TMQuery) ([]domain.TMMatch, error) {
	vector, err := c.embedder.EmbedQuery(ctx, query.Text)
	if err != nil {
		return nil, fmt.Errorf("embed tm query: %w", err)
	}

	reqBody := map[string]any{
		"vector":       vector,
		"limit":        c.limit,
		"with_payload": true,
	}
	if filter := languageFilter(query); filter != nil {
		reqBody["filter"] = filter
	}

	var searchResp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/points/search", c.baseURL, c.collection)
	if err := c.doJSON(ctx, http.MethodPost, url, reqBody, &searchResp, "search"); err != nil {
		return nil, err
	}

	out := make([]domain.TMMatch, 0, len(searchResp.Result))
	for _, r := range searchResp.Result {
		target := getStringPayload(r.Payload, "target_text")
		if target == "" {
			continue
		}
		out = append(out, domain.TMMatch{
			SourceText: getStringPayload(r.Payload, "source_text"),
			TargetText: target,
			MatchScore: cosineToPercent(r.Score),
			Domain:     getStringPayload(r.Payload, "domain"),
		})
	}
	return out, nil
}

func languageFilter(query domain.TMQuery) map[string]any {
	must := make([]map[string]any, 0, 2)
	if lang := strings.ToLower(strings.TrimSpace(query.TargetLanguage)); lang != "" {
		must = append(must, map[string]any{"key": "target_language", "match": map[string]any{"value": lang}})
	}
	if lang := strings.ToLower(strings.TrimSpace(query.SourceLanguage)); lang != "" {
		must = append(must, map[string]any{"key": "source_language", "match": map[string]any{"value": lang}})
	}
	if len(must) == 0 {
		return nil
	}
	return map[string]any{"must": must}
}

func cosineToPercent(score float64) float64 {
	switch {
	case score <= 0:
		return 0
	case score >= 1:
		return 100
	default:
		return score * 100
	}
}

// pointID keeps caller ids stable while satisfying Qdrant's UUID requirement.
func pointID(id string) string {
	if parsed, err := uuid.Parse(id); err == nil {
		return parsed.String()
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("tm:"+id)).String()
}

func (c *TMClient) ensureCollection(ctx context.Context, vectorSize int) error {
	c.ensureMu.Lock()
	if c.ensuredCollection && c.ensuredVectorSize == vectorSize {
		c.ensureMu.Unlock()
		return nil
	}
	c.ensureMu.Unlock()

	reqBody := map[string]any{
		"vectors": map[string]any{
			"size":     vectorSize,
			"distance": "Cosine",
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal create collection body: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s", c.baseURL, c.collection)
	err = c.run(ctx, "ensure_collection", func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create collection request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("qdrant ensure collection request: %w", err)
		}
		defer resp.Body.Close()

		// 409 when the collection already exists.
		if resp.StatusCode >= 300 && resp.StatusCode != http.StatusConflict {
			return statusError("ensure collection", resp)
		}
		return nil
	})
	if err != nil {
		return err
	}
	c.markCollectionEnsured(vectorSize)
	return nil
}

func (c *TMClient) markCollectionEnsured(vectorSize int) {
	c.ensureMu.Lock()
	defer c.ensureMu.Unlock()
	c.ensuredCollection = true
	c.ensuredVectorSize = vectorSize
}

// run sends one request through the executor when configured. Upserts use
// stable point ids, so a retried upsert is idempotent.
func (c *TMClient) run(ctx context.Context, operation string, fn func(context.Context) error) error {
	if c.executor == nil {
		return fn(ctx)
	}
	err := c.executor.Execute(ctx, "qdrant."+operation, fn, classifyQdrantError)
	if err != nil && classifyQdrantError(err).Retryable {
		return domain.WrapError(domain.ErrTemporary, "qdrant "+operation, err)
	}
	return err
}

func (c *TMClient) doJSON(ctx context.Context, method, url string, payload any, out any, operation string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s body: %w", operation, err)
	}
	return c.run(ctx, operation, func(ctx context.Context) error {
		return c.send(ctx, method, url, body, out, operation)
	})
}

func (c *TMClient) send(ctx context.Context, method, url string, body []byte, out any, operation string) error {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant %s request: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return statusError(operation, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}

type StatusError struct {
	Operation  string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("qdrant %s status: %s", e.Operation, e.Status)
	}
	return fmt.Sprintf("qdrant %s status: %s: %s", e.Operation, e.Status, e.Body)
}

func statusError(operation string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	return &StatusError{
		Operation:  operation,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       strings.TrimSpace(string(body)),
	}
}

// classifyQdrantError retries throttling, server errors and network faults.
// Other statuses (missing collection, bad vector size) fail fast.
func classifyQdrantError(err error) resilience.ErrorClassification {
	var (
		statusErr *StatusError
		netErr    net.Error
	)
	switch {
	case err == nil, errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return resilience.ErrorClassification{}
	case resilience.IsCircuitOpen(err):
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	case errors.As(err, &statusErr):
		retry := statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= http.StatusInternalServerError
		return resilience.ErrorClassification{Retryable: retry, RecordFailure: retry}
	case errors.As(err, &netErr):
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	default:
		return resilience.ErrorClassification{RecordFailure: true}
	}
}

func getStringPayload(payload map[string]any, key string) string {
	v, ok := payload[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
