package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	genModel   string
	embedModel string
	httpClient *http.Client
	executor   *resilience.Executor
}

// New builds a client. A nil executor sends every request exactly once.
func New(baseURL, genModel, embedModel string, executor *resilience.Executor) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		genModel:   genModel,
		embedModel: embedModel,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		executor:   executor,
	}
}

type Translator struct {
	client *Client
}

func NewTranslator(client *Client) *Translator {
	return &Translator{client: client}
}

func (t *Translator) GenerateTranslation(ctx context.Context, text string, tc domain.TranslationContext) (domain.GeneratedTranslation, error) {
	var out domain.GeneratedTranslation
	err := t.client.generateJSON(ctx, buildTranslationPrompt(text, tc), "translate", func(raw string) error {
		parsed, err := parseTranslation(raw)
		if err != nil {
			return malformed("translate", raw, err)
		}
		out = parsed
		return nil
	})
	if err != nil {
		return domain.GeneratedTranslation{}, err
	}
	return out, nil
}

func parseTranslation(raw string) (domain.GeneratedTranslation, error) {
	var parsed struct {
		Translation      string   `json:"translation"`
		Accuracy         *float64 `json:"accuracy"`
		BrandConsistency *float64 `json:"brandConsistency"`
		CulturalFit      *float64 `json:"culturalFit"`
	}
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), &parsed); err != nil {
		return domain.GeneratedTranslation{}, fmt.Errorf("parse translation json: %w", err)
	}
	out := domain.GeneratedTranslation{TranslatedText: strings.TrimSpace(parsed.Translation)}
	if out.TranslatedText == "" {
		return domain.GeneratedTranslation{}, errors.New("model returned an empty translation")
	}
	if parsed.Accuracy != nil && parsed.BrandConsistency != nil && parsed.CulturalFit != nil {
		out.QualityScores = &domain.AIScores{
			Accuracy:         *parsed.Accuracy,
			BrandConsistency: *parsed.BrandConsistency,
			CulturalFit:      *parsed.CulturalFit,
		}
	}
	return out, nil
}

type Analyzer struct {
	client *Client
}

func NewAnalyzer(client *Client) *Analyzer {
	return &Analyzer{client: client}
}

func (a *Analyzer) Analyze(ctx context.Context, sourceText, translatedText string) (domain.QualityAssessment, error) {
	var result domain.QualityAssessment
	err := a.client.generateJSON(ctx, buildAnalysisPrompt(sourceText, translatedText), "analyze", func(raw string) error {
		result = domain.QualityAssessment{}
		if err := json.Unmarshal([]byte(extractJSONObject(raw)), &result); err != nil {
			return malformed("analyze", raw, fmt.Errorf("parse analysis json: %w", err))
		}
		return nil
	})
	if err != nil {
		return domain.QualityAssessment{}, err
	}
	if result.AccuracyIssues == nil {
		result.AccuracyIssues = []string{}
	}
	return result, nil
}

type Embedder struct {
	client *Client
}

func NewEmbedder(client *Client) *Embedder {
	return &Embedder{client: client}
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	request := map[string]any{
		"model": e.client.embedModel,
		"input": texts,
	}

	var response struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	err := e.client.call(ctx, "/api/embed", request, &response, "embed", func() error {
		if len(response.Embeddings) != len(texts) {
			return malformed("embed", "", fmt.Errorf("got %d embeddings for %d inputs", len(response.Embeddings), len(texts)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response.Embeddings, nil
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}
	return vectors[0], nil
}

// generateJSON asks the model for a JSON answer and hands the trimmed response
// text to parse inside the same attempt.
func (c *Client) generateJSON(ctx context.Context, prompt, operation string, parse func(raw string) error) error {
	reqBody := map[string]any{
		"model":  c.genModel,
		"prompt": prompt,
		"stream": false,
		"format": "json",
	}
	var response struct {
		Response string `json:"response"`
	}
	return c.call(ctx, "/api/generate", reqBody, &response, operation, func() error {
		return parse(strings.TrimSpace(response.Response))
	})
}

func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
