// Package extractor turns raw quote document text into validated extraction
// records by prompting the Anthropic API.
package extractor

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/samruben96/documine-sub012/internal/config"
	"github.com/samruben96/documine-sub012/internal/engine"
	"github.com/samruben96/documine-sub012/internal/model"
	"github.com/samruben96/documine-sub012/internal/resilience"
	"github.com/samruben96/documine-sub012/pkg/anthropic"
)

// Document is one input to an extraction run.
type Document struct {
	SourceFile string
	Text       string
}

// Result pairs a document with its extraction outcome. Err is set when the
// document failed; failures do not abort the rest of the run.
type Result struct {
	SourceFile string
	Extraction *model.QuoteExtraction
	Err        error
}

// Extractor calls the Anthropic API with rate limiting, retry, and a circuit
// breaker shared across concurrent workers.
type Extractor struct {
	client    anthropic.Client
	breaker   *resilience.Breaker
	limiter   *rate.Limiter
	retry     resilience.RetryConfig
	model     string
	maxTokens int64
	workers   int
}

// New creates an Extractor from configuration.
func New(client anthropic.Client, api config.AnthropicConfig, cfg config.ExtractConfig) *Extractor {
	workers := cfg.MaxConcurrent
	if workers <= 0 {
		workers = 2
	}
	rps := cfg.RequestsPerSec
	if rps <= 0 {
		rps = 1
	}
	maxTokens := api.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 8192
	}

	retryCfg := resilience.RetryConfig{
		MaxAttempts: cfg.MaxAttempts,
		ShouldRetry: shouldRetryAPIError,
		OnRetry:     resilience.RetryLogger("anthropic", "extract"),
	}

	return &Extractor{
		client:    client,
		breaker:   resilience.NewBreaker(5, 30*time.Second),
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
		retry:     retryCfg,
		model:     api.Model,
		maxTokens: maxTokens,
		workers:   workers,
	}
}

// Extract processes a single document and returns its validated extraction.
func (e *Extractor) Extract(ctx context.Context, doc Document) (*model.QuoteExtraction, error) {
	resp, err := resilience.DoVal(ctx, e.retry, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "extractor: rate limit wait")
		}
		return resilience.ExecuteVal(ctx, e.breaker, func(ctx context.Context) (*anthropic.MessageResponse, error) {
			return e.client.CreateMessage(ctx, anthropic.MessageRequest{
				Model:     e.model,
				MaxTokens: e.maxTokens,
				System:    anthropic.BuildCachedSystemBlocks(systemPrompt),
				Messages: []anthropic.Message{
					{Role: "user", Content: doc.Text},
				},
			})
		})
	})
	if err != nil {
		return nil, eris.Wrapf(err, "extractor: %s", doc.SourceFile)
	}
	resp.Usage.LogCost(e.model, doc.SourceFile)

	raw, err := decodeResponse(resp.Text())
	if err != nil {
		return nil, eris.Wrapf(err, "extractor: %s", doc.SourceFile)
	}
	extraction, err := engine.ValidateRecord(raw)
	if err != nil {
		return nil, eris.Wrapf(err, "extractor: %s", doc.SourceFile)
	}
	return extraction, nil
}

// ExtractAll processes documents concurrently. The returned slice has one
// Result per input document in input order. The error return is reserved
// for context cancellation; per-document failures live in Result.Err.
func (e *Extractor) ExtractAll(ctx context.Context, docs []Document) ([]Result, error) {
	results := make([]Result, len(docs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			extraction, err := e.Extract(gctx, doc)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				zap.L().Error("document extraction failed",
					zap.String("source_file", doc.SourceFile),
					zap.Error(err))
			}
			mu.Lock()
			results[i] = Result{SourceFile: doc.SourceFile, Extraction: extraction, Err: err}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "extractor: run aborted")
	}
	return results, nil
}

// decodeResponse pulls the first top-level JSON object out of the model's
// reply. Models occasionally wrap the object in fences or prose despite the
// prompt saying not to.
func decodeResponse(text string) (any, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return nil, eris.New("extractor: no JSON object in response")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				var raw any
				dec := json.NewDecoder(strings.NewReader(text[start : i+1]))
				dec.UseNumber()
				if err := dec.Decode(&raw); err != nil {
					return nil, eris.Wrap(err, "extractor: decode response")
				}
				return raw, nil
			}
		}
	}
	return nil, eris.New("extractor: unterminated JSON object in response")
}

// shouldRetryAPIError extends the default transient check with Anthropic API
// failure modes that are safe to retry.
func shouldRetryAPIError(err error) bool {
	if resilience.IsTransient(err) {
		return true
	}
	if eris.Is(err, resilience.ErrCircuitOpen) {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, p := range []string{"429", "529", "rate_limit", "overloaded", "internal server error", "api_error"} {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
