package extractor

import (
	"context"
	"sync"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samruben96/documine-sub012/internal/config"
	"github.com/samruben96/documine-sub012/internal/model"
	"github.com/samruben96/documine-sub012/internal/resilience"
	"github.com/samruben96/documine-sub012/pkg/anthropic"
)

// stubClient returns canned responses keyed by the user message content.
type stubClient struct {
	mu        sync.Mutex
	responses map[string]string
	errs      map[string]error
	calls     int
}

func (c *stubClient) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++

	key := req.Messages[0].Content
	if err, ok := c.errs[key]; ok {
		return nil, err
	}
	return &anthropic.MessageResponse{
		ID:      "msg_test",
		Model:   req.Model,
		Content: []anthropic.ContentBlock{{Type: "text", Text: c.responses[key]}},
	}, nil
}

const validRecord = `{
	"schema_version": 3,
	"carrier_name": "Acme Mutual",
	"policy_number": "Q-100",
	"effective_date": null,
	"expiration_date": null,
	"named_insured": null,
	"annual_premium": 12500,
	"coverages": [
		{
			"coverage_type": "general_liability",
			"name": "General Liability",
			"description": "",
			"limit": 1000000,
			"limit_text": "$1,000,000",
			"sublimit": null,
			"sublimit_text": "",
			"limit_basis": "per_occurrence",
			"deductible": null,
			"source_pages": [2]
		}
	],
	"exclusions": [],
	"deductibles": []
}`

func newTestExtractor(client anthropic.Client) *Extractor {
	return New(client,
		config.AnthropicConfig{Model: "claude-sonnet-4-5-20250929", MaxTokens: 4096},
		config.ExtractConfig{MaxConcurrent: 2, RequestsPerSec: 1000, MaxAttempts: 2},
	)
}

func TestExtract_ValidResponse(t *testing.T) {
	client := &stubClient{responses: map[string]string{"doc text": validRecord}}
	ex := newTestExtractor(client)

	extraction, err := ex.Extract(context.Background(), Document{SourceFile: "acme.pdf", Text: "doc text"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Mutual", extraction.Carrier())
	require.Len(t, extraction.Coverages, 1)
	assert.Equal(t, model.CoverageGeneralLiability, extraction.Coverages[0].CoverageType)
	require.NotNil(t, extraction.Coverages[0].Limit)
	assert.Equal(t, 1_000_000.0, *extraction.Coverages[0].Limit)
	assert.Equal(t, []int{2}, extraction.Coverages[0].SourcePages)
}

func TestExtract_ResponseWrappedInProse(t *testing.T) {
	client := &stubClient{responses: map[string]string{
		"doc text": "Here is the extraction:\n```json\n" + validRecord + "\n```\n",
	}}
	ex := newTestExtractor(client)

	extraction, err := ex.Extract(context.Background(), Document{SourceFile: "acme.pdf", Text: "doc text"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Mutual", extraction.Carrier())
}

func TestExtract_NoJSONInResponse(t *testing.T) {
	client := &stubClient{responses: map[string]string{"doc text": "I could not read this document."}}
	ex := newTestExtractor(client)

	_, err := ex.Extract(context.Background(), Document{SourceFile: "acme.pdf", Text: "doc text"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no JSON object")
}

func TestExtract_InvalidRecord(t *testing.T) {
	client := &stubClient{responses: map[string]string{
		"doc text": `{"schema_version": 3, "coverages": "not a list"}`,
	}}
	ex := newTestExtractor(client)

	_, err := ex.Extract(context.Background(), Document{SourceFile: "acme.pdf", Text: "doc text"})
	require.Error(t, err)
}

func TestExtract_RetriesTransientError(t *testing.T) {
	client := &retryOnceClient{response: validRecord}
	ex := newTestExtractor(client)

	extraction, err := ex.Extract(context.Background(), Document{SourceFile: "acme.pdf", Text: "doc text"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Mutual", extraction.Carrier())
	assert.Equal(t, 2, client.calls)
}

// retryOnceClient fails the first call with a retryable error.
type retryOnceClient struct {
	mu       sync.Mutex
	calls    int
	response string
}

func (c *retryOnceClient) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.calls == 1 {
		return nil, resilience.NewTransientError(eris.New("anthropic: overloaded_error"), 529)
	}
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: c.response}},
	}, nil
}

func TestExtractAll_PerDocumentFailures(t *testing.T) {
	client := &stubClient{
		responses: map[string]string{"good doc": validRecord},
		errs:      map[string]error{"bad doc": eris.New("anthropic: invalid_request_error")},
	}
	ex := newTestExtractor(client)

	results, err := ex.ExtractAll(context.Background(), []Document{
		{SourceFile: "good.pdf", Text: "good doc"},
		{SourceFile: "bad.pdf", Text: "bad doc"},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "good.pdf", results[0].SourceFile)
	require.NoError(t, results[0].Err)
	assert.Equal(t, "Acme Mutual", results[0].Extraction.Carrier())

	assert.Equal(t, "bad.pdf", results[1].SourceFile)
	require.Error(t, results[1].Err)
	assert.Nil(t, results[1].Extraction)
}

func TestExtractAll_PreservesInputOrder(t *testing.T) {
	responses := map[string]string{}
	var docs []Document
	for _, text := range []string{"alpha", "beta", "gamma", "delta"} {
		responses[text] = validRecord
		docs = append(docs, Document{SourceFile: text + ".pdf", Text: text})
	}
	ex := newTestExtractor(&stubClient{responses: responses})

	results, err := ex.ExtractAll(context.Background(), docs)
	require.NoError(t, err)
	require.Len(t, results, 4)
	for i, doc := range docs {
		assert.Equal(t, doc.SourceFile, results[i].SourceFile)
	}
}

func TestDecodeResponse_BracesInsideStrings(t *testing.T) {
	raw, err := decodeResponse(`prefix {"note": "has } brace and \" quote"} suffix`)
	require.NoError(t, err)
	m, ok := raw.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, `has } brace and " quote`, m["note"])
}

func TestDecodeResponse_Unterminated(t *testing.T) {
	_, err := decodeResponse(`{"never": "closed"`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unterminated")
}

func TestShouldRetryAPIError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limited", eris.New("anthropic: 429 rate_limit_error"), true},
		{"overloaded", eris.New("anthropic: overloaded_error"), true},
		{"transient wrapper", resilience.NewTransientError(eris.New("boom"), 503), true},
		{"invalid request", eris.New("anthropic: invalid_request_error"), false},
		{"circuit open", resilience.ErrCircuitOpen, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldRetryAPIError(tt.err))
		})
	}
}
