package anthropic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockClient implements Client for testing.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) CreateMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MessageResponse), args.Error(1)
}

func TestMessageResponse_Text(t *testing.T) {
	resp := &MessageResponse{
		Content: []ContentBlock{
			{Type: "text", Text: "{\"carrier"},
			{Type: "thinking", Text: "ignored"},
			{Type: "text", Text: "_name\": null}"},
		},
	}
	assert.Equal(t, "{\"carrier_name\": null}", resp.Text())
}

func TestMessageResponse_Text_Empty(t *testing.T) {
	resp := &MessageResponse{}
	assert.Equal(t, "", resp.Text())
}

func TestTokenUsage_EstimateCost(t *testing.T) {
	tests := []struct {
		name  string
		usage TokenUsage
		model string
		want  float64
	}{
		{
			name:  "sonnet input and output",
			usage: TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000},
			model: "claude-sonnet-4-5-20250929",
			want:  18.00,
		},
		{
			name:  "haiku with cache read",
			usage: TokenUsage{InputTokens: 500_000, CacheReadInputTokens: 1_000_000},
			model: "claude-haiku-4-5-20251001",
			want:  0.40 + 0.08,
		},
		{
			name:  "cache write surcharge",
			usage: TokenUsage{CacheCreationInputTokens: 1_000_000},
			model: "claude-sonnet-4-5-20250929",
			want:  3.75,
		},
		{
			name:  "unknown model",
			usage: TokenUsage{InputTokens: 1_000_000},
			model: "claude-unknown",
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.usage.EstimateCost(tt.model), 1e-9)
		})
	}
}

func TestBuildCachedSystemBlocks(t *testing.T) {
	blocks := BuildCachedSystemBlocks("You extract insurance quote data.")
	require.Len(t, blocks, 1)
	assert.Equal(t, "You extract insurance quote data.", blocks[0].Text)
	require.NotNil(t, blocks[0].CacheControl)
	assert.Equal(t, "1h", blocks[0].CacheControl.TTL)
}

func TestMockClient_SatisfiesInterface(t *testing.T) {
	var c Client = &MockClient{}

	mc := c.(*MockClient)
	mc.On("CreateMessage", mock.Anything, mock.Anything).
		Return(&MessageResponse{ID: "msg_1"}, nil)

	resp, err := c.CreateMessage(context.Background(), MessageRequest{Model: "claude-sonnet-4-5-20250929"})
	require.NoError(t, err)
	assert.Equal(t, "msg_1", resp.ID)
	mc.AssertExpectations(t)
}
