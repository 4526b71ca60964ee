package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/samruben96/documine-sub012/internal/model"
)

// ErrNotFound is returned when a quote or comparison does not exist.
var ErrNotFound = eris.New("store: not found")

// QuoteFilter specifies criteria for listing quotes.
type QuoteFilter struct {
	Carrier string `json:"carrier,omitempty"`
	Limit   int    `json:"limit,omitempty"`
	Offset  int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for quotes and comparison results.
type Store interface {
	// Quotes
	CreateQuote(ctx context.Context, sourceFile string, extraction model.QuoteExtraction) (*model.StoredQuote, error)
	GetQuote(ctx context.Context, id string) (*model.StoredQuote, error)
	ListQuotes(ctx context.Context, filter QuoteFilter) ([]model.StoredQuote, error)
	DeleteQuote(ctx context.Context, id string) error

	// Comparisons
	CreateComparison(ctx context.Context, quoteIDs []string, result *model.ComparisonResult) (*model.StoredComparison, error)
	GetComparison(ctx context.Context, id string) (*model.StoredComparison, error)
	ListComparisons(ctx context.Context, limit int) ([]model.StoredComparison, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
