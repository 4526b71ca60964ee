package store

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/samruben96/documine-sub012/internal/config"
	"github.com/samruben96/documine-sub012/internal/db"
	"github.com/samruben96/documine-sub012/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// preparedStatements lists queries to prepare on each new connection for
// the most frequently used store operations.
var preparedStatements = map[string]string{
	"insert_quote":      `INSERT INTO quotes (id, carrier, source_file, schema_version, extraction, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
	"get_quote":         `SELECT id, carrier, source_file, extraction, created_at FROM quotes WHERE id = $1`,
	"delete_quote":      `DELETE FROM quotes WHERE id = $1`,
	"insert_comparison": `INSERT INTO comparisons (id, quote_ids, result, risk_score, risk_level, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
	"get_comparison":    `SELECT id, quote_ids, result, created_at FROM comparisons WHERE id = $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, cfg config.StoreConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if cfg.MaxConns > 0 {
		maxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		minConns = cfg.MinConns
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool. Used by tests with pgxmock.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS quotes (
	id             TEXT PRIMARY KEY,
	carrier        TEXT NOT NULL DEFAULT '',
	source_file    TEXT NOT NULL DEFAULT '',
	schema_version INT NOT NULL,
	extraction     JSONB NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS comparisons (
	id         TEXT PRIMARY KEY,
	quote_ids  JSONB NOT NULL,
	result     JSONB NOT NULL,
	risk_score INT NOT NULL,
	risk_level TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_quotes_carrier ON quotes(carrier);
CREATE INDEX IF NOT EXISTS idx_quotes_created_at ON quotes(created_at);
CREATE INDEX IF NOT EXISTS idx_comparisons_created_at ON comparisons(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateQuote(ctx context.Context, sourceFile string, extraction model.QuoteExtraction) (*model.StoredQuote, error) {
	payload, err := json.Marshal(extraction)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal extraction")
	}

	quote := &model.StoredQuote{
		ID:         uuid.NewString(),
		SourceFile: sourceFile,
		Extraction: extraction,
		CreatedAt:  time.Now().UTC(),
	}
	_, err = s.pool.Exec(ctx, "insert_quote",
		quote.ID, extraction.Carrier(), sourceFile, extraction.SchemaVersion, payload, quote.CreatedAt)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert quote")
	}
	return quote, nil
}

func (s *PostgresStore) GetQuote(ctx context.Context, id string) (*model.StoredQuote, error) {
	row := s.pool.QueryRow(ctx, "get_quote", id)

	var quote model.StoredQuote
	var carrier string
	var payload []byte
	if err := row.Scan(&quote.ID, &carrier, &quote.SourceFile, &payload, &quote.CreatedAt); err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, eris.Wrapf(ErrNotFound, "postgres: quote %s", id)
		}
		return nil, eris.Wrap(err, "postgres: get quote")
	}
	if err := json.Unmarshal(payload, &quote.Extraction); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal extraction")
	}
	return &quote, nil
}

func (s *PostgresStore) ListQuotes(ctx context.Context, filter QuoteFilter) ([]model.StoredQuote, error) {
	query := `SELECT id, carrier, source_file, extraction, created_at FROM quotes`
	var args []any
	if filter.Carrier != "" {
		query += ` WHERE carrier = $1`
		args = append(args, filter.Carrier)
	}
	query += ` ORDER BY created_at DESC, id`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list quotes")
	}
	defer rows.Close()

	var quotes []model.StoredQuote
	for rows.Next() {
		var quote model.StoredQuote
		var carrier string
		var payload []byte
		if err := rows.Scan(&quote.ID, &carrier, &quote.SourceFile, &payload, &quote.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan quote")
		}
		if err := json.Unmarshal(payload, &quote.Extraction); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal extraction")
		}
		quotes = append(quotes, quote)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate quotes")
	}
	return quotes, nil
}

func (s *PostgresStore) DeleteQuote(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, "delete_quote", id)
	if err != nil {
		return eris.Wrap(err, "postgres: delete quote")
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "postgres: quote %s", id)
	}
	return nil
}

func (s *PostgresStore) CreateComparison(ctx context.Context, quoteIDs []string, result *model.ComparisonResult) (*model.StoredComparison, error) {
	resultPayload, err := json.Marshal(result)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal result")
	}
	idsPayload, err := json.Marshal(quoteIDs)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal quote ids")
	}

	cmp := &model.StoredComparison{
		ID:        uuid.NewString(),
		QuoteIDs:  quoteIDs,
		Result:    *result,
		CreatedAt: time.Now().UTC(),
	}
	_, err = s.pool.Exec(ctx, "insert_comparison",
		cmp.ID, idsPayload, resultPayload, result.RiskScore, string(result.RiskLevel), cmp.CreatedAt)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert comparison")
	}
	return cmp, nil
}

func (s *PostgresStore) GetComparison(ctx context.Context, id string) (*model.StoredComparison, error) {
	row := s.pool.QueryRow(ctx, "get_comparison", id)

	cmp, err := scanComparison(row)
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, eris.Wrapf(ErrNotFound, "postgres: comparison %s", id)
		}
		return nil, eris.Wrap(err, "postgres: get comparison")
	}
	return cmp, nil
}

func (s *PostgresStore) ListComparisons(ctx context.Context, limit int) ([]model.StoredComparison, error) {
	query := `SELECT id, quote_ids, result, created_at FROM comparisons ORDER BY created_at DESC, id`
	var args []any
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list comparisons")
	}
	defer rows.Close()

	var comparisons []model.StoredComparison
	for rows.Next() {
		cmp, err := scanComparison(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan comparison")
		}
		comparisons = append(comparisons, *cmp)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate comparisons")
	}
	return comparisons, nil
}

func scanComparison(row pgx.Row) (*model.StoredComparison, error) {
	var cmp model.StoredComparison
	var idsPayload, resultPayload []byte
	if err := row.Scan(&cmp.ID, &idsPayload, &resultPayload, &cmp.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(idsPayload, &cmp.QuoteIDs); err != nil {
		return nil, eris.Wrap(err, "unmarshal quote ids")
	}
	if err := json.Unmarshal(resultPayload, &cmp.Result); err != nil {
		return nil, eris.Wrap(err, "unmarshal result")
	}
	return &cmp, nil
}

