package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/samruben96/documine-sub012/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS quotes (
	id             TEXT PRIMARY KEY,
	carrier        TEXT NOT NULL DEFAULT '',
	source_file    TEXT NOT NULL DEFAULT '',
	schema_version INTEGER NOT NULL,
	extraction     TEXT NOT NULL,
	created_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS comparisons (
	id         TEXT PRIMARY KEY,
	quote_ids  TEXT NOT NULL,
	result     TEXT NOT NULL,
	risk_score INTEGER NOT NULL,
	risk_level TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_quotes_carrier ON quotes(carrier);
CREATE INDEX IF NOT EXISTS idx_quotes_created_at ON quotes(created_at);
CREATE INDEX IF NOT EXISTS idx_comparisons_created_at ON comparisons(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateQuote(ctx context.Context, sourceFile string, extraction model.QuoteExtraction) (*model.StoredQuote, error) {
	payload, err := json.Marshal(extraction)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal extraction")
	}

	quote := &model.StoredQuote{
		ID:         uuid.NewString(),
		SourceFile: sourceFile,
		Extraction: extraction,
		CreatedAt:  time.Now().UTC(),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO quotes (id, carrier, source_file, schema_version, extraction, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		quote.ID, extraction.Carrier(), sourceFile, extraction.SchemaVersion, string(payload), quote.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert quote")
	}
	return quote, nil
}

func (s *SQLiteStore) GetQuote(ctx context.Context, id string) (*model.StoredQuote, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source_file, extraction, created_at FROM quotes WHERE id = ?`, id)

	var quote model.StoredQuote
	var payload string
	err := row.Scan(&quote.ID, &quote.SourceFile, &payload, &quote.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: quote %s", id)
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get quote")
	}
	if err := json.Unmarshal([]byte(payload), &quote.Extraction); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal extraction")
	}
	return &quote, nil
}

func (s *SQLiteStore) ListQuotes(ctx context.Context, filter QuoteFilter) ([]model.StoredQuote, error) {
	query := `SELECT id, source_file, extraction, created_at FROM quotes`
	var args []any
	if filter.Carrier != "" {
		query += ` WHERE carrier = ?`
		args = append(args, filter.Carrier)
	}
	query += ` ORDER BY created_at DESC, id`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list quotes")
	}
	defer rows.Close()

	var quotes []model.StoredQuote
	for rows.Next() {
		var quote model.StoredQuote
		var payload string
		if err := rows.Scan(&quote.ID, &quote.SourceFile, &payload, &quote.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan quote")
		}
		if err := json.Unmarshal([]byte(payload), &quote.Extraction); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal extraction")
		}
		quotes = append(quotes, quote)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate quotes")
	}
	return quotes, nil
}

func (s *SQLiteStore) DeleteQuote(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM quotes WHERE id = ?`, id)
	if err != nil {
		return eris.Wrap(err, "sqlite: delete quote")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "sqlite: quote %s", id)
	}
	return nil
}

func (s *SQLiteStore) CreateComparison(ctx context.Context, quoteIDs []string, result *model.ComparisonResult) (*model.StoredComparison, error) {
	resultPayload, err := json.Marshal(result)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal result")
	}
	idsPayload, err := json.Marshal(quoteIDs)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal quote ids")
	}

	cmp := &model.StoredComparison{
		ID:        uuid.NewString(),
		QuoteIDs:  quoteIDs,
		Result:    *result,
		CreatedAt: time.Now().UTC(),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO comparisons (id, quote_ids, result, risk_score, risk_level, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		cmp.ID, string(idsPayload), string(resultPayload), result.RiskScore, string(result.RiskLevel), cmp.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert comparison")
	}
	return cmp, nil
}

func (s *SQLiteStore) GetComparison(ctx context.Context, id string) (*model.StoredComparison, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, quote_ids, result, created_at FROM comparisons WHERE id = ?`, id)

	cmp, err := scanSQLiteComparison(row)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: comparison %s", id)
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get comparison")
	}
	return cmp, nil
}

func (s *SQLiteStore) ListComparisons(ctx context.Context, limit int) ([]model.StoredComparison, error) {
	query := `SELECT id, quote_ids, result, created_at FROM comparisons ORDER BY created_at DESC, id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list comparisons")
	}
	defer rows.Close()

	var comparisons []model.StoredComparison
	for rows.Next() {
		cmp, err := scanSQLiteComparison(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan comparison")
		}
		comparisons = append(comparisons, *cmp)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate comparisons")
	}
	return comparisons, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanSQLiteComparison(row scannable) (*model.StoredComparison, error) {
	var cmp model.StoredComparison
	var idsPayload, resultPayload string
	if err := row.Scan(&cmp.ID, &idsPayload, &resultPayload, &cmp.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(idsPayload), &cmp.QuoteIDs); err != nil {
		return nil, eris.Wrap(err, "unmarshal quote ids")
	}
	if err := json.Unmarshal([]byte(resultPayload), &cmp.Result); err != nil {
		return nil, eris.Wrap(err, "unmarshal result")
	}
	return &cmp, nil
}
