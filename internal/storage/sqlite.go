package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"b2b-market-scraper/internal/models"
	"b2b-market-scraper/pkg/logger"
)

type SQLiteStore struct {
	db  *sql.DB
	log *logger.Logger
}

// OpenSQLite opens a database file, or ":memory:".
func OpenSQLite(ctx context.Context, path string, log *logger.Logger) (*SQLiteStore, error) {
	if log == nil {
		log = logger.Nop()
	}
	if path == "" {
		path = ":memory:"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open sqlite: %w", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: ping sqlite: %w", err)
	}
	return &SQLiteStore{db: db, log: log}, nil
}

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schemaSQL("REAL", "BOOLEAN", "TIMESTAMP"))
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		return fmt.Errorf("storage: ensure schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) WriteBatch(ctx context.Context, rows []models.ProductRecord) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertSQL(func(int) string { return "?" }))
	if err != nil {
		return 0, fmt.Errorf("storage: prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	written := 0
	for i, r := range rows {
		if !storable(r) {
			continue
		}
		if _, err := stmt.ExecContext(ctx, rowArgs(r, now)...); err != nil {
			return 0, fmt.Errorf("storage: upsert row %d: %w", i, err)
		}
		written++
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	s.log.Infof("stored %d products in sqlite", written)
	return written, nil
}

// Count returns the number of stored products.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&n)
	return n, err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
