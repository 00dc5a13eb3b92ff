package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"b2b-market-scraper/internal/models"
	"b2b-market-scraper/pkg/logger"
)

type PostgresStore struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func OpenPostgres(ctx context.Context, dsn string, log *logger.Logger) (*PostgresStore, error) {
	if log == nil {
		log = logger.Nop()
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("storage: connect postgres: %w", err)
	}
	return &PostgresStore{pool: pool, log: log}, nil
}

func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	if _, err := p.pool.Exec(ctx, schemaSQL("DOUBLE PRECISION", "BOOLEAN", "TIMESTAMPTZ")); err != nil {
		return fmt.Errorf("storage: ensure schema: %w", err)
	}
	return nil
}

func (p *PostgresStore) WriteBatch(ctx context.Context, rows []models.ProductRecord) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	insertSQL := upsertSQL(func(i int) string { return fmt.Sprintf("$%d", i) })
	now := time.Now().UTC()
	batch := &pgx.Batch{}
	for _, r := range rows {
		if storable(r) {
			batch.Queue(insertSQL, rowArgs(r, now)...)
		}
	}
	enqueued := batch.Len()
	if enqueued == 0 {
		return 0, nil
	}

	results := p.pool.SendBatch(ctx, batch)
	defer results.Close()
	for i := 0; i < enqueued; i++ {
		if _, err := results.Exec(); err != nil {
			return i, fmt.Errorf("storage: batch upsert failed at row %d: %w", i, err)
		}
	}
	p.log.Infof("stored %d products in postgres", enqueued)
	return enqueued, nil
}

func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}
