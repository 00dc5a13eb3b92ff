// Package storage persists cleaned product snapshots, keyed by product ID.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"b2b-market-scraper/internal/fields"
	"b2b-market-scraper/internal/models"
	"b2b-market-scraper/pkg/logger"
)

// Store is a snapshot sink. WriteBatch upserts and returns how many rows were
// written; rows without a title are skipped.
type Store interface {
	EnsureSchema(ctx context.Context) error
	WriteBatch(ctx context.Context, rows []models.ProductRecord) (int, error)
	Close() error
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open connects to the configured driver.
func Open(ctx context.Context, driver, dsn string, log *logger.Logger) (Store, error) {
	switch driver {
	case DriverSQLite:
		return OpenSQLite(ctx, dsn, log)
	case DriverPostgres:
		return OpenPostgres(ctx, dsn, log)
	}
	return nil, fmt.Errorf("storage: unknown driver %q", driver)
}

// productColumns are the upserted columns after product_id.
var productColumns = []string{
	"title", "supplier_name", "location", "description",
	"raw_price", "numeric_price", "currency", "price_unit",
	"image_url", "product_url", "source_url", "category", "marketplace",
	"price_outlier", "extracted_state", "is_duplicate", "updated_at",
}

func schemaSQL(priceType, boolType, timeType string) string {
	return `
	CREATE TABLE IF NOT EXISTS products (
		product_id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		supplier_name TEXT,
		location TEXT,
		description TEXT,
		raw_price TEXT,
		numeric_price ` + priceType + `,
		currency TEXT,
		price_unit TEXT,
		image_url TEXT,
		product_url TEXT,
		source_url TEXT,
		category TEXT,
		marketplace TEXT,
		price_outlier ` + boolType + ` NOT NULL DEFAULT FALSE,
		extracted_state TEXT,
		is_duplicate ` + boolType + ` NOT NULL DEFAULT FALSE,
		updated_at ` + timeType + ` NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
	CREATE INDEX IF NOT EXISTS idx_products_state ON products(extracted_state);
	`
}

// upsertSQL builds the insert-or-update statement; placeholder renders the
// i-th (1-based) bind parameter.
func upsertSQL(placeholder func(i int) string) string {
	cols := append([]string{"product_id"}, productColumns...)
	params := make([]string, len(cols))
	for i := range cols {
		params[i] = placeholder(i + 1)
	}
	updates := make([]string, len(productColumns))
	for i, c := range productColumns {
		updates[i] = fmt.Sprintf("%s = excluded.%s", c, c)
	}
	return fmt.Sprintf("INSERT INTO products (%s) VALUES (%s) ON CONFLICT (product_id) DO UPDATE SET %s",
		strings.Join(cols, ", "), strings.Join(params, ", "), strings.Join(updates, ", "))
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// rowArgs returns the bind arguments for r in upsertSQL order.
func rowArgs(r models.ProductRecord, now time.Time) []any {
	return []any{
		fields.ProductID(r.Title, r.SupplierName, r.NumericPrice),
		r.Title,
		nullable(r.SupplierName),
		nullable(r.Location),
		nullable(r.Description),
		nullable(r.RawPrice),
		r.NumericPrice,
		nullable(r.Currency),
		nullable(r.PriceUnit),
		nullable(r.ImageURL),
		nullable(r.ProductURL),
		nullable(r.SourceURL),
		nullable(r.Category),
		nullable(r.Marketplace),
		r.PriceOutlier,
		nullable(r.ExtractedState),
		r.IsDuplicate,
		now,
	}
}

func storable(r models.ProductRecord) bool {
	return strings.TrimSpace(r.Title) != ""
}
