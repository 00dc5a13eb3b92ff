package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"b2b-market-scraper/internal/fields"
	"b2b-market-scraper/internal/models"
)

func TestSQLiteUpsert(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, ":memory:", nil)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.EnsureSchema(ctx))
	require.NoError(t, s.EnsureSchema(ctx))

	rows := []models.ProductRecord{
		{Title: "CNC Lathe", SupplierName: "Acme", NumericPrice: models.Float(25000), Category: "industrial_machinery"},
		{Title: "Bench Drill", SupplierName: "Shakti", ExtractedState: "Gujarat"},
		{Title: "  ", SupplierName: "Nobody"},
	}
	n, err := s.WriteBatch(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows[0].Location = "Pune, Maharashtra"
	n, err = s.WriteBatch(ctx, rows[:1])
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var loc string
	var price float64
	id := fields.ProductID("CNC Lathe", "Acme", models.Float(25000))
	require.NoError(t, s.db.QueryRowContext(ctx,
		"SELECT location, numeric_price FROM products WHERE product_id = ?", id).Scan(&loc, &price))
	assert.Equal(t, "Pune, Maharashtra", loc)
	assert.Equal(t, 25000.0, price)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "", nil)
	assert.Error(t, err)
}

func TestUpsertSQLPlaceholders(t *testing.T) {
	q := upsertSQL(func(i int) string { return "$" + string(rune('0'+i%10)) })
	assert.True(t, strings.HasPrefix(q, "INSERT INTO products (product_id, title,"))
	assert.Contains(t, q, "ON CONFLICT (product_id) DO UPDATE SET title = excluded.title")
	assert.Equal(t, len(productColumns)+1, len(rowArgs(models.ProductRecord{Title: "x"}, time.Time{})))
}
