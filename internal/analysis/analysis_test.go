package analysis

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"b2b-market-scraper/internal/models"
)

func row(title, supplier, category, state string, price *float64) models.ProductRecord {
	return models.ProductRecord{
		Title: title, SupplierName: supplier, Category: category,
		Location: state, ExtractedState: state, NumericPrice: price,
	}
}

func sample() *models.Table {
	tbl := models.NewTable([]models.ProductRecord{
		row("CNC Lathe Machine", "Acme", "industrial_machinery", "Maharashtra", models.Float(50)),
		row("Hydraulic Press Machine", "Acme", "industrial_machinery", "Gujarat", models.Float(250)),
		row("LED Panel Light", "Brite", "electronics", "Maharashtra", models.Float(750)),
		row("Cotton Fabric", "Weave", "textiles", "", models.Float(50000)),
		row("Silk Fabric", "Weave", "textiles", "", nil),
	})
	tbl.AddColumn(models.ColExtractedState)
	return tbl
}

func TestTopWords(t *testing.T) {
	got := TopWords([]string{"go go network network network parsing parsing", "the and an"}, 3)
	want := []Count{{"network", 3}, {"parsing", 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("TopWords mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzeSections(t *testing.T) {
	in := Analyze(sample())

	require.NotNil(t, in.Categories)
	assert.Equal(t, 3, in.Categories.TotalCategories)
	assert.Equal(t, Count{"industrial_machinery", 2}, in.Categories.Distribution[0])
	assert.Equal(t, 40.0, in.Categories.Percentages["textiles"])

	require.NotNil(t, in.Pricing)
	assert.Equal(t, 4, in.Pricing.ProductsWithPrice)
	assert.Equal(t, 500.0, *in.Pricing.Statistics.Median)
	bands := map[string]int{}
	for _, b := range in.Pricing.Bands {
		bands[b.Key] = b.Count
	}
	assert.Equal(t, map[string]int{
		"<₹100": 1, "₹100-500": 1, "₹500-1K": 1, "₹1K-5K": 0,
		"₹5K-10K": 0, "₹10K-50K": 0, ">₹50K": 1,
	}, bands)
	require.Len(t, in.Pricing.ByCategory, 3)
	assert.Equal(t, GroupPrice{Key: "textiles", Count: 1, Mean: models.Float(50000), Median: models.Float(50000)}, in.Pricing.ByCategory[2])

	require.NotNil(t, in.Suppliers)
	assert.Equal(t, 3, in.Suppliers.TotalSuppliers)
	assert.Equal(t, 1.67, in.Suppliers.AvgProductsPerSupplier)
	assert.Equal(t, 1, in.Suppliers.SingleProductSuppliers)
	assert.Equal(t, 2, in.Suppliers.MultiProductSuppliers)
	assert.Equal(t, 100.0, in.Suppliers.Top10SupplierSharePct)

	require.NotNil(t, in.Locations)
	assert.Equal(t, 2, in.Locations.TotalStates)
	assert.Equal(t, 66.67, in.Locations.StatePercentages["Maharashtra"])

	require.NotNil(t, in.Text)
	assert.Equal(t, Count{"machine", 2}, in.Text.CommonTitleWords[1])
	assert.Equal(t, Count{"fabric", 2}, in.Text.CommonTitleWords[0])
	assert.Equal(t, 0, in.Text.ProductsWithDescription)
	assert.Nil(t, in.Text.AvgDescriptionLength)

	assert.Equal(t, 1, in.Quality.OutlierPrices)
	assert.Equal(t, 0, in.Quality.DuplicateRows)
}

func TestAnalyzeWithoutOptionalColumns(t *testing.T) {
	tbl := &models.Table{
		Columns: []string{models.ColTitle},
		Rows:    []models.ProductRecord{{Title: "Gear Box"}},
	}
	in := Analyze(tbl)
	assert.Nil(t, in.Categories)
	assert.Nil(t, in.Pricing)
	assert.Nil(t, in.Suppliers)
	assert.Nil(t, in.Locations)
	require.NotNil(t, in.Text)
	assert.Nil(t, in.Quality.OutlierPct)

	_, err := json.Marshal(in)
	require.NoError(t, err)
}

func TestSinglePriceSerializesWithoutNaN(t *testing.T) {
	tbl := models.NewTable([]models.ProductRecord{{Title: "Pump", NumericPrice: models.Float(10)}})
	b, err := json.Marshal(Analyze(tbl))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"std":null`)
	assert.NotContains(t, string(b), "NaN")
}
