package cleaner

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"b2b-market-scraper/internal/fields"
	"b2b-market-scraper/internal/models"
)

func record(title, supplier, location, price string) models.ProductRecord {
	p := fields.ParsePrice(price)
	return models.ProductRecord{
		Title:        title,
		SupplierName: supplier,
		Location:     location,
		RawPrice:     price,
		NumericPrice: p.NumericValue,
		Currency:     p.Currency,
		PriceUnit:    p.Unit,
		Category:     "industrial_machinery",
		Marketplace:  "IndiaMART",
	}
}

func TestCleanEndToEnd(t *testing.T) {
	tbl := models.NewTable([]models.ProductRecord{
		record("CNC Lathe Machine", "Acme Tools", "Mumbai, Maharashtra", "₹25,000"),
		record("CNC Lathe Machine", "Acme Tools", "Mumbai, Maharashtra", "₹25,000"),
		record("Hydraulic Press", "Bharat Engineering", "Pune, Maharashtra", "₹1,200 - ₹1,800 per kg"),
		record("Bench Drill", "Shakti Industries", "", "₹8,500 / piece"),
		record("Welding Set", "", "Chennai", "₹12,000"),
	})

	out, rep, err := New(DefaultOptions(), nil).Clean(tbl)
	require.NoError(t, err)
	require.Equal(t, 4, out.Len())
	assert.Equal(t, 1, rep.DuplicatesRemoved)
	assert.Equal(t, 4, rep.TotalRecords)

	press := out.Rows[1]
	assert.Equal(t, "Hydraulic Press", press.Title)
	require.NotNil(t, press.NumericPrice)
	assert.Equal(t, 1500.0, *press.NumericPrice)
	assert.Equal(t, "kilogram", press.PriceUnit)
	assert.Equal(t, "Maharashtra", press.ExtractedState)

	drill := out.Rows[2]
	assert.Equal(t, "", drill.Location)
	assert.Equal(t, "", drill.ExtractedState)

	assert.Equal(t, "Tamil Nadu", out.Rows[3].ExtractedState)
	assert.Equal(t, 1, rep.MissingValues[models.ColSupplierName])
	assert.Equal(t, 1, rep.MissingValues[models.ColLocation])
	require.NotNil(t, rep.UniqueSuppliers)
	assert.Equal(t, 3, *rep.UniqueSuppliers)
	require.NotNil(t, rep.PriceStatistics)
	assert.Equal(t, 4, rep.PriceStatistics.Count)
	assert.Equal(t, map[string]int{"industrial_machinery": 4}, rep.CategoryDistribution)
	assert.True(t, out.Has(models.ColPriceOutlier))
	assert.True(t, out.Has(models.ColExtractedState))
}

func TestCleanWithoutLocationColumn(t *testing.T) {
	tbl := &models.Table{
		Columns: []string{models.ColTitle, models.ColSupplierName, models.ColNumericPrice},
		Rows: []models.ProductRecord{
			{Title: "Air Compressor", SupplierName: "Elgi", NumericPrice: models.Float(15000)},
			{Title: "Air Dryer", SupplierName: "Elgi", NumericPrice: models.Float(9000)},
		},
	}
	out, rep, err := New(DefaultOptions(), nil).Clean(tbl)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Len())
	assert.False(t, out.Has(models.ColExtractedState))
	assert.Nil(t, rep.UniqueLocations)
	assert.Nil(t, rep.StatesDetected)
	assert.Nil(t, rep.CategoryDistribution)
	_, ok := rep.MissingValues[models.ColLocation]
	assert.False(t, ok)
}

func TestCleanEmpty(t *testing.T) {
	_, _, err := New(DefaultOptions(), nil).Clean(models.NewTable(nil))
	assert.ErrorIs(t, err, ErrEmptyDataset)
	_, _, err = New(DefaultOptions(), nil).Clean(nil)
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestNormalizeText(t *testing.T) {
	tbl := models.NewTable([]models.ProductRecord{
		{Title: "  Steel   Pipe\n", SupplierName: "nan", Location: "None", Description: "  "},
	})
	NormalizeText(tbl)
	r := tbl.Rows[0]
	assert.Equal(t, "Steel Pipe", r.Title)
	assert.Equal(t, "", r.SupplierName)
	assert.Equal(t, "", r.Location)
	assert.Equal(t, "", r.Description)
}

func TestRemoveDuplicatesIdempotent(t *testing.T) {
	tbl := models.NewTable([]models.ProductRecord{
		{Title: "Gear Box", SupplierName: "Rexnord", RawPrice: "first"},
		{Title: "GEAR BOX", SupplierName: "rexnord", RawPrice: "second"},
		{Title: "Gear Box", SupplierName: ""},
		{Title: "Gear Box", SupplierName: "Bonfiglioli"},
	})
	assert.Equal(t, 1, RemoveDuplicates(tbl))
	require.Equal(t, 3, tbl.Len())
	assert.Equal(t, "first", tbl.Rows[0].RawPrice)

	before := slices.Clone(tbl.Rows)
	assert.Equal(t, 0, RemoveDuplicates(tbl))
	assert.Equal(t, before, tbl.Rows)
}

func TestOutlierFlags(t *testing.T) {
	var rows []models.ProductRecord
	for i := 1; i <= 100; i++ {
		rows = append(rows, models.ProductRecord{Title: "item", NumericPrice: models.Float(float64(i))})
	}
	rows = append(rows, models.ProductRecord{Title: "no price"})
	rows = append(rows, models.ProductRecord{Title: "bad price", NumericPrice: models.Float(math.NaN())})
	tbl := models.NewTable(rows)

	StandardizePrices(tbl, DefaultOptions())

	var flagged []float64
	for _, r := range tbl.Rows {
		if r.PriceOutlier {
			flagged = append(flagged, *r.NumericPrice)
		}
	}
	// p1 = 1.99, p99 = 99.01
	assert.Equal(t, []float64{1, 100}, flagged)
	assert.Nil(t, tbl.Rows[101].NumericPrice)
	assert.False(t, tbl.Rows[100].PriceOutlier)
}

func TestStandardizeUnitsWithoutPriceColumn(t *testing.T) {
	tbl := &models.Table{
		Columns: []string{models.ColTitle, models.ColPriceUnit},
		Rows:    []models.ProductRecord{{Title: "Bolt", PriceUnit: "PCS"}, {Title: "Rope", PriceUnit: "coil"}},
	}
	StandardizePrices(tbl, DefaultOptions())
	assert.Equal(t, "piece", tbl.Rows[0].PriceUnit)
	assert.Equal(t, "coil", tbl.Rows[1].PriceUnit)
	assert.False(t, tbl.Has(models.ColPriceOutlier))
}
