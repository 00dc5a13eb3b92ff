package ioformats

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"b2b-market-scraper/internal/models"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVKeepsColumnPresence(t *testing.T) {
	tbl := &models.Table{
		Columns: []string{models.ColTitle, models.ColSupplierName, models.ColNumericPrice, models.ColPriceOutlier},
		Rows: []models.ProductRecord{
			{Title: "Gear Box", SupplierName: "Rexnord", NumericPrice: models.Float(1250.5), PriceOutlier: true},
			{Title: "Chain, Roller", NumericPrice: nil},
		},
	}
	path := filepath.Join(t.TempDir(), "out", "clean.csv")
	require.NoError(t, WriteRecords(path, tbl))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "title,supplierName,numericPrice,priceOutlier\nGear Box,Rexnord,1250.5,true\n\"Chain, Roller\",,,false\n", string(raw))

	got, err := ReadRecords(path)
	require.NoError(t, err)
	assert.Equal(t, tbl.Columns, got.Columns)
	assert.False(t, got.Has(models.ColLocation))
	require.Len(t, got.Rows, 2)
	assert.Equal(t, 1250.5, *got.Rows[0].NumericPrice)
	assert.True(t, got.Rows[0].PriceOutlier)
	assert.Nil(t, got.Rows[1].NumericPrice)
	assert.Equal(t, "Chain, Roller", got.Rows[1].Title)
}

func TestReadJSONCoercesPrices(t *testing.T) {
	path := writeFile(t, "raw.json", `[
		{"title": "A", "numericPrice": 100, "location": "Pune", "unknownField": 3},
		{"title": "B", "numericPrice": "250.5"},
		{"title": "C", "numericPrice": "n/a"},
		{"title": "D", "numericPrice": "NaN"},
		{"title": "E", "numericPrice": null}
	]`)
	got, err := ReadRecords(path)
	require.NoError(t, err)
	assert.Equal(t, []string{models.ColTitle, models.ColLocation, models.ColNumericPrice}, got.Columns)
	require.Len(t, got.Rows, 5)
	assert.Equal(t, 100.0, *got.Rows[0].NumericPrice)
	assert.Equal(t, 250.5, *got.Rows[1].NumericPrice)
	assert.Nil(t, got.Rows[2].NumericPrice)
	assert.Nil(t, got.Rows[3].NumericPrice)
	assert.Nil(t, got.Rows[4].NumericPrice)
}

func TestNDJSON(t *testing.T) {
	tbl := &models.Table{
		Columns: []string{models.ColTitle, models.ColNumericPrice},
		Rows:    []models.ProductRecord{{Title: "Pump", NumericPrice: models.Float(10)}, {Title: "Valve"}},
	}
	var buf bytes.Buffer
	require.NoError(t, EncodeNDJSON(&buf, tbl))
	assert.Equal(t, "{\"title\":\"Pump\",\"numericPrice\":10}\n{\"title\":\"Valve\",\"numericPrice\":null}\n", buf.String())

	path := writeFile(t, "rows.jsonl", buf.String()+"\n")
	got, err := ReadRecords(path)
	require.NoError(t, err)
	assert.Equal(t, tbl.Rows, got.Rows)
}

func TestUnsupportedFormat(t *testing.T) {
	path := writeFile(t, "data.xlsx", "")
	_, err := ReadRecords(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.ErrorIs(t, WriteRecords(filepath.Join(t.TempDir(), "x.parquet"), models.NewTable(nil)), ErrUnsupportedFormat)
}

func TestReadAllUnionsColumns(t *testing.T) {
	a := writeFile(t, "a.json", `[{"title": "A", "category": "textiles"}]`)
	b := writeFile(t, "b.csv", "title,location\nB,Surat\n")
	got, err := ReadAll(a, b)
	require.NoError(t, err)
	assert.Equal(t, []string{models.ColTitle, models.ColLocation, models.ColCategory}, got.Columns)
	assert.Equal(t, 2, got.Len())
}

func TestReadURLs(t *testing.T) {
	csvPath := writeFile(t, "seeds.csv", "name,URL\nx, https://a.example/ \ny,\n")
	urls, err := ReadURLs(csvPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example/"}, urls)

	nd := writeFile(t, "seeds.ndjson", "{\"url\":\"https://b.example/\"}\n\nhttps://c.example/\n")
	urls, err = ReadURLs(nd)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://b.example/", "https://c.example/"}, urls)

	_, err = ReadURLs(writeFile(t, "bad.csv", "name\nx\n"))
	assert.Error(t, err)
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "quality.json")
	require.NoError(t, WriteReport(path, models.QualityReport{TotalRecords: 2, MissingValues: map[string]int{"title": 0}}))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"totalRecords": 2`)
}
