
package models

import (
	"math"
	"slices"
)

// Column names double as JSON keys and CSV headers.
const (
	ColTitle          = "title"
	ColSupplierName   = "supplierName"
	ColLocation       = "location"
	ColDescription    = "description"
	ColRawPrice       = "rawPrice"
	ColNumericPrice   = "numericPrice"
	ColCurrency       = "currency"
	ColPriceUnit      = "priceUnit"
	ColImageURL       = "imageUrl"
	ColProductURL     = "productUrl"
	ColSourceURL      = "sourceUrl"
	ColCategory       = "category"
	ColMarketplace    = "marketplace"
	ColPriceOutlier   = "priceOutlier"
	ColExtractedState = "extractedState"
	ColIsDuplicate    = "isDuplicate"
)

// RecordColumns is the column set produced by extraction, in output order.
var RecordColumns = []string{
	ColTitle, ColSupplierName, ColLocation, ColDescription,
	ColRawPrice, ColNumericPrice, ColCurrency, ColPriceUnit,
	ColImageURL, ColProductURL, ColSourceURL, ColCategory, ColMarketplace,
}

type ExtractedPrice struct {
	RawText      string   `json:"rawText"`
	NumericValue *float64 `json:"numericValue"`
	MinValue     *float64 `json:"minValue,omitempty"`
	MaxValue     *float64 `json:"maxValue,omitempty"`
	IsRange      bool     `json:"isRange"`
	Currency     string   `json:"currency"`
	Unit         string   `json:"unit,omitempty"`
}

type ExtractedLocation struct {
	RawText    string `json:"rawText"`
	City       string `json:"city"`
	State      string `json:"state"`
	Normalized string `json:"normalized"`
}

// ProductRecord is one listing. Empty strings mean "absent".
type ProductRecord struct {
	Title        string   `json:"title"`
	SupplierName string   `json:"supplierName,omitempty"`
	Location     string   `json:"location,omitempty"`
	Description  string   `json:"description,omitempty"`
	RawPrice     string   `json:"rawPrice"`
	NumericPrice *float64 `json:"numericPrice"`
	Currency     string   `json:"currency"`
	PriceUnit    string   `json:"priceUnit,omitempty"`
	ImageURL     string   `json:"imageUrl,omitempty"`
	ProductURL   string   `json:"productUrl,omitempty"`
	SourceURL    string   `json:"sourceUrl,omitempty"`
	Category     string   `json:"category"`
	Marketplace  string   `json:"marketplace"`

	// set by cleaning
	PriceOutlier   bool   `json:"priceOutlier,omitempty"`
	ExtractedState string `json:"extractedState,omitempty"`
	IsDuplicate    bool   `json:"isDuplicate,omitempty"`
}

// Table is a batch of records plus the set of columns the batch actually
// carries. Stages that need a missing column skip themselves.
type Table struct {
	Columns []string
	Rows    []ProductRecord
}

func NewTable(rows []ProductRecord) *Table {
	return &Table{Columns: slices.Clone(RecordColumns), Rows: rows}
}

func (t *Table) Has(col string) bool {
	return slices.Contains(t.Columns, col)
}

func (t *Table) AddColumn(col string) {
	if !t.Has(col) {
		t.Columns = append(t.Columns, col)
	}
}

func (t *Table) Len() int { return len(t.Rows) }

// Missing reports whether r has no value for col. Flag columns are never
// missing.
func (r *ProductRecord) Missing(col string) bool {
	switch col {
	case ColTitle:
		return r.Title == ""
	case ColSupplierName:
		return r.SupplierName == ""
	case ColLocation:
		return r.Location == ""
	case ColDescription:
		return r.Description == ""
	case ColRawPrice:
		return r.RawPrice == ""
	case ColNumericPrice:
		return r.NumericPrice == nil
	case ColCurrency:
		return r.Currency == ""
	case ColPriceUnit:
		return r.PriceUnit == ""
	case ColImageURL:
		return r.ImageURL == ""
	case ColProductURL:
		return r.ProductURL == ""
	case ColSourceURL:
		return r.SourceURL == ""
	case ColCategory:
		return r.Category == ""
	case ColMarketplace:
		return r.Marketplace == ""
	case ColExtractedState:
		return r.ExtractedState == ""
	}
	return false
}

// Stats summarises a numeric column. Nil fields are values that were not
// finite (e.g. std of a single sample).
type Stats struct {
	Count  int      `json:"count"`
	Mean   *float64 `json:"mean"`
	Median *float64 `json:"median"`
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
	Std    *float64 `json:"std"`
}

type QualityReport struct {
	TotalRecords         int            `json:"totalRecords"`
	Columns              []string       `json:"columns"`
	MissingValues        map[string]int `json:"missingValues"`
	ProductsWithTitle    *int           `json:"productsWithTitle,omitempty"`
	TitleLength          *Stats         `json:"titleLengthStatistics,omitempty"`
	PriceStatistics      *Stats         `json:"priceStatistics,omitempty"`
	PriceOutliers        *int           `json:"priceOutliers,omitempty"`
	UniqueSuppliers      *int           `json:"uniqueSuppliers,omitempty"`
	UniqueLocations      *int           `json:"uniqueLocations,omitempty"`
	StatesDetected       *int           `json:"statesDetected,omitempty"`
	CategoryDistribution map[string]int `json:"categoryDistribution,omitempty"`
	DuplicatesRemoved    int            `json:"duplicatesRemoved"`
}

type ValidationSummary struct {
	TitlesEmpty     int `json:"titlesEmpty"`
	PricesInvalid   int `json:"pricesInvalid"`
	UniqueSuppliers int `json:"uniqueSuppliers"`
}

type Validation struct {
	Valid        bool              `json:"valid"`
	TotalRecords int               `json:"totalRecords"`
	Errors       []string          `json:"errors"`
	Warnings     []string          `json:"warnings"`
	QualityScore int               `json:"qualityScore"`
	Summary      ValidationSummary `json:"summary"`
}

// Finite returns a pointer to v, or nil when v is NaN or infinite.
func Finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func Float(v float64) *float64 { return &v }

func Int(v int) *int { return &v }
