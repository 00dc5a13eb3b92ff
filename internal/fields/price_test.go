package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriceSingle(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want float64
		unit string
	}{
		{name: "rupee with thousands", in: "₹1,200", want: 1200},
		{name: "indian grouping", in: "₹1,00,000", want: 100000},
		{name: "decimal", in: "₹ 99.50", want: 99.5},
		{name: "slash unit", in: "₹500/Piece", want: 500, unit: "piece"},
		{name: "spaced slash unit", in: "₹ 450 / Box", want: 450, unit: "box"},
		{name: "rs prefix per kg", in: "Rs. 2,500 per Kg", want: 2500, unit: "kilogram"},
		{name: "other symbol", in: "$1,234.50", want: 1234.5},
		{name: "trailing unit word", in: "₹ 80 pcs", want: 80, unit: "piece"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParsePrice(tc.in)
			require.NotNil(t, got.NumericValue)
			assert.Equal(t, tc.want, *got.NumericValue)
			assert.False(t, got.IsRange)
			assert.Nil(t, got.MinValue)
			assert.Nil(t, got.MaxValue)
			assert.Equal(t, tc.unit, got.Unit)
			assert.Equal(t, DefaultCurrency, got.Currency)
			assert.Equal(t, tc.in, got.RawText)
		})
	}
}

func TestParsePriceRange(t *testing.T) {
	testCases := []struct {
		in       string
		min, max float64
		unit     string
	}{
		{in: "₹1,200 - ₹1,800 per kg", min: 1200, max: 1800, unit: "kilogram"},
		{in: "100 - 300", min: 100, max: 300},
		{in: "100 to 200 pcs", min: 100, max: 200, unit: "piece"},
		{in: "Rs 2.5 – 3.5 / Metre", min: 2.5, max: 3.5, unit: "meter"},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got := ParsePrice(tc.in)
			require.True(t, got.IsRange)
			require.NotNil(t, got.MinValue)
			require.NotNil(t, got.MaxValue)
			require.NotNil(t, got.NumericValue)
			assert.Equal(t, tc.min, *got.MinValue)
			assert.Equal(t, tc.max, *got.MaxValue)
			assert.Equal(t, (tc.min+tc.max)/2, *got.NumericValue)
			assert.Equal(t, tc.unit, got.Unit)
		})
	}
}

func TestParsePriceEmpty(t *testing.T) {
	for _, in := range []string{"", "   "} {
		got := ParsePrice(in)
		assert.Equal(t, "", got.RawText)
		assert.Nil(t, got.NumericValue)
		assert.Nil(t, got.MinValue)
		assert.Nil(t, got.MaxValue)
		assert.False(t, got.IsRange)
		assert.Equal(t, "", got.Unit)
		assert.Equal(t, DefaultCurrency, got.Currency)
	}
}

func TestParsePriceNoNumber(t *testing.T) {
	got := ParsePrice("Price on request")
	assert.Nil(t, got.NumericValue)
	assert.False(t, got.IsRange)
	assert.Equal(t, "request", got.Unit)
}

func TestParsePriceInCurrency(t *testing.T) {
	got := ParsePriceIn("USD 40 per set", "USD")
	require.NotNil(t, got.NumericValue)
	assert.Equal(t, 40.0, *got.NumericValue)
	assert.Equal(t, "USD", got.Currency)
	assert.Equal(t, "set", got.Unit)
}

func TestStandardizeUnit(t *testing.T) {
	cases := map[string]string{
		"PCS":    "piece",
		" Kg ":   "kilogram",
		"tonne":  "ton",
		"Litre":  "liter",
		"carton": "carton",
		"":       "",
	}
	for in, want := range cases {
		assert.Equal(t, want, StandardizeUnit(in), "input %q", in)
	}
}
