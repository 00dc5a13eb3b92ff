package commands

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"b2b-market-scraper/internal/analysis"
	"b2b-market-scraper/internal/models"
	"b2b-market-scraper/internal/scrape"
)

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func num(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *p)
}

func optInt(p *int) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprint(*p)
}

func renderRuns(runs []*scrape.Run, validations []models.Validation) {
	t := newTable()
	t.AppendHeader(table.Row{"Category", "Pages ok", "Pages failed", "Skipped", "Products", "Quality"})
	for i, r := range runs {
		t.AppendRow(table.Row{r.Category, r.PagesFetched, r.PagesFailed, r.PagesSkipped, len(r.Records), validations[i].QualityScore})
	}
	t.Render()
}

func renderQuality(rep models.QualityReport) {
	t := newTable()
	t.SetTitle("Data quality")
	t.AppendRows([]table.Row{
		{"Total records", rep.TotalRecords},
		{"Duplicates removed", rep.DuplicatesRemoved},
		{"Products with title", optInt(rep.ProductsWithTitle)},
		{"Unique suppliers", optInt(rep.UniqueSuppliers)},
		{"Unique locations", optInt(rep.UniqueLocations)},
		{"States detected", optInt(rep.StatesDetected)},
		{"Price outliers", optInt(rep.PriceOutliers)},
	})
	if s := rep.PriceStatistics; s != nil {
		t.AppendRows([]table.Row{
			{"Priced products", s.Count},
			{"Price mean", num(s.Mean)},
			{"Price median", num(s.Median)},
			{"Price min / max", num(s.Min) + " / " + num(s.Max)},
		})
	}
	t.Render()

	if len(rep.CategoryDistribution) > 0 {
		c := newTable()
		c.AppendHeader(table.Row{"Category", "Products"})
		for _, name := range sortedKeys(rep.CategoryDistribution) {
			c.AppendRow(table.Row{name, rep.CategoryDistribution[name]})
		}
		c.Render()
	}
}

func renderInsights(in analysis.Insights) {
	if in.Pricing != nil {
		t := newTable()
		t.SetTitle("Price bands")
		t.AppendHeader(table.Row{"Band", "Products"})
		for _, b := range in.Pricing.Bands {
			t.AppendRow(table.Row{b.Key, b.Count})
		}
		t.AppendFooter(table.Row{"Median", num(in.Pricing.Statistics.Median)})
		t.Render()
	}
	if in.Suppliers != nil && len(in.Suppliers.TopSuppliers) > 0 {
		t := newTable()
		t.SetTitle("Top suppliers")
		t.AppendHeader(table.Row{"Supplier", "Products"})
		for _, s := range in.Suppliers.TopSuppliers {
			t.AppendRow(table.Row{s.Key, s.Count})
		}
		t.Render()
	}
	if in.Locations != nil && len(in.Locations.States) > 0 {
		t := newTable()
		t.SetTitle("States")
		t.AppendHeader(table.Row{"State", "Products", "%"})
		for _, s := range in.Locations.States {
			t.AppendRow(table.Row{s.Key, s.Count, in.Locations.StatePercentages[s.Key]})
		}
		t.Render()
	}
}
