package commands

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"slices"

	"b2b-market-scraper/internal/dedup"
	"b2b-market-scraper/internal/fields"
	"b2b-market-scraper/internal/ioformats"
	"b2b-market-scraper/internal/models"
	"b2b-market-scraper/internal/scrape"
)

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

// scrapeCategories runs one scrape per category and writes each to
// outDir as raw JSON. Unknown categories and failed runs are logged and
// skipped.
func scrapeCategories(ctx context.Context, names []string, maxProducts int, outDir string) ([]string, error) {
	cat, err := current.Catalog()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		names = cat.Names()
	}
	runner := current.Runner(maxProducts)

	var files []string
	var runs []*scrape.Run
	var validations []models.Validation
	for _, name := range names {
		c, ok := cat[name]
		if !ok {
			current.Log.Warnf("unknown category: %s", name)
			continue
		}
		run, err := runner.Run(ctx, name, runner.Plan(c))
		if err != nil {
			return files, err
		}
		if len(run.Records) == 0 {
			current.Log.Warnf("no products scraped for %s", name)
			continue
		}
		v := fields.ValidateRecords(run.Records)
		for _, w := range v.Warnings {
			current.Log.Warnf("%s: %s", name, w)
		}

		path := filepath.Join(outDir, fmt.Sprintf("%s_%s_%s.json", current.Market.Name(), name, stamp()))
		if err := ioformats.WriteRecords(path, models.NewTable(run.Records)); err != nil {
			current.Log.Errorf("saving %s: %v", name, err)
			continue
		}
		current.Log.Infof("saved %d products to %s", len(run.Records), path)
		files = append(files, path)
		runs = append(runs, run)
		validations = append(validations, v)
	}
	if len(runs) > 0 {
		renderRuns(runs, validations)
	}
	return files, nil
}

// cleanFiles loads and concatenates files, cleans them and optionally flags
// near-duplicates.
func cleanFiles(files []string, similarity bool, threshold float64) (*models.Table, models.QualityReport, error) {
	tbl, err := ioformats.ReadAll(files...)
	if err != nil {
		return nil, models.QualityReport{}, err
	}
	current.Log.Infof("loaded %d records from %d files", tbl.Len(), len(files))

	tbl, rep, err := current.Cleaner().Clean(tbl)
	if err != nil {
		return nil, rep, err
	}
	if similarity {
		opts, err := current.DedupOptions(threshold)
		if err != nil {
			return nil, rep, err
		}
		dedup.Flag(tbl, opts)
	}
	return tbl, rep, nil
}

// store writes rows to the configured sink, if any.
func store(ctx context.Context, rows []models.ProductRecord) error {
	s, err := current.Store(ctx)
	if err != nil || s == nil {
		return err
	}
	defer s.Close()
	_, err = s.WriteBatch(ctx, rows)
	return err
}
