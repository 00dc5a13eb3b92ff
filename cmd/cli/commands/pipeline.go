package commands

import (
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"b2b-market-scraper/internal/analysis"
	"b2b-market-scraper/internal/ioformats"
)

var (
	pipelineCategories   []string
	pipelineMaxProducts  int
	pipelineSkipScraping bool
	pipelineSimilarity   bool
	pipelineAnalyze      bool
)

func init() {
	f := pipelineCmd.Flags()
	f.StringSliceVar(&pipelineCategories, "categories", nil, "Categories to scrape (default: every catalog category).")
	f.IntVar(&pipelineMaxProducts, "max-products", 0, "Maximum products per category (default: scrape.max_products).")
	f.BoolVar(&pipelineSkipScraping, "skip-scraping", false, "Process the raw files already in data.raw_dir.")
	f.BoolVar(&pipelineSimilarity, "similarity", true, "Flag near-duplicate listings after cleaning.")
	f.BoolVar(&pipelineAnalyze, "analyze", true, "Write the insights report.")
	rootCmd.AddCommand(pipelineCmd)
}

// rawFiles lists the record files in dir.
func rawFiles(dir string) ([]string, error) {
	var out []string
	for _, pattern := range []string{"*.json", "*.csv", "*.ndjson", "*.jsonl"} {
		m, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		out = append(out, m...)
	}
	return out, nil
}

var pipelineCmd = &cobra.Command{
	Use:   "pipeline [--categories a,b] [--max-products N] [--skip-scraping]",
	Short: "Scrapes, cleans, stores and analyzes in one run.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := current.Config

		var files []string
		var err error
		if pipelineSkipScraping {
			files, err = rawFiles(cfg.Data.RawDir)
		} else {
			files, err = scrapeCategories(ctx, pipelineCategories, pipelineMaxProducts, cfg.Data.RawDir)
		}
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return errors.New("no raw data files to process")
		}

		tbl, rep, err := cleanFiles(files, pipelineSimilarity, 0)
		if err != nil {
			return err
		}
		ts := stamp()
		out := filepath.Join(cfg.Data.ProcessedDir, "cleaned_b2b_data_"+ts+".csv")
		if err := ioformats.WriteRecords(out, tbl); err != nil {
			return err
		}
		if err := ioformats.WriteRecords(filepath.Join(cfg.Data.ProcessedDir, "cleaned_b2b_data_"+ts+".json"), tbl); err != nil {
			return err
		}
		if err := ioformats.WriteReport(filepath.Join(cfg.Data.OutputDir, "data_quality_report_"+ts+".json"), rep); err != nil {
			return err
		}
		if err := store(ctx, tbl.Rows); err != nil {
			return err
		}
		current.Log.Infof("final cleaned dataset: %d records at %s", tbl.Len(), out)
		renderQuality(rep)

		if !pipelineAnalyze {
			return nil
		}
		return writeInsights(analysis.Analyze(tbl), "")
	},
}
