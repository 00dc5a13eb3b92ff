package commands

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"b2b-market-scraper/internal/ioformats"
)

var (
	cleanIn         []string
	cleanOut        string
	cleanReport     string
	cleanSimilarity bool
)

func init() {
	cleanCmd.Flags().StringSliceVar(&cleanIn, "in", nil, "Raw record files (.json, .csv, .ndjson).")
	cleanCmd.Flags().StringVar(&cleanOut, "out", "", "Cleaned output file (default: data.processed_dir/cleaned_b2b_data_<time>.csv).")
	cleanCmd.Flags().StringVar(&cleanReport, "report", "", "Quality report file (default: data.output_dir/data_quality_report_<time>.json).")
	cleanCmd.Flags().BoolVar(&cleanSimilarity, "similarity", false, "Also flag near-duplicate listings.")
	_ = cleanCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(cleanCmd)
}

var cleanCmd = &cobra.Command{
	Use:   "clean --in FILE... [--out FILE] [--report FILE] [--similarity]",
	Short: "Cleans raw record files into one dataset and writes a quality report.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ts := stamp()
		out, report := cleanOut, cleanReport
		if out == "" {
			out = filepath.Join(current.Config.Data.ProcessedDir, "cleaned_b2b_data_"+ts+".csv")
		}
		if report == "" {
			report = filepath.Join(current.Config.Data.OutputDir, "data_quality_report_"+ts+".json")
		}

		tbl, rep, err := cleanFiles(cleanIn, cleanSimilarity, 0)
		if err != nil {
			return err
		}
		if err := ioformats.WriteRecords(out, tbl); err != nil {
			return err
		}
		if err := ioformats.WriteReport(report, rep); err != nil {
			return err
		}
		current.Log.Infof("cleaned dataset saved to %s, report to %s", out, report)
		renderQuality(rep)
		return nil
	},
}
