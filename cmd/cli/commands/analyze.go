package commands

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"b2b-market-scraper/internal/analysis"
	"b2b-market-scraper/internal/ioformats"
)

var (
	analyzeIn  string
	analyzeOut string
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeIn, "in", "", "Cleaned record file.")
	analyzeCmd.Flags().StringVar(&analyzeOut, "out", "", "Insights file (default: data.output_dir/eda_report_<time>.json).")
	_ = analyzeCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze --in FILE [--out FILE]",
	Short: "Computes category, pricing, supplier, location and text insights.",
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl, err := ioformats.ReadRecords(analyzeIn)
		if err != nil {
			return err
		}
		return writeInsights(analysis.Analyze(tbl), analyzeOut)
	},
}

func writeInsights(in analysis.Insights, out string) error {
	if out == "" {
		out = filepath.Join(current.Config.Data.OutputDir, "eda_report_"+stamp()+".json")
	}
	if err := ioformats.WriteReport(out, in); err != nil {
		return err
	}
	current.Log.Infof("insights saved to %s", out)
	renderInsights(in)
	return nil
}
