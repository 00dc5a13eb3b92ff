package commands

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"b2b-market-scraper/internal/dedup"
	"b2b-market-scraper/internal/ioformats"
)

var (
	dedupIn        string
	dedupOut       string
	dedupThreshold float64
)

func init() {
	dedupCmd.Flags().StringVar(&dedupIn, "in", "", "Cleaned record file.")
	dedupCmd.Flags().StringVar(&dedupOut, "out", "", "Output file (default: <in>_dedup.<ext>).")
	dedupCmd.Flags().Float64Var(&dedupThreshold, "threshold", 0, "Similarity threshold (default: clean.similarity_threshold).")
	_ = dedupCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(dedupCmd)
}

var dedupCmd = &cobra.Command{
	Use:   "dedup --in FILE [--out FILE] [--threshold T]",
	Short: "Flags near-duplicate listings from the same supplier.",
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl, err := ioformats.ReadRecords(dedupIn)
		if err != nil {
			return err
		}
		opts, err := current.DedupOptions(dedupThreshold)
		if err != nil {
			return err
		}
		n := dedup.Flag(tbl, opts)

		out := dedupOut
		if out == "" {
			ext := filepath.Ext(dedupIn)
			out = strings.TrimSuffix(dedupIn, ext) + "_dedup" + ext
		}
		if err := ioformats.WriteRecords(out, tbl); err != nil {
			return err
		}
		current.Log.Infof("flagged %d of %d listings, saved to %s", n, tbl.Len(), out)
		return nil
	},
}
