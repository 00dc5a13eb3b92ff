package commands

import (
	"github.com/spf13/cobra"
)

var (
	scrapeCategoriesFlag []string
	scrapeMaxProducts    int
	scrapeOut            string
)

func init() {
	scrapeCmd.Flags().StringSliceVar(&scrapeCategoriesFlag, "categories", nil, "Categories to scrape (default: every catalog category).")
	scrapeCmd.Flags().IntVar(&scrapeMaxProducts, "max-products", 0, "Maximum products per category (default: scrape.max_products).")
	scrapeCmd.Flags().StringVar(&scrapeOut, "out", "", "Directory for raw files (default: data.raw_dir).")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--categories a,b] [--max-products N] [--out DIR]",
	Short: "Scrapes listings for each category and writes one raw JSON file per category.",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := scrapeOut
		if out == "" {
			out = current.Config.Data.RawDir
		}
		_, err := scrapeCategories(cmd.Context(), scrapeCategoriesFlag, scrapeMaxProducts, out)
		return err
	},
}
