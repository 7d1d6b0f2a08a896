package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"bookscout/internal/core"
)

var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Search the catalog and print matches",
	Long: `Search the catalog once and print the matches as a table.
With no term, lists the whole catalog.

Example:
  bookscout search dune
  bookscout search --config ./bookscout.yaml sci-fi`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	source, watch, err := buildCatalogSource(cfg)
	if err != nil {
		return err
	}
	if watch != nil {
		defer watch.Close()
	}

	term := ""
	if len(args) > 0 {
		term = args[0]
	}

	recs, err := source.Search(cmd.Context(), term)
	if err != nil {
		return fmt.Errorf("searching catalog: %w", err)
	}

	books := core.MapRecords(recs, nil)
	if len(books) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No books found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPRICE\tLANGUAGE\tGENRE")
	for _, b := range books {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.Name, b.PriceFormatted, b.Language, b.Genre)
	}
	return w.Flush()
}
