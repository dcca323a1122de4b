package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/EliJ91/albion-market-history/internal/catalog"
	"github.com/EliJ91/albion-market-history/internal/domain"
	"github.com/EliJ91/albion-market-history/internal/usecase"
)

type rootOptions struct {
	file   string
	format string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "catalogctl",
		Short:        "Inspect the Albion item catalog and try searches against it",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.file, "file", "f", "data/itemDatabase.json", "catalog file")
	cmd.PersistentFlags().StringVar(&opts.format, "format", catalog.FormatJSON, "catalog format: json or text")

	cmd.AddCommand(
		newParseCmd(opts),
		newSearchCmd(opts),
		newFeaturedCmd(opts),
		newCategoriesCmd(opts),
		newPricesCmd(opts),
	)
	return cmd
}

func (o *rootOptions) load() (*catalog.Catalog, catalog.ParseStats, error) {
	c, stats, err := catalog.LoadFile(o.file, strings.ToLower(o.format))
	if err != nil {
		return nil, stats, fmt.Errorf("cannot load %s: %w", o.file, err)
	}
	return c, stats, nil
}

func newParseCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "parse",
		Short: "Parse the catalog and report what was read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, stats, err := opts.load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "file:       %s (%s)\n", opts.file, opts.format)
			fmt.Fprintf(out, "items:      %d\n", c.Len())
			fmt.Fprintf(out, "parsed:     %d\n", stats.Parsed)
			fmt.Fprintf(out, "skipped:    %d\n", stats.Skipped)
			fmt.Fprintf(out, "failed:     %d\n", stats.Failed)
			fmt.Fprintf(out, "duplicates: %d\n", stats.Duplicates)

			if c.Len() > 0 {
				records := c.Records()
				fmt.Fprintf(out, "first:      %s  %s\n", records[0].Identifier, records[0].DisplayName)
				last := records[len(records)-1]
				fmt.Fprintf(out, "last:       %s  %s\n", last.Identifier, last.DisplayName)
			}
			return nil
		},
	}
}

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var (
		limit   int
		tier    string
		enchant string
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Rank catalog items against a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := opts.load()
			if err != nil {
				return err
			}

			request := domain.ItemSearchRequest{Query: strings.Join(args, " "), Tier: tier, Enchant: enchant}
			filter, err := request.Filter()
			if err != nil {
				return err
			}

			matches := usecase.Search(c, request.Query, limit, filter)
			printMatches(cmd.OutOrStdout(), request.Query, matches)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum results")
	cmd.Flags().StringVar(&tier, "tier", "", "keep only this tier, e.g. T4")
	cmd.Flags().StringVar(&enchant, "enchant", "", "keep only this enchantment level, 0-4")
	return cmd
}

func printMatches(out io.Writer, query string, matches []domain.ScoredMatch) {
	fmt.Fprintf(out, "%q: %d result(s)\n", query, len(matches))
	if len(matches) == 0 {
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSCORE\tMATCH\tITEM\tNAME")
	for i, m := range matches {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n", i+1, m.Score, m.Kind, m.Identifier, m.DisplayName)
	}
	_ = w.Flush()
}

func newFeaturedCmd(opts *rootOptions) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "featured",
		Short: "List commonly traded items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := opts.load()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for i, rec := range usecase.ClassifyFeatured(c, count) {
				fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, rec.Identifier, rec.DisplayName)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 20, "number of items")
	return cmd
}

func newCategoriesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Count catalog items per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := opts.load()
			if err != nil {
				return err
			}

			buckets := usecase.Categorize(c)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, cat := range usecase.Categories {
				fmt.Fprintf(w, "%s\t%d\n", cat, len(buckets[cat]))
			}
			return w.Flush()
		},
	}
}
