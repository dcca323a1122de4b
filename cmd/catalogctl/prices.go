package main

import (
	"context"
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/EliJ91/albion-market-history/internal/catalog"
	"github.com/EliJ91/albion-market-history/internal/infrastructure/albion"
	"github.com/EliJ91/albion-market-history/internal/usecase"
)

func newPricesCmd(opts *rootOptions) *cobra.Command {
	var (
		region  string
		baseURL string
		cities  []string
		quality int
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "prices <item-id>",
		Short: "Fetch current market prices for a catalog item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := opts.load()
			if err != nil {
				return err
			}

			if baseURL == "" {
				u, ok := albion.BaseURLForRegion(region)
				if !ok {
					return fmt.Errorf("unknown region %q", region)
				}
				baseURL = u
			}

			client := albion.NewClient(albion.ClientConfig{BaseURL: baseURL, Timeout: timeout}, zap.NewNop())
			svc := usecase.NewMarketService(client, catalog.NewStore(c), zap.NewNop())

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			report, err := svc.Prices(ctx, &usecase.MarketRequest{ItemID: args[0], Locations: cities, Quality: quality})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %s\n", report.ItemID, report.Name)

			names := make([]string, 0, len(report.Cities))
			for city := range report.Cities {
				names = append(names, city)
			}
			sort.Strings(names)

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CITY\tQUALITY\tSELL MIN\tBUY MAX\tUPDATED")
			for _, city := range names {
				for _, e := range report.Cities[city] {
					fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
						city, albion.Qualities[e.Quality], e.SellPriceMin, e.BuyPriceMax,
						e.SellPriceMinDate.Format(time.DateTime))
				}
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&region, "region", "americas", "market region: americas, asia or europe")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "override the market API endpoint")
	cmd.Flags().StringSliceVar(&cities, "city", nil, "limit to these cities")
	cmd.Flags().IntVar(&quality, "quality", 0, "show only this quality, 1-5")
	cmd.Flags().DurationVar(&timeout, "timeout", 15*time.Second, "request timeout")
	return cmd
}
