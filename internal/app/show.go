package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"goldrates/internal/pricing"
	"goldrates/internal/service"
)

// Show prints today's rate cards and the history extremes for a region.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	rt, err := a.build(ctx, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	ov := rt.prices.GetOverview(ctx, opts.Region)
	return writeOverview(os.Stdout, ov)
}

// Ticker prints the aggregated market ticker once.
func (a *App) Ticker(ctx context.Context) error {
	rt, err := a.build(ctx, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	return writeTicker(os.Stdout, rt.prices.GetMarketTicker(ctx))
}

func writeOverview(out io.Writer, ov service.Overview) error {
	if ov.Today == nil {
		fmt.Fprintf(out, "no quote available for %s\n", ov.Region)
		return nil
	}
	q := ov.Today

	fmt.Fprintf(out, "%s gold rates for %s\n\n", strings.ToUpper(q.City), q.Date)

	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Purity\tPer gram\tPavan (8g)\tChange\tChange%\tDirection")
	for _, card := range ov.RateCards {
		pq, _ := q.Purity(card.Purity)
		pq = pricing.PerGramQuote(pq)
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s\n",
			card.Purity,
			formatPrice(q.Currency, card.PerGram),
			formatPrice(q.Currency, card.Pavan),
			pq.SignedChange().StringFixed(2),
			pq.PercentChange().StringFixed(2),
			pq.Direction,
		)
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	if len(ov.History) > 0 {
		fmt.Fprintf(out, "\n%d-day range (22K per %s): high %s, low %s\n",
			len(ov.History), ov.Unit,
			formatPrice(q.Currency, ov.Stats.Max),
			formatPrice(q.Currency, ov.Stats.Min))
	}
	return nil
}

func writeTicker(out io.Writer, quotes []pricing.PriceQuote) error {
	if len(quotes) == 0 {
		fmt.Fprintln(out, "no market data available")
		return nil
	}

	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Section\tSymbol\tPrice\tChange\tChange%\tDirection")
	for _, q := range quotes {
		fmt.Fprintf(writer, "%s\t%s\t%.2f\t%.2f\t%.2f\t%s\n",
			q.Category, q.Symbol, q.Price, q.Change, q.PercentChange, q.Direction)
	}
	return writer.Flush()
}

func formatPrice(currency string, d decimal.Decimal) string {
	return currency + d.StringFixed(2)
}
