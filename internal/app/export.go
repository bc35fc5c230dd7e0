package app

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"goldrates/internal/pricing"
)

const historyDateLayout = "2006-01-02"

// Export renders the history window as CSV and/or PNG.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

	rt, err := a.build(ctx, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	region := rt.prices.Region(opts.Region)
	points := rt.prices.GetHistory(ctx, region)
	if len(points) == 0 {
		a.Logger.Info().Str("region", region).Msg("no history found for export")
		return nil
	}
	a.Logger.Info().Str("region", region).Int("points", len(points)).Msg("exporting history")

	if opts.CSVPath != "" {
		if err := writeHistoryCSV(opts.CSVPath, points); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		if err := writeHistoryPNG(opts.PNGPath, region, a.Config.History.Unit, points); err != nil {
			return err
		}
	}

	return nil
}

func writeHistoryCSV(path string, points []pricing.DatedPricePoint) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"date", "price"}); err != nil {
		return err
	}
	for _, p := range points {
		if err := writer.Write([]string{p.Date, p.Price.StringFixed(2)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeHistoryPNG(path, region, unit string, points []pricing.DatedPricePoint) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	x := make([]time.Time, 0, len(points))
	y := make([]float64, 0, len(points))
	for _, p := range points {
		day, err := time.Parse(historyDateLayout, p.Date)
		if err != nil {
			continue
		}
		x = append(x, day)
		y = append(y, p.Price.InexactFloat64())
	}
	if len(x) < 2 {
		return errors.New("need at least two dated points to draw a chart")
	}

	priceFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.0f")
	}
	graph := chart.Chart{
		Title:  "22K gold - " + region,
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Price per " + unit,
			ValueFormatter: priceFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "22K",
				XValues: x,
				YValues: y,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
