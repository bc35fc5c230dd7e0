package app

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"goldrates/internal/pricing"
	"goldrates/internal/service"
)

func samplePoints() []pricing.DatedPricePoint {
	return []pricing.DatedPricePoint{
		{Date: "2026-01-29", Price: decimal.NewFromInt(118400)},
		{Date: "2026-01-30", Price: decimal.NewFromInt(117760)},
		{Date: "2026-01-31", Price: decimal.NewFromInt(116000)},
	}
}

func TestWriteHistoryCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "history.csv")
	if err := writeHistoryCSV(path, samplePoints()); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 4 || records[0][0] != "date" || records[3][1] != "116000.00" {
		t.Fatalf("unexpected records %v", records)
	}
}

func TestWriteHistoryPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.png")
	if err := writeHistoryPNG(path, "kerala", "pavan", samplePoints()); err != nil {
		t.Fatalf("write png: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read png: %v", err)
	}
	if !bytes.HasPrefix(raw, []byte("\x89PNG")) {
		t.Fatal("output is not a PNG")
	}
}

func TestWriteHistoryPNGNeedsPoints(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.png")
	if err := writeHistoryPNG(path, "kerala", "pavan", samplePoints()[:1]); err == nil {
		t.Fatal("single point should be rejected")
	}
}

func TestWriteOverview(t *testing.T) {
	quote := syntheticQuote("kerala", "2026-01-31", decimal.NewFromInt(14500), decimal.NewFromInt(14720))
	ov := service.Overview{
		Region:    "kerala",
		Today:     &quote,
		RateCards: pricing.RateCards(quote),
		History:   samplePoints(),
		Stats:     pricing.ReduceStats(samplePoints(), decimal.NewFromInt(116000)),
		Unit:      service.UnitPavan,
	}

	var buf bytes.Buffer
	if err := writeOverview(&buf, ov); err != nil {
		t.Fatalf("write overview: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"KERALA gold rates for 2026-01-31", "₹14500.00", "₹116000.00", "-220.00", "-1.49", "high ₹118400.00, low ₹116000.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("overview missing %q:\n%s", want, out)
		}
	}
}

func TestWriteOverviewWithoutQuote(t *testing.T) {
	var buf bytes.Buffer
	if err := writeOverview(&buf, service.Overview{Region: "kerala"}); err != nil {
		t.Fatalf("write overview: %v", err)
	}
	if !strings.Contains(buf.String(), "no quote available for kerala") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestWriteTicker(t *testing.T) {
	var buf bytes.Buffer
	quotes := []pricing.PriceQuote{{Symbol: "SENSEX", Price: 81000.5, Change: -120.25, PercentChange: -0.15, Direction: pricing.DirectionDown, Category: pricing.CategoryIndex}}
	if err := writeTicker(&buf, quotes); err != nil {
		t.Fatalf("write ticker: %v", err)
	}
	if !strings.Contains(buf.String(), "SENSEX") || !strings.Contains(buf.String(), "81000.50") {
		t.Fatalf("unexpected ticker output:\n%s", buf.String())
	}
}

func TestSyntheticQuote(t *testing.T) {
	q := syntheticQuote("kerala", "2026-01-31", decimal.NewFromInt(14800), decimal.NewFromInt(14500))
	pq, ok := q.Purity(pricing.Purity22K)
	if !ok {
		t.Fatal("missing 22K")
	}
	if pq.Direction != pricing.DirectionUp || !pq.Change.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("unexpected synthetic quote %+v", pq)
	}
}
