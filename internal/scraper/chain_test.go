package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"goldrates/internal/config"
	"goldrates/internal/pricing"
)

type pageServer struct {
	mu    sync.Mutex
	hits  []string
	pages map[string]string
	agent string
}

func (p *pageServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	p.hits = append(p.hits, r.URL.Path)
	p.agent = r.Header.Get("User-Agent")
	p.mu.Unlock()

	body, ok := p.pages[r.URL.Path]
	if !ok {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	_, _ = w.Write([]byte(body))
}

func newChain(cands map[Kind][]Candidate) *Chain {
	return NewChain(cands, Options{UserAgent: "Mozilla/5.0 test", Timeout: time.Second}, zerolog.Nop())
}

func TestScrapeSinglePriceThirdCandidateWins(t *testing.T) {
	ps := &pageServer{pages: map[string]string{
		"/a/petrol/kochi": `<html><body>price unavailable</body></html>`,
		"/c/petrol/kochi": `<html><body><div class="rate"><span>₹ 107.56</span></div></body></html>`,
		"/d/petrol/kochi": `<html><body><div class="rate">₹ 999.00</div></body></html>`,
	}}
	srv := httptest.NewServer(ps)
	defer srv.Close()

	chain := newChain(map[Kind][]Candidate{
		KindPetrol: {
			{Name: "a", URLTemplate: srv.URL + "/a/{kind}/{city}", Extractor: RegexExtractor{Pattern: regexp.MustCompile(`₹\s*([0-9.]+)`)}},
			{Name: "b", URLTemplate: srv.URL + "/b/{kind}/{city}", Extractor: SelectorExtractor{Selector: ".rate"}},
			{Name: "c", URLTemplate: srv.URL + "/c/{kind}/{city}", Extractor: SelectorExtractor{Selector: ".rate span"}},
			{Name: "d", URLTemplate: srv.URL + "/d/{kind}/{city}", Extractor: SelectorExtractor{Selector: ".rate"}},
		},
	})

	quote, ok := chain.ScrapeSinglePrice(context.Background(), KindPetrol, "Kochi")
	if !ok {
		t.Fatal("third candidate should have matched")
	}
	if quote.Price != 107.56 {
		t.Fatalf("price = %v, want 107.56", quote.Price)
	}
	if quote.Symbol != "PETROL (KOCHI)" || quote.Category != pricing.CategoryFuel || quote.Direction != pricing.DirectionFlat {
		t.Fatalf("unexpected quote %+v", quote)
	}
	if len(ps.hits) != 3 {
		t.Fatalf("candidates after the winner should be skipped, hits = %v", ps.hits)
	}
	if ps.agent != "Mozilla/5.0 test" {
		t.Fatalf("user agent not sent: %q", ps.agent)
	}
}

func TestScrapeSinglePriceSuffixedSelectorText(t *testing.T) {
	ps := &pageServer{pages: map[string]string{
		"/ndtv/petrol/kochi": `<html><body><div class="fuel-price-value">₹ 107.56/L</div></body></html>`,
		"/ndtv/diesel/kochi": `<html><body><p class="pric_sec"><span class="pric">96.41 per litre</span></p></body></html>`,
	}}
	srv := httptest.NewServer(ps)
	defer srv.Close()

	sel := SelectorExtractor{Selector: ".fuel-price-value, .pric_sec .pric"}
	chain := newChain(map[Kind][]Candidate{
		KindPetrol: {{Name: "ndtv", URLTemplate: srv.URL + "/ndtv/{kind}/{city}", Extractor: sel}},
		KindDiesel: {{Name: "ndtv", URLTemplate: srv.URL + "/ndtv/{kind}/{city}", Extractor: sel}},
	})

	for kind, want := range map[Kind]float64{KindPetrol: 107.56, KindDiesel: 96.41} {
		quote, ok := chain.ScrapeSinglePrice(context.Background(), kind, "kochi")
		if !ok {
			t.Fatalf("%s: unit suffix should not hide the price", kind)
		}
		if quote.Price != want {
			t.Fatalf("%s: price = %v, want %v", kind, quote.Price, want)
		}
	}
}

func TestScrapeSinglePriceAllMiss(t *testing.T) {
	ps := &pageServer{pages: map[string]string{
		"/zero": `<p class="v">₹ 0.00</p>`,
		"/text": `<p>nothing here</p>`,
	}}
	srv := httptest.NewServer(ps)
	defer srv.Close()

	chain := newChain(map[Kind][]Candidate{
		KindDiesel: {
			{Name: "zero", URLTemplate: srv.URL + "/zero", Extractor: SelectorExtractor{Selector: ".v"}},
			{Name: "text", URLTemplate: srv.URL + "/text", Extractor: RegexExtractor{Pattern: regexp.MustCompile(`₹\s*([0-9.]+)`)}},
			{Name: "blocked", URLTemplate: srv.URL + "/blocked", Extractor: SelectorExtractor{Selector: ".v"}},
			{Name: "broken", URLTemplate: "http://127.0.0.1:0/", Extractor: SelectorExtractor{Selector: ".v"}},
		},
	})

	quote, ok := chain.ScrapeSinglePrice(context.Background(), KindDiesel, "kochi")
	if ok {
		t.Fatalf("no candidate should match, got %+v", quote)
	}
	if quote != (pricing.PriceQuote{}) {
		t.Fatalf("miss must not carry a placeholder quote: %+v", quote)
	}
}

func TestScrapeSinglePriceUnknownKind(t *testing.T) {
	chain := newChain(nil)
	if _, ok := chain.ScrapeSinglePrice(context.Background(), KindPetrol, "kochi"); ok {
		t.Fatal("kind without candidates should report no data")
	}
}

func TestExtractors(t *testing.T) {
	page := []byte(`<div id="p" data-price="96.41"><b>Diesel</b> Rs. 96.41</div>`)

	if raw, ok := (SelectorExtractor{Selector: "#p", Attr: "data-price"}).Extract(page); !ok || raw != "96.41" {
		t.Fatalf("attr extract = %q, %v", raw, ok)
	}
	if raw, ok := (SelectorExtractor{Selector: "#p"}).Extract(page); !ok || raw != "96.41" {
		t.Fatalf("text extract = %q, %v", raw, ok)
	}
	if raw, ok := (SelectorExtractor{Selector: "#p", Pattern: regexp.MustCompile(`Rs\. ([0-9.]+)`)}).Extract(page); !ok || raw != "96.41" {
		t.Fatalf("patterned extract = %q, %v", raw, ok)
	}
	if _, ok := (SelectorExtractor{Selector: "b"}).Extract(page); ok {
		t.Fatal("text without a number should not match")
	}
	if _, ok := (SelectorExtractor{Selector: "#p", Attr: "data-missing"}).Extract(page); ok {
		t.Fatal("missing attribute should not match")
	}
	if raw, ok := (RegexExtractor{Pattern: regexp.MustCompile(`Rs\. [0-9.]+`)}).Extract(page); !ok || raw != "Rs. 96.41" {
		t.Fatalf("whole-match extract = %q, %v", raw, ok)
	}
	if _, ok := (RegexExtractor{}).Extract(page); ok {
		t.Fatal("nil pattern should not match")
	}
}

func TestCandidatesFromConfig(t *testing.T) {
	cands, err := CandidatesFromConfig([]config.CandidateConfig{
		{Kind: "petrol", Name: "one", URL: "https://x.test/{city}", Regex: `([0-9.]+)`},
		{Kind: "petrol", URL: "https://y.test/{city}", Selector: ".p"},
		{Kind: "diesel", Name: "three", URL: "https://z.test/{city}", Selector: ".d", Attr: "content"},
	})
	if err != nil {
		t.Fatalf("build candidates: %v", err)
	}
	if len(cands[KindPetrol]) != 2 || len(cands[KindDiesel]) != 1 {
		t.Fatalf("unexpected grouping: %+v", cands)
	}
	if cands[KindPetrol][1].Name != "candidate-1" {
		t.Fatalf("unnamed candidate should get a positional name, got %q", cands[KindPetrol][1].Name)
	}

	if _, err := CandidatesFromConfig([]config.CandidateConfig{{Kind: "petrol", URL: "u", Regex: "("}}); err == nil {
		t.Fatal("invalid regex should fail")
	}

	defaults, err := CandidatesFromConfig(nil)
	if err != nil || len(defaults[KindPetrol]) == 0 || len(defaults[KindDiesel]) == 0 {
		t.Fatalf("empty config should fall back to defaults: %v", err)
	}
}
