package scraper

import (
	"fmt"
	"regexp"

	"goldrates/internal/config"
)

const rupeeAmount = `(?:₹|Rs\.?|&#8377;)\s*([0-9]{2,3}(?:\.[0-9]{1,2})?)`

// DefaultCandidates is the built-in source order for fuel prices.
func DefaultCandidates() map[Kind][]Candidate {
	build := func(kind Kind, title string) []Candidate {
		return []Candidate{
			{
				Name:        "goodreturns",
				URLTemplate: "https://www.goodreturns.in/{kind}-price-in-{city}.html",
				Extractor:   RegexExtractor{Pattern: regexp.MustCompile(`(?is)` + title + `\s+price\s+in\s+[a-z ]+\s+today.*?` + rupeeAmount)},
			},
			{
				Name:        "ndtv",
				URLTemplate: "https://www.ndtv.com/fuel-prices/{kind}-price-in-{city}-city",
				Extractor:   SelectorExtractor{Selector: ".fuel-price-value, .pric_sec .pric"},
			},
			{
				Name:        "parkplus",
				URLTemplate: "https://parkplus.io/fuel-price/{kind}-price-in-{city}",
				Extractor:   RegexExtractor{Pattern: regexp.MustCompile(`(?is)` + title + `.{0,200}?` + rupeeAmount)},
			},
		}
	}
	return map[Kind][]Candidate{
		KindPetrol: build(KindPetrol, "petrol"),
		KindDiesel: build(KindDiesel, "diesel"),
	}
}

// CandidatesFromConfig builds candidates from configuration, grouped by kind
// in file order. An empty list yields DefaultCandidates.
func CandidatesFromConfig(cfgs []config.CandidateConfig) (map[Kind][]Candidate, error) {
	if len(cfgs) == 0 {
		return DefaultCandidates(), nil
	}

	out := make(map[Kind][]Candidate)
	for i, cc := range cfgs {
		var ext Extractor
		if cc.Regex != "" {
			re, err := NewRegexExtractor(cc.Regex)
			if err != nil {
				return nil, fmt.Errorf("scraper candidate %d: %w", i, err)
			}
			ext = re
		} else {
			ext = SelectorExtractor{Selector: cc.Selector, Attr: cc.Attr}
		}

		name := cc.Name
		if name == "" {
			name = fmt.Sprintf("candidate-%d", i)
		}
		kind := Kind(cc.Kind)
		out[kind] = append(out[kind], Candidate{Name: name, URLTemplate: cc.URL, Extractor: ext})
	}
	return out, nil
}
