package scraper

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Extractor pulls a raw price string out of a fetched page. ok is false
// when the page does not contain the value.
type Extractor interface {
	Extract(page []byte) (raw string, ok bool)
}

// RegexExtractor matches Pattern against the page text and returns the
// first capture group, or the whole match when the pattern has none.
type RegexExtractor struct {
	Pattern *regexp.Regexp
}

// NewRegexExtractor compiles pattern into an extractor.
func NewRegexExtractor(pattern string) (RegexExtractor, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return RegexExtractor{}, fmt.Errorf("compile pattern %q: %w", pattern, err)
	}
	return RegexExtractor{Pattern: re}, nil
}

// Extract implements Extractor.
func (e RegexExtractor) Extract(page []byte) (string, bool) {
	if e.Pattern == nil {
		return "", false
	}
	m := e.Pattern.FindSubmatch(page)
	switch {
	case m == nil:
		return "", false
	case len(m) > 1:
		return string(m[1]), true
	default:
		return string(m[0]), true
	}
}

// firstNumber finds the amount inside text such as "₹ 107.56/L".
var firstNumber = regexp.MustCompile(`[0-9][0-9,]*(?:\.[0-9]+)?`)

// SelectorExtractor reads the first element matching Selector. Attr selects
// an attribute instead of the element text. The value is narrowed to the
// first capture of Pattern, or to its first number when Pattern is nil.
type SelectorExtractor struct {
	Selector string
	Attr     string
	Pattern  *regexp.Regexp
}

// Extract implements Extractor.
func (e SelectorExtractor) Extract(page []byte) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return "", false
	}
	sel := doc.Find(e.Selector).First()
	if sel.Length() == 0 {
		return "", false
	}

	var raw string
	if e.Attr != "" {
		v, ok := sel.Attr(e.Attr)
		if !ok {
			return "", false
		}
		raw = v
	} else {
		raw = sel.Text()
	}

	pattern := e.Pattern
	if pattern == nil {
		pattern = firstNumber
	}
	return RegexExtractor{Pattern: pattern}.Extract([]byte(strings.TrimSpace(raw)))
}

var (
	_ Extractor = RegexExtractor{}
	_ Extractor = SelectorExtractor{}
)
