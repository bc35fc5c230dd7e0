package market

import (
	"strings"

	"goldrates/internal/pricing"
)

type symbolInfo struct {
	label    string
	category pricing.Category
}

var symbolTable = map[string]symbolInfo{
	"^BSESN":   {"SENSEX", pricing.CategoryIndex},
	"^NSEI":    {"NIFTY 50", pricing.CategoryIndex},
	"^NSEBANK": {"BANK NIFTY", pricing.CategoryIndex},
	"GC=F":     {"GOLD (COMEX)", pricing.CategoryCommodity},
	"SI=F":     {"SILVER (COMEX)", pricing.CategoryCommodity},
	"CL=F":     {"CRUDE OIL", pricing.CategoryCommodity},
	"BTC-INR":  {"BTC/INR", pricing.CategoryCrypto},
	"ETH-INR":  {"ETH/INR", pricing.CategoryCrypto},
	"BTC-USD":  {"BTC/USD", pricing.CategoryCrypto},
	"INR=X":    {"USD/INR", pricing.CategoryCurrency},
	"EURINR=X": {"EUR/INR", pricing.CategoryCurrency},
	"GBPINR=X": {"GBP/INR", pricing.CategoryCurrency},
	"AEDINR=X": {"AED/INR", pricing.CategoryCurrency},
	"SARINR=X": {"SAR/INR", pricing.CategoryCurrency},
}

// DisplayName maps a provider symbol to its ticker label. Unknown symbols
// are returned unchanged.
func DisplayName(symbol string) string {
	if info, ok := symbolTable[symbol]; ok {
		return info.label
	}
	return symbol
}

// CategoryOf returns the display section of a provider symbol, using Yahoo
// suffix conventions for symbols outside the table.
func CategoryOf(symbol string) pricing.Category {
	if info, ok := symbolTable[symbol]; ok {
		return info.category
	}
	switch {
	case strings.HasSuffix(symbol, "=X"):
		return pricing.CategoryCurrency
	case strings.HasSuffix(symbol, "=F"):
		return pricing.CategoryCommodity
	case strings.HasPrefix(symbol, "^"):
		return pricing.CategoryIndex
	case strings.Contains(symbol, "-"):
		return pricing.CategoryCrypto
	default:
		return pricing.CategoryIndex
	}
}

// sectionRank orders ticker sections: local first, fuel last.
func sectionRank(c pricing.Category) int {
	switch c {
	case pricing.CategoryGold:
		return 0
	case pricing.CategoryIndex:
		return 1
	case pricing.CategoryCommodity:
		return 2
	case pricing.CategoryCrypto:
		return 3
	case pricing.CategoryCurrency:
		return 4
	case pricing.CategoryFuel:
		return 6
	default:
		return 5
	}
}
