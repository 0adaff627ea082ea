package tracker

import "strings"

// MaxSymbolLength is the longest accepted asset symbol.
const MaxSymbolLength = 10

// NormalizeSymbols trims and upper-cases every symbol, dropping the ones
// that end up empty or longer than MaxSymbolLength. Order is preserved and
// duplicates are kept.
func NormalizeSymbols(assets []string) []string {
	valid := make([]string, 0, len(assets))
	for _, asset := range assets {
		cleaned := strings.ToUpper(strings.TrimSpace(asset))
		if cleaned == "" || len([]rune(cleaned)) > MaxSymbolLength {
			continue
		}
		valid = append(valid, cleaned)
	}
	return valid
}

// ClampDays forces days into [lo, hi] and reports whether it changed.
func ClampDays(days, lo, hi int) (int, bool) {
	switch {
	case days < lo:
		return lo, true
	case days > hi:
		return hi, true
	default:
		return days, false
	}
}

// SupportedAssets returns example symbols per asset category.
func SupportedAssets() map[string][]string {
	return map[string][]string{
		"stocks":      {"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "NVDA"},
		"crypto":      {"BTC-USD", "ETH-USD", "ADA-USD", "SOL-USD"},
		"commodities": {"Gold", "Silver", "Oil", "Copper"},
		"etfs":        {"SPY", "QQQ", "VTI", "ARKK"},
		"indices":     {"^GSPC", "^IXIC", "^DJI"},
	}
}
