package cleaning

import (
	"math"
	"strconv"
	"strings"

	"github.com/araddon/dateparse"

	"aibox/internal/tabular"
)

// Every parser in this file is total: malformed input degrades to null,
// never to an error. Row count and column presence are preserved no
// matter how messy the cells are.

// ParseDate coerces a cell to a date. Ambiguous day/month order is read
// month-first. Unparseable or empty input yields null.
func ParseDate(v tabular.Value) tabular.Value {
	if v.IsNull() {
		return tabular.Null()
	}
	if _, ok := v.Time(); ok {
		return v
	}
	s := strings.TrimSpace(v.Display())
	if s == "" {
		return tabular.Null()
	}
	t, err := dateparse.ParseAny(s, dateparse.PreferMonthFirst(true))
	if err != nil {
		return tabular.Null()
	}
	return tabular.Date(t)
}

// ParseNumber coerces a cell to a float. Currency symbols and other
// noise are stripped; a lone comma with no dot is a decimal separator,
// any other commas are thousands separators.
func ParseNumber(v tabular.Value) tabular.Value {
	if v.IsNull() {
		return tabular.Null()
	}
	if _, ok := v.Float(); ok {
		return v
	}
	s := strings.ReplaceAll(strings.TrimSpace(v.Display()), " ", "")
	if s == "" {
		return tabular.Null()
	}
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '-' || r == ',' || r == '.' {
			b.WriteRune(r)
		}
	}
	s = b.String()
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return tabular.Null()
	}
	return tabular.Number(f)
}

// currencySymbols maps known symbols and lowercase codes to ISO codes.
var currencySymbols = map[string]string{
	"$":   "USD",
	"€":   "EUR",
	"£":   "GBP",
	"usd": "USD",
	"eur": "EUR",
	"gbp": "GBP",
	"mad": "MAD",
}

// ParseCurrency maps known symbols and codes to ISO 4217 codes and
// uppercases anything else as a best-effort code. Empty yields null.
func ParseCurrency(v tabular.Value) tabular.Value {
	if v.IsNull() {
		return tabular.Null()
	}
	s := strings.TrimSpace(v.Display())
	if s == "" {
		return tabular.Null()
	}
	if code, ok := currencySymbols[s]; ok {
		return tabular.String(code)
	}
	if code, ok := currencySymbols[strings.ToLower(s)]; ok {
		return tabular.String(code)
	}
	return tabular.String(strings.ToUpper(s))
}

// round2 rounds to two decimals, the precision of every derived money
// field in the pipeline.
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
