package portfel

import "strings"

// DefaultCurrency is assumed when the ticker suffix is not recognized.
const DefaultCurrency = "USD"

// cryptoSuffix is the crypto pair naming convention, e.g. BTC-USD.
const cryptoSuffix = "-USD"

// currencySuffixes maps ticker suffixes to their trading currency.
var currencySuffixes = []struct {
	suffix   string
	currency string
}{
	{cryptoSuffix, "USD"},
	{".WA", "PLN"},
	{".PL", "PLN"},
	{".DE", "EUR"},
	{".F", "EUR"},
	{".AS", "EUR"},
	{".PA", "EUR"},
	{".MI", "EUR"},
}

// ResolveCurrency returns the assumed trading currency of a ticker.
//
// This is a best-effort heuristic based on the ticker suffix, there is no
// lookup. It is total: unknown suffixes, and the empty string, resolve to
// DefaultCurrency.
func ResolveCurrency(ticker string) string {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	for _, s := range currencySuffixes {
		if strings.HasSuffix(t, s.suffix) {
			return s.currency
		}
	}
	return DefaultCurrency
}

func isCryptoPair(ticker string) bool {
	return strings.HasSuffix(strings.ToUpper(ticker), cryptoSuffix)
}
