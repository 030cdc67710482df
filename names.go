package portfel

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// maxNameLength truncates absurdly long security names.
const maxNameLength = 60

// knownNames are stable display names for common crypto pairs.
var knownNames = map[string]string{
	"BTC-USD":  "Bitcoin",
	"ETH-USD":  "Ethereum",
	"SOL-USD":  "Solana",
	"ADA-USD":  "Cardano",
	"XRP-USD":  "XRP",
	"DOGE-USD": "Dogecoin",
}

// DisplayName returns a display name for ticker: a well known name first, then
// the namer's answer (if namer is not nil), and the ticker itself as a last
// resort. Lookup failures are only logged.
func DisplayName(ctx context.Context, namer Namer, ticker string) string {
	if name, ok := knownNames[ticker]; ok {
		return name
	}
	if namer == nil {
		return ticker
	}
	name, err := namer.Name(ctx, ticker)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("ticker", ticker).Msg("name lookup failed")
		return ticker
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ticker
	}
	if r := []rune(name); len(r) > maxNameLength {
		name = string(r[:maxNameLength])
	}
	return name
}

// Names fills the display name of every position, looking up each ticker once.
func (v *Valuation) Names(ctx context.Context, namer Namer) {
	names := make(map[string]string)
	for i := range v.Positions {
		t := v.Positions[i].Ticker()
		name, ok := names[t]
		if !ok {
			name = DisplayName(ctx, namer, t)
			names[t] = name
		}
		v.Positions[i].Name = name
	}
}
