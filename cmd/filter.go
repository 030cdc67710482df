package cmd

import (
	"flag"
	"strings"

	"github.com/etnz/portfel"
)

// filterFlags are the flags selecting positions, shared by the commands
// working on a valuation.
type filterFlags struct {
	accounts   string
	categories string
	currencies string
	all        bool
}

func (p *filterFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.accounts, "account", "", "Comma separated accounts to keep (STANDARD, IKE, IKZE).")
	f.StringVar(&p.categories, "category", "", "Comma separated categories to keep (STOCK, CRYPTO, IKE, IKZE).")
	f.StringVar(&p.currencies, "currency", "", "Comma separated trading currencies to keep (e.g. USD,EUR).")
	f.BoolVar(&p.all, "all", false, "Keep every position, clearing the saved filter.")
}

// isSet reports whether any filter flag was given.
func (p *filterFlags) isSet() bool {
	return p.all || p.accounts != "" || p.categories != "" || p.currencies != ""
}

// filter returns the filter described by the flags.
func (p *filterFlags) filter() portfel.Filter {
	var f portfel.Filter
	if p.all {
		return f
	}
	for _, a := range splitList(p.accounts) {
		f.Accounts = append(f.Accounts, portfel.ParseAccount(a))
	}
	for _, c := range splitList(p.categories) {
		f.Categories = append(f.Categories, portfel.Category(strings.ToUpper(c)))
	}
	for _, c := range splitList(p.currencies) {
		f.Currencies = append(f.Currencies, strings.ToUpper(c))
	}
	return f
}

// resolve returns the filter to apply: the flags' one if any, saved into the
// settings, or the one saved last time.
func (p *filterFlags) resolve(env *Env) (portfel.Filter, error) {
	settings, err := env.Store.LoadSettings()
	if err != nil {
		return portfel.Filter{}, err
	}
	if !p.isSet() {
		return settings.Filter, nil
	}
	settings.Filter = p.filter()
	if err := env.Store.SaveSettings(settings); err != nil {
		return portfel.Filter{}, err
	}
	return settings.Filter, nil
}

// splitList splits a comma separated list, ignoring blanks.
func splitList(s string) []string {
	var res []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			res = append(res, item)
		}
	}
	return res
}
