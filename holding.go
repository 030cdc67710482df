package portfel

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// Account is the tax wrapper a holding is kept in.
type Account string

const (
	AccountStandard Account = "STANDARD"
	AccountIKE      Account = "IKE"
	AccountIKZE     Account = "IKZE"
)

// Accounts lists all accounts in display order.
var Accounts = []Account{AccountStandard, AccountIKE, AccountIKZE}

// ParseAccount matches s by case-insensitive prefix. Anything that is neither
// an IKE nor an IKZE is a standard account.
func ParseAccount(s string) Account {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(s, "IKE"):
		return AccountIKE
	case strings.HasPrefix(s, "IKZE"):
		return AccountIKZE
	}
	return AccountStandard
}

// Category is the grouping used for the portfolio structure.
type Category string

const (
	CategoryStock  Category = "STOCK"
	CategoryCrypto Category = "CRYPTO"
	CategoryIKE    Category = "IKE"
	CategoryIKZE   Category = "IKZE"
)

// Categories lists all categories in display order.
var Categories = []Category{CategoryStock, CategoryCrypto, CategoryIKE, CategoryIKZE}

// categoryOf derives the category: the tax wrapper first, then the crypto pair convention.
func categoryOf(ticker string, account Account) Category {
	switch account {
	case AccountIKE:
		return CategoryIKE
	case AccountIKZE:
		return CategoryIKZE
	}
	if isCryptoPair(ticker) {
		return CategoryCrypto
	}
	return CategoryStock
}

// Holding is one position typed by the user.
//
// A Holding is immutable, its category and currency are derived once from the
// ticker and the account.
type Holding struct {
	ticker   string
	quantity Quantity
	purchase Price
	account  Account
	category Category
	currency string
}

// NewHolding creates a holding. The ticker is upper-cased and trimmed.
func NewHolding(ticker string, quantity Quantity, purchase Price, account Account) Holding {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if account == "" {
		account = AccountStandard
	}
	return Holding{
		ticker:   ticker,
		quantity: quantity,
		purchase: purchase,
		account:  account,
		category: categoryOf(ticker, account),
		currency: ResolveCurrency(ticker),
	}
}

func (h Holding) Ticker() string     { return h.ticker }
func (h Holding) Quantity() Quantity { return h.quantity }
func (h Holding) Account() Account   { return h.account }
func (h Holding) Category() Category { return h.category }
func (h Holding) Currency() string   { return h.currency }

// PurchasePrice returns the unit purchase price, in the holding's currency, if known.
func (h Holding) PurchasePrice() Price { return h.purchase }

// Equal reports whether both holdings describe the same position.
func (h Holding) Equal(o Holding) bool {
	if h.ticker != o.ticker || h.account != o.account || !h.quantity.Equal(o.quantity) {
		return false
	}
	hp, hok := h.purchase.Get()
	op, ook := o.purchase.Get()
	if hok != ook {
		return false
	}
	return !hok || hp.Equal(op)
}

// String serializes the holding in the input format
// "TICKER,QUANTITY[,PURCHASE_PRICE][,ACCOUNT]".
func (h Holding) String() string {
	fields := []string{h.ticker, h.quantity.String()}
	price := ""
	if p, ok := h.purchase.Get(); ok {
		price = p.String()
	}
	switch {
	case h.account != AccountStandard:
		fields = append(fields, price, string(h.account))
	case price != "":
		fields = append(fields, price)
	}
	return strings.Join(fields, ",")
}

// ParseWarning describes an input line that was skipped, or only partially understood.
type ParseWarning struct {
	Line    int    // 1-based line number
	Text    string // the line as typed
	Reason  string
	Skipped bool // true if no holding was created for that line
}

func (w ParseWarning) String() string {
	return fmt.Sprintf("line %d %q: %s", w.Line, w.Text, w.Reason)
}

// ParsePositions parses one holding per line in the format
// "TICKER,QUANTITY[,PURCHASE_PRICE][,ACCOUNT]".
//
// Blank lines are ignored. Lines without a valid quantity are skipped and
// reported as warnings, they never abort the parsing of subsequent lines.
// An invalid purchase price makes it unknown. Holdings are returned in input
// order, duplicated tickers are kept.
func ParsePositions(text string) ([]Holding, []ParseWarning) {
	var holdings []Holding
	var warnings []ParseWarning

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		warn := func(reason string, skipped bool) {
			warnings = append(warnings, ParseWarning{Line: i + 1, Text: line, Reason: reason, Skipped: skipped})
		}

		parts := strings.Split(line, ",")
		for j := range parts {
			parts[j] = strings.TrimSpace(parts[j])
		}
		if len(parts) < 2 {
			warn("missing quantity", true)
			continue
		}

		qty, err := parseDecimal(parts[1])
		if err != nil {
			warn(fmt.Sprintf("invalid quantity %q", parts[1]), true)
			continue
		}
		if qty.IsNegative() {
			warn(fmt.Sprintf("negative quantity %q", parts[1]), true)
			continue
		}

		purchase := None[decimal.Decimal]()
		if len(parts) >= 3 && parts[2] != "" {
			if p, err := parseDecimal(parts[2]); err == nil {
				purchase = Some(p)
			} else {
				warn(fmt.Sprintf("invalid purchase price %q, treated as unknown", parts[2]), false)
			}
		}

		account := AccountStandard
		if len(parts) >= 4 {
			account = ParseAccount(parts[3])
		}

		holdings = append(holdings, NewHolding(parts[0], Quantity{qty}, purchase, account))
	}
	return holdings, warnings
}

// EncodePositions writes holdings back in the input format, one per line.
func EncodePositions(w io.Writer, holdings []Holding) error {
	bw := bufio.NewWriter(w)
	for _, h := range holdings {
		if _, err := fmt.Fprintln(bw, h.String()); err != nil {
			return err
		}
	}
	return bw.Flush()
}
