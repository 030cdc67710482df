package portfel

import (
	"bytes"
	"testing"
)

func TestParsePositions(t *testing.T) {
	text := `BTC-USD,0.02,35000

eth-usd , 0.5 , 2000
TSLA,3
ETFSP500.WA,10,125,IKZE
VWCE.DE,2,100,ike
PKO.WA,5,,IKE
ACN,26,abc
XYZ,1,10,whatever
`
	got, warnings := ParsePositions(text)

	want := []struct {
		ticker   string
		qty      float64
		purchase float64 // 0 means unknown
		account  Account
		category Category
		currency string
	}{
		{"BTC-USD", 0.02, 35000, AccountStandard, CategoryCrypto, "USD"},
		{"ETH-USD", 0.5, 2000, AccountStandard, CategoryCrypto, "USD"},
		{"TSLA", 3, 0, AccountStandard, CategoryStock, "USD"},
		{"ETFSP500.WA", 10, 125, AccountIKZE, CategoryIKZE, "PLN"},
		{"VWCE.DE", 2, 100, AccountIKE, CategoryIKE, "EUR"},
		{"PKO.WA", 5, 0, AccountIKE, CategoryIKE, "PLN"},
		{"ACN", 26, 0, AccountStandard, CategoryStock, "USD"},
		{"XYZ", 1, 10, AccountStandard, CategoryStock, "USD"},
	}

	if len(got) != len(want) {
		t.Fatalf("len(ParsePositions()) = %d, want %d", len(got), len(want))
	}
	for i, w := range want {
		h := got[i]
		if h.Ticker() != w.ticker {
			t.Errorf("[%d] Ticker = %q, want %q", i, h.Ticker(), w.ticker)
		}
		if !h.Quantity().Equal(Q(w.qty)) {
			t.Errorf("[%d] Quantity = %v, want %v", i, h.Quantity(), w.qty)
		}
		p, ok := h.PurchasePrice().Get()
		switch {
		case w.purchase == 0 && ok:
			t.Errorf("[%d] PurchasePrice = %v, want unknown", i, p)
		case w.purchase != 0 && (!ok || !p.Equal(Q(w.purchase).Decimal())):
			t.Errorf("[%d] PurchasePrice = %v (%v), want %v", i, p, ok, w.purchase)
		}
		if h.Account() != w.account {
			t.Errorf("[%d] Account = %v, want %v", i, h.Account(), w.account)
		}
		if h.Category() != w.category {
			t.Errorf("[%d] Category = %v, want %v", i, h.Category(), w.category)
		}
		if h.Currency() != w.currency {
			t.Errorf("[%d] Currency = %v, want %v", i, h.Currency(), w.currency)
		}
	}

	// the invalid purchase price is reported but does not skip the line.
	if len(warnings) != 1 || warnings[0].Skipped || warnings[0].Line != 8 {
		t.Errorf("warnings = %v, want a single non skipping warning on line 8", warnings)
	}
}

func TestParsePositions_Skipped(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"single field", "AAPL"},
		{"invalid quantity", "AAPL,many"},
		{"empty quantity", "AAPL,,100"},
		{"negative quantity", "AAPL,-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warnings := ParsePositions("TSLA,1\n" + tt.line + "\nACN,2")
			if len(got) != 2 {
				t.Fatalf("ParsePositions() kept %d holdings, want 2", len(got))
			}
			if got[0].Ticker() != "TSLA" || got[1].Ticker() != "ACN" {
				t.Errorf("ParsePositions() = %v, want TSLA then ACN", got)
			}
			if len(warnings) != 1 {
				t.Fatalf("len(warnings) = %d, want 1", len(warnings))
			}
			if w := warnings[0]; !w.Skipped || w.Line != 2 || w.Text != tt.line {
				t.Errorf("warning = %+v, want skipped line 2 %q", w, tt.line)
			}
		})
	}
}

func TestParsePositions_DecimalComma(t *testing.T) {
	// a comma inside the quantity field can only come from a single field
	// entry, like a purchase price typed "35000,5" being split. The dot form
	// and the normalized form must agree.
	got, _ := ParsePositions("BTC-USD,0.5,35000.5")
	if len(got) != 1 || !got[0].Quantity().Equal(Q(0.5)) {
		t.Fatalf("ParsePositions() = %v", got)
	}
	d, err := parseDecimal("0,5")
	if err != nil || !d.Equal(Q(0.5).Decimal()) {
		t.Errorf("parseDecimal(\"0,5\") = %v, %v, want 0.5", d, err)
	}
}

func TestParsePositions_KeepsDuplicates(t *testing.T) {
	got := mustParse("TSLA,1,100\nTSLA,2,200")
	if len(got) != 2 {
		t.Fatalf("len(ParsePositions()) = %d, want 2", len(got))
	}
	if got[0].Quantity().Equal(got[1].Quantity()) {
		t.Errorf("duplicated tickers must keep their own quantity")
	}
}

func TestParseAccount(t *testing.T) {
	tests := map[string]Account{
		"":           AccountStandard,
		"ike":        AccountIKE,
		"IKE-2024":   AccountIKE,
		"IKZE":       AccountIKZE,
		"ikze mbank": AccountIKZE,
		"STANDARD":   AccountStandard,
		"IK":         AccountStandard,
		"PPK":        AccountStandard,
	}
	for in, want := range tests {
		if got := ParseAccount(in); got != want {
			t.Errorf("ParseAccount(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestHolding_RoundTrip(t *testing.T) {
	inputs := []string{
		"BTC-USD,0.02,35000",
		"TSLA,3",
		"VWCE.DE,2,100,IKE",
		"PKO.WA,5,,IKZE",
		"ACN,26,320.5",
	}
	for _, in := range inputs {
		h := mustParse(in)[0]
		if got := h.String(); got != in {
			t.Errorf("String() = %q, want %q", got, in)
		}
		again := mustParse(h.String())[0]
		if !again.Equal(h) {
			t.Errorf("round trip of %q = %v, want %v", in, again, h)
		}
	}

	// decimal separator normalization
	h := mustParse("ACN,1,320.50")[0]
	if !mustParse(h.String())[0].Equal(h) {
		t.Errorf("round trip of normalized price failed: %q", h.String())
	}
}

func TestEncodePositions(t *testing.T) {
	holdings := mustParse(DefaultPositions)
	var b bytes.Buffer
	if err := EncodePositions(&b, holdings); err != nil {
		t.Fatalf("EncodePositions() error = %v", err)
	}
	if b.String() != DefaultPositions {
		t.Errorf("EncodePositions() = \n%s\nwant\n%s", b.String(), DefaultPositions)
	}
}
