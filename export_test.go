package portfel

import (
	"bytes"
	"context"
	"testing"
)

func TestEncodeCSV(t *testing.T) {
	holdings := mustParse("BTC-USD,0.02,35000\nXXXX,5\nVWCE.DE,2,100,IKE")
	quotes := Quotes{
		"BTC-USD": NewPriceQuote([]float64{38000, 41000, 40500, 40000, 40000, 40000}),
		"VWCE.DE": {Price: P(110)},
	}
	fx := FXRates{"USD": P(4), "EUR": P(4.5)}
	v := Valuate(holdings, quotes, fx, "PLN")
	v.Names(context.Background(), nil)

	var b bytes.Buffer
	if err := EncodeCSV(&b, v); err != nil {
		t.Fatalf("EncodeCSV() error = %v", err)
	}

	want := `Name,PL_Value_PLN,PL_Percent,Trend1m,Trend1w,Ticker,Account,Category,Currency,Quantity,PurchasePrice,Price,Value_PLN
Bitcoin,400.00,14.29,up,down,BTC-USD,STANDARD,CRYPTO,USD,0.02,35000,40000,3200.00
XXXX,,,,,XXXX,STANDARD,STOCK,USD,5,,,
VWCE.DE,90.00,10.00,,,VWCE.DE,IKE,IKE,EUR,2,100,110,990.00
`
	if got := b.String(); got != want {
		t.Errorf("EncodeCSV() =\n%s\nwant\n%s", got, want)
	}
}
