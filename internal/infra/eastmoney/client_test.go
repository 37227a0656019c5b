package eastmoney

import (
	"testing"
)

func TestSecid(t *testing.T) {
	cases := map[string]string{
		"600000": "1.600000",
		"688001": "1.688001",
		"000001": "0.000001",
		"300750": "0.300750",
	}
	for code, want := range cases {
		if got := secid(code); got != want {
			t.Errorf("secid(%s) = %s, want %s", code, got, want)
		}
	}
}

func TestParseKline(t *testing.T) {
	t.Run("valid row", func(t *testing.T) {
		line := "2024-03-15,10.00,10.50,10.80,9.90,123456,1300000.00,9.09,5.00,0.50,1.23"
		bar, err := parseKline("600000", "PuFa Bank", line)
		if err != nil {
			t.Fatal(err)
		}
		if bar.TradeDate.Format("2006-01-02") != "2024-03-15" {
			t.Fatalf("date = %v", bar.TradeDate)
		}
		if bar.Open.String() != "10" || bar.Close.String() != "10.5" {
			t.Fatalf("open=%s close=%s", bar.Open, bar.Close)
		}
		if bar.High.String() != "10.8" || bar.Low.String() != "9.9" {
			t.Fatalf("high=%s low=%s", bar.High, bar.Low)
		}
		if bar.Volume != 123456 {
			t.Fatalf("volume = %d", bar.Volume)
		}
		if bar.Turnover.String() != "1.23" {
			t.Fatalf("turnover = %s", bar.Turnover)
		}
	})

	t.Run("short row is rejected", func(t *testing.T) {
		if _, err := parseKline("600000", "PuFa Bank", "2024-03-15,10.00"); err == nil {
			t.Fatal("expected error for short kline")
		}
	})

	t.Run("bad number is rejected", func(t *testing.T) {
		line := "2024-03-15,abc,10.50,10.80,9.90,123456,1300000.00,9.09,5.00,0.50,1.23"
		if _, err := parseKline("600000", "PuFa Bank", line); err == nil {
			t.Fatal("expected error for malformed price")
		}
	})
}
