package booking

import (
	"strings"
	"testing"
	"time"

	"salonbook/config"
	"salonbook/models"

	"github.com/shopspring/decimal"
)

func TestPricerQuote(t *testing.T) {
	p := Pricer{TaxRate: decimal.RequireFromString("0.10"), DepositRate: decimal.RequireFromString("0.20"), Currency: "USD"}
	items, price := p.Quote(clock(9, 0), []models.ServiceSelection{
		{ServiceID: "cut", DurationMinutes: 30, Price: models.MustMoney("25.00"), Quantity: 2},
		{ServiceID: "wash", DurationMinutes: 15, Price: models.MustMoney("9.99")},
	})

	if len(items) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(items))
	}
	if items[0].Quantity != 2 || items[0].Price.StringFixed(2) != "50.00" || items[0].End != clock(10, 0) {
		t.Fatalf("unexpected first item %+v", items[0])
	}
	if items[1].Quantity != 1 || items[1].Start != clock(10, 0) || items[1].Order != 2 {
		t.Fatalf("unexpected second item %+v", items[1])
	}

	checks := map[string]string{
		"subtotal": price.Subtotal.StringFixed(2),
		"tax":      price.Tax.StringFixed(2),
		"total":    price.Total.StringFixed(2),
		"deposit":  price.Deposit.StringFixed(2),
		"discount": price.Discount.StringFixed(2),
	}
	want := map[string]string{"subtotal": "59.99", "tax": "6.00", "total": "65.99", "deposit": "13.20", "discount": "0.00"}
	for k, v := range want {
		if checks[k] != v {
			t.Errorf("%s: expected %s, got %s", k, v, checks[k])
		}
	}
	if price.Currency != "USD" {
		t.Fatalf("expected USD, got %s", price.Currency)
	}
}

func TestNewConfirmationCode(t *testing.T) {
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code := NewConfirmationCode(now)
		if !strings.HasPrefix(code, "BK") || strings.ToUpper(code) != code {
			t.Fatalf("unexpected code format %q", code)
		}
		if seen[code] {
			t.Fatalf("duplicate code %q", code)
		}
		seen[code] = true
	}
}

func TestSettingsFromConfig(t *testing.T) {
	s := SettingsFromConfig(config.Config{
		SlotGranularityMinutes: 15,
		BufferMinutes:          10,
		AutoConfirm:            true,
		TaxRate:                0.08,
		Currency:               "EUR",
		SeriesConcurrency:      2,
	})
	if s.Granularity != 15 || s.Buffer != 10 || !s.AutoConfirm {
		t.Fatalf("unexpected scheduling settings %+v", s)
	}
	if !s.TaxRate.Equal(decimal.RequireFromString("0.08")) || s.Currency != "EUR" {
		t.Fatalf("unexpected pricing settings %s %s", s.TaxRate, s.Currency)
	}
	if s.SeriesConcurrency != 2 || s.MaxSeriesInstances != 365 || s.DefaultSeriesOccurrences != 52 {
		t.Fatalf("unexpected series settings %+v", s)
	}
	if s.Location == nil {
		t.Fatal("expected a location")
	}
}

func TestBufferIsAppliedAroundBookings(t *testing.T) {
	f := newFixture(t)
	f.engine.Settings.Buffer = 15
	if _, err := f.engine.Book(bg(), request("stylist-a", monday, clock(10, 0), "cut")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := f.engine.Book(bg(), request("stylist-a", monday, clock(10, 30), "cut"))
	expectCode(t, err, CodeSlotTaken)
}
