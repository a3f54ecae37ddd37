package booking

import (
	"salonbook/models"

	"github.com/shopspring/decimal"
)

// Pricer turns resolved selections into line items and a price breakdown.
// Discount and tip start at zero; they are adjusted by the payment collaborator.
type Pricer struct {
	TaxRate     decimal.Decimal
	DepositRate decimal.Decimal
	Currency    string
}

func (p Pricer) Quote(start int, selections []models.ServiceSelection) ([]models.AppointmentService, models.PriceBreakdown) {
	items := make([]models.AppointmentService, 0, len(selections))
	subtotal := decimal.Zero
	cursor := start
	for i, s := range selections {
		qty := s.EffectiveQuantity()
		duration := s.DurationMinutes * qty
		linePrice := s.Price.Mul(decimal.NewFromInt(int64(qty)))
		items = append(items, models.AppointmentService{
			ServiceID:       s.ServiceID,
			Name:            s.Name,
			DurationMinutes: s.DurationMinutes,
			Quantity:        qty,
			UnitPrice:       s.Price,
			Price:           models.MoneyFromDecimal(linePrice),
			Start:           cursor,
			End:             cursor + duration,
			Order:           i + 1,
		})
		cursor += duration
		subtotal = subtotal.Add(linePrice)
	}

	tax := subtotal.Mul(p.TaxRate).Round(2)
	discount := decimal.Zero
	tip := decimal.Zero
	total := subtotal.Add(tax).Sub(discount).Add(tip)
	deposit := total.Mul(p.DepositRate).Round(2)

	return items, models.PriceBreakdown{
		Subtotal: models.MoneyFromDecimal(subtotal),
		Tax:      models.MoneyFromDecimal(tax),
		Discount: models.MoneyFromDecimal(discount),
		Tip:      models.MoneyFromDecimal(tip),
		Total:    models.MoneyFromDecimal(total),
		Deposit:  models.MoneyFromDecimal(deposit),
		Currency: p.Currency,
	}
}
