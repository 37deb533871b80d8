package view

import (
	"github.com/nikolayk812/cartstore-demo/internal/domain"
	"github.com/shopspring/decimal"
)

type CartRow struct {
	Item              domain.CartItem
	PriceFormatted    string
	Subtotal          decimal.Decimal
	SubtotalFormatted string
	// CanDecrement is false at amount 1; going lower is a removal.
	CanDecrement bool
}

type CartPage struct {
	Rows           []CartRow
	Total          domain.Money
	TotalFormatted string
}

// Total sums amount × price over all line items. The cart is assumed to be
// priced in a single currency, taken from the first item.
func Total(cart domain.Cart) domain.Money {
	total := domain.Money{Amount: decimal.Zero, Currency: domain.DefaultCurrency}
	if cart.Len() > 0 {
		total.Currency = cart.Items[0].Product.Price.Currency
	}

	for _, item := range cart.Items {
		total.Amount = total.Amount.Add(item.Subtotal().Amount)
	}

	return total
}

func Cart(cart domain.Cart, f Formatter) CartPage {
	rows := make([]CartRow, 0, cart.Len())

	for _, item := range cart.Items {
		subtotal := item.Subtotal()

		rows = append(rows, CartRow{
			Item:              item,
			PriceFormatted:    f.Format(item.Product.Price),
			Subtotal:          subtotal.Amount,
			SubtotalFormatted: f.Format(subtotal),
			CanDecrement:      item.Amount > 1,
		})
	}

	total := Total(cart)

	return CartPage{
		Rows:           rows,
		Total:          total,
		TotalFormatted: f.Format(total),
	}
}
