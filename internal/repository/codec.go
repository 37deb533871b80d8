package repository

import (
	"encoding/json"
	"fmt"

	"github.com/nikolayk812/cartstore-demo/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type cartItemJSON struct {
	ID       int64       `json:"id"`
	Title    string      `json:"title"`
	Price    json.Number `json:"price"`
	Currency string      `json:"currency,omitempty"`
	Image    string      `json:"image"`
	Amount   int         `json:"amount"`
}

// MarshalCart encodes the snapshot as the JSON array stored in the slot.
// The encoding is deterministic, so re-saving a loaded cart yields the same bytes.
func MarshalCart(cart domain.Cart) ([]byte, error) {
	items := make([]cartItemJSON, 0, cart.Len())

	for _, item := range cart.Items {
		items = append(items, mapCartItemToJSON(item))
	}

	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return data, nil
}

// UnmarshalCart decodes a slot payload. Items without a currency get domain.DefaultCurrency.
func UnmarshalCart(data []byte) (domain.Cart, error) {
	var items []cartItemJSON

	if err := json.Unmarshal(data, &items); err != nil {
		return domain.Cart{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	cart := domain.Cart{Items: make([]domain.CartItem, 0, len(items))}

	for _, row := range items {
		item, err := mapJSONToCartItem(row)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("mapJSONToCartItem: %w", err)
		}

		cart.Items = append(cart.Items, item)
	}

	if err := cart.Validate(); err != nil {
		return domain.Cart{}, fmt.Errorf("cart.Validate: %w", err)
	}

	return cart, nil
}

func mapCartItemToJSON(item domain.CartItem) cartItemJSON {
	return cartItemJSON{
		ID:       item.Product.ID,
		Title:    item.Product.Title,
		Price:    json.Number(item.Product.Price.Amount.String()),
		Currency: item.Product.Price.Currency.String(),
		Image:    item.Product.Image,
		Amount:   item.Amount,
	}
}

func mapJSONToCartItem(row cartItemJSON) (domain.CartItem, error) {
	amount, err := decimal.NewFromString(row.Price.String())
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("price[%s] is not valid: %w", row.Price, err)
	}

	unit := domain.DefaultCurrency
	if row.Currency != "" {
		unit, err = currency.ParseISO(row.Currency)
		if err != nil {
			return domain.CartItem{}, fmt.Errorf("currency[%s] is not valid: %w", row.Currency, err)
		}
	}

	return domain.CartItem{
		Product: domain.Product{
			ID:    row.ID,
			Title: row.Title,
			Price: domain.Money{Amount: amount, Currency: unit},
			Image: row.Image,
		},
		Amount: row.Amount,
	}, nil
}
