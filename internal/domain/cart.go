package domain

import (
	"fmt"
	"slices"
)

type Product struct {
	ID    int64
	Title string
	Price Money
	Image string
}

type CartItem struct {
	Product Product
	Amount  int
}

func (i CartItem) Subtotal() Money {
	return i.Product.Price.Mul(i.Amount)
}

// Cart is an immutable snapshot. Methods returning a Cart never modify the
// receiver's backing array.
type Cart struct {
	Items []CartItem
}

func (c Cart) Len() int {
	return len(c.Items)
}

func (c Cart) Find(productID int64) (CartItem, bool) {
	idx := c.index(productID)
	if idx < 0 {
		return CartItem{}, false
	}

	return c.Items[idx], true
}

// WithItem replaces the line item for item.Product.ID or appends it.
// An item with amount below one removes the line item instead.
func (c Cart) WithItem(item CartItem) Cart {
	if item.Amount < 1 {
		return c.Without(item.Product.ID)
	}

	idx := c.index(item.Product.ID)
	if idx < 0 {
		items := make([]CartItem, 0, len(c.Items)+1)
		items = append(items, c.Items...)
		return Cart{Items: append(items, item)}
	}

	items := slices.Clone(c.Items)
	items[idx] = item

	return Cart{Items: items}
}

// WithAmount returns c unchanged when productID is not in the cart.
func (c Cart) WithAmount(productID int64, amount int) Cart {
	item, ok := c.Find(productID)
	if !ok {
		return c
	}

	item.Amount = amount

	return c.WithItem(item)
}

func (c Cart) Without(productID int64) Cart {
	idx := c.index(productID)
	if idx < 0 {
		return c
	}

	items := make([]CartItem, 0, len(c.Items)-1)
	items = append(items, c.Items[:idx]...)
	items = append(items, c.Items[idx+1:]...)

	return Cart{Items: items}
}

func (c Cart) Clone() Cart {
	return Cart{Items: slices.Clone(c.Items)}
}

// Validate checks the line item invariants: unique product ids and
// amounts of at least one.
func (c Cart) Validate() error {
	seen := make(map[int64]struct{}, len(c.Items))

	for _, item := range c.Items {
		if item.Amount < 1 {
			return fmt.Errorf("product[%d]: amount %d is below 1", item.Product.ID, item.Amount)
		}

		if _, ok := seen[item.Product.ID]; ok {
			return fmt.Errorf("product[%d]: duplicate line item", item.Product.ID)
		}
		seen[item.Product.ID] = struct{}{}
	}

	return nil
}

func (c Cart) index(productID int64) int {
	return slices.IndexFunc(c.Items, func(item CartItem) bool {
		return item.Product.ID == productID
	})
}
