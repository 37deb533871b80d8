package view

import "github.com/nikolayk812/cartstore-demo/internal/domain"

type CatalogEntry struct {
	Product        domain.Product
	PriceFormatted string
	InCart         int
}

// QuantitiesByProduct sums line item amounts per product id.
func QuantitiesByProduct(cart domain.Cart) map[int64]int {
	out := make(map[int64]int, cart.Len())

	for _, item := range cart.Items {
		out[item.Product.ID] += item.Amount
	}

	return out
}

func Catalog(products []domain.Product, cart domain.Cart, f Formatter) []CatalogEntry {
	inCart := QuantitiesByProduct(cart)
	entries := make([]CatalogEntry, 0, len(products))

	for _, p := range products {
		entries = append(entries, CatalogEntry{
			Product:        p,
			PriceFormatted: f.Format(p.Price),
			InCart:         inCart[p.ID],
		})
	}

	return entries
}
