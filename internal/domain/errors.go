package domain

import (
	"errors"
	"fmt"
)

var (
	ErrProductFetch     = errors.New("product fetch failed")
	ErrProductNotInCart = errors.New("product is not in cart")
	ErrStockFetch       = errors.New("stock fetch failed")
	ErrPersist          = errors.New("cart persist failed")
)

type InsufficientStockError struct {
	ProductID int64
	Amount    int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("product[%d]: requested amount %d exceeds available stock", e.ProductID, e.Amount)
}

// ErrorKind tags the outcome of a cart operation.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindInsufficientStock
	KindProductFetch
	KindProductNotInCart
	KindStockFetch
	KindPersist
	KindUnknown
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInsufficientStock:
		return "insufficient_stock"
	case KindProductFetch:
		return "product_fetch"
	case KindProductNotInCart:
		return "product_not_in_cart"
	case KindStockFetch:
		return "stock_fetch"
	case KindPersist:
		return "persist"
	default:
		return "unknown"
	}
}

func KindOf(err error) ErrorKind {
	var stockErr *InsufficientStockError

	switch {
	case err == nil:
		return KindNone
	case errors.As(err, &stockErr):
		return KindInsufficientStock
	case errors.Is(err, ErrProductFetch):
		return KindProductFetch
	case errors.Is(err, ErrProductNotInCart):
		return KindProductNotInCart
	case errors.Is(err, ErrStockFetch):
		return KindStockFetch
	case errors.Is(err, ErrPersist):
		return KindPersist
	default:
		return KindUnknown
	}
}
