package port

import (
	"context"

	"github.com/nikolayk812/cartstore-demo/internal/domain"
)

type Catalog interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, productID int64) (domain.Product, error)
}

type Inventory interface {
	GetStock(ctx context.Context, productID int64) (domain.StockRecord, error)
	// UpdateStock sets the available amount for productID.
	UpdateStock(ctx context.Context, productID int64, amount int) (domain.StockRecord, error)
}
