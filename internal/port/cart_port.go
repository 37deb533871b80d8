package port

import (
	"context"

	"github.com/nikolayk812/cartstore-demo/internal/domain"
)

// CartStorage is the persistence slot holding the whole cart snapshot.
// Save always overwrites the slot with the full snapshot.
type CartStorage interface {
	Load(ctx context.Context) (domain.Cart, error)
	Save(ctx context.Context, cart domain.Cart) error
}
