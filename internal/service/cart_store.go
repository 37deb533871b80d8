package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/nikolayk812/cartstore-demo/internal/domain"
	"github.com/nikolayk812/cartstore-demo/internal/port"
	"go.uber.org/zap"
)

type Deps struct {
	Storage   port.CartStorage
	Catalog   port.Catalog
	Inventory port.Inventory
	Notifier  port.Notifier
	Logger    *zap.Logger
}

type Options struct {
	// StockWriteBack makes cart mutations adjust the inventory stock.
	// Disabled, the write path is a no-op.
	StockWriteBack bool
}

// CartStore owns the current cart snapshot. Mutations are serialized and
// every new snapshot is persisted before it becomes current.
type CartStore struct {
	mu   sync.Mutex
	cart domain.Cart

	storage   port.CartStorage
	catalog   port.Catalog
	inventory port.Inventory
	notifier  port.Notifier
	logger    *zap.Logger
	opts      Options
}

// NewCartStore hydrates the store from the persistence slot.
func NewCartStore(ctx context.Context, deps Deps, opts Options) (*CartStore, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cart, err := deps.Storage.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage.Load: %w", err)
	}

	logger.Info("cart hydrated",
		zap.Int("items", cart.Len()),
		zap.Bool("stock_write_back", opts.StockWriteBack))

	return &CartStore{
		cart:      cart,
		storage:   deps.Storage,
		catalog:   deps.Catalog,
		inventory: deps.Inventory,
		notifier:  deps.Notifier,
		logger:    logger,
		opts:      opts,
	}, nil
}

// Cart returns the current snapshot.
func (s *CartStore) Cart() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.Clone()
}

func (s *CartStore) AddProduct(ctx context.Context, productID int64) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.addProduct(ctx, productID)
	if err != nil {
		return s.fail(ctx, err, MsgAddFailed)
	}

	if err := s.commit(ctx, next); err != nil {
		return s.fail(ctx, err, MsgAddFailed)
	}

	s.writeBack(ctx, productID, -1)

	return s.changed()
}

func (s *CartStore) addProduct(ctx context.Context, productID int64) (domain.Cart, error) {
	if item, ok := s.cart.Find(productID); ok {
		amount := item.Amount + 1

		if err := s.verifyStock(ctx, productID, amount); err != nil {
			return domain.Cart{}, err
		}

		return s.cart.WithAmount(productID, amount), nil
	}

	if err := s.verifyStock(ctx, productID, 1); err != nil {
		return domain.Cart{}, err
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("catalog.GetProduct: %w: %w", domain.ErrProductFetch, err)
	}

	return s.cart.WithItem(domain.CartItem{Product: product, Amount: 1}), nil
}

func (s *CartStore) RemoveProduct(ctx context.Context, productID int64) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.cart.Find(productID)
	if !ok {
		return s.fail(ctx, fmt.Errorf("product[%d]: %w", productID, domain.ErrProductNotInCart), MsgRemoveFailed)
	}

	if err := s.commit(ctx, s.cart.Without(productID)); err != nil {
		return s.fail(ctx, err, MsgRemoveFailed)
	}

	s.writeBack(ctx, productID, item.Amount)

	return s.changed()
}

// UpdateProductAmount sets the absolute amount of a line item. Amounts
// below one are ignored; removal goes through RemoveProduct.
func (s *CartStore) UpdateProductAmount(ctx context.Context, productID int64, amount int) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.updateProductAmount(ctx, productID, amount)
}

// StepProductAmount moves the amount of a line item by delta. The current
// amount is read under the same lock as the update, so concurrent steps
// never lose each other. A step to zero is a no-op like any amount below one.
func (s *CartStore) StepProductAmount(ctx context.Context, productID int64, delta int) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current int
	if item, ok := s.cart.Find(productID); ok {
		current = item.Amount
	}

	return s.updateProductAmount(ctx, productID, current+delta)
}

func (s *CartStore) updateProductAmount(ctx context.Context, productID int64, amount int) Outcome {
	if amount <= 0 {
		return Outcome{Cart: s.cart.Clone()}
	}

	if err := s.verifyStock(ctx, productID, amount); err != nil {
		return s.fail(ctx, err, MsgUpdateFailed)
	}

	item, ok := s.cart.Find(productID)
	if !ok {
		return Outcome{Cart: s.cart.Clone()}
	}

	if err := s.commit(ctx, s.cart.WithAmount(productID, amount)); err != nil {
		return s.fail(ctx, err, MsgUpdateFailed)
	}

	s.writeBack(ctx, productID, item.Amount-amount)

	return s.changed()
}

func (s *CartStore) verifyStock(ctx context.Context, productID int64, amount int) error {
	stock, err := s.inventory.GetStock(ctx, productID)
	if err != nil {
		return fmt.Errorf("inventory.GetStock: %w: %w", domain.ErrStockFetch, err)
	}

	if !stock.Covers(amount) {
		return &domain.InsufficientStockError{ProductID: productID, Amount: amount}
	}

	return nil
}

// commit persists next and only then makes it current.
func (s *CartStore) commit(ctx context.Context, next domain.Cart) error {
	if err := s.storage.Save(ctx, next); err != nil {
		return fmt.Errorf("storage.Save: %w: %w", domain.ErrPersist, err)
	}

	s.cart = next

	return nil
}

// writeBack adjusts inventory stock by delta. Failures are logged and never
// undo the cart mutation.
func (s *CartStore) writeBack(ctx context.Context, productID int64, delta int) {
	if !s.opts.StockWriteBack || delta == 0 {
		return
	}

	stock, err := s.inventory.GetStock(ctx, productID)
	if err != nil {
		s.logger.Warn("stock write-back skipped", zap.Int64("product_id", productID), zap.Error(err))
		return
	}

	if _, err := s.inventory.UpdateStock(ctx, productID, stock.Amount+delta); err != nil {
		s.logger.Warn("stock write-back failed",
			zap.Int64("product_id", productID),
			zap.Int("delta", delta),
			zap.Error(err))
	}
}

func (s *CartStore) fail(ctx context.Context, err error, generic string) Outcome {
	kind := domain.KindOf(err)

	message := generic
	if kind == domain.KindInsufficientStock {
		message = MsgInsufficientStock
	}

	s.notifier.Notify(ctx, kind, message)
	s.logger.Info("cart operation failed", zap.Stringer("kind", kind), zap.Error(err))

	return Outcome{
		Cart: s.cart.Clone(),
		Kind: kind,
		Err:  err,
	}
}

func (s *CartStore) changed() Outcome {
	return Outcome{
		Cart:    s.cart.Clone(),
		Changed: true,
	}
}
