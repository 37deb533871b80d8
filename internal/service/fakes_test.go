package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nikolayk812/cartstore-demo/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var errUnavailable = errors.New("collaborator unavailable")

type fakeCatalog struct {
	products map[int64]domain.Product
	err      error
	calls    int
}

func (c *fakeCatalog) ListProducts(_ context.Context) ([]domain.Product, error) {
	if c.err != nil {
		return nil, c.err
	}

	out := make([]domain.Product, 0, len(c.products))
	for _, p := range c.products {
		out = append(out, p)
	}
	return out, nil
}

func (c *fakeCatalog) GetProduct(_ context.Context, productID int64) (domain.Product, error) {
	c.calls++
	if c.err != nil {
		return domain.Product{}, c.err
	}

	p, ok := c.products[productID]
	if !ok {
		return domain.Product{}, fmt.Errorf("product[%d]: not found", productID)
	}
	return p, nil
}

type fakeInventory struct {
	mu        sync.Mutex
	stock     map[int64]int
	getErr    error
	updateErr error
	updates   map[int64][]int
	// delay stretches every stock lookup to widen race windows.
	delay time.Duration
}

func newFakeInventory(stock map[int64]int) *fakeInventory {
	return &fakeInventory{stock: stock, updates: map[int64][]int{}}
}

func (i *fakeInventory) GetStock(_ context.Context, productID int64) (domain.StockRecord, error) {
	time.Sleep(i.delay)

	i.mu.Lock()
	defer i.mu.Unlock()

	if i.getErr != nil {
		return domain.StockRecord{}, i.getErr
	}

	amount, ok := i.stock[productID]
	if !ok {
		return domain.StockRecord{}, fmt.Errorf("stock[%d]: not found", productID)
	}
	return domain.StockRecord{ProductID: productID, Amount: amount}, nil
}

func (i *fakeInventory) UpdateStock(_ context.Context, productID int64, amount int) (domain.StockRecord, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.updateErr != nil {
		return domain.StockRecord{}, i.updateErr
	}

	i.stock[productID] = amount
	i.updates[productID] = append(i.updates[productID], amount)
	return domain.StockRecord{ProductID: productID, Amount: amount}, nil
}

type failingStorage struct {
	cart    domain.Cart
	saveErr error
}

func (s *failingStorage) Load(_ context.Context) (domain.Cart, error) {
	return s.cart, nil
}

func (s *failingStorage) Save(_ context.Context, _ domain.Cart) error {
	return s.saveErr
}

func product(id int64) domain.Product {
	return domain.Product{
		ID:    id,
		Title: fmt.Sprintf("Tênis %d", id),
		Price: domain.Money{Amount: decimal.NewFromInt(100 + id), Currency: currency.BRL},
		Image: fmt.Sprintf("https://example.com/%d.jpg", id),
	}
}

func catalogOf(ids ...int64) *fakeCatalog {
	products := make(map[int64]domain.Product, len(ids))
	for _, id := range ids {
		products[id] = product(id)
	}
	return &fakeCatalog{products: products}
}
