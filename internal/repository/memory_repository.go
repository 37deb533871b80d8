package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/nikolayk812/cartstore-demo/internal/domain"
)

// MemoryRepository keeps the slot payload in process memory.
type MemoryRepository struct {
	mu   sync.Mutex
	data []byte
}

func NewMemory(seed []byte) *MemoryRepository {
	return &MemoryRepository{data: slices.Clone(seed)}
}

func (r *MemoryRepository) Load(_ context.Context) (domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.data == nil {
		return domain.Cart{}, nil
	}

	cart, err := UnmarshalCart(r.data)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("UnmarshalCart: %w", err)
	}

	return cart, nil
}

func (r *MemoryRepository) Save(_ context.Context, cart domain.Cart) error {
	data, err := MarshalCart(cart)
	if err != nil {
		return fmt.Errorf("MarshalCart: %w", err)
	}

	r.mu.Lock()
	r.data = data
	r.mu.Unlock()

	return nil
}

// Raw returns a copy of the stored payload, nil when nothing was saved.
func (r *MemoryRepository) Raw() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.data)
}
