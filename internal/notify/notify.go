package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartstore-demo/internal/domain"
	"go.uber.org/zap"
)

// Notification is an ephemeral user-facing message.
type Notification struct {
	ID        uuid.UUID
	Kind      domain.ErrorKind
	Message   string
	CreatedAt time.Time
}

// Queue buffers notifications until they are drained. It keeps at most
// limit entries and drops the oldest ones.
type Queue struct {
	mu      sync.Mutex
	pending []Notification
	limit   int
	logger  *zap.Logger
	now     func() time.Time
}

func NewQueue(logger *zap.Logger, limit int) *Queue {
	if limit <= 0 {
		limit = 32
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Queue{
		limit:  limit,
		logger: logger,
		now:    time.Now,
	}
}

func (q *Queue) Notify(_ context.Context, kind domain.ErrorKind, message string) {
	n := Notification{
		ID:        uuid.New(),
		Kind:      kind,
		Message:   message,
		CreatedAt: q.now(),
	}

	q.mu.Lock()
	q.pending = append(q.pending, n)
	if overflow := len(q.pending) - q.limit; overflow > 0 {
		q.pending = q.pending[overflow:]
	}
	q.mu.Unlock()

	q.logger.Warn("notification",
		zap.Stringer("id", n.ID),
		zap.Stringer("kind", kind),
		zap.String("message", message))
}

// Drain returns pending notifications oldest first and clears the queue.
func (q *Queue) Drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := q.pending
	q.pending = nil

	return out
}
