package port

import (
	"context"

	"github.com/nikolayk812/cartstore-demo/internal/domain"
)

type Notifier interface {
	Notify(ctx context.Context, kind domain.ErrorKind, message string)
}
