package service

import "github.com/nikolayk812/cartstore-demo/internal/domain"

const (
	MsgInsufficientStock = "requested quantity exceeds available stock"
	MsgAddFailed         = "could not add product"
	MsgRemoveFailed      = "could not remove product"
	MsgUpdateFailed      = "could not update product amount"
)

// Outcome is the result of a cart operation. Failures are already reported
// to the notifier when an Outcome is returned; Err is informational.
type Outcome struct {
	// Cart is the current snapshot after the operation.
	Cart domain.Cart
	// Changed reports whether the snapshot was replaced.
	Changed bool
	Kind    domain.ErrorKind
	Err     error
}

func (o Outcome) Failed() bool {
	return o.Kind != domain.KindNone
}
