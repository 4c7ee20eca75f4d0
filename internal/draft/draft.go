// Package draft persists in-progress checkouts across the redirect round
// trip to a hosted payment page. A draft is written before the customer
// leaves for the gateway and read back by the reconciler on return; the
// order-placed marker is the at-most-once guard for order creation.
package draft

import (
	"context"

	"decokart/internal/model"
)

// Store is the pending-transaction store.
type Store interface {
	// SaveDraft persists a checkout draft keyed by its transaction id.
	SaveDraft(ctx context.Context, draft *model.CheckoutDraft) error

	// LoadDraft returns the draft for a transaction id, or
	// model.ErrDraftNotFound if none exists (or it expired).
	LoadDraft(ctx context.Context, transactionID string) (*model.CheckoutDraft, error)

	// DeleteDraft removes the draft for a transaction id. Deleting a
	// missing draft is not an error.
	DeleteDraft(ctx context.Context, transactionID string) error

	// MarkOrderPlaced records that an order was created for the
	// transaction. The order id is kept so a repeated reconciliation can
	// still route to the confirmation view.
	MarkOrderPlaced(ctx context.Context, transactionID, orderID string) error

	// OrderPlaced reports whether an order was already created for the
	// transaction, returning the recorded order id when it was.
	OrderPlaced(ctx context.Context, transactionID string) (string, bool, error)

	// IncrementPollAttempts bumps and returns the status-poll attempt
	// counter for the transaction.
	IncrementPollAttempts(ctx context.Context, transactionID string) (int, error)
}
