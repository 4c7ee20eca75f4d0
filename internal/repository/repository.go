package repository

import (
	"context"

	"decokart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// CreateOrderAddOns inserts add-on lines within the provided transaction.
	CreateOrderAddOns(ctx context.Context, tx pgx.Tx, addOns []model.OrderAddOn) error

	// GetByID retrieves an order by its ID along with its items and add-ons.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, []model.OrderAddOn, error)

	// GetByTransactionID retrieves an order by the payment transaction id
	// attached at creation, or nil when none exists.
	GetByTransactionID(ctx context.Context, transactionID string) (*model.Order, error)
}

// FeeRepository defines the interface for pin-code service fee lookups.
type FeeRepository interface {
	// ServiceFee returns the delivery service fee for a pin code. Unknown
	// pin codes carry no fee.
	ServiceFee(ctx context.Context, pincode string) (float64, error)

	// SetServiceFee upserts the fee for a pin code.
	SetServiceFee(ctx context.Context, pincode string, fee float64) error
}
