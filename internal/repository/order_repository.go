package repository

import (
	"context"
	"errors"
	"fmt"

	"decokart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (
			id, custom_order_id, customer_name, customer_email, customer_phone,
			street, city, pincode, country,
			total_amount, shipping_cost, cod_extra_charge, service_fee, final_total,
			payment_method, payment_status, coupon_code, transaction_id,
			scheduled_delivery, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`

	_, err := tx.Exec(ctx, query,
		order.ID, order.CustomOrderID, order.CustomerName, order.CustomerEmail, order.CustomerPhone,
		order.Address.Street, order.Address.City, order.Address.Pincode, order.Address.Country,
		order.TotalAmount, order.ShippingCost, order.CODExtraCharge, order.ServiceFee, order.FinalTotal,
		order.PaymentMethod, order.PaymentStatus, order.CouponCode, order.TransactionID,
		order.ScheduledDelivery, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Str("custom_order_id", order.CustomOrderID).
		Msg("order created successfully")

	return nil
}

// CreateOrderItems inserts multiple order items within the provided transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, product_id, name, quantity, price, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.ID, item.OrderID, item.ProductID, item.Name, item.Quantity, item.Price, item.Image)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		_, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Str("product_id", items[i].ProductID).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items created successfully")

	return nil
}

// CreateOrderAddOns inserts add-on lines within the provided transaction.
func (r *orderRepository) CreateOrderAddOns(ctx context.Context, tx pgx.Tx, addOns []model.OrderAddOn) error {
	if len(addOns) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_addons (id, order_id, name, price, quantity)
		VALUES ($1, $2, $3, $4, $5)
	`

	batch := &pgx.Batch{}
	for _, addOn := range addOns {
		batch.Queue(query, addOn.ID, addOn.OrderID, addOn.Name, addOn.Price, addOn.Quantity)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(addOns); i++ {
		_, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", addOns[i].OrderID.String()).
				Str("name", addOns[i].Name).
				Msg("failed to create order add-on")
			return fmt.Errorf("failed to create order add-on: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(addOns)).
		Msg("order add-ons created successfully")

	return nil
}

// GetByID retrieves an order by its ID along with its items and add-ons.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, []model.OrderAddOn, error) {
	order, err := r.queryOrder(ctx, "WHERE id = $1", id)
	if err != nil {
		return nil, nil, nil, err
	}
	if order == nil {
		r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, nil, nil, nil
	}

	items, err := r.queryItems(ctx, order.ID)
	if err != nil {
		return nil, nil, nil, err
	}

	addOns, err := r.queryAddOns(ctx, order.ID)
	if err != nil {
		return nil, nil, nil, err
	}

	return order, items, addOns, nil
}

// GetByTransactionID retrieves an order by payment transaction id.
func (r *orderRepository) GetByTransactionID(ctx context.Context, transactionID string) (*model.Order, error) {
	return r.queryOrder(ctx, "WHERE transaction_id = $1", transactionID)
}

func (r *orderRepository) queryOrder(ctx context.Context, where string, arg any) (*model.Order, error) {
	query := `
		SELECT id, custom_order_id, customer_name, customer_email, customer_phone,
		       street, city, pincode, country,
		       total_amount, shipping_cost, cod_extra_charge, service_fee, final_total,
		       payment_method, payment_status, coupon_code, transaction_id,
		       scheduled_delivery, created_at, updated_at
		FROM orders
	` + where

	var order model.Order
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&order.ID, &order.CustomOrderID, &order.CustomerName, &order.CustomerEmail, &order.CustomerPhone,
		&order.Address.Street, &order.Address.City, &order.Address.Pincode, &order.Address.Country,
		&order.TotalAmount, &order.ShippingCost, &order.CODExtraCharge, &order.ServiceFee, &order.FinalTotal,
		&order.PaymentMethod, &order.PaymentStatus, &order.CouponCode, &order.TransactionID,
		&order.ScheduledDelivery, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return &order, nil
}

func (r *orderRepository) queryItems(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, name, quantity, price, image
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", orderID.String()).
			Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.Quantity, &item.Price, &item.Image)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}

func (r *orderRepository) queryAddOns(ctx context.Context, orderID uuid.UUID) ([]model.OrderAddOn, error) {
	query := `
		SELECT id, order_id, name, price, quantity
		FROM order_addons
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", orderID.String()).
			Msg("failed to query order add-ons")
		return nil, fmt.Errorf("failed to query order add-ons: %w", err)
	}
	defer rows.Close()

	var addOns []model.OrderAddOn
	for rows.Next() {
		var addOn model.OrderAddOn
		err := rows.Scan(&addOn.ID, &addOn.OrderID, &addOn.Name, &addOn.Price, &addOn.Quantity)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order add-on row")
			return nil, fmt.Errorf("failed to scan order add-on: %w", err)
		}
		addOns = append(addOns, addOn)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order add-on rows")
		return nil, fmt.Errorf("error iterating order add-ons: %w", err)
	}

	return addOns, nil
}
