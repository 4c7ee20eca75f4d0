package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"decokart/internal/coupon"
	"decokart/internal/draft"
	"decokart/internal/model"
	"decokart/internal/pricing"
	"decokart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)

// orderService implements OrderService.
type orderService struct {
	orderRepo  repository.OrderRepository
	feeRepo    repository.FeeRepository
	validator  coupon.Validator
	drafts     draft.Store
	codUpfront float64
	logger     zerolog.Logger
}

// NewOrderService creates a new order service. codUpfront is the flat
// upfront charge collected online for COD orders (0 disables it).
func NewOrderService(
	orderRepo repository.OrderRepository,
	feeRepo repository.FeeRepository,
	validator coupon.Validator,
	drafts draft.Store,
	codUpfront float64,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:  orderRepo,
		feeRepo:    feeRepo,
		validator:  validator,
		drafts:     drafts,
		codUpfront: codUpfront,
		logger:     logger.With().Str("service", "order").Logger(),
	}
}

// CreateOrder handles direct submissions. The payment status of a direct
// order is never taken from the request: only COD with nothing paid upfront
// is accepted, so the order can only ever be tagged pending. Paid statuses
// are reachable solely through CreateVerifiedOrder.
func (s *orderService) CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error) {
	if err := s.validateOrderRequest(req); err != nil {
		return nil, err
	}
	if req.PaymentMethod != model.PaymentMethodCOD || req.UpfrontPaid {
		s.logger.Warn().
			Str("payment_method", string(req.PaymentMethod)).
			Bool("upfront_paid", req.UpfrontPaid).
			Msg("direct submission claimed a paid status")
		return nil, model.ErrPaymentNotVerified
	}
	return s.create(ctx, req)
}

// CreateVerifiedOrder persists an order on behalf of a payment flow that
// has already verified the charge with the gateway.
func (s *orderService) CreateVerifiedOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error) {
	if err := s.validateOrderRequest(req); err != nil {
		return nil, err
	}
	return s.create(ctx, req)
}

// create recomputes totals server-side so a tampered client cannot underpay,
// then persists the order, its items, and its add-ons in one transaction.
func (s *orderService) create(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error) {

	items := make([]model.CartItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = model.CartItem(item)
	}
	addOns := make([]model.AddOn, len(req.AddOns))
	for i, a := range req.AddOns {
		addOns[i] = model.AddOn{Name: a.Name, Price: a.Price, Quantity: a.Quantity}
	}

	subtotal := pricing.Round2(pricing.Subtotal(items, addOns))

	// Validate coupon against the recomputed subtotal if provided
	var applied *model.AppliedCoupon
	if req.CouponCode != nil && *req.CouponCode != "" {
		var err error
		applied, err = s.validator.Validate(ctx, *req.CouponCode, subtotal)
		if err != nil {
			s.logger.Warn().
				Str("coupon_code", *req.CouponCode).
				Err(err).
				Msg("invalid coupon code")
			return nil, err
		}
		s.logger.Debug().Str("coupon_code", applied.Code).Msg("coupon code validated")
	}

	serviceFee, err := s.feeRepo.ServiceFee(ctx, req.Address.Pincode)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve service fee: %w", err)
	}

	quote := pricing.Compute(pricing.Input{
		Items:         items,
		AddOns:        addOns,
		Coupon:        applied,
		PaymentMethod: req.PaymentMethod,
		CODUpfront:    s.codUpfront,
		ServiceFee:    serviceFee,
	})

	// Start transaction
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	now := time.Now()
	order := &model.Order{
		ID:                uuid.New(),
		CustomOrderID:     newCustomOrderID(now),
		CustomerName:      strings.TrimSpace(req.CustomerName),
		CustomerEmail:     strings.TrimSpace(req.CustomerEmail),
		CustomerPhone:     strings.TrimSpace(req.CustomerPhone),
		Address:           req.Address,
		TotalAmount:       quote.Subtotal,
		ShippingCost:      quote.ShippingCost,
		CODExtraCharge:    quote.CODExtraCharge,
		ServiceFee:        quote.ServiceFee,
		FinalTotal:        quote.FinalTotal,
		PaymentMethod:     req.PaymentMethod,
		PaymentStatus:     paymentStatusFor(req),
		TransactionID:     req.TransactionID,
		ScheduledDelivery: req.ScheduledDelivery,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if applied != nil {
		order.CouponCode = &applied.Code
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	orderItems := make([]model.OrderItem, len(req.Items))
	for i, item := range req.Items {
		orderItems[i] = model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Image:     item.Image,
		}
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, orderItems); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(orderItems)).
			Msg("failed to create order items")
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	orderAddOns := make([]model.OrderAddOn, len(req.AddOns))
	for i, a := range req.AddOns {
		orderAddOns[i] = model.OrderAddOn{
			ID:       uuid.New(),
			OrderID:  order.ID,
			Name:     a.Name,
			Price:    a.Price,
			Quantity: a.Quantity,
		}
	}

	if err = s.orderRepo.CreateOrderAddOns(ctx, tx, orderAddOns); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("addon_count", len(orderAddOns)).
			Msg("failed to create order add-ons")
		return nil, fmt.Errorf("failed to create order add-ons: %w", err)
	}

	// Commit transaction
	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Post-commit bookkeeping: redemption count and draft cleanup. The
	// order exists either way, so failures here are logged, not returned.
	if applied != nil {
		if applyErr := s.validator.Apply(ctx, applied.Code); applyErr != nil {
			s.logger.Warn().Err(applyErr).Str("coupon_code", applied.Code).Msg("failed to record coupon redemption")
		}
	}
	if req.TransactionID != nil && *req.TransactionID != "" {
		if delErr := s.drafts.DeleteDraft(ctx, *req.TransactionID); delErr != nil {
			s.logger.Warn().Err(delErr).Str("transaction_id", *req.TransactionID).Msg("failed to delete checkout draft")
		}
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("custom_order_id", order.CustomOrderID).
		Str("payment_status", string(order.PaymentStatus)).
		Float64("final_total", order.FinalTotal).
		Int("item_count", len(orderItems)).
		Msg("order created successfully")

	return &model.OrderResponse{
		Order:  *order,
		Items:  orderItems,
		AddOns: orderAddOns,
	}, nil
}

// GetByID retrieves an order by its ID with items and add-ons.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	order, items, addOns, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, nil
	}

	return &model.OrderResponse{
		Order:  *order,
		Items:  items,
		AddOns: addOns,
	}, nil
}

// GetByTransactionID retrieves the order recorded for a payment transaction.
// Returns nil when no order carries the transaction id.
func (s *orderService) GetByTransactionID(ctx context.Context, transactionID string) (*model.OrderResponse, error) {
	order, err := s.orderRepo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		s.logger.Error().Err(err).Str("transaction_id", transactionID).Msg("failed to get order by transaction id")
		return nil, fmt.Errorf("failed to get order by transaction id: %w", err)
	}
	if order == nil {
		return nil, nil
	}
	return s.GetByID(ctx, order.ID)
}

// paymentStatusFor tags the order per payment method and upfront state.
func paymentStatusFor(req *model.OrderRequest) model.PaymentStatus {
	if req.PaymentMethod != model.PaymentMethodCOD {
		return model.PaymentStatusCompleted
	}
	if req.UpfrontPaid {
		return model.PaymentStatusPartial
	}
	return model.PaymentStatusPending
}

// newCustomOrderID builds the human-readable order reference shown to
// customers and support.
func newCustomOrderID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("DK-%s-%s", now.Format("20060102"), suffix)
}

// validateOrderRequest validates the order request.
func (s *orderService) validateOrderRequest(req *model.OrderRequest) error {
	if req == nil {
		return fmt.Errorf("order request is nil")
	}

	if strings.TrimSpace(req.CustomerName) == "" {
		return fmt.Errorf("customer name is required")
	}
	if strings.TrimSpace(req.CustomerEmail) == "" {
		return fmt.Errorf("customer email is required")
	}
	if strings.TrimSpace(req.CustomerPhone) == "" {
		return fmt.Errorf("customer phone is required")
	}
	if strings.TrimSpace(req.Address.Street) == "" || strings.TrimSpace(req.Address.City) == "" {
		return fmt.Errorf("shipping address is required")
	}
	if !pincodePattern.MatchString(req.Address.Pincode) {
		return model.ErrInvalidPincode
	}

	if !req.PaymentMethod.Valid() {
		return fmt.Errorf("unsupported payment method: %s", req.PaymentMethod)
	}

	if len(req.Items) == 0 {
		return fmt.Errorf("order must contain at least one item")
	}

	for i, item := range req.Items {
		if item.ProductID == "" {
			return fmt.Errorf("item %d: product ID is required", i)
		}
		if item.Quantity <= 0 {
			s.logger.Warn().
				Int("item_index", i).
				Str("product_id", item.ProductID).
				Int("quantity", item.Quantity).
				Msg("invalid quantity")
			return model.ErrInvalidQuantity
		}
		if item.Price < 0 {
			return fmt.Errorf("item %d: price cannot be negative", i)
		}
	}

	for i, addOn := range req.AddOns {
		if addOn.Name == "" {
			return fmt.Errorf("add-on %d: name is required", i)
		}
		if addOn.Quantity <= 0 {
			return model.ErrInvalidQuantity
		}
	}

	return nil
}
