package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"decokart/internal/coupon"
	"decokart/internal/draft"
	"decokart/internal/gateway"
	"decokart/internal/model"
	"decokart/internal/pricing"
	"decokart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// checkoutService implements CheckoutService.
type checkoutService struct {
	orderSvc   OrderService
	feeRepo    repository.FeeRepository
	validator  coupon.Validator
	drafts     draft.Store
	popup      gateway.IntentGateway
	codUpfront float64
	logger     zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	orderSvc OrderService,
	feeRepo repository.FeeRepository,
	validator coupon.Validator,
	drafts draft.Store,
	popup gateway.IntentGateway,
	codUpfront float64,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		orderSvc:   orderSvc,
		feeRepo:    feeRepo,
		validator:  validator,
		drafts:     drafts,
		popup:      popup,
		codUpfront: codUpfront,
		logger:     logger.With().Str("service", "checkout").Logger(),
	}
}

// Quote prices the current cart state. It is safe to call on every input
// change: no side effects, same input gives the same breakdown.
func (s *checkoutService) Quote(ctx context.Context, req *QuoteRequest) (*QuoteResponse, error) {
	if req == nil || len(req.Items) == 0 {
		return nil, fmt.Errorf("quote requires at least one cart item")
	}
	if req.PaymentMethod != "" && !req.PaymentMethod.Valid() {
		return nil, fmt.Errorf("unsupported payment method: %s", req.PaymentMethod)
	}

	subtotal := pricing.Round2(pricing.Subtotal(req.Items, req.AddOns))

	var applied *model.AppliedCoupon
	if req.CouponCode != nil && *req.CouponCode != "" {
		var err error
		applied, err = s.validator.Validate(ctx, *req.CouponCode, subtotal)
		if err != nil {
			return nil, err
		}
	}

	var serviceFee float64
	if req.Pincode != "" {
		var err error
		serviceFee, err = s.feeRepo.ServiceFee(ctx, req.Pincode)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve service fee: %w", err)
		}
	}

	quote := pricing.Compute(pricing.Input{
		Items:         req.Items,
		AddOns:        req.AddOns,
		Coupon:        applied,
		PaymentMethod: req.PaymentMethod,
		CODUpfront:    s.codUpfront,
		ServiceFee:    serviceFee,
	})

	return &QuoteResponse{Quote: quote, Coupon: applied}, nil
}

// Initiate starts a checkout: it validates the form, persists the draft so
// the flow survives a redirect, and sets up the selected payment flow.
func (s *checkoutService) Initiate(ctx context.Context, req *InitiateRequest) (*InitiateResponse, error) {
	if err := s.validateInitiateRequest(req); err != nil {
		return nil, err
	}

	quoteResp, err := s.Quote(ctx, &QuoteRequest{
		Items:         req.Items,
		AddOns:        req.AddOns,
		CouponCode:    req.CouponCode,
		PaymentMethod: req.PaymentMethod,
		Pincode:       req.Form.Address.Pincode,
	})
	if err != nil {
		return nil, err
	}
	quote := quoteResp.Quote

	// COD with no upfront charge needs no online payment step at all: the
	// order is created immediately with everything due on delivery.
	if req.PaymentMethod == model.PaymentMethodCOD && quote.OnlineAmount == 0 {
		order, err := s.orderSvc.CreateOrder(ctx, s.orderRequestFrom(req))
		if err != nil {
			return nil, err
		}
		return &InitiateResponse{
			TransactionID: *order.Order.TransactionID,
			Quote:         quote,
			Order:         order,
		}, nil
	}

	transactionID := newTransactionID()

	checkoutDraft := &model.CheckoutDraft{
		TransactionID: transactionID,
		Form:          req.Form,
		Items:         req.Items,
		AddOns:        req.AddOns,
		Coupon:        quoteResp.Coupon,
		PaymentMethod: req.PaymentMethod,
		ServiceFee:    quote.ServiceFee,
		CreatedAt:     time.Now().UTC(),
	}

	resp := &InitiateResponse{
		TransactionID: transactionID,
		Quote:         quote,
	}

	// Popup flows (online razorpay, and the COD upfront charge) get a
	// gateway intent up front; the redirect flow only needs the
	// transaction id to hand to the hosted page. The intent's gateway
	// order id goes into the draft so completion can only settle with a
	// confirmation for this exact intent.
	switch req.PaymentMethod {
	case model.PaymentMethodRazorpay, model.PaymentMethodCOD:
		intent, err := s.popup.CreateIntent(ctx, quote.OnlineAmount, transactionID)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("transaction_id", transactionID).
				Msg("failed to create payment intent")
			return nil, err
		}
		checkoutDraft.GatewayOrderID = intent.GatewayOrderID
		resp.Intent = intent
	case model.PaymentMethodPhonePe:
		// Reconciliation happens on return via ReconcileService.
	}

	if err := s.drafts.SaveDraft(ctx, checkoutDraft); err != nil {
		return nil, fmt.Errorf("failed to persist checkout draft: %w", err)
	}

	s.logger.Info().
		Str("transaction_id", transactionID).
		Str("payment_method", string(req.PaymentMethod)).
		Float64("online_amount", quote.OnlineAmount).
		Msg("checkout initiated")

	return resp, nil
}

// CompleteRazorpay verifies the popup confirmation and creates the order.
// The order-placed marker makes repeated completions for the same
// transaction settle on the first order.
func (s *checkoutService) CompleteRazorpay(ctx context.Context, req *RazorpayCompletion) (*model.OrderResponse, error) {
	if req == nil || req.TransactionID == "" {
		return nil, fmt.Errorf("transaction id is required")
	}

	if orderID, placed, err := s.drafts.OrderPlaced(ctx, req.TransactionID); err != nil {
		return nil, fmt.Errorf("failed to check order-placed marker: %w", err)
	} else if placed {
		s.logger.Info().
			Str("transaction_id", req.TransactionID).
			Str("order_id", orderID).
			Msg("order already placed for transaction, skipping creation")
		return s.lookupPlacedOrder(ctx, orderID)
	}

	checkoutDraft, err := s.drafts.LoadDraft(ctx, req.TransactionID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("transaction_id", req.TransactionID).
			Msg("no draft for razorpay completion")
		return nil, err
	}

	// The confirmation must name the gateway order created for this draft.
	// A valid signature over some other intent settles nothing here.
	if checkoutDraft.GatewayOrderID == "" || checkoutDraft.GatewayOrderID != req.Verification.GatewayOrderID {
		s.logger.Warn().
			Str("transaction_id", req.TransactionID).
			Str("expected_gateway_order", checkoutDraft.GatewayOrderID).
			Str("confirmed_gateway_order", req.Verification.GatewayOrderID).
			Msg("confirmation does not belong to this transaction")
		return nil, model.ErrSignatureMismatch
	}

	// Never create an order from an unverified confirmation.
	if err := s.popup.VerifyPayment(ctx, req.Verification); err != nil {
		return nil, err
	}

	order, err := s.orderSvc.CreateVerifiedOrder(ctx, s.orderRequestFromDraft(checkoutDraft))
	if err != nil {
		// Payment is verified but the order is not recorded: surface the
		// contact-support path, do not retry behind the customer's back.
		s.logger.Error().
			Err(err).
			Str("transaction_id", req.TransactionID).
			Msg("order creation failed after verified payment")
		return nil, model.ErrReconcileFailed
	}

	// Marker goes up only after the create succeeded; setting it earlier
	// would mask a genuine failure as already-done.
	if err := s.drafts.MarkOrderPlaced(ctx, req.TransactionID, order.Order.ID.String()); err != nil {
		s.logger.Warn().
			Err(err).
			Str("transaction_id", req.TransactionID).
			Msg("failed to set order-placed marker")
	}

	return order, nil
}

// lookupPlacedOrder resolves the marker's order id back into a response.
func (s *checkoutService) lookupPlacedOrder(ctx context.Context, orderID string) (*model.OrderResponse, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, fmt.Errorf("invalid order id in marker: %w", err)
	}
	order, err := s.orderSvc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

// orderRequestFrom builds the order payload for direct (no online payment)
// creation. A transaction id is minted so the confirmation view has one.
func (s *checkoutService) orderRequestFrom(req *InitiateRequest) *model.OrderRequest {
	transactionID := newTransactionID()
	return buildOrderRequest(req.Form, req.Items, req.AddOns, req.CouponCode, req.PaymentMethod, transactionID, false)
}

// orderRequestFromDraft rebuilds the order payload from a persisted draft.
// COD drafts reaching this path had their upfront portion paid online.
func (s *checkoutService) orderRequestFromDraft(d *model.CheckoutDraft) *model.OrderRequest {
	var couponCode *string
	if d.Coupon != nil {
		couponCode = &d.Coupon.Code
	}
	upfrontPaid := d.PaymentMethod == model.PaymentMethodCOD
	return buildOrderRequest(d.Form, d.Items, d.AddOns, couponCode, d.PaymentMethod, d.TransactionID, upfrontPaid)
}

func buildOrderRequest(
	form model.CheckoutForm,
	items []model.CartItem,
	addOns []model.AddOn,
	couponCode *string,
	method model.PaymentMethod,
	transactionID string,
	upfrontPaid bool,
) *model.OrderRequest {
	req := &model.OrderRequest{
		CustomerName:      form.CustomerName,
		CustomerEmail:     form.CustomerEmail,
		CustomerPhone:     form.CustomerPhone,
		Address:           form.Address,
		PaymentMethod:     method,
		CouponCode:        couponCode,
		TransactionID:     &transactionID,
		ScheduledDelivery: form.ScheduledDelivery,
		UpfrontPaid:       upfrontPaid,
	}
	req.Items = make([]model.OrderItemRequest, len(items))
	for i, item := range items {
		req.Items[i] = model.OrderItemRequest(item)
	}
	req.AddOns = make([]model.AddOnRequest, len(addOns))
	for i, a := range addOns {
		req.AddOns[i] = model.AddOnRequest{Name: a.Name, Price: a.Price, Quantity: a.Quantity}
	}
	return req
}

// validateInitiateRequest checks the shipping form before any payment flow
// starts. Field-level issues block initiation entirely.
func (s *checkoutService) validateInitiateRequest(req *InitiateRequest) error {
	if req == nil {
		return fmt.Errorf("initiate request is nil")
	}
	if strings.TrimSpace(req.Form.CustomerName) == "" {
		return fmt.Errorf("customer name is required")
	}
	if strings.TrimSpace(req.Form.CustomerEmail) == "" {
		return fmt.Errorf("customer email is required")
	}
	if strings.TrimSpace(req.Form.CustomerPhone) == "" {
		return fmt.Errorf("customer phone is required")
	}
	if !pincodePattern.MatchString(req.Form.Address.Pincode) {
		return model.ErrInvalidPincode
	}
	if !req.PaymentMethod.Valid() {
		return fmt.Errorf("unsupported payment method: %s", req.PaymentMethod)
	}
	if len(req.Items) == 0 {
		return fmt.Errorf("checkout requires at least one cart item")
	}
	return nil
}

// newTransactionID mints the id that ties draft, gateway intent, and order
// together.
func newTransactionID() string {
	return "TXN-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:16]
}
