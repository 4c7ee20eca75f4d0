package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"decokart/internal/draft"
	"decokart/internal/gateway"
	"decokart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultPollBudget is how many status polls a transaction gets before
// further retries are refused and the customer is pointed at their orders
// page.
const DefaultPollBudget = 3

// reconcileService implements ReconcileService for redirect-flow returns.
type reconcileService struct {
	orderSvc   OrderService
	drafts     draft.Store
	redirect   gateway.RedirectGateway
	pollBudget int
	logger     zerolog.Logger

	// inFlight serialises reconciliation per transaction so the order
	// submission can never run concurrently with itself.
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewReconcileService creates a new reconciliation service.
func NewReconcileService(
	orderSvc OrderService,
	drafts draft.Store,
	redirect gateway.RedirectGateway,
	pollBudget int,
	logger zerolog.Logger,
) ReconcileService {
	if pollBudget <= 0 {
		pollBudget = DefaultPollBudget
	}
	return &reconcileService{
		orderSvc:   orderSvc,
		drafts:     drafts,
		redirect:   redirect,
		pollBudget: pollBudget,
		logger:     logger.With().Str("service", "reconcile").Logger(),
		inFlight:   make(map[string]struct{}),
	}
}

// Reconcile settles a redirect-flow transaction after the customer returns.
//
// The sequence is fixed: marker check first (already-ordered short-circuits
// everything), then the draft must exist, then the gateway is polled, and
// only a confirmed success creates the order. The marker is set immediately
// after a successful create, never before.
func (s *reconcileService) Reconcile(ctx context.Context, transactionID string) (*ReconcileResult, error) {
	if transactionID == "" {
		return nil, fmt.Errorf("transaction id is required")
	}

	if !s.acquire(transactionID) {
		return nil, model.ErrReconcileInFlight
	}
	defer s.release(transactionID)

	// Step 1+2: already-ordered short-circuit. The customer still lands on
	// the confirmation view, backed by the order recorded earlier.
	orderID, placed, err := s.drafts.OrderPlaced(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to check order-placed marker: %w", err)
	}
	if placed {
		s.logger.Info().
			Str("transaction_id", transactionID).
			Str("order_id", orderID).
			Msg("transaction already reconciled")
		order, err := s.lookupOrder(ctx, orderID)
		if err != nil {
			return nil, err
		}
		return &ReconcileResult{
			Status:        gateway.StatusSuccess,
			Order:         order,
			AlreadyPlaced: true,
		}, nil
	}

	// Step 3: without the draft there is nothing to reconstruct the order
	// from. A committed order deletes its draft, so before declaring the
	// flow dead check whether an order already carries this transaction:
	// that is the exact state left behind when the marker write failed
	// after a successful create.
	checkoutDraft, err := s.drafts.LoadDraft(ctx, transactionID)
	if err != nil {
		if errors.Is(err, model.ErrDraftNotFound) {
			if result, found := s.recoverPlacedOrder(ctx, transactionID); found {
				return result, nil
			}
		}
		s.logger.Error().
			Err(err).
			Str("transaction_id", transactionID).
			Msg("draft missing on redirect return")
		return nil, err
	}

	attempts, err := s.drafts.IncrementPollAttempts(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to count poll attempt: %w", err)
	}
	if attempts > s.pollBudget {
		s.logger.Warn().
			Str("transaction_id", transactionID).
			Int("attempts", attempts).
			Msg("poll budget exhausted")
		return nil, model.ErrRetriesExhausted
	}

	status, err := s.redirect.Status(ctx, transactionID)
	if err != nil {
		// Transport trouble, not a gateway verdict: the caller may retry
		// within the remaining budget.
		return nil, err
	}

	result := &ReconcileResult{
		Status:            status,
		AttemptsRemaining: s.pollBudget - attempts,
	}

	if status != gateway.StatusSuccess {
		s.logger.Info().
			Str("transaction_id", transactionID).
			Str("status", string(status)).
			Int("attempts_remaining", result.AttemptsRemaining).
			Msg("payment not settled")
		return result, nil
	}

	// Step 4: confirmed success, create the order exactly once.
	order, err := s.orderSvc.CreateVerifiedOrder(ctx, s.orderRequestFromDraft(checkoutDraft))
	if err != nil {
		// The customer has paid but no order exists. Surfacing
		// contact-support beats silently retrying into a double charge.
		s.logger.Error().
			Err(err).
			Str("transaction_id", transactionID).
			Msg("order creation failed after confirmed payment")
		return nil, model.ErrReconcileFailed
	}

	if err := s.drafts.MarkOrderPlaced(ctx, transactionID, order.Order.ID.String()); err != nil {
		s.logger.Warn().
			Err(err).
			Str("transaction_id", transactionID).
			Msg("failed to set order-placed marker")
	}

	s.logger.Info().
		Str("transaction_id", transactionID).
		Str("order_id", order.Order.ID.String()).
		Msg("redirect payment reconciled")

	result.Order = order
	return result, nil
}

// orderRequestFromDraft rebuilds the order payload from the persisted
// draft. Redirect-flow payments settle the full amount online.
func (s *reconcileService) orderRequestFromDraft(d *model.CheckoutDraft) *model.OrderRequest {
	var couponCode *string
	if d.Coupon != nil {
		couponCode = &d.Coupon.Code
	}
	return buildOrderRequest(d.Form, d.Items, d.AddOns, couponCode, d.PaymentMethod, d.TransactionID, false)
}

// recoverPlacedOrder resolves a missing-draft return against the order
// table. When an order already carries the transaction id, the marker is
// re-pointed at it and the caller gets the usual already-placed result.
func (s *reconcileService) recoverPlacedOrder(ctx context.Context, transactionID string) (*ReconcileResult, bool) {
	order, err := s.orderSvc.GetByTransactionID(ctx, transactionID)
	if err != nil || order == nil {
		return nil, false
	}

	if markErr := s.drafts.MarkOrderPlaced(ctx, transactionID, order.Order.ID.String()); markErr != nil {
		s.logger.Warn().
			Err(markErr).
			Str("transaction_id", transactionID).
			Msg("failed to restore order-placed marker")
	}

	s.logger.Info().
		Str("transaction_id", transactionID).
		Str("order_id", order.Order.ID.String()).
		Msg("recovered placed order for missing draft")

	return &ReconcileResult{
		Status:        gateway.StatusSuccess,
		Order:         order,
		AlreadyPlaced: true,
	}, true
}

func (s *reconcileService) lookupOrder(ctx context.Context, orderID string) (*model.OrderResponse, error) {
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

func (s *reconcileService) acquire(transactionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[transactionID]; busy {
		return false
	}
	s.inFlight[transactionID] = struct{}{}
	return true
}

func (s *reconcileService) release(transactionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, transactionID)
}
