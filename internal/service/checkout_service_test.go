package service

import (
	"context"
	"errors"
	"testing"

	"decokart/internal/draft"
	"decokart/internal/gateway"
	"decokart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validInitiateRequest(method model.PaymentMethod) *InitiateRequest {
	return &InitiateRequest{
		Form: model.CheckoutForm{
			CustomerName:  "Asha Verma",
			CustomerEmail: "asha@example.com",
			CustomerPhone: "9876543210",
			Address: model.Address{
				Street:  "12 MG Road",
				City:    "Delhi",
				Pincode: "110001",
				Country: "India",
			},
		},
		Items: []model.CartItem{
			{ProductID: "P001", Name: "Birthday decor kit", Quantity: 1, Price: 2000},
		},
		PaymentMethod: method,
	}
}

type checkoutFixture struct {
	orderSvc  *MockOrderService
	feeRepo   *MockFeeRepository
	validator *MockCouponValidator
	drafts    draft.Store
	popup     *MockIntentGateway
	service   CheckoutService
}

func newCheckoutFixture(codUpfront float64) *checkoutFixture {
	f := &checkoutFixture{
		orderSvc:  new(MockOrderService),
		feeRepo:   new(MockFeeRepository),
		validator: new(MockCouponValidator),
		drafts:    draft.NewMemoryStore(),
		popup:     new(MockIntentGateway),
	}
	f.service = NewCheckoutService(f.orderSvc, f.feeRepo, f.validator, f.drafts, f.popup, codUpfront, zerolog.Nop())
	return f
}

func TestCheckoutService_Quote_WithCouponAndFee(t *testing.T) {
	f := newCheckoutFixture(39)
	ctx := context.Background()

	couponCode := "SAVE10"
	applied := &model.AppliedCoupon{Code: "SAVE10", DiscountAmount: 200, FinalPrice: 1800, DiscountPercentage: 10}

	f.validator.On("Validate", ctx, "SAVE10", 2000.0).Return(applied, nil)
	f.feeRepo.On("ServiceFee", ctx, "110001").Return(50.0, nil)

	resp, err := f.service.Quote(ctx, &QuoteRequest{
		Items: []model.CartItem{
			{ProductID: "P001", Name: "Birthday decor kit", Quantity: 1, Price: 2000},
		},
		CouponCode:    &couponCode,
		PaymentMethod: model.PaymentMethodRazorpay,
		Pincode:       "110001",
	})

	require.NoError(t, err)
	assert.Equal(t, 2000.0, resp.Quote.Subtotal)
	assert.Equal(t, 200.0, resp.Quote.Discount)
	assert.Equal(t, 50.0, resp.Quote.ServiceFee)
	assert.Equal(t, 1850.0, resp.Quote.FinalTotal)
	assert.Equal(t, 1850.0, resp.Quote.OnlineAmount)
	assert.Equal(t, applied, resp.Coupon)
}

func TestCheckoutService_Quote_CODSplitsOnlineAmount(t *testing.T) {
	f := newCheckoutFixture(39)
	ctx := context.Background()

	resp, err := f.service.Quote(ctx, &QuoteRequest{
		Items: []model.CartItem{
			{ProductID: "P002", Name: "Balloon arch", Quantity: 1, Price: 500},
		},
		PaymentMethod: model.PaymentMethodCOD,
	})

	require.NoError(t, err)
	assert.Equal(t, 39.0, resp.Quote.CODExtraCharge)
	assert.Equal(t, 539.0, resp.Quote.FinalTotal)
	assert.Equal(t, 39.0, resp.Quote.OnlineAmount)
	assert.Equal(t, 500.0, resp.Quote.DueOnDelivery)
}

func TestCheckoutService_Quote_EmptyCart(t *testing.T) {
	f := newCheckoutFixture(0)

	resp, err := f.service.Quote(context.Background(), &QuoteRequest{})

	require.Error(t, err)
	assert.Nil(t, resp)
}

func TestCheckoutService_Initiate_Razorpay(t *testing.T) {
	f := newCheckoutFixture(39)
	ctx := context.Background()

	f.feeRepo.On("ServiceFee", ctx, "110001").Return(0.0, nil)
	intent := &gateway.Intent{GatewayOrderID: "order_ABC", KeyID: "rzp_key", Amount: 200000, Currency: "INR"}
	f.popup.On("CreateIntent", ctx, 2000.0, mock.AnythingOfType("string")).Return(intent, nil)

	resp, err := f.service.Initiate(ctx, validInitiateRequest(model.PaymentMethodRazorpay))

	require.NoError(t, err)
	assert.NotEmpty(t, resp.TransactionID)
	assert.Equal(t, intent, resp.Intent)
	assert.Nil(t, resp.Order)

	// The draft must be retrievable for completion later, bound to the
	// gateway order the intent created.
	saved, err := f.drafts.LoadDraft(ctx, resp.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentMethodRazorpay, saved.PaymentMethod)
	assert.Equal(t, "order_ABC", saved.GatewayOrderID)
	assert.Len(t, saved.Items, 1)
}

func TestCheckoutService_Initiate_PhonePe_NoIntent(t *testing.T) {
	f := newCheckoutFixture(39)
	ctx := context.Background()

	f.feeRepo.On("ServiceFee", ctx, "110001").Return(0.0, nil)

	resp, err := f.service.Initiate(ctx, validInitiateRequest(model.PaymentMethodPhonePe))

	require.NoError(t, err)
	assert.NotEmpty(t, resp.TransactionID)
	assert.Nil(t, resp.Intent)

	_, err = f.drafts.LoadDraft(ctx, resp.TransactionID)
	assert.NoError(t, err)
	f.popup.AssertNotCalled(t, "CreateIntent", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutService_Initiate_CODUpfront_ChargesUpfrontOnly(t *testing.T) {
	f := newCheckoutFixture(39)
	ctx := context.Background()

	f.feeRepo.On("ServiceFee", ctx, "110001").Return(0.0, nil)
	intent := &gateway.Intent{GatewayOrderID: "order_COD", KeyID: "rzp_key", Amount: 3900, Currency: "INR"}
	f.popup.On("CreateIntent", ctx, 39.0, mock.AnythingOfType("string")).Return(intent, nil)

	resp, err := f.service.Initiate(ctx, validInitiateRequest(model.PaymentMethodCOD))

	require.NoError(t, err)
	assert.Equal(t, intent, resp.Intent)
	assert.Equal(t, 39.0, resp.Quote.OnlineAmount)
}

func TestCheckoutService_Initiate_CODWithoutUpfront_CreatesOrderDirectly(t *testing.T) {
	f := newCheckoutFixture(0)
	ctx := context.Background()

	transactionID := "TXN-DIRECT"
	created := &model.OrderResponse{
		Order: model.Order{
			ID:            uuid.New(),
			PaymentStatus: model.PaymentStatusPending,
			TransactionID: &transactionID,
		},
	}

	f.feeRepo.On("ServiceFee", ctx, "110001").Return(0.0, nil)
	f.orderSvc.On("CreateOrder", ctx, mock.MatchedBy(func(req *model.OrderRequest) bool {
		return req.PaymentMethod == model.PaymentMethodCOD && !req.UpfrontPaid
	})).Return(created, nil)

	resp, err := f.service.Initiate(ctx, validInitiateRequest(model.PaymentMethodCOD))

	require.NoError(t, err)
	assert.Equal(t, created, resp.Order)
	assert.Nil(t, resp.Intent)
	f.popup.AssertNotCalled(t, "CreateIntent", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutService_Initiate_InvalidForm(t *testing.T) {
	f := newCheckoutFixture(39)

	req := validInitiateRequest(model.PaymentMethodRazorpay)
	req.Form.Address.Pincode = "bad"

	resp, err := f.service.Initiate(context.Background(), req)

	require.ErrorIs(t, err, model.ErrInvalidPincode)
	assert.Nil(t, resp)
}

func TestCheckoutService_Initiate_IntentFailure(t *testing.T) {
	f := newCheckoutFixture(39)
	ctx := context.Background()

	f.feeRepo.On("ServiceFee", ctx, "110001").Return(0.0, nil)
	f.popup.On("CreateIntent", ctx, 2000.0, mock.AnythingOfType("string")).
		Return(nil, model.ErrGatewayUnavailable)

	resp, err := f.service.Initiate(ctx, validInitiateRequest(model.PaymentMethodRazorpay))

	require.ErrorIs(t, err, model.ErrGatewayUnavailable)
	assert.Nil(t, resp)
}

func razorpayCompletion(transactionID string) *RazorpayCompletion {
	return &RazorpayCompletion{
		TransactionID: transactionID,
		Verification: gateway.Verification{
			GatewayOrderID: "order_ABC",
			PaymentID:      "pay_XYZ",
			Signature:      "sig",
		},
	}
}

func savedDraft(t *testing.T, drafts draft.Store, transactionID string, method model.PaymentMethod) {
	t.Helper()
	require.NoError(t, drafts.SaveDraft(context.Background(), &model.CheckoutDraft{
		TransactionID:  transactionID,
		GatewayOrderID: "order_ABC",
		Form: model.CheckoutForm{
			CustomerName:  "Asha Verma",
			CustomerEmail: "asha@example.com",
			CustomerPhone: "9876543210",
			Address:       model.Address{Street: "12 MG Road", City: "Delhi", Pincode: "110001", Country: "India"},
		},
		Items: []model.CartItem{
			{ProductID: "P001", Name: "Birthday decor kit", Quantity: 1, Price: 2000},
		},
		PaymentMethod: method,
	}))
}

func TestCheckoutService_CompleteRazorpay_Success(t *testing.T) {
	f := newCheckoutFixture(39)
	ctx := context.Background()

	savedDraft(t, f.drafts, "TXN-OK", model.PaymentMethodRazorpay)

	created := &model.OrderResponse{Order: model.Order{ID: uuid.New(), PaymentStatus: model.PaymentStatusCompleted}}

	f.popup.On("VerifyPayment", ctx, mock.AnythingOfType("gateway.Verification")).Return(nil)
	f.orderSvc.On("CreateVerifiedOrder", ctx, mock.MatchedBy(func(req *model.OrderRequest) bool {
		return req.TransactionID != nil && *req.TransactionID == "TXN-OK" && !req.UpfrontPaid
	})).Return(created, nil)

	resp, err := f.service.CompleteRazorpay(ctx, razorpayCompletion("TXN-OK"))

	require.NoError(t, err)
	assert.Equal(t, created, resp)

	// Marker set for idempotent repeats
	orderID, placed, err := f.drafts.OrderPlaced(ctx, "TXN-OK")
	require.NoError(t, err)
	assert.True(t, placed)
	assert.Equal(t, created.Order.ID.String(), orderID)
}

func TestCheckoutService_CompleteRazorpay_Idempotent(t *testing.T) {
	f := newCheckoutFixture(39)
	ctx := context.Background()

	savedDraft(t, f.drafts, "TXN-TWICE", model.PaymentMethodRazorpay)

	created := &model.OrderResponse{Order: model.Order{ID: uuid.New()}}

	f.popup.On("VerifyPayment", ctx, mock.AnythingOfType("gateway.Verification")).Return(nil).Once()
	f.orderSvc.On("CreateVerifiedOrder", ctx, mock.AnythingOfType("*model.OrderRequest")).Return(created, nil).Once()
	f.orderSvc.On("GetByID", ctx, created.Order.ID).Return(created, nil)

	first, err := f.service.CompleteRazorpay(ctx, razorpayCompletion("TXN-TWICE"))
	require.NoError(t, err)

	second, err := f.service.CompleteRazorpay(ctx, razorpayCompletion("TXN-TWICE"))
	require.NoError(t, err)

	assert.Equal(t, first.Order.ID, second.Order.ID)
	f.orderSvc.AssertNumberOfCalls(t, "CreateVerifiedOrder", 1)
}

func TestCheckoutService_CompleteRazorpay_SignatureMismatch(t *testing.T) {
	f := newCheckoutFixture(39)
	ctx := context.Background()

	savedDraft(t, f.drafts, "TXN-BAD", model.PaymentMethodRazorpay)

	f.popup.On("VerifyPayment", ctx, mock.AnythingOfType("gateway.Verification")).
		Return(model.ErrSignatureMismatch)

	resp, err := f.service.CompleteRazorpay(ctx, razorpayCompletion("TXN-BAD"))

	require.ErrorIs(t, err, model.ErrSignatureMismatch)
	assert.Nil(t, resp)
	f.orderSvc.AssertNotCalled(t, "CreateVerifiedOrder", mock.Anything, mock.Anything)
}

func TestCheckoutService_CompleteRazorpay_ForeignConfirmationRejected(t *testing.T) {
	f := newCheckoutFixture(39)
	ctx := context.Background()

	savedDraft(t, f.drafts, "TXN-SWAP", model.PaymentMethodRazorpay)

	// Validly signed, but for a different gateway order than the one this
	// draft's intent created. It must not settle this transaction.
	completion := razorpayCompletion("TXN-SWAP")
	completion.Verification.GatewayOrderID = "order_CHEAP"

	resp, err := f.service.CompleteRazorpay(ctx, completion)

	require.ErrorIs(t, err, model.ErrSignatureMismatch)
	assert.Nil(t, resp)
	f.popup.AssertNotCalled(t, "VerifyPayment", mock.Anything, mock.Anything)
	f.orderSvc.AssertNotCalled(t, "CreateVerifiedOrder", mock.Anything, mock.Anything)
}

func TestCheckoutService_CompleteRazorpay_MissingDraft(t *testing.T) {
	f := newCheckoutFixture(39)
	ctx := context.Background()

	resp, err := f.service.CompleteRazorpay(ctx, razorpayCompletion("TXN-GONE"))

	require.ErrorIs(t, err, model.ErrDraftNotFound)
	assert.Nil(t, resp)
	f.popup.AssertNotCalled(t, "VerifyPayment", mock.Anything, mock.Anything)
}

func TestCheckoutService_CompleteRazorpay_CreateFailure(t *testing.T) {
	f := newCheckoutFixture(39)
	ctx := context.Background()

	savedDraft(t, f.drafts, "TXN-FAIL", model.PaymentMethodRazorpay)

	f.popup.On("VerifyPayment", ctx, mock.AnythingOfType("gateway.Verification")).Return(nil)
	f.orderSvc.On("CreateVerifiedOrder", ctx, mock.AnythingOfType("*model.OrderRequest")).
		Return(nil, errors.New("db down"))

	resp, err := f.service.CompleteRazorpay(ctx, razorpayCompletion("TXN-FAIL"))

	require.ErrorIs(t, err, model.ErrReconcileFailed)
	assert.Nil(t, resp)

	// No marker: the failure must not be masked as already-done.
	_, placed, markerErr := f.drafts.OrderPlaced(ctx, "TXN-FAIL")
	require.NoError(t, markerErr)
	assert.False(t, placed)
}

func TestCheckoutService_CompleteRazorpay_CODUpfrontTagsPartial(t *testing.T) {
	f := newCheckoutFixture(39)
	ctx := context.Background()

	savedDraft(t, f.drafts, "TXN-COD", model.PaymentMethodCOD)

	created := &model.OrderResponse{Order: model.Order{ID: uuid.New(), PaymentStatus: model.PaymentStatusPartial}}

	f.popup.On("VerifyPayment", ctx, mock.AnythingOfType("gateway.Verification")).Return(nil)
	f.orderSvc.On("CreateVerifiedOrder", ctx, mock.MatchedBy(func(req *model.OrderRequest) bool {
		return req.PaymentMethod == model.PaymentMethodCOD && req.UpfrontPaid
	})).Return(created, nil)

	resp, err := f.service.CompleteRazorpay(ctx, razorpayCompletion("TXN-COD"))

	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPartial, resp.Order.PaymentStatus)
}
