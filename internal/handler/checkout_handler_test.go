package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"decokart/internal/gateway"
	"decokart/internal/model"
	"decokart/internal/pricing"
	"decokart/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCheckoutHandler_Quote(t *testing.T) {
	logger := zerolog.Nop()

	quoteResponse := &service.QuoteResponse{
		Quote: pricing.Quote{
			Subtotal:     2000,
			Discount:     200,
			FinalTotal:   1800,
			OnlineAmount: 1800,
		},
		Coupon: &model.AppliedCoupon{Code: "SAVE10", DiscountAmount: 200, FinalPrice: 1800, DiscountPercentage: 10},
	}

	tests := []struct {
		name           string
		method         string
		requestBody    interface{}
		mockReturn     *service.QuoteResponse
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:   "Success",
			method: http.MethodPost,
			requestBody: &service.QuoteRequest{
				Items: []model.CartItem{
					{ProductID: "P001", Name: "Decor kit", Quantity: 1, Price: 2000},
				},
				PaymentMethod: model.PaymentMethodRazorpay,
			},
			mockReturn:     quoteResponse,
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:   "Invalid coupon",
			method: http.MethodPost,
			requestBody: &service.QuoteRequest{
				Items: []model.CartItem{
					{ProductID: "P001", Name: "Decor kit", Quantity: 1, Price: 2000},
				},
			},
			mockError:      model.ErrInvalidCoupon,
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name:   "Empty cart",
			method: http.MethodPost,
			requestBody: &service.QuoteRequest{
				Items: []model.CartItem{},
			},
			mockError:      errors.New("quote requires at least one cart item"),
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name:           "Invalid JSON",
			method:         http.MethodPost,
			requestBody:    "not json",
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
		{
			name:           "Method not allowed",
			method:         http.MethodGet,
			expectedStatus: http.StatusMethodNotAllowed,
			expectService:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCheckoutService)
			if tt.expectService {
				mockService.On("Quote", mock.Anything, mock.AnythingOfType("*service.QuoteRequest")).
					Return(tt.mockReturn, tt.mockError)
			}

			h := NewCheckoutHandler(mockService, logger)

			var body bytes.Buffer
			if s, ok := tt.requestBody.(string); ok {
				body.WriteString(s)
			} else if tt.requestBody != nil {
				require.NoError(t, json.NewEncoder(&body).Encode(tt.requestBody))
			}

			req := httptest.NewRequest(tt.method, "/api/checkout/quote", &body)
			rec := httptest.NewRecorder()

			h.Quote(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestCheckoutHandler_Quote_ResponseBody(t *testing.T) {
	mockService := new(MockCheckoutService)
	mockService.On("Quote", mock.Anything, mock.Anything).Return(&service.QuoteResponse{
		Quote: pricing.Quote{Subtotal: 500, CODExtraCharge: 39, FinalTotal: 539, OnlineAmount: 39, DueOnDelivery: 500},
	}, nil)

	h := NewCheckoutHandler(mockService, zerolog.Nop())

	body, _ := json.Marshal(&service.QuoteRequest{
		Items:         []model.CartItem{{ProductID: "P002", Name: "Balloons", Quantity: 1, Price: 500}},
		PaymentMethod: model.PaymentMethodCOD,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/checkout/quote", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Quote(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp service.QuoteResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 539.0, resp.Quote.FinalTotal)
	assert.Equal(t, 500.0, resp.Quote.DueOnDelivery)
}

func TestCheckoutHandler_Initiate(t *testing.T) {
	logger := zerolog.Nop()

	initiateResponse := &service.InitiateResponse{
		TransactionID: "TXN-ABC123",
		Quote:         pricing.Quote{Subtotal: 2000, FinalTotal: 2000, OnlineAmount: 2000},
		Intent:        &gateway.Intent{GatewayOrderID: "order_1", KeyID: "rzp_key", Amount: 200000, Currency: "INR"},
	}

	directOrderResponse := &service.InitiateResponse{
		TransactionID: "TXN-DIRECT",
		Quote:         pricing.Quote{Subtotal: 500, FinalTotal: 500, DueOnDelivery: 500},
		Order:         &model.OrderResponse{Order: model.Order{ID: uuid.New(), PaymentStatus: model.PaymentStatusPending}},
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		mockReturn     *service.InitiateResponse
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Popup flow returns intent",
			requestBody:    &service.InitiateRequest{PaymentMethod: model.PaymentMethodRazorpay},
			mockReturn:     initiateResponse,
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Direct COD order created",
			requestBody:    &service.InitiateRequest{PaymentMethod: model.PaymentMethodCOD},
			mockReturn:     directOrderResponse,
			expectedStatus: http.StatusCreated,
			expectService:  true,
		},
		{
			name:           "Invalid pincode",
			requestBody:    &service.InitiateRequest{PaymentMethod: model.PaymentMethodRazorpay},
			mockError:      model.ErrInvalidPincode,
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name:           "Missing customer name",
			requestBody:    &service.InitiateRequest{PaymentMethod: model.PaymentMethodRazorpay},
			mockError:      errors.New("customer name is required"),
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name:           "Gateway unavailable",
			requestBody:    &service.InitiateRequest{PaymentMethod: model.PaymentMethodRazorpay},
			mockError:      model.ErrGatewayUnavailable,
			expectedStatus: http.StatusBadGateway,
			expectService:  true,
		},
		{
			name:           "Invalid JSON",
			requestBody:    "not json",
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCheckoutService)
			if tt.expectService {
				mockService.On("Initiate", mock.Anything, mock.AnythingOfType("*service.InitiateRequest")).
					Return(tt.mockReturn, tt.mockError)
			}

			h := NewCheckoutHandler(mockService, logger)

			var body bytes.Buffer
			if s, ok := tt.requestBody.(string); ok {
				body.WriteString(s)
			} else {
				require.NoError(t, json.NewEncoder(&body).Encode(tt.requestBody))
			}

			req := httptest.NewRequest(http.MethodPost, "/api/checkout/initiate", &body)
			rec := httptest.NewRecorder()

			h.Initiate(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}
