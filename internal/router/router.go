package router

import (
	"net/http"
	"strings"

	"decokart/internal/handler"
	"decokart/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	checkoutHandler *handler.CheckoutHandler,
	paymentHandler *handler.PaymentHandler,
	orderHandler *handler.OrderHandler,
	couponHandler *handler.CouponHandler,
	feeHandler *handler.FeeHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Checkout routes
	mux.HandleFunc("/api/checkout/quote", checkoutHandler.Quote)
	mux.HandleFunc("/api/checkout/initiate", checkoutHandler.Initiate)

	// Payment routes
	mux.HandleFunc("/api/payments/razorpay/verify", paymentHandler.VerifyRazorpay)
	mux.HandleFunc("/api/payments/reconcile", paymentHandler.Reconcile)

	// Coupon routes
	mux.HandleFunc("/api/coupons/validate", couponHandler.Validate)
	mux.HandleFunc("/api/coupons/apply", couponHandler.Apply)

	// Fee lookup by pincode
	mux.HandleFunc("/api/fees/", feeHandler.GetByPincode)

	// Order handler function
	orderRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		// Route based on method and path
		if r.Method == http.MethodPost && (r.URL.Path == "/api/orders" || r.URL.Path == "/api/orders/") {
			orderHandler.Create(w, r)
			return
		}

		// Check if this is a request for a specific order ID
		if strings.HasPrefix(r.URL.Path, "/api/orders/") && r.URL.Path != "/api/orders/" {
			orderHandler.GetByID(w, r)
			return
		}

		http.Error(w, "not found", http.StatusNotFound)
	}

	// Register order routes (both with and without trailing slash)
	mux.HandleFunc("/api/orders", orderRouteHandler)
	mux.HandleFunc("/api/orders/", orderRouteHandler)

	// Apply middleware in order: Recovery -> RequestID -> Logging -> CORS -> APIKeyAuth
	var h http.Handler = mux
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.RequestID(h)
	h = middleware.Recovery(logger)(h)

	return h
}
