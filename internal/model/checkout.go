package model

import "time"

// CartItem is an in-progress cart line, as held by the storefront before an
// order exists.
type CartItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
}

// AddOn is a selected add-on (candles, balloons and the like) attached to the
// cart.
type AddOn struct {
	ID       string  `json:"id,omitempty"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// AppliedCoupon is the result of a validate round trip.
// Invariant: FinalPrice = cart subtotal - DiscountAmount, DiscountAmount >= 0.
type AppliedCoupon struct {
	Code               string  `json:"code"`
	DiscountAmount     float64 `json:"discountAmount"`
	FinalPrice         float64 `json:"finalPrice"`
	DiscountPercentage float64 `json:"discountPercentage"`
}

// CheckoutForm holds the shipping and contact fields collected before
// payment.
type CheckoutForm struct {
	CustomerName      string     `json:"customerName"`
	CustomerEmail     string     `json:"customerEmail"`
	CustomerPhone     string     `json:"customerPhone"`
	Address           Address    `json:"address"`
	ScheduledDelivery *time.Time `json:"scheduledDelivery,omitempty"`
}

// CheckoutDraft is the pending-transaction value object persisted before a
// redirect-based payment leaves for the gateway's hosted page. It must
// survive a JSON round trip byte-for-byte so the reconciler can rebuild the
// exact order the customer saw.
type CheckoutDraft struct {
	TransactionID string `json:"transactionId"`

	// GatewayOrderID is the popup gateway's order id created at initiation.
	// A completion whose confirmation names a different gateway order must
	// be rejected, otherwise a cheap intent's signature could settle an
	// expensive draft.
	GatewayOrderID string `json:"gatewayOrderId,omitempty"`

	Form          CheckoutForm   `json:"form"`
	Items         []CartItem     `json:"items"`
	AddOns        []AddOn        `json:"addOns,omitempty"`
	Coupon        *AppliedCoupon `json:"coupon,omitempty"`
	PaymentMethod PaymentMethod  `json:"paymentMethod"`
	ServiceFee    float64        `json:"serviceFee"`
	CreatedAt     time.Time      `json:"createdAt"`
}
