package model

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod identifies how the customer pays for an order.
type PaymentMethod string

const (
	PaymentMethodCOD      PaymentMethod = "cod"
	PaymentMethodRazorpay PaymentMethod = "razorpay"
	PaymentMethodPhonePe  PaymentMethod = "phonepe"
)

// Valid reports whether the payment method is one we support.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCOD, PaymentMethodRazorpay, PaymentMethodPhonePe:
		return true
	}
	return false
}

// PaymentStatus tracks how much of an order has been paid.
//
//   - pending:   COD order with no upfront charge, everything due on delivery
//   - partial:   COD order where the upfront portion was charged online
//   - completed: fully paid online order
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPartial   PaymentStatus = "partial"
	PaymentStatusCompleted PaymentStatus = "completed"
)

// Address is the structured shipping address attached to an order.
type Address struct {
	Street  string `json:"street" db:"street"`
	City    string `json:"city" db:"city"`
	Pincode string `json:"pincode" db:"pincode"`
	Country string `json:"country" db:"country"`
}

// Order represents a placed customer order.
type Order struct {
	ID                uuid.UUID     `json:"id" db:"id"`
	CustomOrderID     string        `json:"customOrderId" db:"custom_order_id"`
	CustomerName      string        `json:"customerName" db:"customer_name"`
	CustomerEmail     string        `json:"customerEmail" db:"customer_email"`
	CustomerPhone     string        `json:"customerPhone" db:"customer_phone"`
	Address           Address       `json:"address"`
	TotalAmount       float64       `json:"totalAmount" db:"total_amount"`
	ShippingCost      float64       `json:"shippingCost" db:"shipping_cost"`
	CODExtraCharge    float64       `json:"codExtraCharge" db:"cod_extra_charge"`
	ServiceFee        float64       `json:"serviceFee" db:"service_fee"`
	FinalTotal        float64       `json:"finalTotal" db:"final_total"`
	PaymentMethod     PaymentMethod `json:"paymentMethod" db:"payment_method"`
	PaymentStatus     PaymentStatus `json:"paymentStatus" db:"payment_status"`
	CouponCode        *string       `json:"couponCode,omitempty" db:"coupon_code"`
	TransactionID     *string       `json:"transactionId,omitempty" db:"transaction_id"`
	ScheduledDelivery *time.Time    `json:"scheduledDelivery,omitempty" db:"scheduled_delivery"`
	CreatedAt         time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time     `json:"updatedAt" db:"updated_at"`
}

// OrderItem represents a product line item in an order.
type OrderItem struct {
	ID        uuid.UUID `json:"-" db:"id"`
	OrderID   uuid.UUID `json:"-" db:"order_id"`
	ProductID string    `json:"productId" db:"product_id"`
	Name      string    `json:"name" db:"name"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Price     float64   `json:"price" db:"price"`
	Image     string    `json:"image,omitempty" db:"image"`
}

// OrderAddOn represents an add-on line attached to an order. Add-ons have an
// independent lifecycle from the product catalogue.
type OrderAddOn struct {
	ID       uuid.UUID `json:"-" db:"id"`
	OrderID  uuid.UUID `json:"-" db:"order_id"`
	Name     string    `json:"name" db:"name"`
	Price    float64   `json:"price" db:"price"`
	Quantity int       `json:"quantity" db:"quantity"`
}

// OrderRequest represents the request payload for creating an order.
type OrderRequest struct {
	CustomerName      string             `json:"customerName"`
	CustomerEmail     string             `json:"customerEmail"`
	CustomerPhone     string             `json:"customerPhone"`
	Address           Address            `json:"address"`
	Items             []OrderItemRequest `json:"items"`
	AddOns            []AddOnRequest     `json:"addOns,omitempty"`
	PaymentMethod     PaymentMethod      `json:"paymentMethod"`
	CouponCode        *string            `json:"couponCode,omitempty"`
	TransactionID     *string            `json:"transactionId,omitempty"`
	ScheduledDelivery *time.Time         `json:"scheduledDelivery,omitempty"`

	// UpfrontPaid marks a COD order whose upfront portion was already
	// charged online. It drives paymentStatus tagging.
	UpfrontPaid bool `json:"upfrontPaid,omitempty"`
}

// OrderItemRequest represents a single product line in an order request.
type OrderItemRequest struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
}

// AddOnRequest represents a single add-on line in an order request.
type AddOnRequest struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// OrderResponse represents the response payload for an order.
type OrderResponse struct {
	Order  Order        `json:"order"`
	Items  []OrderItem  `json:"items"`
	AddOns []OrderAddOn `json:"addOns,omitempty"`
}
