package pricing

import (
	"math"

	"decokart/internal/model"
)

// Input carries everything the calculator needs. All fields are plain values
// so a quote is re-derivable from state at any point.
type Input struct {
	Items         []model.CartItem
	AddOns        []model.AddOn
	Coupon        *model.AppliedCoupon
	PaymentMethod model.PaymentMethod
	CODUpfront    float64
	ServiceFee    float64
}

// Quote is the full monetary breakdown for a checkout.
type Quote struct {
	Subtotal       float64 `json:"subtotal"`
	Discount       float64 `json:"discount"`
	ShippingCost   float64 `json:"shippingCost"`
	CODExtraCharge float64 `json:"codExtraCharge"`
	ServiceFee     float64 `json:"serviceFee"`
	FinalTotal     float64 `json:"finalTotal"`

	// OnlineAmount is what gets charged through a gateway: for COD only the
	// upfront portion, otherwise the final total.
	OnlineAmount float64 `json:"onlineAmount"`

	// DueOnDelivery is the remainder collected in cash for COD orders.
	DueOnDelivery float64 `json:"dueOnDelivery"`
}

// Shipping is free across the storefront; the charge line is kept so the
// breakdown shape matches the order schema.
const shippingCost = 0

// Compute derives the full quote from the input. It is pure: no side
// effects, deterministic for the same input.
func Compute(in Input) Quote {
	subtotal := Round2(Subtotal(in.Items, in.AddOns))

	discounted := subtotal
	discount := 0.0
	if in.Coupon != nil {
		discount = Round2(math.Min(in.Coupon.DiscountAmount, subtotal))
		discounted = Round2(subtotal - discount)
	}

	codExtra := 0.0
	if in.PaymentMethod == model.PaymentMethodCOD {
		codExtra = Round2(in.CODUpfront)
	}

	serviceFee := Round2(in.ServiceFee)
	finalTotal := Round2(discounted + shippingCost + codExtra + serviceFee)

	online := finalTotal
	due := 0.0
	if in.PaymentMethod == model.PaymentMethodCOD {
		online = codExtra
		due = Round2(finalTotal - codExtra)
	}

	return Quote{
		Subtotal:       subtotal,
		Discount:       discount,
		ShippingCost:   shippingCost,
		CODExtraCharge: codExtra,
		ServiceFee:     serviceFee,
		FinalTotal:     finalTotal,
		OnlineAmount:   online,
		DueOnDelivery:  due,
	}
}

// Subtotal sums item and add-on lines before any discount.
func Subtotal(items []model.CartItem, addOns []model.AddOn) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	for _, addOn := range addOns {
		total += addOn.Price * float64(addOn.Quantity)
	}
	return total
}

// Round2 rounds to two decimal places, the currency's smallest display unit.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ToPaise converts a rupee amount into the integer minor unit gateways
// expect.
func ToPaise(v float64) int64 {
	return int64(math.Round(v * 100))
}
