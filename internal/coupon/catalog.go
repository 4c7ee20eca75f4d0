package coupon

// mapCatalog implements Catalog using a map for O(1) lookups.
type mapCatalog struct {
	coupons map[string]Coupon
}

// NewMapCatalog creates a new map-based coupon catalogue.
func NewMapCatalog(capacity int) Catalog {
	return &mapCatalog{
		coupons: make(map[string]Coupon, capacity),
	}
}

// Lookup returns the coupon definition for a code.
func (c *mapCatalog) Lookup(code string) (Coupon, bool) {
	coupon, exists := c.coupons[code]
	return coupon, exists
}

// Size returns the number of coupons in the catalogue.
func (c *mapCatalog) Size() int {
	return len(c.coupons)
}

// Add inserts a coupon definition, replacing any previous entry for the code.
func (c *mapCatalog) Add(coupon Coupon) {
	c.coupons[coupon.Code] = coupon
}
