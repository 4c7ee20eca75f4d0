package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// couponDef mirrors the catalogue entry format: one JSON object per line.
type couponDef struct {
	Code         string  `json:"code"`
	Percent      float64 `json:"percent"`
	MaxDiscount  float64 `json:"maxDiscount,omitempty"`
	MinCartTotal float64 `json:"minCartTotal,omitempty"`
}

// generateSampleCoupons creates sample coupon catalogue files for local
// development. The base catalogue carries the evergreen codes; the seasonal
// file overrides SAVE10 with a higher cap, demonstrating that later files
// take precedence.
func main() {
	dataDir := "data/coupons"

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	catalogs := map[string][]couponDef{
		"catalog.gz": {
			{Code: "SAVE10", Percent: 10, MaxDiscount: 300},
			{Code: "SAVE20", Percent: 20, MaxDiscount: 500, MinCartTotal: 1500},
			{Code: "WELCOME5", Percent: 5},
			{Code: "DECOR15", Percent: 15, MaxDiscount: 400, MinCartTotal: 1000},
		},
		"seasonal.gz": {
			{Code: "SAVE10", Percent: 10, MaxDiscount: 500},
			{Code: "FESTIVE25", Percent: 25, MaxDiscount: 750, MinCartTotal: 2000},
		},
	}

	for filename, coupons := range catalogs {
		filePath := filepath.Join(dataDir, filename)

		if err := createCouponFile(filePath, coupons); err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}

		fmt.Printf("Created %s with %d codes\n", filePath, len(coupons))
	}

	fmt.Println("\nSample coupon catalogues created successfully!")
	fmt.Println("\nLoad both with:")
	fmt.Println("  COUPON_FILES=data/coupons/catalog.gz,data/coupons/seasonal.gz")
	fmt.Println("\nSAVE10's cap comes from seasonal.gz (500) because later files win.")
}

func createCouponFile(filePath string, coupons []couponDef) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	encoder := json.NewEncoder(gzipWriter)
	for _, coupon := range coupons {
		if err := encoder.Encode(coupon); err != nil {
			return fmt.Errorf("failed to write coupon: %w", err)
		}
	}

	return nil
}
