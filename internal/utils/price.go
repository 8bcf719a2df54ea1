package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// PriceOnRequest is shown when a listing has no numeric price.
const PriceOnRequest = "Цена по запросу"

// Sentinel used in the source data for "price on request".
const priceSentinel = "*"

// ParsePrice parses a raw price cell ("5,200,000", "5 200 000") into
// rubles. Returns nil for empty values, the "*" sentinel, anything
// non-numeric, or negative values: absent, not zero.
func ParsePrice(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.Contains(raw, priceSentinel) {
		return nil
	}
	cleaned := strings.NewReplacer(",", "", " ", "", " ", "", "₽", "").Replace(raw)
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || price < 0 {
		return nil
	}
	return &price
}

// FormatPrice renders a ruble amount as "5.2 млн ₽".
func FormatPrice(price float64) string {
	if price <= 0 {
		return PriceOnRequest
	}
	return fmt.Sprintf("%.1f млн ₽", price/1_000_000)
}

// FormatPriceFrom renders the "starting at" form used on cards and in
// chat replies: "от 5.2 млн ₽".
func FormatPriceFrom(price float64) string {
	if price <= 0 {
		return PriceOnRequest
	}
	return "от " + FormatPrice(price)
}
