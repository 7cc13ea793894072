package quote

import (
	"math"
	"strings"
)

// totalsTolerance is the maximum absolute difference under which the
// calculated and stated totals are considered to agree.
const totalsTolerance = 0.01

// Reconcile normalizes, filters and deduplicates the raw item sequence from a
// single extraction path and derives the total-consistency fields.
func Reconcile(items []LineItem, statedTotal *float64) ExtractionResult {
	cleaned := cleanAndDedupe(items)

	calculated := 0.0
	for _, it := range cleaned {
		if it.Description != nil && it.NetTotalUSD != nil {
			calculated += *it.NetTotalUSD
		}
	}

	stated := 0.0
	if statedTotal != nil {
		stated = *statedTotal
	}

	return ExtractionResult{
		Items:                    cleaned,
		NetTotalSoftware:         statedTotal,
		CalculatedTotalFromItems: calculated,
		TotalsMatch:              math.Abs(calculated-stated) < totalsTolerance,
	}
}

func cleanAndDedupe(items []LineItem) []LineItem {
	cleaned := make([]LineItem, 0, len(items))
	seen := make(map[identityKey]struct{}, len(items))

	for _, it := range items {
		// A quantity of 0 is never a meaningful ordered quantity and most
		// often indicates a misread cell; treat it as absent before the
		// identity tuple is computed.
		if it.Quantity != nil && *it.Quantity == 0 {
			it.Quantity = nil
		}

		if !hasMeaning(&it) {
			continue
		}

		key := it.identity()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, it)
	}
	return cleaned
}

// hasMeaning applies the meaningless-row rule: a retained item must show at
// least one of a product code, a product-family description, a price, or a
// term start date.
func hasMeaning(it *LineItem) bool {
	if it.ProductCode != nil && *it.ProductCode != "" {
		return true
	}
	if it.Description != nil && strings.Contains(*it.Description, productFamilyPrefix) {
		return true
	}
	return it.ListUnitPrice != nil ||
		it.NetUnitPrice != nil ||
		it.NetTotalUSD != nil ||
		it.TermStartDate != nil
}
