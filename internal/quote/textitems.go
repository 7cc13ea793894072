package quote

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// itemOpenerRe recognizes the start of a line item in reflowed text. The
	// split keeps the opener with the following fragment, emulating lookahead.
	itemOpenerRe = regexp.MustCompile(`UiPath\s*-`)

	// itemGrammarRe captures description, product code and quantity in one
	// pass: description runs from the product-family prefix up to an
	// uppercase product-code token, then an integer quantity, then a
	// unit-of-measure marker.
	itemGrammarRe = regexp.MustCompile(`(UiPath.*?)\s+([A-Z]+[A-Z0-9\-\s]*)\s+(\d+)\s+(?:Each|N/A)`)

	dateRe = regexp.MustCompile(`(\d{2}/\d{2}/\d{4})`)

	// currencyRe tolerates stray spaces injected around the decimal point by
	// line wraps, e.g. "$4,400. 00".
	currencyRe = regexp.MustCompile(`\$[\s]*([0-9,]+)[\s]*\.[\s]*(\d+)`)

	discountRe = regexp.MustCompile(`(\d+)\.(\d+)%`)
)

// ExtractTextItems recovers line items from an unstructured pricing-section
// text block by splitting it at each item opener and running the item grammar
// over each fragment. It is the fallback path when no usable table matrices
// were recovered.
func ExtractTextItems(block string) []LineItem {
	var items []LineItem
	for _, fragment := range splitAtItemOpeners(block) {
		if !strings.HasPrefix(strings.TrimSpace(fragment), productFamilyPrefix) {
			continue
		}
		items = append(items, parseItemText(collapseFragment(fragment)))
	}
	return items
}

// splitAtItemOpeners splits the block before each item opener, leaving the
// opener attached to the fragment that follows it.
func splitAtItemOpeners(block string) []string {
	locs := itemOpenerRe.FindAllStringIndex(block, -1)
	if len(locs) == 0 {
		return []string{block}
	}
	var parts []string
	prev := 0
	for _, loc := range locs {
		parts = append(parts, block[prev:loc[0]])
		prev = loc[0]
	}
	parts = append(parts, block[prev:])
	return parts
}

// collapseFragment joins wrapped lines with single spaces and repairs the one
// known artifact where "Concurrent" arrives split by an inserted space.
func collapseFragment(fragment string) string {
	var lines []string
	for _, line := range strings.Split(fragment, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			lines = append(lines, t)
		}
	}
	joined := strings.Join(lines, " ")
	return strings.ReplaceAll(joined, "Concurre nt", "Concurrent")
}

// parseItemText extracts one LineItem from a single-line item fragment. Any
// value the grammar or the secondary patterns cannot find stays nil; this
// function never fails.
func parseItemText(itemText string) LineItem {
	var item LineItem

	if m := itemGrammarRe.FindStringSubmatch(itemText); m != nil {
		item.Description = strPtr(CleanWhitespace(m[1]))
		item.ProductCode = strPtr(CleanWhitespace(m[2]))
		if qty, err := strconv.Atoi(m[3]); err == nil {
			item.Quantity = intPtr(qty)
		}
	}

	item.UnitOfMeasure = classifyUnitOfMeasure(itemText)
	item.LicenseModel = classifyLicenseModel(itemText)

	dates := dateRe.FindAllString(itemText, -1)
	if len(dates) > 0 {
		item.TermStartDate = strPtr(dates[0])
	}
	if len(dates) > 1 {
		item.TermEndDate = strPtr(dates[1])
	}

	// Positional price assignment: the source documents present prices
	// left-to-right as list, regular, net unit, net total. A reordered or
	// missing price column silently misassigns; this is a known limitation
	// carried over deliberately.
	prices := extractCurrencyValues(itemText)
	if len(prices) > 0 {
		item.ListUnitPrice = floatPtr(prices[0])
	}
	if len(prices) > 1 {
		item.RegularUnitPrice = floatPtr(prices[1])
	}
	if len(prices) > 2 {
		item.NetUnitPrice = floatPtr(prices[2])
	}
	if len(prices) > 3 {
		item.NetTotalUSD = floatPtr(prices[3])
	}

	if m := discountRe.FindStringSubmatch(itemText); m != nil {
		item.DiscountPercent = floatPtr(NormalizeAmount(m[1] + "." + m[2]))
	}

	return item
}

func classifyUnitOfMeasure(itemText string) *string {
	switch {
	case strings.Contains(itemText, "Each/User"):
		return strPtr(uomEachUserPerYear)
	case strings.Contains(itemText, "Each"):
		return strPtr(uomEach)
	case strings.Contains(itemText, "N/A"):
		return strPtr(uomNotApplicable)
	default:
		return nil
	}
}

func classifyLicenseModel(itemText string) *string {
	switch {
	case strings.Contains(itemText, "Named User"):
		return strPtr(licenseNamedUser)
	case strings.Contains(itemText, "Concurrent"):
		return strPtr(licenseConcurrentRuntime)
	default:
		return nil
	}
}

func extractCurrencyValues(itemText string) []float64 {
	matches := currencyRe.FindAllStringSubmatch(itemText, -1)
	values := make([]float64, 0, len(matches))
	for _, m := range matches {
		values = append(values, NormalizeAmount(m[1]+"."+m[2]))
	}
	return values
}
