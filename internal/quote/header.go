package quote

import (
	"regexp"
	"strings"
)

var (
	quoteNumberRe     = regexp.MustCompile(`(?i)QUOTE NUMBER\s+([A-Z0-9\-]+)`)
	quoteDateRe       = regexp.MustCompile(`(?i)Quote Date:\s*([0-9/]{8,10})`)
	quoteExpirationRe = regexp.MustCompile(`(?i)Quote Expiration Date:\s*([0-9/]{8,10})`)
	quoteTotalRe      = regexp.MustCompile(`Quote Total\s*\$?([0-9$.,\s]+)`)
	partnerRebateRe   = regexp.MustCompile(`Estimated Partner Rebate\s*\$?([0-9$.,\s]+)`)
	currencyLabelRe   = regexp.MustCompile(`(?i)\bCurrency\b`)
)

// ParseHeader extracts the quote number, date and expiration date from the
// full document text.
func ParseHeader(fullText string) Header {
	var h Header
	if m := quoteNumberRe.FindStringSubmatch(fullText); m != nil {
		h.QuoteNumber = strPtr(m[1])
	}
	if m := quoteDateRe.FindStringSubmatch(fullText); m != nil {
		h.QuoteDate = strPtr(m[1])
	}
	if m := quoteExpirationRe.FindStringSubmatch(fullText); m != nil {
		h.QuoteExpirationDate = strPtr(m[1])
	}
	return h
}

// ParseBillingInformation extracts the Bill To, Ship To, Partner and End User
// blocks from section A. Line-by-line label scanning tolerates the loose
// layout the page extractor produces; company names sometimes arrive wrapped
// in asterisks, which are scrubbed.
func ParseBillingInformation(fullText string) BillingInformation {
	block := FindBetween(fullText, markerBillingInformation, markerBillingTerms)
	lines := nonEmptyCleanLines(block)

	var out BillingInformation
	for i, line := range lines {
		if strings.Contains(line, "Bill To:") {
			comp := extractKeyValue(line, "Bill To")
			if comp == "" && i+1 < len(lines) {
				comp = strings.TrimSpace(strings.ReplaceAll(lines[i+1], "*", ""))
			}
			if comp != "" {
				out.BillTo.Company = strPtr(comp)
			}
		}
		if strings.Contains(line, "Bill To Address") {
			if v := extractKeyValue(line, "Bill To Address"); v != "" {
				out.BillTo.Address = strPtr(v)
			}
		}
		if strings.Contains(line, "Ship to:") || strings.Contains(line, "Ship To Company Legal Name") {
			comp := extractKeyValue(line, "Ship to")
			if comp == "" {
				comp = extractKeyValue(line, "Ship To Company Legal Name")
			}
			if comp != "" {
				out.ShipTo.Company = strPtr(comp)
			}
		}
		if strings.Contains(line, "Ship To Address") {
			if v := extractKeyValue(line, "Ship To Address"); v != "" {
				out.ShipTo.Address = strPtr(v)
			}
		}
		if strings.Contains(line, "Partner Legal Name") {
			if v := extractKeyValue(line, "Partner Legal Name"); v != "" {
				out.Partner.LegalName = strPtr(v)
			}
		}
		if strings.Contains(line, "Partner Tier Level") {
			if v := extractKeyValue(line, "Partner Tier Level"); v != "" {
				out.Partner.Tier = strPtr(v)
			}
		}
		if strings.Contains(line, "Partner Address") {
			if v := extractKeyValue(line, "Partner Address"); v != "" {
				out.Partner.Address = strPtr(v)
			}
		}
		if strings.Contains(line, "End User Legal Name") {
			if v := extractKeyValue(line, "End User Legal Name"); v != "" {
				out.EndUser.LegalName = strPtr(v)
			}
		}
		if strings.Contains(line, "Address:") && i > 0 && strings.Contains(lines[i-1], "End User") {
			if v := extractKeyValue(line, "Address"); v != "" {
				out.EndUser.Address = strPtr(v)
			}
		}
	}

	scrubAsterisks(out.BillTo.Company)
	scrubAsterisks(out.BillTo.Address)
	scrubAsterisks(out.ShipTo.Company)
	scrubAsterisks(out.ShipTo.Address)
	return out
}

// ParseBillingTerms extracts section B: payment term, billing cycle, currency
// and the two stated amounts.
func ParseBillingTerms(fullText string) BillingTerms {
	block := FindBetween(fullText, markerBillingTerms, markerPricingDetail)

	var out BillingTerms
	for _, line := range nonEmptyCleanLines(block) {
		switch {
		case strings.Contains(line, "Payment term"):
			if v := extractKeyValue(line, "Payment term"); v != "" {
				out.PaymentTerm = strPtr(v)
			}
		case strings.Contains(line, "Billing cycle"):
			if v := extractKeyValue(line, "Billing cycle"); v != "" {
				out.BillingCycle = strPtr(v)
			}
		case currencyLabelRe.MatchString(line):
			if v := extractKeyValue(line, "Currency"); v != "" {
				out.Currency = strPtr(v)
			}
		case strings.Contains(line, "Quote Total"):
			if m := quoteTotalRe.FindStringSubmatch(line); m != nil {
				out.QuoteTotal = floatPtr(NormalizeAmount(m[1]))
			}
		case strings.Contains(line, "Estimated Partner Rebate"):
			if m := partnerRebateRe.FindStringSubmatch(line); m != nil {
				out.EstimatedPartnerRebate = floatPtr(NormalizeAmount(m[1]))
			}
		}
	}
	return out
}

func nonEmptyCleanLines(block string) []string {
	var lines []string
	for _, line := range strings.Split(block, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, CleanWhitespace(line))
	}
	return lines
}

func scrubAsterisks(s *string) {
	if s == nil {
		return
	}
	*s = strings.TrimSpace(strings.ReplaceAll(*s, "*", ""))
}
