package quote

// LineItem represents one priced product or service entry recovered from a
// quote document. Fields that could not be extracted stay nil and serialize
// as JSON null, which downstream consumers rely on.
type LineItem struct {
	Description      *string  `json:"description"`
	ProductCode      *string  `json:"product_code"`
	Quantity         *int     `json:"quantity"`
	UnitOfMeasure    *string  `json:"unit_of_measure"`
	LicenseModel     *string  `json:"license_model"`
	TermStartDate    *string  `json:"term_start_date"`
	TermEndDate      *string  `json:"term_end_date"`
	ListUnitPrice    *float64 `json:"list_unit_price"`
	RegularUnitPrice *float64 `json:"regular_unit_price"`
	DiscountPercent  *float64 `json:"discount_percent"`
	NetUnitPrice     *float64 `json:"net_unit_price"`
	NetTotalUSD      *float64 `json:"net_total_usd"`
}

// identityKey is the subset of LineItem fields that identifies the same
// physical row observed twice, e.g. once per extraction path.
type identityKey struct {
	productCode   string
	hasCode       bool
	quantity      int
	hasQuantity   bool
	listUnitPrice float64
	hasList       bool
	netUnitPrice  float64
	hasNet        bool
	termStartDate string
	hasStart      bool
	termEndDate   string
	hasEnd        bool
}

func (it *LineItem) identity() identityKey {
	var k identityKey
	if it.ProductCode != nil {
		k.productCode, k.hasCode = *it.ProductCode, true
	}
	if it.Quantity != nil {
		k.quantity, k.hasQuantity = *it.Quantity, true
	}
	if it.ListUnitPrice != nil {
		k.listUnitPrice, k.hasList = *it.ListUnitPrice, true
	}
	if it.NetUnitPrice != nil {
		k.netUnitPrice, k.hasNet = *it.NetUnitPrice, true
	}
	if it.TermStartDate != nil {
		k.termStartDate, k.hasStart = *it.TermStartDate, true
	}
	if it.TermEndDate != nil {
		k.termEndDate, k.hasEnd = *it.TermEndDate, true
	}
	return k
}

// ExtractionResult is the reconciled item-level output for one document.
type ExtractionResult struct {
	Items                    []LineItem `json:"items"`
	NetTotalSoftware         *float64   `json:"net_total_software"`
	CalculatedTotalFromItems float64    `json:"calculated_total_from_items"`
	TotalsMatch              bool       `json:"totals_match"`
}

// Header holds the quote identification block.
type Header struct {
	QuoteNumber         *string `json:"quote_number"`
	QuoteDate           *string `json:"quote_date"`
	QuoteExpirationDate *string `json:"quote_expiration_date"`
}

// Party is a company/address pair inside the billing information section.
type Party struct {
	Company *string `json:"company"`
	Address *string `json:"address"`
}

// Partner extends Party with the partner tier level.
type Partner struct {
	LegalName *string `json:"legal_name"`
	Tier      *string `json:"tier"`
	Address   *string `json:"address"`
}

// EndUser is the end-user block of the billing information section.
type EndUser struct {
	LegalName *string `json:"legal_name"`
	Address   *string `json:"address"`
}

// BillingInformation is section A of a quote document.
type BillingInformation struct {
	BillTo  Party   `json:"bill_to"`
	ShipTo  Party   `json:"ship_to"`
	Partner Partner `json:"partner"`
	EndUser EndUser `json:"end_user"`
}

// BillingTerms is section B of a quote document.
type BillingTerms struct {
	PaymentTerm            *string  `json:"payment_term"`
	BillingCycle           *string  `json:"billing_cycle"`
	Currency               *string  `json:"currency"`
	QuoteTotal             *float64 `json:"quote_total"`
	EstimatedPartnerRebate *float64 `json:"estimated_partner_rebate"`
}

// QuoteRecord is the serializable per-document output. The field names and
// nesting are contractual; downstream consumers expect this exact shape.
type QuoteRecord struct {
	File                     string             `json:"file"`
	Header                   Header             `json:"header"`
	BillingInformation       BillingInformation `json:"billing_information"`
	BillingTerms             BillingTerms       `json:"billing_terms"`
	Items                    []LineItem         `json:"items"`
	NetTotalSoftware         *float64           `json:"net_total_software"`
	CalculatedTotalFromItems float64            `json:"calculated_total_from_items"`
	TotalsMatch              bool               `json:"totals_match"`
}

// ItemSource tags which extraction path produced a set of line items.
type ItemSource int

const (
	// SourceNone means neither extractor produced usable items.
	SourceNone ItemSource = iota
	// SourceTable means the items came from recovered table matrices.
	SourceTable
	// SourceText means the items came from the text-pattern fallback.
	SourceText
)

func (s ItemSource) String() string {
	switch s {
	case SourceTable:
		return "table"
	case SourceText:
		return "text"
	default:
		return "none"
	}
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func floatPtr(f float64) *float64 { return &f }
