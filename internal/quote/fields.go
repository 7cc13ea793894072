package quote

// Field names a canonical LineItem attribute that observed header labels are
// normalized toward.
type Field string

const (
	FieldDescription     Field = "description"
	FieldProductCode     Field = "product_code"
	FieldQuantity        Field = "quantity"
	FieldUnitOfMeasure   Field = "unit_of_measure"
	FieldLicenseModel    Field = "license_model"
	FieldTermStartDate   Field = "term_start_date"
	FieldTermEndDate     Field = "term_end_date"
	FieldListUnitPrice   Field = "list_unit_price"
	FieldDiscountPercent Field = "discount_percent"
	FieldNetUnitPrice    Field = "net_unit_price"
	FieldNetTotalUSD     Field = "net_total_usd"
)

// fieldVariant associates a canonical field with its known header label
// variants, most specific variant first. Loaded once at process start, never
// mutated.
type fieldVariant struct {
	field    Field
	variants []string
}

var fieldVariants = []fieldVariant{
	{FieldDescription, []string{"software description", "product description", "item description", "description", "desc"}},
	{FieldProductCode, []string{"product code", "product_code", "item code", "code", "sku"}},
	{FieldQuantity, []string{"quantity", "qty", "qnty"}},
	{FieldUnitOfMeasure, []string{"unit of measure", "uom", "unit", "units", "measure"}},
	{FieldLicenseModel, []string{"license modelw", "license model", "license type", "license", "model"}},
	{FieldTermStartDate, []string{"license term start date", "term start date", "start date", "term start", "start", "begin date"}},
	{FieldTermEndDate, []string{"license term end date", "term end date", "end date", "term end", "end", "expiration date"}},
	{FieldListUnitPrice, []string{"list unit price", "list price", "unit price", "list", "base price"}},
	{FieldDiscountPercent, []string{"total discount %", "discount %", "discount percent", "disc %", "discount rate", "discount"}},
	{FieldNetUnitPrice, []string{"net unit price", "net price", "discounted price"}},
	{FieldNetTotalUSD, []string{"net total usd", "net total", "extended price", "net amount", "total", "amount"}},
}

// Section markers known to delimit the logical blocks of a quote document.
const (
	markerBillingInformation = "A. Billing Information"
	markerBillingTerms       = "B. Billing terms"
	markerPricingDetail      = "C. Software Pricing Detail"
	markerLegalTerms         = "Quote legal terms"
	markerNetTotalSoftware   = "Net Total Software"
)

// productFamilyPrefix opens every recognizable line item in this document
// family; it doubles as the description marker in the meaningless-row filter.
const productFamilyPrefix = "UiPath"

// Unit-of-measure and license-model values as emitted in the canonical record.
const (
	uomEachUserPerYear = "Each/User per year"
	uomEach            = "Each"
	uomNotApplicable   = "N/A"

	licenseNamedUser         = "Named User"
	licenseConcurrentRuntime = "Concurrent Runtime"
)
