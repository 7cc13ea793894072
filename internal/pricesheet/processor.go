package pricesheet

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/quotex/quote-extractor/internal/quote"
	"github.com/quotex/quote-extractor/internal/xlsx"
)

const (
	// headerScanRows bounds how deep into a sheet the header row is searched.
	headerScanRows = 15

	// minHeaderMatches is how many of the header tokens a row must show to be
	// accepted as the header row.
	minHeaderMatches = 4

	// DefaultMarginPercent is the uplift applied to non-tariff net prices.
	DefaultMarginPercent = 2.75

	notAvailable = "N/A"
)

var headerTokens = []string{"model", "qty", "quantity", "net", "price"}

// CoverDetails are the quotation identifiers read from the cover sheet.
// Absent values carry "N/A".
type CoverDetails struct {
	QuotationNumber   string
	QDRNumber         string
	SPRNumber         string
	OpportunityNumber string
	QuoteName         string
	QuoteDate         string
	ValidUntil        string
}

// CustomerDetails are the customer contact fields read from the cover sheet.
type CustomerDetails struct {
	Contact      string
	Company      string
	Address      string
	CityStateZip string
	Country      string
	Phone        string
	Email        string
}

// SheetPricing holds the formatted price lines recovered from one sheet.
type SheetPricing struct {
	Sheet string
	Lines []string
}

// Result is the outcome of processing one price-sheet workbook.
type Result struct {
	SourcePath string
	Cover      CoverDetails
	Customer   CustomerDetails
	Sheets     []SheetPricing
}

// Processor turns vendor price-sheet workbooks into consolidated price lines
// with the configured margin applied.
type Processor struct {
	marginPercent float64
	logger        *slog.Logger
}

// NewProcessor creates a price-sheet processor. A non-positive margin falls
// back to the default; a nil logger falls back to the default slog logger.
func NewProcessor(marginPercent float64, logger *slog.Logger) *Processor {
	if marginPercent <= 0 {
		marginPercent = DefaultMarginPercent
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{marginPercent: marginPercent, logger: logger}
}

// ProcessFile processes one workbook file.
func (p *Processor) ProcessFile(path string) (*Result, error) {
	wb, err := xlsx.Open(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	result := &Result{SourcePath: path}
	for _, sheet := range wb.VisibleSheets() {
		grid, err := wb.Rows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
		}

		if strings.EqualFold(sheet, "Cover") {
			result.Cover = parseCoverDetails(grid)
			result.Customer = parseCustomerDetails(grid)
			continue
		}

		lines := p.priceLines(sheet, grid)
		if lines == nil {
			continue
		}
		result.Sheets = append(result.Sheets, SheetPricing{Sheet: sheet, Lines: lines})
	}

	p.logger.Info("price sheet processed",
		"file", path,
		"sheets", len(result.Sheets),
	)
	return result, nil
}

// WriteConsolidated saves the result as a consolidated workbook named after
// the source file, returning the output path.
func (p *Processor) WriteConsolidated(result *Result, outputDir string) (string, error) {
	base := filepath.Base(result.SourcePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	outPath := filepath.Join(outputDir, base+".xlsx")

	if err := xlsx.WriteConsolidated(outPath, Sections(result)); err != nil {
		return "", err
	}
	return outPath, nil
}

// Sections lays the result out as the consolidated workbook's blocks: cover
// identifiers, customer details, then one block of price lines per sheet.
func Sections(result *Result) []xlsx.Section {
	sections := []xlsx.Section{
		{Title: "Cover", Rows: []string{
			"Quotation Number: " + result.Cover.QuotationNumber,
			"QDR Number: " + result.Cover.QDRNumber,
			"SPR Number: " + result.Cover.SPRNumber,
			"Opportunity Number: " + result.Cover.OpportunityNumber,
			"Quote Name: " + result.Cover.QuoteName,
			"Quote Date: " + result.Cover.QuoteDate,
			"Valid Until: " + result.Cover.ValidUntil,
		}},
		{Title: "Customer details", Rows: []string{
			"Contact: " + result.Customer.Contact,
			"Company: " + result.Customer.Company,
			"Address: " + result.Customer.Address,
			"City/State/Zip: " + result.Customer.CityStateZip,
			"Country: " + result.Customer.Country,
			"Phone: " + result.Customer.Phone,
			"Email: " + result.Customer.Email,
		}},
	}
	for _, sheet := range result.Sheets {
		sections = append(sections, xlsx.Section{Title: sheet.Sheet, Rows: sheet.Lines})
	}
	return sections
}

// priceLines recovers formatted price lines from one pricing sheet, nil when
// the sheet has no usable header or price columns.
func (p *Processor) priceLines(sheet string, grid [][]string) []string {
	headerIdx, ok := findHeaderRow(grid)
	if !ok {
		p.logger.Warn("sheet skipped, no header row found", "sheet", sheet)
		return nil
	}

	labels := grid[headerIdx]
	modelCol, ok := resolveModelColumn(labels)
	if !ok {
		p.logger.Warn("sheet skipped, model column unresolved", "sheet", sheet)
		return nil
	}
	qtyCol, ok := resolveQuantityColumn(labels)
	if !ok {
		p.logger.Warn("sheet skipped, quantity column unresolved", "sheet", sheet)
		return nil
	}
	priceCol, ok := quote.ResolveColumn(labels, []string{"net", "price"})
	if !ok {
		p.logger.Warn("sheet skipped, net price column unresolved", "sheet", sheet)
		return nil
	}

	var lines []string
	for _, row := range grid[headerIdx+1:] {
		model := quote.CleanWhitespace(cellAt(row, modelCol))
		if model == "" {
			continue
		}
		qty := int(quote.NormalizeAmount(cellAt(row, qtyCol)))
		if qty == 0 {
			continue
		}
		net := quote.NormalizeAmount(cellAt(row, priceCol))
		price := p.sellPrice(model, net)
		// Uplifted price third, raw sheet net last.
		lines = append(lines, fmt.Sprintf("%s %d %.2f,*,*,*,%.2f", model, qty, price, net))
	}
	return lines
}

// sellPrice applies the margin uplift. Tariff lines pass through at net; an
// uplift that still comes out zero is floored to one cent.
func (p *Processor) sellPrice(model string, net float64) float64 {
	if strings.Contains(strings.ToUpper(model), "TARIFF") {
		return net
	}
	price := net / (1 - p.marginPercent/100)
	if price == 0 {
		price = 0.01
	}
	return price
}

// findHeaderRow scans the top of the sheet for the row showing enough of the
// known header tokens.
func findHeaderRow(grid [][]string) (int, bool) {
	limit := len(grid)
	if limit > headerScanRows {
		limit = headerScanRows
	}
	for i := 0; i < limit; i++ {
		hits := 0
		for _, token := range headerTokens {
			if rowContainsToken(grid[i], token) {
				hits++
			}
		}
		if hits >= minHeaderMatches {
			return i, true
		}
	}
	return 0, false
}

func rowContainsToken(row []string, token string) bool {
	for _, cell := range row {
		if strings.Contains(strings.ToLower(cell), token) {
			return true
		}
	}
	return false
}

func resolveModelColumn(labels []string) (int, bool) {
	return quote.ResolveColumn(labels, []string{"model"})
}

// resolveQuantityColumn tries the short label first; "qty" is not a substring
// of "quantity" and the two are too far apart for the similarity fallback.
func resolveQuantityColumn(labels []string) (int, bool) {
	if idx, ok := quote.ResolveColumn(labels, []string{"qty"}); ok {
		return idx, true
	}
	return quote.ResolveColumn(labels, []string{"quantity"})
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func parseCoverDetails(grid [][]string) CoverDetails {
	return CoverDetails{
		QuotationNumber:   coverValue(grid, "quotation", "number"),
		QDRNumber:         coverValue(grid, "qdr"),
		SPRNumber:         coverValue(grid, "spr"),
		OpportunityNumber: coverValue(grid, "opportunity"),
		QuoteName:         coverValue(grid, "quote", "name"),
		QuoteDate:         coverValue(grid, "quote", "date"),
		ValidUntil:        coverValue(grid, "valid"),
	}
}

func parseCustomerDetails(grid [][]string) CustomerDetails {
	return CustomerDetails{
		Contact:      coverValue(grid, "contact"),
		Company:      coverValue(grid, "company"),
		Address:      coverValue(grid, "address"),
		CityStateZip: coverValue(grid, "city"),
		Country:      coverValue(grid, "country"),
		Phone:        coverValue(grid, "phone"),
		Email:        coverValue(grid, "email"),
	}
}

func coverValue(grid [][]string, tokens ...string) string {
	if v := xlsx.FindValueNearKey(grid, tokens...); v != "" {
		return v
	}
	return notAvailable
}
