package quote

import (
	"log/slog"
	"regexp"
)

// Document is the collaborator-supplied input to the extraction engine: the
// per-page text and table matrices recovered from one source file. The engine
// never touches the file itself.
type Document struct {
	Path     string
	Pages    []string
	FullText string
	// Tables holds every recovered table matrix across all pages, in page
	// order. Each table is a non-empty sequence of rows; rows are cell
	// slices with missing cells normalized to "".
	Tables [][][]string
}

var netTotalSoftwareRe = regexp.MustCompile(markerNetTotalSoftware + `\s*\$?([0-9$.,\s]+)`)

// Extractor turns collaborator-extracted document content into canonical
// quote records. Safe for reuse across documents; extraction is stateless.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates an extraction engine. A nil logger falls back to the
// default slog logger.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract assembles one QuoteRecord from a document. The table path is
// preferred; the text-pattern path runs only when the tables yield zero
// items. Both paths feed the same reconciliation stage. Extract never fails:
// a document with nothing recognizable still produces a record with an empty
// item list and totals computed against an implicit zero.
func (e *Extractor) Extract(doc *Document) *QuoteRecord {
	items, statedTotal, source := e.extractItems(doc)
	result := Reconcile(items, statedTotal)

	e.logger.Info("document extracted",
		"file", doc.Path,
		"source", source.String(),
		"items", len(result.Items),
		"totals_match", result.TotalsMatch,
	)

	return &QuoteRecord{
		File:                     doc.Path,
		Header:                   ParseHeader(doc.FullText),
		BillingInformation:       ParseBillingInformation(doc.FullText),
		BillingTerms:             ParseBillingTerms(doc.FullText),
		Items:                    result.Items,
		NetTotalSoftware:         result.NetTotalSoftware,
		CalculatedTotalFromItems: result.CalculatedTotalFromItems,
		TotalsMatch:              result.TotalsMatch,
	}
}

// extractItems runs the two extraction paths under the single fallback rule:
// table unless empty, else text over the same pricing section.
func (e *Extractor) extractItems(doc *Document) ([]LineItem, *float64, ItemSource) {
	block := pricingSection(doc.FullText)
	statedTotal := statedNetTotal(block)

	tableResult := ExtractTableItems(doc.Tables)
	if tableResult.StatedTotal != nil {
		statedTotal = tableResult.StatedTotal
	}
	if len(tableResult.Items) > 0 {
		return tableResult.Items, statedTotal, SourceTable
	}

	textItems := ExtractTextItems(block)
	if len(textItems) == 0 {
		return nil, statedTotal, SourceNone
	}
	e.logger.Debug("table path empty, used text-pattern fallback", "file", doc.Path, "items", len(textItems))
	return textItems, statedTotal, SourceText
}

// pricingSection isolates section C; when the closing marker was truncated by
// page extraction the section runs to the end of the document, and when even
// the opener is missing the whole text is used.
func pricingSection(fullText string) string {
	block := FindBetween(fullText, markerPricingDetail, markerLegalTerms)
	if block == "" {
		return fullText
	}
	return block
}

// statedNetTotal reads the document-stated total from the pricing section
// text, nil when absent.
func statedNetTotal(block string) *float64 {
	m := netTotalSoftwareRe.FindStringSubmatch(block)
	if m == nil {
		return nil
	}
	return floatPtr(NormalizeAmount(m[1]))
}
