package quote

import (
	"strconv"
	"strings"
)

// TableExtraction is the outcome of running the table-based extractor over all
// recovered table matrices of a document.
type TableExtraction struct {
	Items []LineItem
	// StatedTotal is the document-stated net total when a total row was
	// found inside a table, nil otherwise.
	StatedTotal *float64
}

// ExtractTableItems recovers line items from table matrices. For each table
// the header row is resolved through the field matcher; a table where no field
// resolves is skipped entirely. The row whose description cell carries the
// total-row marker updates the stated total instead of producing an item.
func ExtractTableItems(tables [][][]string) TableExtraction {
	var out TableExtraction
	for _, table := range tables {
		if len(table) < 2 {
			continue
		}
		mapping := MapTableHeaders(table[0])
		if len(mapping) == 0 {
			continue
		}
		for _, row := range table[1:] {
			if isBlankRow(row) {
				continue
			}
			if total, ok := totalRowValue(row, mapping); ok {
				if total != 0 {
					out.StatedTotal = floatPtr(total)
				}
				continue
			}
			out.Items = append(out.Items, buildRowItem(row, mapping))
		}
	}
	return out
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// totalRowValue reports whether the row is the document's stated-total row and
// if so returns the amount read from the resolved net-total column.
func totalRowValue(row []string, mapping map[Field]int) (float64, bool) {
	desc := cellAt(row, mapping, FieldDescription)
	if desc == nil || !strings.Contains(*desc, markerNetTotalSoftware) {
		return 0, false
	}
	if idx, ok := mapping[FieldNetTotalUSD]; ok && idx < len(row) && strings.TrimSpace(row[idx]) != "" {
		return NormalizeAmount(row[idx]), true
	}
	return 0, true
}

func buildRowItem(row []string, mapping map[Field]int) LineItem {
	var item LineItem
	item.Description = cellAt(row, mapping, FieldDescription)
	item.ProductCode = cellAt(row, mapping, FieldProductCode)
	item.UnitOfMeasure = cellAt(row, mapping, FieldUnitOfMeasure)
	item.LicenseModel = cellAt(row, mapping, FieldLicenseModel)
	item.TermStartDate = cellAt(row, mapping, FieldTermStartDate)
	item.TermEndDate = cellAt(row, mapping, FieldTermEndDate)

	if raw, ok := rawCell(row, mapping, FieldQuantity); ok {
		if qty, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			item.Quantity = intPtr(qty)
		}
	}
	if raw, ok := rawCell(row, mapping, FieldListUnitPrice); ok {
		item.ListUnitPrice = floatPtr(NormalizeAmount(raw))
	}
	if raw, ok := rawCell(row, mapping, FieldDiscountPercent); ok {
		item.DiscountPercent = floatPtr(NormalizePercent(raw))
	}
	if raw, ok := rawCell(row, mapping, FieldNetUnitPrice); ok {
		item.NetUnitPrice = floatPtr(NormalizeAmount(raw))
	}
	if raw, ok := rawCell(row, mapping, FieldNetTotalUSD); ok {
		item.NetTotalUSD = floatPtr(NormalizeAmount(raw))
	}
	return item
}

// rawCell returns the unmodified cell for a resolved field, reporting false
// when the field is unmapped, out of range, or blank.
func rawCell(row []string, mapping map[Field]int, field Field) (string, bool) {
	idx, ok := mapping[field]
	if !ok || idx >= len(row) {
		return "", false
	}
	if strings.TrimSpace(row[idx]) == "" {
		return "", false
	}
	return row[idx], true
}

// cellAt returns the whitespace-cleaned cell for a resolved field, nil when
// absent.
func cellAt(row []string, mapping map[Field]int, field Field) *string {
	raw, ok := rawCell(row, mapping, field)
	if !ok {
		return nil
	}
	return strPtr(CleanWhitespace(raw))
}
