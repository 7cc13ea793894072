package xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Section is one titled block of the consolidated output workbook.
type Section struct {
	Title string
	Rows  []string
}

// WriteConsolidated writes the sections to a single-sheet workbook, one line
// per row, with bold section titles and a blank separator row between
// sections.
func WriteConsolidated(path string, sections []Section) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create heading style: %w", err)
	}

	row := 1
	for _, section := range sections {
		if section.Title != "" {
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetCellValue(sheet, cell, section.Title); err != nil {
				return fmt.Errorf("failed to write section title: %w", err)
			}
			if err := f.SetCellStyle(sheet, cell, cell, boldStyle); err != nil {
				return fmt.Errorf("failed to style section title: %w", err)
			}
			row++
		}
		for _, line := range section.Rows {
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetCellValue(sheet, cell, line); err != nil {
				return fmt.Errorf("failed to write row: %w", err)
			}
			row++
		}
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 80)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
