package xlsx

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook wraps one open spreadsheet file.
type Workbook struct {
	f    *excelize.File
	path string
}

// Open opens a workbook for reading.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	return &Workbook{f: f, path: path}, nil
}

func (w *Workbook) Close() error { return w.f.Close() }

func (w *Workbook) Path() string { return w.path }

// VisibleSheets returns the workbook's sheet names with hidden sheets
// removed, in workbook order.
func (w *Workbook) VisibleSheets() []string {
	var names []string
	for _, name := range w.f.GetSheetList() {
		visible, err := w.f.GetSheetVisible(name)
		if err != nil || !visible {
			continue
		}
		names = append(names, name)
	}
	return names
}

// Rows returns the sheet's cell grid. Missing trailing cells are absent from
// the row slices, exactly as excelize reports them.
func (w *Workbook) Rows(sheet string) ([][]string, error) {
	rows, err := w.f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of %s: %w", sheet, err)
	}
	return rows, nil
}

// FindValueNearKey locates the first cell whose normalized text contains
// every token and returns its right neighbor, else the cell below it, else
// "". Only the first matching label cell is consulted.
func FindValueNearKey(grid [][]string, tokens ...string) string {
	for i, row := range grid {
		for j, cell := range row {
			if !cellMatches(cell, tokens) {
				continue
			}
			if j+1 < len(row) {
				if v := strings.TrimSpace(row[j+1]); v != "" {
					return v
				}
			}
			if i+1 < len(grid) && j < len(grid[i+1]) {
				if v := strings.TrimSpace(grid[i+1][j]); v != "" {
					return v
				}
			}
			return ""
		}
	}
	return ""
}

func cellMatches(cell string, tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}
	norm := strings.ToLower(strings.Join(strings.Fields(cell), " "))
	if norm == "" {
		return false
	}
	for _, token := range tokens {
		if !strings.Contains(norm, strings.ToLower(token)) {
			return false
		}
	}
	return true
}
