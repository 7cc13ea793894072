package pdf

import (
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	// rowYTolerance groups text runs whose baselines differ by less than
	// this many points into one visual row.
	rowYTolerance = 2.0

	// columnXTolerance separates run start positions into column anchors.
	columnXTolerance = 4.0

	minTableColumns = 2
	minTableRows    = 2
)

type textRow struct {
	y    float64
	runs []pdf.Text
}

// tablesFromTexts rebuilds table matrices from positioned text runs. Runs are
// grouped into visual rows by Y proximity; a maximal block of consecutive
// multi-column rows forms one candidate table, whose cells are assigned by
// clustering run X positions into column anchors shared across the block.
// Blocks shorter than two rows are discarded.
func tablesFromTexts(texts []pdf.Text) [][][]string {
	rows := groupRows(texts)

	var tables [][][]string
	var block []textRow
	flush := func() {
		if matrix := buildMatrix(block); matrix != nil {
			tables = append(tables, matrix)
		}
		block = nil
	}
	for _, row := range rows {
		if len(row.runs) >= minTableColumns {
			block = append(block, row)
			continue
		}
		flush()
	}
	flush()
	return tables
}

// groupRows collects non-blank runs into rows by baseline proximity, then
// orders rows top of page first and runs left to right.
func groupRows(texts []pdf.Text) []textRow {
	var rows []textRow
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		placed := false
		for i := range rows {
			if math.Abs(rows[i].y-t.Y) < rowYTolerance {
				rows[i].runs = append(rows[i].runs, t)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, textRow{y: t.Y, runs: []pdf.Text{t}})
		}
	}

	// Page coordinates grow upward.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].y > rows[j].y })
	for i := range rows {
		runs := rows[i].runs
		sort.SliceStable(runs, func(a, b int) bool { return runs[a].X < runs[b].X })
	}
	return rows
}

func buildMatrix(block []textRow) [][]string {
	if len(block) < minTableRows {
		return nil
	}
	anchors := columnAnchors(block)
	if len(anchors) < minTableColumns {
		return nil
	}

	matrix := make([][]string, 0, len(block))
	for _, row := range block {
		cells := make([]string, len(anchors))
		for _, run := range row.runs {
			col := nearestAnchor(anchors, run.X)
			if cells[col] == "" {
				cells[col] = strings.TrimSpace(run.S)
			} else {
				// One cell can arrive as several adjacent fragments.
				cells[col] += " " + strings.TrimSpace(run.S)
			}
		}
		matrix = append(matrix, cells)
	}
	return matrix
}

// columnAnchors derives the block's column start positions from the sorted
// X coordinates of every run, starting a new anchor wherever the gap exceeds
// the column tolerance.
func columnAnchors(block []textRow) []float64 {
	var xs []float64
	for _, row := range block {
		for _, run := range row.runs {
			xs = append(xs, run.X)
		}
	}
	sort.Float64s(xs)

	var anchors []float64
	for _, x := range xs {
		if len(anchors) == 0 || x-anchors[len(anchors)-1] > columnXTolerance {
			anchors = append(anchors, x)
		}
	}
	return anchors
}

func nearestAnchor(anchors []float64, x float64) int {
	best := 0
	for i, anchor := range anchors {
		if math.Abs(anchor-x) < math.Abs(anchors[best]-x) {
			best = i
		}
	}
	return best
}
