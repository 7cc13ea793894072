package quote

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testExtractor() *Extractor {
	return NewExtractor(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestExtractTablePath(t *testing.T) {
	doc := &Document{
		Path:     "quote.pdf",
		FullText: sampleQuoteText + "Net Total Software $4,400.00\nQuote legal terms\n",
		Tables: [][][]string{{
			{"Description", "Product Code", "Qty", "Net Unit Price", "Net Total"},
			{"UiPath Orchestrator", "NU000", "10", "440.00", "4,400.00"},
		}},
	}

	rec := testExtractor().Extract(doc)

	assert.Equal(t, "quote.pdf", rec.File)
	require.NotNil(t, rec.Header.QuoteNumber)
	assert.Equal(t, "Q-2024-00123", *rec.Header.QuoteNumber)

	require.Len(t, rec.Items, 1)
	item := rec.Items[0]
	require.NotNil(t, item.Quantity)
	assert.Equal(t, 10, *item.Quantity)
	require.NotNil(t, item.NetUnitPrice)
	assert.InDelta(t, 440.00, *item.NetUnitPrice, 1e-9)

	require.NotNil(t, rec.NetTotalSoftware)
	assert.InDelta(t, 4400.00, *rec.NetTotalSoftware, 1e-9)
	assert.InDelta(t, 4400.00, rec.CalculatedTotalFromItems, 1e-9)
	assert.True(t, rec.TotalsMatch)
}

func TestExtractTextFallback(t *testing.T) {
	doc := &Document{
		Path: "quote.pdf",
		FullText: "C. Software Pricing Detail\n" +
			"UiPath - Orchestrator ORCH01 1 Each $1,000.00 $1,000.00 $1,000.00 $1,000.00\n" +
			"Net Total Software $1,000.00\n" +
			"Quote legal terms\n",
	}

	rec := testExtractor().Extract(doc)

	require.Len(t, rec.Items, 1)
	require.NotNil(t, rec.Items[0].ProductCode)
	assert.Equal(t, "ORCH01", *rec.Items[0].ProductCode)
	require.NotNil(t, rec.NetTotalSoftware)
	assert.InDelta(t, 1000.00, *rec.NetTotalSoftware, 1e-9)
	assert.True(t, rec.TotalsMatch)
}

func TestExtractTablePreferredOverText(t *testing.T) {
	doc := &Document{
		Path: "quote.pdf",
		FullText: "C. Software Pricing Detail\n" +
			"UiPath - Orchestrator ORCH01 1 Each $1,000.00\n" +
			"Quote legal terms\n",
		Tables: [][][]string{{
			{"Description", "Product Code", "Qty"},
			{"UiPath Studio", "ST001", "2"},
		}},
	}

	rec := testExtractor().Extract(doc)

	require.Len(t, rec.Items, 1)
	require.NotNil(t, rec.Items[0].ProductCode)
	assert.Equal(t, "ST001", *rec.Items[0].ProductCode)
}

func TestExtractEmptyDocument(t *testing.T) {
	rec := testExtractor().Extract(&Document{Path: "empty.pdf", FullText: ""})

	assert.Empty(t, rec.Items)
	assert.Nil(t, rec.NetTotalSoftware)
	assert.Zero(t, rec.CalculatedTotalFromItems)
	// Zero stated and zero calculated trivially agree.
	assert.True(t, rec.TotalsMatch)
}

func TestExtractTableStatedTotalOverridesText(t *testing.T) {
	doc := &Document{
		Path: "quote.pdf",
		FullText: "C. Software Pricing Detail\n" +
			"Net Total Software $9,999.00\n" +
			"Quote legal terms\n",
		Tables: [][][]string{{
			{"Description", "Net Total"},
			{"UiPath Studio", "2,000.00"},
			{"Net Total Software", "2,000.00"},
		}},
	}

	rec := testExtractor().Extract(doc)

	require.NotNil(t, rec.NetTotalSoftware)
	assert.InDelta(t, 2000.00, *rec.NetTotalSoftware, 1e-9)
	assert.True(t, rec.TotalsMatch)
}

func TestQuoteRecordJSONShape(t *testing.T) {
	rec := testExtractor().Extract(&Document{Path: "empty.pdf"})

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))

	for _, key := range []string{
		"file", "header", "billing_information", "billing_terms",
		"items", "net_total_software", "calculated_total_from_items", "totals_match",
	} {
		assert.Contains(t, m, key)
	}
	// Absent values serialize as explicit nulls, not omitted keys.
	assert.Nil(t, m["net_total_software"])
}
