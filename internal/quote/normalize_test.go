package quote

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{name: "plain_amount", input: "4400.00", expected: 4400.00},
		{name: "currency_and_thousands", input: "$ 1,250.5", expected: 1250.5},
		{name: "spaces_inside_number", input: "4,4 00 . 00", expected: 4400.00},
		{name: "thousand_split_artifact", input: "10,00 0.00", expected: 10000.00},
		{name: "empty", input: "", expected: 0.0},
		{name: "not_a_number", input: "abc", expected: 0.0},
		{name: "trailing_noise", input: "1,234.56 USD", expected: 1234.56},
		{name: "integer", input: "42", expected: 42.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, NormalizeAmount(tt.input), 1e-9)
		})
	}
}

func TestNormalizePercent(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{name: "with_sign", input: "12.5%", expected: 12.5},
		{name: "without_sign", input: "7", expected: 7.0},
		{name: "padded", input: "  30.0 % ", expected: 30.0},
		{name: "empty", input: "", expected: 0.0},
		{name: "not_applicable", input: "n/a", expected: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, NormalizePercent(tt.input), 1e-9)
		})
	}
}

func TestFindBetween(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		start    string
		end      string
		expected string
	}{
		{name: "both_markers", text: "A X B Y", start: "A", end: "B", expected: " X "},
		{name: "missing_end_runs_to_eof", text: "A X", start: "A", end: "Z", expected: " X"},
		{name: "missing_start_is_empty", text: "X", start: "A", end: "B", expected: ""},
		{name: "end_before_start_ignored", text: "B A X B", start: "A", end: "B", expected: " X "},
		{name: "empty_text", text: "", start: "A", end: "B", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FindBetween(tt.text, tt.start, tt.end))
		})
	}
}

func TestCleanWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", CleanWhitespace("  a \n b\t\tc "))
	assert.Equal(t, "", CleanWhitespace("   \n\t "))
}

func TestExtractKeyValue(t *testing.T) {
	assert.Equal(t, "Acme Corp", extractKeyValue("Bill To: Acme Corp", "Bill To"))
	assert.Equal(t, "Net 30", extractKeyValue("payment term : Net 30", "Payment term"))
	assert.Equal(t, "", extractKeyValue("no label here", "Bill To"))
}
