package inquiry_test

import (
	"proptax-robot/services/inquiry"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		input    string
		expected float64
	}{
		{"1.234,56", 1234.56},
		{"1.234,56-", -1234.56},
		{"0,00", 0},
		{"12", 12},
		{"12-", -12},
	}
	for _, c := range cases {
		value, err := inquiry.ParseAmount(c.input)
		require.NoError(t, err, c.input)
		require.Equal(t, c.expected, value, c.input)
	}

	_, err := inquiry.ParseAmount("ikke et beløb")
	require.Error(t, err)
}

func TestAppendEntryMergesMatching(t *testing.T) {
	c := inquiry.MissingPaymentCase{Title: "Ejendomsskat 2023"}
	c.AppendEntry(inquiry.MissingPaymentEntry{Title: "Rate 1", Status: "Forfalden", Amount: 100})
	c.AppendEntry(inquiry.MissingPaymentEntry{Title: "Rate 1", Status: "Forfalden", Amount: 50})
	c.AppendEntry(inquiry.MissingPaymentEntry{Title: "Rate 1", Status: "Rykket", Amount: 25})

	require.Len(t, c.Entries, 2)
	require.Equal(t, 150.0, c.Entries[0].Amount)
	require.Equal(t, 25.0, c.Entries[1].Amount)
}

func TestEntryString(t *testing.T) {
	entry := inquiry.MissingPaymentEntry{Title: "Rate 2", Status: "Forfalden", Amount: 1234.5}
	require.Equal(t, "Rate 2 | Forfalden | 1234.50 kr", entry.String())
}
