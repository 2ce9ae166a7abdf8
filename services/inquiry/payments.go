package inquiry

import (
	"fmt"
	"strconv"
	"strings"
)

type MissingPaymentEntry struct {
	Title  string
	Status string
	Amount float64
}

func (e MissingPaymentEntry) String() string {
	return fmt.Sprintf("%s | %s | %.2f kr", e.Title, e.Status, e.Amount)
}

type MissingPaymentCase struct {
	Title   string
	Entries []MissingPaymentEntry
}

// AppendEntry adds an entry to the case. Entries sharing title and
// status are collapsed into one with their amounts summed.
func (c *MissingPaymentCase) AppendEntry(entry MissingPaymentEntry) {
	for i, old := range c.Entries {
		if old.Title == entry.Title && old.Status == entry.Status {
			c.Entries[i].Amount += entry.Amount
			return
		}
	}
	c.Entries = append(c.Entries, entry)
}

type MissingPaymentPerson struct {
	Name  string
	Cpr   string
	Cases []MissingPaymentCase
}

// ParseAmount converts an amount in the accounting system's format,
// e.g. "1.234,56-", where a trailing dash negates.
func ParseAmount(amount string) (float64, error) {
	s := strings.ReplaceAll(amount, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	sign := 1.0
	if strings.HasSuffix(s, "-") {
		sign = -1.0
	}
	s = strings.ReplaceAll(s, "-", "")

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse amount %q: %w", amount, err)
	}
	return value * sign, nil
}
