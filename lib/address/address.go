// Package address splits and matches Danish street addresses as they
// are written on self-service forms, e.g. "Skejbygårdsvej 46, 3. th,
// 8240 Risskov". See https://danmarksadresser.dk/om-adresser for the
// format the senders are expected to follow.
package address

import (
	"fmt"
	"regexp"
	"strings"
)

var ErrUnparsable = fmt.Errorf("address does not follow the Danish address format")

type Address struct {
	Street string
	Number string
	Floor  string
	Door   string
	Zip    string
	City   string
}

var addressRegex = regexp.MustCompile(`^(.+?) (\d{1,3}[a-zA-Z]?)(?:, )?(\w+)?\.? ?(\w+?)?, (\d{4}) (.+)$`)

// Deconstruct splits a formatted address into its parts. Floor and
// door are empty when the address has none.
func Deconstruct(addr string) (Address, error) {
	matches := addressRegex.FindStringSubmatch(strings.TrimSpace(addr))
	if matches == nil {
		return Address{}, fmt.Errorf("%w: %q", ErrUnparsable, addr)
	}
	return Address{
		Street: matches[1],
		Number: matches[2],
		Floor:  matches[3],
		Door:   matches[4],
		Zip:    matches[5],
		City:   matches[6],
	}, nil
}

// Matches reports whether a location line from the property register
// refers to this address. The register writes the location as
// "<street> <number> <floor> <door>,<code>,..." with inconsistent
// separators, so the comparison is a pattern match rather than string
// equality.
func (a Address) Matches(location string) bool {
	pattern := fmt.Sprintf(
		`%s %s[ ,.]*?%s[ ,.]*?%s,\w*?,`,
		regexp.QuoteMeta(a.Street),
		regexp.QuoteMeta(a.Number),
		regexp.QuoteMeta(strings.ToUpper(a.Floor)),
		regexp.QuoteMeta(strings.ToUpper(a.Door)),
	)
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return len(re.FindAllString(location, -1)) == 1
}
