package harvester

import (
	"fmt"
	"strings"
	"unicode"

	"regexp"
)

// the adjustment report table always has these columns: property
// number, old value, new value, old tax, new tax, difference, rate
const tableColumns = 7

var cellRegex = regexp.MustCompile(`-?[\d\.]+(?:,\d\d)?`)

// ParseReportTable pulls the table rows out of the text of an
// adjustment report. Every page repeats the column header ending in
// "Kommunal ejd." and closes the table with a dashed rule, the cells
// in between are numeric tokens in Danish formatting.
func ParseReportTable(text string) ([][]string, error) {
	pages := strings.Split(text, "Kommunal ejd.")
	if len(pages) < 2 {
		return nil, fmt.Errorf("no table header found in report text")
	}

	var rows [][]string
	for _, page := range pages[1:] {
		body, _, _ := strings.Cut(page, "-------")

		pageRows, err := parsePageRows(body)
		if err != nil {
			return nil, err
		}
		rows = append(rows, pageRows...)
	}
	return rows, nil
}

func parsePageRows(body string) ([][]string, error) {
	cells := cellRegex.FindAllString(body, -1)
	if len(cells)%tableColumns != 0 {
		return nil, fmt.Errorf("expected %d columns, got %d cells", tableColumns, len(cells))
	}

	// everything that is not a cell must be whitespace, otherwise the
	// report layout changed and the cell positions can't be trusted
	cellLen := 0
	for _, c := range cells {
		cellLen += len(c)
	}
	whitespace := 0
	for _, r := range body {
		if unicode.IsSpace(r) {
			whitespace += len(string(r))
		}
	}
	if len(body)-cellLen != whitespace {
		return nil, fmt.Errorf("table contains unexpected characters")
	}

	var rows [][]string
	for i := 0; i < len(cells); i += tableColumns {
		rows = append(rows, cells[i:i+tableColumns])
	}
	return rows, nil
}
