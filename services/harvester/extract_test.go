package harvester

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const samplePage = `EJENDOMSSKAT - REGULERING AF EJENDOMSBIDRAG
Ejd.nr.    Gl. vurdering   Ny vurdering   Gl. bidrag   Nyt bidrag   Difference   Promille Kommunal ejd.
777159 1.250.000 1.100.000 3.125,00 2.750,00 -375,00 2.5
814186 2.000.000 2.400.000 5.000,00 6.000,00 1.000,00 2.5
------- slut på side 1
`

func TestParseReportTable(t *testing.T) {
	rows, err := ParseReportTable(samplePage)
	require.NoError(t, err)

	expected := [][]string{
		{"777159", "1.250.000", "1.100.000", "3.125,00", "2.750,00", "-375,00", "2.5"},
		{"814186", "2.000.000", "2.400.000", "5.000,00", "6.000,00", "1.000,00", "2.5"},
	}
	if diff := cmp.Diff(expected, rows); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestParseReportTableMultiplePages(t *testing.T) {
	rows, err := ParseReportTable(samplePage + samplePage)
	require.NoError(t, err)
	require.Len(t, rows, 4)
}

func TestParseReportTableMissingHeader(t *testing.T) {
	_, err := ParseReportTable("no table in here")
	require.Error(t, err)
}

func TestParseReportTableRaggedRow(t *testing.T) {
	ragged := `x Kommunal ejd.
777159 1.250.000 1.100.000 3.125,00
-------
`
	_, err := ParseReportTable(ragged)
	require.Error(t, err)
}

func TestParseReportTableUnexpectedCharacters(t *testing.T) {
	garbled := `x Kommunal ejd.
777159 abc 1.100.000 3.125,00 2.750,00 -375,00 2.5 9
-------
`
	_, err := ParseReportTable(garbled)
	require.Error(t, err)
}
