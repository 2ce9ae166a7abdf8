package inquiry_test

import (
	"proptax-robot/lib/reportstore"
	"proptax-robot/services/inquiry"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatReply(t *testing.T) {
	body, err := inquiry.FormatReply(inquiry.Reply{
		Location:       "Skejbygårdsvej 46, 3 th, 8240 Risskov",
		PropertyNumber: "777159",
		Owners: []inquiry.Owner{
			{Cpr: "010180-1234", Name: "Jens Peter Hansen"},
		},
		FrozenDebt: []inquiry.FrozenDebt{
			{Cpr: "010180-1234", Name: "Jens Peter Hansen", Date: "01.01.2023", Amount: "4.312,00", Status: "Aktiv"},
		},
		Payments: []inquiry.MissingPaymentPerson{
			{
				Name: "Jens Peter Hansen",
				Cpr:  "010180-1234",
				Cases: []inquiry.MissingPaymentCase{
					{
						Title: "Ejendomsskat 2023",
						Entries: []inquiry.MissingPaymentEntry{
							{Title: "Rate 1", Status: "Forfalden", Amount: 1234.56},
						},
					},
				},
			},
		},
		Adjustments: []reportstore.Mention{
			{PropertyNumber: "777159", ReportDate: "02-01-2023", TaxYear: "2023"},
		},
	})
	require.NoError(t, err)

	require.Contains(t, body, "<b>Beliggenhed:</b> Skejbygårdsvej 46, 3 th, 8240 Risskov")
	require.Contains(t, body, "<b>Ejendomsnummer:</b> 777159")
	require.Contains(t, body, "Jens Peter Hansen (010180-1234)")
	require.Contains(t, body, "Jens Peter Hansen | 01.01.2023 | 4.312,00 | Aktiv")
	require.Contains(t, body, "Rate 1 | Forfalden | 1234.56 kr")
	require.Contains(t, body, "Reguleringsrapport 02-01-2023, skatteår 2023")
	require.NotContains(t, body, "Ingen poster")
}

func TestFormatReplyEmptySections(t *testing.T) {
	body, err := inquiry.FormatReply(inquiry.Reply{
		Location:       "Hovedgaden 12, 8000 Aarhus C",
		PropertyNumber: "814186",
	})
	require.NoError(t, err)

	require.Equal(t, 3, strings.Count(body, "Ingen poster"))
	require.Contains(t, body, "Ingen ejere fundet")
}

func TestFormatReplyEscapesInput(t *testing.T) {
	body, err := inquiry.FormatReply(inquiry.Reply{
		Location:       "<script>alert(1)</script>",
		PropertyNumber: "1",
	})
	require.NoError(t, err)
	require.NotContains(t, body, "<script>")
}
