package inquiry

import (
	"fmt"
	"html/template"
	"proptax-robot/lib/reportstore"
	"strings"
)

type Reply struct {
	Location       string
	PropertyNumber string
	Owners         []Owner
	FrozenDebt     []FrozenDebt
	Payments       []MissingPaymentPerson
	Adjustments    []reportstore.Mention
}

var replyTemplate = template.Must(template.New("reply").Parse(`<html>
<body>
<p>Robotten har behandlet forespørgslen og fundet følgende:</p>

<p><b>Beliggenhed:</b> {{.Location}}<br>
<b>Ejendomsnummer:</b> {{.PropertyNumber}}</p>

<p><b>Ejere:</b><br>
{{range .Owners}}{{.Name}} ({{.Cpr}})<br>
{{else}}Ingen ejere fundet<br>
{{end}}</p>

<p><b>Indefrossen grundskyld:</b><br>
{{range .FrozenDebt}}{{.Name}} | {{.Date}} | {{.Amount}} | {{.Status}}<br>
{{else}}Ingen poster<br>
{{end}}</p>

<p><b>Udeståender i SAP:</b><br>
{{range .Payments}}{{.Name}} ({{.Cpr}}):<br>
{{range .Cases}}&nbsp;&nbsp;{{.Title}}<br>
{{range .Entries}}&nbsp;&nbsp;&nbsp;&nbsp;{{.}}<br>
{{end}}{{end}}{{else}}Ingen poster<br>
{{end}}</p>

<p><b>Tidligere reguleringer:</b><br>
{{range .Adjustments}}Reguleringsrapport {{.ReportDate}}, skatteår {{.TaxYear}}<br>
{{else}}Ingen poster<br>
{{end}}</p>
</body>
</html>`))

// FormatReply renders the answer mail for a single property.
func FormatReply(reply Reply) (string, error) {
	var out strings.Builder
	if err := replyTemplate.Execute(&out, reply); err != nil {
		return "", fmt.Errorf("failed to render reply: %w", err)
	}
	return out.String(), nil
}
