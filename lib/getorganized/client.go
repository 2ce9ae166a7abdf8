// Package getorganized talks to the GetOrganized case management API,
// which the robot uses to file a copy of every reply it sends.
package getorganized

import (
	"context"
	"fmt"
	"proptax-robot/lib/telemetry"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("lib/getorganized")

var ErrAmbiguousCase = fmt.Errorf("multiple cases matched the search criteria")

// case metadata used by the tax office, see the KLE registry for the
// meaning of the journal number
const caseTypePrefix = "GEO"
const kleNumber = "318;#25.02.00 Ejendomsbeskatning i almindelighed"

type Config struct {
	Url      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type Client struct {
	http *resty.Client
}

func NewClient(config Config) *Client {
	client := resty.New()
	client.SetBaseURL(config.Url)
	client.SetBasicAuth(config.Username, config.Password)
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(time.Second * 60)

	telemetry.InstrumentResty(client, "getorganized/http")

	return &Client{http: client}
}

type createCaseResponse struct {
	CaseID string `json:"CaseID"`
}

func (c *Client) CreateCase(ctx context.Context, title string) (string, error) {
	ctx, span := tracer.Start(ctx, "CreateCase")
	defer span.End()

	span.SetAttributes(attribute.String("title", title))

	var result createCaseResponse
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"CaseTypePrefix": caseTypePrefix,
			"MetadataXml": fmt.Sprintf(
				`<z:row xmlns:z="#RowsetSchema" ows_Title="%s" ows_CaseStatus="Åben" ows_CaseCategory="Åben for alle" ows_Afdeling="916;#Backoffice - Drift og Økonomi" ows_KLENummer="%s"/>`,
				title, kleNumber,
			),
			"ReturnWhenCaseFullyCreated": false,
		}).
		SetResult(&result).
		Post("/_goapi/Cases/")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create case")
		return "", err
	}
	if res.IsError() {
		err := fmt.Errorf("create case: unexpected status %s", res.Status())
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return result.CaseID, nil
}

type findCaseResponse struct {
	CasesInfo []struct {
		CaseID string `json:"CaseID"`
	} `json:"CasesInfo"`
}

// FindCase searches for an open case whose title contains the given
// string. Returns an empty case id when nothing matches and
// ErrAmbiguousCase when more than one case does.
func (c *Client) FindCase(ctx context.Context, title string) (string, error) {
	ctx, span := tracer.Start(ctx, "FindCase")
	defer span.End()

	span.SetAttributes(attribute.String("title", title))

	var result findCaseResponse
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"FieldProperties": []map[string]any{
				{
					"InternalName":   "ows_Title",
					"Value":          title,
					"ComparisonType": "Contains",
				},
				{
					"InternalName":   "ows_KLENummer",
					"Value":          kleNumber,
					"ComparisonType": "Equals",
				},
			},
			"CaseTypePrefixes":    []string{caseTypePrefix},
			"LogicalOperator":     "AND",
			"ExcludeDeletedCases": true,
			"ReturnCasesNumber":   2,
		}).
		SetResult(&result).
		Post("/_goapi/Cases/FindByCaseProperties")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to search cases")
		return "", err
	}
	if res.IsError() {
		err := fmt.Errorf("find case: unexpected status %s", res.Status())
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	switch len(result.CasesInfo) {
	case 0:
		return "", nil
	case 1:
		return result.CasesInfo[0].CaseID, nil
	}
	span.SetStatus(codes.Error, "ambiguous case title")
	return "", fmt.Errorf("%w: %s", ErrAmbiguousCase, title)
}

type UploadDocumentParams struct {
	CaseId   string
	Filename string
	File     []byte
	// optional folder within the case
	AgentName string
	// optional ows_Dato metadata value
	DateString string
	Category   string
}

func (c *Client) UploadDocument(ctx context.Context, params UploadDocumentParams) error {
	ctx, span := tracer.Start(ctx, "UploadDocument")
	defer span.End()

	span.SetAttributes(
		attribute.String("case_id", params.CaseId),
		attribute.String("filename", params.Filename),
	)

	// the API wants the file as a json array of byte values, a Go
	// []byte would marshal to base64 instead
	bytes := make([]int, len(params.File))
	for i, b := range params.File {
		bytes[i] = int(b)
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"Bytes":      bytes,
			"CaseId":     params.CaseId,
			"SiteUrl":    fmt.Sprintf("%s/cases/EMN/%s", c.http.BaseURL, params.CaseId),
			"ListName":   "Dokumenter",
			"FolderPath": params.AgentName,
			"FileName":   params.Filename,
			"Metadata": fmt.Sprintf(
				`<z:row xmlns:z='#RowsetSchema' ows_Dato='%s' ows_Kategori='%s'/>`,
				params.DateString, params.Category,
			),
			"Overwrite": false,
		}).
		Post("/_goapi/Documents/AddToCase")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to upload document")
		return err
	}
	if res.IsError() {
		err := fmt.Errorf("upload document: unexpected status %s", res.Status())
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
