// Package agent talks to the desktop automation agent, a sidecar
// process on the robot host that drives the archive, property
// register and accounting desktop applications and exposes them over
// a small json api.
package agent

import (
	"context"
	"fmt"
	"proptax-robot/lib/address"
	"proptax-robot/lib/telemetry"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("lib/agent")

type Config struct {
	Url string `json:"url"`
}

type Client struct {
	http *resty.Client
}

func NewClient(config Config) *Client {
	client := resty.New()
	client.SetBaseURL(config.Url)
	client.SetHeader("Content-Type", "application/json")
	// driving a desktop application is slow, searches routinely take
	// minutes
	client.SetTimeout(time.Minute * 10)

	telemetry.InstrumentResty(client, "agent/http")

	return &Client{http: client}
}

type Document struct {
	Type       string `json:"type"`
	ReportDate string `json:"report_date"`
	TaxYear    string `json:"tax_year"`
}

func (c *Client) Documents(ctx context.Context, since time.Time) ([]Document, error) {
	ctx, span := tracer.Start(ctx, "Documents")
	defer span.End()

	var result []Document
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("since", since.Format("2006-01-02")).
		SetResult(&result).
		Get("/archive/documents")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list documents")
		return nil, err
	}
	if res.IsError() {
		err := fmt.Errorf("list documents: unexpected status %s", res.Status())
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return result, nil
}

type documentTableResponse struct {
	Text string `json:"text"`
}

func (c *Client) DocumentTable(ctx context.Context, doc Document) (string, error) {
	ctx, span := tracer.Start(ctx, "DocumentTable")
	defer span.End()

	span.SetAttributes(
		attribute.String("report_date", doc.ReportDate),
		attribute.String("tax_year", doc.TaxYear),
	)

	var result documentTableResponse
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(doc).
		SetResult(&result).
		Post("/archive/table")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch document table")
		return "", err
	}
	if res.IsError() {
		err := fmt.Errorf("fetch document table: unexpected status %s", res.Status())
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	return result.Text, nil
}

type Property struct {
	PropertyNumber string `json:"property_number"`
	Location       string `json:"location"`
}

func (c *Client) Properties(ctx context.Context, addr address.Address) ([]Property, error) {
	ctx, span := tracer.Start(ctx, "Properties")
	defer span.End()

	var result []Property
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"street": addr.Street,
			"number": addr.Number,
			"zip":    addr.Zip,
		}).
		SetResult(&result).
		Post("/register/properties")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to search properties")
		return nil, err
	}
	if res.IsError() {
		err := fmt.Errorf("search properties: unexpected status %s", res.Status())
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return result, nil
}

type Owner struct {
	Cpr  string `json:"cpr"`
	Name string `json:"name"`
}

func (c *Client) Owners(ctx context.Context, propertyNumber string) ([]Owner, error) {
	ctx, span := tracer.Start(ctx, "Owners")
	defer span.End()

	span.SetAttributes(attribute.String("property_number", propertyNumber))

	var result []Owner
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("property_number", propertyNumber).
		SetResult(&result).
		Get("/register/owners")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list owners")
		return nil, err
	}
	if res.IsError() {
		err := fmt.Errorf("list owners: unexpected status %s", res.Status())
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return result, nil
}

type FrozenDebt struct {
	Cpr    string `json:"cpr"`
	Name   string `json:"name"`
	Date   string `json:"date"`
	Amount string `json:"amount"`
	Status string `json:"status"`
}

func (c *Client) FrozenDebt(ctx context.Context, propertyNumber string, ownerCprs []string) ([]FrozenDebt, error) {
	ctx, span := tracer.Start(ctx, "FrozenDebt")
	defer span.End()

	span.SetAttributes(attribute.String("property_number", propertyNumber))

	var result []FrozenDebt
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"property_number": propertyNumber,
			"cprs":            ownerCprs,
		}).
		SetResult(&result).
		Post("/register/frozen-debt")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read frozen debt")
		return nil, err
	}
	if res.IsError() {
		err := fmt.Errorf("read frozen debt: unexpected status %s", res.Status())
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return result, nil
}

type DebtEntry struct {
	Title  string `json:"title"`
	Status string `json:"status"`
	// raw accounting format, e.g. "1.234,56-"
	Amount string `json:"amount"`
}

type DebtCase struct {
	Title   string      `json:"title"`
	Entries []DebtEntry `json:"entries"`
}

func (c *Client) PropertyDebt(ctx context.Context, cpr, propertyNumber string) ([]DebtCase, error) {
	ctx, span := tracer.Start(ctx, "PropertyDebt")
	defer span.End()

	span.SetAttributes(attribute.String("property_number", propertyNumber))

	var result []DebtCase
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"cpr":             cpr,
			"property_number": propertyNumber,
		}).
		SetResult(&result).
		Post("/ledger/property-debt")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read property debt")
		return nil, err
	}
	if res.IsError() {
		err := fmt.Errorf("read property debt: unexpected status %s", res.Status())
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return result, nil
}
