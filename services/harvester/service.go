// Package harvester keeps the report store in sync with the tax
// adjustment reports published in the document archive.
package harvester

import (
	"context"
	"log/slog"
	"proptax-robot/lib/reportstore"
	"proptax-robot/lib/timezone"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/harvester")

// reports of any other type in the archive folder concern payments
// and collections, only EAENDR documents are adjustments
const adjustmentReportType = "EAENDR"

type Document struct {
	Type       string
	ReportDate string
	TaxYear    string
}

// Archive is the document archive client. The production
// implementation drives the archive's desktop application, tests use
// a fake.
type Archive interface {
	Search(ctx context.Context, since time.Time) ([]Document, error)
	FetchTable(ctx context.Context, doc Document) (string, error)
}

type Service struct {
	store      reportstore.Store
	archive    Archive
	windowDays int
}

func NewService(store reportstore.Store, archive Archive, windowDays int) Service {
	if windowDays <= 0 {
		windowDays = 14
	}
	return Service{
		store:      store,
		archive:    archive,
		windowDays: windowDays,
	}
}

// Run searches the archive for adjustment reports published within
// the harvest window and ingests every report that is not yet in the
// store. Reports already recorded are skipped, so running twice over
// the same window is harmless.
func (s Service) Run(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "harvester:Run")
	defer span.End()

	since := timezone.Now().AddDate(0, 0, -s.windowDays)
	span.SetAttributes(attribute.String("since", since.Format("2006-01-02")))

	documents, err := s.archive.Search(ctx, since)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to search the archive")
		return err
	}

	for _, doc := range documents {
		if doc.Type != adjustmentReportType {
			continue
		}

		recorded, err := s.store.Exists(ctx, doc.ReportDate, doc.TaxYear)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to check the report store")
			return err
		}
		if recorded {
			continue
		}

		err = s.ingest(ctx, doc)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to ingest report")
			return err
		}
	}
	return nil
}

func (s Service) ingest(ctx context.Context, doc Document) error {
	ctx, span := tracer.Start(ctx, "harvester:ingest")
	defer span.End()

	span.SetAttributes(
		attribute.String("report_date", doc.ReportDate),
		attribute.String("tax_year", doc.TaxYear),
	)

	text, err := s.archive.FetchTable(ctx, doc)
	if err != nil {
		return err
	}

	rows, err := ParseReportTable(text)
	if err != nil {
		return err
	}

	propertyNumbers := make([]string, len(rows))
	for i, row := range rows {
		propertyNumbers[i] = row[0]
	}

	err = s.store.AddReport(ctx, doc.ReportDate, doc.TaxYear, propertyNumbers)
	if err != nil {
		return err
	}

	slog.InfoContext(
		ctx, "added report to the store",
		"report_date", doc.ReportDate,
		"tax_year", doc.TaxYear,
		"properties", len(propertyNumbers),
	)
	return nil
}
