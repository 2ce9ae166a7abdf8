// Package reportstore keeps a durable ledger of the tax adjustment
// reports the robot has already ingested, along with every property
// number each report touched. It exists so a report is never processed
// twice and so the inquiry flow can answer "which adjustments mention
// this property?" without rescanning the archive.
package reportstore

import (
	"context"
	"database/sql"
	"fmt"
	"proptax-robot/lib/reportstore/db"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

var tracer = otel.Tracer("lib/reportstore")

var ErrMalformedInput = fmt.Errorf("report date and tax year must not be empty")
var ErrDuplicateReport = fmt.Errorf("report already recorded")

type Store struct {
	db  *sql.DB
	qry *db.Queries
}

func NewStore(database *sql.DB) Store {
	return Store{
		db:  database,
		qry: db.New(database),
	}
}

// Init creates the backing tables and indexes. The schema only uses
// IF NOT EXISTS statements so calling it on an already initialized
// database is a no-op and leaves stored rows untouched.
func (s Store) Init(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Init")
	defer span.End()

	_, err := s.db.ExecContext(ctx, db.Schema)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create schema")
		return err
	}
	return nil
}

func (s Store) Exists(ctx context.Context, reportDate, taxYear string) (bool, error) {
	ctx, span := tracer.Start(ctx, "Exists")
	defer span.End()

	span.SetAttributes(
		attribute.String("report_date", reportDate),
		attribute.String("tax_year", taxYear),
	)

	count, err := s.qry.CountReports(ctx, db.CountReportsParams{
		ReportDate: reportDate,
		TaxYear:    taxYear,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to count reports")
		return false, err
	}
	return count > 0, nil
}

// AddReport records one report and one mention row per entry in
// propertyNumbers, all in a single transaction. Duplicates within
// propertyNumbers are kept as separate mentions and an empty list is
// fine. A report whose (report_date, tax_year) pair is already stored
// is rejected with ErrDuplicateReport. A blank property number
// violates the schema and aborts the whole report.
func (s Store) AddReport(ctx context.Context, reportDate, taxYear string, propertyNumbers []string) error {
	ctx, span := tracer.Start(ctx, "AddReport")
	defer span.End()

	span.SetAttributes(
		attribute.String("report_date", reportDate),
		attribute.String("tax_year", taxYear),
		attribute.Int("property_count", len(propertyNumbers)),
	)

	if reportDate == "" || taxYear == "" {
		span.SetStatus(codes.Error, "malformed report key")
		return ErrMalformedInput
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to begin transaction")
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	report, err := txqry.CreateReport(ctx, db.CreateReportParams{
		ReportDate: reportDate,
		TaxYear:    taxYear,
	})
	if isUniqueViolation(err) {
		span.SetStatus(codes.Error, "duplicate report key")
		return fmt.Errorf("%w: (%s, %s)", ErrDuplicateReport, reportDate, taxYear)
	} else if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to insert report row")
		return err
	}

	for _, number := range propertyNumbers {
		_, err := txqry.CreatePropertyMention(ctx, db.CreatePropertyMentionParams{
			PropertyNumber: number,
			ReportID:       report.ID,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to insert property mention row")
			return err
		}
	}

	err = tx.Commit()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to commit transaction")
		return err
	}
	return nil
}

type Mention struct {
	PropertyNumber string
	ReportDate     string
	TaxYear        string
}

// Lookup returns every stored mention of the given property number,
// joined with the owning report's key. The match is exact, leading
// zeros included. Results come back in insertion order.
func (s Store) Lookup(ctx context.Context, propertyNumber string) ([]Mention, error) {
	ctx, span := tracer.Start(ctx, "Lookup")
	defer span.End()

	span.SetAttributes(attribute.String("property_number", propertyNumber))

	rows, err := s.qry.GetPropertyMentions(ctx, propertyNumber)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to query property mentions")
		return nil, err
	}

	mentions := make([]Mention, len(rows))
	for i, r := range rows {
		mentions[i] = Mention{
			PropertyNumber: r.PropertyNumber,
			ReportDate:     r.ReportDate,
			TaxYear:        r.TaxYear,
		}
	}
	return mentions, nil
}

// both sqlite drivers report constraint failures through the error
// string only, there is no shared typed error to unwrap
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
