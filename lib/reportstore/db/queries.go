package db

import (
	"context"
)

const createReport = `
INSERT INTO reports (report_date, tax_year)
VALUES (?, ?)
RETURNING id, report_date, tax_year
`

type CreateReportParams struct {
	ReportDate string
	TaxYear    string
}

func (q *Queries) CreateReport(ctx context.Context, arg CreateReportParams) (Report, error) {
	row := q.db.QueryRowContext(ctx, createReport, arg.ReportDate, arg.TaxYear)
	var i Report
	err := row.Scan(&i.ID, &i.ReportDate, &i.TaxYear)
	return i, err
}

const createPropertyMention = `
INSERT INTO property_mentions (property_number, report_id)
VALUES (?, ?)
RETURNING id, property_number, report_id
`

type CreatePropertyMentionParams struct {
	PropertyNumber string
	ReportID       int64
}

func (q *Queries) CreatePropertyMention(ctx context.Context, arg CreatePropertyMentionParams) (PropertyMention, error) {
	row := q.db.QueryRowContext(ctx, createPropertyMention, arg.PropertyNumber, arg.ReportID)
	var i PropertyMention
	err := row.Scan(&i.ID, &i.PropertyNumber, &i.ReportID)
	return i, err
}

const countReports = `
SELECT COUNT(*) FROM reports
WHERE report_date = ? AND tax_year = ?
`

type CountReportsParams struct {
	ReportDate string
	TaxYear    string
}

func (q *Queries) CountReports(ctx context.Context, arg CountReportsParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, countReports, arg.ReportDate, arg.TaxYear)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const getPropertyMentions = `
SELECT property_mentions.property_number, reports.report_date, reports.tax_year
FROM property_mentions
JOIN reports ON property_mentions.report_id = reports.id
WHERE property_mentions.property_number = ?
ORDER BY property_mentions.id
`

type GetPropertyMentionsRow struct {
	PropertyNumber string
	ReportDate     string
	TaxYear        string
}

func (q *Queries) GetPropertyMentions(ctx context.Context, propertyNumber string) ([]GetPropertyMentionsRow, error) {
	rows, err := q.db.QueryContext(ctx, getPropertyMentions, propertyNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []GetPropertyMentionsRow
	for rows.Next() {
		var i GetPropertyMentionsRow
		if err := rows.Scan(&i.PropertyNumber, &i.ReportDate, &i.TaxYear); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
