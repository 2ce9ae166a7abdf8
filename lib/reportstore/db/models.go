package db

type Report struct {
	ID         int64
	ReportDate string
	TaxYear    string
}

type PropertyMention struct {
	ID             int64
	PropertyNumber string
	ReportID       int64
}
