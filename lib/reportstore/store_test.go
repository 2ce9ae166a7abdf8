package reportstore

import (
	"context"
	"testing"
	"time"

	"proptax-robot/lib/reportstore/db"
	"proptax-robot/lib/testutil"

	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (Store, context.Context) {
	res, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "reportstore",
		DbSchema: db.Schema,
	})
	t.Cleanup(cleanup)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	t.Cleanup(cancel)

	return NewStore(res.DB), ctx
}

func TestRoundTrip(t *testing.T) {
	store, ctx := setupStore(t)

	err := store.AddReport(ctx, "2024-05-01", "2024", []string{"000123", "000456"})
	require.NoError(t, err)

	mentions, err := store.Lookup(ctx, "000123")
	require.NoError(t, err)
	require.Equal(t, []Mention{
		{PropertyNumber: "000123", ReportDate: "2024-05-01", TaxYear: "2024"},
	}, mentions)

	mentions, err = store.Lookup(ctx, "999999")
	require.NoError(t, err)
	require.Len(t, mentions, 0)
}

func TestExists(t *testing.T) {
	store, ctx := setupStore(t)

	found, err := store.Exists(ctx, "2024-08-10", "2023")
	require.NoError(t, err)
	require.False(t, found)

	err = store.AddReport(ctx, "2024-08-10", "2023", []string{"A1", "B2"})
	require.NoError(t, err)

	found, err = store.Exists(ctx, "2024-08-10", "2023")
	require.NoError(t, err)
	require.True(t, found)

	// same date under a different year is a different report
	found, err = store.Exists(ctx, "2024-08-10", "2024")
	require.NoError(t, err)
	require.False(t, found)
}

func TestDuplicateKeyRejected(t *testing.T) {
	store, ctx := setupStore(t)

	err := store.AddReport(ctx, "2024-05-01", "2024", []string{"000123"})
	require.NoError(t, err)

	err = store.AddReport(ctx, "2024-05-01", "2024", []string{"000789"})
	require.ErrorIs(t, err, ErrDuplicateReport)

	// the failed ingestion must not leave mention rows behind
	mentions, err := store.Lookup(ctx, "000789")
	require.NoError(t, err)
	require.Len(t, mentions, 0)
}

func TestDuplicateMentionsPreserved(t *testing.T) {
	store, ctx := setupStore(t)

	err := store.AddReport(ctx, "2024-06-01", "2024", []string{"000123", "000123"})
	require.NoError(t, err)

	mentions, err := store.Lookup(ctx, "000123")
	require.NoError(t, err)
	require.Len(t, mentions, 2)
}

func TestEmptyMentionList(t *testing.T) {
	store, ctx := setupStore(t)

	err := store.AddReport(ctx, "2024-07-01", "2024", nil)
	require.NoError(t, err)

	found, err := store.Exists(ctx, "2024-07-01", "2024")
	require.NoError(t, err)
	require.True(t, found)
}

func TestMalformedKey(t *testing.T) {
	store, ctx := setupStore(t)

	err := store.AddReport(ctx, "", "2024", []string{"000123"})
	require.ErrorIs(t, err, ErrMalformedInput)

	err = store.AddReport(ctx, "2024-05-01", "", []string{"000123"})
	require.ErrorIs(t, err, ErrMalformedInput)
}

func TestInitIdempotent(t *testing.T) {
	store, ctx := setupStore(t)

	err := store.AddReport(ctx, "2024-05-01", "2024", []string{"000123"})
	require.NoError(t, err)

	// re-running the schema must not fail or erase stored rows
	err = store.Init(ctx)
	require.NoError(t, err)

	found, err := store.Exists(ctx, "2024-05-01", "2024")
	require.NoError(t, err)
	require.True(t, found)
}

func TestFailedMentionRollsBackReport(t *testing.T) {
	store, ctx := setupStore(t)

	// the blank number trips the schema check after the report row
	// and the first mention were already written in the transaction
	err := store.AddReport(ctx, "2024-05-01", "2024", []string{"000123", ""})
	require.Error(t, err)

	found, err := store.Exists(ctx, "2024-05-01", "2024")
	require.NoError(t, err)
	require.False(t, found)

	mentions, err := store.Lookup(ctx, "000123")
	require.NoError(t, err)
	require.Empty(t, mentions)
}

func TestQueriesReturnInsertedRows(t *testing.T) {
	store, ctx := setupStore(t)

	qry := db.New(store.db)
	report, err := qry.CreateReport(ctx, db.CreateReportParams{
		ReportDate: "2024-06-01",
		TaxYear:    "2024",
	})
	require.NoError(t, err)
	require.NotZero(t, report.ID)
	require.Equal(t, "2024-06-01", report.ReportDate)
	require.Equal(t, "2024", report.TaxYear)

	mention, err := qry.CreatePropertyMention(ctx, db.CreatePropertyMentionParams{
		PropertyNumber: "000123",
		ReportID:       report.ID,
	})
	require.NoError(t, err)
	require.NotZero(t, mention.ID)
	require.Equal(t, "000123", mention.PropertyNumber)
	require.Equal(t, report.ID, mention.ReportID)
}

func TestLookupOrder(t *testing.T) {
	store, ctx := setupStore(t)

	err := store.AddReport(ctx, "2024-01-01", "2023", []string{"777"})
	require.NoError(t, err)
	err = store.AddReport(ctx, "2024-02-01", "2023", []string{"777"})
	require.NoError(t, err)

	mentions, err := store.Lookup(ctx, "777")
	require.NoError(t, err)
	require.Equal(t, []Mention{
		{PropertyNumber: "777", ReportDate: "2024-01-01", TaxYear: "2023"},
		{PropertyNumber: "777", ReportDate: "2024-02-01", TaxYear: "2023"},
	}, mentions)
}
