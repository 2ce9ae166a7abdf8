package agent_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"proptax-robot/lib/address"
	"proptax-robot/lib/agent"

	"github.com/stretchr/testify/require"
)

func TestDocuments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/archive/documents", r.URL.Path)
		require.Equal(t, "2024-05-01", r.URL.Query().Get("since"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]agent.Document{
			{Type: "EAENDR", ReportDate: "02-01-2023", TaxYear: "2023"},
		})
	}))
	defer server.Close()

	client := agent.NewClient(agent.Config{Url: server.URL})
	since := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	docs, err := client.Documents(context.Background(), since)
	require.NoError(t, err)
	require.Equal(t, []agent.Document{
		{Type: "EAENDR", ReportDate: "02-01-2023", TaxYear: "2023"},
	}, docs)
}

func TestDocumentTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/archive/table", r.URL.Path)

		var doc agent.Document
		require.NoError(t, json.NewDecoder(r.Body).Decode(&doc))
		require.Equal(t, "02-01-2023", doc.ReportDate)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"text": "Kommunal ejd."})
	}))
	defer server.Close()

	client := agent.NewClient(agent.Config{Url: server.URL})

	text, err := client.DocumentTable(context.Background(), agent.Document{
		Type: "EAENDR", ReportDate: "02-01-2023", TaxYear: "2023",
	})
	require.NoError(t, err)
	require.Equal(t, "Kommunal ejd.", text)
}

func TestPropertiesAndDebt(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /register/properties", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "Skejbygårdsvej", body["street"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]agent.Property{
			{PropertyNumber: "777159", Location: "Skejbygårdsvej 46, 3 TH,0046,8240 Risskov"},
		})
	})
	mux.HandleFunc("GET /register/owners", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "777159", r.URL.Query().Get("property_number"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]agent.Owner{{Cpr: "010180-1234", Name: "Jens Hansen"}})
	})
	mux.HandleFunc("POST /ledger/property-debt", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]agent.DebtCase{
			{
				Title: "Ejendomsskat 2023",
				Entries: []agent.DebtEntry{
					{Title: "Rate 1", Status: "Forfalden", Amount: "1.234,56"},
				},
			},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := agent.NewClient(agent.Config{Url: server.URL})
	ctx := context.Background()

	properties, err := client.Properties(ctx, address.Address{
		Street: "Skejbygårdsvej", Number: "46", Zip: "8240", City: "Risskov",
	})
	require.NoError(t, err)
	require.Len(t, properties, 1)
	require.Equal(t, "777159", properties[0].PropertyNumber)

	owners, err := client.Owners(ctx, "777159")
	require.NoError(t, err)
	require.Len(t, owners, 1)

	cases, err := client.PropertyDebt(ctx, "010180-1234", "777159")
	require.NoError(t, err)
	require.Len(t, cases, 1)
	require.Equal(t, "1.234,56", cases[0].Entries[0].Amount)
}

func TestServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "register client crashed", http.StatusBadGateway)
	}))
	defer server.Close()

	client := agent.NewClient(agent.Config{Url: server.URL})

	_, err := client.Owners(context.Background(), "777159")
	require.ErrorContains(t, err, "502")
}
