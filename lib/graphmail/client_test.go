package graphmail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"proptax-robot/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*Client, context.Context, *[]string) {
	cleanup := telemetry.SetupForTesting("test:graphmail")
	t.Cleanup(cleanup)

	var deleted []string

	mux := http.NewServeMux()
	mux.HandleFunc("POST /tenant-1/oauth2/v2.0/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "password", r.Form.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"access_token": "token-1"})
	})
	mux.HandleFunc("GET /users/robot@example.test/mailFolders", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"value": []map[string]any{
			{"id": "inbox-id", "displayName": "Indbakke"},
		}})
	})
	mux.HandleFunc("GET /users/robot@example.test/mailFolders/inbox-id/childFolders", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"value": []map[string]any{
			{"id": "tax-id", "displayName": "Ejendomsbeskatning"},
		}})
	})
	mux.HandleFunc("GET /users/robot@example.test/mailFolders/tax-id/messages", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"value": []map[string]any{
			{
				"id":      "msg-1",
				"subject": "Forespørgsel",
				"from":    map[string]any{"emailAddress": map[string]any{"address": "noreply@example.test"}},
				"body":    map[string]any{"content": "<html><p>hej</p></html>"},
			},
		}})
	})
	mux.HandleFunc("DELETE /users/robot@example.test/messages/{id}", func(w http.ResponseWriter, r *http.Request) {
		deleted = append(deleted, r.PathValue("id"))
		w.WriteHeader(http.StatusNoContent)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	t.Cleanup(cancel)

	client := NewClient(Config{
		TenantId: "tenant-1",
		ClientId: "client-1",
		Username: "robot@example.test",
		Password: "hunter2",
		GraphUrl: server.URL,
		LoginUrl: server.URL,
	})
	return client, ctx, &deleted
}

func TestMailboxRoundTrip(t *testing.T) {
	client, ctx, deleted := setup(t)

	err := client.Login(ctx)
	require.NoError(t, err)

	messages, err := client.Messages(ctx, "robot@example.test", "Indbakke/Ejendomsbeskatning")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Equal(t, "msg-1", messages[0].Id)
	require.Equal(t, "noreply@example.test", messages[0].Sender)

	err = client.Delete(ctx, "robot@example.test", "msg-1")
	require.NoError(t, err)
	require.Equal(t, []string{"msg-1"}, *deleted)
}

func TestUnknownFolder(t *testing.T) {
	client, ctx, _ := setup(t)

	err := client.Login(ctx)
	require.NoError(t, err)

	_, err = client.Messages(ctx, "robot@example.test", "Indbakke/Missing")
	require.ErrorIs(t, err, ErrFolderNotFound)
}
