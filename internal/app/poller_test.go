package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/n3xus47/grafiksp4600/internal/api"
	"github.com/n3xus47/grafiksp4600/internal/state"
)

func TestRefreshPopulatesStore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/employees":
			_, _ = w.Write([]byte(`{"items":[{"id":1,"name":"Anna"}]}`))
		case "/api/swaps/inbox":
			_, _ = w.Write([]byte(`{"items":[{"id":5,"from_employee":"Anna"}],"is_boss":true}`))
		case "/api/unavailability/inbox":
			_, _ = w.Write([]byte(`{"items":[],"is_boss":true}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "unknown path"})
		}
	}))
	defer server.Close()

	client, err := api.NewClient(server.URL, "", "")
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	store := &state.Store{}

	refresh(context.Background(), store, client)

	snap := store.Snapshot()
	if len(snap.Roster) != 1 || snap.Roster[0].Name != "Anna" {
		t.Fatalf("roster = %+v, want Anna", snap.Roster)
	}
	if len(snap.Mailbox) != 1 || snap.Mailbox[0].ID != 5 {
		t.Fatalf("mailbox = %+v, want one item", snap.Mailbox)
	}
	if !snap.IsBoss {
		t.Fatal("IsBoss not set from the inbox")
	}
	for _, feed := range []string{state.FeedRoster, state.FeedMailbox, state.FeedUnavailability} {
		if !store.Fresh(feed, defaultPollInterval) {
			t.Errorf("feed %s not marked fetched", feed)
		}
	}
}

func TestRefreshRecordsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := api.NewClient(server.URL, "", "")
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	store := &state.Store{}

	refresh(context.Background(), store, client)

	snap := store.Snapshot()
	if snap.LastError == nil {
		t.Fatal("LastError not recorded after a failing poll")
	}
	if snap.ConsecutiveFailures != 1 {
		t.Fatalf("ConsecutiveFailures = %d, want 1", snap.ConsecutiveFailures)
	}
	if store.Fresh(state.FeedRoster, defaultPollInterval) {
		t.Fatal("failed poll marked the roster feed fetched")
	}
}
