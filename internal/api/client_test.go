package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/n3xus47/grafiksp4600/internal/schedule"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, "cookie-value", "csrf-value")
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	return client
}

func TestClient_SaveChanges(t *testing.T) {
	var gotPath, gotCSRF, gotCookie string
	var gotBody saveRequest

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotCSRF = r.Header.Get("X-CSRF-Token")
		if cookie, err := r.Cookie("session"); err == nil {
			gotCookie = cookie.Value
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(saveResponse{
			Status:     "partial",
			SavedCount: 1,
			Errors:     []string{"row 2: unknown employee"},
		})
	})

	changes := []schedule.Change{
		{Date: "2026-08-10", Employee: "Anna", Value: "D"},
		{Date: "2026-08-11", Employee: "Nobody", Value: "N"},
	}
	receipt, err := client.SaveChanges(context.Background(), changes)
	if err != nil {
		t.Fatalf("SaveChanges error: %v", err)
	}

	if gotPath != "/api/save" {
		t.Errorf("path = %q, want /api/save", gotPath)
	}
	if gotCSRF != "csrf-value" {
		t.Errorf("CSRF header = %q, want csrf-value", gotCSRF)
	}
	if gotCookie != "cookie-value" {
		t.Errorf("session cookie = %q, want cookie-value", gotCookie)
	}
	if len(gotBody.Changes) != 2 || gotBody.Changes[0].Employee != "Anna" {
		t.Errorf("request changes = %+v", gotBody.Changes)
	}
	if !receipt.Partial() || receipt.SavedCount != 1 || len(receipt.Errors) != 1 {
		t.Errorf("receipt = %+v, want partial with one error", receipt)
	}
}

func TestClient_SaveChangesRejectsEmptyBatch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("empty batch reached the server")
	})
	if _, err := client.SaveChanges(context.Background(), nil); err == nil {
		t.Fatal("empty batch accepted")
	}
}

func TestClient_GetOmitsCSRFHeader(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-CSRF-Token") != "" {
			t.Error("CSRF header present on a GET")
		}
		if _, err := r.Cookie("session"); err != nil {
			t.Error("session cookie missing on a GET")
		}
		_ = json.NewEncoder(w).Encode(employeeListResponse{Items: []Employee{{ID: 1, Name: "Anna"}}})
	})

	roster, err := client.FetchEmployees(context.Background())
	if err != nil {
		t.Fatalf("FetchEmployees error: %v", err)
	}
	if len(roster) != 1 || roster[0].Name != "Anna" {
		t.Fatalf("roster = %+v", roster)
	}
}

func TestClient_ErrorResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"session expired"}`))
	})

	_, err := client.FetchSwapInbox(context.Background())
	if err == nil {
		t.Fatal("no error for a 403 response")
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if !apiErr.IsAuth() {
		t.Errorf("IsAuth() = false for status %d", apiErr.StatusCode)
	}
	if apiErr.Message != "session expired" {
		t.Errorf("message = %q, want the server's error string", apiErr.Message)
	}
}

func TestClient_FetchMonthFoldsShiftTypes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		date := filepath.Base(r.URL.Path)
		payload := DayShifts{Date: date}
		if date == "2026-02-10" {
			payload.Day = []string{"Anna"}
			payload.Night = []string{"Beata"}
			payload.Afternoon = []string{"Celina"}
		}
		_ = json.NewEncoder(w).Encode(payload)
	})

	values, err := client.FetchMonth(context.Background(), 2026, time.February)
	if err != nil {
		t.Fatalf("FetchMonth error: %v", err)
	}
	if len(values) != 3 {
		t.Fatalf("got %d cells, want 3", len(values))
	}
	checks := map[schedule.CellKey]string{
		{Date: "2026-02-10", Employee: "Anna"}:   "D",
		{Date: "2026-02-10", Employee: "Beata"}:  "N",
		{Date: "2026-02-10", Employee: "Celina"}: "P",
	}
	for key, want := range checks {
		if got := values[key]; got != want {
			t.Errorf("values[%v] = %q, want %q", key, got, want)
		}
	}
}

func TestClient_ExportExcel(t *testing.T) {
	content := []byte("spreadsheet-bytes")
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("year") != "2026" || r.URL.Query().Get("month") != "8" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Disposition", `attachment; filename="grafik_sierpien.xlsx"`)
		_, _ = w.Write(content)
	})

	dir := t.TempDir()
	path, err := client.ExportExcel(context.Background(), 2026, time.August, dir)
	if err != nil {
		t.Fatalf("ExportExcel error: %v", err)
	}
	if filepath.Base(path) != "grafik_sierpien.xlsx" {
		t.Errorf("filename = %q, want the header-provided name", filepath.Base(path))
	}
	written, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read exported file: %v", err)
	}
	if string(written) != string(content) {
		t.Errorf("file content = %q, want %q", written, content)
	}
}

func TestClient_ExportExcelFallbackFilename(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("x"))
	})

	path, err := client.ExportExcel(context.Background(), 2026, time.January, t.TempDir())
	if err != nil {
		t.Fatalf("ExportExcel error: %v", err)
	}
	if filepath.Base(path) != "grafik-2026-01.xlsx" {
		t.Errorf("fallback filename = %q", filepath.Base(path))
	}
}

func TestParseBaseURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"127.0.0.1:8000", "http://127.0.0.1:8000", false},
		{"https://grafik.example.com", "https://grafik.example.com", false},
		{"http://host:9000/some/path?x=1", "http://host:9000", false},
		{"  ", "", true},
	}
	for _, tt := range tests {
		u, err := parseBaseURL(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseBaseURL(%q) accepted, want error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseBaseURL(%q) error: %v", tt.in, err)
			continue
		}
		if u.String() != tt.want {
			t.Errorf("parseBaseURL(%q) = %q, want %q", tt.in, u.String(), tt.want)
		}
	}
}

func TestClient_DraftEndpoints(t *testing.T) {
	var paths []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		switch r.URL.Path {
		case "/api/draft/status":
			_ = json.NewEncoder(w).Encode(DraftStatus{HasDraft: true, UpdatedAt: "2026-08-01T10:00:00Z"})
		case "/api/draft/load":
			_ = json.NewEncoder(w).Encode(draftLoadResponse{Changes: []schedule.DraftChange{
				{Date: "2026-08-10", Employee: "Anna", ShiftType: "N"},
			}})
		default:
			w.WriteHeader(http.StatusOK)
		}
	})

	ctx := context.Background()
	status, err := client.DraftStatus(ctx)
	if err != nil || !status.HasDraft {
		t.Fatalf("DraftStatus = (%+v, %v)", status, err)
	}
	staged, err := client.DraftLoad(ctx)
	if err != nil || len(staged) != 1 || staged[0].ShiftType != "N" {
		t.Fatalf("DraftLoad = (%+v, %v)", staged, err)
	}
	if err := client.DraftSave(ctx, staged); err != nil {
		t.Fatalf("DraftSave error: %v", err)
	}
	if err := client.DraftPublish(ctx); err != nil {
		t.Fatalf("DraftPublish error: %v", err)
	}
	if err := client.DraftDiscard(ctx); err != nil {
		t.Fatalf("DraftDiscard error: %v", err)
	}

	want := []string{
		"GET /api/draft/status",
		"GET /api/draft/load",
		"POST /api/draft/save",
		"POST /api/draft/publish",
		"POST /api/draft/discard",
	}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}
