// Package api implements the HTTP client for the grafiksp4600 backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/n3xus47/grafiksp4600/internal/schedule"
)

// Backend defines the subset of the grafiksp4600 API the UI depends
// on. Implemented by *Client; test doubles implement it too.
type Backend interface {
	schedule.SaveClient
	FetchEmployees(ctx context.Context) ([]Employee, error)
	FetchSwapInbox(ctx context.Context) (SwapInbox, error)
	FetchUnavailabilityInbox(ctx context.Context) (UnavailabilityInbox, error)
}

// Ensure Client satisfies the interface at compile time.
var _ Backend = (*Client)(nil)

// Client talks to the grafiksp4600 HTTP API. All calls are JSON with
// the session cookie attached; state-changing calls also carry the
// CSRF token.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string

	sessionCookie string
	csrfToken     string
}

const (
	defaultUserAgent = "grafik/0.1"
	requestTimeout   = 10 * time.Second

	csrfHeader        = "X-CSRF-Token"
	sessionCookieName = "session"
)

// NewClient builds a Client for the given server address. A bare
// host:port is normalized to an http URL.
func NewClient(server, sessionCookie, csrfToken string) (*Client, error) {
	base, err := parseBaseURL(server)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent:     defaultUserAgent,
		sessionCookie: sessionCookie,
		csrfToken:     csrfToken,
	}, nil
}

// SaveChanges submits one batch of grid edits to /api/save.
func (c *Client) SaveChanges(ctx context.Context, changes []schedule.Change) (schedule.SaveReceipt, error) {
	if len(changes) == 0 {
		return schedule.SaveReceipt{}, fmt.Errorf("no changes to save")
	}
	body := saveRequest{Changes: changes}
	var payload saveResponse
	if err := c.do(ctx, http.MethodPost, "/api/save", body, &payload); err != nil {
		return schedule.SaveReceipt{}, err
	}
	return schedule.SaveReceipt{
		Status:     payload.Status,
		SavedCount: payload.SavedCount,
		Errors:     payload.Errors,
	}, nil
}

// FetchEmployees retrieves the roster.
func (c *Client) FetchEmployees(ctx context.Context) ([]Employee, error) {
	var payload employeeListResponse
	if err := c.do(ctx, http.MethodGet, "/api/employees", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

// CreateEmployee adds a roster entry.
func (c *Client) CreateEmployee(ctx context.Context, input EmployeeInput) error {
	return c.do(ctx, http.MethodPost, "/api/employees", input, nil)
}

// UpdateEmployee rewrites a roster entry.
func (c *Client) UpdateEmployee(ctx context.Context, id int64, input EmployeeInput) error {
	return c.do(ctx, http.MethodPut, "/api/employees/"+strconv.FormatInt(id, 10), input, nil)
}

// DeleteEmployee removes a roster entry.
func (c *Client) DeleteEmployee(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/employees/"+strconv.FormatInt(id, 10), nil, nil)
}

// CreateSwap submits a swap/give/take request.
func (c *Client) CreateSwap(ctx context.Context, payload schedule.SwapPayload) error {
	return c.do(ctx, http.MethodPost, "/api/swaps", payload, nil)
}

// FetchSwapInbox lists the viewer's swap requests.
func (c *Client) FetchSwapInbox(ctx context.Context) (SwapInbox, error) {
	var payload SwapInbox
	if err := c.do(ctx, http.MethodGet, "/api/swaps/inbox", nil, &payload); err != nil {
		return SwapInbox{}, err
	}
	return payload, nil
}

// RespondSwap records the recipient's accept/decline decision.
func (c *Client) RespondSwap(ctx context.Context, id int64, status string) error {
	return c.do(ctx, http.MethodPost, "/api/swaps/respond", statusUpdate{ID: id, Status: status}, nil)
}

// BossSwap records the boss's approve/reject decision.
func (c *Client) BossSwap(ctx context.Context, id int64, status string) error {
	return c.do(ctx, http.MethodPost, "/api/swaps/boss", statusUpdate{ID: id, Status: status}, nil)
}

// ClearSwaps deletes resolved requests from the mailbox.
func (c *Client) ClearSwaps(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/swaps/clear", nil, nil)
}

// CreateUnavailability declares days the viewer cannot work.
func (c *Client) CreateUnavailability(ctx context.Context, payload schedule.UnavailabilityPayload) error {
	return c.do(ctx, http.MethodPost, "/api/unavailability", payload, nil)
}

// FetchUnavailabilityInbox lists unavailability declarations.
func (c *Client) FetchUnavailabilityInbox(ctx context.Context) (UnavailabilityInbox, error) {
	var payload UnavailabilityInbox
	if err := c.do(ctx, http.MethodGet, "/api/unavailability/inbox", nil, &payload); err != nil {
		return UnavailabilityInbox{}, err
	}
	return payload, nil
}

// RespondUnavailability records the boss decision on a declaration.
func (c *Client) RespondUnavailability(ctx context.Context, id int64, status, comment string) error {
	body := unavailabilityResponse{ID: id, Status: status, BossComment: comment}
	return c.do(ctx, http.MethodPost, "/api/unavailability/respond", body, nil)
}

// DraftStatus reports whether a staged draft exists server-side.
func (c *Client) DraftStatus(ctx context.Context) (DraftStatus, error) {
	var payload DraftStatus
	if err := c.do(ctx, http.MethodGet, "/api/draft/status", nil, &payload); err != nil {
		return DraftStatus{}, err
	}
	return payload, nil
}

// DraftLoad retrieves the staged-but-unpublished draft entries.
func (c *Client) DraftLoad(ctx context.Context) ([]schedule.DraftChange, error) {
	var payload draftLoadResponse
	if err := c.do(ctx, http.MethodGet, "/api/draft/load", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Changes, nil
}

// DraftSave stages the given diff server-side without publishing.
func (c *Client) DraftSave(ctx context.Context, changes []schedule.DraftChange) error {
	return c.do(ctx, http.MethodPost, "/api/draft/save", draftSaveRequest{Changes: changes}, nil)
}

// DraftPublish promotes the staged draft to the official schedule. The
// request carries no payload; the server already holds the draft.
func (c *Client) DraftPublish(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/draft/publish", nil, nil)
}

// DraftDiscard drops the staged draft server-side.
func (c *Client) DraftDiscard(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/draft/discard", nil, nil)
}

// FetchShiftsForDate retrieves the assignments for one day, grouped by
// shift type.
func (c *Client) FetchShiftsForDate(ctx context.Context, date string) (DayShifts, error) {
	var payload DayShifts
	if err := c.do(ctx, http.MethodGet, "/api/shifts/"+date, nil, &payload); err != nil {
		return DayShifts{}, err
	}
	return payload, nil
}

// FetchMonth loads a whole month's grid by walking the per-day shifts
// endpoint. The backend stores canonical type names; they are folded
// back to the grid's short codes here.
func (c *Client) FetchMonth(ctx context.Context, year int, month time.Month) (map[schedule.CellKey]string, error) {
	values := make(map[schedule.CellKey]string)
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for day := first; day.Month() == month; day = day.AddDate(0, 0, 1) {
		date := day.Format("2006-01-02")
		shifts, err := c.FetchShiftsForDate(ctx, date)
		if err != nil {
			return nil, fmt.Errorf("fetch shifts for %s: %w", date, err)
		}
		for _, name := range shifts.Day {
			values[schedule.CellKey{Date: date, Employee: name}] = schedule.DayShift
		}
		for _, name := range shifts.Night {
			values[schedule.CellKey{Date: date, Employee: name}] = schedule.NightShift
		}
		for _, name := range shifts.Afternoon {
			values[schedule.CellKey{Date: date, Employee: name}] = "P"
		}
	}
	return values, nil
}

// ExportExcel downloads the month's spreadsheet into dir and returns
// the written path. The filename comes from the Content-Disposition
// header, falling back to a generated name.
func (c *Client) ExportExcel(ctx context.Context, year int, month time.Month, dir string) (string, error) {
	values := url.Values{}
	values.Set("year", strconv.Itoa(year))
	values.Set("month", strconv.Itoa(int(month)))
	rel := &url.URL{Path: "/api/export/excel", RawQuery: values.Encode()}

	req, err := c.newRequest(ctx, http.MethodGet, rel, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return "", c.responseError(rel, resp)
	}

	filename := fmt.Sprintf("grafik-%04d-%02d.xlsx", year, int(month))
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if name := filepath.Base(params["filename"]); name != "." && name != "/" && name != "" {
				filename = name
			}
		}
	}

	path := filepath.Join(dir, filename)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer func() { _ = file.Close() }()
	if _, err := io.Copy(file, resp.Body); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	return path, nil
}

// FetchVAPIDKey retrieves the push collaborator's public key.
func (c *Client) FetchVAPIDKey(ctx context.Context) (string, error) {
	var payload vapidKeyResponse
	if err := c.do(ctx, http.MethodGet, "/api/push/vapid-key", nil, &payload); err != nil {
		return "", err
	}
	return payload.PublicKey, nil
}

// SubscribePush registers a push subscription document with the server.
func (c *Client) SubscribePush(ctx context.Context, subscription json.RawMessage) error {
	return c.do(ctx, http.MethodPost, "/api/push/subscribe", subscription, nil)
}

// SendTestPush asks the server to deliver a test notification back to
// the viewer's subscriptions.
func (c *Client) SendTestPush(ctx context.Context, title, body string) error {
	return c.do(ctx, http.MethodPost, "/api/push/send", pushMessage{Title: title, Body: body}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, method, rel, body, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	req, err := c.newRequest(ctx, method, rel, body)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return c.responseError(rel, resp)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method string, rel *url.URL, body any) (*http.Request, error) {
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.sessionCookie != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: c.sessionCookie})
	}
	if method != http.MethodGet && c.csrfToken != "" {
		req.Header.Set(csrfHeader, c.csrfToken)
	}
	return req, nil
}

// responseError folds a non-2xx response into a *Error, preferring the
// server's {error} message when the body is JSON.
func (c *Client) responseError(rel *url.URL, resp *http.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode, Path: rel.String()}
	var payload errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		apiErr.Message = payload.Error
	}
	return apiErr
}

func parseBaseURL(server string) (*url.URL, error) {
	trimmed := strings.TrimSpace(server)
	if trimmed == "" {
		return nil, fmt.Errorf("server address is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse server %q: %w", server, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
