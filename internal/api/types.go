package api

import (
	"fmt"
	"net/http"

	"github.com/n3xus47/grafiksp4600/internal/schedule"
)

// Error is a server-reported failure: a non-2xx status, optionally
// with the backend's {error} message.
type Error struct {
	StatusCode int
	Path       string
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api %s returned status %d: %s", e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api %s returned status %d", e.Path, e.StatusCode)
}

// IsAuth reports whether the failure looks like a stale or missing
// session. There is no automatic re-auth flow; the caller surfaces it.
func (e *Error) IsAuth() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

type errorResponse struct {
	Error string `json:"error"`
}

type saveRequest struct {
	Changes []schedule.Change `json:"changes"`
}

type saveResponse struct {
	Status     string   `json:"status"`
	Message    string   `json:"message"`
	SavedCount int      `json:"saved_count"`
	Errors     []string `json:"errors"`
}

// Employee is one roster entry.
type Employee struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Code  string `json:"code"`
	Email string `json:"email"`
}

// EmployeeInput carries the writable roster fields.
type EmployeeInput struct {
	Name  string `json:"name"`
	Code  string `json:"code"`
	Email string `json:"email"`
}

type employeeListResponse struct {
	Items []Employee `json:"items"`
}

// SwapInbox mirrors /api/swaps/inbox.
type SwapInbox struct {
	Items  []schedule.RequestItem `json:"items"`
	IsBoss bool                   `json:"is_boss"`
}

// UnavailabilityInbox mirrors /api/unavailability/inbox.
type UnavailabilityInbox struct {
	Items  []schedule.UnavailabilityItem `json:"items"`
	IsBoss bool                          `json:"is_boss"`
}

type statusUpdate struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

type unavailabilityResponse struct {
	ID          int64  `json:"id"`
	Status      string `json:"status"`
	BossComment string `json:"boss_comment"`
}

// DraftStatus mirrors /api/draft/status.
type DraftStatus struct {
	HasDraft  bool   `json:"has_draft"`
	UpdatedAt string `json:"updated_at"`
}

type draftLoadResponse struct {
	Changes []schedule.DraftChange `json:"changes"`
}

type draftSaveRequest struct {
	Changes []schedule.DraftChange `json:"changes"`
}

// DayShifts mirrors /api/shifts/{date}: employee names grouped by
// canonical shift type.
type DayShifts struct {
	Date      string   `json:"date"`
	Day       []string `json:"dniowka"`
	Afternoon []string `json:"popoludniowka"`
	Night     []string `json:"nocka"`
}

type vapidKeyResponse struct {
	PublicKey string `json:"public_key"`
}

type pushMessage struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}
