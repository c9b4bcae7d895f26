package schedule

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// SaveReceipt is the backend's answer to a save batch.
type SaveReceipt struct {
	Status     string
	SavedCount int
	Errors     []string
}

// Partial reports whether the backend processed only part of the batch.
func (r SaveReceipt) Partial() bool { return r.Status == "partial" }

// SaveClient submits one batch of changes. Implemented by api.Client.
type SaveClient interface {
	SaveChanges(ctx context.Context, changes []Change) (SaveReceipt, error)
}

// SaveOutcome describes what happened to a save attempt that did not
// fail in transport.
type SaveOutcome struct {
	// Exited is true when edit mode ended (empty batch or accepted save).
	Exited bool
	// ReloadNeeded is true when displayed state must be re-fetched to
	// match the server's authoritative state.
	ReloadNeeded bool
	// Submitted is how many records went to the backend.
	Submitted int
	// Saved and Failed are the backend's counts for a partial response.
	Saved  int
	Failed int
	// ValidationErrors lists per-record problems found before any
	// network call. Non-empty means nothing was submitted.
	ValidationErrors []string
}

// Saver validates and submits pending change batches and reconciles the
// response back into session state. Failures are never retried
// automatically: saving is a user-initiated action and an automatic
// retry could double-submit.
type Saver struct {
	client   SaveClient
	validate *validator.Validate
}

// NewSaver builds a Saver around the backend client.
func NewSaver(client SaveClient) *Saver {
	return &Saver{
		client:   client,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Save submits the session's pending set as one batch.
//
// An empty set is a pure mode exit: no request, no reload. Records that
// fail client-side validation abort the submission with an itemized
// error list and leave the session untouched. A transport or parse
// error also leaves edit mode and the pending set intact so the user
// can retry without losing work. An accepted response (full or partial)
// clears the pending set and exits edit mode; partial results carry the
// saved/failed counts so the caller can surface them.
func (s *Saver) Save(ctx context.Context, session *Session) (SaveOutcome, error) {
	if session.Pending().Len() == 0 {
		session.FinishSave()
		return SaveOutcome{Exited: true}, nil
	}

	changes := session.Pending().Changes()
	if errs := s.validateChanges(changes); len(errs) > 0 {
		return SaveOutcome{ValidationErrors: errs}, nil
	}

	receipt, err := s.client.SaveChanges(ctx, changes)
	if err != nil {
		return SaveOutcome{}, fmt.Errorf("submit %d changes: %w", len(changes), err)
	}

	session.FinishSave()
	outcome := SaveOutcome{
		Exited:       true,
		ReloadNeeded: true,
		Submitted:    len(changes),
	}
	if receipt.Partial() {
		outcome.Saved = receipt.SavedCount
		outcome.Failed = len(receipt.Errors)
	} else {
		outcome.Saved = len(changes)
	}
	return outcome, nil
}

func (s *Saver) validateChanges(changes []Change) []string {
	var errs []string
	for i, change := range changes {
		if err := s.validate.Struct(change); err == nil {
			continue
		} else if invalid, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range invalid {
				errs = append(errs, fmt.Sprintf("change %d (%s, %s): %s failed %s",
					i+1, change.Date, change.Employee, fieldErr.Field(), fieldErr.Tag()))
			}
		} else {
			errs = append(errs, fmt.Sprintf("change %d: %v", i+1, err))
		}
	}
	return errs
}
