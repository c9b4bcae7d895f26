package app

import (
	"context"
	"log"
	"time"

	"github.com/n3xus47/grafiksp4600/internal/api"
	"github.com/n3xus47/grafiksp4600/internal/state"
)

const defaultPollInterval = 30 * time.Second

// StartPoller launches a background goroutine that refreshes the roster
// and mailbox feeds at a fixed cadence. It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, client *api.Client, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			refresh(ctx, store, client)
		}
	}()
}

func refresh(ctx context.Context, store *state.Store, client *api.Client) {
	roster, err := client.FetchEmployees(ctx)
	if err != nil {
		store.Update(nil, nil, nil, err)
		log.Printf("roster poll failed: %v", err)
		return
	}
	inbox, err := client.FetchSwapInbox(ctx)
	if err != nil {
		store.Update(nil, nil, nil, err)
		log.Printf("mailbox poll failed: %v", err)
		return
	}
	unavailability, err := client.FetchUnavailabilityInbox(ctx)
	if err != nil {
		store.Update(nil, nil, nil, err)
		log.Printf("unavailability poll failed: %v", err)
		return
	}
	store.Update(roster, &inbox, &unavailability, nil)
	store.MarkFetched(state.FeedRoster)
	store.MarkFetched(state.FeedMailbox)
	store.MarkFetched(state.FeedUnavailability)
}
