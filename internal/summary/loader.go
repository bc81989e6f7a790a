// Package summary provides a single-slot loader for the completed-activity
// view. UI-driven callers point it at a user and read snapshots; when the
// user changes mid-flight, the newest request wins and stale results are
// dropped.
//
// The service binary does not use this package: it is the embedding entry
// point for Go clients that render the summary and refetch whenever their
// active user changes, wrapping Service.CompletedActivities as the FetchFunc.
package summary

import (
	"context"
	"sync"

	"example.com/wearsync/internal/domain"
)

// FetchFunc loads the summary for one user.
type FetchFunc func(ctx context.Context, userID string) (domain.CompletedActivities, error)

// Loader tracks the latest requested user and the result of the most recent
// fetch that was still current when it finished.
type Loader struct {
	fetch FetchFunc

	mu      sync.Mutex
	gen     uint64
	data    domain.CompletedActivities
	loading bool
	err     error
	done    sync.WaitGroup
}

// NewLoader constructs a Loader around the given fetch function.
func NewLoader(fetch FetchFunc) *Loader {
	return &Loader{
		fetch:   fetch,
		loading: true,
		data: domain.CompletedActivities{
			Quests:     []domain.CompletedQuest{},
			Challenges: []domain.CompletedChallenge{},
		},
	}
}

// SetUser switches the loader to a new user identifier and kicks off a fetch.
// An empty identifier means no user context: the zero summary is installed
// immediately and no fetch is issued. In-flight fetches for a previous
// identifier are not cancelled; their results are discarded on arrival.
func (l *Loader) SetUser(ctx context.Context, userID string) {
	l.mu.Lock()
	l.gen++
	gen := l.gen

	if userID == "" {
		l.data = domain.CompletedActivities{
			Quests:     []domain.CompletedQuest{},
			Challenges: []domain.CompletedChallenge{},
		}
		l.loading = false
		l.err = nil
		l.mu.Unlock()
		return
	}

	l.loading = true
	l.mu.Unlock()

	l.done.Add(1)
	go func() {
		defer l.done.Done()
		data, err := l.fetch(ctx, userID)

		l.mu.Lock()
		defer l.mu.Unlock()
		if gen != l.gen {
			// A newer SetUser superseded this fetch.
			return
		}
		l.loading = false
		if err != nil {
			l.err = err
			return
		}
		l.data = data
		l.err = nil
	}()
}

// Snapshot returns the current summary together with the loading flag and the
// last fetch error.
func (l *Loader) Snapshot() (domain.CompletedActivities, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.data, l.loading, l.err
}

// Wait blocks until every fetch started so far has finished. Intended for
// shutdown and tests.
func (l *Loader) Wait() {
	l.done.Wait()
}
