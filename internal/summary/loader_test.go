package summary

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/wearsync/internal/domain"
)

func TestLoaderFetchesOnSetUser(t *testing.T) {
	fetch := func(ctx context.Context, userID string) (domain.CompletedActivities, error) {
		return domain.CompletedActivities{TotalFPEarned: 42, QuestsCompleted: 3}, nil
	}
	loader := NewLoader(fetch)

	loader.SetUser(context.Background(), "user-1")
	loader.Wait()

	data, loading, err := loader.Snapshot()
	require.NoError(t, err)
	require.False(t, loading)
	require.Equal(t, 42, data.TotalFPEarned)
	require.Equal(t, 3, data.QuestsCompleted)
}

func TestLoaderEmptyUserSkipsFetch(t *testing.T) {
	calls := 0
	fetch := func(ctx context.Context, userID string) (domain.CompletedActivities, error) {
		calls++
		return domain.CompletedActivities{}, nil
	}
	loader := NewLoader(fetch)

	loader.SetUser(context.Background(), "")
	loader.Wait()

	data, loading, err := loader.Snapshot()
	require.NoError(t, err)
	require.False(t, loading)
	require.Zero(t, data.TotalFPEarned)
	require.Zero(t, calls, "no user context must not issue a fetch")
}

func TestLoaderLatestRequestWins(t *testing.T) {
	// The fetch for user-1 is held until user-2 has completed; its late
	// result must be discarded.
	release := make(chan struct{})
	fetch := func(ctx context.Context, userID string) (domain.CompletedActivities, error) {
		if userID == "user-1" {
			<-release
			return domain.CompletedActivities{TotalFPEarned: 1}, nil
		}
		return domain.CompletedActivities{TotalFPEarned: 2}, nil
	}

	loader := NewLoader(fetch)
	loader.SetUser(context.Background(), "user-1")

	loader.SetUser(context.Background(), "user-2")
	close(release)
	loader.Wait()

	data, loading, err := loader.Snapshot()
	require.NoError(t, err)
	require.False(t, loading)
	require.Equal(t, 2, data.TotalFPEarned, "the stale fetch for user-1 must not overwrite user-2's result")
}

func TestLoaderSurfacesFetchError(t *testing.T) {
	fetch := func(ctx context.Context, userID string) (domain.CompletedActivities, error) {
		return domain.CompletedActivities{}, errors.New("reads failed")
	}
	loader := NewLoader(fetch)

	loader.SetUser(context.Background(), "user-1")
	loader.Wait()

	data, loading, err := loader.Snapshot()
	require.EqualError(t, err, "reads failed")
	require.False(t, loading)
	require.Zero(t, data.TotalFPEarned, "a failed fetch leaves the summary at its default state")
}

func TestLoaderErrorClearedByNextSuccess(t *testing.T) {
	fail := true
	fetch := func(ctx context.Context, userID string) (domain.CompletedActivities, error) {
		if fail {
			return domain.CompletedActivities{}, errors.New("reads failed")
		}
		return domain.CompletedActivities{TotalFPEarned: 7}, nil
	}
	loader := NewLoader(fetch)

	loader.SetUser(context.Background(), "user-1")
	loader.Wait()

	fail = false
	loader.SetUser(context.Background(), "user-2")
	loader.Wait()

	data, _, err := loader.Snapshot()
	require.NoError(t, err)
	require.Equal(t, 7, data.TotalFPEarned)
}
