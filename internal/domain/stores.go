package domain

import (
	"context"
	"time"
)

// UserStore captures user persistence operations. GetUser returns nil when no
// row matches.
type UserStore interface {
	GetUser(ctx context.Context, userID string) (*User, error)
	SetProviderUserID(ctx context.Context, userID, providerUserID string) error
}

// DeviceStore captures device-connection persistence operations.
// ActivateByProviderUser reports the number of rows it touched; zero is not an
// error.
type DeviceStore interface {
	CreateDevice(ctx context.Context, device DeviceConnection) error
	ActivateByProviderUser(ctx context.Context, providerUserID string, syncedAt time.Time) (int64, error)
}

// MetricStore appends health metric rows.
type MetricStore interface {
	InsertMetric(ctx context.Context, metric HealthMetric) error
}

// CompletedActivityStore exposes the read side of the completion tables. All
// three reads return empty slices, never a not-found error, when the user has
// no rows.
type CompletedActivityStore interface {
	CompletedBoosts(ctx context.Context, userID string) ([]CompletedBoost, error)
	CompletedQuests(ctx context.Context, userID string) ([]CompletedQuest, error)
	CompletedChallenges(ctx context.Context, userID string) ([]CompletedChallenge, error)
}

// Store aggregates the persistence capabilities the service needs.
type Store interface {
	UserStore
	DeviceStore
	MetricStore
	CompletedActivityStore
}
