package domain

import "time"

// User is the local account row correlated with a provider identity.
type User struct {
	ID             string
	Email          string
	Name           string
	ProviderUserID string // empty until provisioned
}

// DeviceStatus tracks the lifecycle of a device connection.
type DeviceStatus string

const (
	DeviceStatusPending DeviceStatus = "pending"
	DeviceStatusActive  DeviceStatus = "active"
)

// DeviceConnection links a local user to one wearable integration at the provider.
type DeviceConnection struct {
	ID             string
	UserID         string
	ProviderUserID string
	Provider       string
	Status         DeviceStatus
	Metadata       map[string]any
	LastSyncAt     *time.Time
	CreatedAt      time.Time
}

// HealthMetric is an append-only record mirrored from a provider data event.
type HealthMetric struct {
	ID         string
	UserID     string
	Payload    map[string]any
	Source     string
	ReceivedAt time.Time
}

// MetricSource tags rows ingested from the wearables provider.
const MetricSource = "vital"

// CompletedQuest is a finished quest row written by the completion tracker.
type CompletedQuest struct {
	ID                  string
	UserID              string
	QuestID             string
	CompletedAt         time.Time
	FPEarned            *int
	ChallengesCompleted int
	BoostsCompleted     int
}

// CompletedChallenge is a finished challenge row written by the completion tracker.
type CompletedChallenge struct {
	ID             string
	UserID         string
	ChallengeID    string
	QuestID        string
	CompletedAt    time.Time
	FPEarned       *int
	DaysToComplete int
	FinalProgress  float64
}

// CompletedBoost records one day's completion of a boost. The same boost can
// appear on multiple rows, one per completion day.
type CompletedBoost struct {
	ID          string
	UserID      string
	BoostID     string
	CompletedAt time.Time
}

// CompletedActivities is the derived, non-persisted summary of a user's
// finished quests, challenges and boosts.
type CompletedActivities struct {
	Quests               []CompletedQuest
	Challenges           []CompletedChallenge
	TotalBoostsCompleted int
	TotalFPEarned        int
	QuestsCompleted      int
	ChallengesCompleted  int
}
