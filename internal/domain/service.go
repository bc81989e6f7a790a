// Package domain defines the business logic for the wearables sync service.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"example.com/wearsync/internal/observability"
)

var (
	// ErrUserNotFound is returned when a local user cannot be located.
	ErrUserNotFound = errors.New("user not found")
)

// Service orchestrates provisioning, device linking, webhook ingestion and the
// completed-activity summary.
type Service struct {
	store     Store
	gateway   Gateway
	publisher EventPublisher // nil disables webhook mirroring
	log       *zap.Logger
}

// NewService constructs a Service. publisher may be nil.
func NewService(store Store, gateway Gateway, publisher EventPublisher, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, gateway: gateway, publisher: publisher, log: log}
}

// EnsureProviderUser makes sure the local user has a provider-side identity.
// A stored identifier short-circuits with no remote call. On first use the
// provider identity is created from the user's local email and persisted.
//
// If the local write fails after the remote creation succeeded, the error is
// propagated as-is; the provider-side record is not rolled back.
func (s *Service) EnsureProviderUser(ctx context.Context, userID string) (string, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}
	if user.ProviderUserID != "" {
		return user.ProviderUserID, nil
	}

	created, err := s.gateway.CreateUser(ctx, CreateUserInput{
		ClientUserID: userID,
		Email:        user.Email,
	})
	if err != nil {
		return "", err
	}

	if err := s.store.SetProviderUserID(ctx, userID, created.UserID); err != nil {
		return "", err
	}

	observability.RecordUserProvisioned()
	s.log.Info("provisioned provider user",
		zap.String("user_id", userID),
		zap.String("provider_user_id", created.UserID))
	return created.UserID, nil
}

// ConnectDevice starts a device-linking flow for the user and provider. The
// user is provisioned first if needed, then a link token is requested and a
// pending device connection is persisted with the token in its metadata.
//
// A gateway failure leaves no device row behind; a store failure after a
// successful token creation propagates without rolling back the remote link.
func (s *Service) ConnectDevice(ctx context.Context, userID, provider string) (LinkSession, string, error) {
	providerUserID, err := s.EnsureProviderUser(ctx, userID)
	if err != nil {
		return LinkSession{}, "", err
	}

	link, err := s.gateway.CreateLinkToken(ctx, providerUserID, provider)
	if err != nil {
		return LinkSession{}, "", err
	}

	device := DeviceConnection{
		ID:             uuid.NewString(),
		UserID:         userID,
		ProviderUserID: providerUserID,
		Provider:       provider,
		Status:         DeviceStatusPending,
		Metadata:       map[string]any{"link_token": link.LinkToken},
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.store.CreateDevice(ctx, device); err != nil {
		return LinkSession{}, "", err
	}

	s.log.Info("created pending device connection",
		zap.String("user_id", userID),
		zap.String("provider", provider))
	return link, providerUserID, nil
}

// CompletedActivities loads the user's completed boosts, quests and challenges
// and reduces them into the summary view. An empty userID means no user
// context and yields the zero summary with no reads issued.
func (s *Service) CompletedActivities(ctx context.Context, userID string) (CompletedActivities, error) {
	summary := CompletedActivities{
		Quests:     []CompletedQuest{},
		Challenges: []CompletedChallenge{},
	}
	if userID == "" {
		return summary, nil
	}

	boosts, err := s.store.CompletedBoosts(ctx, userID)
	if err != nil {
		return summary, err
	}
	quests, err := s.store.CompletedQuests(ctx, userID)
	if err != nil {
		return summary, err
	}
	challenges, err := s.store.CompletedChallenges(ctx, userID)
	if err != nil {
		return summary, err
	}

	if quests != nil {
		summary.Quests = quests
	}
	if challenges != nil {
		summary.Challenges = challenges
	}
	summary.TotalBoostsCompleted = countDistinctBoosts(boosts)
	summary.TotalFPEarned = totalFPEarned(quests, challenges)
	summary.QuestsCompleted = len(quests)
	summary.ChallengesCompleted = len(challenges)
	return summary, nil
}

// countDistinctBoosts collapses per-day completion rows down to the number of
// distinct boosts.
func countDistinctBoosts(boosts []CompletedBoost) int {
	seen := make(map[string]struct{}, len(boosts))
	for _, boost := range boosts {
		seen[boost.BoostID] = struct{}{}
	}
	return len(seen)
}

// totalFPEarned sums fp_earned across quests and challenges, treating a null
// points field as zero.
func totalFPEarned(quests []CompletedQuest, challenges []CompletedChallenge) int {
	total := 0
	for _, quest := range quests {
		if quest.FPEarned != nil {
			total += *quest.FPEarned
		}
	}
	for _, challenge := range challenges {
		if challenge.FPEarned != nil {
			total += *challenge.FPEarned
		}
	}
	return total
}
