// Package postgres provides pgx-backed persistence for the sync service.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/wearsync/internal/domain"
)

// Repository implements domain.Store on top of a pgx connection pool.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetUser loads a user row. A missing row yields (nil, nil).
func (r *Repository) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	const query = `SELECT id, email, name, COALESCE(vital_user_id, '')
        FROM users WHERE id=$1`

	row := r.pool.QueryRow(ctx, query, userID)
	var user domain.User
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &user.ProviderUserID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// SetProviderUserID stores the provider-assigned identifier on the user row.
func (r *Repository) SetProviderUserID(ctx context.Context, userID, providerUserID string) error {
	const stmt = `UPDATE users SET vital_user_id=$2 WHERE id=$1`
	_, err := r.pool.Exec(ctx, stmt, userID, providerUserID)
	return err
}

// CreateDevice inserts a device connection row.
func (r *Repository) CreateDevice(ctx context.Context, device domain.DeviceConnection) error {
	const stmt = `INSERT INTO user_devices (id, user_id, vital_user_id, provider, status, metadata, last_sync_at, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	_, err := r.pool.Exec(ctx, stmt,
		device.ID,
		device.UserID,
		device.ProviderUserID,
		device.Provider,
		device.Status,
		device.Metadata,
		device.LastSyncAt,
		device.CreatedAt,
	)
	return err
}

// ActivateByProviderUser flips matching devices to active and stamps the sync
// time. Zero affected rows is reported, not treated as an error.
func (r *Repository) ActivateByProviderUser(ctx context.Context, providerUserID string, syncedAt time.Time) (int64, error) {
	const stmt = `UPDATE user_devices SET status=$2, last_sync_at=$3 WHERE vital_user_id=$1`

	tag, err := r.pool.Exec(ctx, stmt, providerUserID, domain.DeviceStatusActive, syncedAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// InsertMetric appends a health metric row. Payload lands in a JSONB column.
func (r *Repository) InsertMetric(ctx context.Context, metric domain.HealthMetric) error {
	const stmt = `INSERT INTO health_metrics (id, user_id, payload, source, received_at)
        VALUES ($1,$2,$3,$4,$5)`

	_, err := r.pool.Exec(ctx, stmt,
		metric.ID,
		metric.UserID,
		metric.Payload,
		metric.Source,
		metric.ReceivedAt,
	)
	return err
}

// CompletedBoosts returns every boost completion row for the user.
func (r *Repository) CompletedBoosts(ctx context.Context, userID string) ([]domain.CompletedBoost, error) {
	const query = `SELECT id, user_id, boost_id, completed_at
        FROM completed_boosts WHERE user_id=$1`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.CompletedBoost
	for rows.Next() {
		var boost domain.CompletedBoost
		if err := rows.Scan(&boost.ID, &boost.UserID, &boost.BoostID, &boost.CompletedAt); err != nil {
			return nil, err
		}
		results = append(results, boost)
	}
	return results, rows.Err()
}

// CompletedQuests returns the user's completed quests, most recent first.
func (r *Repository) CompletedQuests(ctx context.Context, userID string) ([]domain.CompletedQuest, error) {
	const query = `SELECT id, user_id, quest_id, completed_at, fp_earned, challenges_completed, boosts_completed
        FROM completed_quests WHERE user_id=$1 AND status='completed'
        ORDER BY completed_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.CompletedQuest
	for rows.Next() {
		var quest domain.CompletedQuest
		if err := rows.Scan(&quest.ID, &quest.UserID, &quest.QuestID, &quest.CompletedAt, &quest.FPEarned, &quest.ChallengesCompleted, &quest.BoostsCompleted); err != nil {
			return nil, err
		}
		results = append(results, quest)
	}
	return results, rows.Err()
}

// CompletedChallenges returns the user's completed challenges, most recent first.
func (r *Repository) CompletedChallenges(ctx context.Context, userID string) ([]domain.CompletedChallenge, error) {
	const query = `SELECT id, user_id, challenge_id, COALESCE(quest_id, ''), completed_at, fp_earned, days_to_complete, final_progress
        FROM completed_challenges WHERE user_id=$1 AND status='completed'
        ORDER BY completed_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.CompletedChallenge
	for rows.Next() {
		var challenge domain.CompletedChallenge
		if err := rows.Scan(&challenge.ID, &challenge.UserID, &challenge.ChallengeID, &challenge.QuestID, &challenge.CompletedAt, &challenge.FPEarned, &challenge.DaysToComplete, &challenge.FinalProgress); err != nil {
			return nil, err
		}
		results = append(results, challenge)
	}
	return results, rows.Err()
}
