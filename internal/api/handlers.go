// Package api exposes HTTP handlers for the wearables sync service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"example.com/wearsync/internal/domain"
	"example.com/wearsync/internal/provider"
)

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service  *domain.Service
	log      *zap.Logger
	validate *validator.Validate
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		service:  service,
		log:      log,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/vital/users", h.provisionUser)
	mux.HandleFunc("/v1/vital/link", h.connectDevice)
	mux.HandleFunc("/v1/vital/webhook", h.webhook)
	mux.HandleFunc("/v1/activities/summary", h.activitySummary)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// ProvisionUserRequest is the payload for POST /v1/vital/users.
type ProvisionUserRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// ConnectDeviceRequest is the payload for POST /v1/vital/link.
type ConnectDeviceRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	Provider string `json:"provider" validate:"required"`
}

func (h *Handler) provisionUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "unsupported method"})
		return
	}

	var req ProvisionUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user_id is required"})
		return
	}

	providerUserID, err := h.service.EnsureProviderUser(r.Context(), req.UserID)
	if err != nil {
		h.log.Error("user provisioning failed", zap.String("user_id", req.UserID), zap.Error(err))
		h.writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":          true,
		"provider_user_id": providerUserID,
	})
}

func (h *Handler) connectDevice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "unsupported method"})
		return
	}

	var req ConnectDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user_id and provider are required"})
		return
	}

	link, providerUserID, err := h.service.ConnectDevice(r.Context(), req.UserID, req.Provider)
	if err != nil {
		h.log.Error("device link failed",
			zap.String("user_id", req.UserID),
			zap.String("provider", req.Provider),
			zap.Error(err))
		h.writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":          true,
		"link":             link.Raw,
		"provider_user_id": providerUserID,
	})
}

func (h *Handler) webhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "unsupported method"})
		return
	}

	var event domain.WebhookEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
		return
	}

	if err := h.service.ProcessWebhook(r.Context(), event); err != nil {
		h.log.Error("webhook processing failed",
			zap.String("event_type", event.EventType),
			zap.Error(err))
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"event":   event.EventType,
	})
}

// ActivitySummaryResponse is the completed-activity summary view.
type ActivitySummaryResponse struct {
	Quests               []QuestView     `json:"quests"`
	Challenges           []ChallengeView `json:"challenges"`
	TotalBoostsCompleted int             `json:"total_boosts_completed"`
	TotalFPEarned        int             `json:"total_fp_earned"`
	QuestsCompleted      int             `json:"quests_completed"`
	ChallengesCompleted  int             `json:"challenges_completed"`
}

// QuestView exposes one completed quest row.
type QuestView struct {
	ID                  string    `json:"id"`
	QuestID             string    `json:"quest_id"`
	CompletedAt         time.Time `json:"completed_at"`
	FPEarned            int       `json:"fp_earned"`
	ChallengesCompleted int       `json:"challenges_completed"`
	BoostsCompleted     int       `json:"boosts_completed"`
}

// ChallengeView exposes one completed challenge row.
type ChallengeView struct {
	ID             string    `json:"id"`
	ChallengeID    string    `json:"challenge_id"`
	QuestID        string    `json:"quest_id,omitempty"`
	CompletedAt    time.Time `json:"completed_at"`
	FPEarned       int       `json:"fp_earned"`
	DaysToComplete int       `json:"days_to_complete"`
	FinalProgress  float64   `json:"final_progress"`
}

func (h *Handler) activitySummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "unsupported method"})
		return
	}

	userID := r.URL.Query().Get("user_id")
	summary, err := h.service.CompletedActivities(r.Context(), userID)
	if err != nil {
		h.log.Error("activity summary failed", zap.String("user_id", userID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, toSummaryView(summary))
}

// writeFailure maps a domain error onto the response contract: provider
// failures carry the raw upstream payload with a 500, everything else is a
// client-visible 400.
func (h *Handler) writeFailure(w http.ResponseWriter, err error) {
	var provErr *provider.Error
	if errors.As(err, &provErr) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   provErr.Body,
		})
		return
	}
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toSummaryView(summary domain.CompletedActivities) ActivitySummaryResponse {
	resp := ActivitySummaryResponse{
		Quests:               make([]QuestView, 0, len(summary.Quests)),
		Challenges:           make([]ChallengeView, 0, len(summary.Challenges)),
		TotalBoostsCompleted: summary.TotalBoostsCompleted,
		TotalFPEarned:        summary.TotalFPEarned,
		QuestsCompleted:      summary.QuestsCompleted,
		ChallengesCompleted:  summary.ChallengesCompleted,
	}

	for _, quest := range summary.Quests {
		resp.Quests = append(resp.Quests, QuestView{
			ID:                  quest.ID,
			QuestID:             quest.QuestID,
			CompletedAt:         quest.CompletedAt,
			FPEarned:            intOrZero(quest.FPEarned),
			ChallengesCompleted: quest.ChallengesCompleted,
			BoostsCompleted:     quest.BoostsCompleted,
		})
	}
	for _, challenge := range summary.Challenges {
		resp.Challenges = append(resp.Challenges, ChallengeView{
			ID:             challenge.ID,
			ChallengeID:    challenge.ChallengeID,
			QuestID:        challenge.QuestID,
			CompletedAt:    challenge.CompletedAt,
			FPEarned:       intOrZero(challenge.FPEarned),
			DaysToComplete: challenge.DaysToComplete,
			FinalProgress:  challenge.FinalProgress,
		})
	}
	return resp
}

func intOrZero(value *int) int {
	if value == nil {
		return 0
	}
	return *value
}
