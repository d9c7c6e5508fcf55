package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"server/internal/domain"
	"server/internal/sqlinline"
)

type profileResponse struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Name            string    `json:"name,omitempty"`
	AvatarURL       string    `json:"avatar_url,omitempty"`
	Plan            string    `json:"plan"`
	PlanDisplayName string    `json:"plan_display_name"`
	TokensTotal     int       `json:"tokens_total"`
	TokensUsed      int       `json:"tokens_used"`
	TokensRemaining int       `json:"tokens_remaining"`
	TokensResetAt   time.Time `json:"tokens_reset_at"`
	CreatedAt       time.Time `json:"created_at"`
	Stats           struct {
		ImagesGenerated int `json:"images_generated"`
		VideosCreated   int `json:"videos_created"`
		Favorites       int `json:"favorites"`
	} `json:"stats"`
}

func scanProfile(row pgx.Row) (domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(
		&p.ID, &p.Email, &p.Name, &p.AvatarURL, &p.Plan,
		&p.TokensTotal, &p.TokensUsed, &p.TokensResetAt,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (a *App) profilePayload(p domain.Profile) profileResponse {
	resp := profileResponse{
		ID:              p.ID,
		Email:           p.Email,
		Name:            p.Name,
		AvatarURL:       p.AvatarURL,
		Plan:            string(p.Plan),
		PlanDisplayName: p.Plan.DisplayName(),
		TokensTotal:     p.TokensTotal,
		TokensUsed:      p.TokensUsed,
		TokensRemaining: p.TokensRemaining(),
		TokensResetAt:   p.TokensResetAt,
		CreatedAt:       p.CreatedAt,
	}
	return resp
}

// Me returns the caller's profile, clamped token balance, and usage stats.
func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	profile, err := scanProfile(a.SQL.QueryRow(r.Context(), sqlinline.QSelectProfileByID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			a.error(w, http.StatusNotFound, "profile_not_found", "profile not found")
			return
		}
		a.Logger.Error().Err(err).Msg("load profile")
		a.error(w, http.StatusInternalServerError, "internal_error", "could not load profile")
		return
	}

	resp := a.profilePayload(profile)
	err = a.SQL.QueryRow(r.Context(), sqlinline.QProfileStats, userID).Scan(
		&resp.Stats.ImagesGenerated, &resp.Stats.VideosCreated, &resp.Stats.Favorites,
	)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		a.Logger.Error().Err(err).Msg("load profile stats")
		a.error(w, http.StatusInternalServerError, "internal_error", "could not load profile")
		return
	}

	a.json(w, http.StatusOK, resp)
}

type updateProfileRequest struct {
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatar_url"`
}

// UpdateMe accepts a partial update limited to display fields. Plan and the
// token ledger are never writable from this surface.
func (a *App) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	if req.Name == nil && req.AvatarURL == nil {
		a.error(w, http.StatusBadRequest, "invalid_request", "nothing to update")
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		a.error(w, http.StatusBadRequest, "invalid_name", "name cannot be empty")
		return
	}

	profile, err := scanProfile(a.SQL.QueryRow(r.Context(), sqlinline.QUpdateProfile, userID, req.Name, req.AvatarURL))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			a.error(w, http.StatusNotFound, "profile_not_found", "profile not found")
			return
		}
		a.Logger.Error().Err(err).Msg("update profile")
		a.error(w, http.StatusInternalServerError, "internal_error", "could not update profile")
		return
	}

	a.json(w, http.StatusOK, a.profilePayload(profile))
}
