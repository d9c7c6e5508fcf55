package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"server/internal/domain"
	"server/internal/sqlinline"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type generationResponse struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Prompt       string    `json:"prompt"`
	FileURL      string    `json:"file_url"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	Width        int       `json:"width,omitempty"`
	Height       int       `json:"height,omitempty"`
	Status       string    `json:"status"`
	TokensUsed   int       `json:"tokens_used"`
	IsFavorite   bool      `json:"is_favorite"`
	CreatedAt    time.Time `json:"created_at"`
}

// GenerationsList returns the caller's history, newest first, with optional
// type and favorites filters.
func (a *App) GenerationsList(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	q := r.URL.Query()

	var typeFilter *string
	if raw := strings.TrimSpace(q.Get("type")); raw != "" {
		switch domain.GenerationType(raw) {
		case domain.GenerationTypeImage, domain.GenerationTypeVideo, domain.GenerationTypeEdit:
			typeFilter = &raw
		default:
			a.error(w, http.StatusBadRequest, "invalid_type", "unknown generation type")
			return
		}
	}

	favoritesOnly := q.Get("favorites") == "true"

	limit := defaultPageSize
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			a.error(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		if n > maxPageSize {
			n = maxPageSize
		}
		limit = n
	}

	offset := 0
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			a.error(w, http.StatusBadRequest, "invalid_offset", "offset must be a non-negative integer")
			return
		}
		offset = n
	}

	rows, err := a.SQL.Query(r.Context(), sqlinline.QListGenerations, userID, typeFilter, favoritesOnly, limit, offset)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list generations")
		a.error(w, http.StatusInternalServerError, "internal_error", "could not list generations")
		return
	}
	defer rows.Close()

	items := make([]generationResponse, 0, limit)
	var total int
	for rows.Next() {
		var item generationResponse
		var ownerID string
		if err := rows.Scan(
			&item.ID, &ownerID, &item.Type, &item.Prompt, &item.FileURL,
			&item.ThumbnailURL, &item.Width, &item.Height,
			&item.Status, &item.TokensUsed, &item.IsFavorite, &item.CreatedAt,
			&total,
		); err != nil {
			a.Logger.Error().Err(err).Msg("scan generation row")
			a.error(w, http.StatusInternalServerError, "internal_error", "could not list generations")
			return
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		a.Logger.Error().Err(err).Msg("iterate generation rows")
		a.error(w, http.StatusInternalServerError, "internal_error", "could not list generations")
		return
	}

	a.json(w, http.StatusOK, map[string]any{
		"generations": items,
		"total":       total,
		"limit":       limit,
		"offset":      offset,
	})
}

type updateGenerationRequest struct {
	IsFavorite *bool `json:"is_favorite"`
}

// GenerationsUpdate toggles the favorite flag. Ownership is enforced in the
// statement itself, so a foreign id looks identical to a missing one.
func (a *App) GenerationsUpdate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	generationID := chi.URLParam(r, "id")
	if generationID == "" {
		a.error(w, http.StatusBadRequest, "invalid_id", "generation id is required")
		return
	}

	var req updateGenerationRequest
	if err := decodeJSON(r, &req); err != nil || req.IsFavorite == nil {
		a.error(w, http.StatusBadRequest, "invalid_request", "is_favorite is required")
		return
	}

	var item generationResponse
	var ownerID string
	err := a.SQL.QueryRow(r.Context(), sqlinline.QSetGenerationFavorite, generationID, userID, *req.IsFavorite).Scan(
		&item.ID, &ownerID, &item.Type, &item.Prompt, &item.FileURL,
		&item.ThumbnailURL, &item.Width, &item.Height,
		&item.Status, &item.TokensUsed, &item.IsFavorite, &item.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			a.error(w, http.StatusNotFound, "not_found", "generation not found")
			return
		}
		a.Logger.Error().Err(err).Msg("update generation")
		a.error(w, http.StatusInternalServerError, "internal_error", "could not update generation")
		return
	}

	a.json(w, http.StatusOK, item)
}

// GenerationsDelete removes one owned generation.
func (a *App) GenerationsDelete(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	generationID := chi.URLParam(r, "id")
	if generationID == "" {
		a.error(w, http.StatusBadRequest, "invalid_id", "generation id is required")
		return
	}

	tag, err := a.SQL.Exec(r.Context(), sqlinline.QDeleteGeneration, generationID, userID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("delete generation")
		a.error(w, http.StatusInternalServerError, "internal_error", "could not delete generation")
		return
	}
	if tag.RowsAffected() == 0 {
		a.error(w, http.StatusNotFound, "not_found", "generation not found")
		return
	}

	a.json(w, http.StatusOK, map[string]bool{"deleted": true})
}
