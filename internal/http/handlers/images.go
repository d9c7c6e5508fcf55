package handlers

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"server/internal/domain"
	"server/internal/metrics"
	"server/internal/providers/openai"
	"server/internal/sqlinline"
)

type generateImageRequest struct {
	Prompt  string `json:"prompt"`
	Quality string `json:"quality"`
	Size    string `json:"size"`
}

type editImageRequest struct {
	Prompt string `json:"prompt"`
	Size   string `json:"size"`
	Image  string `json:"image"`
	Mask   string `json:"mask"`
}

// ImagesGenerate runs the full generation flow: validate, pre-check the token
// balance, call the provider, then charge and record in one atomic statement.
// The raw prompt is what gets persisted; the tier suffix only travels to the
// provider.
func (a *App) ImagesGenerate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	var req generateImageRequest
	if err := decodeJSON(r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		a.error(w, http.StatusBadRequest, "invalid_prompt", "prompt is required")
		return
	}

	tier, err := domain.ParseTier(req.Quality)
	if err != nil {
		a.error(w, http.StatusBadRequest, "invalid_quality", err.Error())
		return
	}

	if a.Config.ImageAPIKey == "" {
		a.Logger.Error().Msg("image api key not configured")
		a.error(w, http.StatusInternalServerError, "configuration_error", "image provider is not configured")
		return
	}

	cost := tier.Cost()

	userFeed := a.Feeds.For(userID)
	localID := userFeed.Submit(string(domain.GenerationTypeImage), prompt)

	// Cheap pre-check so an unaffordable request never reaches the provider.
	// The conditional charge below remains the authoritative gate.
	var ledger domain.Profile
	err = a.SQL.QueryRow(r.Context(), sqlinline.QSelectTokenBalance, userID).Scan(&ledger.TokensUsed, &ledger.TokensTotal)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			userFeed.Fail(localID, "profile not found")
			a.error(w, http.StatusNotFound, "profile_not_found", "profile not found")
			return
		}
		a.Logger.Error().Err(err).Msg("read token balance")
		userFeed.Fail(localID, "could not read token balance")
		a.error(w, http.StatusInternalServerError, "internal_error", "could not read token balance")
		return
	}
	if !ledger.CanAfford(cost) {
		metrics.RecordGeneration(string(domain.GenerationTypeImage), string(tier), "rejected")
		userFeed.Fail(localID, "not enough tokens for this generation")
		a.error(w, http.StatusForbidden, "insufficient_tokens", "not enough tokens for this generation")
		return
	}

	start := time.Now()
	img, err := a.Images.Generate(r.Context(), openai.GenerateRequest{
		Prompt: tier.EnhancePrompt(prompt),
		Size:   req.Size,
	})
	metrics.RecordProviderCall("generate", time.Since(start).Seconds())
	if err != nil {
		a.Logger.Error().Err(err).Msg("provider generation failed")
		metrics.RecordGeneration(string(domain.GenerationTypeImage), string(tier), "failed")
		userFeed.Fail(localID, err.Error())
		a.error(w, http.StatusInternalServerError, "provider_error", err.Error())
		return
	}

	fileURL, err := a.resolveFileURL(r.Context(), img)
	if err != nil {
		a.Logger.Error().Err(err).Msg("persist generated image")
		metrics.RecordGeneration(string(domain.GenerationTypeImage), string(tier), "failed")
		userFeed.Fail(localID, "could not persist generated image")
		a.error(w, http.StatusInternalServerError, "storage_error", "could not persist generated image")
		return
	}

	var generationID string
	var tokensRemaining int
	err = a.SQL.QueryRow(r.Context(), sqlinline.QChargeAndRecordGeneration,
		userID, string(domain.GenerationTypeImage), cost, prompt, fileURL,
	).Scan(&generationID, &tokensRemaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// A concurrent charge drained the allowance between the
			// pre-check and the charge; nothing was written.
			metrics.RecordGeneration(string(domain.GenerationTypeImage), string(tier), "rejected")
			userFeed.Fail(localID, "not enough tokens for this generation")
			a.error(w, http.StatusForbidden, "insufficient_tokens", "not enough tokens for this generation")
			return
		}
		a.Logger.Error().Err(err).Msg("charge and record generation")
		userFeed.Fail(localID, "could not record generation")
		a.error(w, http.StatusInternalServerError, "internal_error", "could not record generation")
		return
	}

	metrics.RecordGeneration(string(domain.GenerationTypeImage), string(tier), "completed")
	metrics.RecordTokensCharged(cost)
	userFeed.Resolve(localID, fileURL)

	a.json(w, http.StatusOK, map[string]any{
		"id":               generationID,
		"local_id":         localID,
		"url":              fileURL,
		"tokens_used":      cost,
		"tokens_remaining": tokensRemaining,
	})
}

// ImagesEdit runs a mask edit. Edits are free, so the generation row is
// inserted without touching the ledger.
func (a *App) ImagesEdit(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}

	var req editImageRequest
	if err := decodeJSON(r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		a.error(w, http.StatusBadRequest, "invalid_prompt", "prompt is required")
		return
	}
	image, err := parseDataURL(req.Image)
	if err != nil {
		a.error(w, http.StatusBadRequest, "invalid_image", "image must be a base64 data URL")
		return
	}
	mask, err := parseDataURL(req.Mask)
	if err != nil {
		a.error(w, http.StatusBadRequest, "invalid_mask", "mask must be a base64 data URL")
		return
	}

	if a.Config.ImageAPIKey == "" {
		a.Logger.Error().Msg("image api key not configured")
		a.error(w, http.StatusInternalServerError, "configuration_error", "image provider is not configured")
		return
	}

	userFeed := a.Feeds.For(userID)
	localID := userFeed.Submit(string(domain.GenerationTypeEdit), prompt)

	start := time.Now()
	img, err := a.Images.Edit(r.Context(), openai.EditRequest{
		Prompt: prompt,
		Size:   req.Size,
		Image:  image,
		Mask:   mask,
	})
	metrics.RecordProviderCall("edit", time.Since(start).Seconds())
	if err != nil {
		a.Logger.Error().Err(err).Msg("provider edit failed")
		metrics.RecordGeneration(string(domain.GenerationTypeEdit), string(domain.TierStandard), "failed")
		userFeed.Fail(localID, err.Error())
		a.error(w, http.StatusInternalServerError, "provider_error", err.Error())
		return
	}

	fileURL, err := a.resolveFileURL(r.Context(), img)
	if err != nil {
		a.Logger.Error().Err(err).Msg("persist edited image")
		metrics.RecordGeneration(string(domain.GenerationTypeEdit), string(domain.TierStandard), "failed")
		userFeed.Fail(localID, "could not persist edited image")
		a.error(w, http.StatusInternalServerError, "storage_error", "could not persist edited image")
		return
	}

	var generationID string
	err = a.SQL.QueryRow(r.Context(), sqlinline.QInsertGeneration,
		userID, string(domain.GenerationTypeEdit), prompt, fileURL, domain.EditTokenCost,
	).Scan(&generationID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("record edit generation")
		userFeed.Fail(localID, "could not record generation")
		a.error(w, http.StatusInternalServerError, "internal_error", "could not record generation")
		return
	}

	metrics.RecordGeneration(string(domain.GenerationTypeEdit), string(domain.TierStandard), "completed")
	userFeed.Resolve(localID, fileURL)

	a.json(w, http.StatusOK, map[string]any{
		"id":       generationID,
		"local_id": localID,
		"url":      fileURL,
	})
}

// resolveFileURL turns provider output into a stable URL: remote URLs pass
// through, inline bytes are written to the file store when one is configured,
// otherwise they are returned as a data URL.
func (a *App) resolveFileURL(ctx context.Context, img *openai.Image) (string, error) {
	if img.URL != "" {
		return img.URL, nil
	}
	if len(img.Data) == 0 {
		return "", errors.New("provider returned empty image")
	}
	if a.Store != nil {
		key := fmt.Sprintf("generations/%s.png", uuid.NewString())
		stored, err := a.Store.Write(ctx, key, img.Data)
		if err != nil {
			return "", err
		}
		return strings.TrimRight(a.Config.StorageBaseURL, "/") + "/" + stored, nil
	}
	mime := img.MIME
	if mime == "" {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img.Data), nil
}

func parseDataURL(raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty data URL")
	}
	if !strings.HasPrefix(raw, "data:") {
		return nil, errors.New("not a data URL")
	}
	idx := strings.Index(raw, ",")
	if idx < 0 || !strings.Contains(raw[:idx], ";base64") {
		return nil, errors.New("not a base64 data URL")
	}
	data, err := base64.StdEncoding.DecodeString(raw[idx+1:])
	if err != nil {
		return nil, fmt.Errorf("decode data URL: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("empty data URL payload")
	}
	return data, nil
}
