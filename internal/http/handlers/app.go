package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"server/internal/feed"
	"server/internal/infra"
	"server/internal/middleware"
	"server/internal/providers/openai"
	"server/internal/storage"
)

// ImageGenerator is the provider surface handlers depend on. The concrete
// client lives in providers/openai; tests substitute a stub.
type ImageGenerator interface {
	Generate(ctx context.Context, req openai.GenerateRequest) (*openai.Image, error)
	Edit(ctx context.Context, req openai.EditRequest) (*openai.Image, error)
}

// App bundles the dependencies shared by every handler.
type App struct {
	Config *infra.Config
	Logger zerolog.Logger
	SQL    infra.SQLExecutor
	Images ImageGenerator
	Store  *storage.FileStore
	Feeds  *feed.Registry
}

func NewApp(cfg *infra.Config, logger zerolog.Logger, sql infra.SQLExecutor, images ImageGenerator, store *storage.FileStore) *App {
	return &App{
		Config: cfg,
		Logger: logger,
		SQL:    sql,
		Images: images,
		Store:  store,
		Feeds:  feed.NewRegistry(),
	}
}

func (a *App) json(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			a.Logger.Error().Err(err).Msg("write response")
		}
	}
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]string{"error": code, "message": message})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

// decodeJSON tolerates unknown fields so clients may send extra context
// (the web client includes its own userId, which the token supersedes).
func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
