package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"server/internal/http/handlers"
	"server/internal/middleware"
)

func NewRouter(app *handlers.App) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(app.Config.AllowedOrigins),
		middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute),
	)

	// Public
	r.Get("/v1/healthz", app.Health)
	r.Handle("/metrics", promhttp.Handler())
	if app.Store != nil {
		fileServer := stdhttp.StripPrefix("/static/", stdhttp.FileServer(stdhttp.Dir(app.Store.BasePath())))
		r.Get("/static/*", fileServer.ServeHTTP)
	}

	// Authenticated
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(app.Config.JWTSecret))

		r.Route("/v1/images", func(r chi.Router) {
			r.Post("/generate", app.ImagesGenerate)
			r.Post("/edit", app.ImagesEdit)
		})

		r.Post("/v1/videos/generate", app.VideosGenerate)

		r.Route("/v1/generations", func(r chi.Router) {
			r.Get("/", app.GenerationsList)
			r.Patch("/{id}", app.GenerationsUpdate)
			r.Delete("/{id}", app.GenerationsDelete)
		})

		r.Route("/v1/feed", func(r chi.Router) {
			r.Get("/", app.FeedSnapshot)
			r.Delete("/{id}", app.FeedRemove)
		})

		r.Route("/v1/me", func(r chi.Router) {
			r.Get("/", app.Me)
			r.Patch("/", app.UpdateMe)
		})
	})

	return r
}
