package handlers

import "net/http"

// VideosGenerate is a stub: video generation is advertised in the product but
// not wired to a provider yet. Nothing is charged and nothing is recorded.
func (a *App) VideosGenerate(w http.ResponseWriter, r *http.Request) {
	if a.currentUserID(r) == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}
	a.error(w, http.StatusNotImplemented, "not_supported", "video generation is not available yet")
}
