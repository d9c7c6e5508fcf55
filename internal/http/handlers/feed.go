package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// FeedSnapshot returns the caller's feed in submission order, pending
// placeholders included.
func (a *App) FeedSnapshot(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"feed": a.Feeds.For(userID).Snapshot(),
	})
}

// FeedRemove dismisses one entry from the caller's feed. Removing a
// feed entry never touches the persisted generation history.
func (a *App) FeedRemove(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}
	localID := chi.URLParam(r, "id")
	if localID == "" {
		a.error(w, http.StatusBadRequest, "invalid_id", "feed entry id is required")
		return
	}
	if !a.Feeds.For(userID).Remove(localID) {
		a.error(w, http.StatusNotFound, "not_found", "feed entry not found")
		return
	}
	a.json(w, http.StatusOK, map[string]bool{"removed": true})
}
