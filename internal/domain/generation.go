package domain

import "time"

// GenerationType enumerates the kinds of creations a profile can request.
type GenerationType string

const (
	GenerationTypeImage GenerationType = "image"
	GenerationTypeVideo GenerationType = "video"
	GenerationTypeEdit  GenerationType = "edit"
)

// GenerationStatus enumerates lifecycle states. Rows are only ever persisted
// as completed; pending and processing exist client-side in feed placeholders.
type GenerationStatus string

const (
	GenerationStatusPending    GenerationStatus = "pending"
	GenerationStatusProcessing GenerationStatus = "processing"
	GenerationStatusCompleted  GenerationStatus = "completed"
	GenerationStatusFailed     GenerationStatus = "failed"
)

// Generation is one attempted creation owned by a profile.
type Generation struct {
	ID           string
	UserID       string
	Type         GenerationType
	Prompt       string
	FileURL      string
	ThumbnailURL string
	Width        int
	Height       int
	Status       GenerationStatus
	TokensUsed   int
	IsFavorite   bool
	CreatedAt    time.Time
}
