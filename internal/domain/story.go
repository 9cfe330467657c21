package domain

import "time"

// UnknownStoryTitle labels comments and stats whose story no longer exists.
const UnknownStoryTitle = "Unknown Story"

// Story is a published piece. Only visible stories are listed publicly.
type Story struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	IsVisible bool      `json:"is_visible"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StoryView is one (story, session) view record used for analytics.
type StoryView struct {
	ID        string    `json:"id"`
	StoryID   string    `json:"story_id"`
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

// StoryViewStats aggregates view records of a single story.
type StoryViewStats struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	UniqueViews int    `json:"unique_views"`
	TotalViews  int    `json:"total_views"`
}

// GlobalStats aggregates view records across all stories.
type GlobalStats struct {
	UniqueReaders int `json:"unique_readers"`
	TotalViews    int `json:"total_views"`
}
