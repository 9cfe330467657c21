package httpapi

import (
	"context"
	"log/slog"

	"github.com/gorilla/sessions"

	"StudentShowcase/internal/config"
	"StudentShowcase/internal/domain"
	"StudentShowcase/internal/logging"
	"StudentShowcase/internal/usecase"
)

// StoryService is the story use case consumed by the handlers.
type StoryService interface {
	AllStories(ctx context.Context) []domain.Story
	ListAllStories(ctx context.Context) []domain.Story
	RandomStory(ctx context.Context) (domain.Story, bool)
	StoryByID(ctx context.Context, id string) (domain.Story, bool)
	CreateStory(ctx context.Context, title, content string, isVisible bool) (domain.Story, bool)
	UpdateStory(ctx context.Context, id, title, content string, isVisible bool) bool
	UpdateStoryVisibility(ctx context.Context, id string, isVisible bool) bool
	DeleteStory(ctx context.Context, id string) bool
}

// CommentService is the comment and moderation use case.
type CommentService interface {
	CommentsByStoryID(ctx context.Context, storyID string) []domain.Comment
	CreateComment(ctx context.Context, storyID string, authorName *string, content string) (domain.Comment, bool)
	PendingCommentsWithStories(ctx context.Context) []domain.PendingComment
	ApproveComment(ctx context.Context, id string) bool
	RejectComment(ctx context.Context, id string) bool
	ModerationEvents(ctx context.Context) []domain.ModerationEvent
}

// ViewCounter records and aggregates story views.
type ViewCounter interface {
	RecordStoryView(ctx context.Context, sessionID, storyID string)
	StoryViewStats(ctx context.Context) []domain.StoryViewStats
	GlobalStats(ctx context.Context) domain.GlobalStats
}

var (
	_ StoryService   = (*usecase.StoryRepository)(nil)
	_ CommentService = (*usecase.CommentRepository)(nil)
	_ ViewCounter    = (*usecase.Analytics)(nil)
)

// Deps wires the use cases and settings into the HTTP layer.
type Deps struct {
	Stories  StoryService
	Comments CommentService
	Views    ViewCounter
	Sessions sessions.Store
	Config   config.Config
	Logger   *slog.Logger
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	stories  StoryService
	comments CommentService
	views    ViewCounter
	sessions sessions.Store

	site          config.SiteConfig
	features      config.FeatureConfig
	server        config.ServerConfig
	adminPassword string

	logger *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(deps Deps) *Handler {
	log := deps.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &Handler{
		stories:       deps.Stories,
		comments:      deps.Comments,
		views:         deps.Views,
		sessions:      deps.Sessions,
		site:          deps.Config.Site,
		features:      deps.Config.Features,
		server:        deps.Config.Server,
		adminPassword: deps.Config.Admin.Password,
		logger:        log.With("component", "httpapi"),
	}
}
