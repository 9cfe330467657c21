package httpapi

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"StudentShowcase/internal/domain"
	"StudentShowcase/internal/infrastructure/parser"
)

const (
	maxCommentLength = 2000
	maxAuthorLength  = 100
)

type storySummary struct {
	domain.Story
	Excerpt string `json:"excerpt"`
	Lead    string `json:"lead"`
}

type commentView struct {
	domain.Comment
	DisplayName string `json:"display_name"`
}

type createCommentRequest struct {
	AuthorName *string `json:"authorName"`
	Content    string  `json:"content"`
}

// GetSite handles GET /api/site
func (h *Handler) GetSite(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"name":                  h.site.Name,
		"description":           h.site.Description,
		"school_name":           h.site.SchoolName,
		"school_website":        h.site.SchoolWebsite,
		"content_type":          h.site.ContentType,
		"content_type_singular": h.site.ContentTypeSingular,
		"features": map[string]bool{
			"analytics":        h.features.AnalyticsEnabled(),
			"comments":         h.features.CommentsEnabled(),
			"random_selection": h.features.RandomSelectionEnabled(),
			"admin_panel":      h.features.AdminPanelEnabled(),
		},
	})
}

// ListStories handles GET /api/stories
func (h *Handler) ListStories(w http.ResponseWriter, r *http.Request) {
	stories := h.stories.AllStories(r.Context())
	respondJSON(w, http.StatusOK, map[string]any{"stories": summarize(stories)})
}

// GetRandomStory handles GET /api/stories/random
func (h *Handler) GetRandomStory(w http.ResponseWriter, r *http.Request) {
	story, ok := h.stories.RandomStory(r.Context())
	if !ok {
		respondError(w, http.StatusNotFound, "No stories available")
		return
	}
	h.recordView(r, story.ID)
	respondJSON(w, http.StatusOK, story)
}

// GetStory handles GET /api/stories/{id}
func (h *Handler) GetStory(w http.ResponseWriter, r *http.Request) {
	story, ok := h.readableStory(r)
	if !ok {
		respondError(w, http.StatusNotFound, "Story not found")
		return
	}
	h.recordView(r, story.ID)
	respondJSON(w, http.StatusOK, story)
}

// GetComments handles GET /api/stories/{id}/comments
func (h *Handler) GetComments(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.readableStory(r); !ok {
		respondError(w, http.StatusNotFound, "Story not found")
		return
	}

	comments := h.comments.CommentsByStoryID(r.Context(), chi.URLParam(r, "id"))
	views := make([]commentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, commentView{Comment: c, DisplayName: c.DisplayName()})
	}
	respondJSON(w, http.StatusOK, map[string]any{"comments": views})
}

// CreateComment handles POST /api/stories/{id}/comments
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	story, ok := h.readableStory(r)
	if !ok {
		respondError(w, http.StatusNotFound, "Story not found")
		return
	}

	var req createCommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(w, http.StatusBadRequest, "Comment cannot be empty")
		return
	}
	if utf8.RuneCountInString(content) > maxCommentLength {
		respondError(w, http.StatusBadRequest, "Comment is too long (max 2000 characters)")
		return
	}

	var author *string
	if req.AuthorName != nil {
		if name := strings.TrimSpace(*req.AuthorName); name != "" {
			if utf8.RuneCountInString(name) > maxAuthorLength {
				respondError(w, http.StatusBadRequest, "Name is too long (max 100 characters)")
				return
			}
			author = &name
		}
	}

	comment, ok := h.comments.CreateComment(r.Context(), story.ID, author, content)
	if !ok {
		respondError(w, http.StatusInternalServerError, "Failed to submit comment")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Comment submitted for moderation",
		"comment": commentView{Comment: comment, DisplayName: comment.DisplayName()},
	})
}

// readableStory resolves {id}; hidden stories read as missing unless the caller is admin.
func (h *Handler) readableStory(r *http.Request) (domain.Story, bool) {
	story, ok := h.stories.StoryByID(r.Context(), chi.URLParam(r, "id"))
	if !ok {
		return domain.Story{}, false
	}
	if !story.IsVisible && !h.isAdmin(r) {
		return domain.Story{}, false
	}
	return story, true
}

func (h *Handler) recordView(r *http.Request, storyID string) {
	if !h.features.AnalyticsEnabled() || h.views == nil {
		return
	}
	h.views.RecordStoryView(r.Context(), sessionIDFrom(r.Context()), storyID)
}

func summarize(stories []domain.Story) []storySummary {
	out := make([]storySummary, 0, len(stories))
	for _, s := range stories {
		out = append(out, storySummary{
			Story:   s,
			Excerpt: parser.Excerpt(s.Content, parser.DefaultExcerptLength),
			Lead:    parser.FirstParagraph(s.Content),
		})
	}
	return out
}
