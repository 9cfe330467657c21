package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"StudentShowcase/internal/domain"
)

type loginRequest struct {
	Password string `json:"password"`
}

type createStoryRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	IsVisible *bool  `json:"isVisible"`
}

type updateStoryRequest struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	IsVisible *bool  `json:"isVisible"`
}

type visibilityRequest struct {
	IsVisible *bool `json:"isVisible"`
}

type moderateRequest struct {
	CommentID string                  `json:"commentId"`
	Action    domain.ModerationAction `json:"action"`
}

// Login handles POST /api/admin/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if !h.passwordMatches(req.Password) {
		h.logger.Warn("admin login rejected", "remote", r.RemoteAddr)
		respondError(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	session, _ := h.sessions.Get(r, AdminSessionName)
	session.Values[authenticatedKey] = true
	session.Options = h.cookieOptions(AdminSessionMaxAge)
	if err := session.Save(r, w); err != nil {
		h.logger.Error("save admin session", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to start session")
		return
	}

	h.logger.Info("admin logged in", "remote", r.RemoteAddr)
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Logout handles POST /api/admin/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.sessions.Get(r, AdminSessionName)
	delete(session.Values, authenticatedKey)
	session.Options = h.cookieOptions(-1)
	if err := session.Save(r, w); err != nil {
		h.logger.Warn("clear admin session", "error", err)
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// CheckAuth handles GET /api/admin/check
func (h *Handler) CheckAuth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]bool{"authenticated": h.adminCookieAuthorized(r)})
}

// AdminListStories handles GET /api/admin/stories
func (h *Handler) AdminListStories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"stories": summarize(h.stories.ListAllStories(r.Context()))})
}

// AdminCreateStory handles POST /api/admin/stories
func (h *Handler) AdminCreateStory(w http.ResponseWriter, r *http.Request) {
	var req createStoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" || strings.TrimSpace(req.Content) == "" {
		respondError(w, http.StatusBadRequest, "Title and content are required")
		return
	}
	visible := true
	if req.IsVisible != nil {
		visible = *req.IsVisible
	}

	story, ok := h.stories.CreateStory(r.Context(), title, req.Content, visible)
	if !ok {
		respondError(w, http.StatusInternalServerError, "Failed to create story")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"success": true, "story": story})
}

// AdminUpdateStory handles PUT /api/admin/stories
func (h *Handler) AdminUpdateStory(w http.ResponseWriter, r *http.Request) {
	var req updateStoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	title := strings.TrimSpace(req.Title)
	if req.ID == "" || title == "" || strings.TrimSpace(req.Content) == "" || req.IsVisible == nil {
		respondError(w, http.StatusBadRequest, "ID, title, content, and isVisible are required")
		return
	}

	if !h.stories.UpdateStory(r.Context(), req.ID, title, req.Content, *req.IsVisible) {
		respondError(w, http.StatusNotFound, "Failed to update story")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// AdminSetVisibility handles PATCH /api/admin/stories/{id}/visibility
func (h *Handler) AdminSetVisibility(w http.ResponseWriter, r *http.Request) {
	var req visibilityRequest
	if err := decodeJSON(w, r, &req); err != nil || req.IsVisible == nil {
		respondError(w, http.StatusBadRequest, "isVisible is required")
		return
	}

	if !h.stories.UpdateStoryVisibility(r.Context(), chi.URLParam(r, "id"), *req.IsVisible) {
		respondError(w, http.StatusNotFound, "Failed to update story visibility")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// AdminDeleteStory handles DELETE /api/admin/stories/{id}
func (h *Handler) AdminDeleteStory(w http.ResponseWriter, r *http.Request) {
	if !h.stories.DeleteStory(r.Context(), chi.URLParam(r, "id")) {
		respondError(w, http.StatusNotFound, "Failed to delete story")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// AdminPendingComments handles GET /api/admin/comments
func (h *Handler) AdminPendingComments(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"comments": h.comments.PendingCommentsWithStories(r.Context())})
}

// AdminModerateComment handles PUT /api/admin/comments
func (h *Handler) AdminModerateComment(w http.ResponseWriter, r *http.Request) {
	var req moderateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CommentID == "" || req.Action == "" {
		respondError(w, http.StatusBadRequest, "Comment ID and action are required")
		return
	}

	var ok bool
	switch req.Action {
	case domain.ActionApprove:
		ok = h.comments.ApproveComment(r.Context(), req.CommentID)
	case domain.ActionReject:
		ok = h.comments.RejectComment(r.Context(), req.CommentID)
	default:
		respondError(w, http.StatusBadRequest, `Action must be "approve" or "reject"`)
		return
	}

	if !ok {
		respondError(w, http.StatusNotFound, "Failed to "+string(req.Action)+" comment")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Comment " + string(req.Action) + "d successfully",
	})
}

// AdminModerationEvents handles GET /api/admin/moderation-events
func (h *Handler) AdminModerationEvents(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"events": h.comments.ModerationEvents(r.Context())})
}

// AdminAnalytics handles GET /api/admin/analytics
func (h *Handler) AdminAnalytics(w http.ResponseWriter, r *http.Request) {
	var (
		stats  []domain.StoryViewStats
		global domain.GlobalStats
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		stats = h.views.StoryViewStats(ctx)
		return nil
	})
	g.Go(func() error {
		global = h.views.GlobalStats(ctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load analytics")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"stories": stats, "global": global})
}

