package usecase

import (
	"context"

	"StudentShowcase/internal/domain"
	"StudentShowcase/internal/ports"
)

// CommentRepository implements comment submission and the moderation workflow.
type CommentRepository struct {
	base
}

// NewCommentRepository constructs the comment use case.
func NewCommentRepository(deps Deps) *CommentRepository {
	return &CommentRepository{base: newBase(deps, "usecase.comments")}
}

// CommentsByStoryID returns approved comments of a story in chronological order.
func (r *CommentRepository) CommentsByStoryID(ctx context.Context, storyID string) []domain.Comment {
	records, err := r.public.Select(ctx, ports.CollectionComments, ports.Query{
		Where:   ports.Eq{"story_id": storyID, "is_approved": true},
		OrderBy: "created_at",
	})
	if err != nil {
		r.logger.Error("list comments", "story_id", storyID, "error", err)
		return []domain.Comment{}
	}

	comments := make([]domain.Comment, 0, len(records))
	for _, rec := range records {
		comments = append(comments, commentFromRecord(rec))
	}
	return comments
}

// CreateComment stores a visitor comment awaiting moderation.
func (r *CommentRepository) CreateComment(ctx context.Context, storyID string, authorName *string, content string) (domain.Comment, bool) {
	ts := r.timestamp()
	rec := ports.Record{
		"id":          r.newID(),
		"story_id":    storyID,
		"author_name": authorValue(authorName),
		"content":     content,
		"is_approved": false,
		"created_at":  ts,
		"updated_at":  ts,
	}
	if err := r.public.Insert(ctx, ports.CollectionComments, rec); err != nil {
		r.logger.Error("create comment", "story_id", storyID, "error", err)
		return domain.Comment{}, false
	}
	return commentFromRecord(rec), true
}

// PendingCommentsWithStories returns the moderation queue, newest first.
func (r *CommentRepository) PendingCommentsWithStories(ctx context.Context) []domain.PendingComment {
	records, err := r.admin.Select(ctx, ports.CollectionComments, ports.Query{
		Where:      ports.Eq{"is_approved": false},
		OrderBy:    "created_at",
		Descending: true,
	})
	if err != nil {
		r.logger.Error("list pending comments", "error", err)
		return []domain.PendingComment{}
	}

	titles := storyTitles(ctx, r.admin, r.logger)
	pending := make([]domain.PendingComment, 0, len(records))
	for _, rec := range records {
		c := commentFromRecord(rec)
		title, ok := titles[c.StoryID]
		if !ok {
			title = domain.UnknownStoryTitle
		}
		pending = append(pending, domain.PendingComment{Comment: c, StoryTitle: title})
	}
	return pending
}

// ApproveComment publishes a comment. Approving an approved comment succeeds
// without touching it.
func (r *CommentRepository) ApproveComment(ctx context.Context, id string) bool {
	if id == "" {
		return false
	}

	affected, err := r.admin.Update(ctx, ports.CollectionComments,
		ports.Eq{"id": id, "is_approved": false},
		ports.Record{
			"is_approved": true,
			"updated_at":  r.timestamp(),
		})
	if err != nil {
		r.logger.Error("approve comment", "id", id, "error", err)
		return false
	}
	if affected == 0 {
		exists, err := r.commentExists(ctx, id)
		if err != nil {
			r.logger.Error("approve comment", "id", id, "error", err)
			return false
		}
		if !exists {
			r.logger.Warn("approve comment: not found", "id", id)
		}
		return exists
	}

	r.recordModeration(ctx, id, r.storyIDOf(ctx, id), domain.ActionApprove)
	return true
}

// RejectComment deletes a comment permanently.
func (r *CommentRepository) RejectComment(ctx context.Context, id string) bool {
	if id == "" {
		return false
	}
	storyID := r.storyIDOf(ctx, id)

	affected, err := r.admin.Delete(ctx, ports.CollectionComments, ports.Eq{"id": id})
	if err != nil {
		r.logger.Error("reject comment", "id", id, "error", err)
		return false
	}
	if affected == 0 {
		r.logger.Warn("reject comment: not found", "id", id)
		return false
	}

	r.recordModeration(ctx, id, storyID, domain.ActionReject)
	return true
}

// ModerationEvents returns recorded decisions, newest first.
func (r *CommentRepository) ModerationEvents(ctx context.Context) []domain.ModerationEvent {
	records, err := r.admin.Select(ctx, ports.CollectionModerationEvents, ports.Query{
		OrderBy:    "created_at",
		Descending: true,
	})
	if err != nil {
		r.logger.Error("list moderation events", "error", err)
		return []domain.ModerationEvent{}
	}

	events := make([]domain.ModerationEvent, 0, len(records))
	for _, rec := range records {
		events = append(events, domain.ModerationEvent{
			ID:        stringField(rec, "id"),
			CommentID: stringField(rec, "comment_id"),
			StoryID:   stringField(rec, "story_id"),
			Action:    domain.ModerationAction(stringField(rec, "action")),
			CreatedAt: timeField(rec, "created_at"),
		})
	}
	return events
}

func (r *CommentRepository) commentExists(ctx context.Context, id string) (bool, error) {
	records, err := r.admin.Select(ctx, ports.CollectionComments, ports.Query{
		Where:   ports.Eq{"id": id},
		Columns: []string{"id"},
		Limit:   1,
	})
	if err != nil {
		return false, err
	}
	return len(records) > 0, nil
}

func (r *CommentRepository) storyIDOf(ctx context.Context, commentID string) string {
	records, err := r.admin.Select(ctx, ports.CollectionComments, ports.Query{
		Where:   ports.Eq{"id": commentID},
		Columns: []string{"story_id"},
		Limit:   1,
	})
	if err != nil || len(records) == 0 {
		return ""
	}
	return stringField(records[0], "story_id")
}

// recordModeration is best effort: the decision itself has already been applied.
func (r *CommentRepository) recordModeration(ctx context.Context, commentID, storyID string, action domain.ModerationAction) {
	err := r.admin.Insert(ctx, ports.CollectionModerationEvents, ports.Record{
		"id":         r.newID(),
		"comment_id": commentID,
		"story_id":   storyID,
		"action":     string(action),
		"created_at": r.timestamp(),
	})
	if err != nil {
		r.logger.Warn("record moderation event", "comment_id", commentID, "action", action, "error", err)
		return
	}
	r.logger.Info("comment moderated", "comment_id", commentID, "action", action)
}
