package usecase

import (
	"context"

	"StudentShowcase/internal/domain"
	"StudentShowcase/internal/ports"
)

// StoryRepository implements story CRUD, visibility toggling and random selection.
// Failures are logged and reported as negative results.
type StoryRepository struct {
	base
}

// NewStoryRepository constructs the story use case.
func NewStoryRepository(deps Deps) *StoryRepository {
	return &StoryRepository{base: newBase(deps, "usecase.stories")}
}

// AllStories returns visible stories, newest first.
func (r *StoryRepository) AllStories(ctx context.Context) []domain.Story {
	records, err := r.public.Select(ctx, ports.CollectionStories, ports.Query{
		Where:      ports.Eq{"is_visible": true},
		OrderBy:    "created_at",
		Descending: true,
	})
	if err != nil {
		r.logger.Error("list visible stories", "error", err)
		return []domain.Story{}
	}
	return storiesFromRecords(records)
}

// ListAllStories returns every story including hidden ones, newest first.
func (r *StoryRepository) ListAllStories(ctx context.Context) []domain.Story {
	records, err := r.admin.Select(ctx, ports.CollectionStories, ports.Query{
		OrderBy:    "created_at",
		Descending: true,
	})
	if err != nil {
		r.logger.Error("list all stories", "error", err)
		return []domain.Story{}
	}
	return storiesFromRecords(records)
}

// RandomStory picks uniformly among visible stories.
func (r *StoryRepository) RandomStory(ctx context.Context) (domain.Story, bool) {
	stories := r.AllStories(ctx)
	if len(stories) == 0 {
		return domain.Story{}, false
	}
	return stories[r.intn(len(stories))], true
}

// StoryByID looks a story up regardless of visibility.
func (r *StoryRepository) StoryByID(ctx context.Context, id string) (domain.Story, bool) {
	if id == "" {
		return domain.Story{}, false
	}
	records, err := r.public.Select(ctx, ports.CollectionStories, ports.Query{
		Where: ports.Eq{"id": id},
		Limit: 1,
	})
	if err != nil {
		r.logger.Error("get story", "id", id, "error", err)
		return domain.Story{}, false
	}
	if len(records) == 0 {
		return domain.Story{}, false
	}
	return storyFromRecord(records[0]), true
}

// CreateStory stores a new story with a fresh id.
func (r *StoryRepository) CreateStory(ctx context.Context, title, content string, isVisible bool) (domain.Story, bool) {
	ts := r.timestamp()
	rec := ports.Record{
		"id":         r.newID(),
		"title":      title,
		"content":    content,
		"is_visible": isVisible,
		"created_at": ts,
		"updated_at": ts,
	}
	if err := r.admin.Insert(ctx, ports.CollectionStories, rec); err != nil {
		r.logger.Error("create story", "error", err)
		return domain.Story{}, false
	}
	r.logger.Info("story created", "id", rec["id"], "visible", isVisible)
	return storyFromRecord(rec), true
}

// UpdateStory replaces the mutable fields of a story.
func (r *StoryRepository) UpdateStory(ctx context.Context, id, title, content string, isVisible bool) bool {
	return r.update(ctx, id, ports.Record{
		"title":      title,
		"content":    content,
		"is_visible": isVisible,
		"updated_at": r.timestamp(),
	})
}

// UpdateStoryVisibility toggles whether a story is publicly listed.
func (r *StoryRepository) UpdateStoryVisibility(ctx context.Context, id string, isVisible bool) bool {
	return r.update(ctx, id, ports.Record{
		"is_visible": isVisible,
		"updated_at": r.timestamp(),
	})
}

func (r *StoryRepository) update(ctx context.Context, id string, patch ports.Record) bool {
	if id == "" {
		return false
	}
	affected, err := r.admin.Update(ctx, ports.CollectionStories, ports.Eq{"id": id}, patch)
	if err != nil {
		r.logger.Error("update story", "id", id, "error", err)
		return false
	}
	if affected == 0 {
		r.logger.Warn("update story: not found", "id", id)
		return false
	}
	return true
}

// DeleteStory hard-deletes a story. Its comments are left in place.
func (r *StoryRepository) DeleteStory(ctx context.Context, id string) bool {
	if id == "" {
		return false
	}
	affected, err := r.admin.Delete(ctx, ports.CollectionStories, ports.Eq{"id": id})
	if err != nil {
		r.logger.Error("delete story", "id", id, "error", err)
		return false
	}
	if affected == 0 {
		r.logger.Warn("delete story: not found", "id", id)
		return false
	}
	r.logger.Info("story deleted", "id", id)
	return true
}
