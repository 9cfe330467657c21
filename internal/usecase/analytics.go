package usecase

import (
	"context"
	"log/slog"
	"sort"

	"StudentShowcase/internal/domain"
	"StudentShowcase/internal/ports"
)

// Analytics records per-session story views and aggregates them.
type Analytics struct {
	base
}

// NewAnalytics constructs the view counter.
func NewAnalytics(deps Deps) *Analytics {
	return &Analytics{base: newBase(deps, "usecase.analytics")}
}

// RecordStoryView stores one view per (story, session). It never fails outward.
func (a *Analytics) RecordStoryView(ctx context.Context, sessionID, storyID string) {
	if sessionID == "" || storyID == "" {
		return
	}

	inserted, err := a.public.InsertIfAbsent(ctx, ports.CollectionStoryViews, ports.Record{
		"id":         a.newID(),
		"story_id":   storyID,
		"session_id": sessionID,
		"created_at": a.timestamp(),
	}, "story_id", "session_id")
	if err != nil {
		a.logger.Warn("record story view", "story_id", storyID, "error", err)
		return
	}
	if inserted {
		a.logger.Debug("story view recorded", "story_id", storyID)
	}
}

// StoryViewStats returns per-story counts, most unique readers first.
func (a *Analytics) StoryViewStats(ctx context.Context) []domain.StoryViewStats {
	views, err := a.views(ctx)
	if err != nil {
		a.logger.Warn("load story views", "error", err)
		return []domain.StoryViewStats{}
	}

	type acc struct {
		sessions map[string]struct{}
		total    int
	}
	byStory := make(map[string]*acc)
	for _, v := range views {
		entry, ok := byStory[v.StoryID]
		if !ok {
			entry = &acc{sessions: make(map[string]struct{})}
			byStory[v.StoryID] = entry
		}
		entry.sessions[v.SessionID] = struct{}{}
		entry.total++
	}

	titles := storyTitles(ctx, a.admin, a.logger)
	stats := make([]domain.StoryViewStats, 0, len(byStory))
	for id, entry := range byStory {
		title, ok := titles[id]
		if !ok {
			title = domain.UnknownStoryTitle
		}
		stats = append(stats, domain.StoryViewStats{
			ID:          id,
			Title:       title,
			UniqueViews: len(entry.sessions),
			TotalViews:  entry.total,
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].UniqueViews != stats[j].UniqueViews {
			return stats[i].UniqueViews > stats[j].UniqueViews
		}
		if stats[i].Title != stats[j].Title {
			return stats[i].Title < stats[j].Title
		}
		return stats[i].ID < stats[j].ID
	})
	return stats
}

// GlobalStats counts distinct sessions and all view records.
func (a *Analytics) GlobalStats(ctx context.Context) domain.GlobalStats {
	views, err := a.views(ctx)
	if err != nil {
		a.logger.Warn("load story views", "error", err)
		return domain.GlobalStats{}
	}

	sessions := make(map[string]struct{}, len(views))
	for _, v := range views {
		sessions[v.SessionID] = struct{}{}
	}
	return domain.GlobalStats{UniqueReaders: len(sessions), TotalViews: len(views)}
}

// Views returns every stored view record, oldest first.
func (a *Analytics) Views(ctx context.Context) []domain.StoryView {
	views, err := a.views(ctx)
	if err != nil {
		a.logger.Warn("load story views", "error", err)
		return []domain.StoryView{}
	}
	return views
}

func (a *Analytics) views(ctx context.Context) ([]domain.StoryView, error) {
	records, err := a.admin.Select(ctx, ports.CollectionStoryViews, ports.Query{
		OrderBy: "created_at",
	})
	if err != nil {
		return nil, err
	}
	views := make([]domain.StoryView, 0, len(records))
	for _, rec := range records {
		views = append(views, domain.StoryView{
			ID:        stringField(rec, "id"),
			StoryID:   stringField(rec, "story_id"),
			SessionID: stringField(rec, "session_id"),
			CreatedAt: timeField(rec, "created_at"),
		})
	}
	return views, nil
}

// storyTitles maps story ids to titles; on failure every lookup misses.
func storyTitles(ctx context.Context, store ports.RecordStore, log *slog.Logger) map[string]string {
	records, err := store.Select(ctx, ports.CollectionStories, ports.Query{
		Columns: []string{"id", "title"},
	})
	if err != nil {
		log.Warn("load story titles", "error", err)
		return map[string]string{}
	}
	titles := make(map[string]string, len(records))
	for _, rec := range records {
		titles[stringField(rec, "id")] = stringField(rec, "title")
	}
	return titles
}
