package usecase

import (
	"time"

	"StudentShowcase/internal/domain"
	"StudentShowcase/internal/ports"
)

func stringField(rec ports.Record, key string) string {
	s, _ := rec[key].(string)
	return s
}

func optionalString(rec ports.Record, key string) *string {
	s, ok := rec[key].(string)
	if !ok {
		return nil
	}
	return &s
}

func boolField(rec ports.Record, key string) bool {
	b, _ := rec[key].(bool)
	return b
}

func timeField(rec ports.Record, key string) time.Time {
	switch v := rec[key].(type) {
	case time.Time:
		return v.UTC()
	case string:
		t, err := ports.ParseTime(v)
		if err != nil {
			return time.Time{}
		}
		return t.UTC()
	default:
		return time.Time{}
	}
}

func storyFromRecord(rec ports.Record) domain.Story {
	return domain.Story{
		ID:        stringField(rec, "id"),
		Title:     stringField(rec, "title"),
		Content:   stringField(rec, "content"),
		IsVisible: boolField(rec, "is_visible"),
		CreatedAt: timeField(rec, "created_at"),
		UpdatedAt: timeField(rec, "updated_at"),
	}
}

func storiesFromRecords(records []ports.Record) []domain.Story {
	stories := make([]domain.Story, 0, len(records))
	for _, rec := range records {
		stories = append(stories, storyFromRecord(rec))
	}
	return stories
}

func commentFromRecord(rec ports.Record) domain.Comment {
	return domain.Comment{
		ID:         stringField(rec, "id"),
		StoryID:    stringField(rec, "story_id"),
		AuthorName: optionalString(rec, "author_name"),
		Content:    stringField(rec, "content"),
		IsApproved: boolField(rec, "is_approved"),
		CreatedAt:  timeField(rec, "created_at"),
		UpdatedAt:  timeField(rec, "updated_at"),
	}
}

// authorValue keeps absent names as SQL NULL / JSON null.
func authorValue(name *string) any {
	if name == nil {
		return nil
	}
	return *name
}
