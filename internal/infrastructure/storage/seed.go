package storage

import (
	"context"
	"fmt"
	"log/slog"

	"StudentShowcase/internal/ports"
)

// SampleStory is a built-in story used to seed empty stores.
type SampleStory struct {
	ID        string
	Title     string
	Content   string
	IsVisible bool
	CreatedAt string
}

// SampleStories returns the built-in stories in publication order.
func SampleStories() []SampleStory {
	return []SampleStory{
		{
			ID:    "story-1",
			Title: "My Journey Through High School",
			Content: `<p>High school has been one of the most transformative experiences of my life. When I first walked through those doors as a freshman, I was nervous, unsure of myself, and afraid of what the next four years would bring.</p>
<p>But looking back now, I realize that every challenge I faced, every friendship I made, and every lesson I learned has shaped me into the person I am today.</p>
<p><strong>The most important thing I learned</strong> is that it's okay to not have everything figured out. It's okay to make mistakes, to ask for help, and to change your mind about what you want to do with your life.</p>`,
			IsVisible: true,
			CreatedAt: "2024-01-10T10:00:00Z",
		},
		{
			ID:    "story-2",
			Title: "The Power of Kindness",
			Content: `<p>I used to think that being kind meant being weak. I thought that to succeed in life, you had to be tough, competitive, and sometimes even a little mean. But one day, everything changed.</p>
<p>I was having a really bad day. That's when Sarah, a girl I barely knew, sat down next to me at lunch and asked if I was okay.</p>
<p>Her simple act of kindness made me realize that <em>kindness isn't weakness - it's strength</em>.</p>`,
			IsVisible: true,
			CreatedAt: "2024-01-12T14:30:00Z",
		},
		{
			ID:    "story-3",
			Title: "Learning to Fail",
			Content: `<p>Failure used to terrify me. The thought of not being perfect, of disappointing my parents or teachers, kept me up at night.</p>
<p>Then I joined the school debate team. I was terrible at first and lost every single debate for the first month. I wanted to quit.</p>
<p>My coach sat me down and said: <strong>"Every expert was once a beginner."</strong> Don't be afraid to fail. Be afraid of not trying at all.</p>`,
			IsVisible: true,
			CreatedAt: "2024-01-14T09:15:00Z",
		},
	}
}

type sampleComment struct {
	id, storyID, author, content, createdAt string
}

var sampleComments = []sampleComment{
	{"1", "story-1", "Sarah M.", "This story really resonated with me. Thank you for sharing your journey!", "2024-01-15T10:30:00Z"},
	{"2", "story-1", "Anonymous", "Beautiful writing. I went through something similar in high school.", "2024-01-16T14:20:00Z"},
	{"3", "story-2", "John D.", "Kindness really does make a difference. Thanks for the reminder!", "2024-01-17T09:15:00Z"},
}

// DefaultDataset is the fallback content served before anything is persisted.
func DefaultDataset() map[string][]ports.Record {
	stories := make([]ports.Record, 0, len(SampleStories()))
	for _, s := range SampleStories() {
		stories = append(stories, ports.Record{
			"id":         s.ID,
			"title":      s.Title,
			"content":    s.Content,
			"is_visible": s.IsVisible,
			"created_at": s.CreatedAt,
			"updated_at": s.CreatedAt,
		})
	}

	comments := make([]ports.Record, 0, len(sampleComments))
	for _, c := range sampleComments {
		comments = append(comments, ports.Record{
			"id":          c.id,
			"story_id":    c.storyID,
			"author_name": c.author,
			"content":     c.content,
			"is_approved": true,
			"created_at":  c.createdAt,
			"updated_at":  c.createdAt,
		})
	}

	return map[string][]ports.Record{
		ports.CollectionStories:          stories,
		ports.CollectionComments:         comments,
		ports.CollectionStoryViews:       {},
		ports.CollectionModerationEvents: {},
	}
}

// SeedStories inserts the sample stories that are not present yet and reports
// how many were added. Running it twice is harmless.
func SeedStories(ctx context.Context, store ports.RecordStore, log *slog.Logger) (int, error) {
	added := 0
	for _, rec := range DefaultDataset()[ports.CollectionStories] {
		inserted, err := store.InsertIfAbsent(ctx, ports.CollectionStories, rec, "id")
		if err != nil {
			return added, fmt.Errorf("seed story %v: %w", rec["id"], err)
		}
		if inserted {
			added++
			log.Info("inserted story", "id", rec["id"], "title", rec["title"])
		}
	}
	return added, nil
}
