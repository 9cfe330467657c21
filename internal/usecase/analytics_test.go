package usecase

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"StudentShowcase/internal/domain"
	"StudentShowcase/internal/ports"
)

func TestRecordStoryViewOncePerSession(t *testing.T) {
	t.Parallel()

	deps := newTestDeps(t)
	analytics := NewAnalytics(deps)
	ctx := context.Background()

	analytics.RecordStoryView(ctx, "session-1", "story-1")
	analytics.RecordStoryView(ctx, "session-1", "story-1")

	views, err := deps.Stores.Public.Select(ctx, ports.CollectionStoryViews, ports.Query{})
	require.NoError(t, err)
	require.Len(t, views, 1)

	recorded := analytics.Views(ctx)
	require.Len(t, recorded, 1)
	require.Equal(t, "story-1", recorded[0].StoryID)
	require.Equal(t, "session-1", recorded[0].SessionID)
	require.False(t, recorded[0].CreatedAt.IsZero())

	analytics.RecordStoryView(ctx, "", "story-1")
	analytics.RecordStoryView(ctx, "session-1", "")
	require.Equal(t, domain.GlobalStats{UniqueReaders: 1, TotalViews: 1}, analytics.GlobalStats(ctx))
}

func TestViewStats(t *testing.T) {
	t.Parallel()

	deps := newTestDeps(t)
	stories := NewStoryRepository(deps)
	analytics := NewAnalytics(deps)
	ctx := context.Background()

	popular, _ := stories.CreateStory(ctx, "Popular", "p", true)
	quiet, _ := stories.CreateStory(ctx, "Quiet", "q", true)

	for _, session := range []string{"s1", "s2", "s3"} {
		analytics.RecordStoryView(ctx, session, popular.ID)
	}
	analytics.RecordStoryView(ctx, "s1", quiet.ID)
	analytics.RecordStoryView(ctx, "s4", "deleted-story")

	want := []domain.StoryViewStats{
		{ID: popular.ID, Title: "Popular", UniqueViews: 3, TotalViews: 3},
		{ID: quiet.ID, Title: "Quiet", UniqueViews: 1, TotalViews: 1},
		{ID: "deleted-story", Title: domain.UnknownStoryTitle, UniqueViews: 1, TotalViews: 1},
	}
	if diff := cmp.Diff(want, analytics.StoryViewStats(ctx)); diff != "" {
		t.Fatalf("stats mismatch (-want +got):\n%s", diff)
	}

	require.Equal(t, domain.GlobalStats{UniqueReaders: 4, TotalViews: 5}, analytics.GlobalStats(ctx))
}

func TestAnalyticsFailuresAreSwallowed(t *testing.T) {
	t.Parallel()

	analytics := NewAnalytics(failingDeps())
	ctx := context.Background()

	require.NotPanics(t, func() { analytics.RecordStoryView(ctx, "s", "story") })
	require.Empty(t, analytics.StoryViewStats(ctx))
	require.Empty(t, analytics.Views(ctx))
	require.Equal(t, domain.GlobalStats{}, analytics.GlobalStats(ctx))
}
