package storage

import (
	_ "embed"
	"fmt"
	"sort"

	"StudentShowcase/internal/ports"
)

//go:embed schema.sql
var schemaSQL string

// tableColumns whitelists every column a statement may reference.
var tableColumns = map[string][]string{
	ports.CollectionStories:          {"id", "title", "content", "is_visible", "created_at", "updated_at"},
	ports.CollectionComments:         {"id", "story_id", "author_name", "content", "is_approved", "created_at", "updated_at"},
	ports.CollectionStoryViews:       {"id", "story_id", "session_id", "created_at"},
	ports.CollectionModerationEvents: {"id", "comment_id", "story_id", "action", "created_at"},
}

func columnsOf(collection string) ([]string, error) {
	cols, ok := tableColumns[collection]
	if !ok {
		return nil, fmt.Errorf("unknown collection %q", collection)
	}
	return cols, nil
}

func checkColumns(collection string, names []string) error {
	cols, err := columnsOf(collection)
	if err != nil {
		return err
	}
	for _, name := range names {
		found := false
		for _, col := range cols {
			if col == name {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("unknown column %q in %s", name, collection)
		}
	}
	return nil
}

func sortedKeys[M ~map[string]any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
