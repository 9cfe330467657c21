package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"strings"
	"sync"

	"StudentShowcase/internal/ports"
)

// LocalStore keeps each collection as one serialized JSON array inside a
// BlobStore. Collections without a stored blob start from the seed dataset.
type LocalStore struct {
	blobs  ports.BlobStore
	seed   map[string][]ports.Record
	logger *slog.Logger

	// mu serializes read-modify-write cycles within this process.
	mu sync.Mutex
}

var _ ports.RecordStore = (*LocalStore)(nil)

// NewLocalStore wires a blob backend with the dataset used for empty collections.
func NewLocalStore(blobs ports.BlobStore, seed map[string][]ports.Record, log *slog.Logger) *LocalStore {
	return &LocalStore{
		blobs:  blobs,
		seed:   seed,
		logger: log,
	}
}

// Insert appends rec. A duplicate id is rejected.
func (s *LocalStore) Insert(ctx context.Context, collection string, rec ports.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx, collection)
	if err != nil {
		return err
	}
	if id, ok := rec["id"]; ok {
		for _, existing := range records {
			if valuesEqual(existing["id"], id) {
				return fmt.Errorf("insert into %s: duplicate id %v", collection, id)
			}
		}
	}

	records = append(records, rec.Clone())
	return s.save(ctx, collection, records)
}

// InsertIfAbsent appends rec unless a record agrees with it on every key.
func (s *LocalStore) InsertIfAbsent(ctx context.Context, collection string, rec ports.Record, keys ...string) (bool, error) {
	if len(keys) == 0 {
		return false, fmt.Errorf("insert into %s: conflict keys are required", collection)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx, collection)
	if err != nil {
		return false, err
	}

	where := make(ports.Eq, len(keys))
	for _, key := range keys {
		where[key] = rec[key]
	}
	for _, existing := range records {
		if matches(existing, where) {
			return false, nil
		}
	}

	records = append(records, rec.Clone())
	if err := s.save(ctx, collection, records); err != nil {
		return false, err
	}
	return true, nil
}

// Select filters, orders, limits and projects the stored records.
func (s *LocalStore) Select(ctx context.Context, collection string, q ports.Query) ([]ports.Record, error) {
	s.mu.Lock()
	records, err := s.load(ctx, collection)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	var result []ports.Record
	for _, rec := range records {
		if matches(rec, q.Where) {
			result = append(result, rec)
		}
	}

	if q.OrderBy != "" {
		sort.SliceStable(result, func(i, j int) bool {
			c := compareValues(result[i][q.OrderBy], result[j][q.OrderBy])
			if q.Descending {
				return c > 0
			}
			return c < 0
		})
	}

	if q.Limit > 0 && len(result) > q.Limit {
		result = result[:q.Limit]
	}

	if len(q.Columns) > 0 {
		for i, rec := range result {
			projected := make(ports.Record, len(q.Columns))
			for _, col := range q.Columns {
				projected[col] = rec[col]
			}
			result[i] = projected
		}
	}

	return result, nil
}

// Update applies patch to every matching record.
func (s *LocalStore) Update(ctx context.Context, collection string, where ports.Eq, patch ports.Record) (int64, error) {
	if len(where) == 0 {
		return 0, fmt.Errorf("update %s: a filter is required", collection)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx, collection)
	if err != nil {
		return 0, err
	}

	var affected int64
	for _, rec := range records {
		if !matches(rec, where) {
			continue
		}
		for k, v := range patch {
			rec[k] = v
		}
		affected++
	}

	if affected == 0 {
		return 0, nil
	}
	if err := s.save(ctx, collection, records); err != nil {
		return 0, err
	}
	return affected, nil
}

// Delete removes every matching record.
func (s *LocalStore) Delete(ctx context.Context, collection string, where ports.Eq) (int64, error) {
	if len(where) == 0 {
		return 0, fmt.Errorf("delete from %s: a filter is required", collection)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx, collection)
	if err != nil {
		return 0, err
	}

	kept := records[:0]
	for _, rec := range records {
		if !matches(rec, where) {
			kept = append(kept, rec)
		}
	}

	affected := int64(len(records) - len(kept))
	if affected == 0 {
		return 0, nil
	}
	if err := s.save(ctx, collection, kept); err != nil {
		return 0, err
	}
	return affected, nil
}

// Close releases the blob backend.
func (s *LocalStore) Close() error {
	if s.blobs == nil {
		return nil
	}
	return s.blobs.Close()
}

func (s *LocalStore) load(ctx context.Context, collection string) ([]ports.Record, error) {
	if _, err := columnsOf(collection); err != nil {
		return nil, err
	}
	if s.blobs == nil {
		return nil, fmt.Errorf("local store is not configured")
	}

	raw, found, err := s.blobs.Load(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", collection, err)
	}
	if !found {
		s.debug("collection not persisted yet, using seed data", "collection", collection)
		return cloneRecords(s.seed[collection]), nil
	}

	var records []ports.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", collection, err)
	}
	return records, nil
}

func (s *LocalStore) save(ctx context.Context, collection string, records []ports.Record) error {
	if records == nil {
		records = []ports.Record{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}
	if err := s.blobs.Save(ctx, collection, raw); err != nil {
		return fmt.Errorf("save %s: %w", collection, err)
	}
	return nil
}

func (s *LocalStore) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func cloneRecords(records []ports.Record) []ports.Record {
	out := make([]ports.Record, len(records))
	for i, rec := range records {
		out[i] = rec.Clone()
	}
	return out
}

func matches(rec ports.Record, where ports.Eq) bool {
	for k, v := range where {
		if !valuesEqual(rec[k], v) {
			return false
		}
	}
	return true
}

// normalizeNumber folds Go numeric kinds into float64, the JSON decoding kind.
func normalizeNumber(v any) any {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	default:
		return v
	}
}

func valuesEqual(a, b any) bool {
	return reflect.DeepEqual(normalizeNumber(a), normalizeNumber(b))
}

// compareValues orders nil first, timestamps chronologically, then strings,
// numbers and booleans by their natural order.
func compareValues(a, b any) int {
	a, b = normalizeNumber(a), normalizeNumber(b)
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			break
		}
		at, aErr := ports.ParseTime(av)
		bt, bErr := ports.ParseTime(bv)
		if aErr == nil && bErr == nil {
			return at.Compare(bt)
		}
		return strings.Compare(av, bv)
	case float64:
		bv, ok := b.(float64)
		if !ok {
			break
		}
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case bool:
		bv, ok := b.(bool)
		if !ok || av == bv {
			break
		}
		if !av {
			return -1
		}
		return 1
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
