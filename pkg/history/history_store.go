package history

import (
	"AgroTech-Vision/domain"
	"AgroTech-Vision/entities"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// HistoryStore is the ordered (newest first) list of kept results. The whole list is
// written to LocalStorage under domain.HistoryStorageKey after every mutation.
type HistoryStore struct {
	mu      sync.RWMutex
	entries []entities.WeightEntry
	storage LocalStorage
	now     func() time.Time
}

// NewHistoryStore loads the persisted list. A stored value that cannot be parsed is
// removed and the store starts empty.
func NewHistoryStore(ctx context.Context, storage LocalStorage) *HistoryStore {
	s := &HistoryStore{
		entries: []entities.WeightEntry{},
		storage: storage,
		now:     time.Now,
	}
	s.load(ctx)
	return s
}

func (s *HistoryStore) load(ctx context.Context) {
	raw, err := s.storage.GetItem(ctx, domain.HistoryStorageKey)
	if err != nil {
		if !errors.Is(err, domain.ErrStorageKey) {
			log.Warnf("Error loading weight history: %v", err)
		}
		return
	}

	var entries []entities.WeightEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		log.Warnf("Discarding corrupted weight history: %v", err)
		if err := s.storage.RemoveItem(ctx, domain.HistoryStorageKey); err != nil {
			log.Warnf("Error removing corrupted weight history: %v", err)
		}
		return
	}
	if entries != nil {
		s.entries = entries
	}
}

// AddEntry assigns id and timestamp, prepends the entry and persists the list.
// The entry stays in memory even when persisting fails.
func (s *HistoryStore) AddEntry(ctx context.Context, req domain.NewWeightEntry) (entities.WeightEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry := entities.WeightEntry{
		ID:                 newEntryID(now),
		Timestamp:          now,
		Weight:             req.Weight,
		Condition:          req.Condition,
		Confidence:         req.Confidence,
		ImageURL:           req.ImageURL,
		DeviceType:         req.DeviceType,
		OriginalWeight:     req.OriginalWeight,
		CalibrationApplied: req.CalibrationApplied,
	}

	s.entries = append([]entities.WeightEntry{entry}, s.entries...)
	return entry, s.persist(ctx)
}

// Clear empties the list and removes the persisted value. Calling it again is a no-op.
func (s *HistoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = []entities.WeightEntry{}
	return s.storage.RemoveItem(ctx, domain.HistoryStorageKey)
}

// RemoveEntry drops every entry with the given id and persists. It reports whether
// anything was removed, along with the removed entry.
func (s *HistoryStore) RemoveEntry(ctx context.Context, id string) (entities.WeightEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed entities.WeightEntry
	found := false
	kept := make([]entities.WeightEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		if entry.ID != id {
			kept = append(kept, entry)
			continue
		}
		removed, found = entry, true
	}
	s.entries = kept

	return removed, found, s.persist(ctx)
}

func (s *HistoryStore) Get(id string) (entities.WeightEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, entry := range s.entries {
		if entry.ID == id {
			return entry, true
		}
	}
	return entities.WeightEntry{}, false
}

func (s *HistoryStore) Entries() []entities.WeightEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.WeightEntry{}, s.entries...)
}

func (s *HistoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Stats aggregates the current weights. Average is rounded to an integer.
func (s *HistoryStore) Stats() domain.HistoryStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.entries) == 0 {
		return domain.HistoryStats{}
	}

	sum := 0.0
	min, max := math.Inf(1), math.Inf(-1)
	for _, entry := range s.entries {
		sum += entry.Weight
		min = math.Min(min, entry.Weight)
		max = math.Max(max, entry.Weight)
	}

	return domain.HistoryStats{
		Total:   len(s.entries),
		Average: math.Round(sum / float64(len(s.entries))),
		Min:     min,
		Max:     max,
		Range:   max - min,
	}
}

// Recent returns at most n of the newest entries.
func (s *HistoryStore) Recent(n int) []entities.WeightEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n < 0 {
		n = 0
	}
	if n > len(s.entries) {
		n = len(s.entries)
	}
	return append([]entities.WeightEntry{}, s.entries[:n]...)
}

func (s *HistoryStore) ByCondition(condition string) []entities.WeightEntry {
	return s.filter(func(entry entities.WeightEntry) bool {
		return strings.EqualFold(entry.Condition, condition)
	})
}

// ByDevice matches case-insensitively; entries without a device type never match.
func (s *HistoryStore) ByDevice(deviceType string) []entities.WeightEntry {
	return s.filter(func(entry entities.WeightEntry) bool {
		return matchesDevice(entry, deviceType)
	})
}

func matchesDevice(entry entities.WeightEntry, deviceType string) bool {
	return entry.DeviceType != "" && strings.EqualFold(entry.DeviceType, deviceType)
}

func (s *HistoryStore) filter(keep func(entities.WeightEntry) bool) []entities.WeightEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []entities.WeightEntry{}
	for _, entry := range s.entries {
		if keep(entry) {
			result = append(result, entry)
		}
	}
	return result
}

// Export writes the full list as two-space indented JSON.
func (s *HistoryStore) Export(w io.Writer) error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.entries, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// ExportFileName is weight_history_<YYYY-MM-DD>.json for the UTC date of now.
func ExportFileName(now time.Time) string {
	return fmt.Sprintf(domain.ExportFileNameFmt, now.UTC().Format(domain.ExportDateLayout))
}

func (s *HistoryStore) persist(ctx context.Context) error {
	data, err := json.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	if err := s.storage.SetItem(ctx, domain.HistoryStorageKey, string(data)); err != nil {
		log.Errorf("Error saving weight history: %v", err)
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

func newEntryID(now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("weight_%d_%s", now.UnixMilli(), random[:9])
}
