// Package history maintains recent free-text searches, named filter
// presets with usage counters, and per-filter usage stats. Mutations
// are applied in memory and flushed to the blob backend after a short
// debounce, so rapid interaction coalesces into one write.
package history

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shelfmark/shelfmark/pkg/filter"
	"github.com/shelfmark/shelfmark/pkg/logging"
	"github.com/shelfmark/shelfmark/pkg/storage"
)

// Preset is a named, reusable filter description.
type Preset struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Filters     filter.FilterState `json:"filters"`
	CreatedAt   string             `json:"createdAt"`
	UsageCount  int                `json:"usageCount"`
}

// Data is the persisted history blob.
type Data struct {
	RecentSearches   []string       `json:"recentSearches"`
	CustomPresets    []Preset       `json:"customPresets"`
	FilterUsageStats map[string]int `json:"filterUsageStats"`
}

// Config holds history store configuration.
type Config struct {
	Key               string        // blob key
	MaxRecentSearches int           // oldest over cap is dropped
	MaxPresets        int
	FlushInterval     time.Duration // debounce window for writes
}

// DefaultConfig returns the default history configuration.
func DefaultConfig() Config {
	return Config{
		Key:               "filter-history",
		MaxRecentSearches: 10,
		MaxPresets:        20,
		FlushInterval:     500 * time.Millisecond,
	}
}

// Store is the history/preset store. The pending-write timer is an
// instance field, so stores for different sessions in one process
// never share debounce state.
type Store struct {
	backend storage.Backend
	logger  *logging.Logger
	config  Config

	mu    sync.Mutex
	data  Data
	timer *time.Timer
}

// NewStore creates a history store and loads any previously persisted
// blob. A corrupt blob is logged and treated as absent.
func NewStore(backend storage.Backend, logger *logging.Logger, config Config) *Store {
	if logger == nil {
		logger = logging.Nop()
	}
	if config.Key == "" {
		config.Key = DefaultConfig().Key
	}
	if config.MaxRecentSearches <= 0 {
		config.MaxRecentSearches = DefaultConfig().MaxRecentSearches
	}
	if config.MaxPresets <= 0 {
		config.MaxPresets = DefaultConfig().MaxPresets
	}
	if config.FlushInterval <= 0 {
		config.FlushInterval = DefaultConfig().FlushInterval
	}

	s := &Store{
		backend: backend,
		logger:  logger.WithComponent("filter-history"),
		config:  config,
		data:    emptyData(),
	}
	s.load()
	return s
}

func emptyData() Data {
	return Data{
		RecentSearches:   []string{},
		CustomPresets:    []Preset{},
		FilterUsageStats: map[string]int{},
	}
}

func (s *Store) load() {
	blob, ok, err := s.backend.Get(s.config.Key)
	if err != nil {
		s.logger.Error("failed to read filter history", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if !ok {
		return
	}

	var loaded Data
	if err := json.Unmarshal([]byte(blob), &loaded); err != nil {
		s.logger.Warn("corrupt filter history, starting empty", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if loaded.RecentSearches == nil {
		loaded.RecentSearches = []string{}
	}
	if loaded.CustomPresets == nil {
		loaded.CustomPresets = []Preset{}
	}
	if loaded.FilterUsageStats == nil {
		loaded.FilterUsageStats = map[string]int{}
	}
	s.data = loaded
}

// AddRecentSearch moves term to the front of the recent list, dropping
// any prior exact duplicate and truncating to the cap. Terms are
// trimmed before storage so padded retypes of the same search collapse
// into one entry. Blank input is a no-op.
func (s *Store) AddRecentSearch(term string) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recent := make([]string, 0, len(s.data.RecentSearches)+1)
	recent = append(recent, term)
	for _, prev := range s.data.RecentSearches {
		if prev != term {
			recent = append(recent, prev)
		}
	}
	if len(recent) > s.config.MaxRecentSearches {
		recent = recent[:s.config.MaxRecentSearches]
	}
	s.data.RecentSearches = recent
	s.scheduleFlush()
}

// RecentSearches returns the recent search terms, most recent first.
func (s *Store) RecentSearches() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.data.RecentSearches))
	copy(out, s.data.RecentSearches)
	return out
}

// SaveFilterPreset creates a preset with a fresh id, replacing any
// existing preset of the same name, and returns the id. The preset
// list is most-recently-saved-first and truncated to the cap.
func (s *Store) SaveFilterPreset(name, description string, filters filter.FilterState) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	preset := Preset{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Filters:     filters,
		CreatedAt:   time.Now().Format(time.RFC3339),
	}

	presets := make([]Preset, 0, len(s.data.CustomPresets)+1)
	presets = append(presets, preset)
	for _, prev := range s.data.CustomPresets {
		if prev.Name != name {
			presets = append(presets, prev)
		}
	}
	if len(presets) > s.config.MaxPresets {
		presets = presets[:s.config.MaxPresets]
	}
	s.data.CustomPresets = presets
	s.scheduleFlush()
	return preset.ID
}

// Presets returns the stored presets, most recently saved first.
func (s *Store) Presets() []Preset {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Preset, len(s.data.CustomPresets))
	copy(out, s.data.CustomPresets)
	return out
}

// DeleteFilterPreset removes the preset with the given id. Unknown ids
// are ignored.
func (s *Store) DeleteFilterPreset(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, preset := range s.data.CustomPresets {
		if preset.ID == id {
			s.data.CustomPresets = append(s.data.CustomPresets[:i], s.data.CustomPresets[i+1:]...)
			s.scheduleFlush()
			return
		}
	}
}

// IncrementPresetUsage bumps a preset's usage counter. Counters move
// only on explicit application, never on listing.
func (s *Store) IncrementPresetUsage(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.CustomPresets {
		if s.data.CustomPresets[i].ID == id {
			s.data.CustomPresets[i].UsageCount++
			s.scheduleFlush()
			return
		}
	}
}

// RecordFilterUsage increments the usage counter for a filter kind
// label ("tag", "date-range", ...).
func (s *Store) RecordFilterUsage(kind string) {
	if kind == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.FilterUsageStats[kind]++
	s.scheduleFlush()
}

// UsageStats returns a copy of the filter usage counters.
func (s *Store) UsageStats() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.data.FilterUsageStats))
	for k, v := range s.data.FilterUsageStats {
		out[k] = v
	}
	return out
}

// ClearRecentSearches drops the recent search list.
func (s *Store) ClearRecentSearches() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.RecentSearches = []string{}
	s.scheduleFlush()
}

// ClearAllHistory drops searches, presets and usage stats.
func (s *Store) ClearAllHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = emptyData()
	s.scheduleFlush()
}

// scheduleFlush arms the debounce timer, replacing any pending write
// so only the latest state is ever flushed. Callers hold s.mu.
func (s *Store) scheduleFlush() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.config.FlushInterval, func() {
		if err := s.Flush(); err != nil {
			s.logger.Error("failed to flush filter history", map[string]interface{}{
				"error": err.Error(),
			})
		}
	})
}

// Flush writes the current history blob immediately, cancelling any
// pending debounced write.
func (s *Store) Flush() error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	data, err := json.Marshal(s.data)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.backend.Set(s.config.Key, string(data))
}

// Close flushes any pending write. The store must not be used after
// Close.
func (s *Store) Close() error {
	return s.Flush()
}
