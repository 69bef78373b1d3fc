// Package state persists the per-view filter state. One blob key per
// view; writes are synchronous, loads never fail.
package state

import (
	"encoding/json"

	"github.com/shelfmark/shelfmark/pkg/filter"
	"github.com/shelfmark/shelfmark/pkg/logging"
	"github.com/shelfmark/shelfmark/pkg/storage"
)

const keyPrefix = "filter-state:"

// Store loads and saves filter state through a blob backend.
type Store struct {
	backend storage.Backend
	logger  *logging.Logger
}

// NewStore creates a filter-state store. A nil logger discards
// diagnostics.
func NewStore(backend storage.Backend, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Store{
		backend: backend,
		logger:  logger.WithComponent("filter-state"),
	}
}

// Load returns the stored state for the view. A missing or corrupt
// blob falls back to the caller's defaults; the failure is visible
// only in the log, never to the caller.
func (s *Store) Load(viewID string, defaults filter.FilterState) filter.FilterState {
	blob, ok, err := s.backend.Get(keyPrefix + viewID)
	if err != nil {
		s.logger.Error("failed to read filter state", map[string]interface{}{
			"view":  viewID,
			"error": err.Error(),
		})
		return defaults
	}
	if !ok {
		return defaults
	}

	var loaded filter.FilterState
	if err := json.Unmarshal([]byte(blob), &loaded); err != nil {
		s.logger.Warn("corrupt filter state, using defaults", map[string]interface{}{
			"view":  viewID,
			"error": err.Error(),
		})
		return defaults
	}
	return loaded
}

// Save writes the state for the view immediately, no batching. Every
// failure is logged here, so persistence problems never go unnoticed;
// the error is additionally returned for callers that want to react,
// and is safe to ignore for fire-and-forget saves.
func (s *Store) Save(viewID string, state filter.FilterState) error {
	data, err := json.Marshal(state)
	if err != nil {
		s.logger.Error("failed to encode filter state", map[string]interface{}{
			"view":  viewID,
			"error": err.Error(),
		})
		return err
	}
	if err := s.backend.Set(keyPrefix+viewID, string(data)); err != nil {
		s.logger.Error("failed to write filter state", map[string]interface{}{
			"view":  viewID,
			"error": err.Error(),
		})
		return err
	}
	return nil
}

// Reset removes the stored state for the view, so the next Load
// returns defaults again.
func (s *Store) Reset(viewID string) error {
	return s.backend.Delete(keyPrefix + viewID)
}
