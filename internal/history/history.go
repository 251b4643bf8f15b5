// Package history records scored runs to an optional SQL store.
package history

import (
	"sync"

	"github.com/huangsam/dqscore/internal/contract"
)

// StoreManager holds the history store opened for the current command.
type StoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	history      contract.HistoryStore
}

var _ contract.HistoryManager = &StoreManager{} // Compile-time check

// GetHistoryStore returns the history store, or nil when history is disabled.
func (mgr *StoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}
