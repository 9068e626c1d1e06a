// Package iocache provides durable storage for API payloads and run history.
package iocache

import (
	"sync"

	"github.com/huangsam/pulse/internal/contract"
)

// StoreManagerImpl manages the payload cache and run history stores.
// It provides thread-safe access to both stores.
type StoreManagerImpl struct {
	sync.RWMutex
	cache   contract.CacheStore
	history contract.HistoryStore
}

var _ contract.StoreManager = &StoreManagerImpl{} // Compile-time check

// GetCacheStore returns the payload cache store.
func (mgr *StoreManagerImpl) GetCacheStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.cache
}

// GetHistoryStore returns the run history store.
func (mgr *StoreManagerImpl) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}
