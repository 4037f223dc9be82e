package index

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/room77/suggestd/pkg/suggest"
)

// HotCache is an LRU acceleration layer in front of a KeyValueStore: the
// most recently looked-up normalized queries are held in a plain map so a
// repeat lookup skips the trie descent entirely. It never changes the
// store's Get semantics (still exact match only) — it only shortcuts
// where the answer is already known. Adapted from the teacher's
// prefix-trie hot cache, re-keyed on exact match instead of prefix scan.
type HotCache struct {
	mu         sync.RWMutex
	entries    map[string][]suggest.CompletionIndexItem
	accessTime map[string]int64
	accessSeq  int64
	capacity   int
}

// NewHotCache returns a cache holding at most capacity entries.
func NewHotCache(capacity int) *HotCache {
	if capacity <= 0 {
		capacity = 1024
	}
	return &HotCache{
		entries:    make(map[string][]suggest.CompletionIndexItem, capacity),
		accessTime: make(map[string]int64, capacity),
		capacity:   capacity,
	}
}

// Get returns the cached items for key, if present, marking it as recently
// used.
func (hc *HotCache) Get(key string) ([]suggest.CompletionIndexItem, bool) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	items, ok := hc.entries[key]
	if ok {
		hc.accessSeq++
		hc.accessTime[key] = hc.accessSeq
	}
	return items, ok
}

// Put stores items under key, evicting the least recently used entry if
// the cache is at capacity.
func (hc *HotCache) Put(key string, items []suggest.CompletionIndexItem) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	if _, exists := hc.entries[key]; !exists && len(hc.entries) >= hc.capacity {
		hc.evictLocked()
	}
	hc.entries[key] = items
	hc.accessSeq++
	hc.accessTime[key] = hc.accessSeq
}

// Stats reports the current entry count and capacity.
func (hc *HotCache) Stats() map[string]int {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return map[string]int{
		"entries":  len(hc.entries),
		"capacity": hc.capacity,
	}
}

func (hc *HotCache) evictLocked() {
	var oldestKey string
	var oldestTime int64 = 1<<63 - 1
	for key, t := range hc.accessTime {
		if t < oldestTime {
			oldestTime = t
			oldestKey = key
		}
	}
	if oldestKey != "" {
		delete(hc.entries, oldestKey)
		delete(hc.accessTime, oldestKey)
		log.Debugf("index: hot cache evicted key %q", oldestKey)
	}
}
