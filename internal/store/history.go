// Package store tracks which songs were already played this session,
// using a Bloom filter for cheap negative checks and an LRU cache to
// bound memory.
package store

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultFalsePositiveRate = 0.01

// History is a thread-safe record of track IDs played in the current
// session.
type History struct {
	ids               map[string]struct{}
	bloom             *bloom.BloomFilter
	lru               *lru.Cache[string, struct{}]
	mutex             sync.RWMutex
	maxTracks         int
	falsePositiveRate float64
}

// NewHistory creates a playback history bounded to maxTracks entries.
func NewHistory(maxTracks int) *History {
	if maxTracks <= 0 {
		maxTracks = 1
	}
	lruCache, _ := lru.New[string, struct{}](maxTracks)

	return &History{
		ids:               make(map[string]struct{}),
		bloom:             bloom.NewWithEstimates(uint(maxTracks), defaultFalsePositiveRate),
		lru:               lruCache,
		maxTracks:         maxTracks,
		falsePositiveRate: defaultFalsePositiveRate,
	}
}

// Played reports whether a track ID was played this session.
func (h *History) Played(trackID string) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if !h.bloom.TestString(trackID) {
		return false
	}

	_, exists := h.ids[trackID]
	return exists
}

// MarkPlayed records a track ID, evicting the least recently played
// entry when the history is full. Eviction happens before insertion so
// the LRU never evicts on its own and the map stays in step with it.
func (h *History) MarkPlayed(trackID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, exists := h.ids[trackID]; exists {
		h.lru.Add(trackID, struct{}{})
		return
	}

	if len(h.ids) >= h.maxTracks {
		h.evictOldest()
	}

	h.ids[trackID] = struct{}{}
	h.bloom.AddString(trackID)
	h.lru.Add(trackID, struct{}{})
}

// Size returns the number of distinct tracks recorded.
func (h *History) Size() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.ids)
}

// Clear resets the history. The Bloom filter is rebuilt since it does
// not support removal.
func (h *History) Clear() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.ids = make(map[string]struct{})
	h.bloom = bloom.NewWithEstimates(uint(h.maxTracks), h.falsePositiveRate)
	h.lru.Purge()
}

func (h *History) evictOldest() {
	oldestKey, _, ok := h.lru.GetOldest()
	if !ok {
		return
	}

	delete(h.ids, oldestKey)
	h.lru.Remove(oldestKey)
}
