package ui

import (
	"hash/fnv"
	"sync"

	"furnish/internal/catalog"
)

// RenderCache memoizes rendered cards. Re-rendering the grid on every key
// press otherwise re-wraps every description.
type RenderCache struct {
	mu      sync.Mutex
	entries map[uint64]string
	order   []uint64
	maxSize int
}

// NewRenderCache creates a cache holding at most maxSize entries.
func NewRenderCache(maxSize int) *RenderCache {
	if maxSize < 1 {
		maxSize = 1
	}
	return &RenderCache{
		entries: make(map[uint64]string, maxSize),
		maxSize: maxSize,
	}
}

// DefaultRenderCache is shared by all card grids.
var DefaultRenderCache = NewRenderCache(256)

// Len returns the number of cached entries.
func (rc *RenderCache) Len() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return len(rc.entries)
}

// GetOrCompute returns the cached value for key, computing and storing it
// when missing. The oldest entry is evicted once the cache is full.
func (rc *RenderCache) GetOrCompute(key uint64, compute func() string) string {
	rc.mu.Lock()
	if content, ok := rc.entries[key]; ok {
		rc.mu.Unlock()
		return content
	}
	rc.mu.Unlock()

	content := compute()

	rc.mu.Lock()
	defer rc.mu.Unlock()
	if _, ok := rc.entries[key]; !ok {
		if len(rc.order) >= rc.maxSize {
			oldest := rc.order[0]
			rc.order = rc.order[1:]
			delete(rc.entries, oldest)
		}
		rc.order = append(rc.order, key)
	}
	rc.entries[key] = content
	return content
}

// Clear empties the cache.
func (rc *RenderCache) Clear() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.entries = make(map[uint64]string, rc.maxSize)
	rc.order = nil
}

// cardKey hashes everything that affects how a card is drawn.
func cardKey(card catalog.Card, width int, selected, dark bool) uint64 {
	h := fnv.New64a()
	for _, s := range []string{card.Title, card.Brand, card.Price, card.Image, card.Description} {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	var b [8]byte
	u := uint64(width)
	for i := range b {
		b[i] = byte(u >> (8 * i))
	}
	h.Write(b[:])
	h.Write([]byte{boolByte(card.HasImage), boolByte(selected), boolByte(dark)})
	return h.Sum64()
}

func boolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}
