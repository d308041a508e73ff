package strength

import (
	"encoding/binary"
	"math"
	"sync"
	"time"

	"FXStrength/internal/model"

	"github.com/cespare/xxhash/v2"
)

type cacheEntry struct {
	points    []model.UnitStrengthPoint
	timestamp time.Time
}

// Cache memoizes strength computations by exact input with TTL and LRU eviction.
// Cached slices are shared and must be treated as read-only.
type Cache struct {
	mu          sync.Mutex
	entries     map[uint64]*cacheEntry
	maxSize     int
	ttl         time.Duration
	accessOrder []uint64 // most recent at end
}

// NewCache creates a cache holding at most maxSize results for ttl each.
func NewCache(maxSize int, ttl time.Duration) *Cache {
	return &Cache{
		entries:     make(map[uint64]*cacheEntry),
		maxSize:     maxSize,
		ttl:         ttl,
		accessOrder: make([]uint64, 0, maxSize),
	}
}

// Get returns a live entry and marks it most recently used.
func (c *Cache) Get(key uint64) ([]model.UnitStrengthPoint, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Since(entry.timestamp) > c.ttl {
		c.remove(key)
		return nil, false
	}
	c.touch(key)
	return entry.points, true
}

// Set stores a result, evicting the least recently used entry when full.
func (c *Cache) Set(key uint64, points []model.UnitStrengthPoint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxSize <= 0 {
		return
	}
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize && len(c.accessOrder) > 0 {
		c.remove(c.accessOrder[0])
	}
	c.entries[key] = &cacheEntry{points: points, timestamp: time.Now()}
	c.touch(key)
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) touch(key uint64) {
	for i, k := range c.accessOrder {
		if k == key {
			c.accessOrder = append(c.accessOrder[:i], c.accessOrder[i+1:]...)
			break
		}
	}
	c.accessOrder = append(c.accessOrder, key)
}

func (c *Cache) remove(key uint64) {
	delete(c.entries, key)
	for i, k := range c.accessOrder {
		if k == key {
			c.accessOrder = append(c.accessOrder[:i], c.accessOrder[i+1:]...)
			return
		}
	}
}

// Key hashes every input of a computation: the universe, each pair's symbol,
// dates and prices, and the window bounds.
func Key(universe []string, pairs []model.PairSeries, windowStart, windowEnd int) uint64 {
	h := xxhash.New()
	var buf [8]byte
	writeInt := func(v int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}

	writeInt(int64(len(universe)))
	for _, u := range universe {
		h.WriteString(u)
		h.Write([]byte{0})
	}
	writeInt(int64(len(pairs)))
	for _, p := range pairs {
		h.WriteString(p.Symbol)
		h.Write([]byte{0})
		writeInt(int64(len(p.Points)))
		for _, pt := range p.Points {
			writeInt(pt.Date.UnixNano())
			writeInt(int64(math.Float64bits(pt.Price)))
		}
	}
	writeInt(int64(windowStart))
	writeInt(int64(windowEnd))
	return h.Sum64()
}
