package inmemorycache

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// InMemoryCache is a byte keyed, size bounded local cache. Entries may be evicted when it is full.
type InMemoryCache interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) bool
	Stats() Stats
}

// Stats is a point in time view of the cache
type Stats struct {
	Entries   int64
	HitRate   float64
	Evacuated int64
}

var (
	instance InMemoryCache
	once     sync.Once
)

// Init builds the shared cache once; later calls keep the first size
func Init(cacheName string, sizeInBytes int) {
	once.Do(func() {
		instance = NewV1(cacheName, sizeInBytes)
	})
}

func Instance() InMemoryCache {
	if instance == nil {
		log.Panic().Msg("in-memory-cache not initialized, call Init first")
	}
	return instance
}

// SetMockInstance replaces the shared cache
func SetMockInstance(mock InMemoryCache) {
	instance = mock
}
