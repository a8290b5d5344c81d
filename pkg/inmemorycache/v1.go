package inmemorycache

import (
	"github.com/Meesho/BharatMLStack/online-learner/pkg/metric"
	"github.com/coocood/freecache"
	"github.com/rs/zerolog/log"
)

const (
	// freecache rounds smaller sizes up to this
	minSizeInBytes = 512 * 1024
	noExpiry       = 0
)

// V1 is backed by freecache, which keeps entries off the GC's scan path
type V1 struct {
	name  string
	cache *freecache.Cache
	tags  []string
}

func NewV1(cacheName string, sizeInBytes int) *V1 {
	if cacheName == "" {
		log.Panic().Msg("cache name cannot be empty")
	}
	if sizeInBytes <= 0 {
		log.Panic().Msgf("cache size must be positive, got %d bytes", sizeInBytes)
	}
	if sizeInBytes < minSizeInBytes {
		log.Warn().Msgf("cache %s size %d below minimum, using %d", cacheName, sizeInBytes, minSizeInBytes)
	}
	return &V1{
		name:  cacheName,
		cache: freecache.NewCache(sizeInBytes),
		tags:  metric.BuildTag(metric.NewTag("cache_name", cacheName)),
	}
}

func (c *V1) Get(key []byte) ([]byte, error) {
	return c.cache.Get(key)
}

func (c *V1) Set(key, value []byte) error {
	return c.cache.Set(key, value, noExpiry)
}

func (c *V1) Delete(key []byte) bool {
	return c.cache.Del(key)
}

// Stats reads the cache counters and publishes them as gauges
func (c *V1) Stats() Stats {
	s := Stats{
		Entries:   c.cache.EntryCount(),
		HitRate:   c.cache.HitRate(),
		Evacuated: c.cache.EvacuateCount(),
	}
	metric.Gauge("in_memory_cache_item_count", float64(s.Entries), c.tags)
	metric.Gauge("in_memory_cache_hit_rate", s.HitRate, c.tags)
	metric.Gauge("in_memory_cache_evacuate_count", float64(s.Evacuated), c.tags)
	return s
}
