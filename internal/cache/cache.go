package cache

import "time"

// Cache is a simple string cache used for read-through caching of
// list responses. Implementations must be safe for concurrent use.
type Cache interface {
	Get(key string) (string, bool)
	Set(key string, value string, ttl time.Duration) error
	Delete(key string) error
}
