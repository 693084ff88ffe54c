package cache

import "time"

// BytesCache stores raw bytes with a TTL. Provider responses are cached in
// their JSON form so the same entry works for the memory and Redis backends.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
}
