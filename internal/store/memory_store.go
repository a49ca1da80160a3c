package store

import (
	"errors"
	"fmt"

	"github.com/bluele/gcache"
)

// DefaultMemoryStoreSize bounds the in-memory store's entry count.
const DefaultMemoryStoreSize = 1024

type memoryStore struct {
	cache gcache.Cache
}

// NewMemoryStore creates an in-process store bounded to maxEntries,
// evicting the least recently used fingerprint when full. Eviction is
// invisible to the tailer beyond a possible re-tail from its initial
// position. maxEntries <= 0 selects DefaultMemoryStoreSize.
func NewMemoryStore(maxEntries int) Store {
	if maxEntries <= 0 {
		maxEntries = DefaultMemoryStoreSize
	}
	return &memoryStore{
		cache: gcache.New(maxEntries).LRU().Build(),
	}
}

func (s *memoryStore) Get(fingerprint string) (int64, bool, error) {
	v, err := s.cache.Get(fingerprint)
	if err != nil {
		if errors.Is(err, gcache.KeyNotFoundError) {
			return 0, false, nil
		}
		return 0, false, err
	}
	offset, ok := v.(int64)
	if !ok {
		return 0, false, fmt.Errorf("unexpected value type for fingerprint %s", fingerprint)
	}
	return offset, true, nil
}

func (s *memoryStore) Set(fingerprint string, offset int64) error {
	return s.cache.Set(fingerprint, offset)
}

func (s *memoryStore) Delete(fingerprint string) error {
	s.cache.Remove(fingerprint)
	return nil
}

func (s *memoryStore) Close() error {
	s.cache.Purge()
	return nil
}
