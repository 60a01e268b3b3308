package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-intel/internal/domain/entities"
)

// MemoryStore is a simple in-memory key-value store with expiration.
// It backs OAuth state and meeting locks when Redis is disabled.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]*memoryItem
	stop  chan struct{}
	once  sync.Once
}

type memoryItem struct {
	value      string
	expireTime time.Time
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	store := &MemoryStore{
		items: make(map[string]*memoryItem),
		stop:  make(chan struct{}),
	}

	go store.cleanupExpired(5 * time.Minute)

	return store
}

// Set stores a key-value pair with expiration
func (ms *MemoryStore) Set(_ context.Context, key, value string, expiration time.Duration) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.items[key] = &memoryItem{
		value:      value,
		expireTime: time.Now().Add(expiration),
	}
	return nil
}

// Take returns the value for key and removes it
func (ms *MemoryStore) Take(_ context.Context, key string) (string, bool, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	item, ok := ms.items[key]
	if !ok {
		return "", false, nil
	}
	delete(ms.items, key)

	if time.Now().After(item.expireTime) {
		return "", false, nil
	}
	return item.value, true, nil
}

// Lock acquires key until the returned unlock is called or ttl passes
func (ms *MemoryStore) Lock(_ context.Context, key string, ttl time.Duration) (func(), error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	key = lockKey(key)
	if item, ok := ms.items[key]; ok && time.Now().Before(item.expireTime) {
		return nil, entities.ErrMeetingLocked
	}

	token := uuid.NewString()
	ms.items[key] = &memoryItem{value: token, expireTime: time.Now().Add(ttl)}

	return func() {
		ms.mu.Lock()
		defer ms.mu.Unlock()
		if item, ok := ms.items[key]; ok && item.value == token {
			delete(ms.items, key)
		}
	}, nil
}

// Close stops the cleanup goroutine
func (ms *MemoryStore) Close() {
	ms.once.Do(func() { close(ms.stop) })
}

// cleanupExpired periodically removes expired items
func (ms *MemoryStore) cleanupExpired(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ms.stop:
			return
		case <-ticker.C:
			ms.mu.Lock()
			now := time.Now()
			for key, item := range ms.items {
				if now.After(item.expireTime) {
					delete(ms.items, key)
				}
			}
			ms.mu.Unlock()
		}
	}
}

func lockKey(key string) string {
	return "lock:" + key
}
