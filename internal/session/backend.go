package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ValkeyBackend stores sessions in Valkey with native key expiry.
type ValkeyBackend struct {
	client *redis.Client
}

// NewValkeyBackend wraps a connected client.
func NewValkeyBackend(client *redis.Client) *ValkeyBackend {
	return &ValkeyBackend{client: client}
}

func (b *ValkeyBackend) Load(ctx context.Context, id string) ([]byte, bool, error) {
	payload, err := b.client.Get(ctx, id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

func (b *ValkeyBackend) Save(ctx context.Context, id string, payload []byte, ttl time.Duration) error {
	return b.client.Set(ctx, id, payload, ttl).Err()
}

func (b *ValkeyBackend) Delete(ctx context.Context, id string) error {
	return b.client.Del(ctx, id).Err()
}

// MemoryBackend keeps sessions in process. Expired entries are dropped on
// access.
type MemoryBackend struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	payload []byte
	expires time.Time
}

// NewMemoryBackend returns an empty in-process backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{entries: make(map[string]memoryEntry), now: time.Now}
}

func (b *MemoryBackend) Load(_ context.Context, id string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[id]
	if !ok {
		return nil, false, nil
	}
	if !b.now().Before(e.expires) {
		delete(b.entries, id)
		return nil, false, nil
	}
	return e.payload, true, nil
}

func (b *MemoryBackend) Save(_ context.Context, id string, payload []byte, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	cp := make([]byte, len(payload))
	copy(cp, payload)
	b.entries[id] = memoryEntry{payload: cp, expires: b.now().Add(ttl)}
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.entries, id)
	return nil
}
