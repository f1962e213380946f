package memory

import (
	"context"
	"sync"

	"IdleCity/internal/session/entity"
)

// SaveStore 把存档留在进程内，进程退出即丢失。用于开发和测试。
type SaveStore struct {
	mu    sync.RWMutex
	blobs map[entity.PlayerID][]byte
}

func NewSaveStore() *SaveStore {
	return &SaveStore{blobs: make(map[entity.PlayerID][]byte)}
}

func (s *SaveStore) Get(ctx context.Context, id entity.PlayerID) ([]byte, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	blob, ok := s.blobs[id]
	if !ok {
		return nil, entity.ErrSaveNotFound
	}
	return append([]byte(nil), blob...), nil
}

func (s *SaveStore) Put(ctx context.Context, id entity.PlayerID, version uint64, blob []byte) error {
	_ = ctx
	_ = version
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[id] = append([]byte(nil), blob...)
	return nil
}

func (s *SaveStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
