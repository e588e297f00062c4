package voice

import "sync"

// Registry maps guild IDs to sessions. It holds no logic beyond
// lookup, insert and delete; admission decisions belong to the services.
type Registry[T any] struct {
	mu       sync.RWMutex
	sessions map[string]T
}

func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{sessions: make(map[string]T)}
}

func (r *Registry[T]) Get(guildID string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[guildID]
	return s, ok
}

func (r *Registry[T]) Put(guildID string, s T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[guildID] = s
}

func (r *Registry[T]) Delete(guildID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, guildID)
}

func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
