package cardstack

import "sync"

// KeyRouter delivers key presses to the stacks currently mounted on it.
// A stack only reacts to keys between Mount and the returned unmount call.
type KeyRouter struct {
	mu     sync.Mutex
	mounts map[*Stack]int
}

// NewKeyRouter creates a router with nothing mounted.
func NewKeyRouter() *KeyRouter {
	return &KeyRouter{mounts: make(map[*Stack]int)}
}

// Mount registers s for key presses. The returned func releases this
// registration; calling it more than once has no further effect. Mounting the
// same stack twice keeps it registered until both are released, and it still
// receives each key once.
func (r *KeyRouter) Mount(s *Stack) (unmount func()) {
	r.mu.Lock()
	r.mounts[s]++
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			if r.mounts[s] <= 1 {
				delete(r.mounts, s)
				return
			}
			r.mounts[s]--
		})
	}
}

// Mounted reports whether s is registered.
func (r *KeyRouter) Mounted(s *Stack) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mounts[s] > 0
}

// Dispatch delivers key to every mounted stack and reports whether any handled it.
// Callers must serialize Dispatch with other access to the mounted stacks.
func (r *KeyRouter) Dispatch(key string) bool {
	r.mu.Lock()
	stacks := make([]*Stack, 0, len(r.mounts))
	for s := range r.mounts {
		stacks = append(stacks, s)
	}
	r.mu.Unlock()

	handled := false
	for _, s := range stacks {
		if s.Apply(KeyPress{Key: key}) {
			handled = true
		}
	}
	return handled
}
