package cache

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"ownerdesk/internal/pkg/metrics"
)

// Fetcher loads the server value for a key.
type Fetcher func(ctx context.Context) (any, error)

// PatchFunc maps the previous cached value to the next one. It must not modify prev.
type PatchFunc func(prev any) any

// Snapshot is what an observer sees for a key.
type Snapshot struct {
	Data         any
	IsLoading    bool
	IsValidating bool
	Error        error
}

// Change is emitted after every successful write to a key.
type Change struct {
	Key     Key
	Value   any
	Version uint64
}

type entry struct {
	value   any
	fetcher Fetcher
	version uint64
	err     error
	loaded  bool
}

// Store is the process-wide read cache. It is created once at startup and handed to
// every collaborator that reads or patches server state; values are replaced, never mutated.
type Store struct {
	mu       sync.RWMutex
	entries  map[Key]*entry
	inflight map[Key]int
	// pending holds patches that arrived while the first fetch of a key was running.
	pending map[Key][]PatchFunc

	listenersMu sync.RWMutex
	listeners   map[int]func(Change)
	nextID      int

	group   singleflight.Group
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewStore(log *zap.Logger, m *metrics.Metrics) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		entries:   make(map[Key]*entry),
		inflight:  make(map[Key]int),
		pending:   make(map[Key][]PatchFunc),
		listeners: make(map[int]func(Change)),
		log:       log,
		metrics:   m,
	}
}

// Subscribe returns the cached value for key, fetching it on a miss.
// A failed fetch is reported in the snapshot and leaves nothing cached.
func (s *Store) Subscribe(ctx context.Context, key Key, fetcher Fetcher) Snapshot {
	s.mu.Lock()
	e, ok := s.entries[key]
	if ok && e.loaded {
		if e.fetcher == nil {
			e.fetcher = fetcher
		}
		snap := Snapshot{Data: e.value, IsValidating: s.inflight[key] > 0}
		s.mu.Unlock()
		s.metrics.CacheFetch("hit")
		return snap
	}
	s.mu.Unlock()

	s.metrics.CacheFetch("miss")
	value, err := s.fetch(ctx, key, fetcher)

	s.mu.Lock()
	s.fetchDoneLocked(key, err != nil)
	if err != nil {
		if cur, ok := s.entries[key]; !ok || !cur.loaded {
			s.entries[key] = &entry{fetcher: fetcher, err: err}
		}
		s.mu.Unlock()
		s.log.Warn("Subscribe: fetch failed", zap.String("key", string(key)), zap.Error(err))
		s.metrics.CacheFetch("error")
		return Snapshot{Error: err}
	}

	e, ok = s.entries[key]
	if ok && e.loaded {
		// Another reader or a revalidation stored a value while we were fetching.
		snap := Snapshot{Data: e.value}
		s.mu.Unlock()
		return snap
	}
	value = s.applyPendingLocked(key, value)
	e = &entry{value: value, fetcher: fetcher, loaded: true, version: 1}
	s.entries[key] = e
	s.mu.Unlock()

	s.notify(Change{Key: key, Value: value, Version: e.version})
	return Snapshot{Data: value}
}

// Get returns the cached value without fetching.
func (s *Store) Get(key Key) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok || !e.loaded {
		return nil, false
	}
	return e.value, true
}

// Peek reports the observer-facing state of key without triggering a fetch.
func (s *Store) Peek(key Key) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	inflight := s.inflight[key] > 0
	if !ok {
		return Snapshot{IsLoading: inflight}
	}
	if !e.loaded {
		return Snapshot{IsLoading: inflight, Error: e.err}
	}
	return Snapshot{Data: e.value, IsValidating: inflight}
}

// Patch replaces the value under key with fn(previous). Patches apply one at a time,
// so the last one to run wins. A key whose first fetch is still running gets the patch applied
// to the fetched value. Other absent keys are left alone: the next read fetches the server value.
func (s *Store) Patch(ctx context.Context, key Key, fn PatchFunc, revalidate bool) bool {
	s.mu.Lock()
	e, ok := s.entries[key]
	if (!ok || !e.loaded) && s.inflight[key] > 0 {
		s.pending[key] = append(s.pending[key], fn)
		s.mu.Unlock()
		s.metrics.CachePatch("queued")
		s.log.Debug("Patch: queued behind fetch", zap.String("key", string(key)))
		return true
	}
	if !ok || !e.loaded {
		s.mu.Unlock()
		s.metrics.CachePatch("skipped")
		s.log.Debug("Patch: key not cached", zap.String("key", string(key)))
		return false
	}
	next := fn(e.value)
	e.value = next
	e.version++
	change := Change{Key: key, Value: next, Version: e.version}
	s.mu.Unlock()

	s.metrics.CachePatch("applied")
	s.log.Debug("Patch: applied", zap.String("key", string(key)), zap.Uint64("version", change.Version))
	s.notify(change)

	if revalidate {
		if err := s.Revalidate(ctx, key); err != nil {
			s.log.Warn("Patch: revalidation failed", zap.String("key", string(key)), zap.Error(err))
		}
	}
	return true
}

// Revalidate refetches key with the fetcher it was subscribed with and stores the result.
func (s *Store) Revalidate(ctx context.Context, key Key) error {
	s.mu.RLock()
	e, ok := s.entries[key]
	var fetcher Fetcher
	if ok {
		fetcher = e.fetcher
	}
	s.mu.RUnlock()
	if fetcher == nil {
		return nil
	}

	value, err := s.fetch(ctx, key, fetcher)

	s.mu.Lock()
	s.fetchDoneLocked(key, err != nil)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	e, ok = s.entries[key]
	if !ok {
		e = &entry{fetcher: fetcher}
		s.entries[key] = e
	}
	e.value = s.applyPendingLocked(key, value)
	e.loaded = true
	e.err = nil
	e.version++
	change := Change{Key: key, Value: e.value, Version: e.version}
	s.mu.Unlock()

	s.notify(change)
	return nil
}

// Invalidate drops key so the next Subscribe reads the server.
func (s *Store) Invalidate(key Key) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// fetch runs fetcher with the key marked in flight. The caller must call fetchDoneLocked
// under s.mu, in the same critical section that stores the result.
func (s *Store) fetch(ctx context.Context, key Key, fetcher Fetcher) (any, error) {
	s.mu.Lock()
	s.inflight[key]++
	s.mu.Unlock()

	v, err, _ := s.group.Do(string(key), func() (any, error) {
		return fetcher(ctx)
	})
	return v, err
}

// fetchDoneLocked ends one fetch of key. Queued patches are dropped when the last fetch failed:
// the write already reached the server, so the next read returns it.
func (s *Store) fetchDoneLocked(key Key, failed bool) {
	if s.inflight[key]--; s.inflight[key] <= 0 {
		delete(s.inflight, key)
		if failed {
			delete(s.pending, key)
		}
	}
}

func (s *Store) applyPendingLocked(key Key, value any) any {
	for _, fn := range s.pending[key] {
		value = fn(value)
	}
	delete(s.pending, key)
	return value
}

// Listen registers fn for every change of every key and returns a function that removes it.
func (s *Store) Listen(fn func(Change)) func() {
	s.listenersMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.listenersMu.Unlock()

	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}

// Watch streams the changes of a single key. Slow readers miss intermediate values.
func (s *Store) Watch(key Key) (<-chan Change, func()) {
	ch := make(chan Change, 16)
	var once sync.Once
	var closed bool
	var mu sync.Mutex

	stop := s.Listen(func(c Change) {
		if c.Key != key {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- c:
		default:
		}
	})

	return ch, func() {
		once.Do(func() {
			stop()
			mu.Lock()
			closed = true
			close(ch)
			mu.Unlock()
		})
	}
}

func (s *Store) notify(c Change) {
	s.listenersMu.RLock()
	fns := make([]func(Change), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenersMu.RUnlock()

	for _, fn := range fns {
		fn(c)
	}
}
