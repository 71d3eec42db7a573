package services

import "sync"

// keyedMutex serializes work per recipe id. A slot is reserved before the
// goroutine that uses it starts, so callers can tell whether work for an
// id is queued or running.
type keyedMutex struct {
	mu    sync.Mutex
	slots map[int64]*slot
}

type slot struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{slots: make(map[int64]*slot)}
}

// reserve registers interest in id. The caller must eventually call
// release with the returned slot.
func (k *keyedMutex) reserve(id int64) *slot {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.reserveLocked(id)
}

// tryReserve reserves id only when nothing else holds or waits for it.
func (k *keyedMutex) tryReserve(id int64) (*slot, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if _, busy := k.slots[id]; busy {
		return nil, false
	}
	return k.reserveLocked(id), true
}

func (k *keyedMutex) reserveLocked(id int64) *slot {
	s, ok := k.slots[id]
	if !ok {
		s = &slot{}
		k.slots[id] = s
	}
	s.refs++
	return s
}

func (k *keyedMutex) release(id int64, s *slot) {
	k.mu.Lock()
	defer k.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(k.slots, id)
	}
}

func (k *keyedMutex) busy(id int64) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	_, ok := k.slots[id]
	return ok
}
