package scheduling

import "sync"

// providerLocks hands out one mutex per provider so that check-then-reserve
// runs as a single critical section per (provider, date, time). Slot
// enumeration deliberately does not take this lock; a stale "available" is
// re-validated by the booking attempt that follows.
type providerLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newProviderLocks() *providerLocks {
	return &providerLocks{locks: make(map[uint]*sync.Mutex)}
}

func (p *providerLocks) get(providerID uint) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()

	l, ok := p.locks[providerID]
	if !ok {
		l = &sync.Mutex{}
		p.locks[providerID] = l
	}
	return l
}
