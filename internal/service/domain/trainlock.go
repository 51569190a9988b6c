package domain

import "sync"

// trainLocks hands out one mutex per train id so that allocation and
// cancellation for the same train serialize while different trains proceed
// in parallel. Entries are never evicted; the map is bounded by the number
// of trains ever touched.
type trainLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newTrainLocks() *trainLocks {
	return &trainLocks{
		locks: make(map[uint]*sync.Mutex),
	}
}

func (l *trainLocks) get(trainID uint) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[trainID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[trainID] = m
	}
	return m
}
