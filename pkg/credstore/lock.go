package credstore

import "sync"

// rwLock is a read-write lock whose readers never queue behind a waiting
// writer. A goroutine that already holds a read lock can therefore take
// another one while Clear is pending. sync.RWMutex would block it.
//
// Writers wait until the last reader leaves; a steady stream of
// overlapping readers can delay them indefinitely.
type rwLock struct {
	mu      sync.Mutex
	cond    sync.Cond
	readers int
	writing bool
}

// lock takes l.mu; the zero value is ready to use
func (l *rwLock) lock() {
	l.mu.Lock()
	if l.cond.L == nil {
		l.cond.L = &l.mu
	}
}

func (l *rwLock) RLock() {
	l.lock()
	for l.writing {
		l.cond.Wait()
	}
	l.readers++
	l.mu.Unlock()
}

func (l *rwLock) RUnlock() {
	l.lock()
	if l.readers == 0 {
		l.mu.Unlock()
		panic("credstore: RUnlock of unlocked rwLock")
	}
	l.readers--
	if l.readers == 0 {
		l.cond.Broadcast()
	}
	l.mu.Unlock()
}

func (l *rwLock) Lock() {
	l.lock()
	for l.writing || l.readers > 0 {
		l.cond.Wait()
	}
	l.writing = true
	l.mu.Unlock()
}

func (l *rwLock) Unlock() {
	l.lock()
	if !l.writing {
		l.mu.Unlock()
		panic("credstore: Unlock of unlocked rwLock")
	}
	l.writing = false
	l.cond.Broadcast()
	l.mu.Unlock()
}
