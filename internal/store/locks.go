package store

import "sync"

// lockFor returns the per-stream mutex guarding Append, creating it on
// first use. A coarse mutex protects the registry itself; the fine
// per-stream mutexes serialize append-read-modify-write cycles on a
// single stream without serializing unrelated streams against each
// other (a "coarse lock over a map of fine locks").
func (s *Store) lockFor(streamKey string) *sync.Mutex {
	s.streamLocksMu.Lock()
	defer s.streamLocksMu.Unlock()

	mu, ok := s.streamLocks[streamKey]
	if !ok {
		mu = &sync.Mutex{}
		s.streamLocks[streamKey] = mu
	}
	return mu
}
