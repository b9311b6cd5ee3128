package market

import (
	"errors"
	"sync"
)

var ErrNoSignal = errors.New("no signal for symbol")

// SignalStore caches the latest signal per symbol. The trading loop writes
// as signals arrive; the optimizer reads the most recent one per cycle.
type SignalStore struct {
	mu      sync.RWMutex
	signals map[string]Signal
}

func NewSignalStore() *SignalStore {
	return &SignalStore{signals: make(map[string]Signal)}
}

func (ss *SignalStore) Set(s Signal) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.signals[s.Symbol] = s
}

func (ss *SignalStore) Get(symbol string) (Signal, error) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	s, ok := ss.signals[symbol]
	if !ok {
		return Signal{}, ErrNoSignal
	}
	return s, nil
}

// Latest returns the most recently timestamped signal across all symbols,
// or ErrNoSignal if the store is empty.
func (ss *SignalStore) Latest() (Signal, error) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	var best Signal
	found := false
	for _, s := range ss.signals {
		if !found || s.Time.After(best.Time) {
			best = s
			found = true
		}
	}
	if !found {
		return Signal{}, ErrNoSignal
	}
	return best, nil
}
