package devserver

import (
	"context"
	"sync"

	"moria.us/smf/watcher"
)

// A states holds the latest state of the watched file and fans out updates
// to listeners.
type states struct {
	lock      sync.RWMutex
	data      *watcher.State
	listeners []chan<- *watcher.State
}

func (m *states) update(s *watcher.State) {
	m.lock.Lock()
	m.data = s
	ls := m.listeners
	var pos int
	for _, l := range ls {
		select {
		case l <- s:
			ls[pos] = l
			pos++
		default:
			// Slow listener, drop it.
			close(l)
		}
	}
	m.listeners = ls[:pos]
	for ; pos < len(ls); pos++ {
		ls[pos] = nil
	}
	m.lock.Unlock()
}

func (m *states) addListener(ch chan<- *watcher.State) *watcher.State {
	if ch == nil {
		panic("nil channel")
	}
	m.lock.Lock()
	d := m.data
	m.listeners = append(m.listeners, ch)
	m.lock.Unlock()
	return d
}

func (m *states) removeListener(ch chan<- *watcher.State) {
	m.lock.Lock()
	for i, l := range m.listeners {
		if l == ch {
			m.listeners[i] = m.listeners[len(m.listeners)-1]
			m.listeners[len(m.listeners)-1] = nil
			m.listeners = m.listeners[:len(m.listeners)-1]
			close(ch)
			break
		}
	}
	m.lock.Unlock()
}

// get returns the current state, waiting for the first one if necessary. It
// returns nil if ctx is done first.
func (m *states) get(ctx context.Context) *watcher.State {
	m.lock.RLock()
	d := m.data
	m.lock.RUnlock()
	if d != nil {
		return d
	}

	ch := make(chan *watcher.State, 1)
	m.lock.Lock()
	if d = m.data; d != nil {
		m.lock.Unlock()
		return d
	}
	m.listeners = append(m.listeners, ch)
	m.lock.Unlock()
	defer m.removeListener(ch)

	select {
	case d, ok := <-ch:
		if ok {
			return d
		}
		return m.get(ctx)
	case <-ctx.Done():
		return nil
	}
}
