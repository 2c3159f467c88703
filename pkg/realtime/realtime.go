// Package realtime provides an in-process publish/subscribe hub used to fan
// out dataset events to live search sessions.
//
// Delivery is best effort: slow listeners drop events instead of blocking
// the publisher. There is no persistence or replay.
package realtime

import (
	"sync"
	"time"
)

// Event types.
const (
	// TypeReload is published after a load replaced the record set.
	TypeReload = "reload"
	// TypeLoadFailed is published after a load failed and the record set
	// was emptied.
	TypeLoadFailed = "load_failed"
)

// DatasetEvent describes the record set after a load.
type DatasetEvent struct {
	Source   string    `json:"source"`
	Records  int       `json:"records"`
	LoadedAt time.Time `json:"loaded_at"`
	Error    string    `json:"error,omitempty"`
}

// Event is the hub envelope.
type Event struct {
	Type    string       `json:"type"`
	Dataset DatasetEvent `json:"dataset"`
}

// Hub is an in-memory fan-out dispatcher. Each registered listener receives
// events on its own buffered channel. When a listener's buffer is full the
// event is dropped for that listener only.
//
// The hub is concurrency-safe.
type Hub struct {
	mu        sync.RWMutex
	listeners map[uint64]chan Event
	nextID    uint64
	bufSize   int
}

// NewHub constructs a hub with the given per-listener buffer size.
// If bufSize <= 0, a default of 32 is used.
func NewHub(bufSize int) *Hub {
	if bufSize <= 0 {
		bufSize = 32
	}
	return &Hub{
		listeners: make(map[uint64]chan Event),
		bufSize:   bufSize,
	}
}

// Register adds a listener and returns its id and receive channel. Callers
// must Unregister(id) when done.
func (h *Hub) Register() (uint64, <-chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	ch := make(chan Event, h.bufSize)
	h.listeners[id] = ch
	return id, ch
}

// Unregister removes the listener and closes its channel. Unknown ids are
// ignored.
func (h *Hub) Unregister(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.listeners[id]; ok {
		delete(h.listeners, id)
		close(ch)
	}
}

// Broadcast delivers ev to every listener (best effort).
func (h *Hub) Broadcast(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.listeners {
		select {
		case ch <- ev:
		default:
			// Drop for slow listener.
		}
	}
}

// Size returns the current number of listeners.
func (h *Hub) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}

// Reloaded builds a TypeReload event.
func Reloaded(source string, records int, at time.Time) Event {
	return Event{Type: TypeReload, Dataset: DatasetEvent{Source: source, Records: records, LoadedAt: at}}
}

// LoadFailed builds a TypeLoadFailed event.
func LoadFailed(source string, err error, at time.Time) Event {
	ev := Event{Type: TypeLoadFailed, Dataset: DatasetEvent{Source: source, LoadedAt: at}}
	if err != nil {
		ev.Dataset.Error = err.Error()
	}
	return ev
}
