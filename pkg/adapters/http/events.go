package http

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/aretw0/mealy/pkg/ports"
)

// StreamManager fans run results out to SSE subscribers, per table.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{}
}

// NewStreamManager creates an empty manager.
func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
	}
}

// Subscribe registers a channel for table. The returned func unsubscribes
// and closes the channel.
func (sm *StreamManager) Subscribe(table string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[table]; !ok {
		sm.subscribers[table] = make(map[chan<- string]struct{})
	}
	sm.subscribers[table][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[table]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, table)
			}
		}
	}
}

// Broadcast sends msg to every subscriber of table. Slow subscribers lose messages.
func (sm *StreamManager) Broadcast(table string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[table] {
		select {
		case ch <- msg:
		default:
		}
	}
}

// SubscribeEvents handles GET /events (SSE).
//
// With ?table=NAME the stream carries one JSON result per run of that table.
// Without it, the stream carries a "reload" event each time a watchable loader
// reloads its tables.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	var events <-chan string
	table := r.URL.Query().Get("table")
	if table == "" {
		watchable, ok := s.Loader.(ports.Watchable)
		if !ok {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("loader does not support watching; pass ?table="))
			return
		}
		changes, err := watchable.Watch(r.Context())
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		reloads := make(chan string)
		go func() {
			defer close(reloads)
			for range changes {
				select {
				case reloads <- "reload":
				case <-r.Context().Done():
					return
				}
			}
		}()
		events = reloads
	} else {
		ch, cancel := s.Streams.Subscribe(table)
		defer cancel()
		events = ch
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Debug("SSE client disconnected", "table", table)
			return
		case msg, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
