// Package sse streams catalog changes to browsers as Server-Sent Events.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Event types sent to clients.
const (
	TypeRecordCreated   = "record.created"
	TypeRecordUpdated   = "record.updated"
	TypeRecordDeleted   = "record.deleted"
	TypeTimelineUpdated = "timeline.updated"
)

var recordTypes = map[string]string{
	"created": TypeRecordCreated,
	"updated": TypeRecordUpdated,
	"deleted": TypeRecordDeleted,
}

const (
	clientBuffer     = 64
	historySize      = 128
	defaultKeepalive = 15 * time.Second
)

// Event is one message for all clients.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type subscription struct {
	ch     chan []byte
	lastID string
}

type sent struct {
	id  string
	raw []byte
}

// Broker fans events out to SSE clients. A loop goroutine owns the client
// set, the replay history and the timeline throttle; the exported methods
// only talk to it over channels.
//
// Every record event is followed by a timeline.updated, at most one per
// throttle interval. Clients reconnecting with Last-Event-ID get the events
// they missed, as long as those are still among the last historySize sent.
type Broker struct {
	throttle  time.Duration
	keepalive time.Duration

	subs   chan subscription
	unsubs chan chan []byte
	events chan Event
	counts chan chan int

	stop    chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker starts a broker with the given timeline throttle.
func NewBroker(throttle time.Duration) *Broker {
	if throttle <= 0 {
		throttle = 2 * time.Second
	}
	b := &Broker{
		throttle:  throttle,
		keepalive: defaultKeepalive,
		subs:      make(chan subscription),
		unsubs:    make(chan chan []byte),
		events:    make(chan Event, 256),
		counts:    make(chan chan int),
		stop:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
	go b.run()
	return b
}

// frame renders event in wire format under a fresh id.
func frame(event Event) (id string, raw []byte, err error) {
	payload, err := json.Marshal(event.Data)
	if err != nil {
		return "", nil, err
	}
	id = uuid.NewString()
	return id, []byte(fmt.Sprintf("id: %s\nevent: %s\ndata: %s\n\n", id, event.Type, payload)), nil
}

func isRecordType(typ string) bool {
	return typ == TypeRecordCreated || typ == TypeRecordUpdated || typ == TypeRecordDeleted
}

func (b *Broker) run() {
	defer close(b.stopped)

	clients := make(map[chan []byte]struct{})
	history := make([]sent, 0, historySize)
	var lastTimeline time.Time

	send := func(ch chan []byte, raw []byte) {
		select {
		case ch <- raw:
		default:
			// slow client
		}
	}
	broadcast := func(event Event) {
		id, raw, err := frame(event)
		if err != nil {
			return
		}
		if len(history) == historySize {
			history = append(history[:0], history[1:]...)
		}
		history = append(history, sent{id: id, raw: raw})
		for ch := range clients {
			send(ch, raw)
		}
	}

	for {
		select {
		case <-b.stop:
			for ch := range clients {
				close(ch)
			}
			return

		case sub := <-b.subs:
			clients[sub.ch] = struct{}{}
			if sub.lastID == "" {
				continue
			}
			for i, h := range history {
				if h.id != sub.lastID {
					continue
				}
				for _, missed := range history[i+1:] {
					send(sub.ch, missed.raw)
				}
				break
			}

		case ch := <-b.unsubs:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
			}

		case event := <-b.events:
			broadcast(event)
			if !isRecordType(event.Type) {
				continue
			}
			if now := time.Now(); now.Sub(lastTimeline) >= b.throttle {
				lastTimeline = now
				broadcast(Event{Type: TypeTimelineUpdated, Data: map[string]string{}})
			}

		case resp := <-b.counts:
			resp <- len(clients)
		}
	}
}

// Close stops the loop and closes every client channel.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stop)
	}
	<-b.stopped
}

// Subscribe registers a client. A non-empty lastID replays the events sent
// after it.
func (b *Broker) Subscribe(lastID string) chan []byte {
	ch := make(chan []byte, clientBuffer)
	if b.closed.Load() {
		close(ch)
		return ch
	}
	select {
	case b.subs <- subscription{ch: ch, lastID: lastID}:
	case <-b.stopped:
		close(ch)
	}
	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubs <- ch:
	case <-b.stopped:
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}
	resp := make(chan int, 1)
	select {
	case b.counts <- resp:
	case <-b.stopped:
		return 0
	}
	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// Publish queues an event for all clients.
func (b *Broker) Publish(event Event) {
	if b.closed.Load() {
		return
	}
	select {
	case b.events <- event:
	case <-b.stopped:
	}
}

// PublishRecordEvent reports a record change. kind is "created", "updated"
// or "deleted"; anything else is ignored. It has the index watcher callback
// signature.
func (b *Broker) PublishRecordEvent(kind, path string) {
	typ, ok := recordTypes[kind]
	if !ok {
		return
	}
	b.Publish(Event{Type: typ, Data: map[string]string{"path": path}})
}

// ServeHTTP streams events to one client (GET /api/events).
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.Subscribe(r.Header.Get("Last-Event-ID"))
	defer b.Unsubscribe(ch)

	ping := time.NewTicker(b.keepalive)
	defer ping.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ping.C:
			_, _ = w.Write([]byte(": keepalive\n\n"))
			flusher.Flush()
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
