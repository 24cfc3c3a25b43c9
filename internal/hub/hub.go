// Package hub provides same-origin, cross-tab style event fan-out for the
// funnel: every Hub attached to a Broker receives every message published by
// any attached Hub, the sender included. A durable key-value mirror backs
// StoreAndBroadcast so an already-open admin view can pick up new leads
// without a reload.
//
// The broker is constructed and passed explicitly; there is no hidden
// process-wide singleton, so tests can run isolated brokers side by side.
package hub

import (
	"errors"
	"sync"

	"leadfunnel/internal/store"
	"leadfunnel/pkg/types"
)

// Event names on the wire.
const (
	EventDataUpdated     = "data_updated"
	EventNewCustomer     = "new_customer"
	EventCustomerUpdated = "customer_updated"
)

// Message is the wire format delivered verbatim to same-named-event
// subscribers.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Broker fans messages out to every attached hub. The optional store is the
// shared durable mirror used by StoreAndBroadcast.
type Broker struct {
	mu    sync.Mutex
	store *store.Store
	hubs  map[*Hub]struct{}
}

// NewBroker builds a broker over the given mirror. A nil store is allowed
// for pure pub/sub use; StoreAndBroadcast then fails.
func NewBroker(st *store.Store) *Broker {
	return &Broker{store: st, hubs: make(map[*Hub]struct{})}
}

// Store exposes the shared mirror, nil when the broker runs without one.
func (b *Broker) Store() *store.Store { return b.store }

// Attach creates a hub connected to this broker. The hub lives until its
// Close; each hub delivers on its own goroutine so one slow subscriber
// cannot stall the others.
func (b *Broker) Attach() *Hub {
	h := &Hub{
		broker:    b,
		listeners: make(map[string][]*Listener),
		inbox:     make(chan Message, 64),
		done:      make(chan struct{}),
	}
	b.mu.Lock()
	b.hubs[h] = struct{}{}
	b.mu.Unlock()
	go h.deliver()
	return h
}

// broadcast queues msg on every attached hub. Delivery is best-effort: a hub
// whose inbox is full misses the message.
func (b *Broker) broadcast(msg Message) {
	b.mu.Lock()
	hubs := make([]*Hub, 0, len(b.hubs))
	for h := range b.hubs {
		hubs = append(hubs, h)
	}
	b.mu.Unlock()
	for _, h := range hubs {
		select {
		case h.inbox <- msg:
		default:
		}
	}
}

func (b *Broker) detach(h *Hub) {
	b.mu.Lock()
	delete(b.hubs, h)
	b.mu.Unlock()
}

// allEvents is the reserved key for OnAll listeners.
const allEvents = "*"

// Listener is a registered handler. Off removes by listener identity, so the
// same function can be registered more than once and removed individually.
type Listener struct {
	event string
	fn    func(data any)
	raw   func(Message)
}

// Hub is one attachment to the broker, the analogue of one open tab.
type Hub struct {
	broker *Broker

	mu        sync.Mutex
	listeners map[string][]*Listener
	closed    bool

	inbox chan Message
	done  chan struct{}
}

// On registers fn for messages named event. Handlers for one event run in
// registration order; ordering across event names is unspecified.
func (h *Hub) On(event string, fn func(data any)) *Listener {
	l := &Listener{event: event, fn: fn}
	h.mu.Lock()
	h.listeners[event] = append(h.listeners[event], l)
	h.mu.Unlock()
	return l
}

// OnAll registers fn for every message regardless of event name, for bridges
// that forward the raw stream (e.g. the SSE endpoint). It runs after the
// named listeners for the same message.
func (h *Hub) OnAll(fn func(Message)) *Listener {
	l := &Listener{event: allEvents, raw: fn}
	h.mu.Lock()
	h.listeners[allEvents] = append(h.listeners[allEvents], l)
	h.mu.Unlock()
	return l
}

// Off removes a previously registered listener; a no-op when not found.
func (h *Hub) Off(l *Listener) {
	if l == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	ls := h.listeners[l.event]
	for i, cur := range ls {
		if cur == l {
			h.listeners[l.event] = append(ls[:i], ls[i+1:]...)
			return
		}
	}
}

// Emit asynchronously delivers data to every subscriber of event on every
// attached hub, this one included. No acknowledgement, no retry, and the
// message itself is not persisted. Must not be called after Close.
func (h *Hub) Emit(event string, data any) {
	h.broker.broadcast(Message{Type: event, Data: data})
	broadcastsTotal.WithLabelValues(event).Inc()
}

// StoreAndBroadcast durably writes value under key in the shared mirror,
// then emits a data_updated message carrying {key, value}.
func (h *Hub) StoreAndBroadcast(key string, value any) error {
	st := h.broker.store
	if st == nil {
		return errors.New("hub: broker has no store")
	}
	if err := st.Set(key, value); err != nil {
		return err
	}
	h.Emit(EventDataUpdated, map[string]any{"key": key, "value": value})
	return nil
}

// NotifyNewCustomer announces a newly captured lead.
func (h *Hub) NotifyNewCustomer(data any) {
	h.Emit(EventNewCustomer, data)
}

// NotifyCustomerUpdate announces a patch applied to an existing record.
func (h *Hub) NotifyCustomerUpdate(id string, patch map[string]any) {
	h.Emit(EventCustomerUpdated, map[string]any{"id": id, "patch": patch})
}

// AppendLead appends to the mirrored lead list, broadcasts the updated list,
// and announces the new lead.
func (h *Hub) AppendLead(lead types.Lead) error {
	st := h.broker.store
	if st == nil {
		return errors.New("hub: broker has no store")
	}
	leads, err := st.AppendLead(lead)
	if err != nil {
		return err
	}
	if err := h.StoreAndBroadcast(store.KeyLeads, leads); err != nil {
		return err
	}
	h.NotifyNewCustomer(lead)
	return nil
}

func (h *Hub) deliver() {
	for {
		select {
		case <-h.done:
			return
		case msg := <-h.inbox:
			h.dispatch(msg)
		}
	}
}

func (h *Hub) dispatch(msg Message) {
	h.mu.Lock()
	ls := append([]*Listener(nil), h.listeners[msg.Type]...)
	raw := append([]*Listener(nil), h.listeners[allEvents]...)
	h.mu.Unlock()
	for _, l := range ls {
		if l.fn != nil {
			l.fn(msg.Data)
		}
	}
	for _, l := range raw {
		l.raw(msg)
	}
}

// Close detaches the hub from the broker and stops delivery. Emit must not
// be called afterwards; messages already queued are dropped.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	h.mu.Unlock()
	h.broker.detach(h)
	close(h.done)
}
