package www

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"freightcore/engine"
)

type SSEEvent struct {
	Event string
	Data  string
}

type EventHub struct {
	mu        sync.RWMutex
	clients   map[chan SSEEvent]struct{}
	broadcast chan SSEEvent
	stopChan  chan struct{}
}

func NewEventHub() *EventHub {
	return &EventHub{
		clients:   make(map[chan SSEEvent]struct{}),
		broadcast: make(chan SSEEvent, 256),
		stopChan:  make(chan struct{}),
	}
}

func (h *EventHub) Start() {
	go h.run()
}

func (h *EventHub) Stop() {
	select {
	case h.stopChan <- struct{}{}:
	default:
	}
}

func (h *EventHub) run() {
	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case <-h.stopChan:
			return
		case evt := <-h.broadcast:
			h.mu.RLock()
			for ch := range h.clients {
				select {
				case ch <- evt:
				default:
					// drop if full
				}
			}
			h.mu.RUnlock()
		case <-keepalive.C:
			h.mu.RLock()
			for ch := range h.clients {
				select {
				case ch <- SSEEvent{Event: "keepalive", Data: "ping"}:
				default:
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *EventHub) Broadcast(event, data string) {
	select {
	case h.broadcast <- SSEEvent{Event: event, Data: data}:
	default:
	}
}

func (h *EventHub) AddClient() chan SSEEvent {
	ch := make(chan SSEEvent, 64)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *EventHub) RemoveClient(ch chan SSEEvent) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
	close(ch)
}

func (h *EventHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SetupEngineListeners wires engine events to SSE broadcasts so boards
// and dashboards can follow the bid lifecycle live.
func (h *EventHub) SetupEngineListeners(eng *engine.Engine) {
	eng.Events.SubscribeTypes(func(evt engine.Event) {
		ev := evt.Payload.(engine.BidCreatedEvent)
		h.Broadcast("bid-update", fmt.Sprintf(`{"type":"created","freight_bid_id":%d,"bid_number":"%s"}`, ev.FreightBidID, ev.BidNumber))
	}, engine.EventBidCreated)

	eng.Events.SubscribeTypes(func(evt engine.Event) {
		ev := evt.Payload.(engine.BidPublishedEvent)
		h.Broadcast("bid-update", fmt.Sprintf(`{"type":"published","freight_bid_id":%d,"bid_number":"%s"}`, ev.FreightBidID, ev.BidNumber))
	}, engine.EventBidPublished)

	eng.Events.SubscribeTypes(func(evt engine.Event) {
		ev := evt.Payload.(engine.DriverBidPlacedEvent)
		h.Broadcast("driver-bid-update", fmt.Sprintf(`{"type":"placed","driver_bid_id":%d,"freight_bid_id":%d,"driver_id":%d}`, ev.DriverBidID, ev.FreightBidID, ev.DriverID))
	}, engine.EventDriverBidPlaced)

	eng.Events.SubscribeTypes(func(evt engine.Event) {
		ev := evt.Payload.(engine.DriverBidWithdrawnEvent)
		h.Broadcast("driver-bid-update", fmt.Sprintf(`{"type":"withdrawn","driver_bid_id":%d,"freight_bid_id":%d}`, ev.DriverBidID, ev.FreightBidID))
	}, engine.EventDriverBidWithdrawn)

	eng.Events.SubscribeTypes(func(evt engine.Event) {
		ev := evt.Payload.(engine.DriverAssignedEvent)
		h.Broadcast("bid-update", fmt.Sprintf(`{"type":"assigned","freight_bid_id":%d,"driver_id":%d,"truck_id":%d}`, ev.FreightBidID, ev.DriverID, ev.TruckID))
	}, engine.EventDriverAssigned)

	eng.Events.SubscribeTypes(func(evt engine.Event) {
		ev := evt.Payload.(engine.BidStatusChangedEvent)
		h.Broadcast("bid-update", fmt.Sprintf(`{"type":"status_changed","freight_bid_id":%d,"new_status":"%s"}`, ev.FreightBidID, ev.NewStatus))
	}, engine.EventBidStatusChanged)

	eng.Events.SubscribeTypes(func(evt engine.Event) {
		ev := evt.Payload.(engine.BidCancelledEvent)
		h.Broadcast("bid-update", fmt.Sprintf(`{"type":"cancelled","freight_bid_id":%d,"reason":"%s"}`, ev.FreightBidID, ev.Reason))
	}, engine.EventBidCancelled)

	eng.Events.SubscribeTypes(func(evt engine.Event) {
		ev := evt.Payload.(engine.BidDeletedEvent)
		h.Broadcast("bid-update", fmt.Sprintf(`{"type":"deleted","freight_bid_id":%d}`, ev.FreightBidID))
	}, engine.EventBidDeleted)

	eng.Events.SubscribeTypes(func(evt engine.Event) {
		h.Broadcast("system-status", `{"messaging":"connected"}`)
	}, engine.EventMessagingConnected)

	eng.Events.SubscribeTypes(func(evt engine.Event) {
		h.Broadcast("system-status", `{"messaging":"disconnected"}`)
	}, engine.EventMessagingDisconnected)
}

// SSEHandler serves the SSE endpoint.
func (h *EventHub) SSEHandler(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := h.AddClient()
	defer h.RemoveClient(ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case evt := <-ch:
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Event, evt.Data); err != nil {
				log.Printf("sse: write error: %v", err)
				return
			}
			flusher.Flush()
		}
	}
}
