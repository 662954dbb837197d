package handler

import (
	"github.com/qrdine/qrdine/internal/domain/order"
	"github.com/qrdine/qrdine/internal/relay"
)

// Event names pushed to connected kitchen and admin displays.
const (
	EventNewOrder           = "new-order"
	EventOrderStatusUpdated = "order-status-updated"
)

// RelayBroadcaster adapts the websocket hub to the order.Broadcaster
// contract, serializing orders into the same DTO shapes the REST endpoints
// return.
type RelayBroadcaster struct {
	hub *relay.Hub
}

// NewRelayBroadcaster wraps a hub.
func NewRelayBroadcaster(hub *relay.Hub) *RelayBroadcaster {
	return &RelayBroadcaster{hub: hub}
}

// OrderCreated pushes the composed order, lines included.
func (b *RelayBroadcaster) OrderCreated(o *order.Order) {
	b.hub.Broadcast(EventNewOrder, toOrderDTO(*o))
}

// OrderStatusUpdated pushes the order header only.
func (b *RelayBroadcaster) OrderStatusUpdated(o *order.Order) {
	b.hub.Broadcast(EventOrderStatusUpdated, toOrderHeaderDTO(*o))
}
