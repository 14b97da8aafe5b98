package engine

import (
	"fmt"
	"log"

	"freightcore/messaging"
	"freightcore/store"
)

// driverParty is the carrier-topic party identifier for a driver.
func driverParty(driverID int64) string {
	return fmt.Sprintf("driver-%d", driverID)
}

// enqueue wraps a payload in an envelope and writes it to the outbox.
// The drainer publishes it once messaging is up, so events survive a
// broker outage.
func (e *Engine) enqueue(topic, msgType, partyID string, payload any) {
	env := messaging.NewEnvelope(msgType, partyID, e.cfg.Messaging.MarketID, payload)
	data, err := env.Encode()
	if err != nil {
		log.Printf("engine: encode %s: %v", msgType, err)
		return
	}
	if err := e.db.EnqueueOutbox(topic, data, msgType, partyID); err != nil {
		log.Printf("engine: enqueue %s: %v", msgType, err)
	}
}

func (e *Engine) wireEventHandlers() {
	// New freight bids: audit only, nothing is broadcast until publish.
	e.Events.SubscribeTypes(func(evt Event) {
		ev := evt.Payload.(BidCreatedEvent)
		e.logFn("engine: freight bid %d (%s) created by customer %d", ev.FreightBidID, ev.BidNumber, ev.CustomerID)
		e.db.AppendAudit(store.AuditFreightBid, ev.FreightBidID, "created", "", ev.BidNumber, "system")
	}, EventBidCreated)

	// Published bids are announced to all carriers on the bids topic.
	e.Events.SubscribeTypes(func(evt Event) {
		ev := evt.Payload.(BidPublishedEvent)
		e.logFn("engine: freight bid %d (%s) open for bidding", ev.FreightBidID, ev.BidNumber)
		e.db.AppendAudit(store.AuditFreightBid, ev.FreightBidID, "published", "", ev.BidNumber, "system")

		opened := messaging.BidOpenedEvent{FreightBidID: ev.FreightBidID, BidNumber: ev.BidNumber}
		if b, err := e.db.GetFreightBid(ev.FreightBidID); err == nil {
			opened.PickupLocation = b.PickupLocation
			opened.DeliveryLocation = b.DeliveryLocation
		}
		e.enqueue(e.cfg.Messaging.BidsTopic, messaging.MsgBidOpened, "", opened)
	}, EventBidPublished)

	e.Events.SubscribeTypes(func(evt Event) {
		ev := evt.Payload.(DriverBidPlacedEvent)
		e.logFn("engine: driver %d bid %.2f on freight bid %d", ev.DriverID, ev.Amount, ev.FreightBidID)
		e.db.AppendAudit(store.AuditDriverBid, ev.DriverBidID, "placed", "", fmt.Sprintf("freight_bid=%d amount=%.2f", ev.FreightBidID, ev.Amount), "system")
	}, EventDriverBidPlaced)

	e.Events.SubscribeTypes(func(evt Event) {
		ev := evt.Payload.(DriverBidWithdrawnEvent)
		e.db.AppendAudit(store.AuditDriverBid, ev.DriverBidID, "withdrawn", "", fmt.Sprintf("freight_bid=%d", ev.FreightBidID), "system")
	}, EventDriverBidWithdrawn)

	// Assignment: tell the winning driver directly on its carrier topic.
	e.Events.SubscribeTypes(func(evt Event) {
		ev := evt.Payload.(DriverAssignedEvent)
		e.logFn("engine: driver %d assigned to freight bid %d (driver bid %d)", ev.DriverID, ev.FreightBidID, ev.DriverBidID)
		e.db.AppendAudit(store.AuditFreightBid, ev.FreightBidID, "assigned", "", fmt.Sprintf("driver=%d truck=%d", ev.DriverID, ev.TruckID), "system")

		party := driverParty(ev.DriverID)
		e.enqueue(messaging.CarrierTopic(e.cfg.Messaging.CarrierTopicPrefix, party), messaging.MsgBidAssigned, party,
			messaging.BidAssignedEvent{
				FreightBidID: ev.FreightBidID,
				DriverBidID:  ev.DriverBidID,
				DriverID:     ev.DriverID,
				TruckID:      ev.TruckID,
			})
	}, EventDriverAssigned)

	// Every status change goes out as a broadcast for pollers and boards.
	e.Events.SubscribeTypes(func(evt Event) {
		ev := evt.Payload.(BidStatusChangedEvent)
		e.db.AppendAudit(store.AuditFreightBid, ev.FreightBidID, "status", ev.OldStatus, ev.NewStatus, "system")
		e.enqueue(e.cfg.Messaging.BidsTopic, messaging.MsgBidStatus, "",
			messaging.BidStatusEvent{
				FreightBidID: ev.FreightBidID,
				BidNumber:    ev.BidNumber,
				Status:       ev.NewStatus,
			})
	}, EventBidStatusChanged)

	e.Events.SubscribeTypes(func(evt Event) {
		ev := evt.Payload.(BidCancelledEvent)
		e.logFn("engine: freight bid %d cancelled: %s", ev.FreightBidID, ev.Reason)
		e.db.AppendAudit(store.AuditFreightBid, ev.FreightBidID, "cancelled", "", ev.Reason, "system")
		e.enqueue(e.cfg.Messaging.BidsTopic, messaging.MsgBidCancelled, "",
			messaging.BidStatusEvent{
				FreightBidID: ev.FreightBidID,
				BidNumber:    ev.BidNumber,
				Status:       "cancelled",
				Detail:       ev.Reason,
			})
	}, EventBidCancelled)

	e.Events.SubscribeTypes(func(evt Event) {
		ev := evt.Payload.(BidDeletedEvent)
		e.db.AppendAudit(store.AuditFreightBid, ev.FreightBidID, "deleted", ev.BidNumber, "", "system")
		e.enqueue(e.cfg.Messaging.BidsTopic, messaging.MsgBidDeleted, "",
			messaging.BidStatusEvent{
				FreightBidID: ev.FreightBidID,
				BidNumber:    ev.BidNumber,
				Status:       "deleted",
			})
	}, EventBidDeleted)
}
