package engine

// matchEmitter bridges the match package's emitter interface to the EventBus.
type matchEmitter struct {
	bus *EventBus
}

func (e *matchEmitter) EmitBidCreated(freightBidID int64, bidNumber string, customerID int64) {
	e.bus.Emit(Event{Type: EventBidCreated, Payload: BidCreatedEvent{
		FreightBidID: freightBidID,
		BidNumber:    bidNumber,
		CustomerID:   customerID,
	}})
}

func (e *matchEmitter) EmitBidPublished(freightBidID int64, bidNumber string) {
	e.bus.Emit(Event{Type: EventBidPublished, Payload: BidPublishedEvent{
		FreightBidID: freightBidID,
		BidNumber:    bidNumber,
	}})
}

func (e *matchEmitter) EmitDriverBidPlaced(driverBidID, freightBidID, driverID int64, amount float64) {
	e.bus.Emit(Event{Type: EventDriverBidPlaced, Payload: DriverBidPlacedEvent{
		DriverBidID:  driverBidID,
		FreightBidID: freightBidID,
		DriverID:     driverID,
		Amount:       amount,
	}})
}

func (e *matchEmitter) EmitDriverBidWithdrawn(driverBidID, freightBidID, driverID int64) {
	e.bus.Emit(Event{Type: EventDriverBidWithdrawn, Payload: DriverBidWithdrawnEvent{
		DriverBidID:  driverBidID,
		FreightBidID: freightBidID,
		DriverID:     driverID,
	}})
}

func (e *matchEmitter) EmitDriverAssigned(freightBidID, driverBidID, driverID, truckID int64) {
	e.bus.Emit(Event{Type: EventDriverAssigned, Payload: DriverAssignedEvent{
		FreightBidID: freightBidID,
		DriverBidID:  driverBidID,
		DriverID:     driverID,
		TruckID:      truckID,
	}})
}

func (e *matchEmitter) EmitBidStatusChanged(freightBidID int64, bidNumber, from, to string) {
	e.bus.Emit(Event{Type: EventBidStatusChanged, Payload: BidStatusChangedEvent{
		FreightBidID: freightBidID,
		BidNumber:    bidNumber,
		OldStatus:    from,
		NewStatus:    to,
	}})
}

func (e *matchEmitter) EmitBidCancelled(freightBidID int64, bidNumber, reason string) {
	e.bus.Emit(Event{Type: EventBidCancelled, Payload: BidCancelledEvent{
		FreightBidID: freightBidID,
		BidNumber:    bidNumber,
		Reason:       reason,
	}})
}

func (e *matchEmitter) EmitBidDeleted(freightBidID int64, bidNumber string) {
	e.bus.Emit(Event{Type: EventBidDeleted, Payload: BidDeletedEvent{
		FreightBidID: freightBidID,
		BidNumber:    bidNumber,
	}})
}
