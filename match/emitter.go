package match

// Emitter is the interface adapters must satisfy to bridge matching events to the engine.
type Emitter interface {
	EmitBidCreated(freightBidID int64, bidNumber string, customerID int64)
	EmitBidPublished(freightBidID int64, bidNumber string)
	EmitDriverBidPlaced(driverBidID, freightBidID, driverID int64, amount float64)
	EmitDriverBidWithdrawn(driverBidID, freightBidID, driverID int64)
	EmitDriverAssigned(freightBidID, driverBidID, driverID, truckID int64)
	EmitBidStatusChanged(freightBidID int64, bidNumber, from, to string)
	EmitBidCancelled(freightBidID int64, bidNumber, reason string)
	EmitBidDeleted(freightBidID int64, bidNumber string)
}
