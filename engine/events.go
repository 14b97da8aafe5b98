package engine

const (
	EventBidCreated EventType = iota + 1
	EventBidPublished
	EventDriverBidPlaced
	EventDriverBidWithdrawn
	EventDriverAssigned
	EventBidStatusChanged
	EventBidCancelled
	EventBidDeleted
	EventMessagingConnected
	EventMessagingDisconnected
)

// --- Event payloads ---

type BidCreatedEvent struct {
	FreightBidID int64
	BidNumber    string
	CustomerID   int64
}

type BidPublishedEvent struct {
	FreightBidID int64
	BidNumber    string
}

type DriverBidPlacedEvent struct {
	DriverBidID  int64
	FreightBidID int64
	DriverID     int64
	Amount       float64
}

type DriverBidWithdrawnEvent struct {
	DriverBidID  int64
	FreightBidID int64
	DriverID     int64
}

type DriverAssignedEvent struct {
	FreightBidID int64
	DriverBidID  int64
	DriverID     int64
	TruckID      int64
}

type BidStatusChangedEvent struct {
	FreightBidID int64
	BidNumber    string
	OldStatus    string
	NewStatus    string
}

type BidCancelledEvent struct {
	FreightBidID int64
	BidNumber    string
	Reason       string
}

type BidDeletedEvent struct {
	FreightBidID int64
	BidNumber    string
}

type ConnectionEvent struct {
	Detail string
}
