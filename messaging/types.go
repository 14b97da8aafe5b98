package messaging

import "time"

// Envelope is the typed message wrapper for all carrier <-> marketplace messages.
type Envelope struct {
	MsgType   string    `json:"msg_type"`
	MsgID     string    `json:"msg_id"`
	PartyID   string    `json:"party_id"`
	MarketID  string    `json:"market_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// --- Inbound payloads (carrier -> marketplace) ---

type BidSubmit struct {
	FreightBidID int64   `json:"freight_bid_id"`
	DriverID     int64   `json:"driver_id"`
	TruckID      int64   `json:"truck_id"`
	Amount       float64 `json:"amount"`
	Message      string  `json:"message"`
}

type BidWithdraw struct {
	DriverBidID int64  `json:"driver_bid_id"`
	Reason      string `json:"reason"`
}

// --- Outbound payloads (marketplace -> carriers) ---

type BidAckReply struct {
	FreightBidID int64 `json:"freight_bid_id"`
	DriverBidID  int64 `json:"driver_bid_id"`
}

type BidErrorReply struct {
	FreightBidID int64  `json:"freight_bid_id"`
	ErrorCode    string `json:"error_code"`
	Detail       string `json:"detail"`
}

type BidOpenedEvent struct {
	FreightBidID     int64  `json:"freight_bid_id"`
	BidNumber        string `json:"bid_number"`
	PickupLocation   string `json:"pickup_location,omitempty"`
	DeliveryLocation string `json:"delivery_location,omitempty"`
}

type BidAssignedEvent struct {
	FreightBidID int64 `json:"freight_bid_id"`
	DriverBidID  int64 `json:"driver_bid_id"`
	DriverID     int64 `json:"driver_id"`
	TruckID      int64 `json:"truck_id"`
}

type BidStatusEvent struct {
	FreightBidID int64  `json:"freight_bid_id"`
	BidNumber    string `json:"bid_number"`
	Status       string `json:"status"`
	Detail       string `json:"detail,omitempty"`
}

// Message type identifiers carried in the envelope.
const (
	MsgBidSubmit   = "bid_submit"
	MsgBidWithdraw = "bid_withdraw"

	MsgBidAck       = "bid_ack"
	MsgBidError     = "bid_error"
	MsgBidOpened    = "bid_opened"
	MsgBidAssigned  = "bid_assigned"
	MsgBidStatus    = "bid_status"
	MsgBidCancelled = "bid_cancelled"
	MsgBidDeleted   = "bid_deleted"
)
