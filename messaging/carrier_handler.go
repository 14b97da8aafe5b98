package messaging

import (
	"log"

	"freightcore/match"
)

// CarrierHandler processes inbound carrier messages by driving the match
// engine, and answers each sender on its own carrier topic.
type CarrierHandler struct {
	engine      *match.Engine
	client      *Client
	topicPrefix string
	marketID    string
}

func NewCarrierHandler(engine *match.Engine, client *Client, topicPrefix, marketID string) *CarrierHandler {
	return &CarrierHandler{
		engine:      engine,
		client:      client,
		topicPrefix: topicPrefix,
		marketID:    marketID,
	}
}

func (h *CarrierHandler) HandleBidSubmit(env *Envelope, req BidSubmit) {
	bid, err := h.engine.PlaceDriverBid(&match.DriverBidRequest{
		FreightBidID: req.FreightBidID,
		DriverID:     req.DriverID,
		TruckID:      req.TruckID,
		Amount:       req.Amount,
		Message:      req.Message,
	})
	if err != nil {
		log.Printf("carrier: bid_submit from %s on freight bid %d: %v", env.PartyID, req.FreightBidID, err)
		h.sendError(env.PartyID, req.FreightBidID, err)
		return
	}
	h.reply(env.PartyID, MsgBidAck, BidAckReply{
		FreightBidID: bid.FreightBidID,
		DriverBidID:  bid.ID,
	})
}

func (h *CarrierHandler) HandleBidWithdraw(env *Envelope, req BidWithdraw) {
	if err := h.engine.WithdrawDriverBid(req.DriverBidID); err != nil {
		log.Printf("carrier: bid_withdraw %d from %s: %v", req.DriverBidID, env.PartyID, err)
		h.sendError(env.PartyID, 0, err)
		return
	}
	h.reply(env.PartyID, MsgBidAck, BidAckReply{DriverBidID: req.DriverBidID})
}

func (h *CarrierHandler) sendError(partyID string, freightBidID int64, cause error) {
	code := match.CodeOf(cause)
	detail := ""
	if e := match.AsError(cause); e != nil {
		detail = e.Message
	}
	h.reply(partyID, MsgBidError, BidErrorReply{
		FreightBidID: freightBidID,
		ErrorCode:    code,
		Detail:       detail,
	})
}

func (h *CarrierHandler) reply(partyID, msgType string, payload any) {
	env := NewEnvelope(msgType, partyID, h.marketID, payload)
	topic := CarrierTopic(h.topicPrefix, partyID)
	if err := h.client.PublishEnvelope(topic, env); err != nil {
		log.Printf("carrier: reply %s to %s: %v", msgType, partyID, err)
	}
}
