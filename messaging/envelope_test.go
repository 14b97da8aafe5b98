package messaging

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDecodeBidSubmit(t *testing.T) {
	data := []byte(`{
		"msg_type": "bid_submit",
		"msg_id": "m-1",
		"party_id": "carrier-7",
		"market_id": "default",
		"payload": {
			"freight_bid_id": 42,
			"driver_id": 3,
			"truck_id": 9,
			"amount": 450.5,
			"message": "available today"
		}
	}`)

	env, err := DecodeEnvelope(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.MsgType != MsgBidSubmit || env.PartyID != "carrier-7" {
		t.Errorf("env = %+v", env)
	}
	p, ok := env.Payload.(BidSubmit)
	if !ok {
		t.Fatalf("payload type = %T, want BidSubmit", env.Payload)
	}
	if p.FreightBidID != 42 || p.DriverID != 3 || p.TruckID != 9 || p.Amount != 450.5 {
		t.Errorf("payload = %+v", p)
	}
}

func TestDecodeBidWithdraw(t *testing.T) {
	data := []byte(`{"msg_type":"bid_withdraw","msg_id":"m-2","party_id":"carrier-7","payload":{"driver_bid_id":11,"reason":"truck broke down"}}`)

	env, err := DecodeEnvelope(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	p, ok := env.Payload.(BidWithdraw)
	if !ok {
		t.Fatalf("payload type = %T, want BidWithdraw", env.Payload)
	}
	if p.DriverBidID != 11 || p.Reason != "truck broke down" {
		t.Errorf("payload = %+v", p)
	}
}

func TestDecodeUnknownMsgType(t *testing.T) {
	_, err := DecodeEnvelope([]byte(`{"msg_type":"order_request","payload":{}}`))
	if err == nil || !strings.Contains(err.Error(), "unknown msg_type") {
		t.Errorf("err = %v, want unknown msg_type", err)
	}
}

func TestDecodeMalformed(t *testing.T) {
	if _, err := DecodeEnvelope([]byte(`not json`)); err == nil {
		t.Error("expected error for malformed envelope")
	}
	if _, err := DecodeEnvelope([]byte(`{"msg_type":"bid_submit","payload":"not an object"}`)); err == nil {
		t.Error("expected error for malformed payload")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	env := NewEnvelope(MsgBidAssigned, "carrier-7", "default", BidAssignedEvent{
		FreightBidID: 42, DriverBidID: 11, DriverID: 3, TruckID: 9,
	})
	if env.MsgID == "" {
		t.Fatal("MsgID should be assigned")
	}
	data, err := env.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var raw RawEnvelope
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if raw.MsgType != MsgBidAssigned || raw.PartyID != "carrier-7" || raw.MarketID != "default" {
		t.Errorf("raw = %+v", raw)
	}
	var p BidAssignedEvent
	if err := json.Unmarshal(raw.Payload, &p); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if p.DriverID != 3 || p.TruckID != 9 {
		t.Errorf("payload = %+v", p)
	}
}

func TestCarrierTopic(t *testing.T) {
	if got := CarrierTopic("freight.carrier", "carrier-7"); got != "freight.carrier/carrier-7" {
		t.Errorf("topic = %q", got)
	}
}
