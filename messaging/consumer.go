package messaging

import (
	"log"
)

// InboundHandler is called for each decoded inbound message.
type InboundHandler interface {
	HandleBidSubmit(env *Envelope, req BidSubmit)
	HandleBidWithdraw(env *Envelope, req BidWithdraw)
}

// Consumer subscribes to the bids topic and routes messages to the handler.
type Consumer struct {
	client  *Client
	topic   string
	handler InboundHandler
}

func NewConsumer(client *Client, topic string, handler InboundHandler) *Consumer {
	return &Consumer{
		client:  client,
		topic:   topic,
		handler: handler,
	}
}

func (c *Consumer) Start() error {
	return c.client.Subscribe(c.topic, c.handleMessage)
}

func (c *Consumer) handleMessage(payload []byte) {
	env, err := DecodeEnvelope(payload)
	if err != nil {
		log.Printf("consumer: decode error: %v", err)
		return
	}

	switch p := env.Payload.(type) {
	case BidSubmit:
		c.handler.HandleBidSubmit(env, p)
	case BidWithdraw:
		c.handler.HandleBidWithdraw(env, p)
	default:
		log.Printf("consumer: unhandled payload type: %T", p)
	}
}
