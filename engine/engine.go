package engine

import (
	"log"
	"time"

	"freightcore/config"
	"freightcore/match"
	"freightcore/messaging"
	"freightcore/refdata"
	"freightcore/store"
)

type LogFunc func(format string, args ...any)

type Config struct {
	AppConfig  *config.Config
	ConfigPath string
	DB         *store.DB
	RefData    *refdata.Manager
	MsgClient  *messaging.Client
	LogFunc    LogFunc
}

// Engine owns the wiring: the match engine, the event bus, outbox
// fanout, and messaging health.
type Engine struct {
	cfg          *config.Config
	configPath   string
	db           *store.DB
	refData      *refdata.Manager
	msgClient    *messaging.Client
	matcher      *match.Engine
	Events       *EventBus
	logFn        LogFunc
	stopChan     chan struct{}
	msgConnected bool
}

func New(c Config) *Engine {
	logFn := c.LogFunc
	if logFn == nil {
		logFn = log.Printf
	}
	return &Engine{
		cfg:        c.AppConfig,
		configPath: c.ConfigPath,
		db:         c.DB,
		refData:    c.RefData,
		msgClient:  c.MsgClient,
		Events:     NewEventBus(),
		logFn:      logFn,
		stopChan:   make(chan struct{}),
	}
}

func (e *Engine) Start() {
	retry := store.DefaultRetryPolicy(e.cfg.Matching.RetryAttempts, e.cfg.Matching.RetryBackoff)
	e.matcher = match.NewEngine(e.db, e.refData, &matchEmitter{bus: e.Events}, retry)

	e.wireEventHandlers()
	e.checkConnectionStatus()
	go e.connectionHealthLoop()

	e.logFn("engine: started")
}

func (e *Engine) Stop() {
	select {
	case e.stopChan <- struct{}{}:
	default:
	}
	e.logFn("engine: stopped")
}

// Accessors
func (e *Engine) DB() *store.DB                 { return e.db }
func (e *Engine) AppConfig() *config.Config     { return e.cfg }
func (e *Engine) ConfigPath() string            { return e.configPath }
func (e *Engine) Matcher() *match.Engine        { return e.matcher }
func (e *Engine) RefData() *refdata.Manager     { return e.refData }
func (e *Engine) MsgClient() *messaging.Client  { return e.msgClient }

func (e *Engine) checkConnectionStatus() {
	if e.msgClient == nil {
		return
	}
	if e.msgClient.IsConnected() {
		if !e.msgConnected {
			e.msgConnected = true
			e.Events.Emit(Event{Type: EventMessagingConnected, Payload: ConnectionEvent{Detail: "messaging connected"}})
		}
	} else {
		if e.msgConnected {
			e.msgConnected = false
			e.Events.Emit(Event{Type: EventMessagingDisconnected, Payload: ConnectionEvent{Detail: "messaging disconnected"}})
		}
	}
}

func (e *Engine) connectionHealthLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-e.stopChan:
			return
		case <-ticker.C:
			e.checkConnectionStatus()
		}
	}
}
