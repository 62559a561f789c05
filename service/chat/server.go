package chat

import (
	"context"
	"time"

	"DMProject/logger"
	"DMProject/module/chat/model"
	"DMProject/module/chat/relay"
	"DMProject/service/natsx"
	"DMProject/service/storage"
	"DMProject/tools/security"
)

// Server is the gateway side of the relay: it owns the connection registry,
// terminates the live-session protocol and implements relay.Pusher for live
// delivery.
type Server struct {
	gatewayID     string
	registry      *Registry
	relay         *relay.Relay
	jwtOpts       security.Options
	sendQueueSize int

	presenceTTL     time.Duration
	presenceEnabled bool
	deliver         *natsx.DeliverRelay // nil when NATS is unconfigured
}

type ServerConf struct {
	GatewayID       string
	JWT             security.Options
	SendQueueSize   int           // per-connection outbound queue
	PresenceTTL     time.Duration // redis presence key TTL
	PresenceEnabled bool
}

func (c *ServerConf) norm() {
	if c.SendQueueSize <= 0 {
		c.SendQueueSize = 256
	}
	if c.PresenceTTL <= 0 {
		c.PresenceTTL = 2 * time.Minute
	}
}

func NewServer(conf ServerConf) *Server {
	conf.norm()
	return &Server{
		gatewayID:       conf.GatewayID,
		registry:        NewRegistry(),
		jwtOpts:         conf.JWT,
		sendQueueSize:   conf.SendQueueSize,
		presenceTTL:     conf.PresenceTTL,
		presenceEnabled: conf.PresenceEnabled,
	}
}

// SetRelay wires the message relay; the relay in turn uses this server as
// its pusher.
func (s *Server) SetRelay(r *relay.Relay) { s.relay = r }

// SetDeliverRelay enables cross-gateway delivery over NATS.
func (s *Server) SetDeliverRelay(d *natsx.DeliverRelay) { s.deliver = d }

func (s *Server) GatewayID() string { return s.gatewayID }
func (s *Server) Registry() *Registry { return s.registry }

// Push implements relay.Pusher: best-effort, bounded live delivery of a
// persisted message. A recipient on this gateway gets the frame enqueued;
// one on another gateway gets the message forwarded over NATS. Every
// failure is logged and swallowed.
func (s *Server) Push(recipientID string, m *model.Message) bool {
	if c, ok := s.registry.Lookup(recipientID); ok {
		if c.Enqueue(EncodeFrame(FrameNewMsg, m)) {
			return true
		}
		logger.Infof("[gateway] send queue full, drop newMsg id=%d user=%s conn=%s", m.ID, recipientID, c.ConnID)
		return false
	}
	return s.pushRemote(recipientID, m)
}

func (s *Server) pushRemote(recipientID string, m *model.Message) bool {
	if !s.presenceEnabled || s.deliver == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	gw, online, err := storage.PresenceLookup(ctx, recipientID)
	if err != nil {
		logger.Warnf("[gateway] presence lookup failed user=%s: %v", recipientID, err)
		return false
	}
	if !online || gw == s.gatewayID {
		return false
	}
	if err := s.deliver.Publish(gw, m); err != nil {
		logger.Warnf("[gateway] cross-gateway publish failed user=%s gw=%s: %v", recipientID, gw, err)
		return false
	}
	return true
}

// DeliverLocal pushes a message forwarded from another gateway to a locally
// connected recipient; wire it as the DeliverRelay subscribe handler.
func (s *Server) DeliverLocal(m *model.Message) {
	c, ok := s.registry.Lookup(m.RecipientID)
	if !ok {
		logger.Debugf("[gateway] forwarded message id=%d recipient=%s not here anymore", m.ID, m.RecipientID)
		return
	}
	if !c.Enqueue(EncodeFrame(FrameNewMsg, m)) {
		logger.Infof("[gateway] send queue full, drop forwarded id=%d user=%s", m.ID, m.RecipientID)
	}
}

func (s *Server) presenceOnline(userID string) {
	if !s.presenceEnabled {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := storage.PresenceOnline(ctx, userID, s.gatewayID, s.presenceTTL); err != nil {
		logger.Warnf("[gateway] presence online failed user=%s: %v", userID, err)
	}
}

func (s *Server) presenceOffline(userID string) {
	if !s.presenceEnabled {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := storage.PresenceOffline(ctx, userID); err != nil {
		logger.Warnf("[gateway] presence offline failed user=%s: %v", userID, err)
	}
}
