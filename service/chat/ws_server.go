package chat

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"DMProject/logger"
	"DMProject/module/chat/model"
	"DMProject/tools/errs"
	"DMProject/tools/ids"
	"DMProject/tools/safe"
	"DMProject/tools/security"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const sendTimeout = 10 * time.Second

// HandleWS terminates one live session. One read loop here, one writer
// goroutine in the client; registry membership lasts from a successful
// login frame until teardown.
func (s *Server) HandleWS(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Infof("[HandleWS] upgrade websocket error: %v", err)
		return
	}

	client := NewClient(ids.GenerateString(), ws, s.sendQueueSize)
	safe.SafeGo(client.WritePump)

	var caller model.Identity
	defer func() {
		s.teardown(client)
	}()

	for {
		mt, data, rerr := ws.ReadMessage()
		if rerr != nil {
			if websocket.IsCloseError(rerr,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Infof("[WS] peer closed conn=%s err=%v", client.ConnID, rerr)
			} else if ne, ok := rerr.(net.Error); ok && ne.Timeout() {
				logger.Infof("[WS] read timeout conn=%s err=%v", client.ConnID, rerr)
			} else {
				logger.Infof("[WS] read err conn=%s err=%v", client.ConnID, rerr)
			}
			return
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}

		f, perr := ParseFrameJSON(data)
		if perr != nil {
			sample := data
			if len(sample) > 256 {
				sample = sample[:256]
			}
			logger.Infof("[WS] parse frame err conn=%s err=%v sample=%q", client.ConnID, perr, sample)
			continue
		}

		switch f.Type {
		case FrameLogin:
			caller = s.handleLogin(client, f)
		case FrameMessageTo:
			s.handleMessageTo(client, caller, f)
		default:
			logger.Infof("[WS] no handler for frame type=%q conn=%s", f.Type, client.ConnID)
		}
	}
}

// handleLogin verifies the credential and registers the connection under
// the verified identity, superseding any prior registration.
func (s *Server) handleLogin(client *Client, f *Frame) model.Identity {
	var ld LoginData
	if err := f.DecodeData(&ld); err != nil || ld.Token == "" {
		client.Enqueue(errorFrame(errs.ErrArgs.WrapMsg("login requires token")))
		return model.Identity{}
	}
	claims, err := security.Verify(s.jwtOpts, ld.Token)
	if err != nil {
		logger.Infof("[WS] login rejected conn=%s: %v", client.ConnID, err)
		client.Enqueue(errorFrame(err))
		return model.Identity{}
	}

	caller := model.Identity{ID: claims.UserID, Username: claims.Username, Role: claims.Role}
	// re-login as a different user must not leave the old identity mapped
	// to this connection, or its pushes would reach the new user's socket
	if client.UserID != "" && client.UserID != caller.ID {
		if s.registry.Deregister(client.UserID, client) {
			s.presenceOffline(client.UserID)
			logger.Infof("[WS] user=%s released conn=%s on relogin", client.UserID, client.ConnID)
		}
	}
	client.UserID = caller.ID
	if prev := s.registry.Register(caller.ID, client); prev != nil {
		// superseded connection stays alive until it disconnects itself
		logger.Infof("[WS] user=%s superseded conn=%s by conn=%s", caller.ID, prev.ConnID, client.ConnID)
	}
	s.presenceOnline(caller.ID)

	logger.Infof("[WS] user=%s registered conn=%s", caller.ID, client.ConnID)
	client.Enqueue(EncodeFrame(FrameLoginOK, map[string]string{"userId": caller.ID}))
	return caller
}

// handleMessageTo runs the full send path for one messageTo frame. The
// persist uses its own context: the sender dropping mid-send does not
// cancel it.
func (s *Server) handleMessageTo(client *Client, caller model.Identity, f *Frame) {
	if !caller.Authenticated() {
		client.Enqueue(errorFrame(errs.ErrTokenInvalid.WrapMsg("login first")))
		return
	}
	var md MessageToData
	if err := f.DecodeData(&md); err != nil {
		client.Enqueue(errorFrame(errs.ErrArgs.WrapMsg("bad messageTo payload")))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	m, err := s.relay.Send(ctx, caller, md.SenderID, md.RecipientID, md.Payload)
	if err != nil {
		client.Enqueue(errorFrame(err))
		return
	}
	client.Enqueue(EncodeFrame(FrameSendOK, m))
}

// teardown deregisters the connection and stops its writer. Presence is
// cleared only when this connection still owned the registration, so a
// superseded connection's exit cannot mark the live one offline.
func (s *Server) teardown(client *Client) {
	if client.UserID != "" {
		if s.registry.Deregister(client.UserID, client) {
			s.presenceOffline(client.UserID)
			logger.Infof("[WS] user=%s deregistered conn=%s", client.UserID, client.ConnID)
		}
	}
	client.Close()
}
