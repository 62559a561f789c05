package chat

import (
	"encoding/json"
	"testing"

	"DMProject/module/chat/model"
	"DMProject/tools/security"
)

func newTestServer() *Server {
	return NewServer(ServerConf{
		GatewayID:     "gw_test",
		JWT:           security.DefaultOptions([]byte("test")),
		SendQueueSize: 8,
	})
}

func drainFrame(t *testing.T, c *Client) (string, json.RawMessage) {
	t.Helper()
	select {
	case raw := <-c.Send:
		var f struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &f); err != nil {
			t.Fatalf("bad frame %q: %v", raw, err)
		}
		return f.Type, f.Data
	default:
		t.Fatal("no frame enqueued")
		return "", nil
	}
}

func TestPushOnlineRecipient(t *testing.T) {
	s := newTestServer()
	h := newTestClient("H")
	s.Registry().Register("9", h)

	m := &model.Message{ID: 101, SenderID: "7", RecipientID: "9", Payload: "hi", SentAt: 1}
	if !s.Push("9", m) {
		t.Fatal("push to online recipient reported failure")
	}

	typ, data := drainFrame(t, h)
	if typ != FrameNewMsg {
		t.Fatalf("frame type = %q", typ)
	}
	var got model.Message
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got != *m {
		t.Fatalf("pushed message = %+v, want %+v", got, *m)
	}
}

func TestPushOfflineRecipient(t *testing.T) {
	s := newTestServer()
	m := &model.Message{ID: 102, SenderID: "7", RecipientID: "9", Payload: "hi"}
	if s.Push("9", m) {
		t.Fatal("push to offline recipient reported success")
	}
}

func TestPushFullQueueDoesNotBlock(t *testing.T) {
	s := newTestServer()
	c := NewClient("H", nil, 1)
	s.Registry().Register("9", c)

	if !c.Enqueue([]byte("{}")) {
		t.Fatal("priming enqueue failed")
	}
	// queue is full and no writer is draining; the push must return
	// immediately as a failure
	if s.Push("9", &model.Message{ID: 103, RecipientID: "9"}) {
		t.Fatal("push into full queue reported success")
	}
}

func TestPushClosedClient(t *testing.T) {
	s := newTestServer()
	c := newTestClient("H")
	s.Registry().Register("9", c)
	c.Close()

	if s.Push("9", &model.Message{ID: 104, RecipientID: "9"}) {
		t.Fatal("push to closed client reported success")
	}
}

func TestDeliverLocal(t *testing.T) {
	s := newTestServer()
	c := newTestClient("H")
	s.Registry().Register("9", c)

	s.DeliverLocal(&model.Message{ID: 105, SenderID: "7", RecipientID: "9", Payload: "fwd"})
	typ, _ := drainFrame(t, c)
	if typ != FrameNewMsg {
		t.Fatalf("frame type = %q", typ)
	}

	// recipient not here: swallowed
	s.DeliverLocal(&model.Message{ID: 106, RecipientID: "404"})
}

func loginFrame(t *testing.T, s *Server, userID string) *Frame {
	t.Helper()
	token, _, err := security.Generate(s.jwtOpts, userID, "u"+userID, model.RoleMember)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return &Frame{Type: FrameLogin, Data: map[string]any{"token": token}}
}

func TestReloginReleasesOldIdentity(t *testing.T) {
	s := newTestServer()
	c := newTestClient("c1")

	caller := s.handleLogin(c, loginFrame(t, s, "A"))
	if caller.ID != "A" {
		t.Fatalf("first login identity = %q", caller.ID)
	}
	drainFrame(t, c) // loginOk

	caller = s.handleLogin(c, loginFrame(t, s, "B"))
	if caller.ID != "B" {
		t.Fatalf("second login identity = %q", caller.ID)
	}

	if _, ok := s.Registry().Lookup("A"); ok {
		t.Fatal("old identity still registered after relogin")
	}
	got, ok := s.Registry().Lookup("B")
	if !ok || got != c {
		t.Fatal("new identity not registered to the connection")
	}

	// a push for the old identity must not land on the new user's socket
	if s.Push("A", &model.Message{ID: 107, RecipientID: "A"}) {
		t.Fatal("push to released identity reported success")
	}
}

func TestReloginSameIdentityKeepsRegistration(t *testing.T) {
	s := newTestServer()
	c := newTestClient("c1")

	s.handleLogin(c, loginFrame(t, s, "A"))
	drainFrame(t, c)
	s.handleLogin(c, loginFrame(t, s, "A"))

	got, ok := s.Registry().Lookup("A")
	if !ok || got != c {
		t.Fatal("identity lost after logging in again on the same connection")
	}
	if s.Registry().Count() != 1 {
		t.Fatalf("registry count = %d", s.Registry().Count())
	}
}
