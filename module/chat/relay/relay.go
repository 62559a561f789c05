package relay

import (
	"context"
	"errors"
	"time"

	"DMProject/logger"
	"DMProject/module/chat/model"
	"DMProject/tools/errs"
)

// Store is the durable message persistence collaborator. Each call is a
// single independent request; the relay never spans a transaction across
// persistence and push.
type Store interface {
	// Insert persists the message and assigns its id. The returned message
	// is the persisted record.
	Insert(ctx context.Context, m *model.Message) (*model.Message, error)
	// GetByID returns errs.ErrRecordNotFound when the id is absent.
	GetByID(ctx context.Context, id int64) (*model.Message, error)
	Delete(ctx context.Context, id int64) error
	// Conversation returns both directions between the two users, ascending
	// by sent time, ties broken by id.
	Conversation(ctx context.Context, userA, userB string) ([]*model.Message, error)
	All(ctx context.Context) ([]*model.Message, error)
}

// Pusher attempts best-effort live delivery of a persisted message. The
// attempt must be bounded: a push that would block is a delivery failure,
// not a stall. The return value is informational only.
type Pusher interface {
	Push(recipientID string, m *model.Message) bool
}

// Relay orchestrates a send: authorize, persist, then push to the
// recipient's live connection if one exists. Send success is defined solely
// by persistence succeeding.
type Relay struct {
	store  Store
	pusher Pusher // nil disables live delivery
}

func NewRelay(store Store, pusher Pusher) *Relay {
	return &Relay{store: store, pusher: pusher}
}

// Send persists a message and best-effort delivers it live.
func (r *Relay) Send(ctx context.Context, caller model.Identity, senderID, recipientID, payload string) (*model.Message, error) {
	if !caller.Authenticated() {
		return nil, errs.ErrTokenInvalid.WrapMsg("caller not authenticated")
	}
	if senderID == "" || recipientID == "" {
		return nil, errs.ErrArgs.WrapMsg("senderId/recipientId required")
	}
	if !CanSend(caller, senderID) {
		return nil, errs.ErrNoPermission.WrapMsg("send as another user", "caller", caller.ID, "sender", senderID)
	}

	m := &model.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Payload:     payload,
		SentAt:      time.Now().UnixMilli(),
	}
	stored, err := r.store.Insert(ctx, m)
	if err != nil {
		return nil, errs.ErrDatabase.WrapMsg("persist message", "sender", senderID, "recipient", recipientID, "err", err)
	}

	// Live delivery is an optimization, never part of the call's outcome.
	if r.pusher != nil {
		if r.pusher.Push(recipientID, stored) {
			logger.Debugf("[relay] delivered live id=%d recipient=%s", stored.ID, recipientID)
		} else {
			logger.Infof("[relay] delivery skipped id=%d recipient=%s", stored.ID, recipientID)
		}
	}
	return stored, nil
}

// Delete removes a message by id. Absent ids are NotFound; only the sender
// or an admin may delete. No live notification is sent to the other party.
func (r *Relay) Delete(ctx context.Context, caller model.Identity, id int64) (bool, error) {
	if !caller.Authenticated() {
		return false, errs.ErrTokenInvalid.WrapMsg("caller not authenticated")
	}
	m, err := r.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return false, err
		}
		return false, errs.ErrDatabase.WrapMsg("fetch message", "id", id, "err", err)
	}
	if !CanDelete(caller, m) {
		return false, errs.ErrNoPermission.WrapMsg("delete message", "caller", caller.ID, "id", id)
	}
	if err := r.store.Delete(ctx, id); err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return false, err
		}
		return false, errs.ErrDatabase.WrapMsg("delete message", "id", id, "err", err)
	}
	return true, nil
}

// Conversation returns all messages between two users, either direction,
// ascending by send time.
func (r *Relay) Conversation(ctx context.Context, caller model.Identity, userA, userB string) ([]*model.Message, error) {
	if !caller.Authenticated() {
		return nil, errs.ErrTokenInvalid.WrapMsg("caller not authenticated")
	}
	if !CanView(caller, userA, userB) {
		return nil, errs.ErrNoPermission.WrapMsg("view conversation", "caller", caller.ID)
	}
	out, err := r.store.Conversation(ctx, userA, userB)
	if err != nil {
		return nil, errs.ErrDatabase.WrapMsg("load conversation", "err", err)
	}
	return out, nil
}

// Message returns a single message by id.
func (r *Relay) Message(ctx context.Context, caller model.Identity, id int64) (*model.Message, error) {
	if !caller.Authenticated() {
		return nil, errs.ErrTokenInvalid.WrapMsg("caller not authenticated")
	}
	m, err := r.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return nil, err
		}
		return nil, errs.ErrDatabase.WrapMsg("fetch message", "id", id, "err", err)
	}
	return m, nil
}

// Messages returns every persisted message.
func (r *Relay) Messages(ctx context.Context, caller model.Identity) ([]*model.Message, error) {
	if !caller.Authenticated() {
		return nil, errs.ErrTokenInvalid.WrapMsg("caller not authenticated")
	}
	out, err := r.store.All(ctx)
	if err != nil {
		return nil, errs.ErrDatabase.WrapMsg("load messages", "err", err)
	}
	return out, nil
}
