package relay

import (
	"DMProject/module/chat/model"
)

// The gate is the single authorization decision point for message
// operations. Pure functions: no store, no registry, no side effects.
// Callers turn a false into a NoPermission error.

// CanSend reports whether caller may originate a message as senderID.
func CanSend(caller model.Identity, senderID string) bool {
	return caller.ID == senderID || caller.IsAdmin()
}

// CanView reports whether caller may read the conversation between two
// participants.
func CanView(caller model.Identity, userA, userB string) bool {
	return caller.ID == userA || caller.ID == userB || caller.IsAdmin()
}

// CanDelete reports whether caller may delete the message.
func CanDelete(caller model.Identity, msg *model.Message) bool {
	return caller.ID == msg.SenderID || caller.IsAdmin()
}
