package model

// MsgCollectionName is the mongo collection holding direct messages.
const MsgCollectionName = "dm_message"

// Message is a persisted direct message. Created only through the relay's
// send path; immutable after creation except for deletion.
type Message struct {
	ID          int64  `bson:"message_id" json:"id"`        // snowflake, assigned by the store on insert
	SenderID    string `bson:"sender_id" json:"senderId"`   // originating user
	RecipientID string `bson:"recipient_id" json:"recipientId"`
	Payload     string `bson:"payload" json:"payload"`
	SentAt      int64  `bson:"sent_at" json:"sentAt"` // Unix ms, set by the relay at persist time
}

// Message field names used in queries.
const (
	MsgFieldID          = "message_id"
	MsgFieldSenderID    = "sender_id"
	MsgFieldRecipientID = "recipient_id"
	MsgFieldSentAt      = "sent_at"
)
