package message

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	chatmodel "DMProject/module/chat/model"
	"DMProject/tools/errs"
	"DMProject/tools/ids"
)

// Store is the durable message store backed by a mongo collection. It
// implements relay.Store.
type Store struct {
	MsgColl *mongo.Collection
}

func NewStore(db *mongo.Database) *Store {
	return &Store{MsgColl: db.Collection(chatmodel.MsgCollectionName)}
}

// EnsureIndexes creates the lookup indexes. Call once at boot.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.MsgColl.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: chatmodel.MsgFieldID, Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: chatmodel.MsgFieldSenderID, Value: 1},
				{Key: chatmodel.MsgFieldRecipientID, Value: 1},
				{Key: chatmodel.MsgFieldSentAt, Value: 1},
			},
		},
	})
	return errors.WithStack(err)
}

// Insert persists the message, assigning its snowflake id. The input is not
// mutated; the persisted record is returned.
func (s *Store) Insert(ctx context.Context, m *chatmodel.Message) (*chatmodel.Message, error) {
	cp := *m
	cp.ID = ids.Generate()
	if _, err := s.MsgColl.InsertOne(ctx, &cp); err != nil {
		return nil, errors.Wrap(err, "insert message")
	}
	return &cp, nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*chatmodel.Message, error) {
	var out chatmodel.Message
	err := s.MsgColl.FindOne(ctx, bson.M{chatmodel.MsgFieldID: id}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrRecordNotFound.WrapMsg("message", "id", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "find message")
	}
	return &out, nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.MsgColl.DeleteOne(ctx, bson.M{chatmodel.MsgFieldID: id})
	if err != nil {
		return errors.Wrap(err, "delete message")
	}
	if res.DeletedCount == 0 {
		return errs.ErrRecordNotFound.WrapMsg("message", "id", id)
	}
	return nil
}

// Conversation returns both directions between userA and userB, ascending
// by send time with the snowflake id as tie-breaker. Symmetric in its
// arguments.
func (s *Store) Conversation(ctx context.Context, userA, userB string) ([]*chatmodel.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{chatmodel.MsgFieldSenderID: userA, chatmodel.MsgFieldRecipientID: userB},
		bson.M{chatmodel.MsgFieldSenderID: userB, chatmodel.MsgFieldRecipientID: userA},
	}}
	opts := options.Find().SetSort(bson.D{
		{Key: chatmodel.MsgFieldSentAt, Value: 1},
		{Key: chatmodel.MsgFieldID, Value: 1},
	})
	cur, err := s.MsgColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find conversation")
	}
	var out []*chatmodel.Message
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode conversation")
	}
	return out, nil
}

func (s *Store) All(ctx context.Context) ([]*chatmodel.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: chatmodel.MsgFieldID, Value: 1}})
	cur, err := s.MsgColl.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find messages")
	}
	var out []*chatmodel.Message
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode messages")
	}
	return out, nil
}
