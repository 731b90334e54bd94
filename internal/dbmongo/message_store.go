package dbmongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"venuehub/internal/messaging"
)

type messageDocument struct {
	ID         string     `bson:"_id"`
	SenderID   string     `bson:"sender_id"`
	ReceiverID string     `bson:"receiver_id"`
	Content    string     `bson:"content"`
	CreatedAt  time.Time  `bson:"created_at"`
	ReadAt     *time.Time `bson:"read_at,omitempty"`
}

func (d messageDocument) toMessage() messaging.Message {
	m := messaging.Message{
		ID:         d.ID,
		SenderID:   d.SenderID,
		ReceiverID: d.ReceiverID,
		Content:    d.Content,
		CreatedAt:  d.CreatedAt.UTC(),
	}
	if d.ReadAt != nil {
		readAt := d.ReadAt.UTC()
		m.ReadAt = &readAt
	}
	return m
}

// MessageStore implements messaging.MessageStore on a MongoDB collection.
type MessageStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMessageStore(mc *MongoClient, collection string) *MessageStore {
	if collection == "" {
		collection = "messages"
	}
	return &MessageStore{
		coll: mc.Database.Collection(collection),
		now:  time.Now,
	}
}

// EnsureIndexes creates the indexes both listing queries rely on.
func (s *MessageStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "receiver_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "sender_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create message indexes: %w", err)
	}
	return nil
}

func (s *MessageStore) FetchReceived(ctx context.Context, viewerID string) ([]messaging.Message, error) {
	return s.find(ctx, receivedFilter(viewerID))
}

func (s *MessageStore) FetchAllInvolving(ctx context.Context, viewerID string) ([]messaging.Message, error) {
	return s.find(ctx, involvingFilter(viewerID))
}

func (s *MessageStore) Insert(ctx context.Context, senderID, receiverID, content string) (messaging.Message, error) {
	doc := messageDocument{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		CreatedAt:  s.now().UTC().Truncate(time.Millisecond),
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return messaging.Message{}, fmt.Errorf("insert message: %w", err)
	}
	return doc.toMessage(), nil
}

func (s *MessageStore) MarkRead(ctx context.Context, ids []string, at time.Time) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.coll.UpdateMany(ctx, unreadByIDFilter(ids), bson.M{"$set": bson.M{"read_at": at}})
	if err != nil {
		return 0, fmt.Errorf("mark messages read: %w", err)
	}
	return int(res.ModifiedCount), nil
}

func (s *MessageStore) find(ctx context.Context, filter bson.M) ([]messaging.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find messages: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []messageDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}

	out := make([]messaging.Message, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toMessage())
	}
	return out, nil
}

func receivedFilter(viewerID string) bson.M {
	return bson.M{"receiver_id": viewerID}
}

func involvingFilter(viewerID string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"sender_id": viewerID},
		bson.M{"receiver_id": viewerID},
	}}
}

// a nil read_at matches both a null field and a missing one
func unreadByIDFilter(ids []string) bson.M {
	return bson.M{
		"_id":     bson.M{"$in": ids},
		"read_at": nil,
	}
}
