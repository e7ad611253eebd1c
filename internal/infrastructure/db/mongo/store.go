package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const sessionCollection = "gateway_sessions"

// Store keeps key-value entries as one document per key in the
// gateway_sessions collection. Keys are namespaced as <namespace>:<key>.
type Store struct {
	coll      *mongo.Collection
	namespace string
}

func NewStore(db *mongo.Database, namespace string) *Store {
	return &Store{coll: db.Collection(sessionCollection), namespace: namespace}
}

type entryDoc struct {
	Key       string `bson:"_id"`
	Value     string `bson:"value"`
	UpdatedAt int64  `bson:"updated_at"`
}

func (s *Store) key(k string) string {
	if s.namespace == "" {
		return k
	}
	return s.namespace + ":" + k
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var doc entryDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": s.key(key)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("find entry %s: %w", key, err)
	}
	return doc.Value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	update := bson.M{"$set": bson.M{
		"value":      value,
		"updated_at": time.Now().Unix(),
	}}
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": s.key(key)}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert entry %s: %w", key, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": s.key(key)}); err != nil {
		return fmt.Errorf("delete entry %s: %w", key, err)
	}
	return nil
}
