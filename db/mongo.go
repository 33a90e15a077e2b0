package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoStore appends exchanges to a single collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	clock  *clock
}

// NewMongoStore wraps an existing collection. The caller owns the client.
func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll, clock: newClock()}
}

// OpenMongoStore connects to uri, verifies the connection and makes sure the
// timestamp index exists.
func OpenMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	cli, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err = cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	coll := cli.Database(database).Collection(collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "timestamp", Value: -1}},
	})
	if err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("create timestamp index: %w", err)
	}
	s := NewMongoStore(coll)
	s.client = cli
	if err = s.seedClock(ctx); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("read newest exchange: %w", err)
	}
	return s, nil
}

// seedClock makes later inserts sort after the newest stored exchange, even
// if the wall clock is now behind it.
func (s *MongoStore) seedClock(ctx context.Context) error {
	var newest Exchange
	opts := options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	err := s.coll.FindOne(ctx, bson.D{}, opts).Decode(&newest)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	if err != nil {
		return err
	}
	s.clock.seed(newest.Timestamp)
	return nil
}

func (s *MongoStore) Insert(ctx context.Context, userMessage, botResponse string) (Exchange, error) {
	ex := Exchange{
		UserMessage: userMessage,
		BotResponse: botResponse,
		Timestamp:   s.clock.next(),
	}
	if _, err := s.coll.InsertOne(ctx, ex); err != nil {
		return Exchange{}, err
	}
	return ex, nil
}

func (s *MongoStore) Recent(ctx context.Context, limit int) ([]Exchange, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	out := make([]Exchange, 0, limit)
	if err = cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
