package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("insert", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		s := NewMongoStore(mt.Coll)

		ex, err := s.Insert(context.Background(), "hello", "hi there")
		require.NoError(mt, err)
		assert.Equal(mt, "hello", ex.UserMessage)
		assert.Equal(mt, "hi there", ex.BotResponse)
		assert.False(mt, ex.Timestamp.IsZero())

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "insert", started.CommandName)
	})

	mt.Run("insert failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))
		s := NewMongoStore(mt.Coll)

		_, err := s.Insert(context.Background(), "hello", "hi there")
		assert.True(mt, mongo.IsDuplicateKeyError(err))
	})

	mt.Run("recent", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		t2 := time.Date(2026, 3, 1, 10, 0, 2, 0, time.UTC)
		t1 := t2.Add(-time.Second)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				bson.D{
					{Key: "_id", Value: primitive.NewObjectID()},
					{Key: "user_message", Value: "second"},
					{Key: "bot_response", Value: "b"},
					{Key: "timestamp", Value: t2},
				},
				bson.D{
					{Key: "_id", Value: primitive.NewObjectID()},
					{Key: "user_message", Value: "first"},
					{Key: "bot_response", Value: "a"},
					{Key: "timestamp", Value: t1},
				},
			),
		)
		s := NewMongoStore(mt.Coll)

		got, err := s.Recent(context.Background(), HistoryLimit)
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, "second", got[0].UserMessage)
		assert.True(mt, got[0].Timestamp.Equal(t2))
		assert.Equal(mt, "first", got[1].UserMessage)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "find", started.CommandName)
		limit, err := started.Command.LookupErr("limit")
		require.NoError(mt, err)
		assert.EqualValues(mt, HistoryLimit, limit.AsInt64())
		sort := started.Command.Lookup("sort").Document()
		assert.EqualValues(mt, -1, sort.Lookup("timestamp").AsInt64())
	})

	mt.Run("seed clock from newest exchange", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		newest := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "user_message", Value: "before restart"},
				{Key: "bot_response", Value: "r"},
				{Key: "timestamp", Value: newest},
			}),
			mtest.CreateSuccessResponse(),
		)
		s := NewMongoStore(mt.Coll)
		// wall clock an hour behind the stored history
		s.clock.now = func() time.Time { return newest.Add(-time.Hour) }

		require.NoError(mt, s.seedClock(context.Background()))
		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "find", started.CommandName)
		sort := started.Command.Lookup("sort").Document()
		assert.EqualValues(mt, -1, sort.Lookup("timestamp").AsInt64())

		ex, err := s.Insert(context.Background(), "after restart", "r")
		require.NoError(mt, err)
		assert.True(mt, ex.Timestamp.After(newest), "timestamp %v not after %v", ex.Timestamp, newest)
	})

	mt.Run("seed clock on empty collection", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		s := NewMongoStore(mt.Coll)

		assert.NoError(mt, s.seedClock(context.Background()))
	})

	mt.Run("seed clock failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Message: "not authorized",
			Name:    "Unauthorized",
		}))
		s := NewMongoStore(mt.Coll)

		assert.Error(mt, s.seedClock(context.Background()))
	})

	mt.Run("recent failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Message: "bad query",
			Name:    "BadValue",
		}))
		s := NewMongoStore(mt.Coll)

		_, err := s.Recent(context.Background(), HistoryLimit)
		assert.Error(mt, err)
	})
}
