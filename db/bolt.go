package db

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	bolt "go.etcd.io/bbolt"
)

var chatsBucket = []byte("chats")

// BoltStore keeps exchanges in a local bbolt file, keyed by timestamp so a
// reverse cursor walk yields the newest records first.
type BoltStore struct {
	db    *bolt.DB
	clock *clock
}

func OpenBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	bdb, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}
	s := &BoltStore{db: bdb, clock: newClock()}
	err = bdb.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(chatsBucket)
		if err != nil {
			return err
		}
		if k, _ := b.Cursor().Last(); k != nil {
			s.clock.seed(keyTime(k))
		}
		return nil
	})
	if err != nil {
		_ = bdb.Close()
		return nil, err
	}
	return s, nil
}

func timeKey(t time.Time) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, uint64(t.UnixNano()))
	return k
}

func keyTime(k []byte) time.Time {
	return time.Unix(0, int64(binary.BigEndian.Uint64(k))).UTC()
}

func (s *BoltStore) Insert(ctx context.Context, userMessage, botResponse string) (Exchange, error) {
	if err := ctx.Err(); err != nil {
		return Exchange{}, err
	}
	ex := Exchange{
		UserMessage: userMessage,
		BotResponse: botResponse,
		Timestamp:   s.clock.next(),
	}
	v, err := json.Marshal(&ex)
	if err != nil {
		return Exchange{}, err
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(chatsBucket).Put(timeKey(ex.Timestamp), v)
	})
	if err != nil {
		return Exchange{}, err
	}
	return ex, nil
}

func (s *BoltStore) Recent(ctx context.Context, limit int) ([]Exchange, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]Exchange, 0, limit)
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(chatsBucket).Cursor()
		for k, v := c.Last(); k != nil && len(out) < limit; k, v = c.Prev() {
			var ex Exchange
			if err := json.Unmarshal(v, &ex); err != nil {
				return fmt.Errorf("decode exchange %x: %w", k, err)
			}
			out = append(out, ex)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *BoltStore) Close(context.Context) error {
	return s.db.Close()
}
