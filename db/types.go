package db

import (
	"context"
	"time"

	"github.com/goccy/go-json"
)

// HistoryLimit is the number of exchanges returned by the history endpoint.
const HistoryLimit = 10

// TimestampLayout is RFC 3339 in UTC with exactly three fractional digits.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Exchange is one persisted user message and the reply generated for it.
type Exchange struct {
	UserMessage string    `json:"user_message" bson:"user_message"`
	BotResponse string    `json:"bot_response" bson:"bot_response"`
	Timestamp   time.Time `json:"timestamp" bson:"timestamp"`
}

type exchangeJSON struct {
	UserMessage string `json:"user_message"`
	BotResponse string `json:"bot_response"`
	Timestamp   string `json:"timestamp"`
}

func (e Exchange) MarshalJSON() ([]byte, error) {
	return json.Marshal(exchangeJSON{
		UserMessage: e.UserMessage,
		BotResponse: e.BotResponse,
		Timestamp:   e.Timestamp.UTC().Format(TimestampLayout),
	})
}

func (e *Exchange) UnmarshalJSON(b []byte) error {
	var j exchangeJSON
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	ts, err := time.Parse(time.RFC3339Nano, j.Timestamp)
	if err != nil {
		return err
	}
	*e = Exchange{UserMessage: j.UserMessage, BotResponse: j.BotResponse, Timestamp: ts.UTC()}
	return nil
}

// Store is implemented by every storage driver.
//
// Insert assigns the timestamp. Recent returns at most limit exchanges,
// newest first.
type Store interface {
	Insert(ctx context.Context, userMessage, botResponse string) (Exchange, error)
	Recent(ctx context.Context, limit int) ([]Exchange, error)
	Close(ctx context.Context) error
}
