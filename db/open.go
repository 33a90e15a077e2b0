package db

import (
	"context"
	"fmt"

	"chatbot/config"
)

// Open returns the store selected by c.Driver.
func Open(ctx context.Context, c config.StoreConfig) (Store, error) {
	switch c.Driver {
	case config.DriverMongo:
		ctx, cancel := context.WithTimeout(ctx, c.Timeout)
		defer cancel()
		return OpenMongoStore(ctx, c.MongoURI, c.Database, c.Collection)
	case config.DriverBolt:
		return OpenBoltStore(c.BoltPath)
	case config.DriverMemory:
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", c.Driver)
}
