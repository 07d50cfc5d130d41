package database

import (
	"fmt"

	"github.com/AbbasAlizada1380/mellat/config"

	"github.com/valkey-io/valkey-go"
)

const (
	EVENTS_CACHE_DB = 0
)

type CacheClient valkey.Client

// Cache holds the valkey clients. Only the events client exists today; it
// carries dashboard notifications between server instances.
type Cache struct {
	Events CacheClient
}

func (c Cache) Close() {
	if c.Events != nil {
		c.Events.Close()
	}
}

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")

	if !config.CacheEnabled() {
		log.Info("Cache address not configured, events stay in-process")
		return nil
	}

	address := fmt.Sprintf("%s:%d", config.DatabaseCacheAddress, config.DatabaseCachePort)
	log.Info("Connecting to valkey", "address", address)

	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{address},
		SelectDB:    EVENTS_CACHE_DB,
	})
	if err != nil {
		return log.Err("failed to connect to valkey", err, "address", address)
	}

	s.Cache.Events = client
	return nil
}
