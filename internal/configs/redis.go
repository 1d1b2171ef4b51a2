package config

import (
	"fmt"

	"github.com/redis/rueidis"
)

// NewRedisClient connects to the redis instance backing the key-value
// store. Callers decide whether a connect failure is fatal.
func NewRedisClient(addr string) (rueidis.Client, error) {
	client, err := rueidis.NewClient(
		rueidis.ClientOption{
			InitAddress: []string{addr},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}

	return client, nil
}
