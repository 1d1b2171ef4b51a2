package cmd

import (
	"log"

	"github.com/taskhive/taskhive/internal/ai"
	config "github.com/taskhive/taskhive/internal/configs"
	"github.com/taskhive/taskhive/internal/kv"
	repository "github.com/taskhive/taskhive/internal/repositories"
)

// newKVStore picks the key-value backend for local-mode blobs: redis
// when configured, the data-dir JSON file otherwise.
func newKVStore(cfg config.Config) (kv.Store, func()) {
	if cfg.RedisAddr != "" {
		client, err := config.NewRedisClient(cfg.RedisAddr)
		if err != nil {
			log.Fatalf("failed to open local store: %v", err)
		}
		return kv.NewRedisStore(client), client.Close
	}

	store, err := kv.NewFileStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("failed to open local store: %v", err)
	}
	return store, func() {}
}

// newTaskStore builds the persistence adapter for the mode the config
// resolved at startup. The choice is static for the process lifetime.
func newTaskStore(cfg config.Config, kvStore kv.Store) repository.TaskStore {
	if cfg.Mode == repository.ModeRemote {
		db := config.NewDatabaseClient(cfg.DatabaseDSN)
		return repository.NewRemoteTaskRepository(db)
	}
	return repository.NewLocalTaskRepository(kvStore)
}

func newEnhancer(cfg config.Config) ai.Enhancer {
	if cfg.AIEndpoint == "" {
		return nil
	}
	return ai.NewRetry(ai.NewClient(cfg.AIEndpoint, cfg.AIAPIKey), cfg.AIRetryAttempts, retryBackoff)
}
