package cli

import (
	"github.com/aretw0/protocolfill/pkg/adapters/file"
	loamstore "github.com/aretw0/protocolfill/pkg/adapters/loam"
	"github.com/aretw0/protocolfill/pkg/adapters/redis"
	"github.com/aretw0/protocolfill/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// Stores are the ports a store-backed generation reads from and writes to.
type Stores struct {
	Templates ports.TemplateStore
	Questions ports.QuestionConfigStore
	Errors    ports.ErrorLog

	close func() error
}

// Close releases the Redis connection, if one was opened.
func (s *Stores) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// OpenStores wires the template directory, the optional loam question
// repository and, when an address is configured, the Redis cache in front
// of both.
func OpenStores(env *Env, storeDir, questionsRepo string) (*Stores, error) {
	fs := file.New(storeDir)
	stores := &Stores{Templates: fs, Questions: fs, Errors: fs}

	if questionsRepo != "" {
		repo, err := loamstore.Open(questionsRepo)
		if err != nil {
			return nil, err
		}
		stores.Questions = repo
	}

	rs := env.Settings.Redis
	if rs.Addr == "" {
		return stores, nil
	}

	client := backend.NewClient(&backend.Options{Addr: rs.Addr})
	cache := redis.NewFromClient(client,
		redis.WithPrefix(rs.Prefix),
		redis.WithTTL(rs.TTL),
		redis.WithTemplateBackend(stores.Templates),
		redis.WithQuestionBackend(stores.Questions),
		redis.WithLocker(redis.NewLocker(client, rs.Prefix)),
	)
	env.Logger.Debug("redis cache enabled", "addr", rs.Addr, "prefix", rs.Prefix)

	stores.Templates = cache
	stores.Questions = cache
	stores.Errors = cache
	stores.close = cache.Close
	return stores, nil
}
