// Package redis keeps templates, question configs and protocol errors in Redis.
//
// The Store can act as the primary store (seeded with SaveTemplate and
// SaveQuestionConfigs) or as a read-through cache in front of another port
// implementation. Cache fills take a distributed lock when a Locker is set,
// so concurrent instances hit the backend once per key.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/protocolfill/pkg/domain"
	"github.com/aretw0/protocolfill/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

const (
	// DefaultPrefix namespaces every key written by the Store.
	DefaultPrefix = "protocolfill:"
	fillLockTTL   = 10 * time.Second
)

// Store implements ports.TemplateStore, ports.QuestionConfigStore and ports.ErrorLog.
type Store struct {
	client    *backend.Client
	prefix    string
	ttl       time.Duration
	templates ports.TemplateStore
	questions ports.QuestionConfigStore
	locker    ports.DistributedLocker
}

type Option func(*Store)

// WithTTL sets the expiration of cached entries and error lists.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithTemplateBackend makes template lookups read through to store on a miss.
func WithTemplateBackend(store ports.TemplateStore) Option {
	return func(s *Store) {
		s.templates = store
	}
}

// WithQuestionBackend makes config lookups read through to store on a miss.
func WithQuestionBackend(store ports.QuestionConfigStore) Option {
	return func(s *Store) {
		s.questions = store
	}
}

// WithLocker serializes cache fills across instances.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(s *Store) {
		s.locker = locker
	}
}

// New creates a Redis store with its own client.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) templateKey(templateType, language string) string {
	return s.prefix + "template:" + templateType + ":" + language
}

func (s *Store) configsKey(templateID string) string {
	return s.prefix + "configs:" + templateID
}

func (s *Store) errorsKey(sessionID string) string {
	return s.prefix + "errors:" + sessionID
}

// SaveTemplate stores tpl as the active template of its type and language.
func (s *Store) SaveTemplate(ctx context.Context, tpl *domain.Template) error {
	return s.put(ctx, s.templateKey(tpl.Metadata.Type, tpl.Metadata.Language), tpl)
}

// GetActiveTemplate returns the cached template, filling it from the backend on a miss.
func (s *Store) GetActiveTemplate(ctx context.Context, templateType, language string) (*domain.Template, error) {
	var load func(context.Context) (*domain.Template, error)
	if s.templates != nil {
		load = func(ctx context.Context) (*domain.Template, error) {
			return s.templates.GetActiveTemplate(ctx, templateType, language)
		}
	}
	return readThrough(ctx, s, s.templateKey(templateType, language), domain.ErrTemplateNotFound, load)
}

// InvalidateTemplate drops the cached template of a type and language.
func (s *Store) InvalidateTemplate(ctx context.Context, templateType, language string) error {
	return s.client.Del(ctx, s.templateKey(templateType, language)).Err()
}

// SaveQuestionConfigs stores the configs of a template.
func (s *Store) SaveQuestionConfigs(ctx context.Context, templateID string, configs []domain.QuestionConfig) error {
	return s.put(ctx, s.configsKey(templateID), configs)
}

// GetQuestionConfigsByTemplate returns the cached configs, filling them from the backend on a miss.
func (s *Store) GetQuestionConfigsByTemplate(ctx context.Context, templateID string) ([]domain.QuestionConfig, error) {
	var load func(context.Context) ([]domain.QuestionConfig, error)
	if s.questions != nil {
		load = func(ctx context.Context) ([]domain.QuestionConfig, error) {
			return s.questions.GetQuestionConfigsByTemplate(ctx, templateID)
		}
	}
	return readThrough(ctx, s, s.configsKey(templateID), domain.ErrConfigsNotFound, load)
}

// InvalidateConfigs drops the cached configs of a template.
func (s *Store) InvalidateConfigs(ctx context.Context, templateID string) error {
	return s.client.Del(ctx, s.configsKey(templateID)).Err()
}

func (s *Store) put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// get decodes key into v. It reports false on a miss.
func (s *Store) get(ctx context.Context, key string, v any) (bool, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get from redis: %w", err)
	}
	if err := json.Unmarshal(val, v); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return true, nil
}

// readThrough serves key from Redis, or loads and caches it. Backend
// not-found errors are passed through and never cached.
func readThrough[T any](ctx context.Context, s *Store, key string, notFound error, load func(context.Context) (T, error)) (T, error) {
	var out T
	ok, err := s.get(ctx, key, &out)
	if err != nil || ok {
		return out, err
	}
	if load == nil {
		return out, notFound
	}

	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, "fill:"+key, fillLockTTL)
		if err != nil {
			return out, err
		}
		defer func() { _ = unlock(context.WithoutCancel(ctx)) }()

		// Another instance may have filled the key while we waited.
		ok, err := s.get(ctx, key, &out)
		if err != nil || ok {
			return out, err
		}
	}

	out, err = load(ctx)
	if err != nil {
		return out, err
	}
	if err := s.put(ctx, key, out); err != nil {
		return out, err
	}
	return out, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
