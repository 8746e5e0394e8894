package classcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recordbook/internal/db"
	"github.com/kailas-cloud/recordbook/internal/domain/command"
)

// Hash fields of a cached classification.
const (
	fieldModule   = "module"
	fieldEntities = "entities"
	fieldMessage  = "message"
)

// classifier is the wrapped command classifier.
type classifier interface {
	Classify(ctx context.Context, text string) (command.Classification, error)
}

// store is the consumer interface for the classification cache (ISP).
type store interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HSet(ctx context.Context, key string, fields map[string]string) error
	Del(ctx context.Context, key string) error
}

// CachedClassifier caches classifications in a hash store, keyed by the
// whitespace-normalized command text. Case is kept: entity values such as
// government IDs match exactly. Failed classifications are never cached.
type CachedClassifier struct {
	inner      classifier
	store      store
	prefix     string
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator. Keys are "<prefix>classify:<sha256>".
// cacheTotal is a counter vec with label "result" ("hit"/"miss") and may be nil.
func New(
	inner classifier,
	s store,
	prefix string,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedClassifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedClassifier{
		inner:      inner,
		store:      s,
		prefix:     prefix + "classify:",
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Classify returns a cached classification or asks the inner classifier.
func (c *CachedClassifier) Classify(ctx context.Context, text string) (command.Classification, error) {
	key := c.cacheKey(text)

	if cls, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return cls, nil
	}

	c.incCache("miss")

	cls, err := c.inner.Classify(ctx, text)
	if err != nil {
		return command.Classification{}, fmt.Errorf("classify command: %w", err)
	}

	c.putToCache(ctx, key, cls)
	return cls, nil
}

func (c *CachedClassifier) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey ignores surrounding and repeated whitespace.
func (c *CachedClassifier) cacheKey(text string) string {
	norm := strings.Join(strings.Fields(text), " ")
	h := sha256.Sum256([]byte(norm))
	return c.prefix + hex.EncodeToString(h[:])
}

func (c *CachedClassifier) getFromCache(ctx context.Context, key string) (command.Classification, bool) {
	fields, err := c.store.HGetAll(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached classification", zap.String("key", key), zap.Error(err))
		}
		return command.Classification{}, false
	}

	entities := map[string]any{}
	if raw := fields[fieldEntities]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &entities); err != nil {
			c.logger.Warn("Failed to parse cached classification, evicting", zap.String("key", key), zap.Error(err))
			if err := c.store.Del(ctx, key); err != nil {
				c.logger.Warn("Failed to evict cached classification", zap.String("key", key), zap.Error(err))
			}
			return command.Classification{}, false
		}
	}

	return command.Classification{
		Module:   fields[fieldModule],
		Entities: entities,
		Message:  fields[fieldMessage],
	}, true
}

func (c *CachedClassifier) putToCache(ctx context.Context, key string, cls command.Classification) {
	entities, err := json.Marshal(cls.Entities)
	if err != nil {
		c.logger.Warn("Failed to encode classification", zap.String("key", key), zap.Error(err))
		return
	}
	fields := map[string]string{
		fieldModule:   cls.Module,
		fieldEntities: string(entities),
		fieldMessage:  cls.Message,
	}
	if err := c.store.HSet(ctx, key, fields); err != nil {
		c.logger.Warn("Failed to cache classification", zap.String("key", key), zap.Error(err))
	}
}
