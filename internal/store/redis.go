package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/dyluth/roulette/pkg/roster"
	"github.com/redis/go-redis/v9"
)

// maxAppendRetries bounds optimistic-lock retries in AppendRound.
const maxAppendRetries = 5

// RedisStore keeps rosters in Redis.
// All keys and channels are namespaced; the store is safe for concurrent use.
type RedisStore struct {
	rdb       *redis.Client
	namespace string
	logger    *slog.Logger
}

// NewRedisStore creates a store for the given namespace.
// A nil logger falls back to slog.Default().
func NewRedisStore(redisOpts *redis.Options, namespace string, logger *slog.Logger) (*RedisStore, error) {
	if err := ValidateNamespace(namespace); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &RedisStore{
		rdb:       redis.NewClient(redisOpts),
		namespace: namespace,
		logger:    logger.With("component", "store", "backend", "redis", "namespace", namespace),
	}, nil
}

// NewRedisStoreFromURL parses a redis:// URL and creates a store.
func NewRedisStoreFromURL(url, namespace string, logger *slog.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return NewRedisStore(opts, namespace, logger)
}

// RedisClient exposes the underlying client for health checks and tests.
func (s *RedisStore) RedisClient() *redis.Client {
	return s.rdb
}

// Namespace returns the key namespace of this store.
func (s *RedisStore) Namespace() string {
	return s.namespace
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

// Ping verifies Redis connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Save writes a roster hash and rebuilds its round log.
func (s *RedisStore) Save(ctx context.Context, rec *Record) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("invalid record: %w", err)
	}

	hash, err := RecordToHash(rec)
	if err != nil {
		return fmt.Errorf("failed to serialize record: %w", err)
	}

	key := RosterKey(s.namespace, rec.ID)
	roundsKey := RoundsKey(s.namespace, rec.ID)

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key, roundsKey)
		pipe.HSet(ctx, key, hash)
		for _, rc := range rec.Rounds() {
			pipe.ZAdd(ctx, roundsKey, redis.Z{Score: float64(rc.Number), Member: rc.Name})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write roster to Redis: %w", err)
	}

	s.logger.Debug("roster saved", "roster_id", rec.ID, "rows", rec.Table.Len())
	return nil
}

// Get retrieves a roster by full ID.
func (s *RedisStore) Get(ctx context.Context, id string) (*Record, error) {
	return getRecord(ctx, s.rdb, RosterKey(s.namespace, id))
}

func getRecord(ctx context.Context, c redis.Cmdable, key string) (*Record, error) {
	hashData, err := c.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read roster from Redis: %w", err)
	}

	// HGetAll returns an empty map for non-existent keys
	if len(hashData) == 0 {
		return nil, ErrNotFound
	}

	rec, err := HashToRecord(hashData)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize roster: %w", err)
	}
	return rec, nil
}

// ids scans the namespace for roster IDs.
func (s *RedisStore) ids(ctx context.Context) ([]string, error) {
	prefix := RosterKeyPrefix(s.namespace)
	var ids []string

	iter := s.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		id := strings.TrimPrefix(iter.Val(), prefix)
		if strings.Contains(id, ":") {
			// round log or other sub-key
			continue
		}
		ids = append(ids, id)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan rosters: %w", err)
	}
	return ids, nil
}

// List returns every roster in the namespace, oldest update first.
func (s *RedisStore) List(ctx context.Context) ([]*Record, error) {
	ids, err := s.ids(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]*Record, 0, len(ids))
	for _, id := range ids {
		rec, err := s.Get(ctx, id)
		if err != nil {
			if IsNotFound(err) {
				// deleted between SCAN and HGETALL
				continue
			}
			return nil, err
		}
		records = append(records, rec)
	}

	sortRecords(records)
	return records, nil
}

// AppendRound adds a round column under WATCH, so a concurrent append to the
// same roster either retries against the new table or fails with
// ErrRoundConflict. A round event is published after a successful commit.
func (s *RedisStore) AppendRound(ctx context.Context, id, column string, values []string) (*Record, error) {
	key := RosterKey(s.namespace, id)
	roundsKey := RoundsKey(s.namespace, id)

	var updated *Record
	txf := func(tx *redis.Tx) error {
		rec, err := getRecord(ctx, tx, key)
		if err != nil {
			return err
		}

		next, err := withRound(rec, column, values, time.Now().UnixMilli())
		if err != nil {
			return err
		}

		hash, err := RecordToHash(next)
		if err != nil {
			return fmt.Errorf("failed to serialize record: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, hash)
			n, _ := roster.RoundNumber(next.Prefix, column)
			pipe.ZAdd(ctx, roundsKey, redis.Z{Score: float64(n), Member: column})
			return nil
		})
		if err != nil {
			return err
		}
		updated = next
		return nil
	}

	var err error
	for attempt := 0; attempt < maxAppendRetries; attempt++ {
		err = s.rdb.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
		s.logger.Debug("round append lost optimistic lock, retrying", "roster_id", id, "column", column, "attempt", attempt+1)
	}
	if errors.Is(err, redis.TxFailedErr) {
		return nil, fmt.Errorf("%w: gave up after %d attempts", ErrRoundConflict, maxAppendRetries)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("round appended", "roster_id", id, "column", column)
	s.publish(ctx, newRoundEvent(updated, column))
	return updated, nil
}

// publish sends a round event. The round is already committed, so failures
// are logged rather than returned.
func (s *RedisStore) publish(ctx context.Context, ev *RoundEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		s.logger.Warn("failed to marshal round event", "roster_id", ev.RosterID, "error", err)
		return
	}
	if err := s.rdb.Publish(ctx, RoundEventsChannel(s.namespace), payload).Err(); err != nil {
		s.logger.Warn("failed to publish round event", "roster_id", ev.RosterID, "error", err)
	}
}

// RoundLog returns the recorded round columns of a roster in round order.
func (s *RedisStore) RoundLog(ctx context.Context, id string) ([]string, error) {
	names, err := s.rdb.ZRange(ctx, RoundsKey(s.namespace, id), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read round log: %w", err)
	}
	return names, nil
}

// Resolve expands a short ID to a full roster ID.
// A full UUID is checked for existence.
func (s *RedisStore) Resolve(ctx context.Context, shortID string) (string, error) {
	if isFullID(shortID) {
		exists, err := s.rdb.Exists(ctx, RosterKey(s.namespace, shortID)).Result()
		if err != nil {
			return "", fmt.Errorf("failed to check roster existence: %w", err)
		}
		if exists == 0 {
			return "", &NotFoundError{ShortID: shortID}
		}
		return shortID, nil
	}

	if len(shortID) < MinShortIDLength {
		return matchShortID(shortID, nil)
	}

	ids, err := s.ids(ctx)
	if err != nil {
		return "", err
	}
	return matchShortID(shortID, ids)
}

// sortRecords orders records by UpdatedAtMs, then ID for stability.
func sortRecords(records []*Record) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].UpdatedAtMs != records[j].UpdatedAtMs {
			return records[i].UpdatedAtMs < records[j].UpdatedAtMs
		}
		return records[i].ID < records[j].ID
	})
}
