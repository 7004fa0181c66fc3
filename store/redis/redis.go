package redis

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/sprintertech/sprinter-bridge/transfer"
)

var statuses = []transfer.Status{
	transfer.StatusPending,
	transfer.StatusConfirmed,
	transfer.StatusRelayed,
	transfer.StatusCompleted,
	transfer.StatusFailed,
}

func timeoutDialOptions() []redis.DialOption {
	return []redis.DialOption{
		redis.DialConnectTimeout(5 * time.Second),
		redis.DialReadTimeout(5 * time.Second),
		redis.DialWriteTimeout(5 * time.Second),
	}
}

// RedisStore keeps each transfer as a JSON record under transfer:<id> and
// indexes ids in one set per status, so a transfer is always a member of
// exactly the set of its latest status.
type RedisStore struct {
	pool *redis.Pool
}

func NewRedisStore(addr string) *RedisStore {
	return NewRedisStoreFromPool(&redis.Pool{
		MaxIdle:     5,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", addr, timeoutDialOptions()...)
		},
	})
}

func NewRedisStoreFromPool(pool *redis.Pool) *RedisStore {
	return &RedisStore{
		pool: pool,
	}
}

func (s *RedisStore) Close() error {
	return s.pool.Close()
}

func (s *RedisStore) SaveTransfer(t *transfer.Transfer) error {
	if t.ID == "" {
		return errors.New("transfer cannot have empty id")
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("transfer %s has invalid status '%s'", t.ID, t.Status)
	}

	record, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("cannot marshal transfer to JSON: %w", err)
	}

	conn := s.pool.Get()
	defer conn.Close()

	_ = conn.Send("MULTI")
	_ = conn.Send("SET", recordKey(t.ID), record)
	for _, status := range statuses {
		if status == t.Status {
			_ = conn.Send("SADD", statusKey(status), t.ID)
		} else {
			_ = conn.Send("SREM", statusKey(status), t.ID)
		}
	}
	_, err = conn.Do("EXEC")
	if err != nil {
		return fmt.Errorf("failed storing transfer %s: %w", t.ID, err)
	}
	return nil
}

// Transfers returns every persisted record, read through the status sets
// in lifecycle order.
func (s *RedisStore) Transfers() ([]*transfer.Transfer, error) {
	conn := s.pool.Get()
	defer conn.Close()

	transfers := make([]*transfer.Transfer, 0)
	for _, status := range statuses {
		ids, err := redis.Strings(conn.Do("SMEMBERS", statusKey(status)))
		if err != nil {
			return nil, err
		}
		loaded, err := s.load(conn, ids)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, loaded...)
	}
	return transfers, nil
}

func (s *RedisStore) load(conn redis.Conn, ids []string) ([]*transfer.Transfer, error) {
	transfers := make([]*transfer.Transfer, 0, len(ids))
	if len(ids) == 0 {
		return transfers, nil
	}

	keys := make([]interface{}, len(ids))
	for i, id := range ids {
		keys[i] = recordKey(id)
	}
	records, err := redis.ByteSlices(conn.Do("MGET", keys...))
	if err != nil {
		return nil, err
	}

	for i, record := range records {
		if record == nil {
			return nil, fmt.Errorf("indexed transfer %s has no record", ids[i])
		}

		t := new(transfer.Transfer)
		if err := json.Unmarshal(record, t); err != nil {
			return nil, fmt.Errorf("corrupted record %s: %w", ids[i], err)
		}
		transfers = append(transfers, t)
	}
	return transfers, nil
}

func recordKey(id string) string {
	return fmt.Sprintf("transfer:%s", id)
}

func statusKey(status transfer.Status) string {
	return fmt.Sprintf("transfers:%s", status)
}
