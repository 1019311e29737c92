package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	sessionKeyPrefix = "session:"
	userKeyPrefix    = "user_sessions:"
)

// RedisStore shares sessions between processes. Each session is a JSON value
// with a native TTL; a per-user set indexes session ids for revocation.
type RedisStore struct {
	Client *redis.Client
}

func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{Client: client}, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (Session, bool, error) {
	raw, err := s.Client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("redis get session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return Session{}, false, fmt.Errorf("decode session: %w", err)
	}
	if sess.Expired(time.Now()) {
		return Session{}, false, nil
	}
	return sess, true, nil
}

func (s *RedisStore) Set(ctx context.Context, sess Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	userKey := userKeyPrefix + sess.Principal.UserID
	_, err = s.Client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, sessionKeyPrefix+sess.ID, raw, ttl)
		p.SAdd(ctx, userKey, sess.ID)
		p.Expire(ctx, userKey, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	sess, ok, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	_, err = s.Client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, sessionKeyPrefix+id)
		if ok {
			p.SRem(ctx, userKeyPrefix+sess.Principal.UserID, id)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}

func (s *RedisStore) DeleteByUser(ctx context.Context, userID string) error {
	userKey := userKeyPrefix + userID
	ids, err := s.Client.SMembers(ctx, userKey).Result()
	if err != nil {
		return fmt.Errorf("redis list user sessions: %w", err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKeyPrefix+id)
	}
	keys = append(keys, userKey)
	if err := s.Client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis delete user sessions: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error { return s.Client.Close() }
