// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ManuGH/mmsession/internal/domain/session/model"
	"github.com/redis/go-redis/v9"
)

// RedisKeyPrefix namespaces registry keys; the pid follows it.
const RedisKeyPrefix = "mmsession:"

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string // Redis server address (host:port)
	Password string // Redis password (optional)
	DB       int    // Redis database number
}

// RedisStore shares one registry across hosts or containers.
type RedisStore struct {
	client *redis.Client
	codec  Codec
}

// NewRedisStore connects and pings the server.
func NewRedisStore(ctx context.Context, cfg RedisConfig, codec Codec) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return NewRedisStoreWithClient(client, codec), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, codec Codec) *RedisStore {
	return &RedisStore{client: client, codec: codec}
}

func redisKey(pid int) string {
	return RedisKeyPrefix + strconv.Itoa(pid)
}

func (s *RedisStore) Write(ctx context.Context, rec model.Record) error {
	if err := checkPID(rec.PID); err != nil {
		return err
	}
	data, err := s.codec.Marshal(rec)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, redisKey(rec.PID), data, 0).Err(); err != nil {
		return errWrite(rec.PID, err)
	}
	return nil
}

func (s *RedisStore) Read(ctx context.Context, pid int) (model.Record, error) {
	if err := checkPID(pid); err != nil {
		return model.Record{}, err
	}
	data, err := s.client.Get(ctx, redisKey(pid)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Record{}, errNoSession(pid, nil)
		}
		return model.Record{}, errRead(pid, err)
	}
	return s.codec.Unmarshal(pid, data)
}

func (s *RedisStore) Delete(ctx context.Context, pid int) error {
	if err := checkPID(pid); err != nil {
		return err
	}
	n, err := s.client.Del(ctx, redisKey(pid)).Result()
	if err != nil {
		return errRemove(pid, err)
	}
	if n == 0 {
		return errNotFound(pid, nil)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]model.Record, error) {
	var out []model.Record
	iter := s.client.Scan(ctx, 0, RedisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		pid, err := strconv.Atoi(strings.TrimPrefix(iter.Val(), RedisKeyPrefix))
		if err != nil || pid <= 0 {
			continue
		}
		rec, err := s.Read(ctx, pid)
		if err != nil {
			continue
		}
		out = append(out, rec)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan session registry: %w", err)
	}
	return sortRecords(out), nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
