package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const stagedResultPrefix = "ai_result:"

var ErrNotFound = errors.New("staged result not found")

type IRedis interface {
	Ping(ctx context.Context) error
	StageResult(ctx context.Context, id string, payload interface{}, expiration time.Duration) error
	GetStagedResult(ctx context.Context, id string, dest interface{}) error
	DeleteStagedResult(ctx context.Context, id string) error
}

type redisClient struct {
	client *redis.Client
}

func New() IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return NewFromClient(client)
}

func NewFromClient(client *redis.Client) IRedis {
	return &redisClient{client: client}
}

func stagedKey(id string) string {
	return stagedResultPrefix + id
}

func (r *redisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisClient) StageResult(ctx context.Context, id string, payload interface{}, expiration time.Duration) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode staged result: %w", err)
	}

	logrus.Debug(fmt.Sprintf("Staging result %s with expiration %v", id, expiration))
	if err := r.client.Set(ctx, stagedKey(id), data, expiration).Err(); err != nil {
		logrus.Error(fmt.Sprintf("Error staging result %s: %v", id, err))
		return err
	}
	return nil
}

func (r *redisClient) GetStagedResult(ctx context.Context, id string, dest interface{}) error {
	val, err := r.client.Get(ctx, stagedKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		logrus.Debug(fmt.Sprintf("Staged result %s not found", id))
		return ErrNotFound
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error getting staged result %s: %v", id, err))
		return err
	}

	if err := json.Unmarshal(val, dest); err != nil {
		return fmt.Errorf("failed to decode staged result: %w", err)
	}
	return nil
}

func (r *redisClient) DeleteStagedResult(ctx context.Context, id string) error {
	result, err := r.client.Del(ctx, stagedKey(id)).Result()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error deleting staged result %s: %v", id, err))
		return err
	}

	if result == 0 {
		logrus.Debug(fmt.Sprintf("Staged result %s not found for deletion", id))
	}
	return nil
}
