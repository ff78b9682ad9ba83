package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"evalai/internal/model"
)

// QuizCache is a read-through cache in front of the quiz file store
type QuizCache interface {
	Set(ctx context.Context, quiz *model.Quiz) error
	Get(ctx context.Context, key string) (*model.Quiz, error)
	Delete(ctx context.Context, key string) error
}

type quizCache struct {
	client *redis.Client
}

func NewQuizCache(client *redis.Client) QuizCache {
	return &quizCache{
		client: client,
	}
}

func (c *quizCache) Set(ctx context.Context, quiz *model.Quiz) error {
	data, err := json.Marshal(quiz)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "quiz:"+quiz.Key, data, 24*time.Hour).Err()
}

// Get returns (nil, nil) on a cache miss
func (c *quizCache) Get(ctx context.Context, key string) (*model.Quiz, error) {
	data, err := c.client.Get(ctx, "quiz:"+key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var quiz model.Quiz
	err = json.Unmarshal([]byte(data), &quiz)
	return &quiz, err
}

func (c *quizCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, "quiz:"+key).Err()
}
