package intelligence

import (
	"context"
	"encoding/json"
	"time"

	"museumchat/models"

	"github.com/go-redis/redis/v8"
)

const chatContextPrefix = "chat:ctx:"

// maxHistoryTurns caps how much of the conversation is replayed into the
// phrasing prompt.
const maxHistoryTurns = 20

// RedisContextStore keeps the per-session chat history used to ground the
// AI phraser.
type RedisContextStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisContextStore(client *redis.Client, ttl time.Duration) *RedisContextStore {
	return &RedisContextStore{client: client, ttl: ttl}
}

func (s *RedisContextStore) Get(ctx context.Context, sessionID string) (*models.ChatContext, error) {
	data, err := s.client.Get(ctx, chatContextPrefix+sessionID).Result()
	if err == redis.Nil {
		return &models.ChatContext{}, nil
	}
	if err != nil {
		return nil, err
	}
	var chatCtx models.ChatContext
	if err := json.Unmarshal([]byte(data), &chatCtx); err != nil {
		return nil, err
	}
	return &chatCtx, nil
}

// Append records one exchange and trims the history to its cap.
func (s *RedisContextStore) Append(ctx context.Context, sessionID string, turns ...models.ChatTurn) error {
	chatCtx, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	chatCtx.History = append(chatCtx.History, turns...)
	if len(chatCtx.History) > maxHistoryTurns {
		chatCtx.History = chatCtx.History[len(chatCtx.History)-maxHistoryTurns:]
	}
	b, err := json.Marshal(chatCtx)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, chatContextPrefix+sessionID, b, s.ttl).Err()
}

func (s *RedisContextStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, chatContextPrefix+sessionID).Err()
}
