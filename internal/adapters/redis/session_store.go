package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/0sokrat0/TGSamui/internal/core/domain"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// DefaultPrefix - общий префикс ключей бота
const DefaultPrefix = "estate_bot"

// NewClient создает клиента по REDIS_URL. Принимает как redis://..., так и host:port.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	var opts *redis.Options
	if strings.Contains(url, "://") {
		parsed, err := redis.ParseURL(url)
		if err != nil {
			return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: url}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("unable to ping redis at %s: %w", opts.Addr, err)
	}
	return client, nil
}

// SessionStore хранит сессии диалогов в Redis в виде JSON без срока жизни.
type SessionStore struct {
	client *redis.Client
	prefix string
	log    *zap.Logger
}

// NewSessionStore создает хранилище сессий поверх клиента Redis.
func NewSessionStore(client *redis.Client, prefix string, log *zap.Logger) (*SessionStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis session store: client cannot be nil")
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &SessionStore{client: client, prefix: prefix, log: log.Named("redis_sessions")}, nil
}

// Key возвращает ключ Redis для сессии.
func (s *SessionStore) Key(key domain.SessionKey) string {
	return fmt.Sprintf("%s:session:%d:%d", s.prefix, key.ChatID, key.UserID)
}

// Get читает сессию. Отсутствующий ключ дает пустую сессию.
func (s *SessionStore) Get(ctx context.Context, key domain.SessionKey) (*domain.Session, error) {
	raw, err := s.client.Get(ctx, s.Key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return &domain.Session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", key, err)
	}

	var session domain.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		// Испорченная запись не должна блокировать диалог
		s.log.Warn("RedisSessions: Dropping unreadable session", zap.String("key", key.String()), zap.Error(err))
		return &domain.Session{}, nil
	}
	return &session, nil
}

// Save записывает сессию целиком.
func (s *SessionStore) Save(ctx context.Context, key domain.SessionKey, session *domain.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", key, err)
	}
	if err := s.client.Set(ctx, s.Key(key), raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to write session %s: %w", key, err)
	}
	return nil
}

// Clear удаляет сессию.
func (s *SessionStore) Clear(ctx context.Context, key domain.SessionKey) error {
	if err := s.client.Del(ctx, s.Key(key)).Err(); err != nil {
		return fmt.Errorf("failed to clear session %s: %w", key, err)
	}
	return nil
}

// Close закрывает клиента Redis.
func (s *SessionStore) Close() error {
	return s.client.Close()
}
