package port

import (
	"context"

	"github.com/0sokrat0/TGSamui/internal/core/domain"
)

// SessionStore - рабочая память диалогов по ключу (чат, пользователь).
// Get для неизвестного ключа возвращает пустую сессию без ошибки.
type SessionStore interface {
	Get(ctx context.Context, key domain.SessionKey) (*domain.Session, error)
	Save(ctx context.Context, key domain.SessionKey, s *domain.Session) error
	Clear(ctx context.Context, key domain.SessionKey) error
}
