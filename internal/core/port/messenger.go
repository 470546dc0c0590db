package port

import (
	"context"

	"github.com/0sokrat0/TGSamui/internal/core/domain"
)

// Messenger - исходящие примитивы транспорта чата.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string, markup *domain.Markup) (int, error)
	SendPhoto(ctx context.Context, chatID int64, photo domain.PhotoRef, caption string, markup *domain.Markup) (int, error)
	// SendMediaGroup отправляет альбом, подпись ставится на первое фото.
	SendMediaGroup(ctx context.Context, chatID int64, photos []domain.PhotoRef, caption string) ([]int, error)
	EditMessageMedia(ctx context.Context, chatID int64, messageID int, photo domain.PhotoRef, caption string) error
	EditMessageText(ctx context.Context, chatID int64, messageID int, text string, markup *domain.Markup) error
	// DeleteMessage возвращает domain.ErrMessageNotFound, если сообщения уже нет.
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	// AnswerCallback показывает всплывающее уведомление на нажатие кнопки.
	AnswerCallback(ctx context.Context, callbackID string, text string) error
}
