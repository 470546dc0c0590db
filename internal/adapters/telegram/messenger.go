package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/0sokrat0/TGSamui/internal/core/domain"
	"github.com/0sokrat0/TGSamui/internal/core/port"
)

// MaxCaptionLen - ограничение Telegram на подпись к фото
const MaxCaptionLen = 1024

// MaxMediaGroup - максимальный размер альбома
const MaxMediaGroup = 10

const (
	errMessageToDeleteNotFound = "message to delete not found"
	errMessageNotModified      = "message is not modified"
)

// botAPI - подмножество tgbotapi.BotAPI, которым пользуется адаптер
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	SendMediaGroup(config tgbotapi.MediaGroupConfig) ([]tgbotapi.Message, error)
}

// Messenger реализует port.Messenger поверх Bot API.
type Messenger struct {
	bot botAPI
	log *zap.Logger
}

var _ port.Messenger = (*Messenger)(nil)

// NewMessenger создает исходящий адаптер транспорта.
func NewMessenger(bot *tgbotapi.BotAPI, log *zap.Logger) (*Messenger, error) {
	if bot == nil {
		return nil, fmt.Errorf("telegram messenger: bot cannot be nil")
	}
	return newMessenger(bot, log), nil
}

func newMessenger(bot botAPI, log *zap.Logger) *Messenger {
	return &Messenger{bot: bot, log: log.Named("telegram_messenger")}
}

func (m *Messenger) SendText(ctx context.Context, chatID int64, text string, markup *domain.Markup) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		rm, err := replyMarkup(markup)
		if err != nil {
			return 0, err
		}
		msg.ReplyMarkup = rm
	}
	sent, err := m.bot.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("send text to chat %d: %w", chatID, err)
	}
	return sent.MessageID, nil
}

func (m *Messenger) SendPhoto(ctx context.Context, chatID int64, photo domain.PhotoRef, caption string, markup *domain.Markup) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	cfg := tgbotapi.NewPhoto(chatID, photoFile(photo))
	cfg.Caption = truncateCaption(caption)
	if markup != nil {
		rm, err := replyMarkup(markup)
		if err != nil {
			return 0, err
		}
		cfg.ReplyMarkup = rm
	}
	sent, err := m.bot.Send(cfg)
	if err != nil {
		return 0, fmt.Errorf("send photo to chat %d: %w", chatID, err)
	}
	return sent.MessageID, nil
}

func (m *Messenger) SendMediaGroup(ctx context.Context, chatID int64, photos []domain.PhotoRef, caption string) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(photos) == 0 {
		return nil, fmt.Errorf("send media group to chat %d: no photos", chatID)
	}
	if len(photos) > MaxMediaGroup {
		photos = photos[:MaxMediaGroup]
	}

	media := make([]interface{}, 0, len(photos))
	for i, p := range photos {
		item := tgbotapi.NewInputMediaPhoto(photoFile(p))
		if i == 0 {
			item.Caption = truncateCaption(caption)
		}
		media = append(media, item)
	}

	sent, err := m.bot.SendMediaGroup(tgbotapi.NewMediaGroup(chatID, media))
	if err != nil {
		return nil, fmt.Errorf("send media group to chat %d: %w", chatID, err)
	}
	ids := make([]int, 0, len(sent))
	for _, msg := range sent {
		ids = append(ids, msg.MessageID)
	}
	return ids, nil
}

func (m *Messenger) EditMessageMedia(ctx context.Context, chatID int64, messageID int, photo domain.PhotoRef, caption string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	item := tgbotapi.NewInputMediaPhoto(photoFile(photo))
	item.Caption = truncateCaption(caption)
	cfg := tgbotapi.EditMessageMediaConfig{
		BaseEdit: tgbotapi.BaseEdit{ChatID: chatID, MessageID: messageID},
		Media:    item,
	}
	if _, err := m.bot.Request(cfg); err != nil && !isNotModified(err) {
		return fmt.Errorf("edit media %d in chat %d: %w", messageID, chatID, err)
	}
	return nil
}

func (m *Messenger) EditMessageText(ctx context.Context, chatID int64, messageID int, text string, markup *domain.Markup) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cfg := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if markup != nil {
		if len(markup.Reply) > 0 || markup.RemoveReply {
			return fmt.Errorf("edit text %d in chat %d: only inline keyboards can be edited", messageID, chatID)
		}
		kb, err := inlineKeyboard(markup.Inline)
		if err != nil {
			return err
		}
		cfg.ReplyMarkup = &kb
	}
	if _, err := m.bot.Request(cfg); err != nil && !isNotModified(err) {
		return fmt.Errorf("edit text %d in chat %d: %w", messageID, chatID, err)
	}
	return nil
}

func (m *Messenger) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := m.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		if isMessageNotFound(err) {
			return fmt.Errorf("delete %d in chat %d: %w", messageID, chatID, domain.ErrMessageNotFound)
		}
		return fmt.Errorf("delete %d in chat %d: %w", messageID, chatID, err)
	}
	return nil
}

func (m *Messenger) AnswerCallback(ctx context.Context, callbackID string, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := m.bot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return fmt.Errorf("answer callback %s: %w", callbackID, err)
	}
	return nil
}

// photoFile выбирает способ передачи фото: ссылкой или file_id.
func photoFile(p domain.PhotoRef) tgbotapi.RequestFileData {
	s := strings.TrimSpace(string(p))
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return tgbotapi.FileURL(s)
	}
	return tgbotapi.FileID(s)
}

func truncateCaption(s string) string {
	r := []rune(s)
	if len(r) <= MaxCaptionLen {
		return s
	}
	return string(r[:MaxCaptionLen])
}

// replyMarkup переводит разметку ядра в клавиатуру Telegram.
func replyMarkup(m *domain.Markup) (interface{}, error) {
	switch {
	case len(m.Inline) > 0:
		return inlineKeyboard(m.Inline)
	case len(m.Reply) > 0:
		return replyKeyboard(m.Reply), nil
	case m.RemoveReply:
		return tgbotapi.NewRemoveKeyboard(false), nil
	}
	return nil, nil
}

func inlineKeyboard(rows [][]domain.Button) (tgbotapi.InlineKeyboardMarkup, error) {
	out := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			switch {
			case b.Callback != nil:
				data := b.Callback.Encode()
				if len(data) > domain.MaxCallbackLen {
					return tgbotapi.InlineKeyboardMarkup{}, fmt.Errorf("button %q: callback data is %d bytes", b.Text, len(data))
				}
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, data))
			case b.URL != "":
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonURL(b.Text, b.URL))
			default:
				return tgbotapi.InlineKeyboardMarkup{}, fmt.Errorf("button %q has neither callback nor url", b.Text)
			}
		}
		out = append(out, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(out...), nil
}

func replyKeyboard(rows [][]domain.ReplyButton) tgbotapi.ReplyKeyboardMarkup {
	out := make([][]tgbotapi.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, b := range row {
			switch {
			case b.RequestContact:
				buttons = append(buttons, tgbotapi.NewKeyboardButtonContact(b.Text))
			case b.RequestLocation:
				buttons = append(buttons, tgbotapi.NewKeyboardButtonLocation(b.Text))
			default:
				buttons = append(buttons, tgbotapi.NewKeyboardButton(b.Text))
			}
		}
		out = append(out, buttons)
	}
	kb := tgbotapi.NewReplyKeyboard(out...)
	kb.ResizeKeyboard = true
	return kb
}

func isMessageNotFound(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), errMessageToDeleteNotFound)
}

func isNotModified(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), errMessageNotModified)
}
