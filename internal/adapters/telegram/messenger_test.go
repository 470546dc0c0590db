package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/0sokrat0/TGSamui/internal/core/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeBot struct {
	sent       []tgbotapi.Chattable
	requests   []tgbotapi.Chattable
	groups     []tgbotapi.MediaGroupConfig
	nextID     int
	sendErr    error
	requestErr error
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.sendErr != nil {
		return tgbotapi.Message{}, f.sendErr
	}
	f.sent = append(f.sent, c)
	f.nextID++
	return tgbotapi.Message{MessageID: f.nextID}, nil
}

func (f *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	if f.requestErr != nil {
		return &tgbotapi.APIResponse{Ok: false}, f.requestErr
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeBot) SendMediaGroup(cfg tgbotapi.MediaGroupConfig) ([]tgbotapi.Message, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.groups = append(f.groups, cfg)
	out := make([]tgbotapi.Message, len(cfg.Media))
	for i := range out {
		f.nextID++
		out[i] = tgbotapi.Message{MessageID: f.nextID}
	}
	return out, nil
}

func newTestMessenger() (*Messenger, *fakeBot) {
	bot := &fakeBot{nextID: 10}
	return newMessenger(bot, zap.NewNop()), bot
}

func TestSendTextWithInlineMarkup(t *testing.T) {
	m, bot := newTestMessenger()
	markup := domain.InlineMarkup(
		[]domain.Button{domain.CallbackButton("next", domain.Callback{Kind: domain.KindNextPage})},
		[]domain.Button{{Text: "map", URL: "https://www.openstreetmap.org/"}},
	)

	id, err := m.SendText(context.Background(), 42, "hello", markup)
	require.NoError(t, err)
	assert.Equal(t, 11, id)

	require.Len(t, bot.sent, 1)
	msg, ok := bot.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, "hello", msg.Text)

	kb, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, kb.InlineKeyboard, 2)
	require.NotNil(t, kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "np", *kb.InlineKeyboard[0][0].CallbackData)
	require.NotNil(t, kb.InlineKeyboard[1][0].URL)
	assert.Equal(t, "https://www.openstreetmap.org/", *kb.InlineKeyboard[1][0].URL)
}

func TestSendTextReplyKeyboards(t *testing.T) {
	m, bot := newTestMessenger()

	_, err := m.SendText(context.Background(), 1, "share", domain.ReplyMarkup(
		[]domain.ReplyButton{{Text: "phone", RequestContact: true}, {Text: "geo", RequestLocation: true}},
		[]domain.ReplyButton{{Text: "plain"}},
	))
	require.NoError(t, err)
	_, err = m.SendText(context.Background(), 1, "bye", &domain.Markup{RemoveReply: true})
	require.NoError(t, err)

	kb, ok := bot.sent[0].(tgbotapi.MessageConfig).ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup)
	require.True(t, ok)
	assert.True(t, kb.ResizeKeyboard)
	assert.True(t, kb.Keyboard[0][0].RequestContact)
	assert.True(t, kb.Keyboard[0][1].RequestLocation)
	assert.Equal(t, "plain", kb.Keyboard[1][0].Text)

	_, ok = bot.sent[1].(tgbotapi.MessageConfig).ReplyMarkup.(tgbotapi.ReplyKeyboardRemove)
	assert.True(t, ok)
}

func TestInlineKeyboardRejectsBadButtons(t *testing.T) {
	_, err := inlineKeyboard([][]domain.Button{{{Text: "empty"}}})
	assert.Error(t, err)
}

func TestSendPhotoChoosesFileKind(t *testing.T) {
	m, bot := newTestMessenger()
	ctx := context.Background()

	_, err := m.SendPhoto(ctx, 1, "https://example.com/a.jpg", "url", nil)
	require.NoError(t, err)
	_, err = m.SendPhoto(ctx, 1, "AgACAgIAAxkBAAIBZ2Z_file_id_value", "id", nil)
	require.NoError(t, err)

	first := bot.sent[0].(tgbotapi.PhotoConfig)
	assert.Equal(t, tgbotapi.FileURL("https://example.com/a.jpg"), first.File)
	assert.Equal(t, "url", first.Caption)

	second := bot.sent[1].(tgbotapi.PhotoConfig)
	assert.Equal(t, tgbotapi.FileID("AgACAgIAAxkBAAIBZ2Z_file_id_value"), second.File)
}

func TestSendPhotoTruncatesCaption(t *testing.T) {
	m, bot := newTestMessenger()
	long := strings.Repeat("я", MaxCaptionLen+50)

	_, err := m.SendPhoto(context.Background(), 1, "https://example.com/a.jpg", long, nil)
	require.NoError(t, err)

	caption := bot.sent[0].(tgbotapi.PhotoConfig).Caption
	assert.Equal(t, MaxCaptionLen, len([]rune(caption)))
}

func TestSendMediaGroupCaptionOnFirst(t *testing.T) {
	m, bot := newTestMessenger()
	photos := []domain.PhotoRef{"https://example.com/1.jpg", "https://example.com/2.jpg"}

	ids, err := m.SendMediaGroup(context.Background(), 5, photos, "album")
	require.NoError(t, err)
	assert.Equal(t, []int{11, 12}, ids)

	require.Len(t, bot.groups, 1)
	media := bot.groups[0].Media
	require.Len(t, media, 2)
	assert.Equal(t, "album", media[0].(tgbotapi.InputMediaPhoto).Caption)
	assert.Empty(t, media[1].(tgbotapi.InputMediaPhoto).Caption)
}

func TestSendMediaGroupRequiresPhotos(t *testing.T) {
	m, _ := newTestMessenger()
	_, err := m.SendMediaGroup(context.Background(), 5, nil, "album")
	assert.Error(t, err)
}

func TestEditMessageText(t *testing.T) {
	m, bot := newTestMessenger()
	markup := domain.InlineMarkup([]domain.Button{domain.CallbackButton("back", domain.Callback{Kind: domain.KindFilterBack})})

	require.NoError(t, m.EditMessageText(context.Background(), 3, 77, "edited", markup))

	cfg := bot.requests[0].(tgbotapi.EditMessageTextConfig)
	assert.Equal(t, 77, cfg.MessageID)
	assert.Equal(t, "edited", cfg.Text)
	require.NotNil(t, cfg.ReplyMarkup)
	assert.Equal(t, "fb", *cfg.ReplyMarkup.InlineKeyboard[0][0].CallbackData)

	err := m.EditMessageText(context.Background(), 3, 77, "edited", &domain.Markup{RemoveReply: true})
	assert.Error(t, err)
}

func TestEditTreatsNotModifiedAsSuccess(t *testing.T) {
	m, bot := newTestMessenger()
	bot.requestErr = &tgbotapi.Error{Code: 400, Message: "Bad Request: message is not modified"}

	assert.NoError(t, m.EditMessageText(context.Background(), 3, 77, "same", nil))
	assert.NoError(t, m.EditMessageMedia(context.Background(), 3, 77, "https://example.com/a.jpg", "same"))
}

func TestEditMessageMedia(t *testing.T) {
	m, bot := newTestMessenger()

	require.NoError(t, m.EditMessageMedia(context.Background(), 3, 78, "https://example.com/b.jpg", "next"))

	cfg := bot.requests[0].(tgbotapi.EditMessageMediaConfig)
	assert.Equal(t, int64(3), cfg.ChatID)
	assert.Equal(t, 78, cfg.MessageID)
	media := cfg.Media.(tgbotapi.InputMediaPhoto)
	assert.Equal(t, "next", media.Caption)
	assert.Equal(t, tgbotapi.FileURL("https://example.com/b.jpg"), media.Media)
}

func TestDeleteMessageErrors(t *testing.T) {
	tests := []struct {
		name     string
		apiErr   error
		notFound bool
	}{
		{name: "ok"},
		{name: "not found", apiErr: &tgbotapi.Error{Code: 400, Message: "Bad Request: message to delete not found"}, notFound: true},
		{name: "other", apiErr: &tgbotapi.Error{Code: 403, Message: "Forbidden: bot was blocked by the user"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, bot := newTestMessenger()
			bot.requestErr = tt.apiErr

			err := m.DeleteMessage(context.Background(), 1, 5)
			switch {
			case tt.apiErr == nil:
				assert.NoError(t, err)
			case tt.notFound:
				assert.ErrorIs(t, err, domain.ErrMessageNotFound)
			default:
				require.Error(t, err)
				assert.False(t, errors.Is(err, domain.ErrMessageNotFound))
			}
		})
	}
}

func TestAnswerCallback(t *testing.T) {
	m, bot := newTestMessenger()

	require.NoError(t, m.AnswerCallback(context.Background(), "cb-1", "Добавлено в избранное!"))

	cfg := bot.requests[0].(tgbotapi.CallbackConfig)
	assert.Equal(t, "cb-1", cfg.CallbackQueryID)
	assert.Equal(t, "Добавлено в избранное!", cfg.Text)
}

func TestCancelledContextSkipsCall(t *testing.T) {
	m, bot := newTestMessenger()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.SendText(ctx, 1, "late", nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, bot.sent)
}
