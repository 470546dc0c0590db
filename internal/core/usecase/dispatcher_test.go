package usecase

import (
	"context"
	"testing"

	"github.com/0sokrat0/TGSamui/internal/constants"
	"github.com/0sokrat0/TGSamui/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewDispatcher_RequiresDependencies(t *testing.T) {
	_, err := NewDispatcher(DispatcherDeps{}, zap.NewNop())
	assert.Error(t, err)
}

func TestDispatcher_AdminCommand(t *testing.T) {
	b := newTestBot(t)

	b.sendAll(t, userID, "/admin")
	assert.Equal(t, constants.TextAccessDenied, b.messenger.last().Text)

	b.sendAll(t, adminID, "/admin")
	last := b.messenger.last()
	assert.Equal(t, constants.TextAdminPanel, last.Text)
	assert.Equal(t, constants.AdminCreateCard, last.Markup.Reply[0][0].Text)
}

func TestDispatcher_InvalidCallbackIsAnswered(t *testing.T) {
	b := newTestBot(t)
	err := b.dispatcher.Handle(context.Background(), domain.Update{
		Kind: domain.UpdateCallback, ChatID: userID, UserID: userID, CallbackID: "cb",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{constants.TextStaleButton}, b.messenger.answers)
}

func TestDispatcher_EveryCallbackIsAnsweredOnce(t *testing.T) {
	b := newTestBot(t)
	b.press(t, userID, domain.Callback{Kind: domain.KindPageInfo})
	b.press(t, userID, domain.Callback{Kind: domain.KindSearch})
	b.press(t, userID, domain.Callback{Kind: domain.KindNextPage})
	assert.Len(t, b.messenger.answers, 3)
}

func TestDispatcher_CancelUserFlowReturnsToMainMenu(t *testing.T) {
	b := newTestBot(t)
	b.press(t, userID, domain.Callback{Kind: domain.KindLeaveReview, ID: 1})
	b.sendAll(t, userID, "Отмена")

	assert.False(t, b.session(t, userID).Active())
	sent := b.messenger.sentTo(userID)
	assert.Equal(t, constants.TextCancelled, sent[len(sent)-2].Text)
	assert.Equal(t, constants.TextMainMenu, sent[len(sent)-1].Text)
	assert.Empty(t, b.reviews.rows)
}

func TestDispatcher_CancelKeepsPagerState(t *testing.T) {
	b := newTestBot(t)
	seedProperty(b, domain.Property{Name: "Villa"})
	good := 5.0
	b.properties.rows[1] = domain.Property{ID: 1, Name: "Villa", AvgRating: &good}

	b.press(t, userID, domain.Callback{Kind: domain.KindTopRated})
	b.press(t, userID, domain.Callback{Kind: domain.KindSetEmail})
	b.sendAll(t, userID, "/cancel")

	s := b.session(t, userID)
	assert.False(t, s.Active())
	require.NotNil(t, s.Browse)
	assert.NotEmpty(t, s.MessageIDs)
}

func TestDispatcher_IdleTextShowsMenu(t *testing.T) {
	b := newTestBot(t)
	b.sendAll(t, userID, "привет")
	last := b.messenger.last()
	assert.Equal(t, constants.TextChooseAction, last.Text)
	assert.True(t, hasInlineButton(last.Markup, domain.KindSearch))
}

func TestDispatcher_StartResetsActiveFlow(t *testing.T) {
	b := newTestBot(t)
	b.sendAll(t, adminID, constants.AdminCreateCard, "/start")
	assert.False(t, b.session(t, adminID).Active())
	assert.Equal(t, constants.TextWelcome, b.messenger.last().Text)
}

func TestDispatcher_EmptySessionIsRemovedFromStore(t *testing.T) {
	b := newTestBot(t)
	b.press(t, userID, domain.Callback{Kind: domain.KindSearch})
	require.Equal(t, 1, b.sessions.Len())

	b.sendAll(t, userID, "/start")
	assert.Zero(t, b.sessions.Len())
	assert.False(t, b.session(t, userID).Active())
}

func TestDispatcher_ListCardsAndAnalytics(t *testing.T) {
	b := newTestBot(t)
	b.sendAll(t, adminID, constants.AdminListCards)
	assert.Equal(t, constants.TextListCardsEmpty, b.messenger.last().Text)

	seedProperty(b, domain.Property{Name: "Villa A"})
	seedProperty(b, domain.Property{Name: "Villa B"})
	b.sendAll(t, adminID, constants.AdminListCards)
	assert.Equal(t, "ID: 2, Название: Villa B\nID: 1, Название: Villa A", b.messenger.last().Text)

	b.sendAll(t, userID, "/start")
	b.press(t, userID, domain.Callback{Kind: domain.KindSubscribe})
	b.sendAll(t, adminID, constants.AdminAnalytics)
	assert.Equal(t, "📊 Статистика пользователей\n\nВсего: 1\nАктивны за неделю: 1\nНовые за неделю: 1\nПодписаны на новинки: 1", b.messenger.last().Text)
}

func TestDispatcher_BackToMenuButton(t *testing.T) {
	b := newTestBot(t)
	b.press(t, userID, domain.Callback{Kind: domain.KindBackToMenu})
	assert.Equal(t, constants.TextMainMenu, b.messenger.last().Text)
}
