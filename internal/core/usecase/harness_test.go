package usecase

import (
	"context"
	"testing"

	"github.com/0sokrat0/TGSamui/internal/adapters/memory"
	"github.com/0sokrat0/TGSamui/internal/constants"
	"github.com/0sokrat0/TGSamui/internal/core/domain"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	adminID int64 = 1
	userID  int64 = 2

	testFavoritesLimit = 3
)

// testBot собирает диспетчер со всеми сценариями поверх фейков.
type testBot struct {
	messenger   *fakeMessenger
	sessions    *memory.SessionStore
	properties  *memProperties
	favorites   *memFavorites
	reviews     *memReviews
	users       *memUsers
	newsletters *memNewsletters
	queue       *memQueue
	pager       *PagerUseCase
	browse      *BrowseUseCase
	dispatcher  *Dispatcher
}

func testCatalog(t *testing.T) domain.Catalog {
	t.Helper()
	c, err := constants.LoadCatalog("")
	require.NoError(t, err)
	return c
}

func newTestBot(t *testing.T) *testBot {
	t.Helper()
	log := zap.NewNop()
	b := &testBot{
		messenger:   newFakeMessenger(),
		sessions:    memory.NewSessionStore(),
		properties:  newMemProperties(),
		favorites:   newMemFavorites(),
		reviews:     newMemReviews(),
		users:       newMemUsers(),
		newsletters: &memNewsletters{},
		queue:       &memQueue{},
	}
	b.pager = NewPagerUseCase(b.messenger, log)
	b.browse = NewBrowseUseCase(b.properties, b.messenger, b.pager, testCatalog(t), log)

	d, err := NewDispatcher(DispatcherDeps{
		Sessions:   b.sessions,
		Messenger:  b.messenger,
		AdminIDs:   []int64{adminID},
		Authoring:  NewAuthoringUseCase(b.properties, b.messenger, domain.CoordinateModeDMS, log),
		Browse:     b.browse,
		Pager:      b.pager,
		Favorites:  NewFavoritesUseCase(b.favorites, b.properties, b.pager, b.messenger, testFavoritesLimit, log),
		Reviews:    NewReviewsUseCase(b.reviews, b.properties, b.messenger, []int64{adminID}, log),
		Profile:    NewProfileUseCase(b.users, b.messenger, log),
		Admin:      NewAdminUseCase(b.properties, b.users, b.messenger),
		Newsletter: NewNewsletterUseCase(b.newsletters, b.users, b.queue, b.messenger, log),
	}, log)
	require.NoError(t, err)
	b.dispatcher = d
	return b
}

func textUpdate(from int64, text string) domain.Update {
	return domain.Update{Kind: domain.UpdateText, ChatID: from, UserID: from, Username: "tester", Text: text}
}

// send передает текстовое сообщение. Ошибка сценария допустима: диспетчер
// сам сообщает о ней пользователю.
func (b *testBot) send(from int64, text string) error {
	return b.dispatcher.Handle(context.Background(), textUpdate(from, text))
}

func (b *testBot) sendAll(t *testing.T, from int64, texts ...string) {
	t.Helper()
	for _, text := range texts {
		require.NoError(t, b.send(from, text), "input %q", text)
	}
}

func (b *testBot) deliver(t *testing.T, upd domain.Update) {
	t.Helper()
	require.NoError(t, b.dispatcher.Handle(context.Background(), upd))
}

func (b *testBot) press(t *testing.T, from int64, cb domain.Callback) string {
	t.Helper()
	upd := domain.Update{
		Kind:       domain.UpdateCallback,
		ChatID:     from,
		UserID:     from,
		Username:   "tester",
		MessageID:  77,
		CallbackID: "cb",
		Callback:   &cb,
	}
	require.NoError(t, b.dispatcher.Handle(context.Background(), upd))
	return b.messenger.lastAnswer()
}

func (b *testBot) session(t *testing.T, of int64) *domain.Session {
	t.Helper()
	s, err := b.sessions.Get(context.Background(), domain.SessionKey{ChatID: of, UserID: of})
	require.NoError(t, err)
	return s
}

func hasInlineButton(m *domain.Markup, kind domain.CallbackKind) bool {
	if m == nil {
		return false
	}
	for _, row := range m.Inline {
		for _, btn := range row {
			if btn.Callback != nil && btn.Callback.Kind == kind {
				return true
			}
		}
	}
	return false
}

func intPtr(n int) *int { return &n }
