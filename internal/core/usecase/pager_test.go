package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/0sokrat0/TGSamui/internal/constants"
	"github.com/0sokrat0/TGSamui/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	photoA domain.PhotoRef = "AgACAgIAAxkBAAIBZ2photoA"
	photoB domain.PhotoRef = "https://example.com/b.jpg"
)

func pagerItems(n int) []domain.Property {
	items := make([]domain.Property, n)
	for i := range items {
		items[i] = domain.Property{ID: int64(i + 1), Name: fmt.Sprintf("Villa %d", i+1)}
	}
	return items
}

func newTestPager() (*PagerUseCase, *fakeMessenger) {
	m := newFakeMessenger()
	return NewPagerUseCase(m, zap.NewNop()), m
}

func navUpdate(kind domain.CallbackKind, id int64) domain.Update {
	return domain.Update{Kind: domain.UpdateCallback, ChatID: userID, UserID: userID, Callback: &domain.Callback{Kind: kind, ID: id}}
}

func TestPager_OpenRendersFirstItem(t *testing.T) {
	p, m := newTestPager()
	s := &domain.Session{}

	require.NoError(t, p.Open(context.Background(), userID, s, domain.BrowseSearch, pagerItems(3)))

	require.Len(t, m.sent, 1)
	assert.Contains(t, m.sent[0].Text, "Villa 1")
	assert.Equal(t, "1/3", m.sent[0].Markup.Inline[0][1].Text)
	assert.Equal(t, []int{m.sent[0].ID}, s.MessageIDs)
	assert.Zero(t, s.Browse.Carousel)
}

func TestPager_NavigateStopsAtBoundaries(t *testing.T) {
	ctx := context.Background()
	p, m := newTestPager()
	s := &domain.Session{}
	require.NoError(t, p.Open(ctx, userID, s, domain.BrowseSearch, pagerItems(2)))
	m.reset()

	toast, err := p.Navigate(ctx, navUpdate(domain.KindPrevPage, 0), s, -1)
	require.NoError(t, err)
	assert.Equal(t, constants.TextFirstPage, toast)
	assert.Zero(t, s.Browse.Page)
	assert.Empty(t, m.sent)

	toast, err = p.Navigate(ctx, navUpdate(domain.KindNextPage, 0), s, 1)
	require.NoError(t, err)
	assert.Empty(t, toast)
	assert.Equal(t, 1, s.Browse.Page)
	assert.Len(t, m.deleted, 1)
	assert.Contains(t, m.last().Text, "Villa 2")

	toast, err = p.Navigate(ctx, navUpdate(domain.KindNextPage, 0), s, 1)
	require.NoError(t, err)
	assert.Equal(t, constants.TextLastPage, toast)
	assert.Equal(t, 1, s.Browse.Page)
}

func TestPager_NavigateWithoutListIsStale(t *testing.T) {
	p, _ := newTestPager()
	toast, err := p.Navigate(context.Background(), navUpdate(domain.KindNextPage, 0), &domain.Session{}, 1)
	require.NoError(t, err)
	assert.Equal(t, constants.TextStaleButton, toast)
}

func TestPager_CarouselWithActionMessage(t *testing.T) {
	p, m := newTestPager()
	items := pagerItems(1)
	items[0].Photos[0] = photoA
	items[0].Photos[3] = "not a handle"
	items[0].Photos[5] = photoB
	s := &domain.Session{}

	require.NoError(t, p.Open(context.Background(), userID, s, domain.BrowseSearch, items))

	require.Len(t, m.sent, 2)
	album := m.sent[0]
	assert.True(t, album.IsAlbum)
	assert.Equal(t, []domain.PhotoRef{photoA, photoB}, album.Photos)
	assert.Contains(t, album.Text, "Villa 1")
	assert.Equal(t, constants.TextChooseAction, m.sent[1].Text)
	assert.Len(t, s.MessageIDs, 3)
	assert.Equal(t, 2, s.Browse.Carousel)
}

func TestPager_CarouselFailureFallsBackToText(t *testing.T) {
	p, m := newTestPager()
	m.mediaGroupErr = errors.New("wrong file identifier")
	items := pagerItems(1)
	items[0].Photos[0] = photoA
	s := &domain.Session{}

	require.NoError(t, p.Open(context.Background(), userID, s, domain.BrowseSearch, items))

	require.Len(t, m.sent, 1)
	assert.Contains(t, m.sent[0].Text, "Villa 1")
	assert.True(t, hasInlineButton(m.sent[0].Markup, domain.KindNextPage))
	assert.Zero(t, s.Browse.Carousel)
}

func TestPager_CleanupSkipsMissingMessages(t *testing.T) {
	p, m := newTestPager()
	m.deleteErr[5] = fmt.Errorf("telegram: %w", domain.ErrMessageNotFound)
	s := &domain.Session{MessageIDs: []int{5, 6}}

	require.NoError(t, p.Open(context.Background(), userID, s, domain.BrowseSearch, pagerItems(1)))

	assert.Equal(t, []int{6}, m.deleted)
	assert.Equal(t, []int{m.last().ID}, s.MessageIDs)
}

func TestPager_CleanupFailureRendersPlainAndKeepsIDs(t *testing.T) {
	p, m := newTestPager()
	m.deleteErr[5] = errors.New("forbidden")
	items := pagerItems(1)
	items[0].Photos[0] = photoA
	s := &domain.Session{MessageIDs: []int{5}}

	require.NoError(t, p.Open(context.Background(), userID, s, domain.BrowseSearch, items))

	require.Len(t, m.sent, 1)
	assert.False(t, m.sent[0].IsAlbum)
	assert.Equal(t, []int{5, m.sent[0].ID}, s.MessageIDs)
}

func TestPager_ToggleDetailsEditsInPlace(t *testing.T) {
	ctx := context.Background()
	p, m := newTestPager()
	s := &domain.Session{}
	require.NoError(t, p.Open(ctx, userID, s, domain.BrowseSearch, pagerItems(2)))
	messageID := s.MessageIDs[0]
	m.reset()

	toast, err := p.ToggleDetails(ctx, navUpdate(domain.KindDetails, 1), s, true)
	require.NoError(t, err)
	assert.Empty(t, toast)
	assert.True(t, s.Browse.Detail)
	assert.Empty(t, m.sent)
	require.Len(t, m.edits, 1)
	assert.Equal(t, messageID, m.edits[0].MessageID)
	assert.Contains(t, m.edits[0].Text, "(ID 1)")
	assert.True(t, hasInlineButton(m.edits[0].Markup, domain.KindSummary))
}

func TestPager_ToggleDetailsCarouselEditsCaptionAndActions(t *testing.T) {
	ctx := context.Background()
	p, m := newTestPager()
	items := pagerItems(1)
	items[0].Photos[0] = photoA
	s := &domain.Session{}
	require.NoError(t, p.Open(ctx, userID, s, domain.BrowseSearch, items))
	m.reset()

	_, err := p.ToggleDetails(ctx, navUpdate(domain.KindDetails, 1), s, true)
	require.NoError(t, err)
	require.Len(t, m.edits, 2)
	assert.Equal(t, photoA, m.edits[0].Photo)
	assert.Equal(t, s.MessageIDs[len(s.MessageIDs)-1], m.edits[1].MessageID)
}

func TestPager_ToggleDetailsFallsBackToRender(t *testing.T) {
	ctx := context.Background()
	p, m := newTestPager()
	s := &domain.Session{}
	require.NoError(t, p.Open(ctx, userID, s, domain.BrowseSearch, pagerItems(1)))
	m.reset()
	m.editErr = errors.New("message is not modified")

	_, err := p.ToggleDetails(ctx, navUpdate(domain.KindDetails, 1), s, true)
	require.NoError(t, err)
	require.Len(t, m.sent, 1)
	assert.Contains(t, m.sent[0].Text, "(ID 1)")
}

func TestPager_ButtonsOfAnotherItemAreStale(t *testing.T) {
	ctx := context.Background()
	p, _ := newTestPager()
	s := &domain.Session{}
	require.NoError(t, p.Open(ctx, userID, s, domain.BrowseSearch, pagerItems(2)))

	toast, err := p.ToggleDetails(ctx, navUpdate(domain.KindDetails, 2), s, true)
	require.NoError(t, err)
	assert.Equal(t, constants.TextStaleButton, toast)
	assert.False(t, s.Browse.Detail)
}

func TestPager_ShowMap(t *testing.T) {
	ctx := context.Background()
	p, m := newTestPager()
	items := pagerItems(2)
	lat, lon := 9.423028, 99.992361
	items[0].Latitude, items[0].Longitude = &lat, &lon
	s := &domain.Session{}
	require.NoError(t, p.Open(ctx, userID, s, domain.BrowseSearch, items))
	assert.True(t, hasInlineButton(m.last().Markup, domain.KindMap))

	toast, err := p.ShowMap(ctx, navUpdate(domain.KindMap, 1), s)
	require.NoError(t, err)
	assert.Empty(t, toast)
	assert.Contains(t, m.last().Text, "mlat=9.423028&mlon=99.992361")

	_, err = p.Navigate(ctx, navUpdate(domain.KindNextPage, 0), s, 1)
	require.NoError(t, err)
	assert.False(t, hasInlineButton(m.last().Markup, domain.KindMap))
	toast, err = p.ShowMap(ctx, navUpdate(domain.KindMap, 2), s)
	require.NoError(t, err)
	assert.Equal(t, constants.TextNoCoordinates, toast)
}

func TestPager_RemoveLastItem(t *testing.T) {
	ctx := context.Background()
	p, m := newTestPager()
	s := &domain.Session{}
	require.NoError(t, p.Open(ctx, userID, s, domain.BrowseFavorites, pagerItems(2)))
	_, err := p.Navigate(ctx, navUpdate(domain.KindNextPage, 0), s, 1)
	require.NoError(t, err)

	require.NoError(t, p.Remove(ctx, userID, s, 2))
	assert.Equal(t, 0, s.Browse.Page)
	assert.Contains(t, m.last().Text, "Villa 1")

	require.NoError(t, p.Remove(ctx, userID, s, 1))
	assert.Nil(t, s.Browse)
	assert.Empty(t, s.MessageIDs)
	assert.Equal(t, constants.TextFavoritesEmpty, m.last().Text)
}
