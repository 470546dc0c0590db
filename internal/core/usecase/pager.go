package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/0sokrat0/TGSamui/internal/constants"
	"github.com/0sokrat0/TGSamui/internal/core/domain"
	"github.com/0sokrat0/TGSamui/internal/core/port"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Сколько сообщений удаляется одновременно при перерисовке
const cleanupConcurrency = 5

// PagerUseCase показывает один элемент материализованного списка с навигацией.
type PagerUseCase struct {
	messenger port.Messenger
	log       *zap.Logger
}

// NewPagerUseCase создает пейджер.
func NewPagerUseCase(messenger port.Messenger, log *zap.Logger) *PagerUseCase {
	return &PagerUseCase{messenger: messenger, log: log.Named("pager")}
}

// Open показывает первый элемент нового списка.
func (uc *PagerUseCase) Open(ctx context.Context, chatID int64, s *domain.Session, mode domain.BrowseMode, items []domain.Property) error {
	s.Browse = &domain.BrowseState{Mode: mode, Properties: items}
	return uc.Render(ctx, chatID, s)
}

// Render удаляет сообщения прошлой отрисовки и показывает текущий элемент:
// альбом фото с текстом в подписи и сообщение с кнопками.
func (uc *PagerUseCase) Render(ctx context.Context, chatID int64, s *domain.Session) error {
	item, ok := s.Browse.Current()
	if !ok {
		_, err := uc.messenger.SendText(ctx, chatID, constants.TextNoResults, nil)
		return err
	}

	text := uc.itemText(s.Browse, item)
	markup := pagerMarkup(s.Browse, item)

	if err := uc.cleanup(ctx, chatID, s.MessageIDs); err != nil {
		uc.log.Warn("Pager: Cleanup failed, rendering plain text", zap.Int64("chat_id", chatID), zap.Error(err))
		return uc.renderPlain(ctx, chatID, s, text, markup)
	}
	s.MessageIDs = nil

	photos := item.RetrievablePhotos()
	if len(photos) == 0 {
		return uc.renderPlain(ctx, chatID, s, text, markup)
	}

	ids, err := uc.messenger.SendMediaGroup(ctx, chatID, photos, text)
	if err != nil {
		uc.log.Warn("Pager: Carousel failed, rendering plain text",
			zap.Int64("chat_id", chatID), zap.Int64("property_id", item.ID), zap.Error(err))
		return uc.renderPlain(ctx, chatID, s, text, markup)
	}
	s.MessageIDs = append(s.MessageIDs, ids...)

	actionID, err := uc.messenger.SendText(ctx, chatID, constants.TextChooseAction, markup)
	if err != nil {
		return fmt.Errorf("failed to send pager actions: %w", err)
	}
	s.MessageIDs = append(s.MessageIDs, actionID)
	s.Browse.Carousel = len(ids)
	return nil
}

func (uc *PagerUseCase) renderPlain(ctx context.Context, chatID int64, s *domain.Session, text string, markup *domain.Markup) error {
	id, err := uc.messenger.SendText(ctx, chatID, text, markup)
	if err != nil {
		return fmt.Errorf("failed to render property: %w", err)
	}
	s.MessageIDs = append(s.MessageIDs, id)
	s.Browse.Carousel = 0
	return nil
}

// cleanup удаляет сообщения прошлой отрисовки. Уже удаленные сообщения пропускаются.
func (uc *PagerUseCase) cleanup(ctx context.Context, chatID int64, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cleanupConcurrency)
	for _, id := range ids {
		g.Go(func() error {
			err := uc.messenger.DeleteMessage(gctx, chatID, id)
			if errors.Is(err, domain.ErrMessageNotFound) {
				uc.log.Warn("Pager: Message already deleted", zap.Int64("chat_id", chatID), zap.Int("message_id", id))
				return nil
			}
			if err != nil {
				return fmt.Errorf("delete message %d: %w", id, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (uc *PagerUseCase) itemText(b *domain.BrowseState, item domain.Property) string {
	if b.Detail {
		return propertyDetails(item)
	}
	return propertySummary(item)
}

// Navigate листает список на delta. За границами списка показывается
// уведомление, состояние не меняется.
func (uc *PagerUseCase) Navigate(ctx context.Context, upd domain.Update, s *domain.Session, delta int) (string, error) {
	if s.Browse == nil || len(s.Browse.Properties) == 0 {
		return constants.TextStaleButton, nil
	}
	next := s.Browse.Page + delta
	if next < 0 {
		return constants.TextFirstPage, nil
	}
	if next >= len(s.Browse.Properties) {
		return constants.TextLastPage, nil
	}
	s.Browse.Page = next
	s.Browse.Detail = false
	return "", uc.Render(ctx, upd.ChatID, s)
}

// ToggleDetails переключает полный и краткий вид текущего элемента.
// Если прошлая отрисовка этого элемента жива, сообщения правятся на месте.
func (uc *PagerUseCase) ToggleDetails(ctx context.Context, upd domain.Update, s *domain.Session, detail bool) (string, error) {
	item, ok := uc.currentItem(s, upd.Callback)
	if !ok {
		return constants.TextStaleButton, nil
	}
	s.Browse.Detail = detail

	if err := uc.editInPlace(ctx, upd.ChatID, s, item); err != nil {
		uc.log.Debug("Pager: In-place edit failed, re-rendering", zap.Int64("chat_id", upd.ChatID), zap.Error(err))
		return "", uc.Render(ctx, upd.ChatID, s)
	}
	return "", nil
}

func (uc *PagerUseCase) editInPlace(ctx context.Context, chatID int64, s *domain.Session, item domain.Property) error {
	b := s.Browse
	text := uc.itemText(b, item)
	markup := pagerMarkup(b, item)

	if b.Carousel == 0 {
		if len(s.MessageIDs) != 1 {
			return fmt.Errorf("expected one message, have %d", len(s.MessageIDs))
		}
		return uc.messenger.EditMessageText(ctx, chatID, s.MessageIDs[0], text, markup)
	}

	photos := item.RetrievablePhotos()
	if len(s.MessageIDs) != b.Carousel+1 || len(photos) == 0 {
		return fmt.Errorf("previous render does not match the item")
	}
	if err := uc.messenger.EditMessageMedia(ctx, chatID, s.MessageIDs[0], photos[0], text); err != nil {
		return err
	}
	return uc.messenger.EditMessageText(ctx, chatID, s.MessageIDs[len(s.MessageIDs)-1], constants.TextChooseAction, markup)
}

// ShowMap отправляет ссылку на карту для текущего элемента.
func (uc *PagerUseCase) ShowMap(ctx context.Context, upd domain.Update, s *domain.Session) (string, error) {
	item, ok := uc.currentItem(s, upd.Callback)
	if !ok {
		return constants.TextStaleButton, nil
	}
	if !item.HasCoordinates() {
		return constants.TextNoCoordinates, nil
	}
	lat, lon := *item.Latitude, *item.Longitude
	link := fmt.Sprintf(constants.MapURLTemplate, lat, lon, lat, lon)
	_, err := uc.messenger.SendText(ctx, upd.ChatID, fmt.Sprintf(constants.TextMapLink, item.Name, link), nil)
	return "", err
}

// currentItem возвращает текущий элемент, если кнопка относится к нему.
func (uc *PagerUseCase) currentItem(s *domain.Session, cb *domain.Callback) (domain.Property, bool) {
	if s.Browse == nil || cb == nil {
		return domain.Property{}, false
	}
	item, ok := s.Browse.Current()
	if !ok || item.ID != cb.ID {
		return domain.Property{}, false
	}
	return item, true
}

// Remove убирает элемент из списка и перерисовывает пейджер.
func (uc *PagerUseCase) Remove(ctx context.Context, chatID int64, s *domain.Session, propertyID int64) error {
	if s.Browse == nil {
		return nil
	}
	kept := s.Browse.Properties[:0]
	for _, p := range s.Browse.Properties {
		if p.ID != propertyID {
			kept = append(kept, p)
		}
	}
	s.Browse.Properties = kept
	if s.Browse.Page >= len(kept) && s.Browse.Page > 0 {
		s.Browse.Page = len(kept) - 1
	}
	if len(kept) == 0 {
		if err := uc.cleanup(ctx, chatID, s.MessageIDs); err != nil {
			uc.log.Warn("Pager: Cleanup failed", zap.Int64("chat_id", chatID), zap.Error(err))
		}
		s.MessageIDs = nil
		s.Browse = nil
		_, err := uc.messenger.SendText(ctx, chatID, constants.TextFavoritesEmpty, nil)
		return err
	}
	return uc.Render(ctx, chatID, s)
}
