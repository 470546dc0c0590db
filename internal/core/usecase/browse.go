package usecase

import (
	"context"
	"fmt"

	"github.com/0sokrat0/TGSamui/internal/constants"
	"github.com/0sokrat0/TGSamui/internal/core/domain"
	"github.com/0sokrat0/TGSamui/internal/core/port"

	"go.uber.org/zap"
)

// Размер подборки лучших объектов
const topRatedLimit = 10

var filterTitles = map[domain.FilterStep]string{
	domain.FilterRentType:  constants.FilterTitleRentType,
	domain.FilterType:      constants.FilterTitleType,
	domain.FilterDistrict:  constants.FilterTitleDistrict,
	domain.FilterBedrooms:  constants.FilterTitleBedrooms,
	domain.FilterBathrooms: constants.FilterTitleBathrooms,
	domain.FilterPrice:     constants.FilterTitlePrice,
}

// BrowseUseCase ведет мастер фильтров и передает результаты пейджеру.
type BrowseUseCase struct {
	properties port.PropertyStoragePort
	messenger  port.Messenger
	pager      *PagerUseCase
	catalog    domain.Catalog
	log        *zap.Logger
}

// NewBrowseUseCase создает use case поиска.
func NewBrowseUseCase(
	properties port.PropertyStoragePort,
	messenger port.Messenger,
	pager *PagerUseCase,
	catalog domain.Catalog,
	log *zap.Logger,
) *BrowseUseCase {
	return &BrowseUseCase{
		properties: properties,
		messenger:  messenger,
		pager:      pager,
		catalog:    catalog,
		log:        log.Named("browse"),
	}
}

// Start открывает первый экран фильтров.
func (uc *BrowseUseCase) Start(ctx context.Context, upd domain.Update, s *domain.Session) (string, error) {
	s.ResetFlow()
	s.Step = domain.StepFilter
	s.Filter = domain.NewFilterDraft()

	text, markup := uc.screen(s.Filter)
	id, err := uc.messenger.SendText(ctx, upd.ChatID, text, markup)
	if err != nil {
		return "", err
	}
	s.Filter.MessageID = id
	return "", nil
}

// Toggle отмечает или снимает вариант на текущем экране.
func (uc *BrowseUseCase) Toggle(ctx context.Context, upd domain.Update, s *domain.Session) (string, error) {
	d, ok := uc.draft(s)
	if !ok {
		return constants.TextStaleButton, nil
	}
	cb := upd.Callback
	if cb.Option >= len(uc.catalog.Options(d.Step, d)) {
		return constants.TextStaleButton, nil
	}

	d.Toggle(d.Step, cb.Option, cb.On)
	if d.Step == domain.FilterRentType {
		// Индексы ценовых диапазонов зависят от вида аренды
		delete(d.Selected, domain.FilterPrice)
	}
	return "", uc.redraw(ctx, upd, d)
}

// Continue переходит к следующему экрану. На обязательных экранах нужен выбор.
func (uc *BrowseUseCase) Continue(ctx context.Context, upd domain.Update, s *domain.Session) (string, error) {
	d, ok := uc.draft(s)
	if !ok {
		return constants.TextStaleButton, nil
	}
	if d.Step.RequiresSelection() && len(d.Selected[d.Step]) == 0 {
		return constants.FilterNeedSelection, nil
	}
	return uc.advance(ctx, upd, s)
}

// Skip переходит дальше, сохраняя выбор.
func (uc *BrowseUseCase) Skip(ctx context.Context, upd domain.Update, s *domain.Session) (string, error) {
	if _, ok := uc.draft(s); !ok {
		return constants.TextStaleButton, nil
	}
	return uc.advance(ctx, upd, s)
}

// Back возвращает на предыдущий экран, с первого экрана - в главное меню.
func (uc *BrowseUseCase) Back(ctx context.Context, upd domain.Update, s *domain.Session, subscribed bool) (string, error) {
	d, ok := uc.draft(s)
	if !ok {
		return constants.TextStaleButton, nil
	}
	prev, ok := domain.PreviousFilterStep(d.Step)
	if !ok {
		messageID := d.MessageID
		s.ResetFlow()
		return "", uc.messenger.EditMessageText(ctx, upd.ChatID, messageID, constants.TextMainMenu, mainMenuMarkup(subscribed))
	}
	d.Step = prev
	return "", uc.redraw(ctx, upd, d)
}

func (uc *BrowseUseCase) advance(ctx context.Context, upd domain.Update, s *domain.Session) (string, error) {
	d := s.Filter
	next, ok := domain.NextFilterStep(d.Step)
	if !ok {
		return "", uc.finish(ctx, upd, s)
	}
	d.Step = next
	return "", uc.redraw(ctx, upd, d)
}

// finish строит фильтр, выполняет поиск и открывает пейджер.
func (uc *BrowseUseCase) finish(ctx context.Context, upd domain.Update, s *domain.Session) error {
	filter, err := s.Filter.Resolve(uc.catalog)
	if err != nil {
		return fmt.Errorf("failed to resolve filters: %w", err)
	}

	items, err := uc.properties.Search(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to search properties: %w", err)
	}
	uc.log.Debug("Browse: Search finished",
		zap.Int64("chat_id", upd.ChatID),
		zap.Strings("types", filter.Types),
		zap.Strings("districts", filter.Districts),
		zap.Int("results", len(items)))

	s.ResetFlow()
	return uc.pager.Open(ctx, upd.ChatID, s, domain.BrowseSearch, items)
}

// TopRated открывает в пейджере объекты с лучшим средним рейтингом.
func (uc *BrowseUseCase) TopRated(ctx context.Context, upd domain.Update, s *domain.Session) (string, error) {
	items, err := uc.properties.TopRated(ctx, topRatedLimit)
	if err != nil {
		return "", fmt.Errorf("failed to load top rated properties: %w", err)
	}
	if len(items) == 0 {
		_, err := uc.messenger.SendText(ctx, upd.ChatID, constants.TextTopRatedEmpty, nil)
		return "", err
	}
	s.ResetFlow()
	return "", uc.pager.Open(ctx, upd.ChatID, s, domain.BrowseTopRated, items)
}

func (uc *BrowseUseCase) draft(s *domain.Session) (*domain.FilterDraft, bool) {
	if s.Step != domain.StepFilter || s.Filter == nil {
		return nil, false
	}
	return s.Filter, true
}

func (uc *BrowseUseCase) redraw(ctx context.Context, upd domain.Update, d *domain.FilterDraft) error {
	messageID := d.MessageID
	if messageID == 0 {
		messageID = upd.MessageID
	}
	text, markup := uc.screen(d)
	return uc.messenger.EditMessageText(ctx, upd.ChatID, messageID, text, markup)
}

// screen рисует текущий экран фильтра: варианты с отметками и кнопки управления.
func (uc *BrowseUseCase) screen(d *domain.FilterDraft) (string, *domain.Markup) {
	var rows [][]domain.Button
	for i, opt := range uc.catalog.Options(d.Step, d) {
		selected := d.IsSelected(d.Step, i)
		glyph := constants.GlyphUnselected
		if selected {
			glyph = constants.GlyphSelected
		}
		rows = append(rows, []domain.Button{domain.CallbackButton(
			glyph+" "+opt.Label,
			domain.Callback{Kind: domain.KindFilterToggle, Option: i, On: !selected},
		)})
	}
	rows = append(rows, []domain.Button{
		domain.CallbackButton(constants.ButtonBack, domain.Callback{Kind: domain.KindFilterBack}),
		domain.CallbackButton(constants.ButtonSkip, domain.Callback{Kind: domain.KindFilterSkip}),
		domain.CallbackButton(constants.ButtonContinue, domain.Callback{Kind: domain.KindFilterContinue}),
	})
	return filterTitles[d.Step], domain.InlineMarkup(rows...)
}
