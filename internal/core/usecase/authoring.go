package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/0sokrat0/TGSamui/internal/constants"
	"github.com/0sokrat0/TGSamui/internal/core/domain"
	"github.com/0sokrat0/TGSamui/internal/core/port"

	"go.uber.org/zap"
)

// cardStep - шаг создания карточки с текстовым вводом
type cardStep struct {
	step   domain.Step
	prompt string
	markup func() *domain.Markup
	// integer - значение должно быть целым числом
	integer bool
	// price - значение приводится к числу через NormalizePrice
	price bool
	set   func(d *domain.CardDraft, v string)
}

// Порядок шагов после фото. Фото и координаты обрабатываются отдельно.
var cardSteps = []cardStep{
	{step: domain.StepCardLocation, prompt: constants.PromptLocation, set: func(d *domain.CardDraft, v string) { d.Location = v }},
	{step: domain.StepCardCoordinates, prompt: constants.PromptCoordinates, markup: locationMarkup},
	{step: domain.StepCardDistance, prompt: constants.PromptDistance, set: func(d *domain.CardDraft, v string) { d.DistanceToSea = v }},
	{step: domain.StepCardType, prompt: constants.PromptType, set: func(d *domain.CardDraft, v string) { d.PropertyType = v }},
	{step: domain.StepCardMonthlyPrice, prompt: constants.PromptMonthlyPrice, price: true, set: func(d *domain.CardDraft, v string) { d.MonthlyPrice = v }},
	{step: domain.StepCardDailyPrice, prompt: constants.PromptDailyPrice, price: true, set: func(d *domain.CardDraft, v string) { d.DailyPrice = v }},
	{step: domain.StepCardBookingDeposit, prompt: constants.PromptBookingDeposit, set: func(d *domain.CardDraft, v string) { d.BookingDeposit = v }},
	{step: domain.StepCardSecurityDeposit, prompt: constants.PromptSecurityDeposit, set: func(d *domain.CardDraft, v string) { d.SecurityDeposit = v }},
	{step: domain.StepCardBedrooms, prompt: constants.PromptBedrooms, integer: true, set: func(d *domain.CardDraft, v string) { d.Bedrooms = v }},
	{step: domain.StepCardBathrooms, prompt: constants.PromptBathrooms, integer: true, set: func(d *domain.CardDraft, v string) { d.Bathrooms = v }},
	{step: domain.StepCardPool, prompt: constants.PromptPool, markup: yesNoMarkup, set: func(d *domain.CardDraft, v string) { d.Pool = v }},
	{step: domain.StepCardKitchen, prompt: constants.PromptKitchen, markup: yesNoMarkup, set: func(d *domain.CardDraft, v string) { d.Kitchen = v }},
	{step: domain.StepCardCleaning, prompt: constants.PromptCleaning, markup: yesNoMarkup, set: func(d *domain.CardDraft, v string) { d.Cleaning = v }},
	{step: domain.StepCardDescription, prompt: constants.PromptDescription, set: func(d *domain.CardDraft, v string) { d.Description = v }},
	{step: domain.StepCardUtilityBill, prompt: constants.PromptUtilityBill, set: func(d *domain.CardDraft, v string) { d.UtilityBill = v }},
}

func findCardStep(step domain.Step) (int, bool) {
	for i, cs := range cardSteps {
		if cs.step == step {
			return i, true
		}
	}
	return 0, false
}

// AuthoringUseCase ведет сценарии администратора: создание, редактирование и удаление карточек.
type AuthoringUseCase struct {
	properties port.PropertyStoragePort
	messenger  port.Messenger
	coordMode  domain.CoordinateMode
	log        *zap.Logger
}

// NewAuthoringUseCase создает use case карточек.
func NewAuthoringUseCase(
	properties port.PropertyStoragePort,
	messenger port.Messenger,
	coordMode domain.CoordinateMode,
	log *zap.Logger,
) *AuthoringUseCase {
	return &AuthoringUseCase{
		properties: properties,
		messenger:  messenger,
		coordMode:  coordMode,
		log:        log.Named("authoring"),
	}
}

func (uc *AuthoringUseCase) prompt(ctx context.Context, chatID int64, text string, markup *domain.Markup) error {
	if markup == nil {
		markup = removeReplyMarkup()
	}
	_, err := uc.messenger.SendText(ctx, chatID, withCancelHint(text), markup)
	return err
}

// StartCard начинает создание карточки.
func (uc *AuthoringUseCase) StartCard(ctx context.Context, upd domain.Update, s *domain.Session) error {
	s.ResetFlow()
	s.Step = domain.StepCardName
	s.Card = &domain.CardDraft{}
	return uc.prompt(ctx, upd.ChatID, constants.PromptName, nil)
}

// HandleCard принимает ввод для текущего шага создания карточки.
func (uc *AuthoringUseCase) HandleCard(ctx context.Context, upd domain.Update, s *domain.Session) error {
	if s.Card == nil {
		s.ResetFlow()
		return nil
	}
	d := s.Card

	switch s.Step {
	case domain.StepCardName:
		name := strings.TrimSpace(upd.Text)
		if upd.Kind != domain.UpdateText || name == "" || isSkip(name) {
			return uc.prompt(ctx, upd.ChatID, constants.PromptName, nil)
		}
		d.Name = name
		s.Step = domain.StepCardPhoto
		return uc.promptPhoto(ctx, upd.ChatID, d)

	case domain.StepCardPhoto:
		switch {
		case upd.Kind == domain.UpdatePhoto:
			d.Photos = append(d.Photos, upd.Photo)
		case upd.Kind == domain.UpdateText && isSkip(upd.Text):
			d.Photos = append(d.Photos, "")
		default:
			// Посторонний ввод на шаге фото игнорируется
			return nil
		}
		if d.NextPhotoSlot() <= domain.PhotoSlots {
			return uc.promptPhoto(ctx, upd.ChatID, d)
		}
		return uc.enterCardStep(ctx, upd.ChatID, s, 0)

	case domain.StepCardCoordinates:
		switch {
		case upd.Kind == domain.UpdateLocation && upd.Location != nil:
			c := *upd.Location
			d.Coordinates = &c
		case upd.Kind == domain.UpdateText && isSkip(upd.Text):
			d.Coordinates = nil
		case upd.Kind == domain.UpdateText:
			c, err := domain.ParseCoordinates(upd.Text, uc.coordMode)
			if err != nil {
				uc.log.Debug("Authoring: Bad coordinates", zap.String("input", upd.Text), zap.Error(err))
				return uc.prompt(ctx, upd.ChatID, constants.TextBadCoordinates, locationMarkup())
			}
			d.Coordinates = &c
		default:
			return nil
		}
		idx, _ := findCardStep(domain.StepCardCoordinates)
		return uc.enterCardStep(ctx, upd.ChatID, s, idx+1)
	}

	idx, ok := findCardStep(s.Step)
	if !ok {
		s.ResetFlow()
		return nil
	}
	if upd.Kind != domain.UpdateText {
		return nil
	}
	cs := cardSteps[idx]
	value := strings.TrimSpace(upd.Text)
	if isSkip(value) {
		value = ""
	}
	if cs.integer && value != "" {
		if _, err := strconv.Atoi(value); err != nil {
			return uc.prompt(ctx, upd.ChatID, constants.TextBadInteger, nil)
		}
	}
	if cs.price && value != "" {
		normalized, err := domain.NormalizePrice(value)
		if err != nil {
			return uc.prompt(ctx, upd.ChatID, constants.TextBadPrice, nil)
		}
		value = normalized
	}
	cs.set(d, value)

	if idx+1 < len(cardSteps) {
		return uc.enterCardStep(ctx, upd.ChatID, s, idx+1)
	}
	return uc.finishCard(ctx, upd, s)
}

func (uc *AuthoringUseCase) promptPhoto(ctx context.Context, chatID int64, d *domain.CardDraft) error {
	return uc.prompt(ctx, chatID, fmt.Sprintf(constants.PromptPhoto, d.NextPhotoSlot()), skipMarkup())
}

func (uc *AuthoringUseCase) enterCardStep(ctx context.Context, chatID int64, s *domain.Session, idx int) error {
	cs := cardSteps[idx]
	s.Step = cs.step
	var markup *domain.Markup
	if cs.markup != nil {
		markup = cs.markup()
	}
	return uc.prompt(ctx, chatID, cs.prompt, markup)
}

// finishCard записывает карточку одним INSERT и завершает сценарий.
func (uc *AuthoringUseCase) finishCard(ctx context.Context, upd domain.Update, s *domain.Session) error {
	p, err := cardToProperty(s.Card)
	if err != nil {
		return err
	}

	id, err := uc.properties.Create(ctx, p)
	if err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	uc.log.Info("property.created", zap.Int64("property_id", id), zap.String("name", p.Name), zap.Int64("admin_id", upd.UserID))

	s.ResetFlow()
	_, err = uc.messenger.SendText(ctx, upd.ChatID, fmt.Sprintf(constants.TextCardCreated, id), adminPanelMarkup())
	return err
}

// cardToProperty переносит накопленные поля в карточку.
func cardToProperty(d *domain.CardDraft) (domain.Property, error) {
	p := domain.Property{
		Name:            d.Name,
		Location:        d.Location,
		DistanceToSea:   d.DistanceToSea,
		PropertyType:    d.PropertyType,
		MonthlyPrice:    d.MonthlyPrice,
		DailyPrice:      d.DailyPrice,
		BookingDeposit:  d.BookingDeposit,
		SecurityDeposit: d.SecurityDeposit,
		Pool:            d.Pool,
		Kitchen:         d.Kitchen,
		Cleaning:        d.Cleaning,
		Description:     d.Description,
		UtilityBill:     d.UtilityBill,
	}
	copy(p.Photos[:], d.Photos)
	if d.Coordinates != nil {
		lat, lon := d.Coordinates.Latitude, d.Coordinates.Longitude
		p.Latitude, p.Longitude = &lat, &lon
	}

	var err error
	if p.Bedrooms, err = optionalInt(d.Bedrooms); err != nil {
		return domain.Property{}, fmt.Errorf("bedrooms: %w", err)
	}
	if p.Bathrooms, err = optionalInt(d.Bathrooms); err != nil {
		return domain.Property{}, fmt.Errorf("bathrooms: %w", err)
	}
	return p, nil
}

func optionalInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// parseCardID разбирает ID карточки, введенный администратором.
func parseCardID(text string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
