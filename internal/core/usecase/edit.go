package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/0sokrat0/TGSamui/internal/constants"
	"github.com/0sokrat0/TGSamui/internal/core/domain"

	"go.uber.org/zap"
)

// Кнопок полей в одном ряду
const editFieldsPerRow = 3

// StartEdit начинает редактирование карточки.
func (uc *AuthoringUseCase) StartEdit(ctx context.Context, upd domain.Update, s *domain.Session) error {
	s.ResetFlow()
	s.Step = domain.StepEditID
	s.Edit = &domain.EditDraft{}
	return uc.prompt(ctx, upd.ChatID, constants.TextEnterCardID, nil)
}

// HandleEdit принимает ввод для текущего шага редактирования.
func (uc *AuthoringUseCase) HandleEdit(ctx context.Context, upd domain.Update, s *domain.Session) error {
	if s.Edit == nil {
		s.ResetFlow()
		return nil
	}
	switch s.Step {
	case domain.StepEditID:
		return uc.editID(ctx, upd, s)
	case domain.StepEditField:
		// Поле выбирается кнопкой
		return uc.prompt(ctx, upd.ChatID, constants.TextChooseEditField, nil)
	case domain.StepEditValue:
		return uc.editValue(ctx, upd, s)
	case domain.StepEditConfirm:
		return uc.editConfirm(ctx, upd, s)
	}
	s.ResetFlow()
	return nil
}

func (uc *AuthoringUseCase) editID(ctx context.Context, upd domain.Update, s *domain.Session) error {
	if upd.Kind != domain.UpdateText {
		return nil
	}
	id, ok := parseCardID(upd.Text)
	if !ok {
		return uc.prompt(ctx, upd.ChatID, constants.TextBadCardID, nil)
	}

	p, err := uc.properties.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		s.ResetFlow()
		_, err := uc.messenger.SendText(ctx, upd.ChatID, constants.TextCardNotFound, adminPanelMarkup())
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to load property %d: %w", id, err)
	}

	s.Edit.PropertyID = id
	s.Edit.Original = &p
	s.Step = domain.StepEditField

	if _, err := uc.messenger.SendText(ctx, upd.ChatID, propertyDetails(p), removeReplyMarkup()); err != nil {
		return err
	}
	_, err = uc.messenger.SendText(ctx, upd.ChatID, constants.TextChooseEditField, editFieldsMarkup())
	return err
}

// SelectField - нажатие кнопки поля в сетке редактирования.
func (uc *AuthoringUseCase) SelectField(ctx context.Context, upd domain.Update, s *domain.Session) (string, error) {
	if s.Step != domain.StepEditField || s.Edit == nil {
		return constants.TextStaleButton, nil
	}
	spec, ok := domain.LookupEditField(upd.Callback.Field)
	if !ok {
		return constants.TextStaleButton, nil
	}

	s.Edit.Change = &domain.FieldChange{Field: spec.Field}
	s.Step = domain.StepEditValue

	switch spec.Input {
	case domain.FieldInputPhoto:
		return "", uc.prompt(ctx, upd.ChatID, fmt.Sprintf(constants.PromptEditPhoto, spec.Label), skipMarkup())
	case domain.FieldInputCoordinates:
		return "", uc.prompt(ctx, upd.ChatID, constants.PromptCoordinates, locationMarkup())
	}
	return "", uc.prompt(ctx, upd.ChatID, fmt.Sprintf(constants.PromptEditValue, spec.Label), nil)
}

func (uc *AuthoringUseCase) editValue(ctx context.Context, upd domain.Update, s *domain.Session) error {
	change := s.Edit.Change
	if change == nil {
		s.ResetFlow()
		return nil
	}
	spec, ok := domain.LookupEditField(change.Field)
	if !ok {
		s.ResetFlow()
		return nil
	}

	switch spec.Input {
	case domain.FieldInputPhoto:
		switch {
		case upd.Kind == domain.UpdatePhoto:
			change.Photo = upd.Photo
		case upd.Kind == domain.UpdateText && isSkip(upd.Text):
			change.Photo = ""
		default:
			return uc.prompt(ctx, upd.ChatID, constants.TextPhotoExpected, skipMarkup())
		}

	case domain.FieldInputCoordinates:
		switch {
		case upd.Kind == domain.UpdateLocation && upd.Location != nil:
			c := *upd.Location
			change.Coordinates = &c
		case upd.Kind == domain.UpdateText && isSkip(upd.Text):
			change.Coordinates = nil
		case upd.Kind == domain.UpdateText:
			c, err := domain.ParseCoordinates(upd.Text, uc.coordMode)
			if err != nil {
				return uc.prompt(ctx, upd.ChatID, constants.TextBadCoordinates, locationMarkup())
			}
			change.Coordinates = &c
		default:
			return nil
		}

	case domain.FieldInputInt:
		if upd.Kind != domain.UpdateText {
			return nil
		}
		text := strings.TrimSpace(upd.Text)
		if isSkip(text) {
			change.Number = nil
			break
		}
		n, err := strconv.Atoi(text)
		if err != nil {
			return uc.prompt(ctx, upd.ChatID, constants.TextBadInteger, nil)
		}
		change.Number = &n

	case domain.FieldInputPrice:
		if upd.Kind != domain.UpdateText {
			return nil
		}
		text := strings.TrimSpace(upd.Text)
		if isSkip(text) {
			change.Text = ""
			break
		}
		price, err := domain.NormalizePrice(text)
		if err != nil {
			return uc.prompt(ctx, upd.ChatID, constants.TextBadPrice, nil)
		}
		change.Text = price

	default:
		if upd.Kind != domain.UpdateText {
			return nil
		}
		change.Text = strings.TrimSpace(upd.Text)
	}

	s.Step = domain.StepEditConfirm
	old := ""
	if s.Edit.Original != nil {
		old = s.Edit.Original.FieldValue(change.Field)
	}
	text := fmt.Sprintf(constants.TextEditConfirm, spec.Label, old, change.Display())
	_, err := uc.messenger.SendText(ctx, upd.ChatID, text, yesNoMarkup())
	return err
}

func (uc *AuthoringUseCase) editConfirm(ctx context.Context, upd domain.Update, s *domain.Session) error {
	if upd.Kind != domain.UpdateText {
		return nil
	}
	id, change := s.Edit.PropertyID, s.Edit.Change
	s.ResetFlow()

	if !isYes(upd.Text) || change == nil {
		_, err := uc.messenger.SendText(ctx, upd.ChatID, constants.TextEditCancelled, adminPanelMarkup())
		return err
	}

	err := uc.properties.Update(ctx, id, *change)
	if errors.Is(err, domain.ErrNotFound) {
		_, err := uc.messenger.SendText(ctx, upd.ChatID, constants.TextCardNotFound, adminPanelMarkup())
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to update property %d: %w", id, err)
	}
	uc.log.Info("Authoring: Property field updated",
		zap.Int64("property_id", id), zap.String("field", string(change.Field)), zap.Int64("admin_id", upd.UserID))

	spec, _ := domain.LookupEditField(change.Field)
	_, err = uc.messenger.SendText(ctx, upd.ChatID, fmt.Sprintf(constants.TextEditDone, spec.Label), adminPanelMarkup())
	return err
}

// editFieldsMarkup - сетка кнопок разрешенных полей.
func editFieldsMarkup() *domain.Markup {
	var rows [][]domain.Button
	var row []domain.Button
	for _, spec := range domain.EditFields() {
		row = append(row, domain.CallbackButton(spec.Label, domain.Callback{Kind: domain.KindEditField, Field: spec.Field}))
		if len(row) == editFieldsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return domain.InlineMarkup(rows...)
}
