package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/0sokrat0/TGSamui/internal/constants"
	"github.com/0sokrat0/TGSamui/internal/core/domain"

	"go.uber.org/zap"
)

// StartDelete начинает удаление карточки.
func (uc *AuthoringUseCase) StartDelete(ctx context.Context, upd domain.Update, s *domain.Session) error {
	s.ResetFlow()
	s.Step = domain.StepDeleteID
	s.Delete = &domain.DeleteDraft{}
	return uc.prompt(ctx, upd.ChatID, constants.TextEnterCardID, nil)
}

// HandleDelete: ID, затем подтверждение Да/Нет перед удалением.
func (uc *AuthoringUseCase) HandleDelete(ctx context.Context, upd domain.Update, s *domain.Session) error {
	if s.Delete == nil {
		s.ResetFlow()
		return nil
	}
	if upd.Kind != domain.UpdateText {
		return nil
	}

	switch s.Step {
	case domain.StepDeleteID:
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
		s.Delete.PropertyID = p.ID
		s.Delete.Name = p.Name
		s.Step = domain.StepDeleteConfirm
		_, err = uc.messenger.SendText(ctx, upd.ChatID, fmt.Sprintf(constants.TextDeleteConfirm, p.ID, p.Name), yesNoMarkup())
		return err

	case domain.StepDeleteConfirm:
		id := s.Delete.PropertyID
		s.ResetFlow()
		if !isYes(upd.Text) {
			_, err := uc.messenger.SendText(ctx, upd.ChatID, constants.TextDeleteCancelled, adminPanelMarkup())
			return err
		}
		err := uc.properties.Delete(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			_, err := uc.messenger.SendText(ctx, upd.ChatID, constants.TextCardNotFound, adminPanelMarkup())
			return err
		}
		if err != nil {
			return fmt.Errorf("failed to delete property %d: %w", id, err)
		}
		uc.log.Info("Authoring: Property deleted", zap.Int64("property_id", id), zap.Int64("admin_id", upd.UserID))
		_, err = uc.messenger.SendText(ctx, upd.ChatID, fmt.Sprintf(constants.TextDeleteDone, id), adminPanelMarkup())
		return err
	}

	s.ResetFlow()
	return nil
}
