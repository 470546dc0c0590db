package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/0sokrat0/TGSamui/internal/constants"
	"github.com/0sokrat0/TGSamui/internal/core/domain"
	"github.com/0sokrat0/TGSamui/internal/core/port"
)

// AdminUseCase - справочные экраны панели администратора.
type AdminUseCase struct {
	properties port.PropertyStoragePort
	users      port.UserStoragePort
	messenger  port.Messenger
	now        func() time.Time
}

// NewAdminUseCase создает use case панели администратора.
func NewAdminUseCase(properties port.PropertyStoragePort, users port.UserStoragePort, messenger port.Messenger) *AdminUseCase {
	return &AdminUseCase{properties: properties, users: users, messenger: messenger, now: time.Now}
}

// Panel показывает клавиатуру администратора.
func (uc *AdminUseCase) Panel(ctx context.Context, upd domain.Update) error {
	_, err := uc.messenger.SendText(ctx, upd.ChatID, constants.TextAdminPanel, adminPanelMarkup())
	return err
}

// ListCards отправляет список всех карточек "ID: x, Название: y".
func (uc *AdminUseCase) ListCards(ctx context.Context, upd domain.Update) error {
	list, err := uc.properties.ListSummaries(ctx)
	if err != nil {
		return fmt.Errorf("failed to list properties: %w", err)
	}
	if len(list) == 0 {
		_, err := uc.messenger.SendText(ctx, upd.ChatID, constants.TextListCardsEmpty, adminPanelMarkup())
		return err
	}

	lines := make([]string, 0, len(list))
	for _, p := range list {
		lines = append(lines, fmt.Sprintf("ID: %d, Название: %s", p.ID, p.Name))
	}
	for _, chunk := range splitMessage(strings.Join(lines, "\n"), maxMessageLen) {
		if _, err := uc.messenger.SendText(ctx, upd.ChatID, chunk, adminPanelMarkup()); err != nil {
			return err
		}
	}
	return nil
}

// Analytics отправляет счетчики пользователей.
func (uc *AdminUseCase) Analytics(ctx context.Context, upd domain.Update) error {
	st, err := uc.users.Stats(ctx, uc.now())
	if err != nil {
		return fmt.Errorf("failed to collect user stats: %w", err)
	}
	text := fmt.Sprintf(constants.TextAnalytics, st.Total, st.ActiveWeek, st.NewThisWeek, st.Subscribed)
	_, err = uc.messenger.SendText(ctx, upd.ChatID, text, adminPanelMarkup())
	return err
}
