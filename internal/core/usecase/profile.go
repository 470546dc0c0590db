package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/0sokrat0/TGSamui/internal/constants"
	"github.com/0sokrat0/TGSamui/internal/core/domain"
	"github.com/0sokrat0/TGSamui/internal/core/port"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Минимальная длина адреса вида a@b.c
const minEmailLen = 5

// ProfileUseCase регистрирует пользователей и ведет их профиль и подписку.
type ProfileUseCase struct {
	users     port.UserStoragePort
	messenger port.Messenger
	now       func() time.Time
	log       *zap.Logger
}

// NewProfileUseCase создает use case профиля.
func NewProfileUseCase(users port.UserStoragePort, messenger port.Messenger, log *zap.Logger) *ProfileUseCase {
	return &ProfileUseCase{users: users, messenger: messenger, now: time.Now, log: log.Named("profile")}
}

// Welcome регистрирует пользователя и показывает главное меню.
func (uc *ProfileUseCase) Welcome(ctx context.Context, upd domain.Update) error {
	err := uc.users.Upsert(ctx, domain.User{
		ID:           upd.UserID,
		Username:     upd.Username,
		FirstName:    upd.FirstName,
		LastActivity: uc.now(),
	})
	if err != nil {
		return fmt.Errorf("failed to register user %d: %w", upd.UserID, err)
	}
	return uc.MainMenu(ctx, upd.ChatID, upd.UserID, constants.TextWelcome)
}

// MainMenu отправляет главное меню с актуальной кнопкой подписки.
func (uc *ProfileUseCase) MainMenu(ctx context.Context, chatID, userID int64, text string) error {
	_, err := uc.messenger.SendText(ctx, chatID, text, mainMenuMarkup(uc.Subscribed(ctx, userID)))
	return err
}

// Subscribed сообщает, подписан ли пользователь. Ошибка чтения считается "не подписан".
func (uc *ProfileUseCase) Subscribed(ctx context.Context, userID int64) bool {
	u, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			uc.log.Warn("Profile: Failed to read user", zap.Int64("user_id", userID), zap.Error(err))
		}
		return false
	}
	return u.NotificationsEnabled
}

// SetSubscription включает или выключает дайджест новинок.
func (uc *ProfileUseCase) SetSubscription(ctx context.Context, upd domain.Update, enabled bool) (string, error) {
	if err := uc.users.SetNotifications(ctx, upd.UserID, enabled); err != nil {
		return "", fmt.Errorf("failed to change subscription of user %d: %w", upd.UserID, err)
	}
	text := constants.TextUnsubscribed
	if enabled {
		text = constants.TextSubscribed
	}
	if upd.MessageID != 0 {
		if err := uc.messenger.EditMessageText(ctx, upd.ChatID, upd.MessageID, constants.TextMainMenu, mainMenuMarkup(enabled)); err != nil {
			uc.log.Debug("Profile: Menu not updated", zap.Error(err))
		}
	}
	return text, nil
}

// Show показывает профиль и предлагает поделиться номером.
func (uc *ProfileUseCase) Show(ctx context.Context, upd domain.Update, _ *domain.Session) (string, error) {
	u, err := uc.users.GetByID(ctx, upd.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		u = domain.User{ID: upd.UserID, FirstName: upd.FirstName}
	} else if err != nil {
		return "", fmt.Errorf("failed to load user %d: %w", upd.UserID, err)
	}

	subscription := "нет"
	if u.NotificationsEnabled {
		subscription = "да"
	}
	text := fmt.Sprintf(constants.TextProfile, orDash(u.FirstName), notSet(u.Email), notSet(u.Phone), subscription)
	markup := domain.InlineMarkup(
		[]domain.Button{domain.CallbackButton(constants.MenuSetEmail, domain.Callback{Kind: domain.KindSetEmail})},
		[]domain.Button{domain.CallbackButton(constants.ButtonBackToMenu, domain.Callback{Kind: domain.KindBackToMenu})},
	)
	if _, err := uc.messenger.SendText(ctx, upd.ChatID, text, markup); err != nil {
		return "", err
	}
	_, err = uc.messenger.SendText(ctx, upd.ChatID, constants.TextSharePhone, contactMarkup())
	return "", err
}

func notSet(s string) string {
	if strings.TrimSpace(s) == "" {
		return constants.TextNotSet
	}
	return s
}

// StartEmail начинает ввод email.
func (uc *ProfileUseCase) StartEmail(ctx context.Context, upd domain.Update, s *domain.Session) (string, error) {
	s.ResetFlow()
	s.Step = domain.StepProfileEmail
	s.Profile = &domain.ProfileDraft{}
	_, err := uc.messenger.SendText(ctx, upd.ChatID, withCancelHint(constants.TextEnterEmail), nil)
	return "", err
}

// Handle принимает email и его подтверждение.
func (uc *ProfileUseCase) Handle(ctx context.Context, upd domain.Update, s *domain.Session) error {
	if s.Profile == nil {
		s.ResetFlow()
		return nil
	}
	if upd.Kind != domain.UpdateText {
		return nil
	}

	switch s.Step {
	case domain.StepProfileEmail:
		email := strings.TrimSpace(upd.Text)
		if !validEmail(email) {
			_, err := uc.messenger.SendText(ctx, upd.ChatID, constants.TextBadEmail, nil)
			return err
		}
		s.Profile.Email = email
		s.Step = domain.StepProfileEmailConfirm
		_, err := uc.messenger.SendText(ctx, upd.ChatID, fmt.Sprintf(constants.TextEmailConfirm, email), yesNoMarkup())
		return err

	case domain.StepProfileEmailConfirm:
		email := s.Profile.Email
		s.ResetFlow()
		if !isYes(upd.Text) {
			_, err := uc.messenger.SendText(ctx, upd.ChatID, constants.TextCancelled, removeReplyMarkup())
			return err
		}
		if err := uc.users.SetEmail(ctx, upd.UserID, email); err != nil {
			return fmt.Errorf("failed to save email of user %d: %w", upd.UserID, err)
		}
		_, err := uc.messenger.SendText(ctx, upd.ChatID, constants.TextEmailSaved, removeReplyMarkup())
		return err
	}

	s.ResetFlow()
	return nil
}

var emailValidator = validator.New()

// validEmail проверяет формат адреса и требует точку в домене.
func validEmail(email string) bool {
	if len(email) < minEmailLen || emailValidator.Var(email, "required,email") != nil {
		return false
	}
	at := strings.LastIndex(email, "@")
	return at > 0 && strings.Contains(email[at+1:], ".")
}

// SavePhone сохраняет номер из присланного контакта.
func (uc *ProfileUseCase) SavePhone(ctx context.Context, upd domain.Update) error {
	phone := strings.TrimSpace(upd.Phone)
	if phone == "" {
		return nil
	}
	if err := uc.users.SetPhone(ctx, upd.UserID, phone); err != nil {
		return fmt.Errorf("failed to save phone of user %d: %w", upd.UserID, err)
	}
	_, err := uc.messenger.SendText(ctx, upd.ChatID, constants.TextPhoneSaved, removeReplyMarkup())
	return err
}
