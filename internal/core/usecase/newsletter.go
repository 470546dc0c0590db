package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/0sokrat0/TGSamui/internal/constants"
	"github.com/0sokrat0/TGSamui/internal/core/domain"
	"github.com/0sokrat0/TGSamui/internal/core/port"

	"go.uber.org/zap"
)

// NewsletterUseCase ведет создание рассылки и раздает ее подписчикам через очередь.
type NewsletterUseCase struct {
	newsletters port.NewsletterStoragePort
	users       port.UserStoragePort
	queue       port.DeliveryQueuePort
	messenger   port.Messenger
	log         *zap.Logger
}

// NewNewsletterUseCase создает use case рассылки.
func NewNewsletterUseCase(
	newsletters port.NewsletterStoragePort,
	users port.UserStoragePort,
	queue port.DeliveryQueuePort,
	messenger port.Messenger,
	log *zap.Logger,
) *NewsletterUseCase {
	return &NewsletterUseCase{
		newsletters: newsletters,
		users:       users,
		queue:       queue,
		messenger:   messenger,
		log:         log.Named("newsletter"),
	}
}

// Start начинает создание рассылки.
func (uc *NewsletterUseCase) Start(ctx context.Context, upd domain.Update, s *domain.Session) error {
	s.ResetFlow()
	s.Step = domain.StepNewsletterSubject
	s.Newsletter = &domain.NewsletterDraft{}
	_, err := uc.messenger.SendText(ctx, upd.ChatID, withCancelHint(constants.TextNewsletterTopic), removeReplyMarkup())
	return err
}

// Handle: тема, текст, фото или пропуск, затем подтверждение.
func (uc *NewsletterUseCase) Handle(ctx context.Context, upd domain.Update, s *domain.Session) error {
	d := s.Newsletter
	if d == nil {
		s.ResetFlow()
		return nil
	}

	switch s.Step {
	case domain.StepNewsletterSubject, domain.StepNewsletterMessage:
		text := strings.TrimSpace(upd.Text)
		if upd.Kind != domain.UpdateText || text == "" {
			return nil
		}
		if s.Step == domain.StepNewsletterSubject {
			d.Subject = text
			s.Step = domain.StepNewsletterMessage
			_, err := uc.messenger.SendText(ctx, upd.ChatID, withCancelHint(constants.TextNewsletterBody), nil)
			return err
		}
		d.Message = text
		s.Step = domain.StepNewsletterPhoto
		_, err := uc.messenger.SendText(ctx, upd.ChatID, withCancelHint(constants.TextNewsletterPhoto), skipMarkup())
		return err

	case domain.StepNewsletterPhoto:
		switch {
		case upd.Kind == domain.UpdatePhoto:
			d.Photo = upd.Photo
		case upd.Kind == domain.UpdateText && isSkip(upd.Text):
			d.Photo = ""
		default:
			return nil
		}
		s.Step = domain.StepNewsletterConfirm
		return uc.preview(ctx, upd.ChatID, d)

	case domain.StepNewsletterConfirm:
		if upd.Kind != domain.UpdateText {
			return nil
		}
		draft := *d
		s.ResetFlow()
		if !isYes(upd.Text) {
			_, err := uc.messenger.SendText(ctx, upd.ChatID, constants.TextCancelled, adminPanelMarkup())
			return err
		}
		queued, err := uc.Publish(ctx, draft)
		if err != nil {
			return err
		}
		_, err = uc.messenger.SendText(ctx, upd.ChatID, fmt.Sprintf(constants.TextNewsletterQueued, queued), adminPanelMarkup())
		return err
	}

	s.ResetFlow()
	return nil
}

func (uc *NewsletterUseCase) preview(ctx context.Context, chatID int64, d *domain.NewsletterDraft) error {
	text := newsletterText(d.Subject, d.Message)
	var err error
	if d.Photo != "" {
		_, err = uc.messenger.SendPhoto(ctx, chatID, d.Photo, text, nil)
	} else {
		_, err = uc.messenger.SendText(ctx, chatID, text, nil)
	}
	if err != nil {
		return err
	}
	_, err = uc.messenger.SendText(ctx, chatID, constants.TextNewsletterReady, yesNoMarkup())
	return err
}

// Publish сохраняет рассылку и ставит в очередь по задаче на каждого подписчика.
// Возвращает число поставленных задач.
func (uc *NewsletterUseCase) Publish(ctx context.Context, d domain.NewsletterDraft) (int, error) {
	id, err := uc.newsletters.Create(ctx, domain.Newsletter{Subject: d.Subject, Message: d.Message, Photo: d.Photo})
	if err != nil {
		return 0, fmt.Errorf("failed to save newsletter: %w", err)
	}

	subscribers, err := uc.users.Subscribers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list subscribers: %w", err)
	}

	text := newsletterText(d.Subject, d.Message)
	queued := 0
	var lastErr error
	for _, u := range subscribers {
		task := domain.DeliveryTask{Kind: domain.DeliveryKindNewsletter, ChatID: u.ID, Text: text, Photo: d.Photo}
		if err := uc.queue.Enqueue(ctx, task); err != nil {
			uc.log.Error("Newsletter: Failed to enqueue delivery", zap.Int64("user_id", u.ID), zap.Error(err))
			lastErr = err
			continue
		}
		queued++
	}
	if queued == 0 && lastErr != nil {
		return 0, fmt.Errorf("failed to enqueue newsletter %d: %w", id, lastErr)
	}

	uc.log.Info("Newsletter: Queued", zap.Int64("newsletter_id", id), zap.Int("recipients", queued), zap.Int("subscribers", len(subscribers)))
	return queued, nil
}

func newsletterText(subject, message string) string {
	return fmt.Sprintf("📢 %s\n\n%s", subject, message)
}
