package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/0sokrat0/TGSamui/internal/constants"
	"github.com/0sokrat0/TGSamui/internal/core/domain"
	"github.com/0sokrat0/TGSamui/internal/core/port"

	"go.uber.org/zap"
)

// ReviewsUseCase собирает отзывы, показывает одобренные и ведет модерацию.
type ReviewsUseCase struct {
	reviews    port.ReviewStoragePort
	properties port.PropertyStoragePort
	messenger  port.Messenger
	admins     []int64
	log        *zap.Logger
}

// NewReviewsUseCase создает use case отзывов.
func NewReviewsUseCase(
	reviews port.ReviewStoragePort,
	properties port.PropertyStoragePort,
	messenger port.Messenger,
	admins []int64,
	log *zap.Logger,
) *ReviewsUseCase {
	return &ReviewsUseCase{
		reviews:    reviews,
		properties: properties,
		messenger:  messenger,
		admins:     admins,
		log:        log.Named("reviews"),
	}
}

// Start начинает отзыв к объекту. Незавершенный прошлый отзыв остается
// неодобренным без оценки.
func (uc *ReviewsUseCase) Start(ctx context.Context, upd domain.Update, s *domain.Session) (string, error) {
	s.ResetFlow()
	s.Step = domain.StepReviewText
	s.Review = &domain.ReviewDraft{PropertyID: upd.Callback.ID}
	_, err := uc.messenger.SendText(ctx, upd.ChatID, withCancelHint(constants.TextEnterReview), nil)
	return "", err
}

// Handle принимает текст отзыва, затем оценку.
func (uc *ReviewsUseCase) Handle(ctx context.Context, upd domain.Update, s *domain.Session) error {
	if s.Review == nil {
		s.ResetFlow()
		return nil
	}
	if upd.Kind != domain.UpdateText {
		return nil
	}

	switch s.Step {
	case domain.StepReviewText:
		text := strings.TrimSpace(upd.Text)
		if text == "" {
			_, err := uc.messenger.SendText(ctx, upd.ChatID, withCancelHint(constants.TextEnterReview), nil)
			return err
		}
		id, err := uc.reviews.Create(ctx, domain.Review{
			PropertyID: s.Review.PropertyID,
			UserID:     upd.UserID,
			Username:   displayName(upd),
			Text:       text,
		})
		if err != nil {
			return fmt.Errorf("failed to save review: %w", err)
		}
		s.Review.ReviewID = id
		s.Step = domain.StepReviewRating
		_, err = uc.messenger.SendText(ctx, upd.ChatID, withCancelHint(constants.TextEnterRating), ratingMarkup())
		return err

	case domain.StepReviewRating:
		rating, err := parseRating(upd.Text)
		if err != nil {
			_, err := uc.messenger.SendText(ctx, upd.ChatID, constants.TextBadRating, ratingMarkup())
			return err
		}
		reviewID := s.Review.ReviewID
		if err := uc.reviews.SetRating(ctx, reviewID, rating); err != nil {
			return fmt.Errorf("failed to rate review %d: %w", reviewID, err)
		}
		s.ResetFlow()
		uc.notifyAdmins(ctx, reviewID)
		_, err = uc.messenger.SendText(ctx, upd.ChatID, constants.TextReviewSent, removeReplyMarkup())
		return err
	}

	s.ResetFlow()
	return nil
}

// parseRating принимает целое число от 1 до 5.
func parseRating(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 1 || n > maxRatingStars {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidRating, text)
	}
	return n, nil
}

// notifyAdmins отправляет отзыв администраторам на модерацию. Ошибки только логируются.
func (uc *ReviewsUseCase) notifyAdmins(ctx context.Context, reviewID int64) {
	if len(uc.admins) == 0 {
		return
	}
	r, err := uc.reviews.GetByID(ctx, reviewID)
	if err != nil {
		uc.log.Error("Reviews: Failed to load review for moderation", zap.Int64("review_id", reviewID), zap.Error(err))
		return
	}
	name := fmt.Sprintf("ID %d", r.PropertyID)
	if p, err := uc.properties.GetByID(ctx, r.PropertyID); err == nil {
		name = p.Name
	}
	text := fmt.Sprintf(constants.TextModeration, r.ID, name, r.PropertyID, r.Username, formatOptionalRating(r.Rating), r.Text)
	for _, admin := range uc.admins {
		if _, err := uc.messenger.SendText(ctx, admin, text, moderationMarkup(r.ID)); err != nil {
			uc.log.Warn("Reviews: Failed to notify admin", zap.Int64("admin_id", admin), zap.Error(err))
		}
	}
}

// Show отправляет одобренные отзывы объекта.
func (uc *ReviewsUseCase) Show(ctx context.Context, upd domain.Update, _ *domain.Session) (string, error) {
	propertyID := upd.Callback.ID
	list, err := uc.reviews.ListApproved(ctx, propertyID)
	if err != nil {
		return "", fmt.Errorf("failed to list reviews of property %d: %w", propertyID, err)
	}
	if len(list) == 0 {
		return constants.TextReviewsEmpty, nil
	}

	title := fmt.Sprintf("ID %d", propertyID)
	if p, err := uc.properties.GetByID(ctx, propertyID); err == nil {
		title = p.Name
	} else if !errors.Is(err, domain.ErrNotFound) {
		return "", fmt.Errorf("failed to load property %d: %w", propertyID, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, constants.TextReviewsHeader, title)
	total := 0
	rated := 0
	for _, r := range list {
		fmt.Fprintf(&b, "\n\n%s %s\n%s", formatOptionalRating(r.Rating), r.Username, r.Text)
		if r.Rating != nil {
			total += *r.Rating
			rated++
		}
	}
	if rated > 0 {
		fmt.Fprintf(&b, "\n\n⭐ Средняя оценка: %.1f", float64(total)/float64(rated))
	}

	for _, chunk := range splitMessage(b.String(), maxMessageLen) {
		if _, err := uc.messenger.SendText(ctx, upd.ChatID, chunk, nil); err != nil {
			return "", err
		}
	}
	return "", nil
}

// ListPending отправляет администратору отзывы, ожидающие модерации.
func (uc *ReviewsUseCase) ListPending(ctx context.Context, upd domain.Update) error {
	pending, err := uc.reviews.ListPending(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pending reviews: %w", err)
	}
	if len(pending) == 0 {
		_, err := uc.messenger.SendText(ctx, upd.ChatID, constants.TextPendingEmpty, adminPanelMarkup())
		return err
	}
	for _, r := range pending {
		text := fmt.Sprintf(constants.TextPendingItem, r.ID, r.PropertyID, r.Username, formatOptionalRating(r.Rating), r.Text)
		if _, err := uc.messenger.SendText(ctx, upd.ChatID, text, moderationMarkup(r.ID)); err != nil {
			return err
		}
	}
	return nil
}

// Approve одобряет отзыв.
func (uc *ReviewsUseCase) Approve(ctx context.Context, upd domain.Update, _ *domain.Session) (string, error) {
	id := upd.Callback.ID
	err := uc.reviews.Approve(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return constants.TextStaleButton, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to approve review %d: %w", id, err)
	}
	return uc.settle(ctx, upd, fmt.Sprintf(constants.TextReviewApproved, id))
}

// Reject удаляет отзыв.
func (uc *ReviewsUseCase) Reject(ctx context.Context, upd domain.Update, _ *domain.Session) (string, error) {
	id := upd.Callback.ID
	err := uc.reviews.Delete(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return constants.TextStaleButton, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to reject review %d: %w", id, err)
	}
	return uc.settle(ctx, upd, fmt.Sprintf(constants.TextReviewRejected, id))
}

// settle заменяет сообщение модерации результатом.
func (uc *ReviewsUseCase) settle(ctx context.Context, upd domain.Update, result string) (string, error) {
	uc.log.Info("Reviews: Moderated", zap.Int64("review_id", upd.Callback.ID), zap.Int64("admin_id", upd.UserID), zap.String("result", result))
	if upd.MessageID != 0 {
		if err := uc.messenger.EditMessageText(ctx, upd.ChatID, upd.MessageID, result, nil); err != nil {
			uc.log.Warn("Reviews: Failed to update moderation message", zap.Error(err))
		}
	}
	return result, nil
}

func moderationMarkup(reviewID int64) *domain.Markup {
	return domain.InlineMarkup([]domain.Button{
		domain.CallbackButton(constants.ButtonApprove, domain.Callback{Kind: domain.KindApproveReview, ID: reviewID}),
		domain.CallbackButton(constants.ButtonReject, domain.Callback{Kind: domain.KindRejectReview, ID: reviewID}),
	})
}

func ratingMarkup() *domain.Markup {
	row := make([]domain.ReplyButton, 0, maxRatingStars)
	for i := 1; i <= maxRatingStars; i++ {
		row = append(row, domain.ReplyButton{Text: strconv.Itoa(i)})
	}
	return domain.ReplyMarkup(row)
}

func displayName(upd domain.Update) string {
	if upd.Username != "" {
		return "@" + upd.Username
	}
	if upd.FirstName != "" {
		return upd.FirstName
	}
	return fmt.Sprintf("id%d", upd.UserID)
}
