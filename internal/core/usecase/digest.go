package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/0sokrat0/TGSamui/internal/constants"
	"github.com/0sokrat0/TGSamui/internal/core/domain"
	"github.com/0sokrat0/TGSamui/internal/core/port"

	"go.uber.org/zap"
)

// DigestReport - итог одного прохода дайджеста
type DigestReport struct {
	Properties int
	Recipients int
	Queued     int
}

// DigestUseCase рассылает подписчикам новые карточки.
// Карточки отмечаются только после того, как задачи поставлены всем
// подписчикам. Сбой для части из них повторяет рассылку на следующем
// проходе: возможен дубль, но не потеря.
type DigestUseCase struct {
	properties port.DigestSourcePort
	users      port.UserStoragePort
	queue      port.DeliveryQueuePort
	lastRun    port.LastRunRepositoryPort
	interval   time.Duration
	now        func() time.Time
	log        *zap.Logger
}

// NewDigestUseCase создает задачу дайджеста.
func NewDigestUseCase(
	properties port.DigestSourcePort,
	users port.UserStoragePort,
	queue port.DeliveryQueuePort,
	lastRun port.LastRunRepositoryPort,
	interval time.Duration,
	log *zap.Logger,
) *DigestUseCase {
	return &DigestUseCase{
		properties: properties,
		users:      users,
		queue:      queue,
		lastRun:    lastRun,
		interval:   interval,
		now:        time.Now,
		log:        log.Named("digest"),
	}
}

// Execute выполняет один проход.
func (uc *DigestUseCase) Execute(ctx context.Context) (DigestReport, error) {
	var report DigestReport
	now := uc.now()

	since, err := uc.lastRun.GetLastRunTimestamp(ctx, constants.DigestJobName)
	if err != nil {
		return report, fmt.Errorf("failed to read last digest run: %w", err)
	}

	props, err := uc.properties.UnnotifiedSince(ctx, since)
	if err != nil {
		return report, fmt.Errorf("failed to load new properties: %w", err)
	}
	report.Properties = len(props)
	if len(props) == 0 {
		uc.log.Info("Digest: No new properties", zap.Time("since", since))
		return report, uc.finish(ctx, now)
	}

	users, err := uc.users.SubscribersDue(ctx, now, uc.interval)
	if err != nil {
		return report, fmt.Errorf("failed to load subscribers: %w", err)
	}
	report.Recipients = len(users)

	chunks := digestChunks(props)
	var notified []int64
	var lastErr error
	for _, u := range users {
		if err := uc.enqueueChunks(ctx, u.ID, chunks); err != nil {
			uc.log.Error("Digest: Failed to enqueue delivery", zap.Int64("user_id", u.ID), zap.Error(err))
			lastErr = err
			continue
		}
		notified = append(notified, u.ID)
	}
	report.Queued = len(notified)
	if len(notified) > 0 {
		if err := uc.users.TouchLastNotified(ctx, notified, now); err != nil {
			return report, fmt.Errorf("failed to update last notified: %w", err)
		}
	}
	if lastErr != nil {
		// Карточки остаются неотмеченными, следующий проход повторит рассылку
		return report, fmt.Errorf("failed to enqueue digest for %d of %d users: %w",
			len(users)-len(notified), len(users), lastErr)
	}

	ids := make([]int64, len(props))
	for i, p := range props {
		ids[i] = p.ID
	}
	if err := uc.properties.MarkNotified(ctx, ids); err != nil {
		return report, fmt.Errorf("failed to mark properties notified: %w", err)
	}

	uc.log.Info("Digest: Pass finished",
		zap.Int("properties", report.Properties),
		zap.Int("recipients", report.Recipients),
		zap.Int("queued", report.Queued))
	return report, uc.finish(ctx, now)
}

func (uc *DigestUseCase) finish(ctx context.Context, now time.Time) error {
	if err := uc.lastRun.SetLastRunTimestamp(ctx, constants.DigestJobName, now); err != nil {
		return fmt.Errorf("failed to save digest run time: %w", err)
	}
	return nil
}

// Run выполняет проход каждые interval, пока ctx не отменен.
func (uc *DigestUseCase) Run(ctx context.Context) {
	ticker := time.NewTicker(uc.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := uc.Execute(ctx); err != nil {
				uc.log.Error("Digest: Pass failed", zap.Error(err))
			}
		}
	}
}

func (uc *DigestUseCase) enqueueChunks(ctx context.Context, chatID int64, chunks []string) error {
	for _, text := range chunks {
		task := domain.DeliveryTask{Kind: domain.DeliveryKindDigest, ChatID: chatID, Text: text}
		if err := uc.queue.Enqueue(ctx, task); err != nil {
			return err
		}
	}
	return nil
}

// digestChunks собирает текст дайджеста и режет его на сообщения.
func digestChunks(props []domain.Property) []string {
	lines := make([]string, 0, len(props)+1)
	lines = append(lines, constants.TextDigestHeader)
	for _, p := range props {
		lines = append(lines, digestLine(p))
	}
	return splitMessage(strings.Join(lines, "\n"), maxMessageLen)
}
