package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/0sokrat0/TGSamui/internal/constants"
	"github.com/0sokrat0/TGSamui/internal/core/domain"
	"github.com/0sokrat0/TGSamui/internal/core/port"

	"go.uber.org/zap"
)

// FavoritesUseCase ведет избранное пользователя.
type FavoritesUseCase struct {
	favorites  port.FavoritesPort
	properties port.PropertyStoragePort
	pager      *PagerUseCase
	messenger  port.Messenger
	// 0 - без ограничения
	limit int
	log   *zap.Logger
}

// NewFavoritesUseCase создает use case избранного.
func NewFavoritesUseCase(
	favorites port.FavoritesPort,
	properties port.PropertyStoragePort,
	pager *PagerUseCase,
	messenger port.Messenger,
	limit int,
	log *zap.Logger,
) *FavoritesUseCase {
	return &FavoritesUseCase{
		favorites:  favorites,
		properties: properties,
		pager:      pager,
		messenger:  messenger,
		limit:      limit,
		log:        log.Named("favorites"),
	}
}

// Add добавляет объект в избранное. Повторное добавление возвращает false.
// При заполненном лимите возвращается domain.ErrFavoritesFull.
func (uc *FavoritesUseCase) Add(ctx context.Context, userID, propertyID int64) (bool, error) {
	if uc.limit > 0 {
		count, err := uc.favorites.Count(ctx, userID)
		if err != nil {
			return false, fmt.Errorf("failed to count favorites of user %d: %w", userID, err)
		}
		if count >= uc.limit {
			return false, uc.checkFull(ctx, userID, propertyID, count)
		}
	}

	added, err := uc.favorites.Add(ctx, userID, propertyID)
	if err != nil {
		return false, fmt.Errorf("failed to add favorite %d for user %d: %w", propertyID, userID, err)
	}
	return added, nil
}

// checkFull отличает повторное добавление от переполнения при заполненном лимите.
func (uc *FavoritesUseCase) checkFull(ctx context.Context, userID, propertyID int64, count int) error {
	ids, err := uc.favorites.List(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list favorites of user %d: %w", userID, err)
	}
	for _, id := range ids {
		if id == propertyID {
			return nil
		}
	}
	return fmt.Errorf("user %d has %d favorites: %w", userID, count, domain.ErrFavoritesFull)
}

// Remove убирает объект из избранного. Отсутствие связи не ошибка.
func (uc *FavoritesUseCase) Remove(ctx context.Context, userID, propertyID int64) error {
	if err := uc.favorites.Remove(ctx, userID, propertyID); err != nil {
		return fmt.Errorf("failed to remove favorite %d for user %d: %w", propertyID, userID, err)
	}
	return nil
}

// HandleAdd - нажатие "В избранное".
func (uc *FavoritesUseCase) HandleAdd(ctx context.Context, upd domain.Update, _ *domain.Session) (string, error) {
	added, err := uc.Add(ctx, upd.UserID, upd.Callback.ID)
	switch {
	case errors.Is(err, domain.ErrFavoritesFull):
		return constants.TextFavoritesFull, nil
	case err != nil:
		return "", err
	case !added:
		return constants.TextFavoriteExists, nil
	}
	uc.log.Debug("Favorites: Added", zap.Int64("user_id", upd.UserID), zap.Int64("property_id", upd.Callback.ID))
	return constants.TextFavoriteAdded, nil
}

// HandleRemove - нажатие "Убрать из избранного" в режиме избранного.
func (uc *FavoritesUseCase) HandleRemove(ctx context.Context, upd domain.Update, s *domain.Session) (string, error) {
	if err := uc.Remove(ctx, upd.UserID, upd.Callback.ID); err != nil {
		return "", err
	}
	if s.Browse != nil && s.Browse.Mode == domain.BrowseFavorites {
		if err := uc.pager.Remove(ctx, upd.ChatID, s, upd.Callback.ID); err != nil {
			return "", err
		}
	}
	return constants.TextFavoriteRemoved, nil
}

// Show загружает избранное и открывает его в пейджере.
func (uc *FavoritesUseCase) Show(ctx context.Context, upd domain.Update, s *domain.Session) (string, error) {
	ids, err := uc.favorites.List(ctx, upd.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to list favorites of user %d: %w", upd.UserID, err)
	}
	s.ResetFlow()
	if len(ids) == 0 {
		_, err := uc.messenger.SendText(ctx, upd.ChatID, constants.TextFavoritesEmpty, nil)
		return "", err
	}
	items, err := uc.properties.GetByIDs(ctx, ids)
	if err != nil {
		return "", fmt.Errorf("failed to load favorite properties: %w", err)
	}
	if len(items) == 0 {
		_, err := uc.messenger.SendText(ctx, upd.ChatID, constants.TextFavoritesEmpty, nil)
		return "", err
	}
	return "", uc.pager.Open(ctx, upd.ChatID, s, domain.BrowseFavorites, items)
}
