package port

import "context"

// FavoritesPort определяет контракт таблицы избранного (user_id, property_id).
type FavoritesPort interface {
	// Add возвращает false, если связь уже существовала.
	Add(ctx context.Context, userID, propertyID int64) (bool, error)
	// Remove ничего не делает, если связи нет.
	Remove(ctx context.Context, userID, propertyID int64) error
	List(ctx context.Context, userID int64) ([]int64, error)
	Count(ctx context.Context, userID int64) (int, error)
}
