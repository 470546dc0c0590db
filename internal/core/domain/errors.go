package domain

import "errors"

// ErrNotFound - запрошенная запись отсутствует в хранилище
var ErrNotFound = errors.New("not found")

// ErrMessageNotFound - транспорт не нашел сообщение для удаления
var ErrMessageNotFound = errors.New("message to delete not found")

// ErrFavoritesFull - достигнут лимит избранного пользователя
var ErrFavoritesFull = errors.New("favorites limit reached")

// Ошибки формата пользовательского ввода
var (
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
	ErrInvalidRating       = errors.New("rating must be an integer from 1 to 5")
	ErrInvalidCallback     = errors.New("invalid callback payload")
	ErrInvalidPriceBracket = errors.New("invalid price bracket")
	ErrInvalidPrice        = errors.New("invalid price")
	ErrUnknownEditField    = errors.New("unknown edit field")
)
