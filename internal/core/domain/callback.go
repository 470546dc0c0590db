package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// CallbackKind - дискриминант данных inline-кнопки
type CallbackKind string

const (
	KindPrevPage    CallbackKind = "pp"
	KindNextPage    CallbackKind = "np"
	KindPageInfo    CallbackKind = "pi"
	KindDetails     CallbackKind = "dt"
	KindSummary     CallbackKind = "sm"
	KindMap         CallbackKind = "mp"
	KindFavorite    CallbackKind = "fv"
	KindUnfavorite  CallbackKind = "uf"
	KindReviews     CallbackKind = "rv"
	KindLeaveReview CallbackKind = "lr"
	KindBackToMenu  CallbackKind = "bm"

	KindSearch      CallbackKind = "sr"
	KindFavorites   CallbackKind = "fl"
	KindTopRated    CallbackKind = "tp"
	KindProfile     CallbackKind = "pr"
	KindSubscribe   CallbackKind = "sb"
	KindUnsubscribe CallbackKind = "us"
	KindSetEmail    CallbackKind = "em"

	KindFilterToggle   CallbackKind = "ft"
	KindFilterContinue CallbackKind = "fc"
	KindFilterSkip     CallbackKind = "fs"
	KindFilterBack     CallbackKind = "fb"

	KindEditField     CallbackKind = "ef"
	KindApproveReview CallbackKind = "ar"
	KindRejectReview  CallbackKind = "rr"
)

type callbackShape int

const (
	shapeBare callbackShape = iota
	shapeID
	shapeToggle
	shapeField
)

var callbackShapes = map[CallbackKind]callbackShape{
	KindPrevPage:       shapeBare,
	KindNextPage:       shapeBare,
	KindPageInfo:       shapeBare,
	KindDetails:        shapeID,
	KindSummary:        shapeID,
	KindMap:            shapeID,
	KindFavorite:       shapeID,
	KindUnfavorite:     shapeID,
	KindReviews:        shapeID,
	KindLeaveReview:    shapeID,
	KindBackToMenu:     shapeBare,
	KindSearch:         shapeBare,
	KindFavorites:      shapeBare,
	KindTopRated:       shapeBare,
	KindProfile:        shapeBare,
	KindSubscribe:      shapeBare,
	KindUnsubscribe:    shapeBare,
	KindSetEmail:       shapeBare,
	KindFilterToggle:   shapeToggle,
	KindFilterContinue: shapeBare,
	KindFilterSkip:     shapeBare,
	KindFilterBack:     shapeBare,
	KindEditField:      shapeField,
	KindApproveReview:  shapeID,
	KindRejectReview:   shapeID,
}

const callbackSeparator = ":"

// MaxCallbackLen - ограничение транспорта на длину данных кнопки
const MaxCallbackLen = 64

// Callback - данные inline-кнопки. Заполнены только поля, относящиеся к Kind.
type Callback struct {
	Kind   CallbackKind
	ID     int64
	Option int
	On     bool
	Field  EditField
}

// Encode сериализует кнопку в компактную строку.
func (c Callback) Encode() string {
	switch callbackShapes[c.Kind] {
	case shapeID:
		return string(c.Kind) + callbackSeparator + strconv.FormatInt(c.ID, 10)
	case shapeToggle:
		on := "0"
		if c.On {
			on = "1"
		}
		return string(c.Kind) + callbackSeparator + strconv.Itoa(c.Option) + callbackSeparator + on
	case shapeField:
		return string(c.Kind) + callbackSeparator + string(c.Field)
	}
	return string(c.Kind)
}

// DecodeCallback разбирает и проверяет данные кнопки.
func DecodeCallback(data string) (Callback, error) {
	if data == "" || len(data) > MaxCallbackLen {
		return Callback{}, fmt.Errorf("%w: length %d", ErrInvalidCallback, len(data))
	}

	parts := strings.Split(data, callbackSeparator)
	kind := CallbackKind(parts[0])
	shape, ok := callbackShapes[kind]
	if !ok {
		return Callback{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidCallback, parts[0])
	}

	args := parts[1:]
	cb := Callback{Kind: kind}
	switch shape {
	case shapeBare:
		if len(args) != 0 {
			return Callback{}, fmt.Errorf("%w: %q takes no arguments", ErrInvalidCallback, kind)
		}
	case shapeID:
		if len(args) != 1 {
			return Callback{}, fmt.Errorf("%w: %q takes an id", ErrInvalidCallback, kind)
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return Callback{}, fmt.Errorf("%w: bad id %q", ErrInvalidCallback, args[0])
		}
		cb.ID = id
	case shapeToggle:
		if len(args) != 2 {
			return Callback{}, fmt.Errorf("%w: %q takes option and flag", ErrInvalidCallback, kind)
		}
		opt, err := strconv.Atoi(args[0])
		if err != nil || opt < 0 {
			return Callback{}, fmt.Errorf("%w: bad option %q", ErrInvalidCallback, args[0])
		}
		switch args[1] {
		case "0":
		case "1":
			cb.On = true
		default:
			return Callback{}, fmt.Errorf("%w: bad flag %q", ErrInvalidCallback, args[1])
		}
		cb.Option = opt
	case shapeField:
		if len(args) != 1 {
			return Callback{}, fmt.Errorf("%w: %q takes a field", ErrInvalidCallback, kind)
		}
		field, err := ParseEditField(args[0])
		if err != nil {
			return Callback{}, fmt.Errorf("%w: %v", ErrInvalidCallback, err)
		}
		cb.Field = field
	}
	return cb, nil
}
