package domain

import (
	"fmt"
	"strings"
)

// SessionKey - ключ сессии диалога
type SessionKey struct {
	ChatID int64
	UserID int64
}

func (k SessionKey) String() string {
	return fmt.Sprintf("%d:%d", k.ChatID, k.UserID)
}

// Step - позиция диалога в одном из сценариев
type Step string

const (
	StepIdle Step = ""

	// Создание карточки
	StepCardName            Step = "card.name"
	StepCardPhoto           Step = "card.photo"
	StepCardLocation        Step = "card.location"
	StepCardCoordinates     Step = "card.coordinates"
	StepCardDistance        Step = "card.distance"
	StepCardType            Step = "card.type"
	StepCardMonthlyPrice    Step = "card.monthly_price"
	StepCardDailyPrice      Step = "card.daily_price"
	StepCardBookingDeposit  Step = "card.booking_deposit"
	StepCardSecurityDeposit Step = "card.security_deposit"
	StepCardBedrooms        Step = "card.bedrooms"
	StepCardBathrooms       Step = "card.bathrooms"
	StepCardPool            Step = "card.pool"
	StepCardKitchen         Step = "card.kitchen"
	StepCardCleaning        Step = "card.cleaning"
	StepCardDescription     Step = "card.description"
	StepCardUtilityBill     Step = "card.utility_bill"

	// Редактирование и удаление
	StepEditID      Step = "edit.id"
	StepEditField   Step = "edit.field"
	StepEditValue   Step = "edit.value"
	StepEditConfirm Step = "edit.confirm"

	StepDeleteID      Step = "delete.id"
	StepDeleteConfirm Step = "delete.confirm"

	// Фильтры
	StepFilter Step = "filter"

	// Отзывы
	StepReviewText   Step = "review.text"
	StepReviewRating Step = "review.rating"

	// Рассылка
	StepNewsletterSubject Step = "newsletter.subject"
	StepNewsletterMessage Step = "newsletter.message"
	StepNewsletterPhoto   Step = "newsletter.photo"
	StepNewsletterConfirm Step = "newsletter.confirm"

	// Профиль
	StepProfileEmail        Step = "profile.email"
	StepProfileEmailConfirm Step = "profile.email_confirm"
)

// Flow возвращает имя сценария, к которому относится шаг ("card", "edit", ...).
func (s Step) Flow() string {
	flow, _, _ := strings.Cut(string(s), ".")
	return flow
}

// AdminFlow сообщает, относится ли шаг к сценарию администратора.
func (s Step) AdminFlow() bool {
	switch s.Flow() {
	case "card", "edit", "delete", "newsletter":
		return true
	}
	return false
}

// CardDraft - накопитель создания карточки
type CardDraft struct {
	Name            string       `json:"name,omitempty"`
	Photos          []PhotoRef   `json:"photos,omitempty"`
	Location        string       `json:"location,omitempty"`
	Coordinates     *Coordinates `json:"coordinates,omitempty"`
	DistanceToSea   string       `json:"distance_to_sea,omitempty"`
	PropertyType    string       `json:"property_type,omitempty"`
	MonthlyPrice    string       `json:"monthly_price,omitempty"`
	DailyPrice      string       `json:"daily_price,omitempty"`
	BookingDeposit  string       `json:"booking_deposit,omitempty"`
	SecurityDeposit string       `json:"security_deposit,omitempty"`
	Bedrooms        string       `json:"bedrooms,omitempty"`
	Bathrooms       string       `json:"bathrooms,omitempty"`
	Pool            string       `json:"pool,omitempty"`
	Kitchen         string       `json:"kitchen,omitempty"`
	Cleaning        string       `json:"cleaning,omitempty"`
	Description     string       `json:"description,omitempty"`
	UtilityBill     string       `json:"utility_bill,omitempty"`
}

// NextPhotoSlot возвращает номер слота (1..9), который ожидает фото.
func (d *CardDraft) NextPhotoSlot() int {
	return len(d.Photos) + 1
}

// EditDraft - накопитель редактирования
type EditDraft struct {
	PropertyID int64        `json:"property_id"`
	Original   *Property    `json:"original,omitempty"`
	Change     *FieldChange `json:"change,omitempty"`
}

// DeleteDraft - накопитель удаления
type DeleteDraft struct {
	PropertyID int64  `json:"property_id"`
	Name       string `json:"name"`
}

// ReviewDraft - накопитель отзыва. ReviewID заполняется после вставки текста.
type ReviewDraft struct {
	PropertyID int64 `json:"property_id"`
	ReviewID   int64 `json:"review_id,omitempty"`
}

// NewsletterDraft - накопитель рассылки
type NewsletterDraft struct {
	Subject string   `json:"subject,omitempty"`
	Message string   `json:"message,omitempty"`
	Photo   PhotoRef `json:"photo,omitempty"`
}

// ProfileDraft - накопитель изменения профиля
type ProfileDraft struct {
	Email string `json:"email,omitempty"`
}

// BrowseMode - источник списка, который листает пейджер
type BrowseMode string

const (
	BrowseSearch    BrowseMode = "search"
	BrowseFavorites BrowseMode = "favorites"
	BrowseTopRated  BrowseMode = "top"
)

// BrowseState - материализованный список и курсор пейджера
type BrowseState struct {
	Mode       BrowseMode `json:"mode"`
	Properties []Property `json:"properties"`
	Page       int        `json:"page"`
	Detail     bool       `json:"detail"`
	// Сколько фото было в последнем показанном альбоме
	Carousel int `json:"carousel"`
}

// Current возвращает текущий элемент; ok=false, если курсор вне списка.
func (b *BrowseState) Current() (Property, bool) {
	if b == nil || b.Page < 0 || b.Page >= len(b.Properties) {
		return Property{}, false
	}
	return b.Properties[b.Page], true
}

// Session - рабочая память одного диалога
type Session struct {
	Step       Step             `json:"step"`
	Card       *CardDraft       `json:"card,omitempty"`
	Edit       *EditDraft       `json:"edit,omitempty"`
	Delete     *DeleteDraft     `json:"delete,omitempty"`
	Filter     *FilterDraft     `json:"filter,omitempty"`
	Review     *ReviewDraft     `json:"review,omitempty"`
	Newsletter *NewsletterDraft `json:"newsletter,omitempty"`
	Profile    *ProfileDraft    `json:"profile,omitempty"`
	Browse     *BrowseState     `json:"browse,omitempty"`
	MessageIDs []int            `json:"message_ids,omitempty"`
}

// ResetFlow сбрасывает активный сценарий, сохраняя состояние пейджера и
// список сообщений для последующей очистки.
func (s *Session) ResetFlow() {
	s.Step = StepIdle
	s.Card = nil
	s.Edit = nil
	s.Delete = nil
	s.Filter = nil
	s.Review = nil
	s.Newsletter = nil
	s.Profile = nil
}

// Active сообщает, идет ли сейчас какой-либо сценарий.
func (s *Session) Active() bool {
	return s.Step != StepIdle
}

// Empty сообщает, что в сессии нечего хранить.
func (s *Session) Empty() bool {
	return !s.Active() && s.Card == nil && s.Edit == nil && s.Delete == nil &&
		s.Filter == nil && s.Review == nil && s.Newsletter == nil && s.Profile == nil &&
		s.Browse == nil && len(s.MessageIDs) == 0
}
