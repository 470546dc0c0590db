package domain

import "time"

// User - пользователь чата
type User struct {
	ID                   int64      `json:"user_id"`
	Username             string     `json:"username"`
	FirstName            string     `json:"first_name"`
	Email                string     `json:"email"`
	Phone                string     `json:"phone_number"`
	NotificationsEnabled bool       `json:"notifications_enabled"`
	LastNotified         *time.Time `json:"last_notified,omitempty"`
	LastActivity         time.Time  `json:"last_activity"`
	CreatedAt            time.Time  `json:"created_at"`
}

// UserStats - простые счетчики для панели администратора
type UserStats struct {
	Total       int
	ActiveWeek  int
	NewThisWeek int
	Subscribed  int
}

// Review - отзыв о карточке. Rating пуст, пока автор не прислал оценку.
type Review struct {
	ID         int64     `json:"review_id"`
	PropertyID int64     `json:"property_id"`
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username"`
	Text       string    `json:"review"`
	Rating     *int      `json:"rating,omitempty"`
	Approved   bool      `json:"approved"`
	CreatedAt  time.Time `json:"created_at"`
}

// Newsletter - рассылка, созданная администратором
type Newsletter struct {
	ID        int64     `json:"id"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Photo     PhotoRef  `json:"photo,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DeliveryKind определяет источник задачи на доставку
type DeliveryKind string

const (
	DeliveryKindDigest     DeliveryKind = "digest"
	DeliveryKindNewsletter DeliveryKind = "newsletter"
)

// DeliveryTask - одно сообщение одному получателю, передаваемое через очередь
type DeliveryTask struct {
	ID     string       `json:"id"`
	Kind   DeliveryKind `json:"kind"`
	ChatID int64        `json:"chat_id"`
	Text   string       `json:"text"`
	Photo  PhotoRef     `json:"photo,omitempty"`
}
