package schema

import "time"

// Модели описывают схему для миграций. Рабочие запросы выполняются через pgx.

type Property struct {
	PropertyID          int64     `gorm:"column:property_id;primaryKey;autoIncrement"`
	Name                *string   `gorm:"column:name"`
	Photo1              *string   `gorm:"column:photo1"`
	Photo2              *string   `gorm:"column:photo2"`
	Photo3              *string   `gorm:"column:photo3"`
	Photo4              *string   `gorm:"column:photo4"`
	Photo5              *string   `gorm:"column:photo5"`
	Photo6              *string   `gorm:"column:photo6"`
	Photo7              *string   `gorm:"column:photo7"`
	Photo8              *string   `gorm:"column:photo8"`
	Photo9              *string   `gorm:"column:photo9"`
	Location            *string   `gorm:"column:location"`
	Latitude            *float64  `gorm:"column:latitude"`
	Longitude           *float64  `gorm:"column:longitude"`
	DistanceToSea       *string   `gorm:"column:distance_to_sea"`
	PropertyType        *string   `gorm:"column:property_type;index"`
	MonthlyPrice        *string   `gorm:"column:monthly_price"`
	DailyPrice          *string   `gorm:"column:daily_price"`
	BookingDepositFixed *string   `gorm:"column:booking_deposit_fixed"`
	SecurityDeposit     *string   `gorm:"column:security_deposit"`
	Bedrooms            *int64    `gorm:"column:bedrooms"`
	Bathrooms           *int64    `gorm:"column:bathrooms"`
	Pool                *string   `gorm:"column:pool"`
	Kitchen             *string   `gorm:"column:kitchen"`
	Cleaning            *string   `gorm:"column:cleaning"`
	Description         *string   `gorm:"column:description"`
	UtilityBill         *string   `gorm:"column:utility_bill"`
	CreatedAt           time.Time `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP;index"`
	Notified            bool      `gorm:"column:notified;not null;default:false"`
}

func (Property) TableName() string { return "properties" }

type User struct {
	UserID               int64      `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	Username             *string    `gorm:"column:username"`
	FirstName            *string    `gorm:"column:first_name"`
	Email                *string    `gorm:"column:email"`
	PhoneNumber          *string    `gorm:"column:phone_number"`
	NotificationsEnabled bool       `gorm:"column:notifications_enabled;not null;default:false"`
	LastNotified         *time.Time `gorm:"column:last_notified"`
	LastActivity         time.Time  `gorm:"column:last_activity;not null;default:CURRENT_TIMESTAMP"`
	CreatedAt            time.Time  `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
}

func (User) TableName() string { return "users" }

// Favorite - связь пользователя и карточки, не более одной на пару
type Favorite struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID     int64     `gorm:"column:user_id;not null;uniqueIndex:idx_favorites_user_property"`
	PropertyID int64     `gorm:"column:property_id;not null;uniqueIndex:idx_favorites_user_property"`
	CreatedAt  time.Time `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`

	Property Property `gorm:"foreignKey:PropertyID;references:PropertyID;constraint:OnDelete:CASCADE"`
}

func (Favorite) TableName() string { return "favorites" }

type Review struct {
	ReviewID   int64     `gorm:"column:review_id;primaryKey;autoIncrement"`
	PropertyID int64     `gorm:"column:property_id;not null;index"`
	UserID     int64     `gorm:"column:user_id;not null"`
	Username   *string   `gorm:"column:username"`
	Review     string    `gorm:"column:review;not null"`
	Rating     *int64    `gorm:"column:rating;check:chk_reviews_rating,rating BETWEEN 1 AND 5"`
	Approved   bool      `gorm:"column:approved;not null;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`

	Property Property `gorm:"foreignKey:PropertyID;references:PropertyID;constraint:OnDelete:CASCADE"`
}

func (Review) TableName() string { return "reviews" }

type Newsletter struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Subject   string    `gorm:"column:subject;not null"`
	Message   string    `gorm:"column:message;not null"`
	Photo     *string   `gorm:"column:photo"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
}

func (Newsletter) TableName() string { return "newsletters" }

// JobLastRun - время последнего успешного запуска фоновой задачи
type JobLastRun struct {
	JobName          string    `gorm:"column:job_name;primaryKey"`
	LastRunTimestamp time.Time `gorm:"column:last_run_timestamp;not null"`
}

func (JobLastRun) TableName() string { return "job_last_runs" }
