package domain

import (
	"net/url"
	"regexp"
	"strings"
	"time"
)

// PhotoSlots - максимальное количество фотографий в карточке
const PhotoSlots = 9

// PhotoRef - непрозрачный дескриптор фотографии: file_id транспорта или http(s) URL
type PhotoRef string

var fileHandlePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{20,}$`)

// Retrievable сообщает, можно ли отправить фото по этому дескриптору.
func (p PhotoRef) Retrievable() bool {
	s := strings.TrimSpace(string(p))
	if s == "" {
		return false
	}
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		u, err := url.Parse(s)
		return err == nil && u.Host != ""
	}
	return fileHandlePattern.MatchString(s)
}

// Property представляет карточку объекта недвижимости
type Property struct {
	ID              int64                `json:"property_id"`
	Name            string               `json:"name"`
	Photos          [PhotoSlots]PhotoRef `json:"photos"`
	Location        string               `json:"location"`
	Latitude        *float64             `json:"latitude,omitempty"`
	Longitude       *float64             `json:"longitude,omitempty"`
	DistanceToSea   string               `json:"distance_to_sea"`
	PropertyType    string               `json:"property_type"`
	MonthlyPrice    string               `json:"monthly_price"`
	DailyPrice      string               `json:"daily_price"`
	BookingDeposit  string               `json:"booking_deposit_fixed"`
	SecurityDeposit string               `json:"security_deposit"`
	Bedrooms        *int                 `json:"bedrooms,omitempty"`
	Bathrooms       *int                 `json:"bathrooms,omitempty"`
	Pool            string               `json:"pool"`
	Kitchen         string               `json:"kitchen"`
	Cleaning        string               `json:"cleaning"`
	Description     string               `json:"description"`
	UtilityBill     string               `json:"utility_bill"`
	CreatedAt       time.Time            `json:"created_at"`
	Notified        bool                 `json:"notified"`

	// Средний рейтинг по одобренным отзывам, заполняется только при чтении
	AvgRating *float64 `json:"avg_rating,omitempty"`
}

// RetrievablePhotos возвращает фото в порядке слотов, пропуская пустые и недоступные.
func (p Property) RetrievablePhotos() []PhotoRef {
	var out []PhotoRef
	for _, ph := range p.Photos {
		if ph.Retrievable() {
			out = append(out, ph)
		}
	}
	return out
}

// HasCoordinates сообщает, заданы ли обе координаты.
func (p Property) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// PropertySummary - короткая строка для списков администратора
type PropertySummary struct {
	ID   int64
	Name string
}
