package domain

import "fmt"

// EditField - поле карточки, доступное для редактирования
type EditField string

// FieldInput определяет, какой ввод ожидается при редактировании поля
type FieldInput int

const (
	FieldInputText FieldInput = iota
	FieldInputInt
	FieldInputPhoto
	FieldInputCoordinates
	FieldInputPrice
)

const FieldCoordinates EditField = "coordinates"

// EditFieldSpec описывает поле: подпись на кнопке, столбцы и тип ввода
type EditFieldSpec struct {
	Field   EditField
	Label   string
	Columns []string
	Input   FieldInput
	// Слот фото, 1..9, только для FieldInputPhoto
	PhotoSlot int
}

var editFields = buildEditFields()

func buildEditFields() []EditFieldSpec {
	specs := []EditFieldSpec{
		{Field: "name", Label: "Название", Columns: []string{"name"}},
	}
	for i := 1; i <= PhotoSlots; i++ {
		col := fmt.Sprintf("photo%d", i)
		specs = append(specs, EditFieldSpec{
			Field: EditField(col), Label: fmt.Sprintf("Фото %d", i),
			Columns: []string{col}, Input: FieldInputPhoto, PhotoSlot: i,
		})
	}
	return append(specs,
		EditFieldSpec{Field: "location", Label: "Расположение", Columns: []string{"location"}},
		EditFieldSpec{Field: FieldCoordinates, Label: "Координаты", Columns: []string{"latitude", "longitude"}, Input: FieldInputCoordinates},
		EditFieldSpec{Field: "distance_to_sea", Label: "До моря", Columns: []string{"distance_to_sea"}},
		EditFieldSpec{Field: "property_type", Label: "Тип жилья", Columns: []string{"property_type"}},
		EditFieldSpec{Field: "monthly_price", Label: "Цена/месяц", Columns: []string{"monthly_price"}, Input: FieldInputPrice},
		EditFieldSpec{Field: "daily_price", Label: "Цена/сутки", Columns: []string{"daily_price"}, Input: FieldInputPrice},
		EditFieldSpec{Field: "booking_deposit_fixed", Label: "Депозит брони", Columns: []string{"booking_deposit_fixed"}},
		EditFieldSpec{Field: "security_deposit", Label: "Залог", Columns: []string{"security_deposit"}},
		EditFieldSpec{Field: "bedrooms", Label: "Спальни", Columns: []string{"bedrooms"}, Input: FieldInputInt},
		EditFieldSpec{Field: "bathrooms", Label: "Ванные", Columns: []string{"bathrooms"}, Input: FieldInputInt},
		EditFieldSpec{Field: "pool", Label: "Бассейн", Columns: []string{"pool"}},
		EditFieldSpec{Field: "kitchen", Label: "Кухня", Columns: []string{"kitchen"}},
		EditFieldSpec{Field: "cleaning", Label: "Уборка", Columns: []string{"cleaning"}},
		EditFieldSpec{Field: "description", Label: "Описание", Columns: []string{"description"}},
		EditFieldSpec{Field: "utility_bill", Label: "Коммунальные", Columns: []string{"utility_bill"}},
	)
}

// EditFields возвращает все редактируемые поля в порядке сетки кнопок.
func EditFields() []EditFieldSpec {
	out := make([]EditFieldSpec, len(editFields))
	copy(out, editFields)
	return out
}

// ParseEditField проверяет имя поля по списку разрешенных.
func ParseEditField(name string) (EditField, error) {
	if _, ok := LookupEditField(EditField(name)); ok {
		return EditField(name), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEditField, name)
}

// LookupEditField возвращает описание поля.
func LookupEditField(f EditField) (EditFieldSpec, bool) {
	for _, s := range editFields {
		if s.Field == f {
			return s, true
		}
	}
	return EditFieldSpec{}, false
}

// FieldValue возвращает текущее значение поля для показа администратору.
func (p Property) FieldValue(f EditField) string {
	spec, ok := LookupEditField(f)
	if !ok {
		return ""
	}
	switch spec.Input {
	case FieldInputPhoto:
		if p.Photos[spec.PhotoSlot-1] == "" {
			return "нет фото"
		}
		return string(p.Photos[spec.PhotoSlot-1])
	case FieldInputCoordinates:
		if !p.HasCoordinates() {
			return "не заданы"
		}
		return Coordinates{Latitude: *p.Latitude, Longitude: *p.Longitude}.String()
	case FieldInputInt:
		v := p.Bedrooms
		if f == "bathrooms" {
			v = p.Bathrooms
		}
		if v == nil {
			return ""
		}
		return fmt.Sprintf("%d", *v)
	}

	switch f {
	case "name":
		return p.Name
	case "location":
		return p.Location
	case "distance_to_sea":
		return p.DistanceToSea
	case "property_type":
		return p.PropertyType
	case "monthly_price":
		return p.MonthlyPrice
	case "daily_price":
		return p.DailyPrice
	case "booking_deposit_fixed":
		return p.BookingDeposit
	case "security_deposit":
		return p.SecurityDeposit
	case "pool":
		return p.Pool
	case "kitchen":
		return p.Kitchen
	case "cleaning":
		return p.Cleaning
	case "description":
		return p.Description
	case "utility_bill":
		return p.UtilityBill
	}
	return ""
}

// FieldChange - новое значение поля, собранное в процессе редактирования
type FieldChange struct {
	Field       EditField    `json:"field"`
	Text        string       `json:"text,omitempty"`
	Number      *int         `json:"number,omitempty"`
	Photo       PhotoRef     `json:"photo,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// Assignments возвращает столбцы и значения для UPDATE. Пустые значения пишутся как NULL.
func (c FieldChange) Assignments() ([]string, []any, error) {
	spec, ok := LookupEditField(c.Field)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownEditField, c.Field)
	}

	switch spec.Input {
	case FieldInputPhoto:
		return spec.Columns, []any{nullableString(string(c.Photo))}, nil
	case FieldInputInt:
		return spec.Columns, []any{c.Number}, nil
	case FieldInputCoordinates:
		if c.Coordinates == nil {
			return spec.Columns, []any{nil, nil}, nil
		}
		return spec.Columns, []any{c.Coordinates.Latitude, c.Coordinates.Longitude}, nil
	}
	return spec.Columns, []any{nullableString(c.Text)}, nil
}

// Display возвращает новое значение в виде текста для подтверждения.
func (c FieldChange) Display() string {
	spec, _ := LookupEditField(c.Field)
	switch spec.Input {
	case FieldInputPhoto:
		if c.Photo == "" {
			return "нет фото"
		}
		return "новое фото"
	case FieldInputInt:
		if c.Number == nil {
			return ""
		}
		return fmt.Sprintf("%d", *c.Number)
	case FieldInputCoordinates:
		if c.Coordinates == nil {
			return "не заданы"
		}
		return c.Coordinates.String()
	}
	return c.Text
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
