package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// DefaultPriceCeiling - верхняя граница цены для открытых диапазонов и отсутствующего фильтра
const DefaultPriceCeiling = 2_000_000

// FilterStep - экран мастера фильтров
type FilterStep string

const (
	FilterRentType  FilterStep = "rent_type"
	FilterType      FilterStep = "property_type"
	FilterDistrict  FilterStep = "district"
	FilterBedrooms  FilterStep = "bedrooms"
	FilterBathrooms FilterStep = "bathrooms"
	FilterPrice     FilterStep = "price"
)

// FilterSteps - порядок экранов
var FilterSteps = []FilterStep{FilterRentType, FilterType, FilterDistrict, FilterBedrooms, FilterBathrooms, FilterPrice}

// filterBack - таблица "шаг -> предыдущий шаг". Первый шаг возвращает в меню.
var filterBack = map[FilterStep]FilterStep{
	FilterType:      FilterRentType,
	FilterDistrict:  FilterType,
	FilterBedrooms:  FilterDistrict,
	FilterBathrooms: FilterBedrooms,
	FilterPrice:     FilterBathrooms,
}

// PreviousFilterStep возвращает предыдущий экран; ok=false означает выход в меню.
func PreviousFilterStep(s FilterStep) (FilterStep, bool) {
	prev, ok := filterBack[s]
	return prev, ok
}

// NextFilterStep возвращает следующий экран; ok=false означает, что фильтры собраны.
func NextFilterStep(s FilterStep) (FilterStep, bool) {
	for i, step := range FilterSteps {
		if step == s && i+1 < len(FilterSteps) {
			return FilterSteps[i+1], true
		}
	}
	return "", false
}

// RequiresSelection - на этих экранах "Продолжить" без выбора отклоняется
func (s FilterStep) RequiresSelection() bool {
	switch s {
	case FilterType, FilterDistrict, FilterBedrooms, FilterBathrooms:
		return true
	}
	return false
}

// RentType - вид аренды
const (
	RentMonthly = "monthly"
	RentDaily   = "daily"
)

// FilterOption - вариант на экране фильтра
type FilterOption struct {
	Label string `yaml:"label" json:"label"`
	Value string `yaml:"value" json:"value"`
}

// Catalog - набор вариантов для всех экранов фильтра
type Catalog struct {
	RentTypes     []FilterOption            `yaml:"rent_types"`
	PropertyTypes []FilterOption            `yaml:"property_types"`
	Districts     []FilterOption            `yaml:"districts"`
	Bedrooms      []FilterOption            `yaml:"bedrooms"`
	Bathrooms     []FilterOption            `yaml:"bathrooms"`
	PriceBrackets map[string][]FilterOption `yaml:"price_brackets"`
}

// Options возвращает варианты экрана. Для цены список зависит от вида аренды.
func (c Catalog) Options(step FilterStep, draft *FilterDraft) []FilterOption {
	switch step {
	case FilterRentType:
		return c.RentTypes
	case FilterType:
		return c.PropertyTypes
	case FilterDistrict:
		return c.Districts
	case FilterBedrooms:
		return c.Bedrooms
	case FilterBathrooms:
		return c.Bathrooms
	case FilterPrice:
		return c.PriceBrackets[c.rentType(draft)]
	}
	return nil
}

func (c Catalog) rentType(draft *FilterDraft) string {
	if draft == nil {
		return RentMonthly
	}
	var values []string
	for _, idx := range draft.Selected[FilterRentType] {
		if idx >= 0 && idx < len(c.RentTypes) {
			values = append(values, c.RentTypes[idx].Value)
		}
	}
	if len(values) == 1 && values[0] == RentDaily {
		return RentDaily
	}
	return RentMonthly
}

// Validate проверяет, что каталог пригоден для мастера фильтров.
func (c Catalog) Validate() error {
	if len(c.RentTypes) == 0 || len(c.PropertyTypes) == 0 || len(c.Districts) == 0 ||
		len(c.Bedrooms) == 0 || len(c.Bathrooms) == 0 {
		return fmt.Errorf("catalog: every filter screen needs at least one option")
	}
	for _, rent := range []string{RentMonthly, RentDaily} {
		brackets := c.PriceBrackets[rent]
		if len(brackets) == 0 {
			return fmt.Errorf("catalog: no price brackets for %q", rent)
		}
		for _, b := range brackets {
			if _, err := ParsePriceBracket(b.Value); err != nil {
				return fmt.Errorf("catalog: %w", err)
			}
		}
	}
	for _, opts := range [][]FilterOption{c.Bedrooms, c.Bathrooms} {
		for _, o := range opts {
			if _, err := strconv.Atoi(o.Value); err != nil {
				return fmt.Errorf("catalog: room option %q is not an integer", o.Value)
			}
		}
	}
	return nil
}

// FilterDraft - накопитель мастера фильтров: выбранные индексы вариантов по экранам
type FilterDraft struct {
	Step      FilterStep           `json:"step"`
	Selected  map[FilterStep][]int `json:"selected"`
	MessageID int                  `json:"message_id"`
}

// NewFilterDraft создает пустой накопитель на первом экране.
func NewFilterDraft() *FilterDraft {
	return &FilterDraft{Step: FilterRentType, Selected: map[FilterStep][]int{}}
}

// IsSelected сообщает, выбран ли вариант на экране.
func (d *FilterDraft) IsSelected(step FilterStep, option int) bool {
	for _, idx := range d.Selected[step] {
		if idx == option {
			return true
		}
	}
	return false
}

// Toggle добавляет или убирает вариант текущего экрана.
func (d *FilterDraft) Toggle(step FilterStep, option int, on bool) {
	if d.Selected == nil {
		d.Selected = map[FilterStep][]int{}
	}
	current := d.Selected[step]
	if on {
		if !d.IsSelected(step, option) {
			d.Selected[step] = append(current, option)
		}
		return
	}
	kept := current[:0]
	for _, idx := range current {
		if idx != option {
			kept = append(kept, idx)
		}
	}
	d.Selected[step] = kept
}

// PriceRange - замкнутый диапазон цены
type PriceRange struct {
	Min float64
	Max float64
}

// ParsePriceBracket разбирает "min-max" и "min+". Открытый верх ограничен DefaultPriceCeiling.
func ParsePriceBracket(s string) (PriceRange, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return PriceRange{}, fmt.Errorf("%w: empty", ErrInvalidPriceBracket)
	}
	if strings.HasSuffix(s, "+") {
		min, err := strconv.ParseFloat(strings.TrimSuffix(s, "+"), 64)
		if err != nil {
			return PriceRange{}, fmt.Errorf("%w: %q", ErrInvalidPriceBracket, s)
		}
		return PriceRange{Min: min, Max: DefaultPriceCeiling}, nil
	}

	lo, hi, ok := strings.Cut(s, "-")
	if !ok {
		return PriceRange{}, fmt.Errorf("%w: %q", ErrInvalidPriceBracket, s)
	}
	min, err := strconv.ParseFloat(lo, 64)
	if err != nil {
		return PriceRange{}, fmt.Errorf("%w: %q", ErrInvalidPriceBracket, s)
	}
	max := float64(DefaultPriceCeiling)
	if hi != "" {
		if max, err = strconv.ParseFloat(hi, 64); err != nil {
			return PriceRange{}, fmt.Errorf("%w: %q", ErrInvalidPriceBracket, s)
		}
	}
	if min > max {
		return PriceRange{}, fmt.Errorf("%w: %q has min above max", ErrInvalidPriceBracket, s)
	}
	return PriceRange{Min: min, Max: max}, nil
}

// PropertyFilter - собранные условия поиска. Пустое поле не ограничивает выборку.
type PropertyFilter struct {
	Types        []string
	Districts    []string
	MinBedrooms  *int
	MinBathrooms *int
	// Price == nil означает фильтр по умолчанию: цена не выше DefaultPriceCeiling
	Price *PriceRange
	Daily bool
}

// Resolve превращает выбранные индексы в условия поиска.
func (d *FilterDraft) Resolve(c Catalog) (PropertyFilter, error) {
	var f PropertyFilter
	f.Daily = c.rentType(d) == RentDaily

	f.Types = selectedValues(c.PropertyTypes, d.Selected[FilterType])
	f.Districts = selectedValues(c.Districts, d.Selected[FilterDistrict])

	var err error
	if f.MinBedrooms, err = minSelected(c.Bedrooms, d.Selected[FilterBedrooms]); err != nil {
		return PropertyFilter{}, err
	}
	if f.MinBathrooms, err = minSelected(c.Bathrooms, d.Selected[FilterBathrooms]); err != nil {
		return PropertyFilter{}, err
	}

	brackets := selectedValues(c.Options(FilterPrice, d), d.Selected[FilterPrice])
	for _, b := range brackets {
		r, err := ParsePriceBracket(b)
		if err != nil {
			return PropertyFilter{}, err
		}
		if f.Price == nil {
			f.Price = &r
			continue
		}
		if r.Min < f.Price.Min {
			f.Price.Min = r.Min
		}
		if r.Max > f.Price.Max {
			f.Price.Max = r.Max
		}
	}
	return f, nil
}

func selectedValues(options []FilterOption, selected []int) []string {
	idx := append([]int(nil), selected...)
	sort.Ints(idx)
	var out []string
	for _, i := range idx {
		if i >= 0 && i < len(options) {
			out = append(out, options[i].Value)
		}
	}
	return out
}

func minSelected(options []FilterOption, selected []int) (*int, error) {
	var min *int
	for _, v := range selectedValues(options, selected) {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("room option %q: %w", v, err)
		}
		if min == nil || n < *min {
			min = &n
		}
	}
	return min, nil
}
