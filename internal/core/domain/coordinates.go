package domain

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// CoordinateMode определяет, как разбирается текст с координатами
type CoordinateMode string

const (
	// CoordinateModeDMS складывает градусы, минуты и секунды в десятичные градусы.
	CoordinateModeDMS CoordinateMode = "dms"
	// CoordinateModeLiteral убирает символы градусов/минут/секунд и читает
	// оставшееся число как есть. Подходит, только если оператор вводит десятичные градусы.
	CoordinateModeLiteral CoordinateMode = "literal"
)

// ParseCoordinateMode возвращает режим по его имени, по умолчанию DMS.
func ParseCoordinateMode(s string) (CoordinateMode, error) {
	switch CoordinateMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", CoordinateModeDMS:
		return CoordinateModeDMS, nil
	case CoordinateModeLiteral:
		return CoordinateModeLiteral, nil
	}
	return "", fmt.Errorf("unknown coordinate mode %q", s)
}

// Coordinates - пара широта/долгота в десятичных градусах со знаком
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.6f, %.6f", c.Latitude, c.Longitude)
}

var (
	coordinateNumber = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
	dmsMarks         = "°º˚'′’\"″”“"
)

// ParseCoordinates разбирает текст вида `9°25'22.9"N 99°59'32.5"E` или `9.42 99.99`.
// Текст должен содержать ровно два токена, разделенных пробелами.
func ParseCoordinates(text string, mode CoordinateMode) (Coordinates, error) {
	tokens := strings.Fields(text)
	if len(tokens) != 2 {
		return Coordinates{}, fmt.Errorf("%w: expected 2 tokens, got %d", ErrInvalidCoordinates, len(tokens))
	}

	lat, err := parseCoordinateToken(tokens[0], mode, 90)
	if err != nil {
		return Coordinates{}, fmt.Errorf("latitude %q: %w", tokens[0], err)
	}
	lon, err := parseCoordinateToken(tokens[1], mode, 180)
	if err != nil {
		return Coordinates{}, fmt.Errorf("longitude %q: %w", tokens[1], err)
	}
	return Coordinates{Latitude: lat, Longitude: lon}, nil
}

func parseCoordinateToken(token string, mode CoordinateMode, limit float64) (float64, error) {
	token = strings.TrimRight(token, ",;")

	negative := false
	var rest strings.Builder
	for _, r := range token {
		switch unicode.ToUpper(r) {
		case 'S', 'W', 'Ю', 'З':
			negative = true
			continue
		case 'N', 'E', 'С', 'В':
			continue
		case '-':
			negative = true
			continue
		case '+':
			continue
		}
		rest.WriteRune(r)
	}

	var value float64
	var err error
	switch mode {
	case CoordinateModeLiteral:
		value, err = parseLiteralCoordinate(rest.String())
	default:
		value, err = parseDMSCoordinate(rest.String(), limit)
	}
	if err != nil {
		return 0, err
	}

	if negative {
		value = -math.Abs(value)
	}
	return value, nil
}

func parseLiteralCoordinate(s string) (float64, error) {
	stripped := strings.Map(func(r rune) rune {
		if strings.ContainsRune(dmsMarks, r) {
			return -1
		}
		return r
	}, s)
	stripped = strings.ReplaceAll(stripped, ",", ".")
	if stripped == "" {
		return 0, ErrInvalidCoordinates
	}
	v, err := strconv.ParseFloat(stripped, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidCoordinates, stripped)
	}
	return v, nil
}

func parseDMSCoordinate(s string, limit float64) (float64, error) {
	groups := coordinateNumber.FindAllString(s, -1)
	if len(groups) == 0 || len(groups) > 3 {
		return 0, fmt.Errorf("%w: expected 1-3 numeric groups, got %d", ErrInvalidCoordinates, len(groups))
	}

	residue := coordinateNumber.ReplaceAllString(s, "")
	residue = strings.Map(func(r rune) rune {
		if strings.ContainsRune(dmsMarks, r) || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, residue)
	if residue != "" {
		return 0, fmt.Errorf("%w: unexpected %q", ErrInvalidCoordinates, residue)
	}

	parts := make([]float64, len(groups))
	for i, g := range groups {
		v, err := strconv.ParseFloat(strings.ReplaceAll(g, ",", "."), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidCoordinates, err)
		}
		if i > 0 && v >= 60 {
			return 0, fmt.Errorf("%w: minutes and seconds must be below 60", ErrInvalidCoordinates)
		}
		parts[i] = v
	}

	value := parts[0]
	if len(parts) > 1 {
		value += parts[1] / 60
	}
	if len(parts) > 2 {
		value += parts[2] / 3600
	}
	if value > limit {
		return 0, fmt.Errorf("%w: %.6f is out of range", ErrInvalidCoordinates, value)
	}
	return value, nil
}
