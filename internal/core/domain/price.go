package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var (
	priceCurrency = strings.NewReplacer("฿", "", "thb", "", "батов", "", "бат", "")
	// Целое число, допускаются точки или запятые между тысячами
	pricePattern = regexp.MustCompile(`^(\d+|\d{1,3}([.,]\d{3})+)$`)
)

// NormalizePrice приводит введенную цену к целому числу без разделителей:
// "1.200.000 ฿" -> "1200000". Диапазоны и дроби не принимаются.
func NormalizePrice(s string) (string, error) {
	v := priceCurrency.Replace(strings.ToLower(s))
	v = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, v)
	if !pricePattern.MatchString(v) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}
	return strings.NewReplacer(".", "", ",", "").Replace(v), nil
}
