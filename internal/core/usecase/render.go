package usecase

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/0sokrat0/TGSamui/internal/constants"
	"github.com/0sokrat0/TGSamui/internal/core/domain"
)

const (
	maxRatingStars = 5
	// Ограничение транспорта на длину текста сообщения
	maxMessageLen = 4096
)

// formatPrice добавляет валюту к чисто числовой цене.
func formatPrice(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "-"
	}
	for _, r := range s {
		if !unicode.IsDigit(r) && r != ' ' && r != '.' && r != ',' {
			return s
		}
	}
	return s + " " + constants.Currency
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func formatRooms(n *int) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(*n)
}

// formatRating возвращает звезды для оценки 1..5.
func formatRating(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > maxRatingStars {
		rating = maxRatingStars
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", maxRatingStars-rating)
}

func formatOptionalRating(r *int) string {
	if r == nil {
		return "-"
	}
	return formatRating(*r)
}

// propertySummary - краткий вид карточки для списка.
func propertySummary(p domain.Property) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏠 %s\n", p.Name)
	fmt.Fprintf(&b, "📍 Расположение: %s\n", orDash(p.Location))
	fmt.Fprintf(&b, "🌊 До моря: %s\n", orDash(p.DistanceToSea))
	fmt.Fprintf(&b, "🏷 Тип: %s\n", orDash(p.PropertyType))
	fmt.Fprintf(&b, "💰 Цена в месяц: %s\n", formatPrice(p.MonthlyPrice))
	fmt.Fprintf(&b, "🛏 Спальни: %s, 🛁 Ванные: %s", formatRooms(p.Bedrooms), formatRooms(p.Bathrooms))
	return b.String()
}

// propertyDetails - полный вид карточки со всеми полями и рейтингом.
func propertyDetails(p domain.Property) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏠 %s (ID %d)\n\n", p.Name, p.ID)
	fmt.Fprintf(&b, "📍 Расположение: %s\n", orDash(p.Location))
	fmt.Fprintf(&b, "🌊 До моря: %s\n", orDash(p.DistanceToSea))
	fmt.Fprintf(&b, "🏷 Тип: %s\n", orDash(p.PropertyType))
	fmt.Fprintf(&b, "💰 Цена в месяц: %s\n", formatPrice(p.MonthlyPrice))
	fmt.Fprintf(&b, "💵 Цена посуточно: %s\n", formatPrice(p.DailyPrice))
	fmt.Fprintf(&b, "🔒 Депозит брони: %s\n", formatPrice(p.BookingDeposit))
	fmt.Fprintf(&b, "🔐 Залог: %s\n", formatPrice(p.SecurityDeposit))
	fmt.Fprintf(&b, "🛏 Спальни: %s\n", formatRooms(p.Bedrooms))
	fmt.Fprintf(&b, "🛁 Ванные: %s\n", formatRooms(p.Bathrooms))
	fmt.Fprintf(&b, "🏊 Бассейн: %s\n", orDash(p.Pool))
	fmt.Fprintf(&b, "🍳 Кухня: %s\n", orDash(p.Kitchen))
	fmt.Fprintf(&b, "🧹 Уборка: %s\n", orDash(p.Cleaning))
	fmt.Fprintf(&b, "💡 Коммунальные: %s\n", orDash(p.UtilityBill))
	if p.AvgRating != nil {
		fmt.Fprintf(&b, "⭐ Рейтинг: %.1f из %d\n", *p.AvgRating, maxRatingStars)
	} else {
		b.WriteString("⭐ Рейтинг: пока нет оценок\n")
	}
	if d := strings.TrimSpace(p.Description); d != "" {
		fmt.Fprintf(&b, "\n📝 %s", d)
	}
	return strings.TrimRight(b.String(), "\n")
}

// digestLine - одна строка ежедневной рассылки.
func digestLine(p domain.Property) string {
	return fmt.Sprintf("• %s: %s, до моря: %s, %s/мес",
		p.Name, orDash(p.Location), orDash(p.DistanceToSea), formatPrice(p.MonthlyPrice))
}

// splitMessage режет длинный текст по строкам на куски не длиннее limit байт.
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	var chunks []string
	var cur strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if cur.Len() > 0 && cur.Len()+len(line)+1 > limit {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte('\n')
		}
		cur.WriteString(line)
	}
	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}

func withCancelHint(prompt string) string {
	return prompt + constants.TextCancelHint
}

func normalizeInput(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

func isCancel(text string) bool {
	t := normalizeInput(text)
	return t == constants.CancelKeyword || t == constants.CommandCancel
}

func isSkip(text string) bool {
	t := normalizeInput(text)
	return t == constants.SkipKeyword || t == constants.CommandSkip
}

func isYes(text string) bool {
	return normalizeInput(text) == constants.YesKeyword
}

// mainMenuMarkup - inline-меню пользователя.
func mainMenuMarkup(subscribed bool) *domain.Markup {
	sub := domain.CallbackButton(constants.MenuSubscribe, domain.Callback{Kind: domain.KindSubscribe})
	if subscribed {
		sub = domain.CallbackButton(constants.MenuUnsubscribe, domain.Callback{Kind: domain.KindUnsubscribe})
	}
	return domain.InlineMarkup(
		[]domain.Button{domain.CallbackButton(constants.MenuSearch, domain.Callback{Kind: domain.KindSearch})},
		[]domain.Button{
			domain.CallbackButton(constants.MenuFavorites, domain.Callback{Kind: domain.KindFavorites}),
			domain.CallbackButton(constants.MenuTopRated, domain.Callback{Kind: domain.KindTopRated}),
		},
		[]domain.Button{
			domain.CallbackButton(constants.MenuProfile, domain.Callback{Kind: domain.KindProfile}),
			sub,
		},
	)
}

// adminPanelMarkup - клавиатура панели администратора.
func adminPanelMarkup() *domain.Markup {
	btn := func(text string) domain.ReplyButton { return domain.ReplyButton{Text: text} }
	return domain.ReplyMarkup(
		[]domain.ReplyButton{btn(constants.AdminCreateCard), btn(constants.AdminEditCard)},
		[]domain.ReplyButton{btn(constants.AdminDeleteCard), btn(constants.AdminListCards)},
		[]domain.ReplyButton{btn(constants.AdminAnalytics), btn(constants.AdminNewsletter)},
		[]domain.ReplyButton{btn(constants.AdminReviews), btn(constants.AdminBackToMenu)},
	)
}

func yesNoMarkup() *domain.Markup {
	return domain.ReplyMarkup([]domain.ReplyButton{{Text: "Да"}, {Text: "Нет"}})
}

func skipMarkup() *domain.Markup {
	return domain.ReplyMarkup([]domain.ReplyButton{{Text: "Пропустить"}})
}

func locationMarkup() *domain.Markup {
	return domain.ReplyMarkup([]domain.ReplyButton{{Text: constants.ShareLocationText, RequestLocation: true}})
}

func contactMarkup() *domain.Markup {
	return domain.ReplyMarkup([]domain.ReplyButton{{Text: constants.SharePhoneButton, RequestContact: true}})
}

func removeReplyMarkup() *domain.Markup {
	return &domain.Markup{RemoveReply: true}
}

// pagerMarkup - кнопки под карточкой в пейджере.
func pagerMarkup(b *domain.BrowseState, p domain.Property) *domain.Markup {
	indicator := fmt.Sprintf("%d/%d", b.Page+1, len(b.Properties))
	rows := [][]domain.Button{{
		domain.CallbackButton(constants.ButtonPrev, domain.Callback{Kind: domain.KindPrevPage}),
		domain.CallbackButton(indicator, domain.Callback{Kind: domain.KindPageInfo}),
		domain.CallbackButton(constants.ButtonNext, domain.Callback{Kind: domain.KindNextPage}),
	}}

	fav := domain.CallbackButton(constants.ButtonFavorite, domain.Callback{Kind: domain.KindFavorite, ID: p.ID})
	if b.Mode == domain.BrowseFavorites {
		fav = domain.CallbackButton(constants.ButtonUnfavorite, domain.Callback{Kind: domain.KindUnfavorite, ID: p.ID})
	}
	detail := domain.CallbackButton(constants.ButtonDetails, domain.Callback{Kind: domain.KindDetails, ID: p.ID})
	if b.Detail {
		detail = domain.CallbackButton(constants.ButtonSummary, domain.Callback{Kind: domain.KindSummary, ID: p.ID})
	}
	rows = append(rows, []domain.Button{fav, detail})

	reviews := []domain.Button{domain.CallbackButton(constants.ButtonReviews, domain.Callback{Kind: domain.KindReviews, ID: p.ID})}
	if p.HasCoordinates() {
		reviews = append([]domain.Button{domain.CallbackButton(constants.ButtonMap, domain.Callback{Kind: domain.KindMap, ID: p.ID})}, reviews...)
	}
	rows = append(rows, reviews)

	rows = append(rows, []domain.Button{
		domain.CallbackButton(constants.ButtonLeaveReview, domain.Callback{Kind: domain.KindLeaveReview, ID: p.ID}),
		domain.CallbackButton(constants.ButtonBackToMenu, domain.Callback{Kind: domain.KindBackToMenu}),
	})
	return domain.InlineMarkup(rows...)
}
