package domain

// UpdateKind - форма входящего события
type UpdateKind int

const (
	UpdateText UpdateKind = iota
	UpdatePhoto
	UpdateContact
	UpdateLocation
	UpdateCallback
)

// Update - входящее событие транспорта, приведенное к виду ядра
type Update struct {
	Kind      UpdateKind
	ChatID    int64
	UserID    int64
	Username  string
	FirstName string
	MessageID int

	Text     string
	Photo    PhotoRef
	Phone    string
	Location *Coordinates

	CallbackID string
	// Callback пуст, если данные кнопки не прошли проверку
	Callback *Callback
}

// Key возвращает ключ сессии для события.
func (u Update) Key() SessionKey {
	return SessionKey{ChatID: u.ChatID, UserID: u.UserID}
}

// Button - inline-кнопка: либо данные обратного вызова, либо ссылка
type Button struct {
	Text     string
	Callback *Callback
	URL      string
}

// CallbackButton создает кнопку с данными обратного вызова.
func CallbackButton(text string, cb Callback) Button {
	return Button{Text: text, Callback: &cb}
}

// ReplyButton - кнопка клавиатуры ответа
type ReplyButton struct {
	Text            string
	RequestContact  bool
	RequestLocation bool
}

// Markup - разметка сообщения. Заполняется не более одного вида клавиатуры.
type Markup struct {
	Inline      [][]Button
	Reply       [][]ReplyButton
	RemoveReply bool
}

// InlineMarkup собирает inline-клавиатуру из рядов.
func InlineMarkup(rows ...[]Button) *Markup {
	return &Markup{Inline: rows}
}

// ReplyMarkup собирает клавиатуру ответа из рядов.
func ReplyMarkup(rows ...[]ReplyButton) *Markup {
	return &Markup{Reply: rows}
}
