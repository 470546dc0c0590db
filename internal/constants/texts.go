package constants

// Ключевые слова
const (
	CancelKeyword = "отмена"
	SkipKeyword   = "пропустить"
	YesKeyword    = "да"
	NoKeyword     = "нет"

	CommandStart  = "/start"
	CommandAdmin  = "/admin"
	CommandCancel = "/cancel"
	CommandSkip   = "/skip"
)

// Кнопки панели администратора
const (
	AdminCreateCard   = "📋 Создать карточку"
	AdminDeleteCard   = "🗑️ Удалить карточку"
	AdminEditCard     = "✏️ Редактировать карточку"
	AdminListCards    = "📜 Просмотреть все карточки"
	AdminAnalytics    = "📊 Аналитика"
	AdminNewsletter   = "✉️ Создать рассылку"
	AdminReviews      = "📝 Отзывы на модерации"
	AdminBackToMenu   = "🔙 Вернуться в меню"
	SharePhoneButton  = "📱 Поделиться номером"
	ShareLocationText = "📍 Отправить геопозицию"
)

// Кнопки главного меню
const (
	MenuSearch      = "🔍 Поиск жилья"
	MenuFavorites   = "❤️ Избранное"
	MenuTopRated    = "🏆 Лучшие объекты"
	MenuProfile     = "👤 Профиль"
	MenuSubscribe   = "🔔 Подписаться на новинки"
	MenuUnsubscribe = "🔕 Отписаться от новинок"
	MenuSetEmail    = "📧 Указать email"
)

// Кнопки пейджера и мастера фильтров
const (
	ButtonPrev        = "⬅️ Назад"
	ButtonNext        = "Вперед ➡️"
	ButtonFavorite    = "❤️ В избранное"
	ButtonUnfavorite  = "💔 Убрать из избранного"
	ButtonDetails     = "📖 Подробнее"
	ButtonSummary     = "📄 Кратко"
	ButtonMap         = "🗺 Показать на карте"
	ButtonReviews     = "📖 Читать отзывы и рейтинг"
	ButtonLeaveReview = "✍️ Оставить отзыв"
	ButtonBackToMenu  = "🔚 Возврат в меню"
	ButtonContinue    = "Продолжить ➡️"
	ButtonSkip        = "Пропустить ⏭"
	ButtonBack        = "⬅️ Назад"
	ButtonApprove     = "✅ Одобрить"
	ButtonReject      = "❌ Отклонить"

	GlyphSelected   = "✅"
	GlyphUnselected = "⬜"
)

// Сообщения
const (
	TextWelcome        = "Добро пожаловать! Выберите действие:"
	TextMainMenu       = "Главное меню:"
	TextAdminPanel     = "Панель администратора:"
	TextAccessDenied   = "У вас нет доступа к этой команде."
	TextCancelled      = "Действие отменено."
	TextCancelHint     = "\n\n(для отмены введите «отмена»)"
	TextStaleButton    = "Кнопка устарела, начните заново."
	TextGenericFailure = "Произошла ошибка, попробуйте позже."
	TextChooseAction   = "Выберите действие:"

	TextNoResults     = "Нет результатов по заданным критериям."
	TextFirstPage     = "Это первая страница."
	TextLastPage      = "Это последняя страница."
	TextNoCoordinates = "Для этого объекта координаты не указаны."

	TextFavoriteAdded   = "Добавлено в избранное!"
	TextFavoriteExists  = "Уже в избранном."
	TextFavoriteRemoved = "Удалено из избранного!"
	TextFavoritesFull   = "Достигнут лимит избранного. Удалите что-нибудь, чтобы добавить новое."
	TextFavoritesEmpty  = "У вас пока нет избранных объектов."

	TextCardCreated      = "Карточка недвижимости успешно создана! ID: %d"
	TextCardNotFound     = "Карточка с указанным ID не найдена."
	TextEnterCardID      = "Введите ID карточки:"
	TextBadCardID        = "ID должен быть положительным числом. Попробуйте еще раз."
	TextChooseEditField  = "Выберите поле для редактирования:"
	TextEditConfirm      = "Вы уверены, что хотите изменить поле '%s' с '%s' на '%s'? (Да/Нет)"
	TextEditDone         = "Поле '%s' успешно обновлено."
	TextEditCancelled    = "Редактирование отменено."
	TextDeleteConfirm    = "Удалить карточку ID %d «%s»? (Да/Нет)"
	TextDeleteDone       = "Карточка ID %d удалена."
	TextDeleteCancelled  = "Удаление отменено."
	TextBadInteger       = "Введите целое число."
	TextBadPrice         = "Введите цену одним числом в батах, например: 45000 или 1.200.000"
	TextBadCoordinates   = "Не удалось распознать координаты. Отправьте геопозицию или два числа через пробел, например: 9.5120 100.0136"
	TextPhotoExpected    = "Отправьте фото или введите «пропустить»."
	TextListCardsEmpty   = "Карточек пока нет."
	TextAnalytics        = "📊 Статистика пользователей\n\nВсего: %d\nАктивны за неделю: %d\nНовые за неделю: %d\nПодписаны на новинки: %d"
	TextEnterReview      = "Напишите ваш отзыв:"
	TextEnterRating      = "Оцените объект от 1 до 5:"
	TextBadRating        = "Пожалуйста, введите число от 1 до 5."
	TextReviewSent       = "Спасибо! Отзыв отправлен на модерацию."
	TextReviewsEmpty     = "Отзывов пока нет."
	TextReviewApproved   = "Отзыв %d одобрен."
	TextReviewRejected   = "Отзыв %d отклонен и удален."
	TextPendingEmpty     = "Нет отзывов на модерации."
	TextSubscribed       = "Вы подписались на уведомления о новых объектах."
	TextUnsubscribed     = "Вы отписались от уведомлений."
	TextEnterEmail       = "Введите ваш email:"
	TextBadEmail         = "Некорректный email. Попробуйте еще раз."
	TextEmailConfirm     = "Сохранить email %s? (Да/Нет)"
	TextEmailSaved       = "Email сохранен."
	TextPhoneSaved       = "Номер телефона сохранен."
	TextNewsletterTopic  = "Введите тему рассылки:"
	TextNewsletterBody   = "Введите текст рассылки:"
	TextNewsletterPhoto  = "Отправьте фото для рассылки или введите /skip:"
	TextNewsletterReady  = "Отправить рассылку подписчикам? (Да/Нет)"
	TextNewsletterQueued = "Рассылка поставлена в очередь для %d подписчиков."
	TextDigestHeader     = "🆕 Новые объекты за последние сутки:"
	TextSharePhone       = "Чтобы оставить номер телефона, нажмите кнопку ниже."
	TextProfile          = "👤 Профиль\n\nИмя: %s\nEmail: %s\nТелефон: %s\nПодписка на новинки: %s"
	TextNotSet           = "не указан"
	TextModeration       = "📝 Новый отзыв #%d\nОбъект: %s (ID %d)\nАвтор: %s\nОценка: %s\n\n%s"
	TextPendingItem      = "📝 Отзыв #%d к объекту ID %d\nАвтор: %s\nОценка: %s\n\n%s"
	TextReviewsHeader    = "Отзывы об объекте «%s»:"
	TextTopRatedEmpty    = "Пока нет объектов с оценками."
	TextMapLink          = "🗺 %s: %s"
	TextError            = "Ошибка: %v"
)

// Подсказки шагов создания карточки
const (
	PromptName            = "Введите название объекта:"
	PromptPhoto           = "Отправьте фото %d из 9 или введите «пропустить»:"
	PromptLocation        = "Введите расположение объекта:"
	PromptCoordinates     = "Отправьте геопозицию или введите координаты (широта долгота):"
	PromptDistance        = "Введите удаленность от моря:"
	PromptType            = "Введите тип жилья:"
	PromptMonthlyPrice    = "Введите стоимость в месяц в батах, например 45000:"
	PromptDailyPrice      = "Введите стоимость посуточно в батах, например 1500:"
	PromptBookingDeposit  = "Введите фиксированный депозит для брони:"
	PromptSecurityDeposit = "Введите сохраненный депозит:"
	PromptBedrooms        = "Введите количество спален:"
	PromptBathrooms       = "Введите количество ванных комнат:"
	PromptPool            = "Есть ли бассейн? (Да/Нет):"
	PromptKitchen         = "Есть ли кухня? (Да/Нет):"
	PromptCleaning        = "Есть ли уборка? (Да/Нет):"
	PromptDescription     = "Введите описание:"
	PromptUtilityBill     = "Введите утилиты (вода, электричество и т.д.):"
	PromptEditValue       = "Введите новое значение для поля '%s':"
	PromptEditPhoto       = "Отправьте новое фото для поля '%s' или введите «пропустить», чтобы удалить его:"
)

// Заголовки экранов фильтра
const (
	FilterTitleRentType  = "Выберите вид аренды:"
	FilterTitleType      = "Выберите тип жилья:"
	FilterTitleDistrict  = "Выберите район:"
	FilterTitleBedrooms  = "Минимальное количество спален:"
	FilterTitleBathrooms = "Минимальное количество ванных комнат:"
	FilterTitlePrice     = "Выберите ценовой диапазон:"
	FilterNeedSelection  = "Выберите хотя бы один вариант или нажмите «Пропустить»."
)

// Валюта, добавляемая к ценам при показе
const Currency = "฿"

// MapURLTemplate - ссылка на объект в OpenStreetMap
const MapURLTemplate = "https://www.openstreetmap.org/?mlat=%f&mlon=%f#map=18/%f/%f"
