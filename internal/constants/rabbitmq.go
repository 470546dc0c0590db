package constants

// Обменник, через который публикуются задачи доставки
const ExchangeDelivery = "estate_bot_exchange"

// Имена очередей
const (
	QueueDeliveryTasks = "delivery_tasks"
)

// Ключи маршрутизации
const (
	RoutingKeyDeliveryTasks = "bot.delivery.tasks"
)

// Имя фоновой задачи дайджеста в таблице последних запусков
const DigestJobName = "new_properties_digest"
