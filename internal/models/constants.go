package models

const (
	// DefaultTokenTTL время жизни токена сессии
	DefaultTokenTTL = 24 * 60 * 60 // 24 часа в секундах

	// DefaultBookingsLimit постраничный лимит для списка бронирований
	DefaultBookingsLimit = 100

	// LoginRateLimitAttempts количество попыток входа в окне
	LoginRateLimitAttempts = 10

	// LoginRateLimitWindow окно ограничения попыток входа
	LoginRateLimitWindow = 60 // 1 минута в секундах

	// DefaultBcryptCost стоимость хеширования пароля
	DefaultBcryptCost = 12

	// StartTimeGrace допуск на рассинхронизацию часов клиента
	StartTimeGrace = 5 * 60 // 5 минут в секундах
)

const (
	TokenTypeBearer = "bearer"
	GrantPassword   = "password"
)
