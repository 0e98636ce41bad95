package book_console

// Request модель запроса на прямое бронирование
type Request struct {
	UserID        int64  // ID клиента (Telegram ID)
	ConsoleID     string // ID консоли
	SelectedHours *int   // Длительность аренды в часах; nil - аренда без срока
}

// StartParams параметры запуска аренды
type StartParams struct {
	UserID    int64
	ConsoleID string
	Hours     *int    // nil - аренда без срока, стоимость считается при завершении
	RequestID *string // заявка, по которой начата аренда (опционально)

	// IgnoreHold: решение принимает администратор, чужие удержания не мешают
	IgnoreHold bool
}
