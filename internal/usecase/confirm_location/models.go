package confirm_location

// Request геопозиция, отправленная клиентом
type Request struct {
	UserID    int64
	RentalID  string // если задан, должен совпадать с арендой, ожидающей геопозицию
	Latitude  float64
	Longitude float64
}
