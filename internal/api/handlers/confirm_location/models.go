package confirm_location

// LocationRequest HTTP запрос с геопозицией клиента
// Указатели отличают отсутствующую координату от нулевой
type LocationRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
}
