package reschedule_booking

import (
	"github.com/m04kA/SMC-GroomingService/internal/domain"
)

// Request модель запроса на перенос бронирования
type Request struct {
	BookingID int64
	Actor     domain.Actor // Кто переносит (клиент-владелец или администратор)
	Date      string       // Новая дата в формате YYYY-MM-DD
	SlotIDs   []int64      // Новые слоты
}

// Response перенесенное бронирование (одноразовые коды сохраняются)
type Response struct {
	Booking *domain.Booking
}
