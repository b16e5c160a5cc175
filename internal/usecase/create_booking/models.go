package create_booking

import (
	"github.com/m04kA/SMC-GroomingService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	CustomerID int64   // ID клиента
	PetID      int64   // ID питомца
	AddressID  int64   // ID адреса визита
	ServiceID  int64   // ID услуги
	PricingID  int64   // ID тарифа (услуга + размер питомца)
	PetSize    string  // Размер питомца (опционально, по умолчанию из тарифа)
	Date       string  // Дата в формате YYYY-MM-DD
	SlotIDs    []int64 // Выбранные слоты
	Notes      *string // Дополнительные заметки (опционально)
}

// Response созданное бронирование и одноразовые коды.
// Коды возвращаются в открытом виде только здесь; в БД хранятся хеши.
type Response struct {
	Booking  *domain.Booking
	StartOTP string
	EndOTP   string
}
