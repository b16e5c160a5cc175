package get_availability

import (
	"time"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
)

// Request модель запроса доступности слотов
type Request struct {
	Date string // Дата в формате YYYY-MM-DD (рабочий часовой пояс)
}

// Response доступность каждого слота каталога на дату
type Response struct {
	Date  time.Time
	Slots []domain.SlotAvailability
}
