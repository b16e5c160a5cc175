package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/integrations/directory"
	"github.com/m04kA/SMC-GroomingService/internal/integrations/events"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetOccupiedSlots(ctx context.Context, date time.Time) ([]domain.OccupiedSlot, error)
}

// DirectoryClient интерфейс клиента реестров
type DirectoryClient interface {
	GetCustomer(ctx context.Context, customerID int64) (*directory.Customer, error)
	GetPricing(ctx context.Context, pricingID int64) (*directory.Pricing, error)
}

// OTPGenerator генератор одноразовых кодов: возвращает код и его хеш
type OTPGenerator interface {
	Generate() (code string, hash string, err error)
}

// EventPublisher публикатор событий жизненного цикла
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Metrics счетчики переходов жизненного цикла
type Metrics interface {
	BookingTransition(transition, result string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
