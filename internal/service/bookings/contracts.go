package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/integrations/directory"
	"github.com/m04kA/SMC-GroomingService/internal/integrations/events"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	TransitionStatus(ctx context.Context, id int64, from, to domain.BookingStatus, at time.Time) error
	RegisterOTPFailure(ctx context.Context, id int64, maxAttempts int, lockUntil time.Time) (int, *time.Time, error)
	AssignGroomer(ctx context.Context, id, groomerID int64) error
	Cancel(ctx context.Context, id int64, reason *string) error
	SoftDelete(ctx context.Context, id int64) error
}

// DirectoryClient интерфейс клиента реестров
type DirectoryClient interface {
	GetGroomer(ctx context.Context, groomerID int64) (*directory.Groomer, error)
}

// OTPVerifier проверяет код против сохраненного хеша
type OTPVerifier interface {
	Verify(hash, code string) bool
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
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
