package reminders

import (
	"context"
	"time"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/integrations/directory"
)

// BookingRepository источник запланированных бронирований
type BookingRepository interface {
	GetScheduledBetween(ctx context.Context, from, to time.Time) ([]*domain.Booking, error)
}

// ReminderRepository журнал отправленных напоминаний
type ReminderRepository interface {
	Exists(ctx context.Context, key domain.ReminderKey) (bool, error)
	Claim(ctx context.Context, record *domain.ReminderRecord) (bool, error)
	Release(ctx context.Context, key domain.ReminderKey) error
}

// DirectoryClient реестры клиентов и грумеров
type DirectoryClient interface {
	GetCustomer(ctx context.Context, customerID int64) (*directory.Customer, error)
	GetGroomer(ctx context.Context, groomerID int64) (*directory.Groomer, error)
}

// Gateway шлюз SMS-уведомлений
type Gateway interface {
	FetchToken(ctx context.Context) (string, error)
	Send(ctx context.Context, token, phone, message string) error
}

// RunLock блокировка, не дающая двум экземплярам запускаться одновременно
type RunLock interface {
	Acquire(ctx context.Context) (func(context.Context) error, error)
}

// Metrics счетчики планировщика
type Metrics interface {
	ReminderRun(result string)
	ReminderProcessed(role string, horizon int, result string)
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
