package reminders

import (
	"time"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

// Config параметры планировщика
type Config struct {
	Horizons       []int // дней до визита, по убыванию
	CustomerWindow time.Duration
	GroomerWindow  time.Duration
	Interval       time.Duration
	WindowStart    types.TimeString // рабочее окно отправки в рабочем часовом поясе
	WindowEnd      types.TimeString
	SendTimeout    time.Duration
	Location       *time.Location
}

func (c Config) withDefaults() Config {
	if len(c.Horizons) == 0 {
		c.Horizons = domain.DefaultReminderHorizons
	}
	if c.CustomerWindow <= 0 {
		c.CustomerWindow = domain.DefaultCustomerWindowHours * time.Hour
	}
	if c.GroomerWindow <= 0 {
		c.GroomerWindow = domain.DefaultGroomerWindowHours * time.Hour
	}
	if c.Interval <= 0 {
		c.Interval = domain.DefaultReminderIntervalMins * time.Minute
	}
	if c.SendTimeout <= 0 {
		c.SendTimeout = 10 * time.Second
	}
	if c.Location == nil {
		c.Location = time.UTC
	}
	return c
}

// proximityWindow максимальное время до визита для напоминания в день визита
func (c Config) proximityWindow(role domain.RecipientRole) time.Duration {
	if role == domain.RoleGroomer {
		return c.GroomerWindow
	}
	return c.CustomerWindow
}

// RunReport итог одного запуска
type RunReport struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Bookings   int
	Sent       int
	Skipped    int
	Failed     int
}

// Результаты обработки получателя (метка метрики)
const (
	resultSent          = "sent"
	resultDuplicate     = "duplicate"
	resultOutsideWindow = "outside_window"
	resultNoPhone       = "no_phone"
	resultFailed        = "failed"
)
