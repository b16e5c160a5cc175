package reminders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/infra/lock"
)

// Scheduler рассылает напоминания о предстоящих визитах.
// Повторная отправка исключается журналом напоминаний, блокировка запуска только экономит работу.
type Scheduler struct {
	bookingRepo     BookingRepository
	reminderRepo    ReminderRepository
	directoryClient DirectoryClient
	gateway         Gateway
	runLock         RunLock
	metrics         Metrics
	cfg             Config
	timeProvider    TimeProvider
	logger          Logger
}

// NewScheduler создает планировщик напоминаний
func NewScheduler(
	bookingRepo BookingRepository,
	reminderRepo ReminderRepository,
	directoryClient DirectoryClient,
	gateway Gateway,
	runLock RunLock,
	metrics Metrics,
	cfg Config,
	logger Logger,
) *Scheduler {
	if runLock == nil {
		runLock = lock.NoopLock{}
	}
	return &Scheduler{
		bookingRepo:     bookingRepo,
		reminderRepo:    reminderRepo,
		directoryClient: directoryClient,
		gateway:         gateway,
		runLock:         runLock,
		metrics:         metrics,
		cfg:             cfg.withDefaults(),
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Start запускает цикл по таймеру до отмены контекста.
// Первый запуск выполняется сразу, вне рабочего окна запуски пропускаются.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.logger.Info("Reminders: scheduler started, interval=%s, window=%s-%s",
		s.cfg.Interval, s.cfg.WindowStart, s.cfg.WindowEnd)

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Reminders: scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	now := s.timeProvider.Now()
	if !s.withinWindow(now) {
		return
	}

	report, err := s.Run(ctx)
	switch {
	case errors.Is(err, ErrAlreadyRunning):
		s.logger.Info("Reminders: run skipped, another instance holds the lock")
	case err != nil:
		s.logger.Error("Reminders: run failed: %v", err)
	default:
		s.logger.Info("Reminders: run finished in %s: bookings=%d sent=%d skipped=%d failed=%d",
			report.FinishedAt.Sub(report.StartedAt), report.Bookings, report.Sent, report.Skipped, report.Failed)
	}
}

// withinWindow проверяет, что время попадает в рабочее окно отправки
func (s *Scheduler) withinWindow(now time.Time) bool {
	if s.cfg.WindowStart.IsZero() && s.cfg.WindowEnd.IsZero() {
		return true
	}
	local := now.In(s.cfg.Location)
	minutes := local.Hour()*60 + local.Minute()
	return minutes >= s.cfg.WindowStart.Minutes() && minutes < s.cfg.WindowEnd.Minutes()
}

// Run выполняет один проход по всем горизонтам напоминаний.
// Ошибка отправки одному получателю не прерывает проход.
func (s *Scheduler) Run(ctx context.Context) (*RunReport, error) {
	release, err := s.runLock.Acquire(ctx)
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			s.metrics.ReminderRun("skipped_lock")
			return nil, ErrAlreadyRunning
		}
		s.logger.Warn("Reminders: run lock unavailable, continuing without it: %v", err)
		release = func(context.Context) error { return nil }
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("Reminders: failed to release run lock: %v", err)
		}
	}()

	token, err := s.gateway.FetchToken(ctx)
	if err != nil {
		s.metrics.ReminderRun("gateway_unavailable")
		s.logger.Error("Reminders: failed to fetch gateway token: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	now := s.timeProvider.Now()
	today := domain.DateOf(now, s.cfg.Location)
	report := &RunReport{StartedAt: now}

	for _, horizon := range s.cfg.Horizons {
		if ctx.Err() != nil {
			break
		}

		target := today.AddDate(0, 0, horizon)
		bookings, err := s.bookingRepo.GetScheduledBetween(ctx, target, target)
		if err != nil {
			s.logger.Error("Reminders: failed to list bookings for %s: %v", target.Format(domain.DateFormat), err)
			report.Failed++
			continue
		}

		for _, booking := range bookings {
			if booking.Status != domain.StatusScheduled {
				continue
			}
			report.Bookings++

			for _, recipient := range s.recipients(ctx, booking, report) {
				s.remind(ctx, token, booking, recipient, horizon, today, now, report)
			}
		}
	}

	report.FinishedAt = s.timeProvider.Now()
	s.metrics.ReminderRun("success")
	return report, nil
}

// recipients клиент и назначенный грумер бронирования
func (s *Scheduler) recipients(ctx context.Context, b *domain.Booking, report *RunReport) []domain.Recipient {
	out := make([]domain.Recipient, 0, 2)

	customer, err := s.directoryClient.GetCustomer(ctx, b.CustomerID)
	if err != nil {
		s.logger.Warn("Reminders: failed to get customer id=%d for booking id=%d: %v", b.CustomerID, b.ID, err)
		report.Failed++
	} else {
		out = append(out, domain.Recipient{ID: customer.ID, Role: domain.RoleCustomer, Name: customer.Name, Phone: customer.Phone})
	}

	if b.GroomerID != nil {
		groomer, err := s.directoryClient.GetGroomer(ctx, *b.GroomerID)
		if err != nil {
			s.logger.Warn("Reminders: failed to get groomer id=%d for booking id=%d: %v", *b.GroomerID, b.ID, err)
			report.Failed++
		} else {
			out = append(out, domain.Recipient{ID: groomer.ID, Role: domain.RoleGroomer, Name: groomer.Name, Phone: groomer.Phone})
		}
	}

	return out
}

func (s *Scheduler) remind(
	ctx context.Context,
	token string,
	b *domain.Booking,
	r domain.Recipient,
	horizon int,
	today, now time.Time,
	report *RunReport,
) {
	role := string(r.Role)
	skip := func(result string) {
		report.Skipped++
		s.metrics.ReminderProcessed(role, horizon, result)
	}
	fail := func() {
		report.Failed++
		s.metrics.ReminderProcessed(role, horizon, resultFailed)
	}

	if r.Phone == "" {
		skip(resultNoPhone)
		return
	}

	record := &domain.ReminderRecord{
		BookingID:     b.ID,
		RecipientID:   r.ID,
		RecipientRole: r.Role,
		Channel:       domain.ChannelSMS,
		Horizon:       horizon,
		SentOn:        today,
		Destination:   r.Phone,
	}
	key := record.Key()

	exists, err := s.reminderRepo.Exists(ctx, key)
	if err != nil {
		s.logger.Error("Reminders: dedup check failed for booking id=%d %s=%d: %v", b.ID, role, r.ID, err)
		fail()
		return
	}
	if exists {
		skip(resultDuplicate)
		return
	}

	if horizon == 0 {
		until := b.AppointmentAt.Sub(now)
		if until <= 0 || until > s.cfg.proximityWindow(r.Role) {
			skip(resultOutsideWindow)
			return
		}
	}

	claimed, err := s.reminderRepo.Claim(ctx, record)
	if err != nil {
		s.logger.Error("Reminders: failed to claim reminder for booking id=%d %s=%d: %v", b.ID, role, r.ID, err)
		fail()
		return
	}
	if !claimed {
		skip(resultDuplicate)
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.cfg.SendTimeout)
	err = s.gateway.Send(sendCtx, token, r.Phone, renderMessage(b, r, horizon, s.cfg.Location))
	cancel()

	if err != nil {
		s.logger.Warn("Reminders: send failed for booking id=%d %s=%d: %v", b.ID, role, r.ID, err)
		if relErr := s.reminderRepo.Release(context.WithoutCancel(ctx), key); relErr != nil {
			s.logger.Error("Reminders: failed to release claim for booking id=%d %s=%d: %v", b.ID, role, r.ID, relErr)
		}
		fail()
		return
	}

	report.Sent++
	s.metrics.ReminderProcessed(role, horizon, resultSent)
	s.logger.Info("Reminders: sent h=%d reminder for booking id=%d to %s=%d", horizon, b.ID, role, r.ID)
}
