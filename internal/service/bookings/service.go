package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/booking"
	directoryClient "github.com/m04kA/SMC-GroomingService/internal/integrations/directory"
	"github.com/m04kA/SMC-GroomingService/internal/integrations/events"
	"github.com/m04kA/SMC-GroomingService/internal/service/bookings/models"
)

// OTPPolicy параметры блокировки ввода одноразовых кодов
type OTPPolicy struct {
	MaxAttempts int
	Lockout     time.Duration
}

// Service сервис жизненного цикла бронирований
type Service struct {
	bookingRepo     BookingRepository
	directoryClient DirectoryClient
	otpVerifier     OTPVerifier
	txManager       TransactionManager
	publisher       EventPublisher
	metrics         Metrics
	otpPolicy       OTPPolicy
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	directoryClient DirectoryClient,
	otpVerifier OTPVerifier,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	otpPolicy OTPPolicy,
	location *time.Location,
	logger Logger,
) *Service {
	if otpPolicy.MaxAttempts <= 0 {
		otpPolicy.MaxAttempts = domain.DefaultOTPMaxAttempts
	}
	if otpPolicy.Lockout <= 0 {
		otpPolicy.Lockout = domain.DefaultOTPLockoutMinutes * time.Minute
	}

	return &Service{
		bookingRepo:     bookingRepo,
		directoryClient: directoryClient,
		otpVerifier:     otpVerifier,
		txManager:       txManager,
		publisher:       publisher,
		metrics:         metrics,
		otpPolicy:       otpPolicy,
		location:        location,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// transition описание OTP-перехода между статусами
type transition struct {
	name    string
	from    domain.BookingStatus
	to      domain.BookingStatus
	otpHash func(b *domain.Booking) string
	event   events.Type
}

var (
	startTransition = transition{
		name:    "start",
		from:    domain.StatusScheduled,
		to:      domain.StatusInProgress,
		otpHash: func(b *domain.Booking) string { return b.StartOTPHash },
		event:   events.BookingStarted,
	}
	completeTransition = transition{
		name:    "complete",
		from:    domain.StatusInProgress,
		to:      domain.StatusCompleted,
		otpHash: func(b *domain.Booking) string { return b.EndOTPHash },
		event:   events.BookingCompleted,
	}
)

// GetByID получает бронирование по ID.
// Клиент видит свои бронирования, грумер назначенные ему, администратор все.
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for actor=%d(%s)", id, actor.ID, actor.Role)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if !actor.CanView(booking) {
		s.logger.Warn("GetByID: access denied for actor=%d(%s) to booking id=%d", actor.ID, actor.Role, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// List получает бронирования с фильтрацией.
// Область видимости ограничивается ролью: клиент видит свои, грумер назначенные.
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("List: fetching bookings for actor=%d(%s), date=%v, status=%v, includeInactive=%v",
		req.Actor.ID, req.Actor.Role, req.Date, req.Status, req.IncludeInactive)

	filter, err := req.ToDomainFilter(s.location)
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.GetByFilter(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// Start переводит бронирование в in_progress по коду начала
func (s *Service) Start(ctx context.Context, id int64, req *models.TransitionRequest) (*models.BookingResponse, error) {
	return s.applyTransition(ctx, id, req, startTransition)
}

// Complete переводит бронирование в completed по коду завершения
func (s *Service) Complete(ctx context.Context, id int64, req *models.TransitionRequest) (*models.BookingResponse, error) {
	return s.applyTransition(ctx, id, req, completeTransition)
}

// applyTransition проверяет код и атомарно меняет статус.
// Повторное использование кода невозможно: после перехода статус уже не совпадает с from.
func (s *Service) applyTransition(ctx context.Context, id int64, req *models.TransitionRequest, t transition) (*models.BookingResponse, error) {
	s.logger.Info("Transition(%s): booking id=%d by actor=%d(%s)", t.name, id, req.Actor.ID, req.Actor.Role)

	if req.OTP == "" {
		return nil, fmt.Errorf("%w: otp is required", ErrInvalidInput)
	}

	booking, err := s.getBooking(ctx, "Transition", id)
	if err != nil {
		return nil, err
	}

	if !req.Actor.CanService(booking) {
		s.logger.Warn("Transition(%s): access denied for actor=%d(%s) to booking id=%d",
			t.name, req.Actor.ID, req.Actor.Role, id)
		return nil, ErrAccessDenied
	}

	if booking.Status != t.from {
		s.logger.Warn("Transition(%s): booking id=%d has status=%s, expected %s", t.name, id, booking.Status, t.from)
		s.metrics.BookingTransition(t.name, "rejected")
		return nil, ErrInvalidStateTransition
	}

	now := s.timeProvider.Now()

	if booking.IsOTPLocked(now) {
		s.logger.Warn("Transition(%s): OTP locked for booking id=%d until %s", t.name, id, booking.OTPLockedUntil.Format(time.RFC3339))
		s.metrics.BookingTransition(t.name, "locked")
		return nil, ErrOTPLocked
	}

	if !s.otpVerifier.Verify(t.otpHash(booking), req.OTP) {
		return nil, s.registerOTPFailure(ctx, booking, t, now)
	}

	if err := s.bookingRepo.TransitionStatus(ctx, id, t.from, t.to, now); err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			s.logger.Warn("Transition(%s): booking id=%d changed concurrently", t.name, id)
			s.metrics.BookingTransition(t.name, "rejected")
			return nil, ErrInvalidStateTransition
		}
		s.logger.Error("Transition(%s): repository error for booking id=%d: %v", t.name, id, err)
		s.metrics.BookingTransition(t.name, "error")
		return nil, fmt.Errorf("%w: Transition - repository error: %v", ErrInternal, err)
	}

	booking.Status = t.to
	booking.OTPFailedAttempts = 0
	booking.OTPLockedUntil = nil
	switch t.to {
	case domain.StatusInProgress:
		booking.StartTime = &now
	case domain.StatusCompleted:
		booking.EndTime = &now
	}

	s.metrics.BookingTransition(t.name, "success")
	s.logger.Info("Transition(%s): booking id=%d is now %s", t.name, id, booking.Status)
	s.publish(ctx, t.event, booking, now, nil)

	return models.FromDomainBooking(booking), nil
}

func (s *Service) registerOTPFailure(ctx context.Context, booking *domain.Booking, t transition, now time.Time) error {
	attempts, lockedUntil, err := s.bookingRepo.RegisterOTPFailure(ctx, booking.ID, s.otpPolicy.MaxAttempts, now.Add(s.otpPolicy.Lockout))
	if err != nil {
		s.logger.Error("Transition(%s): failed to register OTP failure for booking id=%d: %v", t.name, booking.ID, err)
		return fmt.Errorf("%w: Transition - register OTP failure: %v", ErrInternal, err)
	}

	if lockedUntil != nil && now.Before(*lockedUntil) {
		s.logger.Warn("Transition(%s): too many wrong codes, booking id=%d locked until %s",
			t.name, booking.ID, lockedUntil.Format(time.RFC3339))
		s.metrics.BookingTransition(t.name, "locked")
		return ErrOTPLocked
	}

	s.logger.Warn("Transition(%s): wrong code for booking id=%d (attempt %d of %d)",
		t.name, booking.ID, attempts, s.otpPolicy.MaxAttempts)
	s.metrics.BookingTransition(t.name, "invalid_otp")
	return ErrInvalidOTP
}

// AssignGroomer назначает грумера. Повторное назначение того же грумера не является ошибкой.
func (s *Service) AssignGroomer(ctx context.Context, id int64, req *models.AssignGroomerRequest) (*models.BookingResponse, error) {
	s.logger.Info("AssignGroomer: booking id=%d, groomer=%d by actor=%d(%s)", id, req.GroomerID, req.Actor.ID, req.Actor.Role)

	if !req.Actor.IsAdmin() {
		s.logger.Warn("AssignGroomer: access denied for actor=%d(%s)", req.Actor.ID, req.Actor.Role)
		return nil, ErrAccessDenied
	}
	if req.GroomerID <= 0 {
		return nil, fmt.Errorf("%w: groomerId must be positive", ErrInvalidInput)
	}

	booking, err := s.getBooking(ctx, "AssignGroomer", id)
	if err != nil {
		return nil, err
	}

	if !booking.CanAssignGroomer() {
		s.logger.Warn("AssignGroomer: booking id=%d has status=%s", id, booking.Status)
		s.metrics.BookingTransition("assign_groomer", "rejected")
		return nil, ErrInvalidStateTransition
	}

	if booking.GroomerID != nil && *booking.GroomerID == req.GroomerID {
		s.logger.Info("AssignGroomer: groomer=%d already assigned to booking id=%d", req.GroomerID, id)
		return models.FromDomainBooking(booking), nil
	}

	groomer, err := s.directoryClient.GetGroomer(ctx, req.GroomerID)
	if err != nil {
		if errors.Is(err, directoryClient.ErrGroomerNotFound) {
			s.logger.Warn("AssignGroomer: groomer id=%d not found", req.GroomerID)
			return nil, ErrGroomerNotFound
		}
		s.logger.Error("AssignGroomer: failed to get groomer id=%d: %v", req.GroomerID, err)
		return nil, fmt.Errorf("%w: AssignGroomer - failed to get groomer: %v", ErrInternal, err)
	}
	if !groomer.IsActive {
		s.logger.Warn("AssignGroomer: groomer id=%d is inactive", req.GroomerID)
		return nil, ErrGroomerNotFound
	}

	if err := s.bookingRepo.AssignGroomer(ctx, id, req.GroomerID); err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			s.metrics.BookingTransition("assign_groomer", "rejected")
			return nil, ErrInvalidStateTransition
		}
		s.logger.Error("AssignGroomer: repository error for booking id=%d: %v", id, err)
		s.metrics.BookingTransition("assign_groomer", "error")
		return nil, fmt.Errorf("%w: AssignGroomer - repository error: %v", ErrInternal, err)
	}

	groomerID := req.GroomerID
	booking.GroomerID = &groomerID

	s.metrics.BookingTransition("assign_groomer", "success")
	s.logger.Info("AssignGroomer: groomer=%d assigned to booking id=%d", groomerID, id)
	s.publish(ctx, events.BookingGroomerAssigned, booking, s.timeProvider.Now(), map[string]interface{}{
		"groomer_id": groomerID,
	})

	return models.FromDomainBooking(booking), nil
}

// Cancel отменяет бронирование и освобождает слоты в одной транзакции.
// Платежи не корректируются.
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d by actor=%d(%s)", id, req.Actor.ID, req.Actor.Role)

	if req.CancellationReason != nil && len(*req.CancellationReason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellation reason is too long", ErrInvalidInput)
	}

	var result *domain.Booking

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, "Cancel", id)
		if err != nil {
			return err
		}

		if !req.Actor.CanManageAsCustomer(booking) {
			s.logger.Warn("Cancel: access denied for actor=%d(%s) to booking id=%d", req.Actor.ID, req.Actor.Role, id)
			return ErrAccessDenied
		}

		if !booking.CanBeCancelled() {
			s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", id, booking.Status)
			return ErrInvalidStateTransition
		}

		if err := s.bookingRepo.Cancel(txCtx, id, req.CancellationReason); err != nil {
			if errors.Is(err, bookingRepo.ErrStatusConflict) {
				return ErrInvalidStateTransition
			}
			s.logger.Error("Cancel: repository error for booking id=%d: %v", id, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		result = booking
		return nil
	})
	if err != nil {
		s.metrics.BookingTransition("cancel", transitionResult(err))
		return nil, err
	}

	now := s.timeProvider.Now()
	result.Status = domain.StatusCancelled
	result.CancellationReason = req.CancellationReason
	result.CancelledAt = &now

	s.metrics.BookingTransition("cancel", "success")
	s.logger.Info("Cancel: successfully cancelled booking id=%d", id)
	s.publish(ctx, events.BookingCancelled, result, now, nil)

	return models.FromDomainBooking(result), nil
}

// Delete мягко удаляет бронирование и освобождает слоты. Только для администратора.
func (s *Service) Delete(ctx context.Context, id int64, actor domain.Actor) error {
	s.logger.Info("Delete: deleting booking id=%d by actor=%d(%s)", id, actor.ID, actor.Role)

	if !actor.IsAdmin() {
		s.logger.Warn("Delete: access denied for actor=%d(%s)", actor.ID, actor.Role)
		return ErrAccessDenied
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.bookingRepo.SoftDelete(txCtx, id)
	})
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Delete: booking id=%d not found", id)
			return ErrBookingNotFound
		}
		s.logger.Error("Delete: repository error for booking id=%d: %v", id, err)
		s.metrics.BookingTransition("delete", "error")
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.metrics.BookingTransition("delete", "success")
	s.logger.Info("Delete: booking id=%d deleted", id)
	s.publish(ctx, events.BookingDeleted, &domain.Booking{ID: id}, s.timeProvider.Now(), nil)

	return nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, method string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", method, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", method, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, method, err)
	}
	return booking, nil
}

// publish отправляет событие; ошибка брокера не влияет на результат операции
func (s *Service) publish(ctx context.Context, eventType events.Type, b *domain.Booking, at time.Time, data map[string]interface{}) {
	err := s.publisher.Publish(ctx, events.Event{
		Type:       eventType,
		BookingID:  b.ID,
		OrderID:    b.OrderID,
		Status:     string(b.Status),
		OccurredAt: at,
		Data:       data,
	})
	if err != nil {
		s.logger.Warn("failed to publish %s for booking id=%d: %v", eventType, b.ID, err)
	}
}

func transitionResult(err error) string {
	switch {
	case errors.Is(err, ErrInternal):
		return "error"
	default:
		return "rejected"
	}
}
