package reschedule_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-GroomingService/internal/integrations/events"
	"github.com/m04kA/SMC-GroomingService/pkg/pgerr"
)

// UseCase use case для переноса бронирования на другую дату и слоты
type UseCase struct {
	bookingRepo  BookingRepository
	txManager    TransactionManager
	publisher    EventPublisher
	metrics      Metrics
	catalog      *domain.SlotCatalog
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	catalog *domain.SlotCatalog,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		publisher:    publisher,
		metrics:      metrics,
		catalog:      catalog,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute переносит запланированное бронирование.
// Собственные слоты бронирования не считаются конфликтом; одноразовые коды не меняются.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: booking=%d, actor=%d(%s), date=%s, slots=%v",
		req.BookingID, req.Actor.ID, req.Actor.Role, req.Date, req.SlotIDs)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	date, err := parseAndValidateDate(req.Date, now, uc.location)
	if err != nil {
		uc.logger.Warn("RescheduleBooking: date validation failed: %v", err)
		return nil, err
	}

	slots, ok := uc.catalog.Resolve(req.SlotIDs)
	if !ok {
		uc.logger.Warn("RescheduleBooking: unknown slot in %v", req.SlotIDs)
		return nil, ErrUnknownSlot
	}
	for _, s := range slots {
		if !s.StartsAt(date, uc.location).After(now) {
			uc.logger.Warn("RescheduleBooking: slot id=%d on %s has already started", s.ID, req.Date)
			return nil, fmt.Errorf("%w: slot id=%d", ErrSlotInPast, s.ID)
		}
	}

	newSlotIDs := make([]int64, 0, len(slots))
	for _, s := range slots {
		newSlotIDs = append(newSlotIDs, s.ID)
	}
	appointmentAt := slots[0].StartsAt(date, uc.location)

	var result *domain.Booking

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetByIDForUpdate(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("get booking: %w", err)
		}

		if !req.Actor.CanManageAsCustomer(booking) {
			return ErrAccessDenied
		}

		if !booking.CanBeRescheduled() {
			uc.logger.Warn("RescheduleBooking: booking id=%d has status=%s", booking.ID, booking.Status)
			return ErrInvalidStateTransition
		}

		occupied, err := uc.bookingRepo.GetOccupiedSlots(txCtx, date)
		if err != nil {
			return fmt.Errorf("get occupied slots: %w", err)
		}

		for _, o := range occupied {
			if o.BookingID != booking.ID && containsSlot(newSlotIDs, o.SlotID) {
				uc.logger.Warn("RescheduleBooking: slot id=%d on %s already taken by booking id=%d",
					o.SlotID, req.Date, o.BookingID)
				return ErrSlotConflict
			}
		}

		if err := uc.bookingRepo.Reschedule(txCtx, booking.ID, date, newSlotIDs, appointmentAt); err != nil {
			if errors.Is(err, bookingRepo.ErrStatusConflict) {
				return ErrInvalidStateTransition
			}
			return fmt.Errorf("reschedule: %w", err)
		}

		booking.BookingDate = date
		booking.SlotIDs = newSlotIDs
		booking.AppointmentAt = appointmentAt
		result = booking
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound),
			errors.Is(err, ErrAccessDenied),
			errors.Is(err, ErrInvalidStateTransition):
			uc.metrics.BookingTransition("reschedule", "rejected")
			uc.logger.Warn("RescheduleBooking: booking id=%d: %v", req.BookingID, err)
			return nil, err
		case errors.Is(err, ErrSlotConflict),
			errors.Is(err, bookingRepo.ErrSlotTaken),
			pgerr.IsSerializationFailure(err):
			uc.metrics.BookingTransition("reschedule", "conflict")
			uc.logger.Warn("RescheduleBooking: conflict for booking id=%d: %v", req.BookingID, err)
			return nil, ErrSlotConflict
		default:
			uc.metrics.BookingTransition("reschedule", "error")
			uc.logger.Error("RescheduleBooking: transaction failed for booking id=%d: %v", req.BookingID, err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
	}

	uc.metrics.BookingTransition("reschedule", "success")
	uc.logger.Info("RescheduleBooking: booking id=%d moved to %s slots=%v", result.ID, req.Date, newSlotIDs)

	if err := uc.publisher.Publish(ctx, events.Event{
		Type:       events.BookingRescheduled,
		BookingID:  result.ID,
		OrderID:    result.OrderID,
		Status:     string(result.Status),
		OccurredAt: now,
		Data: map[string]interface{}{
			"booking_date": result.BookingDate.Format(domain.DateFormat),
			"slot_ids":     result.SlotIDs,
		},
	}); err != nil {
		uc.logger.Warn("RescheduleBooking: failed to publish event for booking id=%d: %v", result.ID, err)
	}

	return &Response{Booking: result}, nil
}

func containsSlot(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
