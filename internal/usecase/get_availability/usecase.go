package get_availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
)

// UseCase use case расчета доступности слотов на дату
type UseCase struct {
	bookingRepo  BookingRepository
	catalog      *domain.SlotCatalog
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalog *domain.SlotCatalog,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		catalog:      catalog,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute возвращает для каждого слота каталога признаки занятости и доступности.
// Слот доступен, если он не занят и его начало еще не наступило.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: date=%s", req.Date)

	now := uc.timeProvider.Now()

	date, err := parseAndValidateDate(req.Date, now, uc.location)
	if err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	occupied, err := uc.bookingRepo.GetOccupiedSlots(ctx, date)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get occupied slots for date=%s: %v", req.Date, err)
		return nil, fmt.Errorf("%w: failed to get occupied slots: %v", ErrInternal, err)
	}

	booked := make(map[int64]bool, len(occupied))
	for _, o := range occupied {
		booked[o.SlotID] = true
	}

	slots := make([]domain.SlotAvailability, 0, uc.catalog.Len())
	for _, slot := range uc.catalog.All() {
		isBooked := booked[slot.ID]
		slots = append(slots, domain.SlotAvailability{
			Slot:        slot,
			IsBooked:    isBooked,
			IsAvailable: !isBooked && slot.StartsAt(date, uc.location).After(now),
		})
	}

	uc.logger.Info("GetAvailability: date=%s, %d slots, %d booked", req.Date, len(slots), len(booked))

	return &Response{Date: date, Slots: slots}, nil
}
