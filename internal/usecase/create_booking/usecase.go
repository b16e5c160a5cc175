package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/booking"
	directoryClient "github.com/m04kA/SMC-GroomingService/internal/integrations/directory"
	"github.com/m04kA/SMC-GroomingService/internal/integrations/events"
	"github.com/m04kA/SMC-GroomingService/pkg/pgerr"
)

var hundred = decimal.NewFromInt(100)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo     BookingRepository
	directoryClient DirectoryClient
	otpGenerator    OTPGenerator
	txManager       TransactionManager
	publisher       EventPublisher
	metrics         Metrics
	catalog         *domain.SlotCatalog
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	directoryClient DirectoryClient,
	otpGenerator OTPGenerator,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	catalog *domain.SlotCatalog,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:     bookingRepo,
		directoryClient: directoryClient,
		otpGenerator:    otpGenerator,
		txManager:       txManager,
		publisher:       publisher,
		metrics:         metrics,
		catalog:         catalog,
		location:        location,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка занятости и вставка выполняются в сериализуемой транзакции;
// уникальный индекс по (дата, слот) защищает от гонок между процессами.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: customer=%d, pet=%d, service=%d, pricing=%d, date=%s, slots=%v",
		req.CustomerID, req.PetID, req.ServiceID, req.PricingID, req.Date, req.SlotIDs)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Дата и слоты
	date, err := parseAndValidateDate(req.Date, now, uc.location)
	if err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	slots, appointmentAt, err := resolveSlots(uc.catalog, req.SlotIDs, date, now, uc.location)
	if err != nil {
		uc.logger.Warn("CreateBooking: slot validation failed: %v", err)
		return nil, err
	}

	// 3. Клиент и тариф из реестров
	if _, err := uc.directoryClient.GetCustomer(ctx, req.CustomerID); err != nil {
		if errors.Is(err, directoryClient.ErrCustomerNotFound) {
			uc.logger.Warn("CreateBooking: customer id=%d not found", req.CustomerID)
			return nil, ErrCustomerNotFound
		}
		uc.logger.Error("CreateBooking: failed to get customer id=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: failed to get customer: %v", ErrInternal, err)
	}

	pricing, err := uc.directoryClient.GetPricing(ctx, req.PricingID)
	if err != nil {
		if errors.Is(err, directoryClient.ErrPricingNotFound) {
			uc.logger.Warn("CreateBooking: pricing id=%d not found", req.PricingID)
			return nil, ErrPricingNotFound
		}
		uc.logger.Error("CreateBooking: failed to get pricing id=%d: %v", req.PricingID, err)
		return nil, fmt.Errorf("%w: failed to get pricing: %v", ErrInternal, err)
	}

	if pricing.ServiceID != req.ServiceID {
		uc.logger.Warn("CreateBooking: pricing id=%d belongs to service=%d, not %d",
			pricing.ID, pricing.ServiceID, req.ServiceID)
		return nil, fmt.Errorf("%w: pricing does not belong to service", ErrInvalidInput)
	}

	// 4. Одноразовые коды начала и завершения
	startOTP, startHash, err := uc.otpGenerator.Generate()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to generate start OTP: %v", ErrInternal, err)
	}
	endOTP, endHash, err := uc.otpGenerator.Generate()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to generate end OTP: %v", ErrInternal, err)
	}

	amount, tax, total := computeAmounts(pricing.Price, pricing.TaxPercent)

	petSize := req.PetSize
	if petSize == "" {
		petSize = pricing.PetSize
	}

	booking := &domain.Booking{
		OrderID:       newOrderID(now.In(uc.location)),
		CustomerID:    req.CustomerID,
		PetID:         req.PetID,
		AddressID:     req.AddressID,
		ServiceID:     req.ServiceID,
		PricingID:     req.PricingID,
		PetSize:       petSize,
		BookingDate:   date,
		SlotIDs:       slotIDs(slots),
		AppointmentAt: appointmentAt,
		Status:        domain.StatusScheduled,
		StartOTPHash:  startHash,
		EndOTPHash:    endHash,
		ServiceName:   pricing.ServiceName,
		Amount:        amount,
		Tax:           tax,
		Total:         total,
		Notes:         req.Notes,
	}

	var result *domain.Booking

	// 5. Проверка занятости и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		occupied, err := uc.bookingRepo.GetOccupiedSlots(txCtx, date)
		if err != nil {
			return fmt.Errorf("get occupied slots: %w", err)
		}

		if slotID, taken := findConflict(booking.SlotIDs, occupied, 0); taken {
			uc.logger.Warn("CreateBooking: slot id=%d on %s already taken", slotID, req.Date)
			return ErrSlotConflict
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			return fmt.Errorf("create booking: %w", err)
		}

		result = created
		return nil
	})

	if err != nil {
		if isConflict(err) {
			uc.metrics.BookingTransition("create", "conflict")
			uc.logger.Warn("CreateBooking: conflict for date=%s slots=%v: %v", req.Date, req.SlotIDs, err)
			return nil, ErrSlotConflict
		}
		uc.metrics.BookingTransition("create", "error")
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.metrics.BookingTransition("create", "success")
	uc.logger.Info("CreateBooking: successfully created booking id=%d order=%s", result.ID, result.OrderID)

	if err := uc.publisher.Publish(ctx, events.Event{
		Type:       events.BookingCreated,
		BookingID:  result.ID,
		OrderID:    result.OrderID,
		Status:     string(result.Status),
		OccurredAt: now,
		Data: map[string]interface{}{
			"booking_date": result.BookingDate.Format(domain.DateFormat),
			"slot_ids":     result.SlotIDs,
			"total":        result.Total.StringFixed(2),
		},
	}); err != nil {
		uc.logger.Warn("CreateBooking: failed to publish event for booking id=%d: %v", result.ID, err)
	}

	return &Response{
		Booking:  result,
		StartOTP: startOTP,
		EndOTP:   endOTP,
	}, nil
}

// isConflict распознает проигранную гонку за слот: явная проверка,
// уникальный индекс или сбой сериализации
func isConflict(err error) bool {
	return errors.Is(err, ErrSlotConflict) ||
		errors.Is(err, bookingRepo.ErrSlotTaken) ||
		pgerr.IsSerializationFailure(err)
}

// computeAmounts считает сумму, налог (округление до копеек) и итог
func computeAmounts(price, taxPercent decimal.Decimal) (amount, tax, total decimal.Decimal) {
	amount = price.Round(2)
	tax = amount.Mul(taxPercent).Div(hundred).Round(2)
	total = amount.Add(tax)
	return amount, tax, total
}

// newOrderID формирует номер заказа вида GRM-YYYYMMDD-XXXXXXXX
func newOrderID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("GRM-%s-%s", now.Format("20060102"), suffix)
}

func slotIDs(slots []domain.Slot) []int64 {
	ids := make([]int64, 0, len(slots))
	for _, s := range slots {
		ids = append(ids, s.ID)
	}
	return ids
}
