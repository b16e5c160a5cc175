package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-GroomingService/internal/integrations/events"
	"github.com/m04kA/SMC-GroomingService/internal/service/ledger/models"
	"github.com/m04kA/SMC-GroomingService/pkg/pgerr"
)

// Service платежная книга бронирований
type Service struct {
	bookingRepo          BookingRepository
	transactionRepo      TransactionRepository
	txManager            TransactionManager
	publisher            EventPublisher
	metrics              Metrics
	overpaymentTolerance decimal.Decimal
	timeProvider         TimeProvider
	logger               Logger
}

// NewService создает новый экземпляр платежной книги.
// tolerance допустимое превышение итога (0 = переплата запрещена).
func NewService(
	bookingRepo BookingRepository,
	transactionRepo TransactionRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	tolerance decimal.Decimal,
	logger Logger,
) *Service {
	if tolerance.IsNegative() {
		tolerance = decimal.Zero
	}
	return &Service{
		bookingRepo:          bookingRepo,
		transactionRepo:      transactionRepo,
		txManager:            txManager,
		publisher:            publisher,
		metrics:              metrics,
		overpaymentTolerance: tolerance,
		timeProvider:         &RealTimeProvider{},
		logger:               logger,
	}
}

// AddTransaction добавляет платеж к бронированию.
// Бронирование блокируется на время проверки, поэтому параллельные платежи не превысят итог.
func (s *Service) AddTransaction(ctx context.Context, bookingID int64, req *models.AddTransactionRequest) (*models.TransactionResponse, error) {
	s.logger.Info("AddTransaction: booking id=%d, amount=%s, method=%s, status=%s by actor=%d(%s)",
		bookingID, req.Amount, req.Method, req.Status, req.Actor.ID, req.Actor.Role)

	if !req.Actor.IsAdmin() {
		s.logger.Warn("AddTransaction: access denied for actor=%d(%s)", req.Actor.ID, req.Actor.Role)
		return nil, ErrAccessDenied
	}

	tx, err := parseTransaction(bookingID, req)
	if err != nil {
		s.logger.Warn("AddTransaction: validation failed: %v", err)
		return nil, err
	}

	var created *domain.Transaction

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByIDForUpdate(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("get booking: %w", err)
		}

		if tx.CountsTowardsPaid() {
			existing, err := s.transactionRepo.ListByBooking(txCtx, bookingID)
			if err != nil {
				return fmt.Errorf("list transactions: %w", err)
			}

			balance := domain.NewBalance(booking.ID, booking.Total, existing)
			limit := booking.Total.Add(s.overpaymentTolerance)
			if balance.Paid.Add(tx.Amount).GreaterThan(limit) {
				s.logger.Warn("AddTransaction: booking id=%d paid=%s + %s exceeds total=%s",
					bookingID, balance.Paid.StringFixed(2), tx.Amount.StringFixed(2), booking.Total.StringFixed(2))
				return ErrOverpayment
			}
		}

		created, err = s.transactionRepo.Create(txCtx, tx)
		if err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound), errors.Is(err, ErrOverpayment):
			return nil, err
		case pgerr.IsSerializationFailure(err):
			s.logger.Warn("AddTransaction: concurrent update for booking id=%d: %v", bookingID, err)
			return nil, ErrConcurrentUpdate
		default:
			s.logger.Error("AddTransaction: transaction failed for booking id=%d: %v", bookingID, err)
			return nil, fmt.Errorf("%w: AddTransaction - %v", ErrInternal, err)
		}
	}

	s.metrics.LedgerTransaction(string(created.Method), string(created.Status))
	s.logger.Info("AddTransaction: recorded transaction id=%d for booking id=%d", created.ID, bookingID)

	if err := s.publisher.Publish(ctx, events.Event{
		Type:       events.TransactionAdded,
		BookingID:  bookingID,
		OccurredAt: s.timeProvider.Now(),
		Data: map[string]interface{}{
			"transaction_id": created.ID,
			"amount":         created.Amount.StringFixed(2),
			"method":         created.Method,
			"status":         created.Status,
		},
	}); err != nil {
		s.logger.Warn("AddTransaction: failed to publish event for booking id=%d: %v", bookingID, err)
	}

	return models.FromDomainTransaction(created), nil
}

// GetBalance возвращает итог, оплаченную сумму и остаток (со знаком)
func (s *Service) GetBalance(ctx context.Context, bookingID int64, actor domain.Actor) (*models.BalanceResponse, error) {
	s.logger.Info("GetBalance: booking id=%d for actor=%d(%s)", bookingID, actor.ID, actor.Role)

	booking, err := s.getVisibleBooking(ctx, "GetBalance", bookingID, actor)
	if err != nil {
		return nil, err
	}

	txs, err := s.transactionRepo.ListByBooking(ctx, bookingID)
	if err != nil {
		s.logger.Error("GetBalance: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: GetBalance - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBalance(domain.NewBalance(booking.ID, booking.Total, txs)), nil
}

// ListTransactions возвращает платежи бронирования в порядке добавления
func (s *Service) ListTransactions(ctx context.Context, bookingID int64, actor domain.Actor) (*models.TransactionListResponse, error) {
	s.logger.Info("ListTransactions: booking id=%d for actor=%d(%s)", bookingID, actor.ID, actor.Role)

	if _, err := s.getVisibleBooking(ctx, "ListTransactions", bookingID, actor); err != nil {
		return nil, err
	}

	txs, err := s.transactionRepo.ListByBooking(ctx, bookingID)
	if err != nil {
		s.logger.Error("ListTransactions: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: ListTransactions - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainTransactionList(txs), nil
}

func (s *Service) getVisibleBooking(ctx context.Context, method string, bookingID int64, actor domain.Actor) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", method, bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", method, bookingID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, method, err)
	}

	if !actor.CanView(booking) {
		s.logger.Warn("%s: access denied for actor=%d(%s) to booking id=%d", method, actor.ID, actor.Role, bookingID)
		return nil, ErrAccessDenied
	}

	return booking, nil
}

func parseTransaction(bookingID int64, req *models.AddTransactionRequest) (*domain.Transaction, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	if !amount.IsPositive() || !amount.Equal(amount.Round(2)) {
		return nil, ErrInvalidAmount
	}

	method, ok := domain.ParsePaymentMethod(req.Method)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMethod, req.Method)
	}

	status, ok := domain.ParseTransactionStatus(req.Status)
	if !ok {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxTransactionNotesLength {
		return nil, fmt.Errorf("%w: notes are too long", ErrInvalidInput)
	}

	return &domain.Transaction{
		BookingID: bookingID,
		Amount:    amount,
		Method:    method,
		Status:    status,
		Notes:     req.Notes,
	}, nil
}
