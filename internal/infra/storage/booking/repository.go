package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-GroomingService/pkg/pgerr"
	"github.com/m04kA/SMC-GroomingService/pkg/psqlbuilder"
)

const activeSlotsConstraint = "uq_booking_slots_active"

var bookingColumns = []string{
	"id",
	"order_id",
	"customer_id",
	"groomer_id",
	"pet_id",
	"address_id",
	"service_id",
	"pricing_id",
	"pet_size",
	"booking_date",
	"slot_ids",
	"appointment_at",
	"status",
	"start_otp_hash",
	"end_otp_hash",
	"start_time",
	"end_time",
	"otp_failed_attempts",
	"otp_locked_until",
	"service_name",
	"amount",
	"tax",
	"total",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
	"deleted_at",
}

// Repository репозиторий для работы с бронированиями и занятостью слотов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает бронирование и занимает его слоты.
// Должен вызываться внутри транзакции: строка bookings и строки booking_slots
// фиксируются вместе. Занятый слот возвращает ErrSlotTaken.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"order_id",
			"customer_id",
			"groomer_id",
			"pet_id",
			"address_id",
			"service_id",
			"pricing_id",
			"pet_size",
			"booking_date",
			"slot_ids",
			"appointment_at",
			"status",
			"start_otp_hash",
			"end_otp_hash",
			"service_name",
			"amount",
			"tax",
			"total",
			"notes",
		).
		Values(
			booking.OrderID,
			booking.CustomerID,
			booking.GroomerID,
			booking.PetID,
			booking.AddressID,
			booking.ServiceID,
			booking.PricingID,
			booking.PetSize,
			booking.BookingDate.Format(domain.DateFormat),
			pq.Array(booking.SlotIDs),
			booking.AppointmentAt,
			booking.Status,
			booking.StartOTPHash,
			booking.EndOTPHash,
			booking.ServiceName,
			booking.Amount,
			booking.Tax,
			booking.Total,
			booking.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, wrapExec("Create - execute insert", err)
	}

	if err := r.occupySlots(ctx, executor, booking.ID, booking.BookingDate, booking.SlotIDs); err != nil {
		return nil, err
	}

	return booking, nil
}

// GetByID получает бронирование по ID. Удаленные бронирования не возвращаются.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate получает бронирование по ID и блокирует строку до конца транзакции.
// Вне транзакции эквивалентен GetByID.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getByID(ctx, id, dbmetrics.IsInTransaction(ctx))
}

func (r *Repository) getByID(ctx context.Context, id int64, forUpdate bool) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id, "deleted_at": nil})

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetByFilter получает бронирования с фильтрацией по дате, статусу, клиенту и грумеру.
// Без явного статуса отмененные бронирования исключаются, если не задан IncludeInactive.
func (r *Repository) GetByFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"deleted_at": nil})

	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"booking_date": filter.Date.Format(domain.DateFormat)})
	}
	if filter.CustomerID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.GroomerID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"groomer_id": *filter.GroomerID})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": domain.StatusCancelled})
	}

	if filter.Date != nil {
		selectBuilder = selectBuilder.OrderBy("appointment_at ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("appointment_at DESC")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetScheduledBetween получает запланированные бронирования с датой визита в [from, to].
// Используется планировщиком напоминаний.
func (r *Repository) GetScheduledBetween(ctx context.Context, from, to time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"status": domain.StatusScheduled, "deleted_at": nil}).
		Where(squirrel.GtOrEq{"booking_date": from.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"booking_date": to.Format(domain.DateFormat)}).
		OrderBy("appointment_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetScheduledBetween - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetScheduledBetween - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetOccupiedSlots возвращает занятые слоты на дату.
// Внутри транзакции строки блокируются (FOR UPDATE) до её завершения.
func (r *Repository) GetOccupiedSlots(ctx context.Context, date time.Time) ([]domain.OccupiedSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("booking_id", "booking_date", "slot_id").
		From("booking_slots").
		Where(squirrel.Eq{"booking_date": date.Format(domain.DateFormat), "released_at": nil}).
		OrderBy("slot_id ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOccupiedSlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapExec("GetOccupiedSlots - execute query", err)
	}
	defer rows.Close()

	occupied := make([]domain.OccupiedSlot, 0)
	for rows.Next() {
		var slot domain.OccupiedSlot
		if err := rows.Scan(&slot.BookingID, &slot.BookingDate, &slot.SlotID); err != nil {
			return nil, fmt.Errorf("%w: GetOccupiedSlots - scan row: %v", ErrScanRow, err)
		}
		occupied = append(occupied, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetOccupiedSlots - rows error: %v", ErrScanRow, err)
	}

	return occupied, nil
}

// Reschedule переносит запланированное бронирование на новую дату и слоты.
// Старые слоты освобождаются, новые занимаются; вызывается внутри транзакции.
func (r *Repository) Reschedule(ctx context.Context, id int64, date time.Time, slotIDs []int64, appointmentAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("booking_date", date.Format(domain.DateFormat)).
		Set("slot_ids", pq.Array(slotIDs)).
		Set("appointment_at", appointmentAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.StatusScheduled, "deleted_at": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Reschedule - build update query: %v", ErrBuildQuery, err)
	}

	if err := execAffectingOne(ctx, executor, "Reschedule", query, args); err != nil {
		return err
	}

	if err := r.releaseSlots(ctx, executor, id); err != nil {
		return err
	}

	return r.occupySlots(ctx, executor, id, date, slotIDs)
}

// TransitionStatus атомарно переводит бронирование из статуса from в to.
// Фиксирует start_time/end_time и сбрасывает счетчик неудачных OTP.
// Если статус уже не from, возвращает ErrStatusConflict.
func (r *Repository) TransitionStatus(ctx context.Context, id int64, from, to domain.BookingStatus, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("bookings").
		Set("status", to).
		Set("otp_failed_attempts", 0).
		Set("otp_locked_until", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from, "deleted_at": nil})

	switch to {
	case domain.StatusInProgress:
		updateBuilder = updateBuilder.Set("start_time", at)
	case domain.StatusCompleted:
		updateBuilder = updateBuilder.Set("end_time", at)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: TransitionStatus - build update query: %v", ErrBuildQuery, err)
	}

	return execAffectingOne(ctx, executor, "TransitionStatus", query, args)
}

// RegisterOTPFailure атомарно увеличивает счетчик неудачных попыток ввода OTP.
// При достижении maxAttempts счетчик сбрасывается и ставится блокировка до lockUntil.
// Возвращает текущее значение счетчика и время блокировки (если есть).
func (r *Repository) RegisterOTPFailure(ctx context.Context, id int64, maxAttempts int, lockUntil time.Time) (int, *time.Time, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("otp_failed_attempts", squirrel.Expr(
			"CASE WHEN otp_failed_attempts + 1 >= ? THEN 0 ELSE otp_failed_attempts + 1 END", maxAttempts)).
		Set("otp_locked_until", squirrel.Expr(
			"CASE WHEN otp_failed_attempts + 1 >= ? THEN ?::timestamptz ELSE otp_locked_until END", maxAttempts, lockUntil)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "deleted_at": nil}).
		Suffix("RETURNING otp_failed_attempts, otp_locked_until").
		ToSql()

	if err != nil {
		return 0, nil, fmt.Errorf("%w: RegisterOTPFailure - build update query: %v", ErrBuildQuery, err)
	}

	var attempts int
	var lockedUntil *time.Time
	err = executor.QueryRowContext(ctx, query, args...).Scan(&attempts, &lockedUntil)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil, ErrBookingNotFound
	}
	if err != nil {
		return 0, nil, fmt.Errorf("%w: RegisterOTPFailure - execute update: %v", ErrExecQuery, err)
	}

	return attempts, lockedUntil, nil
}

// AssignGroomer назначает (или переназначает) грумера нетерминальному бронированию
func (r *Repository) AssignGroomer(ctx context.Context, id, groomerID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("groomer_id", groomerID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.NonTerminalStatuses, "deleted_at": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AssignGroomer - build update query: %v", ErrBuildQuery, err)
	}

	return execAffectingOne(ctx, executor, "AssignGroomer", query, args)
}

// Cancel отменяет нетерминальное бронирование и освобождает его слоты.
// Вызывается внутри транзакции.
func (r *Repository) Cancel(ctx context.Context, id int64, reason *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.NonTerminalStatuses, "deleted_at": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	if err := execAffectingOne(ctx, executor, "Cancel", query, args); err != nil {
		return err
	}

	return r.releaseSlots(ctx, executor, id)
}

// SoftDelete помечает бронирование удаленным и освобождает его слоты.
// История транзакций и напоминаний сохраняется.
func (r *Repository) SoftDelete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("deleted_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "deleted_at": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SoftDelete - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SoftDelete - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SoftDelete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return r.releaseSlots(ctx, executor, id)
}

func (r *Repository) occupySlots(ctx context.Context, executor DBExecutor, bookingID int64, date time.Time, slotIDs []int64) error {
	insertBuilder := psqlbuilder.Insert("booking_slots").
		Columns("booking_id", "booking_date", "slot_id")

	day := date.Format(domain.DateFormat)
	for _, slotID := range slotIDs {
		insertBuilder = insertBuilder.Values(bookingID, day, slotID)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: occupySlots - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return wrapExec("occupySlots - execute insert", err)
	}

	return nil
}

func (r *Repository) releaseSlots(ctx context.Context, executor DBExecutor, bookingID int64) error {
	query, args, err := psqlbuilder.Update("booking_slots").
		Set("released_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"booking_id": bookingID, "released_at": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: releaseSlots - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return wrapExec("releaseSlots - execute update", err)
	}

	return nil
}

// execAffectingOne выполняет условный UPDATE; 0 строк означает ErrStatusConflict
func execAffectingOne(ctx context.Context, executor DBExecutor, method, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapExec(method+" - execute update", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}
	if rowsAffected == 0 {
		return ErrStatusConflict
	}

	return nil
}

// wrapExec сохраняет исходную ошибку драйвера в цепочке, чтобы вызывающий код
// мог распознать конфликт сериализации
func wrapExec(step string, err error) error {
	if pgerr.IsUniqueViolation(err) && pgerr.Constraint(err) == activeSlotsConstraint {
		return fmt.Errorf("%w: %s", ErrSlotTaken, step)
	}
	return fmt.Errorf("%w: %s: %w", ErrExecQuery, step, err)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var slotIDs pq.Int64Array

	err := row.Scan(
		&booking.ID,
		&booking.OrderID,
		&booking.CustomerID,
		&booking.GroomerID,
		&booking.PetID,
		&booking.AddressID,
		&booking.ServiceID,
		&booking.PricingID,
		&booking.PetSize,
		&booking.BookingDate,
		&slotIDs,
		&booking.AppointmentAt,
		&booking.Status,
		&booking.StartOTPHash,
		&booking.EndOTPHash,
		&booking.StartTime,
		&booking.EndTime,
		&booking.OTPFailedAttempts,
		&booking.OTPLockedUntil,
		&booking.ServiceName,
		&booking.Amount,
		&booking.Tax,
		&booking.Total,
		&booking.Notes,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
		&booking.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.SlotIDs = []int64(slotIDs)
	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
