package reminder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-GroomingService/pkg/psqlbuilder"
)

// Repository журнал отправленных напоминаний.
// Уникальный ключ (booking, recipient, role, channel, sent_on) гарантирует
// не более одного сообщения получателю в день.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория напоминаний
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Exists проверяет, отправлялось ли напоминание по ключу
func (r *Repository) Exists(ctx context.Context, key domain.ReminderKey) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("reminder_records").
		Where(keyCondition(key)).
		Limit(1).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: Exists - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: Exists - execute query: %v", ErrExecQuery, err)
	}

	return true, nil
}

// Claim записывает напоминание до отправки.
// Возвращает false, если запись по этому ключу уже существует (конкурентный запуск успел раньше).
func (r *Repository) Claim(ctx context.Context, record *domain.ReminderRecord) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reminder_records").
		Columns("booking_id", "recipient_id", "recipient_role", "channel", "horizon", "sent_on", "destination").
		Values(
			record.BookingID,
			record.RecipientID,
			record.RecipientRole,
			record.Channel,
			record.Horizon,
			record.SentOn.Format(domain.DateFormat),
			record.Destination,
		).
		Suffix("ON CONFLICT (booking_id, recipient_id, recipient_role, channel, sent_on) DO NOTHING RETURNING id, created_at").
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: Claim - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&record.ID, &record.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: Claim - execute insert: %v", ErrExecQuery, err)
	}

	return true, nil
}

// Release удаляет запись о напоминании, если отправка не удалась,
// чтобы следующий запуск мог повторить её
func (r *Repository) Release(ctx context.Context, key domain.ReminderKey) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("reminder_records").
		Where(keyCondition(key)).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Release - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Release - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

func keyCondition(key domain.ReminderKey) squirrel.Eq {
	return squirrel.Eq{
		"booking_id":     key.BookingID,
		"recipient_id":   key.RecipientID,
		"recipient_role": key.RecipientRole,
		"channel":        key.Channel,
		"sent_on":        key.SentOn.Format(domain.DateFormat),
	}
}
