package booking

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/mryabova/salon-booking-service/internal/domain"
	"github.com/mryabova/salon-booking-service/pkg/dbmetrics"
	"github.com/mryabova/salon-booking-service/pkg/psqlbuilder"
)

// bookingColumns полный список колонок таблицы bookings
var bookingColumns = []string{
	"id",
	"client_name",
	"client_phone",
	"service_id",
	"master_id",
	"starts_at",
	"ends_at",
	"comment",
	"status",
	"source",
	"is_read",
	"admin_comment",
	"created_at",
}

// Repository репозиторий для работы с записями клиентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новую запись и возвращает её с заполненными id и created_at
// Если в контексте есть активная транзакция, запрос выполняется в ней
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"client_name",
			"client_phone",
			"service_id",
			"master_id",
			"starts_at",
			"ends_at",
			"comment",
			"status",
			"source",
			"is_read",
			"admin_comment",
		).
		Values(
			booking.ClientName,
			booking.ClientPhone,
			booking.ServiceID,
			booking.MasterID,
			booking.StartsAt,
			booking.EndsAt,
			booking.Comment,
			booking.Status,
			booking.Source,
			booking.IsRead,
			booking.AdminComment,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&booking.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time

	return booking, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	// Внутри транзакции блокируем строку: запись могут одновременно переносить
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// ListWithFilter получает записи с гибкой фильтрацией по мастеру и интервалу времени
// Интервальный фильтр полуинтервальный: starts_at < To AND ends_at > From,
// то есть выбираются все записи, пересекающие [From, To)
//
// Внутри транзакции при заданном мастере добавляется FOR UPDATE - это путь
// финальной проверки занятости перед вставкой/переносом записи
func (r *Repository) ListWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings")

	if filter.MasterID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"master_id": *filter.MasterID})
	}
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.Gt{"ends_at": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"starts_at": *filter.To})
	}
	if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": domain.StatusCancelled})
	}
	if filter.ExcludeBookingID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *filter.ExcludeBookingID})
	}

	selectBuilder = selectBuilder.OrderBy("starts_at ASC", "id ASC")

	if dbmetrics.IsInTransaction(ctx) && filter.MasterID != nil {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// Update применяет частичное обновление записи и возвращает обновлённую версию
// Обновление атомарно: все поля патча меняются одним UPDATE
func (r *Repository) Update(ctx context.Context, id int64, patch domain.BookingPatch) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("bookings").Where(squirrel.Eq{"id": id})

	changed := false
	if patch.SetMaster {
		updateBuilder = updateBuilder.Set("master_id", patch.MasterID)
		changed = true
	}
	if patch.StartsAt != nil {
		updateBuilder = updateBuilder.Set("starts_at", *patch.StartsAt)
		changed = true
	}
	if patch.EndsAt != nil {
		updateBuilder = updateBuilder.Set("ends_at", *patch.EndsAt)
		changed = true
	}
	if patch.Status != nil {
		updateBuilder = updateBuilder.Set("status", *patch.Status)
		changed = true
	}
	if patch.AdminComment != nil {
		updateBuilder = updateBuilder.Set("admin_comment", *patch.AdminComment)
		changed = true
	}
	if patch.Comment != nil {
		updateBuilder = updateBuilder.Set("comment", *patch.Comment)
		changed = true
	}
	if patch.IsRead != nil {
		updateBuilder = updateBuilder.Set("is_read", *patch.IsRead)
		changed = true
	}

	if !changed {
		// Пустой патч - просто возвращаем текущее состояние
		return r.GetByID(ctx, id)
	}

	query, args, err := updateBuilder.
		Suffix("RETURNING " + strings.Join(bookingColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.ClientName,
		&booking.ClientPhone,
		&booking.ServiceID,
		&booking.MasterID,
		&booking.StartsAt,
		&booking.EndsAt,
		&booking.Comment,
		&booking.Status,
		&booking.Source,
		&booking.IsRead,
		&booking.AdminComment,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time

	return &booking, nil
}

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
