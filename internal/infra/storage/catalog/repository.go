package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/mryabova/salon-booking-service/internal/domain"
	"github.com/mryabova/salon-booking-service/pkg/dbmetrics"
	"github.com/mryabova/salon-booking-service/pkg/psqlbuilder"
)

// Repository read-only справочник услуг и мастеров
// Управление справочником (CRUD) живёт в админке и не входит в этот сервис
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр справочника
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetService получает услугу по ID
func (r *Repository) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"title",
		"slug",
		"duration_min",
		"is_active",
	).
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	var service domain.Service
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&service.ID,
		&service.Title,
		&service.Slug,
		&service.DurationMin,
		&service.IsActive,
	)
	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %v", ErrScanRow, err)
	}

	return &service, nil
}

// GetMaster получает мастера по ID вместе со списком его услуг
func (r *Repository) GetMaster(ctx context.Context, id int64) (*domain.Master, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := masterSelect().
		Where(squirrel.Eq{"m.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetMaster - build select query: %v", ErrBuildQuery, err)
	}

	master, err := scanMaster(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrMasterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetMaster - scan master: %v", ErrScanRow, err)
	}

	return master, nil
}

// ListActiveMasters получает всех активных мастеров в порядке показа
func (r *Repository) ListActiveMasters(ctx context.Context) ([]*domain.Master, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := masterSelect().
		Where(squirrel.Eq{"m.is_active": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveMasters - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryMasters(ctx, executor, query, args)
}

// ListMastersForService получает активных мастеров, выполняющих услугу,
// в порядке показа (sort_order, name) - этот порядок фиксирует tie-break
// при поиске ближайших свободных окон
func (r *Repository) ListMastersForService(ctx context.Context, serviceID int64) ([]*domain.Master, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := masterSelect().
		Where(squirrel.Eq{"m.is_active": true}).
		Where("EXISTS (SELECT 1 FROM master_services qs WHERE qs.master_id = m.id AND qs.service_id = ?)", serviceID).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListMastersForService - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryMasters(ctx, executor, query, args)
}

func (r *Repository) queryMasters(ctx context.Context, executor dbmetrics.DBExecutor, query string, args []interface{}) ([]*domain.Master, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	masters := make([]*domain.Master, 0)
	for rows.Next() {
		master, err := scanMaster(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan master: %v", ErrScanRow, err)
		}
		masters = append(masters, master)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %v", ErrScanRow, err)
	}

	return masters, nil
}

// masterSelect базовый SELECT мастера с агрегированным списком услуг
func masterSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"m.id",
		"m.name",
		"m.slug",
		"m.is_active",
		"m.sort_order",
		"COALESCE(array_agg(ms.service_id) FILTER (WHERE ms.service_id IS NOT NULL), '{}')",
	).
		From("masters m").
		LeftJoin("master_services ms ON ms.master_id = m.id").
		GroupBy("m.id", "m.name", "m.slug", "m.is_active", "m.sort_order").
		OrderBy("m.sort_order ASC", "m.name ASC")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMaster(row rowScanner) (*domain.Master, error) {
	var master domain.Master
	var serviceIDs pq.Int64Array

	err := row.Scan(
		&master.ID,
		&master.Name,
		&master.Slug,
		&master.IsActive,
		&master.SortOrder,
		&serviceIDs,
	)
	if err != nil {
		return nil, err
	}

	master.ServiceIDs = []int64(serviceIDs)

	return &master, nil
}
