package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/mryabova/salon-booking-service/internal/domain"
	"github.com/mryabova/salon-booking-service/pkg/dbmetrics"
	"github.com/mryabova/salon-booking-service/pkg/psqlbuilder"
	"github.com/mryabova/salon-booking-service/pkg/types"
)

// Ключи настроек в таблице settings
const (
	keyBusinessHours = "business_hours"
	keySlotStep      = "slot_step_min"
	keyBookingRules  = "booking_rules"
)

// Repository репозиторий настроек салона
// Настройки хранятся как key -> value_jsonb, отсутствующий ключ означает
// значение по умолчанию
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// timeRange формат одного интервала рабочего времени в JSON настройке
type timeRange struct {
	Start types.TimeString `json:"start"`
	End   types.TimeString `json:"end"`
}

// GetBusinessHours получает часы работы салона по дням недели
// Для каждого дня берётся первый интервал, дни без интервалов опускаются
func (r *Repository) GetBusinessHours(ctx context.Context) (domain.BusinessHours, error) {
	raw, err := r.getValue(ctx, keyBusinessHours)
	if err != nil {
		return nil, err
	}

	hours := make(domain.BusinessHours)
	if raw == nil {
		return hours, nil
	}

	var decoded map[string][]timeRange
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecodeValue, keyBusinessHours, err)
	}

	for day, ranges := range decoded {
		if len(ranges) == 0 {
			continue
		}
		hours[day] = domain.DaySchedule{
			Open:  ranges[0].Start,
			Close: ranges[0].End,
		}
	}

	return hours, nil
}

// GetSlotStep получает шаг сетки слотов в минутах
func (r *Repository) GetSlotStep(ctx context.Context) (int, error) {
	raw, err := r.getValue(ctx, keySlotStep)
	if err != nil {
		return 0, err
	}
	if raw == nil {
		return domain.DefaultSlotStepMin, nil
	}

	var decoded struct {
		Value int `json:"value"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrDecodeValue, keySlotStep, err)
	}
	if decoded.Value <= 0 {
		return domain.DefaultSlotStepMin, nil
	}

	return decoded.Value, nil
}

// GetBookingRules получает правила приёма записей
func (r *Repository) GetBookingRules(ctx context.Context) (domain.BookingRules, error) {
	rules := domain.BookingRules{
		MinLeadMin:   domain.DefaultMinLeadMin,
		MaxDaysAhead: domain.DefaultMaxDaysAhead,
	}

	raw, err := r.getValue(ctx, keyBookingRules)
	if err != nil {
		return rules, err
	}
	if raw == nil {
		return rules, nil
	}

	var decoded struct {
		MinLeadMin   *int `json:"min_lead_min"`
		MaxDaysAhead *int `json:"max_days_ahead"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return rules, fmt.Errorf("%w: %s: %v", ErrDecodeValue, keyBookingRules, err)
	}

	if decoded.MinLeadMin != nil && *decoded.MinLeadMin >= 0 {
		rules.MinLeadMin = *decoded.MinLeadMin
	}
	if decoded.MaxDaysAhead != nil && *decoded.MaxDaysAhead > 0 {
		rules.MaxDaysAhead = *decoded.MaxDaysAhead
	}

	return rules, nil
}

// getValue читает сырое JSON значение настройки, nil если ключа нет
func (r *Repository) getValue(ctx context.Context, key string) (json.RawMessage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("value_jsonb").
		From("settings").
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getValue - build select query: %v", ErrBuildQuery, err)
	}

	var raw []byte
	err = executor.QueryRowContext(ctx, query, args...).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getValue - scan value: %v", ErrExecQuery, err)
	}

	return json.RawMessage(raw), nil
}
