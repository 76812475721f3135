package find_nearest_slots

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mryabova/salon-booking-service/internal/domain"
	"github.com/mryabova/salon-booking-service/internal/usecase/get_availability"
)

// maxConcurrentDayFetches ограничение параллельных запросов доступности по дням
const maxConcurrentDayFetches = 3

// UseCase use case поиска ближайших свободных окон
type UseCase struct {
	availability AvailabilityProvider
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(availability AvailabilityProvider, logger Logger) *UseCase {
	return &UseCase{
		availability: availability,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// dayResult результат запроса доступности на один день горизонта
type dayResult struct {
	resp *get_availability.Response
	err  error
}

// Execute выполняет поиск: обходит до 7 календарных дней от DateFrom и
// собирает до Limit вариантов (дата, время, мастер)
//
// Дни запрашиваются параллельно с ограничением, но порядок ответа
// детерминирован: (дата, время, позиция мастера в порядке показа)
// Ошибка отдельного дня логируется, и день пропускается
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("FindNearestSlots: service=%d, dateFrom=%s, limit=%d",
		req.ServiceID, req.DateFrom.Format(domain.DateFormat), req.Limit)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("FindNearestSlots: validation failed: %v", err)
		return nil, err
	}

	limit := normalizeLimit(req.Limit)

	// Поиск не заглядывает в прошлое: стартуем не раньше сегодняшнего дня
	now := uc.timeProvider.Now()
	startDate := time.Date(req.DateFrom.Year(), req.DateFrom.Month(), req.DateFrom.Day(), 0, 0, 0, 0, req.DateFrom.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if startDate.Before(today) {
		startDate = today
	}

	// Запрашиваем дни горизонта параллельно, результаты по индексу дня
	results := make([]dayResult, domain.SearchHorizonDays)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentDayFetches)

	for i := 0; i < domain.SearchHorizonDays; i++ {
		i := i
		date := startDate.AddDate(0, 0, i)
		group.Go(func() error {
			resp, err := uc.availability.Execute(groupCtx, &get_availability.Request{
				ServiceID: req.ServiceID,
				MasterID:  req.MasterID,
				Date:      date,
			})
			results[i] = dayResult{resp: resp, err: err}
			return nil
		})
	}

	// Горутины не возвращают ошибок, Wait только синхронизация
	_ = group.Wait()

	options := make([]SlotOption, 0, limit)

	for i := 0; i < domain.SearchHorizonDays && len(options) < limit; i++ {
		date := startDate.AddDate(0, 0, i)

		if err := results[i].err; err != nil {
			// Ошибки валидации детерминированы для всех дней - отдаем сразу
			if validationErr := mapValidationError(err); validationErr != nil {
				return nil, validationErr
			}
			uc.logger.Warn("FindNearestSlots: skipping date %s: %v", date.Format(domain.DateFormat), err)
			continue
		}

		options = appendDayOptions(options, results[i].resp, date, limit)
	}

	uc.logger.Info("FindNearestSlots: found %d options for service=%d", len(options), req.ServiceID)

	return &Response{Slots: options}, nil
}

// appendDayOptions добавляет варианты одного дня в порядке
// (время, позиция мастера), не превышая лимит
func appendDayOptions(options []SlotOption, resp *get_availability.Response, date time.Time, limit int) []SlotOption {
	type dayOption struct {
		option    SlotOption
		masterIdx int
	}

	dayOptions := make([]dayOption, 0)
	for idx, master := range resp.Masters {
		for _, slot := range resp.SlotsByMaster[master.ID] {
			dayOptions = append(dayOptions, dayOption{
				option: SlotOption{
					Date:       date,
					Time:       slot,
					MasterID:   master.ID,
					MasterName: master.Name,
				},
				masterIdx: idx,
			})
		}
	}

	sort.Slice(dayOptions, func(a, b int) bool {
		if dayOptions[a].option.Time != dayOptions[b].option.Time {
			return dayOptions[a].option.Time.IsBefore(dayOptions[b].option.Time)
		}
		return dayOptions[a].masterIdx < dayOptions[b].masterIdx
	})

	for _, day := range dayOptions {
		if len(options) >= limit {
			break
		}
		options = append(options, day.option)
	}

	return options
}

// mapValidationError переводит ошибки валидации провайдера доступности
// в сентинелы этого usecase, nil для прочих ошибок
func mapValidationError(err error) error {
	switch {
	case errors.Is(err, get_availability.ErrServiceNotFound):
		return ErrServiceNotFound
	case errors.Is(err, get_availability.ErrMasterNotFound):
		return ErrMasterNotFound
	case errors.Is(err, get_availability.ErrMasterNotQualified):
		return ErrMasterNotQualified
	case errors.Is(err, get_availability.ErrInvalidInput):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		return nil
	}
}

// normalizeLimit приводит лимит к допустимому диапазону
func normalizeLimit(limit int) int {
	if limit <= 0 {
		return domain.DefaultNearestSlotsLimit
	}
	if limit > domain.MaxNearestSlotsLimit {
		return domain.MaxNearestSlotsLimit
	}
	return limit
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.MasterID != nil && *req.MasterID <= 0 {
		return fmt.Errorf("%w: masterID must be positive", ErrInvalidInput)
	}

	if req.DateFrom.IsZero() {
		return fmt.Errorf("%w: dateFrom is required", ErrInvalidInput)
	}

	if req.Limit < 0 {
		return fmt.Errorf("%w: limit must not be negative", ErrInvalidInput)
	}

	return nil
}
