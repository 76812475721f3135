package get_availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mryabova/salon-booking-service/internal/domain"
	catalogRepo "github.com/mryabova/salon-booking-service/internal/infra/storage/catalog"
	"github.com/mryabova/salon-booking-service/pkg/ptr"
	"github.com/mryabova/salon-booking-service/pkg/types"
)

// UseCase use case для получения свободных слотов на день
type UseCase struct {
	bookingRepo  BookingRepository
	catalogRepo  CatalogRepository
	settingsRepo SettingsRepository
	cache        AvailabilityCache
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// cache может быть nil - тогда ответы не кэшируются
func NewUseCase(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	settingsRepo SettingsRepository,
	cache AvailabilityCache,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		catalogRepo:  catalogRepo,
		settingsRepo: settingsRepo,
		cache:        cache,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения свободных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: service=%d, date=%s",
		req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Кэшируются только ответы без фильтра по мастеру и не на сегодня:
	// для сегодняшней даты отсечка now + min_lead_min сдвигается каждую
	// минуту, и закэшированный ответ выдавал бы уже прошедшие слоты
	dateKey := req.Date.Format(domain.DateFormat)
	cacheable := uc.cache != nil && req.MasterID == nil && !isSameDay(req.Date, now)
	if cacheable {
		if data, err := uc.cache.Get(ctx, dateKey, req.ServiceID); err == nil {
			var cached Response
			if err := json.Unmarshal(data, &cached); err == nil {
				uc.logger.Info("GetAvailability: cache hit for date=%s, service=%d", dateKey, req.ServiceID)
				return &cached, nil
			}
		}
	}

	// 4. Получаем услугу
	service, err := uc.catalogRepo.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailability: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailability: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("GetAvailability: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 5. Определяем подходящих мастеров
	masters, err := uc.resolveMasters(ctx, req, service)
	if err != nil {
		return nil, err
	}

	// 6. Загружаем настройки салона
	stepMin, err := uc.settingsRepo.GetSlotStep(ctx)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get slot step: %v", err)
		return nil, fmt.Errorf("%w: failed to get slot step: %v", ErrInternal, err)
	}
	rules, err := uc.settingsRepo.GetBookingRules(ctx)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get booking rules: %v", err)
		return nil, fmt.Errorf("%w: failed to get booking rules: %v", ErrInternal, err)
	}

	response := &Response{
		Date:        req.Date,
		SlotStepMin: stepMin,
		Service: ServiceInfo{
			ID:          service.ID,
			Title:       service.Title,
			DurationMin: service.DurationMin,
		},
		Masters:       make([]MasterInfo, 0, len(masters)),
		SlotsByMaster: make(map[int64][]types.TimeString, len(masters)),
	}

	for _, master := range masters {
		response.Masters = append(response.Masters, MasterInfo{ID: master.ID, Name: master.Name})
	}

	// 7. Прошедшая дата или дата за горизонтом - пустые списки слотов, не ошибка
	if isDateInPast(req.Date, now) || isDateBeyondHorizon(req.Date, now, rules.MaxDaysAhead) {
		uc.logger.Info("GetAvailability: date %s outside booking window, returning empty slots", dateKey)
		return response, nil
	}

	// 8. Окно работы и сетка кандидатов - общие для всех мастеров
	businessHours, err := uc.settingsRepo.GetBusinessHours(ctx)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get business hours: %v", err)
		return nil, fmt.Errorf("%w: failed to get business hours: %v", ErrInternal, err)
	}
	window := businessHours.ForDate(req.Date)

	candidates, err := generateCandidateSlots(window, stepMin, service.DurationMin)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to generate candidate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate candidate slots: %v", ErrInternal, err)
	}

	// 9. Для сегодняшней даты отсекаем слоты раньше now + min_lead_min
	var notBefore time.Time
	if isSameDay(req.Date, now) {
		notBefore = now.Add(time.Duration(rules.MinLeadMin) * time.Minute)
	}

	// 10. Один запрос занятости на дату обслуживает всех мастеров
	dayStart := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, req.Date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	bookings, err := uc.bookingRepo.ListWithFilter(ctx, domain.BookingsFilter{
		From: ptr.Ptr(dayStart),
		To:   ptr.Ptr(dayEnd),
	})
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}
	byMaster := groupByMaster(bookings)

	// 11. Фильтруем кандидатов занятостью каждого мастера
	for _, master := range masters {
		free, err := filterFreeSlots(candidates, req.Date, service.DurationMin, byMaster[master.ID], notBefore)
		if err != nil {
			uc.logger.Error("GetAvailability: failed to filter slots for master id=%d: %v", master.ID, err)
			return nil, fmt.Errorf("%w: failed to filter slots: %v", ErrInternal, err)
		}
		response.SlotsByMaster[master.ID] = free
	}

	uc.logger.Info("GetAvailability: date=%s, service=%d, masters=%d",
		dateKey, req.ServiceID, len(masters))

	// 12. Кладём полный ответ в кэш, ошибка кэша не фатальна
	if cacheable {
		if data, err := json.Marshal(response); err == nil {
			if err := uc.cache.Set(ctx, dateKey, req.ServiceID, data); err != nil {
				uc.logger.Warn("GetAvailability: failed to cache response: %v", err)
			}
		}
	}

	return response, nil
}

// resolveMasters возвращает мастеров для выдачи слотов
// Без фильтра - все активные мастера услуги в порядке показа; пустой список
// не ошибка. С фильтром - один мастер после проверки активности и квалификации
func (uc *UseCase) resolveMasters(ctx context.Context, req *Request, service *domain.Service) ([]*domain.Master, error) {
	if req.MasterID == nil {
		masters, err := uc.catalogRepo.ListMastersForService(ctx, req.ServiceID)
		if err != nil {
			uc.logger.Error("GetAvailability: failed to list masters: %v", err)
			return nil, fmt.Errorf("%w: failed to list masters: %v", ErrInternal, err)
		}
		return masters, nil
	}

	master, err := uc.catalogRepo.GetMaster(ctx, *req.MasterID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrMasterNotFound) {
			uc.logger.Warn("GetAvailability: master id=%d not found", *req.MasterID)
			return nil, ErrMasterNotFound
		}
		uc.logger.Error("GetAvailability: failed to get master id=%d: %v", *req.MasterID, err)
		return nil, fmt.Errorf("%w: failed to get master: %v", ErrInternal, err)
	}
	if !master.IsActive {
		uc.logger.Warn("GetAvailability: master id=%d is inactive", *req.MasterID)
		return nil, ErrMasterNotFound
	}
	if !master.IsQualified(service.ID) {
		uc.logger.Warn("GetAvailability: master id=%d does not provide service id=%d", *req.MasterID, service.ID)
		return nil, ErrMasterNotQualified
	}

	return []*domain.Master{master}, nil
}
