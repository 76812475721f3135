package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mryabova/salon-booking-service/internal/domain"
	catalogRepo "github.com/mryabova/salon-booking-service/internal/infra/storage/catalog"
	"github.com/mryabova/salon-booking-service/pkg/ptr"
)

// UseCase use case для создания записи клиента
type UseCase struct {
	bookingRepo  BookingRepository
	catalogRepo  CatalogRepository
	settingsRepo SettingsRepository
	txManager    TransactionManager
	notifier     Notifier
	cache        CacheInvalidator
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// notifier и cache могут быть nil
func NewUseCase(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	settingsRepo SettingsRepository,
	txManager TransactionManager,
	notifier Notifier,
	cache CacheInvalidator,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		catalogRepo:  catalogRepo,
		settingsRepo: settingsRepo,
		txManager:    txManager,
		notifier:     notifier,
		cache:        cache,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания записи
// Финальная проверка занятости и вставка идут в сериализуемой транзакции
// с блокировкой записей мастера - две конкурирующие записи на один слот
// не пройдут обе
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: phone=%s, service=%d, date=%s, time=%s, source=%s",
		req.ClientPhone, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime, req.Source)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем услугу
	service, err := uc.catalogRepo.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("CreateBooking: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 4. Проверяем мастера, если он указан
	var master *domain.Master
	if req.MasterID != nil {
		master, err = uc.catalogRepo.GetMaster(ctx, *req.MasterID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrMasterNotFound) {
				uc.logger.Warn("CreateBooking: master id=%d not found", *req.MasterID)
				return nil, ErrMasterNotFound
			}
			uc.logger.Error("CreateBooking: failed to get master id=%d: %v", *req.MasterID, err)
			return nil, fmt.Errorf("%w: failed to get master: %v", ErrInternal, err)
		}
		if !master.IsActive {
			uc.logger.Warn("CreateBooking: master id=%d is inactive", *req.MasterID)
			return nil, ErrMasterNotFound
		}
		if !master.IsQualified(req.ServiceID) {
			uc.logger.Warn("CreateBooking: master id=%d does not provide service id=%d", *req.MasterID, req.ServiceID)
			return nil, ErrMasterNotQualified
		}
	}

	// 5. Вычисляем интервал записи, конец фиксируется по текущей длительности услуги
	startsAt, err := req.StartTime.OnDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start time: %v", ErrInvalidInput, err)
	}
	endsAt := startsAt.Add(time.Duration(service.DurationMin) * time.Minute)

	// 6. Проверяем окно работы салона
	businessHours, err := uc.settingsRepo.GetBusinessHours(ctx)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get business hours: %v", err)
		return nil, fmt.Errorf("%w: failed to get business hours: %v", ErrInternal, err)
	}
	window := businessHours.ForDate(req.Date)
	if err := validateBusinessWindow(window, startsAt, service.DurationMin, req.Date); err != nil {
		uc.logger.Warn("CreateBooking: business window validation failed: %v", err)
		return nil, err
	}

	// 7. Проверяем правила приёма записей
	rules, err := uc.settingsRepo.GetBookingRules(ctx)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get booking rules: %v", err)
		return nil, fmt.Errorf("%w: failed to get booking rules: %v", ErrInternal, err)
	}
	if err := validateBookingRules(startsAt, now, rules); err != nil {
		uc.logger.Warn("CreateBooking: booking rules validation failed: %v", err)
		return nil, err
	}

	// 8. Публичный источник всегда создает NEW, админ может задать начальный статус
	status := domain.StatusNew
	if req.Source == domain.SourceAdmin && req.Status != nil {
		status = *req.Status
	}

	var result *domain.Booking

	// 9. Финальная проверка занятости и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 9.1. Запись без мастера не занимает ничей календарь - проверка не нужна
		if req.MasterID != nil {
			dayStart := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, req.Date.Location())

			// FOR UPDATE на записях мастера за день
			bookings, err := uc.bookingRepo.ListWithFilter(txCtx, domain.BookingsFilter{
				MasterID: req.MasterID,
				From:     ptr.Ptr(dayStart),
				To:       ptr.Ptr(dayStart.AddDate(0, 0, 1)),
			})
			if err != nil {
				uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
				return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
			}

			if hasOverlap(startsAt, endsAt, bookings) {
				uc.logger.Warn("CreateBooking: slot %s-%s is taken for master id=%d",
					startsAt.Format(domain.TimeFormat), endsAt.Format(domain.TimeFormat), *req.MasterID)
				return ErrSlotConflict
			}
		}

		booking := &domain.Booking{
			ClientName:  req.ClientName,
			ClientPhone: req.ClientPhone,
			ServiceID:   req.ServiceID,
			MasterID:    req.MasterID,
			StartsAt:    startsAt,
			EndsAt:      endsAt,
			Comment:     req.Comment,
			Status:      status,
			Source:      req.Source,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	// 10. После коммита: сброс кэша доступности и уведомление администратора
	if uc.cache != nil {
		if err := uc.cache.InvalidateDate(ctx, req.Date.Format(domain.DateFormat)); err != nil {
			uc.logger.Warn("CreateBooking: failed to invalidate availability cache: %v", err)
		}
	}
	if uc.notifier != nil {
		uc.notifier.BookingCreated(ctx, result, service, master)
	}

	return &Response{
		ID:          result.ID,
		ClientName:  result.ClientName,
		ClientPhone: result.ClientPhone,
		ServiceID:   result.ServiceID,
		MasterID:    result.MasterID,
		StartsAt:    result.StartsAt,
		EndsAt:      result.EndsAt,
		Comment:     result.Comment,
		Status:      string(result.Status),
		Source:      result.Source,
		CreatedAt:   result.CreatedAt,
	}, nil
}
