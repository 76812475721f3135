package move_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mryabova/salon-booking-service/internal/domain"
	bookingRepo "github.com/mryabova/salon-booking-service/internal/infra/storage/booking"
	catalogRepo "github.com/mryabova/salon-booking-service/internal/infra/storage/catalog"
	"github.com/mryabova/salon-booking-service/pkg/ptr"
)

// UseCase use case для переноса и изменения записи
type UseCase struct {
	bookingRepo  BookingRepository
	catalogRepo  CatalogRepository
	settingsRepo SettingsRepository
	txManager    TransactionManager
	cache        CacheInvalidator
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// cache может быть nil
func NewUseCase(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	settingsRepo SettingsRepository,
	txManager TransactionManager,
	cache CacheInvalidator,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		catalogRepo:  catalogRepo,
		settingsRepo: settingsRepo,
		txManager:    txManager,
		cache:        cache,
		logger:       logger,
	}
}

// Execute выполняет use case изменения записи
// Перенос интервала или смена мастера перепроверяет занятость в той же
// сериализуемой транзакции, что и обновление; своя запись исключается
// из проверки, чужая запись никогда не сдвигается
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("MoveBooking: booking=%d", req.BookingID)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("MoveBooking: validation failed: %v", err)
		return nil, err
	}

	var result *domain.Booking
	var oldDate, newDate string

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Загружаем запись с блокировкой
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("MoveBooking: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("MoveBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		// 2. Вычисляем состояние после патча
		newStartsAt, newEndsAt, err := resolveInterval(booking, req)
		if err != nil {
			return err
		}

		newMasterID := booking.MasterID
		if req.SetMaster {
			newMasterID = req.MasterID
		}

		newStatus := booking.Status
		if req.Status != nil {
			newStatus = *req.Status
		}

		// 3. Новый мастер должен быть активен и выполнять услугу записи
		if req.SetMaster && req.MasterID != nil && !sameMaster(booking.MasterID, req.MasterID) {
			master, err := uc.catalogRepo.GetMaster(txCtx, *req.MasterID)
			if err != nil {
				if errors.Is(err, catalogRepo.ErrMasterNotFound) {
					uc.logger.Warn("MoveBooking: master id=%d not found", *req.MasterID)
					return ErrMasterNotFound
				}
				uc.logger.Error("MoveBooking: failed to get master id=%d: %v", *req.MasterID, err)
				return fmt.Errorf("%w: failed to get master: %v", ErrInternal, err)
			}
			if !master.IsActive {
				uc.logger.Warn("MoveBooking: master id=%d is inactive", *req.MasterID)
				return ErrMasterNotFound
			}
			if !master.IsQualified(booking.ServiceID) {
				uc.logger.Warn("MoveBooking: master id=%d does not provide service id=%d", *req.MasterID, booking.ServiceID)
				return ErrMasterNotQualified
			}
		}

		intervalChanged := !newStartsAt.Equal(booking.StartsAt)
		masterChanged := req.SetMaster && !sameMaster(booking.MasterID, req.MasterID)
		occupiesAfter := domain.StatusOccupies(newStatus) && newMasterID != nil
		// Возврат из CANCELLED снова занимает интервал: слот могли занять,
		// пока запись была отменена
		occupancyRestored := booking.IsCancelled() && occupiesAfter

		// 4. Перенесённый интервал должен помещаться в окно работы
		if intervalChanged {
			businessHours, err := uc.settingsRepo.GetBusinessHours(txCtx)
			if err != nil {
				uc.logger.Error("MoveBooking: failed to get business hours: %v", err)
				return fmt.Errorf("%w: failed to get business hours: %v", ErrInternal, err)
			}
			if err := validateBusinessWindow(businessHours.ForDate(newStartsAt), newStartsAt, newEndsAt); err != nil {
				uc.logger.Warn("MoveBooking: business window validation failed: %v", err)
				return err
			}
		}

		// 5. Перепроверка занятости при смене занимаемого интервала, мастера
		// или возврате отменённой записи в занимающий статус
		if (intervalChanged || masterChanged || occupancyRestored) && occupiesAfter {
			dayStart := time.Date(newStartsAt.Year(), newStartsAt.Month(), newStartsAt.Day(), 0, 0, 0, 0, newStartsAt.Location())

			// FOR UPDATE на записях нового мастера за день, своя запись исключена
			others, err := uc.bookingRepo.ListWithFilter(txCtx, domain.BookingsFilter{
				MasterID:         newMasterID,
				From:             ptr.Ptr(dayStart),
				To:               ptr.Ptr(dayStart.AddDate(0, 0, 1)),
				ExcludeBookingID: ptr.Ptr(booking.ID),
			})
			if err != nil {
				uc.logger.Error("MoveBooking: failed to get bookings: %v", err)
				return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
			}

			for _, other := range others {
				if other.Occupies() && other.Overlaps(newStartsAt, newEndsAt) {
					uc.logger.Warn("MoveBooking: slot conflict with booking id=%d", other.ID)
					return ErrSlotConflict
				}
			}
		}

		// 6. Применяем патч одним UPDATE
		patch := domain.BookingPatch{
			MasterID:     req.MasterID,
			SetMaster:    req.SetMaster,
			Status:       req.Status,
			AdminComment: req.AdminComment,
			IsRead:       req.IsRead,
		}
		if intervalChanged {
			patch.StartsAt = ptr.Ptr(newStartsAt)
			patch.EndsAt = ptr.Ptr(newEndsAt)
		}

		updated, err := uc.bookingRepo.Update(txCtx, booking.ID, patch)
		if err != nil {
			uc.logger.Error("MoveBooking: failed to update booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
		}

		oldDate = booking.StartsAt.Format(domain.DateFormat)
		newDate = updated.StartsAt.Format(domain.DateFormat)
		result = updated
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("MoveBooking: successfully updated booking id=%d", result.ID)

	// 7. После коммита сбрасываем кэш доступности старой и новой даты
	if uc.cache != nil {
		if err := uc.cache.InvalidateDate(ctx, oldDate); err != nil {
			uc.logger.Warn("MoveBooking: failed to invalidate availability cache: %v", err)
		}
		if newDate != oldDate {
			if err := uc.cache.InvalidateDate(ctx, newDate); err != nil {
				uc.logger.Warn("MoveBooking: failed to invalidate availability cache: %v", err)
			}
		}
	}

	return &Response{
		ID:           result.ID,
		ClientName:   result.ClientName,
		ClientPhone:  result.ClientPhone,
		ServiceID:    result.ServiceID,
		MasterID:     result.MasterID,
		StartsAt:     result.StartsAt,
		EndsAt:       result.EndsAt,
		Comment:      result.Comment,
		Status:       string(result.Status),
		Source:       result.Source,
		IsRead:       result.IsRead,
		AdminComment: result.AdminComment,
		CreatedAt:    result.CreatedAt,
	}, nil
}

// resolveInterval вычисляет интервал записи после патча
// Замороженная длительность сохраняется при любом переносе
func resolveInterval(booking *domain.Booking, req *Request) (time.Time, time.Time, error) {
	if req.Date == nil && req.Time == nil {
		return booking.StartsAt, booking.EndsAt, nil
	}

	date := booking.StartsAt
	if req.Date != nil {
		date = *req.Date
	}

	startTime := booking.StartsAt
	if req.Time != nil {
		at, err := req.Time.OnDate(date)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid time: %v", ErrInvalidInput, err)
		}
		startTime = at
	} else {
		startTime = time.Date(date.Year(), date.Month(), date.Day(),
			booking.StartsAt.Hour(), booking.StartsAt.Minute(), 0, 0, date.Location())
	}

	duration := time.Duration(booking.DurationMinutes()) * time.Minute
	return startTime, startTime.Add(duration), nil
}

// validateBusinessWindow проверяет, что интервал помещается в окно работы
func validateBusinessWindow(window domain.DaySchedule, start, end time.Time) error {
	openAt, err := window.Open.OnDate(start)
	if err != nil {
		return fmt.Errorf("%w: invalid open time: %v", ErrInternal, err)
	}
	closeAt, err := window.Close.OnDate(start)
	if err != nil {
		return fmt.Errorf("%w: invalid close time: %v", ErrInternal, err)
	}

	if start.Before(openAt) || end.After(closeAt) {
		return ErrOutOfBusinessHours
	}

	return nil
}

// sameMaster сравнивает указатели на ID мастера по значению
func sameMaster(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	if req.SetMaster && req.MasterID != nil && *req.MasterID <= 0 {
		return fmt.Errorf("%w: masterID must be positive", ErrInvalidInput)
	}

	if req.Time != nil {
		if err := req.Time.Validate(); err != nil {
			return fmt.Errorf("%w: invalid time: %v", ErrInvalidInput, err)
		}
	}

	if req.Status != nil && !domain.ValidStatus(*req.Status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
	}

	if req.MasterID == nil && !req.SetMaster && req.Date == nil && req.Time == nil &&
		req.Status == nil && req.AdminComment == nil && req.IsRead == nil {
		return fmt.Errorf("%w: empty patch", ErrInvalidInput)
	}

	return nil
}
