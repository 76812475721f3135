package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/mryabova/salon-booking-service/internal/domain"
	"github.com/mryabova/salon-booking-service/internal/service/schedule/models"
	"github.com/mryabova/salon-booking-service/pkg/ptr"
)

// Service сервис расписания для админки
type Service struct {
	bookingRepo  BookingRepository
	catalogRepo  CatalogRepository
	settingsRepo SettingsRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	settingsRepo SettingsRepository,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		catalogRepo:  catalogRepo,
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

// GetSchedule строит сетку записей на день или неделю
// mode=week разворачивает опорную дату в неделю с понедельника;
// mode=day использует DateTo либо один день DateFrom
// Отменённые записи включаются - админка показывает их отдельно
func (s *Service) GetSchedule(ctx context.Context, req *models.ScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("GetSchedule: dateFrom=%s, mode=%s", req.DateFrom.Format(domain.DateFormat), req.Mode)

	if err := validateRequest(req); err != nil {
		s.logger.Warn("GetSchedule: validation failed: %v", err)
		return nil, err
	}

	dateFrom, dateTo := resolveRange(req)

	stepMin, err := s.settingsRepo.GetSlotStep(ctx)
	if err != nil {
		s.logger.Error("GetSchedule: failed to get slot step: %v", err)
		return nil, fmt.Errorf("%w: failed to get slot step: %v", ErrInternal, err)
	}

	masters, err := s.catalogRepo.ListActiveMasters(ctx)
	if err != nil {
		s.logger.Error("GetSchedule: failed to list masters: %v", err)
		return nil, fmt.Errorf("%w: failed to list masters: %v", ErrInternal, err)
	}

	bookings, err := s.bookingRepo.ListWithFilter(ctx, domain.BookingsFilter{
		From:             ptr.Ptr(dateFrom),
		To:               ptr.Ptr(dateTo.AddDate(0, 0, 1)),
		IncludeCancelled: true,
	})
	if err != nil {
		s.logger.Error("GetSchedule: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	response := &models.ScheduleResponse{
		Mode:        req.Mode,
		DateFrom:    dateFrom,
		DateTo:      dateTo,
		SlotStepMin: stepMin,
		Masters:     make([]models.MasterItem, 0, len(masters)),
		Bookings:    make([]models.BookingItem, 0, len(bookings)),
	}

	for _, master := range masters {
		response.Masters = append(response.Masters, models.MasterItem{ID: master.ID, Name: master.Name})
	}
	for _, booking := range bookings {
		response.Bookings = append(response.Bookings, models.FromDomainBooking(booking))
	}

	s.logger.Info("GetSchedule: %s..%s, %d bookings",
		dateFrom.Format(domain.DateFormat), dateTo.Format(domain.DateFormat), len(response.Bookings))

	return response, nil
}

// resolveRange вычисляет границы диапазона [dateFrom, dateTo] по режиму
func resolveRange(req *models.ScheduleRequest) (time.Time, time.Time) {
	dateFrom := truncateToDay(req.DateFrom)

	if req.Mode == domain.ScheduleModeWeek {
		weekStart := domain.WeekStart(dateFrom)
		return weekStart, weekStart.AddDate(0, 0, 6)
	}

	dateTo := dateFrom
	if req.DateTo != nil {
		dateTo = truncateToDay(*req.DateTo)
	}
	return dateFrom, dateTo
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *models.ScheduleRequest) error {
	if req.DateFrom.IsZero() {
		return fmt.Errorf("%w: dateFrom is required", ErrInvalidInput)
	}

	if req.Mode != domain.ScheduleModeDay && req.Mode != domain.ScheduleModeWeek {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, req.Mode)
	}

	if req.Mode == domain.ScheduleModeDay && req.DateTo != nil && req.DateTo.Before(req.DateFrom) {
		return fmt.Errorf("%w: dateTo must not be before dateFrom", ErrInvalidInput)
	}

	return nil
}
