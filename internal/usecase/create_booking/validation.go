package create_booking

import (
	"fmt"
	"time"

	"github.com/mryabova/salon-booking-service/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ClientPhone == "" {
		return fmt.Errorf("%w: clientPhone is required", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.MasterID != nil && *req.MasterID <= 0 {
		return fmt.Errorf("%w: masterID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid start time: %v", ErrInvalidInput, err)
	}

	if req.Source != domain.SourceWeb && req.Source != domain.SourceAdmin {
		return fmt.Errorf("%w: unknown source %q", ErrInvalidInput, req.Source)
	}

	if req.Status != nil && !domain.ValidStatus(*req.Status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
	}

	if req.Comment != nil && len(*req.Comment) > domain.MaxCommentLength {
		return fmt.Errorf("%w: comment is too long", ErrInvalidInput)
	}

	return nil
}

// validateBusinessWindow проверяет, что интервал записи целиком помещается
// в окно работы салона: начало не раньше открытия и конец не позже закрытия
func validateBusinessWindow(window domain.DaySchedule, start time.Time, durationMin int, date time.Time) error {
	openAt, err := window.Open.OnDate(date)
	if err != nil {
		return fmt.Errorf("%w: invalid open time: %v", ErrInternal, err)
	}
	closeAt, err := window.Close.OnDate(date)
	if err != nil {
		return fmt.Errorf("%w: invalid close time: %v", ErrInternal, err)
	}

	end := start.Add(time.Duration(durationMin) * time.Minute)
	if start.Before(openAt) || end.After(closeAt) {
		return ErrOutOfBusinessHours
	}

	return nil
}

// validateBookingRules проверяет горизонт записи и минимальный интервал до начала
func validateBookingRules(start, now time.Time, rules domain.BookingRules) error {
	if start.Before(now) {
		return ErrDateInPast
	}

	if rules.MinLeadMin > 0 && start.Before(now.Add(time.Duration(rules.MinLeadMin)*time.Minute)) {
		return ErrTooSoon
	}

	if rules.MaxDaysAhead > 0 {
		maxDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
			AddDate(0, 0, rules.MaxDaysAhead)
		startDate := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
		if startDate.After(maxDate) {
			return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, rules.MaxDaysAhead)
		}
	}

	return nil
}

// hasOverlap проверяет пересечение интервала с занимающими календарь записями
// Касание границ пересечением не считается
func hasOverlap(start, end time.Time, bookings []*domain.Booking) bool {
	for _, booking := range bookings {
		if !booking.Occupies() {
			continue
		}
		if booking.Overlaps(start, end) {
			return true
		}
	}
	return false
}
