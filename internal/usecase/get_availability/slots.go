package get_availability

import (
	"time"

	"github.com/mryabova/salon-booking-service/internal/domain"
	"github.com/mryabova/salon-booking-service/pkg/types"
)

// generateCandidateSlots генерирует сетку кандидатов на день
// Кандидаты идут от открытия с фиксированным шагом; кандидат входит в сетку,
// только если услуга целиком помещается до закрытия: start + duration <= close
// Слот у границы закрытия вне сетки не синтезируется
func generateCandidateSlots(window domain.DaySchedule, stepMin, durationMin int) ([]types.TimeString, error) {
	openMin, err := window.Open.Minutes()
	if err != nil {
		return nil, err
	}
	closeMin, err := window.Close.Minutes()
	if err != nil {
		return nil, err
	}

	candidates := make([]types.TimeString, 0)
	for start := openMin; start+durationMin <= closeMin; start += stepMin {
		slot, err := types.NewTimeStringFromMinutes(start)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, slot)
	}

	return candidates, nil
}

// filterFreeSlots оставляет кандидатов, свободных от занятых интервалов мастера
// Кандидат свободен, если ни одна занимающая календарь запись не пересекает
// [start, start+duration); касание границ пересечением не считается
//
// notBefore отсекает слишком ранние слоты текущего дня (now + min_lead_min);
// нулевое значение отключает фильтр
func filterFreeSlots(
	candidates []types.TimeString,
	date time.Time,
	durationMin int,
	bookings []*domain.Booking,
	notBefore time.Time,
) ([]types.TimeString, error) {
	free := make([]types.TimeString, 0, len(candidates))

	for _, candidate := range candidates {
		start, err := candidate.OnDate(date)
		if err != nil {
			return nil, err
		}
		if !notBefore.IsZero() && start.Before(notBefore) {
			continue
		}

		end := start.Add(time.Duration(durationMin) * time.Minute)
		if isSlotFree(start, end, bookings) {
			free = append(free, candidate)
		}
	}

	return free, nil
}

// isSlotFree проверяет, что ни одна занимающая календарь запись не пересекает интервал
func isSlotFree(start, end time.Time, bookings []*domain.Booking) bool {
	for _, booking := range bookings {
		if !booking.Occupies() {
			continue
		}
		if booking.Overlaps(start, end) {
			return false
		}
	}
	return true
}

// groupByMaster раскладывает записи по ID мастера
// Записи без мастера отбрасываются: они не занимают ничей календарь
func groupByMaster(bookings []*domain.Booking) map[int64][]*domain.Booking {
	grouped := make(map[int64][]*domain.Booking)
	for _, booking := range bookings {
		if booking.MasterID == nil {
			continue
		}
		grouped[*booking.MasterID] = append(grouped[*booking.MasterID], booking)
	}
	return grouped
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}

// isDateBeyondHorizon проверяет, что дата дальше горизонта записи
// maxDaysAhead = 0 означает отсутствие ограничения
func isDateBeyondHorizon(date, now time.Time, maxDaysAhead int) bool {
	if maxDaysAhead <= 0 {
		return false
	}
	maxDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, maxDaysAhead)
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return dateOnly.After(maxDate)
}
