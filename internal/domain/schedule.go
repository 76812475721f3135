package domain

import (
	"time"

	"github.com/mryabova/salon-booking-service/pkg/types"
)

// DaySchedule окно работы салона на один день
type DaySchedule struct {
	Open  types.TimeString
	Close types.TimeString
}

// BusinessHours расписание работы салона по дням недели
// Ключи: mon, tue, wed, thu, fri, sat, sun
type BusinessHours map[string]DaySchedule

// DayKey возвращает ключ расписания для дня недели даты
func DayKey(date time.Time) string {
	switch date.Weekday() {
	case time.Monday:
		return "mon"
	case time.Tuesday:
		return "tue"
	case time.Wednesday:
		return "wed"
	case time.Thursday:
		return "thu"
	case time.Friday:
		return "fri"
	case time.Saturday:
		return "sat"
	default:
		return "sun"
	}
}

// ForDate возвращает окно работы на указанную дату
// При отсутствии записи для дня недели используется окно по умолчанию
func (h BusinessHours) ForDate(date time.Time) DaySchedule {
	if day, ok := h[DayKey(date)]; ok && !day.Open.IsZero() && !day.Close.IsZero() {
		return day
	}
	return DaySchedule{Open: DefaultOpenTime, Close: DefaultCloseTime}
}

// BookingRules правила приёма записей
type BookingRules struct {
	MinLeadMin   int // Минимальное время до начала слота, минуты
	MaxDaysAhead int // Горизонт записи в днях, 0 = без ограничения
}

// ScheduleMode режим отображения расписания
type ScheduleMode string

const (
	ScheduleModeDay  ScheduleMode = "day"
	ScheduleModeWeek ScheduleMode = "week"
)

// WeekStart возвращает понедельник недели, содержащей дату
func WeekStart(date time.Time) time.Time {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}
