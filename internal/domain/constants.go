package domain

import "github.com/mryabova/salon-booking-service/pkg/types"

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Default schedule settings, used when the settings store has no value
const (
	DefaultSlotStepMin  = 30
	DefaultMinLeadMin   = 0
	DefaultMaxDaysAhead = 60

	DefaultOpenTime  types.TimeString = "10:00"
	DefaultCloseTime types.TimeString = "21:00"
)

// SearchHorizonDays горизонт поиска ближайших свободных окон
const SearchHorizonDays = 7

// Nearest-slot search limits
const (
	DefaultNearestSlotsLimit = 20
	MaxNearestSlotsLimit     = 50
)

// MaxCommentLength предельная длина комментария клиента
const MaxCommentLength = 500

// OccupiedStatuses статусы, при которых запись занимает календарь мастера
// Используется глобальным инвариантом: интервалы таких записей одного мастера
// не пересекаются
var OccupiedStatuses = []BookingStatus{
	StatusNew,
	StatusConfirmed,
	StatusDone,
}
