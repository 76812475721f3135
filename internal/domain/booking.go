package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusNew       BookingStatus = "NEW"
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusCancelled BookingStatus = "CANCELLED"
	StatusDone      BookingStatus = "DONE"
)

// Booking source values
const (
	SourceWeb   = "WEB"
	SourceAdmin = "ADMIN"
)

// Booking represents a client appointment in the salon
// EndsAt is frozen at creation time (StartsAt + service duration) and does not
// follow later edits of the service
type Booking struct {
	ID           int64
	ClientName   string
	ClientPhone  string
	ServiceID    int64
	MasterID     *int64 // nil = запись без мастера, не занимает ничей календарь
	StartsAt     time.Time
	EndsAt       time.Time
	Comment      *string
	Status       BookingStatus
	Source       string
	IsRead       bool
	AdminComment *string

	CreatedAt time.Time
}

// Occupies returns true if the booking blocks its master's calendar
// CANCELLED bookings and bookings without a master never occupy anything
func (b *Booking) Occupies() bool {
	return StatusOccupies(b.Status) && b.MasterID != nil
}

// StatusOccupies reports whether a booking in this status blocks the calendar
func StatusOccupies(s BookingStatus) bool {
	for _, occupied := range OccupiedStatuses {
		if s == occupied {
			return true
		}
	}
	return false
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// Overlaps reports whether the booking interval intersects [start, end)
// Boundary contact is not an overlap: a booking ending exactly at start is fine
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartsAt.Before(end) && b.EndsAt.After(start)
}

// DurationMinutes returns the frozen duration of the booking
func (b *Booking) DurationMinutes() int {
	return int(b.EndsAt.Sub(b.StartsAt) / time.Minute)
}

// ValidStatus returns true for a known booking status value
func ValidStatus(s BookingStatus) bool {
	switch s {
	case StatusNew, StatusConfirmed, StatusCancelled, StatusDone:
		return true
	default:
		return false
	}
}

// BookingsFilter фильтр для выборки бронирований
type BookingsFilter struct {
	MasterID         *int64     // Фильтр по мастеру (опционально)
	From             *time.Time // Начало интервала: ends_at > From
	To               *time.Time // Конец интервала: starts_at < To
	IncludeCancelled bool       // Включать ли отменённые записи
	ExcludeBookingID *int64     // Исключить запись по ID (для перепроверки при переносе)
}

// BookingPatch частичное обновление бронирования
// nil-поле означает "не менять"; SetMaster разрешает установку MasterID в NULL
type BookingPatch struct {
	MasterID     *int64
	SetMaster    bool
	StartsAt     *time.Time
	EndsAt       *time.Time
	Status       *BookingStatus
	AdminComment *string
	IsRead       *bool
	Comment      *string
}
