package move_booking

import (
	"time"

	"github.com/mryabova/salon-booking-service/internal/domain"
	"github.com/mryabova/salon-booking-service/pkg/types"
)

// Request модель запроса на изменение записи
// nil-поле означает "не менять"; SetMaster разрешает снятие мастера (MasterID = nil)
type Request struct {
	BookingID    int64
	MasterID     *int64
	SetMaster    bool
	Date         *time.Time            // Новая дата, время берется из Time или из текущей записи
	Time         *types.TimeString     // Новое время начала "HH:MM"
	Status       *domain.BookingStatus // Новый статус
	AdminComment *string
	IsRead       *bool
}

// Response модель ответа с обновлённой записью
type Response struct {
	ID           int64
	ClientName   string
	ClientPhone  string
	ServiceID    int64
	MasterID     *int64
	StartsAt     time.Time
	EndsAt       time.Time
	Comment      *string
	Status       string
	Source       string
	IsRead       bool
	AdminComment *string
	CreatedAt    time.Time
}
