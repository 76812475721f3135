package create_booking

import (
	"time"

	"github.com/mryabova/salon-booking-service/internal/domain"
	"github.com/mryabova/salon-booking-service/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	ClientName  string                // Имя клиента, опционально
	ClientPhone string                // Телефон клиента
	ServiceID   int64                 // ID услуги
	MasterID    *int64                // ID мастера, nil = запись без мастера
	Date        time.Time             // Дата записи (без времени)
	StartTime   types.TimeString      // Время начала "HH:MM"
	Comment     *string               // Комментарий клиента
	Source      string                // Источник записи: WEB или ADMIN
	Status      *domain.BookingStatus // Начальный статус, только для ADMIN
}

// Response модель ответа с созданной записью
type Response struct {
	ID          int64
	ClientName  string
	ClientPhone string
	ServiceID   int64
	MasterID    *int64
	StartsAt    time.Time
	EndsAt      time.Time
	Comment     *string
	Status      string
	Source      string
	CreatedAt   time.Time
}
