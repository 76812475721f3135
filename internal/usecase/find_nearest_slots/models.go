package find_nearest_slots

import (
	"time"

	"github.com/mryabova/salon-booking-service/pkg/types"
)

// Request модель запроса поиска ближайших свободных окон
type Request struct {
	ServiceID int64     // ID услуги
	MasterID  *int64    // Предпочтительный мастер, nil = любой подходящий
	DateFrom  time.Time // Начало горизонта поиска (без времени)
	Limit     int       // Максимум вариантов в ответе, 0 = значение по умолчанию
}

// SlotOption один найденный вариант записи
type SlotOption struct {
	Date       time.Time        `json:"date"`
	Time       types.TimeString `json:"time"`
	MasterID   int64            `json:"master_id"`
	MasterName string           `json:"master_name"`
}

// Response модель ответа с вариантами в порядке (дата, время, мастер)
// Вариантов может быть меньше лимита, если свободных окон не хватило
type Response struct {
	Slots []SlotOption `json:"slots"`
}
