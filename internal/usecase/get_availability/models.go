package get_availability

import (
	"time"

	"github.com/mryabova/salon-booking-service/pkg/types"
)

// Request модель запроса доступности на день
type Request struct {
	ServiceID int64     // ID услуги
	MasterID  *int64    // Фильтр по мастеру, nil = все подходящие мастера
	Date      time.Time // Дата, на которую запрашиваются слоты (без времени)
}

// ServiceInfo данные услуги в ответе
type ServiceInfo struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	DurationMin int    `json:"duration_min"`
}

// MasterInfo данные мастера в ответе
type MasterInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Response модель ответа: свободные слоты по каждому мастеру
// Слоты каждого мастера отсортированы по возрастанию времени
type Response struct {
	Date          time.Time                    `json:"date"`
	SlotStepMin   int                          `json:"slot_step_min"`
	Service       ServiceInfo                  `json:"service"`
	Masters       []MasterInfo                 `json:"masters"`
	SlotsByMaster map[int64][]types.TimeString `json:"slots_by_master"`
}
