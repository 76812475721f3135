package find_nearest_slots

import (
	"time"

	"github.com/mryabova/salon-booking-service/internal/domain"
	findNearestSlots "github.com/mryabova/salon-booking-service/internal/usecase/find_nearest_slots"
)

// NearestSlotsResponse HTTP response model
type NearestSlotsResponse struct {
	Slots []SlotOption `json:"slots"`
}

// SlotOption один вариант записи в ответе
type SlotOption struct {
	Date       string `json:"date"`
	Time       string `json:"time"`
	MasterID   int64  `json:"masterId"`
	MasterName string `json:"masterName"`
}

// ToUseCaseRequest создает запрос use case из query параметров
// Пустая dateFrom означает поиск с сегодняшнего дня
func ToUseCaseRequest(serviceID int64, masterID *int64, dateFromStr string, limit int) (*findNearestSlots.Request, error) {
	var dateFrom time.Time
	if dateFromStr != "" {
		parsed, err := time.Parse(domain.DateFormat, dateFromStr)
		if err != nil {
			return nil, err
		}
		dateFrom = parsed
	}

	return &findNearestSlots.Request{
		ServiceID: serviceID,
		MasterID:  masterID,
		DateFrom:  dateFrom,
		Limit:     limit,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *findNearestSlots.Response) *NearestSlotsResponse {
	slots := make([]SlotOption, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = SlotOption{
			Date:       slot.Date.Format(domain.DateFormat),
			Time:       slot.Time.String(),
			MasterID:   slot.MasterID,
			MasterName: slot.MasterName,
		}
	}
	return &NearestSlotsResponse{Slots: slots}
}
