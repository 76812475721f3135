package get_availability

import (
	"time"

	"github.com/mryabova/salon-booking-service/internal/domain"
	getAvailability "github.com/mryabova/salon-booking-service/internal/usecase/get_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Date          string             `json:"date"`
	SlotStepMin   int                `json:"slotStepMin"`
	Service       ServiceInfo        `json:"service"`
	Masters       []MasterInfo       `json:"masters"`
	SlotsByMaster map[int64][]string `json:"slotsByMaster"`
}

// ServiceInfo данные услуги в ответе
type ServiceInfo struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	DurationMin int    `json:"durationMin"`
}

// MasterInfo данные мастера в ответе
type MasterInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(serviceID int64, masterID *int64, dateStr string) (*getAvailability.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailability.Request{
		ServiceID: serviceID,
		MasterID:  masterID,
		Date:      date,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	masters := make([]MasterInfo, len(resp.Masters))
	for i, master := range resp.Masters {
		masters[i] = MasterInfo{ID: master.ID, Name: master.Name}
	}

	slots := make(map[int64][]string, len(resp.SlotsByMaster))
	for masterID, times := range resp.SlotsByMaster {
		converted := make([]string, len(times))
		for i, ts := range times {
			converted[i] = ts.String()
		}
		slots[masterID] = converted
	}

	return &AvailabilityResponse{
		Date:        resp.Date.Format(domain.DateFormat),
		SlotStepMin: resp.SlotStepMin,
		Service: ServiceInfo{
			ID:          resp.Service.ID,
			Title:       resp.Service.Title,
			DurationMin: resp.Service.DurationMin,
		},
		Masters:       masters,
		SlotsByMaster: slots,
	}
}
