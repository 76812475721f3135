package get_schedule

import (
	"time"

	"github.com/mryabova/salon-booking-service/internal/domain"
	"github.com/mryabova/salon-booking-service/internal/service/schedule/models"
)

// ScheduleResponse HTTP response model
type ScheduleResponse struct {
	Mode        string        `json:"mode"`
	DateFrom    string        `json:"dateFrom"`
	DateTo      string        `json:"dateTo"`
	SlotStepMin int           `json:"slotStepMin"`
	Masters     []MasterItem  `json:"masters"`
	Bookings    []BookingItem `json:"bookings"`
}

// MasterItem мастер в сетке расписания
type MasterItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BookingItem запись в сетке расписания
type BookingItem struct {
	ID           int64   `json:"id"`
	ClientName   string  `json:"clientName,omitempty"`
	ClientPhone  string  `json:"clientPhone"`
	ServiceID    int64   `json:"serviceId"`
	MasterID     *int64  `json:"masterId,omitempty"`
	Date         string  `json:"date"`
	StartTime    string  `json:"startTime"`
	EndTime      string  `json:"endTime"`
	Status       string  `json:"status"`
	Source       string  `json:"source"`
	IsRead       bool    `json:"isRead"`
	Comment      *string `json:"comment,omitempty"`
	AdminComment *string `json:"adminComment,omitempty"`
}

// ToServiceRequest создает запрос сервиса из query параметров
func ToServiceRequest(dateFromStr, dateToStr, modeStr string) (*models.ScheduleRequest, error) {
	dateFrom, err := time.Parse(domain.DateFormat, dateFromStr)
	if err != nil {
		return nil, err
	}

	var dateTo *time.Time
	if dateToStr != "" {
		parsed, err := time.Parse(domain.DateFormat, dateToStr)
		if err != nil {
			return nil, err
		}
		dateTo = &parsed
	}

	mode := domain.ScheduleModeDay
	if modeStr != "" {
		mode = domain.ScheduleMode(modeStr)
	}

	return &models.ScheduleRequest{
		DateFrom: dateFrom,
		DateTo:   dateTo,
		Mode:     mode,
	}, nil
}

// FromServiceResponse конвертирует ответ сервиса в HTTP response
func FromServiceResponse(resp *models.ScheduleResponse) *ScheduleResponse {
	masters := make([]MasterItem, len(resp.Masters))
	for i, m := range resp.Masters {
		masters[i] = MasterItem{ID: m.ID, Name: m.Name}
	}

	bookings := make([]BookingItem, len(resp.Bookings))
	for i, b := range resp.Bookings {
		bookings[i] = BookingItem{
			ID:           b.ID,
			ClientName:   b.ClientName,
			ClientPhone:  b.ClientPhone,
			ServiceID:    b.ServiceID,
			MasterID:     b.MasterID,
			Date:         b.StartsAt.Format(domain.DateFormat),
			StartTime:    b.StartsAt.Format(domain.TimeFormat),
			EndTime:      b.EndsAt.Format(domain.TimeFormat),
			Status:       b.Status,
			Source:       b.Source,
			IsRead:       b.IsRead,
			Comment:      b.Comment,
			AdminComment: b.AdminComment,
		}
	}

	return &ScheduleResponse{
		Mode:        string(resp.Mode),
		DateFrom:    resp.DateFrom.Format(domain.DateFormat),
		DateTo:      resp.DateTo.Format(domain.DateFormat),
		SlotStepMin: resp.SlotStepMin,
		Masters:     masters,
		Bookings:    bookings,
	}
}
