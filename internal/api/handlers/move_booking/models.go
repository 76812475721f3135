package move_booking

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mryabova/salon-booking-service/internal/domain"
	moveBooking "github.com/mryabova/salon-booking-service/internal/usecase/move_booking"
	"github.com/mryabova/salon-booking-service/pkg/types"
)

// OptionalInt64 отличает отсутствующее поле от явного null
// Явный null означает снятие значения (запись без мастера)
type OptionalInt64 struct {
	Set   bool
	Value *int64
}

func (o *OptionalInt64) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// UpdateBookingRequest HTTP request model, все поля опциональны
type UpdateBookingRequest struct {
	MasterID     OptionalInt64 `json:"masterId"`
	Date         *string       `json:"date,omitempty"`
	StartTime    *string       `json:"startTime,omitempty"`
	Status       *string       `json:"status,omitempty"`
	AdminComment *string       `json:"adminComment,omitempty"`
	IsRead       *bool         `json:"isRead,omitempty"`
}

// UpdateBookingResponse HTTP response model
type UpdateBookingResponse struct {
	ID           int64   `json:"id"`
	ClientName   string  `json:"clientName,omitempty"`
	ClientPhone  string  `json:"clientPhone"`
	ServiceID    int64   `json:"serviceId"`
	MasterID     *int64  `json:"masterId,omitempty"`
	Date         string  `json:"date"`
	StartTime    string  `json:"startTime"`
	EndTime      string  `json:"endTime"`
	Comment      *string `json:"comment,omitempty"`
	Status       string  `json:"status"`
	Source       string  `json:"source"`
	IsRead       bool    `json:"isRead"`
	AdminComment *string `json:"adminComment,omitempty"`
	CreatedAt    string  `json:"createdAt"`
}

// ToUseCaseRequest создает запрос use case из HTTP запроса
func (r *UpdateBookingRequest) ToUseCaseRequest(bookingID int64) (*moveBooking.Request, error) {
	var date *time.Time
	if r.Date != nil {
		parsed, err := time.Parse(domain.DateFormat, *r.Date)
		if err != nil {
			return nil, fmt.Errorf("parse date: %w", err)
		}
		date = &parsed
	}

	var startTime *types.TimeString
	if r.StartTime != nil {
		ts := types.TimeString(*r.StartTime)
		if err := ts.Validate(); err != nil {
			return nil, fmt.Errorf("parse start time: %w", err)
		}
		startTime = &ts
	}

	var status *domain.BookingStatus
	if r.Status != nil {
		s := domain.BookingStatus(*r.Status)
		status = &s
	}

	return &moveBooking.Request{
		BookingID:    bookingID,
		MasterID:     r.MasterID.Value,
		SetMaster:    r.MasterID.Set,
		Date:         date,
		Time:         startTime,
		Status:       status,
		AdminComment: r.AdminComment,
		IsRead:       r.IsRead,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *moveBooking.Response) *UpdateBookingResponse {
	return &UpdateBookingResponse{
		ID:           resp.ID,
		ClientName:   resp.ClientName,
		ClientPhone:  resp.ClientPhone,
		ServiceID:    resp.ServiceID,
		MasterID:     resp.MasterID,
		Date:         resp.StartsAt.Format(domain.DateFormat),
		StartTime:    resp.StartsAt.Format(domain.TimeFormat),
		EndTime:      resp.EndsAt.Format(domain.TimeFormat),
		Comment:      resp.Comment,
		Status:       resp.Status,
		Source:       resp.Source,
		IsRead:       resp.IsRead,
		AdminComment: resp.AdminComment,
		CreatedAt:    resp.CreatedAt.Format(time.RFC3339),
	}
}
