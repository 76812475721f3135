package create_booking

import (
	"fmt"
	"time"

	"github.com/mryabova/salon-booking-service/internal/domain"
	createBooking "github.com/mryabova/salon-booking-service/internal/usecase/create_booking"
	"github.com/mryabova/salon-booking-service/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ClientName  string  `json:"clientName,omitempty"`
	ClientPhone string  `json:"clientPhone"`
	ServiceID   int64   `json:"serviceId"`
	MasterID    *int64  `json:"masterId,omitempty"`
	Date        string  `json:"date"`
	StartTime   string  `json:"startTime"`
	Comment     *string `json:"comment,omitempty"`
	Status      *string `json:"status,omitempty"` // только для админского эндпоинта
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	ID          int64   `json:"id"`
	ClientName  string  `json:"clientName,omitempty"`
	ClientPhone string  `json:"clientPhone"`
	ServiceID   int64   `json:"serviceId"`
	MasterID    *int64  `json:"masterId,omitempty"`
	Date        string  `json:"date"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	Comment     *string `json:"comment,omitempty"`
	Status      string  `json:"status"`
	Source      string  `json:"source"`
	CreatedAt   string  `json:"createdAt"`
}

// ToUseCaseRequest создает запрос use case из HTTP запроса
// source задаётся эндпоинтом, а не клиентом
func (r *CreateBookingRequest) ToUseCaseRequest(source string) (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}

	startTime := types.TimeString(r.StartTime)
	if err := startTime.Validate(); err != nil {
		return nil, fmt.Errorf("parse start time: %w", err)
	}

	var status *domain.BookingStatus
	if source == domain.SourceAdmin && r.Status != nil {
		s := domain.BookingStatus(*r.Status)
		status = &s
	}

	return &createBooking.Request{
		ClientName:  r.ClientName,
		ClientPhone: r.ClientPhone,
		ServiceID:   r.ServiceID,
		MasterID:    r.MasterID,
		Date:        date,
		StartTime:   startTime,
		Comment:     r.Comment,
		Source:      source,
		Status:      status,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	return &CreateBookingResponse{
		ID:          resp.ID,
		ClientName:  resp.ClientName,
		ClientPhone: resp.ClientPhone,
		ServiceID:   resp.ServiceID,
		MasterID:    resp.MasterID,
		Date:        resp.StartsAt.Format(domain.DateFormat),
		StartTime:   resp.StartsAt.Format("15:04"),
		EndTime:     resp.EndsAt.Format("15:04"),
		Comment:     resp.Comment,
		Status:      resp.Status,
		Source:      resp.Source,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
	}
}
