package models

import (
	"time"

	"github.com/mryabova/salon-booking-service/internal/domain"
)

// ScheduleRequest запрос расписания на день или неделю
type ScheduleRequest struct {
	DateFrom time.Time           // Опорная дата
	DateTo   *time.Time          // Конец диапазона, только для mode=day
	Mode     domain.ScheduleMode // day или week
}

// MasterItem мастер в сетке расписания
type MasterItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BookingItem запись в сетке расписания
type BookingItem struct {
	ID           int64     `json:"id"`
	ClientName   string    `json:"client_name"`
	ClientPhone  string    `json:"client_phone"`
	ServiceID    int64     `json:"service_id"`
	MasterID     *int64    `json:"master_id"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
	Status       string    `json:"status"`
	Source       string    `json:"source"`
	IsRead       bool      `json:"is_read"`
	Comment      *string   `json:"comment"`
	AdminComment *string   `json:"admin_comment"`
}

// ScheduleResponse сетка расписания для админки
// Свободные слоты не предвычисляются: сетку строит клиент по шагу и записям
type ScheduleResponse struct {
	Mode        domain.ScheduleMode `json:"mode"`
	DateFrom    time.Time           `json:"date_from"`
	DateTo      time.Time           `json:"date_to"`
	SlotStepMin int                 `json:"slot_step_min"`
	Masters     []MasterItem        `json:"masters"`
	Bookings    []BookingItem       `json:"bookings"`
}

// FromDomainBooking конвертирует доменную запись в элемент расписания
func FromDomainBooking(b *domain.Booking) BookingItem {
	return BookingItem{
		ID:           b.ID,
		ClientName:   b.ClientName,
		ClientPhone:  b.ClientPhone,
		ServiceID:    b.ServiceID,
		MasterID:     b.MasterID,
		StartsAt:     b.StartsAt,
		EndsAt:       b.EndsAt,
		Status:       string(b.Status),
		Source:       b.Source,
		IsRead:       b.IsRead,
		Comment:      b.Comment,
		AdminComment: b.AdminComment,
	}
}
