package get_availability

import (
	"context"
	"time"

	"github.com/mryabova/salon-booking-service/internal/domain"
)

// BookingRepository интерфейс репозитория записей
type BookingRepository interface {
	// ListWithFilter получает записи, пересекающие интервал фильтра
	ListWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// CatalogRepository интерфейс справочника услуг и мастеров
type CatalogRepository interface {
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	GetMaster(ctx context.Context, id int64) (*domain.Master, error)
	ListMastersForService(ctx context.Context, serviceID int64) ([]*domain.Master, error)
}

// SettingsRepository интерфейс репозитория настроек салона
type SettingsRepository interface {
	GetBusinessHours(ctx context.Context) (domain.BusinessHours, error)
	GetSlotStep(ctx context.Context) (int, error)
	GetBookingRules(ctx context.Context) (domain.BookingRules, error)
}

// AvailabilityCache интерфейс кэша готовых ответов доступности
type AvailabilityCache interface {
	Get(ctx context.Context, date string, serviceID int64) ([]byte, error)
	Set(ctx context.Context, date string, serviceID int64, data []byte) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
