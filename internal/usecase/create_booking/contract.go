package create_booking

import (
	"context"
	"time"

	"github.com/mryabova/salon-booking-service/internal/domain"
)

// BookingRepository интерфейс репозитория записей
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	ListWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// CatalogRepository интерфейс справочника услуг и мастеров
type CatalogRepository interface {
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	GetMaster(ctx context.Context, id int64) (*domain.Master, error)
}

// SettingsRepository интерфейс репозитория настроек салона
type SettingsRepository interface {
	GetBusinessHours(ctx context.Context) (domain.BusinessHours, error)
	GetBookingRules(ctx context.Context) (domain.BookingRules, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier интерфейс уведомления администратора о новой записи
type Notifier interface {
	BookingCreated(ctx context.Context, booking *domain.Booking, service *domain.Service, master *domain.Master)
}

// CacheInvalidator интерфейс сброса кэша доступности
type CacheInvalidator interface {
	InvalidateDate(ctx context.Context, date string) error
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
