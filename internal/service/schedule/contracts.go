package schedule

import (
	"context"

	"github.com/mryabova/salon-booking-service/internal/domain"
)

// BookingRepository интерфейс репозитория записей
type BookingRepository interface {
	ListWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// CatalogRepository интерфейс справочника мастеров
type CatalogRepository interface {
	ListActiveMasters(ctx context.Context) ([]*domain.Master, error)
}

// SettingsRepository интерфейс репозитория настроек салона
type SettingsRepository interface {
	GetSlotStep(ctx context.Context) (int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
