package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mryabova/salon-booking-service/internal/domain"
	"github.com/mryabova/salon-booking-service/internal/service/schedule/models"
	"github.com/mryabova/salon-booking-service/pkg/ptr"
)

type fakeBookingRepo struct {
	bookings   []*domain.Booking
	lastFilter domain.BookingsFilter
}

func (f *fakeBookingRepo) ListWithFilter(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	f.lastFilter = filter

	result := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if filter.From != nil && !b.EndsAt.After(*filter.From) {
			continue
		}
		if filter.To != nil && !b.StartsAt.Before(*filter.To) {
			continue
		}
		if !filter.IncludeCancelled && b.IsCancelled() {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

type fakeCatalogRepo struct {
	masters []*domain.Master
}

func (f *fakeCatalogRepo) ListActiveMasters(_ context.Context) ([]*domain.Master, error) {
	return f.masters, nil
}

type fakeSettingsRepo struct {
	step int
}

func (f *fakeSettingsRepo) GetSlotStep(_ context.Context) (int, error) {
	return f.step, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestService(bookingRepo *fakeBookingRepo) *Service {
	catalog := &fakeCatalogRepo{
		masters: []*domain.Master{
			{ID: 1, Name: "Анна", IsActive: true},
			{ID: 2, Name: "Мария", IsActive: true},
		},
	}
	return NewService(bookingRepo, catalog, &fakeSettingsRepo{step: 30}, nopLogger{})
}

func at(day time.Time, hour int) time.Time {
	return day.Add(time.Duration(hour) * time.Hour)
}

func TestGetSchedule_DayMode(t *testing.T) {
	// 2026-09-10 - четверг
	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	repo := &fakeBookingRepo{
		bookings: []*domain.Booking{
			{ID: 1, MasterID: ptr.Ptr(int64(1)), StartsAt: at(day, 12), EndsAt: at(day, 13), Status: domain.StatusConfirmed},
			{ID: 2, MasterID: ptr.Ptr(int64(1)), StartsAt: at(day, 14), EndsAt: at(day, 15), Status: domain.StatusCancelled},
			{ID: 3, MasterID: ptr.Ptr(int64(2)), StartsAt: at(day.AddDate(0, 0, 1), 12), EndsAt: at(day.AddDate(0, 0, 1), 13), Status: domain.StatusNew},
		},
	}

	service := newTestService(repo)

	resp, err := service.GetSchedule(context.Background(), &models.ScheduleRequest{
		DateFrom: day,
		Mode:     domain.ScheduleModeDay,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ScheduleModeDay, resp.Mode)
	assert.Equal(t, day, resp.DateFrom)
	assert.Equal(t, day, resp.DateTo)
	assert.Equal(t, 30, resp.SlotStepMin)
	assert.Len(t, resp.Masters, 2)

	// Отменённые записи дня включены, записи следующего дня - нет
	require.Len(t, resp.Bookings, 2)
	assert.Equal(t, int64(1), resp.Bookings[0].ID)
	assert.Equal(t, string(domain.StatusCancelled), resp.Bookings[1].Status)
}

func TestGetSchedule_DayModeWithRange(t *testing.T) {
	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	dayTo := day.AddDate(0, 0, 2)

	repo := &fakeBookingRepo{}
	service := newTestService(repo)

	resp, err := service.GetSchedule(context.Background(), &models.ScheduleRequest{
		DateFrom: day,
		DateTo:   ptr.Ptr(dayTo),
		Mode:     domain.ScheduleModeDay,
	})
	require.NoError(t, err)

	assert.Equal(t, day, resp.DateFrom)
	assert.Equal(t, dayTo, resp.DateTo)

	// Фильтр покрывает диапазон целиком, включая последний день
	require.NotNil(t, repo.lastFilter.To)
	assert.Equal(t, dayTo.AddDate(0, 0, 1), *repo.lastFilter.To)
	assert.True(t, repo.lastFilter.IncludeCancelled)
}

func TestGetSchedule_WeekModeExpandsToMondayWeek(t *testing.T) {
	// Четверг разворачивается в неделю пн 2026-09-07 .. вс 2026-09-13
	thursday := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	repo := &fakeBookingRepo{}
	service := newTestService(repo)

	resp, err := service.GetSchedule(context.Background(), &models.ScheduleRequest{
		DateFrom: thursday,
		Mode:     domain.ScheduleModeWeek,
	})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), resp.DateFrom)
	assert.Equal(t, time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC), resp.DateTo)
}

func TestGetSchedule_Validation(t *testing.T) {
	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	service := newTestService(&fakeBookingRepo{})

	tests := []struct {
		name string
		req  *models.ScheduleRequest
	}{
		{name: "zero dateFrom", req: &models.ScheduleRequest{Mode: domain.ScheduleModeDay}},
		{name: "unknown mode", req: &models.ScheduleRequest{DateFrom: day, Mode: "month"}},
		{name: "dateTo before dateFrom", req: &models.ScheduleRequest{
			DateFrom: day,
			DateTo:   ptr.Ptr(day.AddDate(0, 0, -1)),
			Mode:     domain.ScheduleModeDay,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.GetSchedule(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
