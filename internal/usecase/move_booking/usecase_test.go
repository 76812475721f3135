package move_booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mryabova/salon-booking-service/internal/domain"
	bookingRepo "github.com/mryabova/salon-booking-service/internal/infra/storage/booking"
	catalogRepo "github.com/mryabova/salon-booking-service/internal/infra/storage/catalog"
	"github.com/mryabova/salon-booking-service/pkg/ptr"
	"github.com/mryabova/salon-booking-service/pkg/types"
)

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[int64]*domain.Booking
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	booking, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *booking
	return &copied, nil
}

func (f *fakeBookingRepo) ListWithFilter(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if filter.MasterID != nil && (b.MasterID == nil || *b.MasterID != *filter.MasterID) {
			continue
		}
		if filter.From != nil && !b.EndsAt.After(*filter.From) {
			continue
		}
		if filter.To != nil && !b.StartsAt.Before(*filter.To) {
			continue
		}
		if !filter.IncludeCancelled && b.IsCancelled() {
			continue
		}
		if filter.ExcludeBookingID != nil && b.ID == *filter.ExcludeBookingID {
			continue
		}
		copied := *b
		result = append(result, &copied)
	}
	return result, nil
}

func (f *fakeBookingRepo) Update(_ context.Context, id int64, patch domain.BookingPatch) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	booking, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}

	if patch.SetMaster {
		booking.MasterID = patch.MasterID
	}
	if patch.StartsAt != nil {
		booking.StartsAt = *patch.StartsAt
	}
	if patch.EndsAt != nil {
		booking.EndsAt = *patch.EndsAt
	}
	if patch.Status != nil {
		booking.Status = *patch.Status
	}
	if patch.AdminComment != nil {
		booking.AdminComment = patch.AdminComment
	}
	if patch.IsRead != nil {
		booking.IsRead = *patch.IsRead
	}

	copied := *booking
	return &copied, nil
}

type fakeCatalogRepo struct {
	masters map[int64]*domain.Master
}

func (f *fakeCatalogRepo) GetMaster(_ context.Context, id int64) (*domain.Master, error) {
	master, ok := f.masters[id]
	if !ok {
		return nil, catalogRepo.ErrMasterNotFound
	}
	return master, nil
}

type fakeSettingsRepo struct {
	hours domain.BusinessHours
}

func (f *fakeSettingsRepo) GetBusinessHours(_ context.Context) (domain.BusinessHours, error) {
	return f.hours, nil
}

type fakeTxManager struct {
	mu sync.Mutex
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(ctx)
}

type fakeInvalidator struct {
	dates []string
}

func (f *fakeInvalidator) InvalidateDate(_ context.Context, date string) error {
	f.dates = append(f.dates, date)
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func mustAt(t *testing.T, date time.Time, hhmm string) time.Time {
	t.Helper()
	ts, err := types.NewTimeStringFromString(hhmm)
	require.NoError(t, err)
	at, err := ts.OnDate(date)
	require.NoError(t, err)
	return at
}

var testDate = time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

func seedBooking(t *testing.T) *domain.Booking {
	t.Helper()
	return &domain.Booking{
		ID:          1,
		ClientName:  "Иван",
		ClientPhone: "+79990001122",
		ServiceID:   10,
		MasterID:    ptr.Ptr(int64(1)),
		StartsAt:    mustAt(t, testDate, "12:00"),
		EndsAt:      mustAt(t, testDate, "13:00"),
		Status:      domain.StatusConfirmed,
		Source:      domain.SourceWeb,
	}
}

func newTestUseCase(repo *fakeBookingRepo, catalog *fakeCatalogRepo, cache CacheInvalidator) *UseCase {
	settings := &fakeSettingsRepo{
		hours: domain.BusinessHours{
			"thu": {Open: "10:00", Close: "21:00"},
			"fri": {Open: "10:00", Close: "21:00"},
		},
	}
	return NewUseCase(repo, catalog, settings, &fakeTxManager{}, cache, nopLogger{})
}

func defaultCatalog() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		masters: map[int64]*domain.Master{
			1: {ID: 1, Name: "Анна", IsActive: true, ServiceIDs: []int64{10}},
			2: {ID: 2, Name: "Мария", IsActive: true, ServiceIDs: []int64{10}},
		},
	}
}

func TestExecute_RescheduleKeepsFrozenDuration(t *testing.T) {
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{1: seedBooking(t)}}
	cache := &fakeInvalidator{}
	uc := newTestUseCase(repo, defaultCatalog(), cache)

	newDate := testDate.AddDate(0, 0, 1)
	resp, err := uc.Execute(context.Background(), &Request{
		BookingID: 1,
		Date:      ptr.Ptr(newDate),
		Time:      ptr.Ptr(types.TimeString("15:00")),
	})
	require.NoError(t, err)

	assert.Equal(t, mustAt(t, newDate, "15:00"), resp.StartsAt)
	assert.Equal(t, mustAt(t, newDate, "16:00"), resp.EndsAt)

	// Сбрасываются обе даты: старая и новая
	assert.Equal(t, []string{"2026-09-10", "2026-09-11"}, cache.dates)
}

func TestExecute_TimeOnlyKeepsDate(t *testing.T) {
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{1: seedBooking(t)}}
	cache := &fakeInvalidator{}
	uc := newTestUseCase(repo, defaultCatalog(), cache)

	resp, err := uc.Execute(context.Background(), &Request{
		BookingID: 1,
		Time:      ptr.Ptr(types.TimeString("17:30")),
	})
	require.NoError(t, err)

	assert.Equal(t, mustAt(t, testDate, "17:30"), resp.StartsAt)
	assert.Equal(t, mustAt(t, testDate, "18:30"), resp.EndsAt)
	assert.Equal(t, []string{"2026-09-10"}, cache.dates)
}

func TestExecute_MoveRejectsOverlap(t *testing.T) {
	other := &domain.Booking{
		ID:       2,
		MasterID: ptr.Ptr(int64(1)),
		StartsAt: mustAt(t, testDate, "15:00"),
		EndsAt:   mustAt(t, testDate, "16:00"),
		Status:   domain.StatusNew,
	}
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{1: seedBooking(t), 2: other}}
	uc := newTestUseCase(repo, defaultCatalog(), nil)

	tests := []struct {
		name    string
		time    types.TimeString
		wantErr error
	}{
		{name: "into occupied interval", time: "15:30", wantErr: ErrSlotConflict},
		{name: "overlap from the left", time: "14:30", wantErr: ErrSlotConflict},
		{name: "boundary contact is fine", time: "16:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), &Request{
				BookingID: 1,
				Time:      ptr.Ptr(tt.time),
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExecute_OwnIntervalExcludedFromCheck(t *testing.T) {
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{1: seedBooking(t)}}
	uc := newTestUseCase(repo, defaultCatalog(), nil)

	// Сдвиг на полчаса пересекается со старым собственным интервалом - это не конфликт
	resp, err := uc.Execute(context.Background(), &Request{
		BookingID: 1,
		Time:      ptr.Ptr(types.TimeString("12:30")),
	})
	require.NoError(t, err)
	assert.Equal(t, mustAt(t, testDate, "12:30"), resp.StartsAt)
}

func TestExecute_ReassignMaster(t *testing.T) {
	busyOnTwo := &domain.Booking{
		ID:       2,
		MasterID: ptr.Ptr(int64(2)),
		StartsAt: mustAt(t, testDate, "12:00"),
		EndsAt:   mustAt(t, testDate, "13:00"),
		Status:   domain.StatusConfirmed,
	}

	t.Run("conflict on the new master", func(t *testing.T) {
		repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{1: seedBooking(t), 2: busyOnTwo}}
		uc := newTestUseCase(repo, defaultCatalog(), nil)

		_, err := uc.Execute(context.Background(), &Request{
			BookingID: 1,
			MasterID:  ptr.Ptr(int64(2)),
			SetMaster: true,
		})
		assert.ErrorIs(t, err, ErrSlotConflict)
	})

	t.Run("free master accepts the booking", func(t *testing.T) {
		repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{1: seedBooking(t)}}
		uc := newTestUseCase(repo, defaultCatalog(), nil)

		resp, err := uc.Execute(context.Background(), &Request{
			BookingID: 1,
			MasterID:  ptr.Ptr(int64(2)),
			SetMaster: true,
		})
		require.NoError(t, err)
		require.NotNil(t, resp.MasterID)
		assert.Equal(t, int64(2), *resp.MasterID)
	})

	t.Run("assigning master to unassigned booking checks occupancy", func(t *testing.T) {
		unassigned := seedBooking(t)
		unassigned.MasterID = nil
		repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{1: unassigned, 2: busyOnTwo}}
		uc := newTestUseCase(repo, defaultCatalog(), nil)

		_, err := uc.Execute(context.Background(), &Request{
			BookingID: 1,
			MasterID:  ptr.Ptr(int64(2)),
			SetMaster: true,
		})
		assert.ErrorIs(t, err, ErrSlotConflict)
	})

	t.Run("unqualified master", func(t *testing.T) {
		catalog := defaultCatalog()
		catalog.masters[3] = &domain.Master{ID: 3, Name: "Ольга", IsActive: true, ServiceIDs: []int64{99}}
		repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{1: seedBooking(t)}}
		uc := newTestUseCase(repo, catalog, nil)

		_, err := uc.Execute(context.Background(), &Request{
			BookingID: 1,
			MasterID:  ptr.Ptr(int64(3)),
			SetMaster: true,
		})
		assert.ErrorIs(t, err, ErrMasterNotQualified)
	})
}

func TestExecute_CancellationFreesInterval(t *testing.T) {
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{1: seedBooking(t)}}
	uc := newTestUseCase(repo, defaultCatalog(), nil)

	resp, err := uc.Execute(context.Background(), &Request{
		BookingID: 1,
		Status:    ptr.Ptr(domain.StatusCancelled),
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)

	// Интервал отменённой записи больше не блокирует другие переносы
	second := &domain.Booking{
		ID:       2,
		MasterID: ptr.Ptr(int64(1)),
		StartsAt: mustAt(t, testDate, "18:00"),
		EndsAt:   mustAt(t, testDate, "19:00"),
		Status:   domain.StatusNew,
	}
	repo.bookings[2] = second

	_, err = uc.Execute(context.Background(), &Request{
		BookingID: 2,
		Time:      ptr.Ptr(types.TimeString("12:00")),
	})
	assert.NoError(t, err)
}

func TestExecute_UncancelRechecksOccupancy(t *testing.T) {
	taken := &domain.Booking{
		ID:       2,
		MasterID: ptr.Ptr(int64(1)),
		StartsAt: mustAt(t, testDate, "12:00"),
		EndsAt:   mustAt(t, testDate, "13:00"),
		Status:   domain.StatusConfirmed,
	}

	t.Run("slot taken while cancelled", func(t *testing.T) {
		cancelled := seedBooking(t)
		cancelled.Status = domain.StatusCancelled
		repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{1: cancelled, 2: taken}}
		uc := newTestUseCase(repo, defaultCatalog(), nil)

		// Пока запись была отменена, её интервал занял booking 2:
		// возврат в занимающий статус без переноса - конфликт
		for _, status := range []domain.BookingStatus{domain.StatusNew, domain.StatusConfirmed, domain.StatusDone} {
			_, err := uc.Execute(context.Background(), &Request{
				BookingID: 1,
				Status:    ptr.Ptr(status),
			})
			assert.ErrorIs(t, err, ErrSlotConflict)
		}

		// Запись осталась отменённой
		stored, err := repo.GetByID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, stored.Status)
	})

	t.Run("free slot allows uncancel", func(t *testing.T) {
		cancelled := seedBooking(t)
		cancelled.Status = domain.StatusCancelled
		repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{1: cancelled}}
		uc := newTestUseCase(repo, defaultCatalog(), nil)

		resp, err := uc.Execute(context.Background(), &Request{
			BookingID: 1,
			Status:    ptr.Ptr(domain.StatusConfirmed),
		})
		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	})

	t.Run("cancelled to cancelled skips the check", func(t *testing.T) {
		cancelled := seedBooking(t)
		cancelled.Status = domain.StatusCancelled
		repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{1: cancelled, 2: taken}}
		uc := newTestUseCase(repo, defaultCatalog(), nil)

		// Правка админских полей отменённой записи конфликтом не считается
		_, err := uc.Execute(context.Background(), &Request{
			BookingID: 1,
			IsRead:    ptr.Ptr(true),
		})
		assert.NoError(t, err)
	})
}

func TestExecute_MoveOutOfBusinessHours(t *testing.T) {
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{1: seedBooking(t)}}
	uc := newTestUseCase(repo, defaultCatalog(), nil)

	_, err := uc.Execute(context.Background(), &Request{
		BookingID: 1,
		Time:      ptr.Ptr(types.TimeString("20:30")),
	})
	assert.ErrorIs(t, err, ErrOutOfBusinessHours)
}

func TestExecute_NotFoundAndInvalidInput(t *testing.T) {
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{1: seedBooking(t)}}
	uc := newTestUseCase(repo, defaultCatalog(), nil)

	t.Run("unknown booking", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{
			BookingID: 99,
			IsRead:    ptr.Ptr(true),
		})
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("empty patch", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{BookingID: 1})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("bad status", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), &Request{
			BookingID: 1,
			Status:    ptr.Ptr(domain.BookingStatus("UNKNOWN")),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestExecute_AdminFieldsOnly(t *testing.T) {
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{1: seedBooking(t)}}
	cache := &fakeInvalidator{}
	uc := newTestUseCase(repo, defaultCatalog(), cache)

	resp, err := uc.Execute(context.Background(), &Request{
		BookingID:    1,
		AdminComment: ptr.Ptr("перезвонить клиенту"),
		IsRead:       ptr.Ptr(true),
	})
	require.NoError(t, err)

	assert.True(t, resp.IsRead)
	require.NotNil(t, resp.AdminComment)
	assert.Equal(t, "перезвонить клиенту", *resp.AdminComment)

	// Интервал не менялся, но дата записи все равно инвалидируется один раз
	assert.Equal(t, []string{"2026-09-10"}, cache.dates)
}
