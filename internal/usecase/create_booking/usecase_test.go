package create_booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mryabova/salon-booking-service/internal/domain"
	catalogRepo "github.com/mryabova/salon-booking-service/internal/infra/storage/catalog"
	"github.com/mryabova/salon-booking-service/pkg/ptr"
	"github.com/mryabova/salon-booking-service/pkg/types"
)

// fakeBookingRepo хранит записи в памяти
type fakeBookingRepo struct {
	mu       sync.Mutex
	nextID   int64
	bookings []*domain.Booking
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	stored := *booking
	stored.ID = f.nextID
	stored.CreatedAt = time.Now()
	f.bookings = append(f.bookings, &stored)
	return &stored, nil
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
		result = append(result, b)
	}
	return result, nil
}

type fakeCatalogRepo struct {
	services map[int64]*domain.Service
	masters  map[int64]*domain.Master
}

func (f *fakeCatalogRepo) GetService(_ context.Context, id int64) (*domain.Service, error) {
	service, ok := f.services[id]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return service, nil
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
	rules domain.BookingRules
}

func (f *fakeSettingsRepo) GetBusinessHours(_ context.Context) (domain.BusinessHours, error) {
	return f.hours, nil
}

func (f *fakeSettingsRepo) GetBookingRules(_ context.Context) (domain.BookingRules, error) {
	return f.rules, nil
}

// fakeTxManager сериализует транзакции мьютексом - модель сериализуемой
// изоляции для in-memory репозитория
type fakeTxManager struct {
	mu sync.Mutex
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(ctx)
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeNotifier) BookingCreated(_ context.Context, _ *domain.Booking, _ *domain.Service, _ *domain.Master) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
}

type fakeInvalidator struct {
	mu    sync.Mutex
	dates []string
}

func (f *fakeInvalidator) InvalidateDate(_ context.Context, date string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dates = append(f.dates, date)
	return nil
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func defaultFakes() (*fakeBookingRepo, *fakeCatalogRepo, *fakeSettingsRepo) {
	bookingRepo := &fakeBookingRepo{}
	catalog := &fakeCatalogRepo{
		services: map[int64]*domain.Service{
			10: {ID: 10, Title: "Стрижка", DurationMin: 60, IsActive: true},
		},
		masters: map[int64]*domain.Master{
			1: {ID: 1, Name: "Анна", IsActive: true, ServiceIDs: []int64{10}},
		},
	}
	settings := &fakeSettingsRepo{
		hours: domain.BusinessHours{
			"thu": {Open: "10:00", Close: "21:00"},
		},
		rules: domain.BookingRules{MinLeadMin: 0, MaxDaysAhead: 60},
	}
	return bookingRepo, catalog, settings
}

func newTestUseCase(bookingRepo *fakeBookingRepo, catalog *fakeCatalogRepo, settings *fakeSettingsRepo, notifier Notifier, cache CacheInvalidator, now time.Time) *UseCase {
	uc := NewUseCase(bookingRepo, catalog, settings, &fakeTxManager{}, notifier, cache, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: now}
	return uc
}

func baseRequest(date time.Time) *Request {
	return &Request{
		ClientName:  "Иван",
		ClientPhone: "+79990001122",
		ServiceID:   10,
		MasterID:    ptr.Ptr(int64(1)),
		Date:        date,
		StartTime:   "12:00",
		Source:      domain.SourceWeb,
	}
}

func TestExecute_CreatesBookingWithFrozenEnd(t *testing.T) {
	// 2026-09-10 - четверг
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	bookingRepo, catalog, settings := defaultFakes()
	notifier := &fakeNotifier{}
	invalidator := &fakeInvalidator{}

	uc := newTestUseCase(bookingRepo, catalog, settings, notifier, invalidator, now)

	resp, err := uc.Execute(context.Background(), baseRequest(date))
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, string(domain.StatusNew), resp.Status)
	assert.Equal(t, domain.SourceWeb, resp.Source)
	assert.Equal(t, mustAt(t, date, "12:00"), resp.StartsAt)
	assert.Equal(t, mustAt(t, date, "13:00"), resp.EndsAt)

	assert.Equal(t, 1, notifier.calls)
	assert.Equal(t, []string{"2026-09-10"}, invalidator.dates)
}

func TestExecute_PublicSourceForcesNewStatus(t *testing.T) {
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	bookingRepo, catalog, settings := defaultFakes()
	uc := newTestUseCase(bookingRepo, catalog, settings, nil, nil, now)

	req := baseRequest(date)
	req.Status = ptr.Ptr(domain.StatusConfirmed)

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusNew), resp.Status)
}

func TestExecute_AdminMaySetInitialStatus(t *testing.T) {
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	bookingRepo, catalog, settings := defaultFakes()
	uc := newTestUseCase(bookingRepo, catalog, settings, nil, nil, now)

	req := baseRequest(date)
	req.Source = domain.SourceAdmin
	req.Status = ptr.Ptr(domain.StatusConfirmed)

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
}

func TestExecute_SlotConflict(t *testing.T) {
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	bookingRepo, catalog, settings := defaultFakes()
	uc := newTestUseCase(bookingRepo, catalog, settings, nil, nil, now)

	_, err := uc.Execute(context.Background(), baseRequest(date))
	require.NoError(t, err)

	tests := []struct {
		name      string
		startTime types.TimeString
		wantErr   error
	}{
		{name: "same interval", startTime: "12:00", wantErr: ErrSlotConflict},
		{name: "overlapping from the left", startTime: "11:30", wantErr: ErrSlotConflict},
		{name: "overlapping from the right", startTime: "12:30", wantErr: ErrSlotConflict},
		{name: "boundary contact before is fine", startTime: "11:00"},
		{name: "boundary contact after is fine", startTime: "13:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := baseRequest(date)
			req.StartTime = tt.startTime

			_, err := uc.Execute(context.Background(), req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExecute_CancelledBookingDoesNotBlock(t *testing.T) {
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	bookingRepo, catalog, settings := defaultFakes()
	bookingRepo.bookings = []*domain.Booking{
		{
			ID:       100,
			MasterID: ptr.Ptr(int64(1)),
			StartsAt: mustAt(t, date, "12:00"),
			EndsAt:   mustAt(t, date, "13:00"),
			Status:   domain.StatusCancelled,
		},
	}
	bookingRepo.nextID = 100

	uc := newTestUseCase(bookingRepo, catalog, settings, nil, nil, now)

	_, err := uc.Execute(context.Background(), baseRequest(date))
	assert.NoError(t, err)
}

func TestExecute_UnassignedBookingSkipsOccupancyCheck(t *testing.T) {
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	bookingRepo, catalog, settings := defaultFakes()
	uc := newTestUseCase(bookingRepo, catalog, settings, nil, nil, now)

	// Две записи без мастера на одно и то же время проходят обе
	req1 := baseRequest(date)
	req1.MasterID = nil
	req2 := baseRequest(date)
	req2.MasterID = nil

	_, err := uc.Execute(context.Background(), req1)
	require.NoError(t, err)
	_, err = uc.Execute(context.Background(), req2)
	assert.NoError(t, err)
}

func TestExecute_ValidationErrors(t *testing.T) {
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	bookingRepo, catalog, settings := defaultFakes()
	catalog.services[20] = &domain.Service{ID: 20, Title: "Архивная", DurationMin: 30, IsActive: false}
	catalog.masters[2] = &domain.Master{ID: 2, Name: "Мария", IsActive: false, ServiceIDs: []int64{10}}
	catalog.masters[3] = &domain.Master{ID: 3, Name: "Ольга", IsActive: true, ServiceIDs: []int64{99}}

	uc := newTestUseCase(bookingRepo, catalog, settings, nil, nil, now)

	tests := []struct {
		name    string
		mutate  func(req *Request)
		wantErr error
	}{
		{
			name:    "unknown service",
			mutate:  func(req *Request) { req.ServiceID = 99 },
			wantErr: ErrServiceNotFound,
		},
		{
			name:    "inactive service",
			mutate:  func(req *Request) { req.ServiceID = 20 },
			wantErr: ErrServiceNotFound,
		},
		{
			name:    "unknown master",
			mutate:  func(req *Request) { req.MasterID = ptr.Ptr(int64(99)) },
			wantErr: ErrMasterNotFound,
		},
		{
			name:    "inactive master",
			mutate:  func(req *Request) { req.MasterID = ptr.Ptr(int64(2)) },
			wantErr: ErrMasterNotFound,
		},
		{
			name:    "unqualified master",
			mutate:  func(req *Request) { req.MasterID = ptr.Ptr(int64(3)) },
			wantErr: ErrMasterNotQualified,
		},
		{
			name:    "before opening",
			mutate:  func(req *Request) { req.StartTime = "09:30" },
			wantErr: ErrOutOfBusinessHours,
		},
		{
			name:    "runs past closing",
			mutate:  func(req *Request) { req.StartTime = "20:30" },
			wantErr: ErrOutOfBusinessHours,
		},
		{
			name:    "missing phone",
			mutate:  func(req *Request) { req.ClientPhone = "" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "bad time format",
			mutate:  func(req *Request) { req.StartTime = "25:99" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown source",
			mutate:  func(req *Request) { req.Source = "PHONE" },
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := baseRequest(date)
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_BookingRules(t *testing.T) {
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)

	bookingRepo, catalog, settings := defaultFakes()
	settings.hours = domain.BusinessHours{} // Дефолтное окно 10:00-21:00 на все дни
	settings.rules = domain.BookingRules{MinLeadMin: 120, MaxDaysAhead: 30}

	uc := newTestUseCase(bookingRepo, catalog, settings, nil, nil, now)

	t.Run("past start", func(t *testing.T) {
		req := baseRequest(now)
		req.StartTime = "11:00"
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrDateInPast)
	})

	t.Run("too soon for min lead", func(t *testing.T) {
		req := baseRequest(now)
		req.StartTime = "13:00"
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrTooSoon)
	})

	t.Run("beyond max days ahead", func(t *testing.T) {
		req := baseRequest(now.AddDate(0, 0, 31))
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrDateTooFarInFuture)
	})

	t.Run("inside booking window", func(t *testing.T) {
		req := baseRequest(now.AddDate(0, 0, 5))
		_, err := uc.Execute(context.Background(), req)
		assert.NoError(t, err)
	})
}

func TestExecute_ConcurrentPlacementOnlyOneWins(t *testing.T) {
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	bookingRepo, catalog, settings := defaultFakes()
	uc := newTestUseCase(bookingRepo, catalog, settings, nil, nil, now)

	const attempts = 8

	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = uc.Execute(context.Background(), baseRequest(date))
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrSlotConflict)
		}
	}
	assert.Equal(t, 1, succeeded)
}

func mustAt(t *testing.T, date time.Time, hhmm string) time.Time {
	t.Helper()
	ts, err := types.NewTimeStringFromString(hhmm)
	require.NoError(t, err)
	at, err := ts.OnDate(date)
	require.NoError(t, err)
	return at
}
