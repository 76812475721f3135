package find_nearest_slots

import (
	"context"

	findNearestSlots "github.com/mryabova/salon-booking-service/internal/usecase/find_nearest_slots"
)

type FindNearestSlotsUseCase interface {
	Execute(ctx context.Context, req *findNearestSlots.Request) (*findNearestSlots.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
