package create_booking

import (
	"errors"
	"net/http"

	"github.com/mryabova/salon-booking-service/internal/api/handlers"
	"github.com/mryabova/salon-booking-service/internal/domain"
	createBooking "github.com/mryabova/salon-booking-service/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidRequestData = "некорректные данные запроса"
	msgServiceNotFound    = "услуга не найдена"
	msgMasterNotFound     = "мастер не найден"
	msgMasterNotQualified = "мастер не выполняет выбранную услугу"
	msgOutOfBusinessHours = "время записи вне рабочих часов"
	msgDateInPast         = "дата записи уже прошла"
	msgDateTooFar         = "дата записи слишком далеко в будущем"
	msgTooSoon            = "до начала записи осталось слишком мало времени"
	msgSlotConflict       = "выбранное время уже занято"
)

// Handler обслуживает создание записи; source фиксируется при регистрации
// маршрута: публичный эндпоинт создает WEB-записи, админский - ADMIN
type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
	source  string
}

func NewHandler(useCase CreateBookingUseCase, logger Logger, source string) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
		source:  source,
	}
}

// NewPublicHandler создает обработчик POST /api/v1/bookings
func NewPublicHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return NewHandler(useCase, logger, domain.SourceWeb)
}

// NewAdminHandler создает обработчик POST /api/v1/admin/bookings
func NewAdminHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return NewHandler(useCase, logger, domain.SourceAdmin)
}

// Handle POST /api/v1/bookings | POST /api/v1/admin/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Декодируем тело запроса
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(h.source)
	if err != nil {
		h.logger.Warn("POST /bookings - Invalid request data: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestData)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrMasterNotFound):
			h.logger.Warn("POST /bookings - Master not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgMasterNotFound)

		case errors.Is(err, createBooking.ErrMasterNotQualified):
			h.logger.Warn("POST /bookings - Master not qualified: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgMasterNotQualified)

		case errors.Is(err, createBooking.ErrOutOfBusinessHours):
			h.logger.Warn("POST /bookings - Out of business hours: date=%s, time=%s", req.Date, req.StartTime)
			handlers.RespondBadRequest(w, msgOutOfBusinessHours)

		case errors.Is(err, createBooking.ErrDateInPast):
			h.logger.Warn("POST /bookings - Date in past: date=%s", req.Date)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, createBooking.ErrDateTooFarInFuture):
			h.logger.Warn("POST /bookings - Date too far in future: date=%s", req.Date)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createBooking.ErrTooSoon):
			h.logger.Warn("POST /bookings - Booking starts too soon: date=%s, time=%s", req.Date, req.StartTime)
			handlers.RespondBadRequest(w, msgTooSoon)

		case errors.Is(err, createBooking.ErrSlotConflict):
			h.logger.Warn("POST /bookings - Slot conflict: service_id=%d, date=%s, time=%s",
				req.ServiceID, req.Date, req.StartTime)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestData)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: service_id=%d, error=%v",
				req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created: booking_id=%d, service_id=%d, source=%s",
		result.ID, result.ServiceID, h.source)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
