package move_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mryabova/salon-booking-service/internal/api/handlers"
	moveBooking "github.com/mryabova/salon-booking-service/internal/usecase/move_booking"
)

const (
	msgInvalidBookingID   = "некорректный ID записи"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidRequestData = "некорректные данные запроса"
	msgBookingNotFound    = "запись не найдена"
	msgMasterNotFound     = "мастер не найден"
	msgMasterNotQualified = "мастер не выполняет услугу записи"
	msgOutOfBusinessHours = "время записи вне рабочих часов"
	msgSlotConflict       = "выбранное время уже занято"
)

type Handler struct {
	useCase MoveBookingUseCase
	logger  Logger
}

func NewHandler(useCase MoveBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/admin/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем bookingId из path параметров
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /admin/bookings - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	// Декодируем тело запроса
	var req UpdateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/bookings - Invalid request body: booking_id=%d, error=%v", bookingID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(bookingID)
	if err != nil {
		h.logger.Warn("PATCH /admin/bookings - Invalid request data: booking_id=%d, error=%v", bookingID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestData)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, moveBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /admin/bookings - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, moveBooking.ErrMasterNotFound):
			h.logger.Warn("PATCH /admin/bookings - Master not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgMasterNotFound)

		case errors.Is(err, moveBooking.ErrMasterNotQualified):
			h.logger.Warn("PATCH /admin/bookings - Master not qualified: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgMasterNotQualified)

		case errors.Is(err, moveBooking.ErrOutOfBusinessHours):
			h.logger.Warn("PATCH /admin/bookings - Out of business hours: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgOutOfBusinessHours)

		case errors.Is(err, moveBooking.ErrSlotConflict):
			h.logger.Warn("PATCH /admin/bookings - Slot conflict: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, moveBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /admin/bookings - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestData)

		default:
			h.logger.Error("PATCH /admin/bookings - Failed to update booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("PATCH /admin/bookings - Booking updated: booking_id=%d, status=%s",
		result.ID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, response)
}
