package get_schedule

import (
	"errors"
	"net/http"

	"github.com/mryabova/salon-booking-service/internal/api/handlers"
	"github.com/mryabova/salon-booking-service/internal/service/schedule"
)

const (
	msgMissingDateFrom      = "дата начала обязательна"
	msgInvalidDate          = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRequestParams = "некорректные параметры запроса"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/schedule
// Query params: dateFrom (required, YYYY-MM-DD), dateTo (optional), mode (day|week, default day)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	dateFromStr := query.Get("dateFrom")
	if dateFromStr == "" {
		h.logger.Warn("GET /admin/schedule - Missing dateFrom")
		handlers.RespondBadRequest(w, msgMissingDateFrom)
		return
	}

	serviceReq, err := ToServiceRequest(dateFromStr, query.Get("dateTo"), query.Get("mode"))
	if err != nil {
		h.logger.Warn("GET /admin/schedule - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Вызываем сервис расписания
	result, err := h.service.GetSchedule(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("GET /admin/schedule - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestParams)

		default:
			h.logger.Error("GET /admin/schedule - Failed to get schedule: date_from=%s, error=%v",
				dateFromStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromServiceResponse(result)

	h.logger.Info("GET /admin/schedule - Schedule retrieved: mode=%s, date_from=%s, bookings_count=%d",
		result.Mode, dateFromStr, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, response)
}
