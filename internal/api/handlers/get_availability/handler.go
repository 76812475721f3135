package get_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/mryabova/salon-booking-service/internal/api/handlers"
	getAvailability "github.com/mryabova/salon-booking-service/internal/usecase/get_availability"
	"github.com/mryabova/salon-booking-service/pkg/ptr"
)

const (
	msgMissingServiceID     = "ID услуги обязателен"
	msgInvalidServiceID     = "некорректный ID услуги"
	msgInvalidMasterID      = "некорректный ID мастера"
	msgMissingDate          = "дата обязательна"
	msgInvalidDate          = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgServiceNotFound      = "услуга не найдена"
	msgMasterNotFound       = "мастер не найден"
	msgMasterNotQualified   = "мастер не выполняет выбранную услугу"
	msgInvalidRequestParams = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability
// Query params: serviceId (required), date (required, YYYY-MM-DD), masterId (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	// Извлекаем serviceId из query параметров
	serviceIDStr := query.Get("serviceId")
	if serviceIDStr == "" {
		h.logger.Warn("GET /availability - Missing service ID")
		handlers.RespondBadRequest(w, msgMissingServiceID)
		return
	}
	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /availability - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	// Извлекаем опциональный masterId
	var masterID *int64
	if masterIDStr := query.Get("masterId"); masterIDStr != "" {
		parsed, err := strconv.ParseInt(masterIDStr, 10, 64)
		if err != nil {
			h.logger.Warn("GET /availability - Invalid master ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidMasterID)
			return
		}
		masterID = ptr.Ptr(parsed)
	}

	// Извлекаем date из query параметров
	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /availability - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(serviceID, masterID, dateStr)
	if err != nil {
		h.logger.Warn("GET /availability - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrServiceNotFound):
			h.logger.Warn("GET /availability - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailability.ErrMasterNotFound):
			h.logger.Warn("GET /availability - Master not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgMasterNotFound)

		case errors.Is(err, getAvailability.ErrMasterNotQualified):
			h.logger.Warn("GET /availability - Master not qualified: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgMasterNotQualified)

		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestParams)

		default:
			h.logger.Error("GET /availability - Failed to get availability: service_id=%d, date=%s, error=%v",
				serviceID, dateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /availability - Availability retrieved: service_id=%d, date=%s, masters_count=%d",
		serviceID, dateStr, len(result.Masters))
	handlers.RespondJSON(w, http.StatusOK, response)
}
