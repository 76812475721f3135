package find_nearest_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/mryabova/salon-booking-service/internal/api/handlers"
	findNearestSlots "github.com/mryabova/salon-booking-service/internal/usecase/find_nearest_slots"
	"github.com/mryabova/salon-booking-service/pkg/ptr"
)

const (
	msgMissingServiceID     = "ID услуги обязателен"
	msgInvalidServiceID     = "некорректный ID услуги"
	msgInvalidMasterID      = "некорректный ID мастера"
	msgInvalidDateFrom      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidLimit         = "некорректный лимит"
	msgServiceNotFound      = "услуга не найдена"
	msgMasterNotFound       = "мастер не найден"
	msgMasterNotQualified   = "мастер не выполняет выбранную услугу"
	msgInvalidRequestParams = "некорректные параметры запроса"
)

type Handler struct {
	useCase FindNearestSlotsUseCase
	logger  Logger
}

func NewHandler(useCase FindNearestSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/slots/nearest
// Query params: serviceId (required), masterId, dateFrom, limit (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	// Извлекаем serviceId из query параметров
	serviceIDStr := query.Get("serviceId")
	if serviceIDStr == "" {
		h.logger.Warn("GET /admin/slots/nearest - Missing service ID")
		handlers.RespondBadRequest(w, msgMissingServiceID)
		return
	}
	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /admin/slots/nearest - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	// Извлекаем опциональный masterId
	var masterID *int64
	if masterIDStr := query.Get("masterId"); masterIDStr != "" {
		parsed, err := strconv.ParseInt(masterIDStr, 10, 64)
		if err != nil {
			h.logger.Warn("GET /admin/slots/nearest - Invalid master ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidMasterID)
			return
		}
		masterID = ptr.Ptr(parsed)
	}

	// Извлекаем опциональный limit
	limit := 0
	if limitStr := query.Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 0 {
			h.logger.Warn("GET /admin/slots/nearest - Invalid limit: %q", limitStr)
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
		limit = parsed
	}

	useCaseReq, err := ToUseCaseRequest(serviceID, masterID, query.Get("dateFrom"), limit)
	if err != nil {
		h.logger.Warn("GET /admin/slots/nearest - Invalid dateFrom: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateFrom)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, findNearestSlots.ErrServiceNotFound):
			h.logger.Warn("GET /admin/slots/nearest - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, findNearestSlots.ErrMasterNotFound):
			h.logger.Warn("GET /admin/slots/nearest - Master not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgMasterNotFound)

		case errors.Is(err, findNearestSlots.ErrMasterNotQualified):
			h.logger.Warn("GET /admin/slots/nearest - Master not qualified: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgMasterNotQualified)

		case errors.Is(err, findNearestSlots.ErrInvalidInput):
			h.logger.Warn("GET /admin/slots/nearest - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestParams)

		default:
			h.logger.Error("GET /admin/slots/nearest - Failed to find slots: service_id=%d, error=%v",
				serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /admin/slots/nearest - Slots found: service_id=%d, count=%d",
		serviceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
