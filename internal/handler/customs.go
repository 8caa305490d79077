package handler

import (
	"encoding/json"
	"net/http"

	"freightgate/internal/customs"
	"freightgate/internal/screening"
	"freightgate/pkg/logger"
	"freightgate/pkg/validator"
)

type CustomsHandler struct {
	service   *customs.Service
	validator *validator.Validator
	logger    logger.Logger
}

func NewCustomsHandler(service *customs.Service, v *validator.Validator, log logger.Logger) *CustomsHandler {
	return &CustomsHandler{
		service:   service,
		validator: v,
		logger:    log,
	}
}

type preClearRequest struct {
	ShipmentID         string                    `json:"shipment_id" validate:"required,max=100"`
	DestinationCountry string                    `json:"destination_country" validate:"required,max=100"`
	Parties            screening.ShipmentParties `json:"parties"`
	Commodities        []customs.CommodityLine   `json:"commodities"`
}

// PreClear handles POST /api/v1/customs/preclear.
func (h *CustomsHandler) PreClear(w http.ResponseWriter, r *http.Request) {
	var req preClearRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if errs := h.validator.ValidateStructured(req); errs != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "validation failed",
			"fields": errs,
		})
		return
	}

	result, err := h.service.PreClear(r.Context(), req.ShipmentID, req.DestinationCountry, req.Parties, req.Commodities)
	if err != nil {
		h.logger.Error("Customs pre-clearance failed", map[string]interface{}{
			"shipment_id": req.ShipmentID,
			"error":       err.Error(),
		})
		h.respondError(w, http.StatusInternalServerError, "Customs pre-clearance failed")
		return
	}

	status := http.StatusOK
	if result.Status == customs.StatusComplianceHold {
		status = http.StatusConflict
	}
	h.respondJSON(w, status, result)
}

func (h *CustomsHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("json encode failed", map[string]interface{}{"error": err.Error()})
	}
}

func (h *CustomsHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
