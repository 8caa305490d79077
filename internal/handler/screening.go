package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"freightgate/internal/domain"
	"freightgate/internal/middleware"
	"freightgate/internal/repository/postgres"
	"freightgate/internal/screening"
	"freightgate/pkg/logger"
	"freightgate/pkg/validator"
)

type ScreeningHandler struct {
	service   *screening.Service
	auditRepo *postgres.AuditRepository
	validator *validator.Validator
	logger    logger.Logger
}

// NewScreeningHandler creates the screening HTTP handler. auditRepo may be
// nil when no database is configured; audit export then falls back to the
// in-memory trail.
func NewScreeningHandler(service *screening.Service, auditRepo *postgres.AuditRepository, v *validator.Validator, log logger.Logger) *ScreeningHandler {
	return &ScreeningHandler{
		service:   service,
		auditRepo: auditRepo,
		validator: v,
		logger:    log,
	}
}

// ScreenParty handles POST /api/v1/screening/party.
func (h *ScreeningHandler) ScreenParty(w http.ResponseWriter, r *http.Request) {
	var party domain.ScreeningParty
	if err := json.NewDecoder(r.Body).Decode(&party); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if errs := h.validator.ValidateStructured(party); errs != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "validation failed",
			"fields": errs,
		})
		return
	}

	result := h.service.ScreenParty(r.Context(), party)
	h.respondJSON(w, http.StatusOK, result)
}

type screenShipmentRequest struct {
	ShipmentID string                    `json:"shipment_id" validate:"required,max=100"`
	Parties    screening.ShipmentParties `json:"parties"`
}

// ScreenShipment handles POST /api/v1/screening/shipment.
func (h *ScreeningHandler) ScreenShipment(w http.ResponseWriter, r *http.Request) {
	var req screenShipmentRequest
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

	result := h.service.ScreenShipment(r.Context(), req.ShipmentID, req.Parties)

	status := http.StatusOK
	if !result.OverallPassed {
		// The shipment is not cleared to proceed; the body carries the
		// full screening so the client can route it to manual review.
		status = http.StatusConflict
	}
	h.respondJSON(w, status, result)
}

// AuditTrail handles GET /api/v1/screening/audit?shipment_id=...
func (h *ScreeningHandler) AuditTrail(w http.ResponseWriter, r *http.Request) {
	shipmentID := r.URL.Query().Get("shipment_id")
	entries := h.service.AuditTrail(shipmentID)
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"total":   len(entries),
	})
}

// Stats handles GET /api/v1/screening/stats.
func (h *ScreeningHandler) Stats(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.service.Stats())
}

// ClearCache handles POST /api/v1/screening/cache/clear. Admin only.
func (h *ScreeningHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	ut, ok := middleware.UserTypeFromContext(r.Context())
	if !ok || ut != "admin" {
		h.respondError(w, http.StatusForbidden, "admin access required")
		return
	}

	if err := h.service.ClearCache(r.Context()); err != nil {
		h.logger.Error("Failed to clear screening cache", map[string]interface{}{"error": err.Error()})
		h.respondError(w, http.StatusInternalServerError, "Failed to clear screening cache")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"message": "screening cache cleared"})
}

// ExportAudit handles GET /api/v1/screening/audit/export. Admin only. Serves
// the durable trail when a database is configured, the in-memory trail
// otherwise; shipment_id narrows the export to one shipment.
func (h *ScreeningHandler) ExportAudit(w http.ResponseWriter, r *http.Request) {
	ut, ok := middleware.UserTypeFromContext(r.Context())
	if !ok || ut != "admin" {
		h.respondError(w, http.StatusForbidden, "admin access required")
		return
	}

	shipmentID := r.URL.Query().Get("shipment_id")
	limit := 500
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	if h.auditRepo == nil {
		entries := h.service.AuditTrail(shipmentID)
		h.respondJSON(w, http.StatusOK, map[string]interface{}{
			"entries": entries,
			"total":   len(entries),
			"durable": false,
		})
		return
	}

	if shipmentID != "" {
		entries, err := h.auditRepo.FindByShipmentID(r.Context(), shipmentID, limit, offset)
		if err != nil {
			h.logger.Error("Failed to export audit log", map[string]interface{}{"error": err.Error()})
			h.respondError(w, http.StatusInternalServerError, "Failed to export audit log")
			return
		}
		h.respondJSON(w, http.StatusOK, map[string]interface{}{
			"entries":     entries,
			"total":       len(entries),
			"shipment_id": shipmentID,
			"limit":       limit,
			"offset":      offset,
			"durable":     true,
		})
		return
	}

	entries, err := h.auditRepo.FindAll(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to export audit log", map[string]interface{}{"error": err.Error()})
		h.respondError(w, http.StatusInternalServerError, "Failed to export audit log")
		return
	}
	total, err := h.auditRepo.CountAll(r.Context())
	if err != nil {
		h.logger.Error("Failed to count audit log", map[string]interface{}{"error": err.Error()})
		h.respondError(w, http.StatusInternalServerError, "Failed to export audit log")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
		"durable": true,
	})
}

// Helpers

func (h *ScreeningHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("json encode failed", map[string]interface{}{"error": err.Error()})
	}
}

func (h *ScreeningHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
