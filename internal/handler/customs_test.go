package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"freightgate/internal/audit"
	"freightgate/internal/customs"
	"freightgate/internal/screening"
	"freightgate/pkg/logger"
	"freightgate/pkg/validator"

	"github.com/stretchr/testify/assert"
)

func newTestCustomsHandler(gw screening.Gateway) *CustomsHandler {
	log := logger.NewNop()
	auditLog := audit.NewLog(1000, nil, log)
	screeningService := screening.NewService(gw, screening.NewMemoryCache(), screening.DefaultPolicy(), auditLog, nil, log)
	customsService := customs.NewService(screeningService, customs.NewStaticClassifier(), log)
	return NewCustomsHandler(customsService, validator.New(), log)
}

func TestPreClearEndpoint(t *testing.T) {
	h := newTestCustomsHandler(&stubGateway{})

	body := bytes.NewBufferString(`{
		"shipment_id": "SHIP-400",
		"destination_country": "CA",
		"parties": {
			"shipper": {"name": "Nordsee Export GmbH"},
			"consignee": {"name": "Maple Leaf Imports"}
		},
		"commodities": [
			{"description": "industrial water pump", "declared_value": "1000", "quantity": 2}
		]
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/customs/preclear", body)
	rec := httptest.NewRecorder()

	h.PreClear(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var result map[string]interface{}
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, "CLEARED", result["status"])
	assert.Equal(t, "50", result["estimated_duty"])
}

func TestPreClearEndpointHold(t *testing.T) {
	gw := &stubGateway{hits: map[string][]screening.RawListHit{
		"Rosoboronexport": {
			{Name: "Rosoboronexport", Programs: []string{"OFAC SDN List"}, SourceLabel: "OFAC SDN List"},
		},
	}}
	h := newTestCustomsHandler(gw)

	body := bytes.NewBufferString(`{
		"shipment_id": "SHIP-401",
		"destination_country": "RU",
		"parties": {
			"shipper": {"name": "Nordsee Export GmbH"},
			"consignee": {"name": "Rosoboronexport"}
		},
		"commodities": []
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/customs/preclear", body)
	rec := httptest.NewRecorder()

	h.PreClear(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var result map[string]interface{}
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, "COMPLIANCE_HOLD", result["status"])
	assert.NotEmpty(t, result["hold_reason"])
}

func TestPreClearEndpointValidation(t *testing.T) {
	h := newTestCustomsHandler(&stubGateway{})

	body := bytes.NewBufferString(`{"destination_country": "CA"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/customs/preclear", body)
	rec := httptest.NewRecorder()

	h.PreClear(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
