// Package customs pairs restricted-party screening with tariff
// classification for international shipments.
package customs

import (
	"context"
	"time"

	"freightgate/internal/domain"
	"freightgate/internal/screening"
	"freightgate/pkg/errors"
	"freightgate/pkg/logger"

	"github.com/shopspring/decimal"
)

// TariffClassification is the duty treatment for one commodity line.
type TariffClassification struct {
	HSCode      string          `json:"hs_code"`
	Description string          `json:"description"`
	DutyRate    decimal.Decimal `json:"duty_rate"` // percentage, e.g. 6.5
}

// TariffClassifier resolves a commodity description to an HS code and duty
// rate for a destination country.
type TariffClassifier interface {
	Classify(ctx context.Context, productDescription, destinationCountry string) (*TariffClassification, error)
}

// ClearanceStatus is the customs disposition of a shipment.
type ClearanceStatus string

const (
	StatusCleared        ClearanceStatus = "CLEARED"
	StatusComplianceHold ClearanceStatus = "COMPLIANCE_HOLD"
)

// CommodityLine is one declared commodity on a shipment.
type CommodityLine struct {
	Description   string          `json:"description" validate:"required"`
	DeclaredValue decimal.Decimal `json:"declared_value"`
	Quantity      int             `json:"quantity" validate:"min=1"`
}

// ClearanceResult is the outcome of a customs pre-clearance check.
type ClearanceResult struct {
	ShipmentID      string                   `json:"shipment_id"`
	Status          ClearanceStatus          `json:"status"`
	Screening       domain.ShipmentScreening `json:"screening"`
	Classifications []TariffClassification   `json:"classifications,omitempty"`
	EstimatedDuty   decimal.Decimal          `json:"estimated_duty"`
	HoldReason      string                   `json:"hold_reason,omitempty"`
	ProcessedAt     time.Time                `json:"processed_at"`
}

// Service runs the customs pre-clearance workflow: screen every party on the
// shipment, then classify commodities and estimate duty. A shipment that does
// not pass screening is held and never reaches classification.
type Service struct {
	screener   *screening.Service
	classifier TariffClassifier
	logger     logger.Logger
}

// NewService creates a customs service. classifier may be nil when tariff
// lookup is not configured; clearance then skips duty estimation.
func NewService(screener *screening.Service, classifier TariffClassifier, log logger.Logger) *Service {
	return &Service{
		screener:   screener,
		classifier: classifier,
		logger:     log,
	}
}

// PreClear screens the shipment and, when it passes, estimates duty for the
// declared commodities.
func (s *Service) PreClear(ctx context.Context, shipmentID, destinationCountry string, parties screening.ShipmentParties, commodities []CommodityLine) (*ClearanceResult, error) {
	scr := s.screener.ScreenShipment(ctx, shipmentID, parties)

	result := &ClearanceResult{
		ShipmentID:    shipmentID,
		Screening:     scr,
		EstimatedDuty: decimal.Zero,
		ProcessedAt:   time.Now().UTC(),
	}

	if !scr.OverallPassed {
		result.Status = StatusComplianceHold
		result.HoldReason = holdReason(scr)
		s.logger.Warn("Shipment held for compliance", map[string]interface{}{
			"shipment_id":  shipmentID,
			"overall_risk": scr.OverallRisk,
			"hold_reason":  result.HoldReason,
		})
		return result, nil
	}

	result.Status = StatusCleared

	if s.classifier == nil {
		return result, nil
	}

	for _, line := range commodities {
		classification, err := s.classifier.Classify(ctx, line.Description, destinationCountry)
		if err != nil {
			return nil, errors.Wrap(errors.ErrTariffLookupFailed, err.Error())
		}
		result.Classifications = append(result.Classifications, *classification)

		// duty = declared value * rate / 100, per line
		lineDuty := line.DeclaredValue.
			Mul(decimal.NewFromInt(int64(line.Quantity))).
			Mul(classification.DutyRate).
			Div(decimal.NewFromInt(100))
		result.EstimatedDuty = result.EstimatedDuty.Add(lineDuty)
	}
	result.EstimatedDuty = result.EstimatedDuty.Round(2)

	s.logger.Info("Shipment pre-cleared", map[string]interface{}{
		"shipment_id":    shipmentID,
		"commodities":    len(commodities),
		"estimated_duty": result.EstimatedDuty.String(),
	})

	return result, nil
}

func holdReason(scr domain.ShipmentScreening) string {
	if len(scr.CriticalIssues) > 0 {
		return scr.CriticalIssues[0]
	}
	if len(scr.Warnings) > 0 {
		return scr.Warnings[0]
	}
	return "screening did not pass"
}
