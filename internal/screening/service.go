// Package screening implements denied-party compliance screening: fuzzy name
// matching against U.S. government restricted-entity lists, risk grading, a
// hard ship/no-ship gate, caching, and an audit trail.
package screening

import (
	"context"
	"strings"

	"freightgate/internal/audit"
	"freightgate/internal/domain"
	"freightgate/pkg/logger"
)

// Service is the only surface calling code (onboarding, quoting, shipment
// creation) may use.
type Service struct {
	screener  *PartyScreener
	evaluator *Evaluator
	cache     Cache
	auditLog  *audit.Log
	logger    logger.Logger
}

// NewService assembles the screening service from its collaborators.
func NewService(gw Gateway, c Cache, policy Policy, auditLog *audit.Log, notifier Notifier, log logger.Logger) *Service {
	screener := NewPartyScreener(gw, c, policy, auditLog, log)
	return &Service{
		screener:  screener,
		evaluator: NewEvaluator(screener, auditLog, notifier, log),
		cache:     c,
		auditLog:  auditLog,
		logger:    log,
	}
}

// ScreenParty screens one party outside any shipment context.
func (s *Service) ScreenParty(ctx context.Context, party domain.ScreeningParty) domain.ScreeningResult {
	return s.screener.Screen(ctx, "", party)
}

// ScreenShipment screens all of a shipment's parties and aggregates the
// verdict.
func (s *Service) ScreenShipment(ctx context.Context, shipmentID string, parties ShipmentParties) domain.ShipmentScreening {
	return s.evaluator.Evaluate(ctx, shipmentID, parties)
}

// ScreenShipper screens a shipper during CRM onboarding.
func (s *Service) ScreenShipper(ctx context.Context, party domain.ScreeningParty) domain.ScreeningResult {
	party.Role = domain.RoleShipper
	return s.ScreenParty(ctx, party)
}

// ScreenConsignee screens a consignee during CRM onboarding.
func (s *Service) ScreenConsignee(ctx context.Context, party domain.ScreeningParty) domain.ScreeningResult {
	party.Role = domain.RoleConsignee
	return s.ScreenParty(ctx, party)
}

// ScreenCarrier screens a carrier before booking.
func (s *Service) ScreenCarrier(ctx context.Context, party domain.ScreeningParty) domain.ScreeningResult {
	party.Role = domain.RoleCarrier
	return s.ScreenParty(ctx, party)
}

// AuditTrail returns retained audit entries, optionally for one shipment.
func (s *Service) AuditTrail(shipmentID string) []domain.AuditEntry {
	return s.auditLog.Query(shipmentID)
}

// Stats summarizes screening activity from the retained audit trail.
// Screening counts are per party; shipment-level evaluations are tallied
// separately.
type Stats struct {
	TotalScreenings   int `json:"total_screenings"`
	PassedScreenings  int `json:"passed_screenings"`
	FailedScreenings  int `json:"failed_screenings"`
	ShipmentsScreened int `json:"shipments_screened"`
	CacheHits         int `json:"cache_hits"`
	OfficerAlerts     int `json:"officer_alerts"`
}

// Stats computes screening statistics for reporting dashboards.
func (s *Service) Stats() Stats {
	stats := Stats{}
	for _, e := range s.auditLog.Query("") {
		switch e.Action {
		case domain.AuditScreeningCompleted:
			if strings.HasPrefix(e.Result, "SHIPMENT_") {
				stats.ShipmentsScreened++
				continue
			}
			stats.TotalScreenings++
			if e.Result == "PASSED" {
				stats.PassedScreenings++
			}
		case domain.AuditScreeningFailed:
			stats.TotalScreenings++
			stats.FailedScreenings++
		case domain.AuditCacheHit:
			stats.CacheHits++
		case domain.AuditOfficerNotified:
			stats.OfficerAlerts++
		}
	}
	return stats
}

// ClearCache drops every cached screening result. Administrative use only.
func (s *Service) ClearCache(ctx context.Context) error {
	s.logger.Warn("Screening cache cleared", nil)
	return s.cache.Clear(ctx)
}
