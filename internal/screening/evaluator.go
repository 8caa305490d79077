package screening

import (
	"context"
	"fmt"
	"sync"
	"time"

	"freightgate/internal/audit"
	"freightgate/internal/domain"
	"freightgate/pkg/errors"
	"freightgate/pkg/logger"
)

// ShipmentParties names the counterparties on a shipment. Shipper and
// consignee are mandatory; the rest are screened when present.
type ShipmentParties struct {
	Shipper       *domain.ScreeningParty `json:"shipper" validate:"required"`
	Consignee     *domain.ScreeningParty `json:"consignee" validate:"required"`
	Carrier       *domain.ScreeningParty `json:"carrier,omitempty"`
	NotifyParty   *domain.ScreeningParty `json:"notify_party,omitempty"`
	CustomsBroker *domain.ScreeningParty `json:"customs_broker,omitempty"`
}

// Notifier alerts a human compliance officer. Fire-and-forget: the core
// records that notification was triggered, not that it was delivered.
type Notifier interface {
	NotifyComplianceOfficer(ctx context.Context, shipmentID string, overallRisk domain.RiskLevel, criticalIssues []string)
}

// Evaluator fans a shipment's parties out to the party screener concurrently
// and aggregates the results into one verdict.
type Evaluator struct {
	screener *PartyScreener
	auditLog *audit.Log
	notifier Notifier
	logger   logger.Logger
}

// NewEvaluator wires an evaluator. notifier may be nil when no compliance
// officer channel is configured.
func NewEvaluator(screener *PartyScreener, auditLog *audit.Log, notifier Notifier, log logger.Logger) *Evaluator {
	return &Evaluator{
		screener: screener,
		auditLog: auditLog,
		notifier: notifier,
		logger:   log,
	}
}

// Evaluate screens every present party in parallel and blocks until all
// complete. One party failing (including by context timeout) does not stop
// the others; its fail-closed result flows into the aggregate. A missing
// mandatory party forces the shipment to CRITICAL and not passed.
func (e *Evaluator) Evaluate(ctx context.Context, shipmentID string, parties ShipmentParties) domain.ShipmentScreening {
	type roleParty struct {
		role      domain.PartyRole
		party     *domain.ScreeningParty
		mandatory bool
	}

	slots := []roleParty{
		{domain.RoleShipper, parties.Shipper, true},
		{domain.RoleConsignee, parties.Consignee, true},
		{domain.RoleCarrier, parties.Carrier, false},
		{domain.RoleNotifyParty, parties.NotifyParty, false},
		{domain.RoleCustomsBroker, parties.CustomsBroker, false},
	}

	results := make(map[domain.PartyRole]domain.ScreeningResult, len(slots))
	var mu sync.Mutex
	var wg sync.WaitGroup

	// Missing mandatory slots are settled before any screening goroutine
	// starts, so the map only ever has one writer at a time.
	for _, slot := range slots {
		if slot.party == nil && slot.mandatory {
			results[slot.role] = e.missingPartyResult(ctx, shipmentID, slot.role)
		}
	}

	for _, slot := range slots {
		if slot.party == nil {
			continue
		}

		party := *slot.party
		party.Role = slot.role

		wg.Add(1)
		go func(role domain.PartyRole, p domain.ScreeningParty) {
			defer wg.Done()
			result := e.screener.Screen(ctx, shipmentID, p)
			mu.Lock()
			results[role] = result
			mu.Unlock()
		}(slot.role, party)
	}
	wg.Wait()

	overallRisk := domain.RiskClear
	anyBlocked := false
	for _, r := range results {
		overallRisk = domain.MaxRisk(overallRisk, r.RiskLevel)
		if r.Blocked {
			anyBlocked = true
		}
	}

	screening := domain.ShipmentScreening{
		ShipmentID:      shipmentID,
		ScreenedAt:      time.Now().UTC(),
		Parties:         results,
		OverallRisk:     overallRisk,
		OverallPassed:   overallRisk == domain.RiskClear && !anyBlocked,
		CriticalIssues:  criticalIssues(results),
		Warnings:        warnings(results),
		Recommendations: shipmentRecommendations(results),
	}

	if overallRisk == domain.RiskHigh || overallRisk == domain.RiskCritical {
		screening.ComplianceOfficerNotified = true
		if e.notifier != nil {
			e.notifier.NotifyComplianceOfficer(ctx, shipmentID, overallRisk, screening.CriticalIssues)
		}
		e.auditLog.Append(ctx, domain.AuditEntry{
			Action:     domain.AuditOfficerNotified,
			ShipmentID: shipmentID,
			Details: fmt.Sprintf("Compliance officer notified of %d critical issues for shipment %s",
				len(screening.CriticalIssues), shipmentID),
			Result: "NOTIFIED",
		})
	}

	e.auditLog.Append(ctx, domain.AuditEntry{
		Action:     domain.AuditScreeningCompleted,
		ShipmentID: shipmentID,
		Details: fmt.Sprintf("Shipment screening completed - overall risk %s (%d parties)",
			screening.OverallRisk, len(results)),
		Result: shipmentOutcome(screening.OverallPassed),
	})

	screening.AuditTrail = e.auditLog.Query(shipmentID)

	e.logger.Info("Shipment screening completed", map[string]interface{}{
		"shipment_id":    shipmentID,
		"overall_risk":   screening.OverallRisk,
		"overall_passed": screening.OverallPassed,
		"parties":        len(results),
		"notified":       screening.ComplianceOfficerNotified,
	})

	return screening
}

// missingPartyResult fails closed for a mandatory party that was not
// supplied at all.
func (e *Evaluator) missingPartyResult(ctx context.Context, shipmentID string, role domain.PartyRole) domain.ScreeningResult {
	cause := errors.ErrShipperRequired
	if role == domain.RoleConsignee {
		cause = errors.ErrConsigneeRequired
	}

	e.auditLog.Append(ctx, domain.AuditEntry{
		Action:     domain.AuditScreeningFailed,
		ShipmentID: shipmentID,
		Details:    fmt.Sprintf("Mandatory %s party missing from shipment %s", role, shipmentID),
		Result:     "FAIL_CLOSED",
	})

	return domain.ScreeningResult{
		Party:                domain.ScreeningParty{Role: role},
		Matches:              []domain.ScreeningMatch{},
		RiskLevel:            domain.RiskCritical,
		Blocked:              true,
		Recommendation:       "SYSTEM ERROR: screening unavailable - manual compliance review REQUIRED",
		LegalAction:          "DO NOT PROCEED without manual compliance verification",
		CheckedAt:            time.Now().UTC(),
		RequiresManualReview: true,
		Error:                cause.Error(),
	}
}

func criticalIssues(results map[domain.PartyRole]domain.ScreeningResult) []string {
	issues := []string{}
	for role, r := range results {
		if r.RiskLevel != domain.RiskCritical {
			continue
		}
		if len(r.Matches) > 0 {
			top := r.Matches[0]
			issues = append(issues, fmt.Sprintf("%s %q matches %s entry %q",
				role, r.Party.Name, top.ListName, top.MatchedName))
			continue
		}
		issues = append(issues, fmt.Sprintf("%s %q could not be screened: %s",
			role, r.Party.Name, r.Error))
	}
	return issues
}

func warnings(results map[domain.PartyRole]domain.ScreeningResult) []string {
	warns := []string{}
	for role, r := range results {
		if r.RiskLevel == domain.RiskHigh {
			warns = append(warns, fmt.Sprintf("%s: %d high-risk matches found", role, r.MatchCount))
		}
		if r.MatchCount > 2 {
			warns = append(warns, fmt.Sprintf("%s: multiple (%d) matches found", role, r.MatchCount))
		}
	}
	return warns
}

func shipmentRecommendations(results map[domain.PartyRole]domain.ScreeningResult) []string {
	hasHigh := false
	hasMedium := false
	allClear := true
	for _, r := range results {
		switch r.RiskLevel {
		case domain.RiskHigh, domain.RiskCritical:
			hasHigh = true
		case domain.RiskMedium:
			hasMedium = true
		}
		if r.RiskLevel != domain.RiskClear {
			allClear = false
		}
	}

	recs := []string{}
	if hasHigh {
		recs = append(recs,
			"Obtain senior management approval before proceeding",
			"Prepare detailed compliance documentation",
			"Consider alternative shipping routes if available",
		)
	}
	if hasMedium {
		recs = append(recs,
			"Document all screening results for audit trail",
			"Consider enhanced cargo insurance",
		)
	}
	if allClear && len(results) > 0 {
		recs = append(recs,
			"Proceed with standard procedures",
			"Maintain screening records for 7 years",
		)
	}
	return recs
}

// shipmentOutcome labels the aggregate-level audit entry. The SHIPMENT_
// prefix separates it from per-party outcomes so reporting does not count
// one shipment as an extra screening.
func shipmentOutcome(passed bool) string {
	if passed {
		return "SHIPMENT_PASSED"
	}
	return "SHIPMENT_REVIEW_REQUIRED"
}
