package screening

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"freightgate/internal/audit"
	"freightgate/internal/domain"
	"freightgate/pkg/errors"
	"freightgate/pkg/logger"
)

// PartyScreener checks one party against the restricted-party lists:
// cache lookup, gateway query, match scoring, classification, risk grading,
// and the blocking gate.
type PartyScreener struct {
	gateway  Gateway
	cache    Cache
	policy   Policy
	auditLog *audit.Log
	logger   logger.Logger
}

// NewPartyScreener wires a screener. The audit log instance is owned by the
// caller and shared with the evaluator.
func NewPartyScreener(gw Gateway, c Cache, policy Policy, auditLog *audit.Log, log logger.Logger) *PartyScreener {
	return &PartyScreener{
		gateway:  gw,
		cache:    c,
		policy:   policy,
		auditLog: auditLog,
		logger:   log,
	}
}

// Screen screens a single party. shipmentID ties the audit entries to a
// shipment evaluation and is empty for standalone screenings.
//
// Screen never returns an error: every failure path resolves to a well-formed
// fail-closed result (CRITICAL, blocked, manual review, Error populated). An
// unreachable or misconfigured list must never auto-approve a party.
func (s *PartyScreener) Screen(ctx context.Context, shipmentID string, party domain.ScreeningParty) domain.ScreeningResult {
	if strings.TrimSpace(party.Name) == "" {
		return s.failClosed(ctx, shipmentID, party, errors.ErrPartyNameRequired)
	}

	key := CacheKey(party)
	if cached, ok := s.cache.Get(ctx, key); ok {
		s.auditLog.Append(ctx, domain.AuditEntry{
			Action:     domain.AuditCacheHit,
			ShipmentID: shipmentID,
			Details:    fmt.Sprintf("Cache hit for %s %q", party.Role, party.Name),
			Result:     string(cached.RiskLevel),
		})
		// The cache key is role-free, so the stored result may have been
		// produced under a different role. The verdict carries over; the
		// role reflects this request.
		result := *cached
		result.Party.Role = party.Role
		return result
	}

	hits, err := s.gateway.Query(ctx, party.Name, party.Country, party.Address)
	if err != nil {
		return s.failClosed(ctx, shipmentID, party, err)
	}

	matches := s.buildMatches(party, hits)
	riskLevel := RiskFromMatches(matches)

	blocked := false
	for _, m := range matches {
		if s.policy.IsBlocking(m.Programs) {
			blocked = true
			break
		}
	}

	result := domain.ScreeningResult{
		Party:                party,
		Matches:              matches,
		MatchCount:           len(matches),
		RiskLevel:            riskLevel,
		Blocked:              blocked,
		Recommendation:       recommendationFor(riskLevel),
		LegalAction:          legalActionFor(riskLevel, matches),
		CheckedAt:            time.Now().UTC(),
		RequiresManualReview: riskLevel == domain.RiskHigh || riskLevel == domain.RiskCritical || len(matches) > 0,
	}
	if result.RequiresManualReview {
		result.EstimatedReviewTime = reviewTimeFor(riskLevel)
	}

	s.cache.Put(ctx, key, &result, s.policy.CacheTTL)

	s.auditLog.Append(ctx, domain.AuditEntry{
		Action:     domain.AuditScreeningCompleted,
		ShipmentID: shipmentID,
		Details: fmt.Sprintf("Screened %s %q - %s risk (%d matches)",
			party.Role, party.Name, result.RiskLevel, result.MatchCount),
		Result: screeningOutcome(result),
	})

	s.logger.Info("Party screening completed", map[string]interface{}{
		"party":       party.Name,
		"role":        party.Role,
		"risk_level":  result.RiskLevel,
		"blocked":     result.Blocked,
		"match_count": result.MatchCount,
	})

	return result
}

// buildMatches scores and classifies raw hits. A malformed hit (no name) is
// skipped and logged rather than aborting the screening: a safe true match
// must not be masked by one corrupted sibling record.
func (s *PartyScreener) buildMatches(party domain.ScreeningParty, hits []RawListHit) []domain.ScreeningMatch {
	matches := make([]domain.ScreeningMatch, 0, len(hits))
	for _, hit := range hits {
		if strings.TrimSpace(hit.Name) == "" {
			s.logger.Warn("Skipping malformed screening list record", map[string]interface{}{
				"party":  party.Name,
				"source": hit.SourceLabel,
			})
			continue
		}

		category := ClassifyList(hit.SourceLabel)
		matches = append(matches, domain.ScreeningMatch{
			MatchedName:     hit.Name,
			MatchConfidence: MatchConfidence(party.Name, hit.Name),
			ListCategory:    category,
			ListName:        hit.SourceLabel,
			Programs:        hit.Programs,
			Addresses:       hit.Addresses,
			Countries:       hit.Countries,
			Remarks:         hit.Remarks,
			ListingDate:     hit.StartDate,
			LegalBasis:      s.policy.LegalBasisFor(category),
			RequiredAction:  s.policy.ActionFor(category, hit.Programs),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchConfidence > matches[j].MatchConfidence
	})
	return matches
}

// failClosed builds the fail-closed verdict for an unverifiable party.
// Failures are never cached: the next attempt should retry the list.
func (s *PartyScreener) failClosed(ctx context.Context, shipmentID string, party domain.ScreeningParty, cause error) domain.ScreeningResult {
	result := domain.ScreeningResult{
		Party:                party,
		Matches:              []domain.ScreeningMatch{},
		MatchCount:           0,
		RiskLevel:            domain.RiskCritical,
		Blocked:              true,
		Recommendation:       "SYSTEM ERROR: screening unavailable - manual compliance review REQUIRED",
		LegalAction:          "DO NOT PROCEED without manual compliance verification",
		CheckedAt:            time.Now().UTC(),
		RequiresManualReview: true,
		EstimatedReviewTime:  "2-4 hours",
		Error:                cause.Error(),
	}

	// Configuration errors get their own wording so operators can tell a
	// missing credential from a flaky list.
	details := fmt.Sprintf("Screening failed for %s %q: %s",
		party.Role, party.Name, cause.Error())
	if errors.Is(cause, errors.ErrMissingAPIKey) {
		details = fmt.Sprintf("Screening misconfigured for %s %q: %s",
			party.Role, party.Name, cause.Error())
	}

	s.auditLog.Append(ctx, domain.AuditEntry{
		Action:     domain.AuditScreeningFailed,
		ShipmentID: shipmentID,
		Details:    details,
		Result:     "FAIL_CLOSED",
	})

	s.logger.Error("Party screening failed closed", map[string]interface{}{
		"party": party.Name,
		"role":  party.Role,
		"error": cause.Error(),
	})

	return result
}

func screeningOutcome(result domain.ScreeningResult) string {
	if result.RiskLevel == domain.RiskClear && !result.Blocked {
		return "PASSED"
	}
	return "REVIEW_REQUIRED"
}
