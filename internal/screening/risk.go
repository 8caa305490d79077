package screening

import (
	"freightgate/internal/domain"
)

// RiskFromMatches grades a set of classified matches.
//
//	CRITICAL  sanctions-list match (OFAC/Treasury SDN) at >= 85 confidence
//	HIGH      sanctions-list match at any confidence, a high-confidence
//	          BIS Entity List match, or more than 3 total matches
//	MEDIUM    low-confidence BIS Entity List match or more than 1 match
//	LOW       exactly one match outside the above
//	CLEAR     no matches
func RiskFromMatches(matches []domain.ScreeningMatch) domain.RiskLevel {
	if len(matches) == 0 {
		return domain.RiskClear
	}

	var hasSDN, hasSDNHighConf, hasBISHighConf, hasBISLowConf bool
	for _, m := range matches {
		switch m.ListCategory {
		case domain.ListOFACSDN, domain.ListTreasurySDN:
			hasSDN = true
			if m.MatchConfidence >= 85 {
				hasSDNHighConf = true
			}
		case domain.ListBISEntity:
			if m.MatchConfidence >= 85 {
				hasBISHighConf = true
			} else {
				hasBISLowConf = true
			}
		}
	}

	switch {
	case hasSDNHighConf:
		return domain.RiskCritical
	case hasSDN || hasBISHighConf || len(matches) > 3:
		return domain.RiskHigh
	case hasBISLowConf || len(matches) > 1:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// The recommendation, legal-action, and review-time texts are fixed
// templates keyed off the graded risk level.

func recommendationFor(level domain.RiskLevel) string {
	switch level {
	case domain.RiskCritical:
		return "CRITICAL: DO NOT SHIP - denied party detected on sanctions list"
	case domain.RiskHigh:
		return "HIGH RISK: requires compliance officer review before proceeding"
	case domain.RiskMedium:
		return "MEDIUM RISK: possible match detected - manual verification recommended"
	case domain.RiskLow:
		return "LOW RISK: possible false positive - brief review suggested"
	default:
		return "CLEAR: no matches found - approved for shipment"
	}
}

func legalActionFor(level domain.RiskLevel, matches []domain.ScreeningMatch) string {
	switch level {
	case domain.RiskCritical:
		for _, m := range matches {
			if m.ListCategory == domain.ListOFACSDN {
				return "BLOCK SHIPMENT IMMEDIATELY - OFAC violation penalty: up to $20 million. Contact legal counsel."
			}
		}
		return "BLOCK SHIPMENT - compliance review required before any action"
	case domain.RiskHigh:
		return "HOLD SHIPMENT - obtain compliance officer approval before proceeding"
	case domain.RiskMedium:
		return "CAUTION - verify party details and document review process"
	default:
		return "Proceed with standard compliance procedures"
	}
}

func reviewTimeFor(level domain.RiskLevel) string {
	switch level {
	case domain.RiskCritical, domain.RiskHigh:
		return "4-8 hours"
	case domain.RiskMedium:
		return "1-2 hours"
	case domain.RiskLow:
		return "30-60 minutes"
	default:
		return ""
	}
}
