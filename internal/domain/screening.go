// Package domain defines the core compliance screening types.
package domain

import "time"

// PartyRole identifies the role a party plays on a shipment.
type PartyRole string

const (
	RoleShipper       PartyRole = "shipper"
	RoleConsignee     PartyRole = "consignee"
	RoleCarrier       PartyRole = "carrier"
	RoleNotifyParty   PartyRole = "notify_party"
	RoleCustomsBroker PartyRole = "customs_broker"
	RoleVendor        PartyRole = "vendor"
	RoleOther         PartyRole = "other"
)

// ListCategory identifies which U.S. government restricted-party list a match
// came from.
type ListCategory string

const (
	ListOFACSDN       ListCategory = "OFAC_SDN"
	ListBISEntity     ListCategory = "BIS_ENTITY"
	ListStateDebarred ListCategory = "STATE_DEBARRED"
	ListTreasurySDN   ListCategory = "TREASURY_SDN"
	ListOther         ListCategory = "OTHER"
)

// RequiredAction is the default handling mandated by a list category.
type RequiredAction string

const (
	ActionDoNotShip          RequiredAction = "DO_NOT_SHIP"
	ActionRestrictedItems    RequiredAction = "RESTRICTED_ITEMS"
	ActionManualReview       RequiredAction = "MANUAL_REVIEW"
	ActionProceedWithCaution RequiredAction = "PROCEED_WITH_CAUTION"
)

// RiskLevel grades a screening outcome. Levels are totally ordered by
// severity; use Severity for comparisons.
type RiskLevel string

const (
	RiskClear    RiskLevel = "CLEAR"
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// Severity returns the numeric rank of a risk level, CLEAR lowest.
func (r RiskLevel) Severity() int {
	switch r {
	case RiskLow:
		return 1
	case RiskMedium:
		return 2
	case RiskHigh:
		return 3
	case RiskCritical:
		return 4
	default:
		return 0
	}
}

// MaxRisk returns the more severe of two risk levels.
func MaxRisk(a, b RiskLevel) RiskLevel {
	if b.Severity() > a.Severity() {
		return b
	}
	return a
}

// ScreeningParty is one entity to be checked against the restricted-party
// lists. Immutable input value.
type ScreeningParty struct {
	Name    string    `json:"name" validate:"required,max=500"`
	Address string    `json:"address,omitempty"`
	City    string    `json:"city,omitempty"`
	Country string    `json:"country,omitempty"`
	Role    PartyRole `json:"role" validate:"omitempty,oneof=shipper consignee carrier notify_party customs_broker vendor other"`
}

// ScreeningMatch is one candidate hit returned by the consolidated screening
// list for a party. Created fresh on every screening call.
type ScreeningMatch struct {
	MatchedName     string         `json:"matched_name"`
	MatchConfidence int            `json:"match_confidence"` // 0-100
	ListCategory    ListCategory   `json:"list_category"`
	ListName        string         `json:"list_name"`
	Programs        []string       `json:"programs"`
	Addresses       []string       `json:"addresses,omitempty"`
	Countries       []string       `json:"countries,omitempty"`
	Remarks         string         `json:"remarks,omitempty"`
	ListingDate     string         `json:"listing_date,omitempty"`
	LegalBasis      string         `json:"legal_basis"`
	RequiredAction  RequiredAction `json:"required_action"`
}

// ScreeningResult is the outcome of screening a single party.
//
// Blocked is independent of RiskLevel: a single blocking-program match forces
// Blocked regardless of confidence, while low-confidence noise can raise
// RiskLevel without halting the shipment.
type ScreeningResult struct {
	Party                ScreeningParty   `json:"party"`
	Matches              []ScreeningMatch `json:"matches"` // ordered by descending confidence
	MatchCount           int              `json:"match_count"`
	RiskLevel            RiskLevel        `json:"risk_level"`
	Blocked              bool             `json:"blocked"`
	Recommendation       string           `json:"recommendation"`
	LegalAction          string           `json:"legal_action"`
	CheckedAt            time.Time        `json:"checked_at"`
	RequiresManualReview bool             `json:"requires_manual_review"`
	EstimatedReviewTime  string           `json:"estimated_review_time,omitempty"`
	Error                string           `json:"error,omitempty"`
}

// ShipmentScreening aggregates the per-party results for one shipment.
// Instances are never mutated after creation; re-screening produces a new one.
type ShipmentScreening struct {
	ShipmentID                string                        `json:"shipment_id"`
	ScreenedAt                time.Time                     `json:"screened_at"`
	Parties                   map[PartyRole]ScreeningResult `json:"parties"`
	OverallRisk               RiskLevel                     `json:"overall_risk"`
	OverallPassed             bool                          `json:"overall_passed"`
	CriticalIssues            []string                      `json:"critical_issues"`
	Warnings                  []string                      `json:"warnings"`
	Recommendations           []string                      `json:"recommendations"`
	ComplianceOfficerNotified bool                          `json:"compliance_officer_notified"`
	AuditTrail                []AuditEntry                  `json:"audit_trail"`
}
