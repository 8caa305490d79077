package screening

import (
	"strings"
	"time"

	"freightgate/internal/domain"
	"freightgate/pkg/config"
)

// Policy holds the regulation-driven decision tables: category to required
// action, category to legal basis, and the hard-block program set. These are
// data, not code — sanctions programs change by regulation, so operators
// override them through configuration rather than a redeploy.
type Policy struct {
	Actions          map[domain.ListCategory]domain.RequiredAction
	LegalBasis       map[domain.ListCategory]string
	BlockingPrograms []string
	CacheTTL         time.Duration
}

// DefaultPolicy returns the baseline tables for current U.S. export-control
// lists.
func DefaultPolicy() Policy {
	return Policy{
		Actions: map[domain.ListCategory]domain.RequiredAction{
			domain.ListOFACSDN:       domain.ActionDoNotShip,
			domain.ListTreasurySDN:   domain.ActionDoNotShip,
			domain.ListBISEntity:     domain.ActionRestrictedItems,
			domain.ListStateDebarred: domain.ActionManualReview,
			domain.ListOther:         domain.ActionProceedWithCaution,
		},
		LegalBasis: map[domain.ListCategory]string{
			domain.ListOFACSDN:       "Trading With the Enemy Act, International Emergency Economic Powers Act (IEEPA)",
			domain.ListBISEntity:     "Export Administration Regulations (EAR) Part 744",
			domain.ListStateDebarred: "International Traffic in Arms Regulations (ITAR) Part 120",
			domain.ListTreasurySDN:   "Office of Foreign Assets Control (OFAC) Sanctions Programs",
			domain.ListOther:         "Various U.S. Export Control Regulations",
		},
		BlockingPrograms: []string{
			"OFAC SDN List",
			"Unverified List",
			"ITAR Debarred",
			"Denied Persons List",
			"Entity List",
		},
		CacheTTL: 24 * time.Hour,
	}
}

// PolicyFromConfig applies configured overrides on top of the defaults.
func PolicyFromConfig(cfg config.ScreeningConfig) Policy {
	p := DefaultPolicy()

	if cfg.CacheTTL > 0 {
		p.CacheTTL = cfg.CacheTTL
	}
	if len(cfg.BlockingPrograms) > 0 {
		p.BlockingPrograms = cfg.BlockingPrograms
	}
	for cat, action := range cfg.ActionOverrides {
		p.Actions[domain.ListCategory(cat)] = domain.RequiredAction(action)
	}

	return p
}

// ActionFor returns the required action for a list category. The programs
// argument is part of the contract so program-specific carve-outs can be
// added to the table without changing call sites.
func (p Policy) ActionFor(category domain.ListCategory, programs []string) domain.RequiredAction {
	if action, ok := p.Actions[category]; ok {
		return action
	}
	return domain.ActionProceedWithCaution
}

// LegalBasisFor returns the statutory basis text for a list category.
func (p Policy) LegalBasisFor(category domain.ListCategory) string {
	if basis, ok := p.LegalBasis[category]; ok {
		return basis
	}
	return p.LegalBasis[domain.ListOther]
}

// IsBlocking reports whether any of a match's programs belongs to the
// hard-block set. Program labels vary across list revisions, so membership
// is a substring check, matching how the lists name programs in practice.
func (p Policy) IsBlocking(programs []string) bool {
	for _, program := range programs {
		for _, blocking := range p.BlockingPrograms {
			if strings.Contains(program, blocking) {
				return true
			}
		}
	}
	return false
}
