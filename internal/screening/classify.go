package screening

import (
	"strings"

	"freightgate/internal/domain"
)

// ClassifyList maps a raw list source label onto a list category using
// case-insensitive substring rules. Labels the consolidated screening list
// actually emits include "Specially Designated Nationals (SDN) - Treasury
// Department" and "Entity List (EL) - Bureau of Industry and Security".
func ClassifyList(sourceLabel string) domain.ListCategory {
	s := strings.ToLower(sourceLabel)

	switch {
	case (strings.Contains(s, "ofac") || strings.Contains(s, "sdn")) && !strings.Contains(s, "treasury"):
		return domain.ListOFACSDN
	case strings.Contains(s, "entity list") || strings.Contains(s, "bis"):
		return domain.ListBISEntity
	case strings.Contains(s, "state") || strings.Contains(s, "debarred"):
		return domain.ListStateDebarred
	case strings.Contains(s, "treasury"):
		return domain.ListTreasurySDN
	default:
		return domain.ListOther
	}
}
