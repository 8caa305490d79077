package customs

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

// StaticClassifier resolves commodities against a built-in keyword table.
// It covers the freight categories the platform most commonly moves; anything
// unrecognized falls to the general rate so duty is estimated high rather
// than missed.
type StaticClassifier struct {
	entries []staticEntry
}

type staticEntry struct {
	keywords []string
	hsCode   string
	rate     decimal.Decimal
	label    string
}

// NewStaticClassifier builds the default keyword table.
func NewStaticClassifier() *StaticClassifier {
	return &StaticClassifier{entries: []staticEntry{
		{[]string{"electronic", "circuit", "semiconductor", "computer"}, "8542.31", decimal.NewFromFloat(0), "Electronic integrated circuits"},
		{[]string{"textile", "apparel", "clothing", "garment"}, "6203.42", decimal.NewFromFloat(16.6), "Apparel and textiles"},
		{[]string{"steel", "iron", "metal"}, "7210.49", decimal.NewFromFloat(25), "Flat-rolled iron or steel"},
		{[]string{"furniture", "chair", "table"}, "9403.60", decimal.NewFromFloat(0), "Wooden furniture"},
		{[]string{"machinery", "pump", "engine", "motor"}, "8413.70", decimal.NewFromFloat(2.5), "Industrial machinery"},
		{[]string{"plastic", "polymer"}, "3926.90", decimal.NewFromFloat(5.3), "Articles of plastics"},
		{[]string{"food", "produce", "grain", "fruit"}, "2008.99", decimal.NewFromFloat(6), "Prepared foodstuffs"},
		{[]string{"chemical", "solvent", "reagent"}, "3824.99", decimal.NewFromFloat(5), "Chemical preparations"},
	}}
}

// Classify matches the description against the keyword table. Destination
// country is accepted for interface compatibility; the static table carries
// general rates only.
func (c *StaticClassifier) Classify(ctx context.Context, productDescription, destinationCountry string) (*TariffClassification, error) {
	desc := strings.ToLower(productDescription)
	for _, e := range c.entries {
		for _, kw := range e.keywords {
			if strings.Contains(desc, kw) {
				return &TariffClassification{
					HSCode:      e.hsCode,
					Description: e.label,
					DutyRate:    e.rate,
				}, nil
			}
		}
	}

	// General rate for unclassified goods.
	return &TariffClassification{
		HSCode:      "9999.00",
		Description: "Unclassified goods (general rate)",
		DutyRate:    decimal.NewFromFloat(10),
	}, nil
}
