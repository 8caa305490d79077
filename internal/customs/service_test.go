package customs

import (
	"context"
	"testing"

	"freightgate/internal/audit"
	"freightgate/internal/domain"
	"freightgate/internal/screening"
	"freightgate/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type stubGateway struct {
	hits map[string][]screening.RawListHit
}

func (g *stubGateway) Query(ctx context.Context, name, country, address string) ([]screening.RawListHit, error) {
	return g.hits[name], nil
}

func newTestService(gw screening.Gateway, classifier TariffClassifier) *Service {
	log := logger.NewNop()
	auditLog := audit.NewLog(1000, nil, log)
	screeningService := screening.NewService(gw, screening.NewMemoryCache(), screening.DefaultPolicy(), auditLog, nil, log)
	return NewService(screeningService, classifier, log)
}

func cleanParties() screening.ShipmentParties {
	return screening.ShipmentParties{
		Shipper:   &domain.ScreeningParty{Name: "Nordsee Export GmbH", Country: "DE"},
		Consignee: &domain.ScreeningParty{Name: "Maple Leaf Imports", Country: "CA"},
	}
}

func TestPreClearClean(t *testing.T) {
	svc := newTestService(&stubGateway{}, NewStaticClassifier())

	result, err := svc.PreClear(context.Background(), "SHIP-200", "CA", cleanParties(), []CommodityLine{
		{Description: "industrial water pump", DeclaredValue: decimal.NewFromInt(1000), Quantity: 2},
	})

	assert.NoError(t, err)
	assert.Equal(t, StatusCleared, result.Status)
	assert.True(t, result.Screening.OverallPassed)
	assert.Len(t, result.Classifications, 1)
	assert.Equal(t, "8413.70", result.Classifications[0].HSCode)
	// 1000 * 2 * 2.5%
	assert.True(t, result.EstimatedDuty.Equal(decimal.NewFromInt(50)),
		"expected 50, got %s", result.EstimatedDuty)
	assert.Empty(t, result.HoldReason)
}

func TestPreClearSumsDutyAcrossLines(t *testing.T) {
	svc := newTestService(&stubGateway{}, NewStaticClassifier())

	result, err := svc.PreClear(context.Background(), "SHIP-201", "CA", cleanParties(), []CommodityLine{
		{Description: "cotton apparel", DeclaredValue: decimal.NewFromInt(1000), Quantity: 1},
		{Description: "computer parts", DeclaredValue: decimal.NewFromInt(5000), Quantity: 1},
	})

	assert.NoError(t, err)
	// 1000 * 16.6% + 5000 * 0%
	assert.True(t, result.EstimatedDuty.Equal(decimal.NewFromInt(166)),
		"expected 166, got %s", result.EstimatedDuty)
}

func TestPreClearHoldsSanctionedShipment(t *testing.T) {
	gw := &stubGateway{hits: map[string][]screening.RawListHit{
		"Rosoboronexport": {
			{Name: "Rosoboronexport", Programs: []string{"OFAC SDN List"}, SourceLabel: "OFAC SDN List"},
		},
	}}
	svc := newTestService(gw, NewStaticClassifier())

	parties := cleanParties()
	parties.Consignee = &domain.ScreeningParty{Name: "Rosoboronexport"}

	result, err := svc.PreClear(context.Background(), "SHIP-202", "RU", parties, []CommodityLine{
		{Description: "steel pipes", DeclaredValue: decimal.NewFromInt(10000), Quantity: 1},
	})

	assert.NoError(t, err)
	assert.Equal(t, StatusComplianceHold, result.Status)
	assert.NotEmpty(t, result.HoldReason)
	// held shipments never reach classification
	assert.Empty(t, result.Classifications)
	assert.True(t, result.EstimatedDuty.IsZero())
}

func TestPreClearWithoutClassifier(t *testing.T) {
	svc := newTestService(&stubGateway{}, nil)

	result, err := svc.PreClear(context.Background(), "SHIP-203", "CA", cleanParties(), []CommodityLine{
		{Description: "steel pipes", DeclaredValue: decimal.NewFromInt(500), Quantity: 1},
	})

	assert.NoError(t, err)
	assert.Equal(t, StatusCleared, result.Status)
	assert.Empty(t, result.Classifications)
	assert.True(t, result.EstimatedDuty.IsZero())
}

func TestStaticClassifier(t *testing.T) {
	c := NewStaticClassifier()
	ctx := context.Background()

	got, err := c.Classify(ctx, "semiconductor wafers", "JP")
	assert.NoError(t, err)
	assert.Equal(t, "8542.31", got.HSCode)
	assert.True(t, got.DutyRate.IsZero())

	got, err = c.Classify(ctx, "mystery box", "JP")
	assert.NoError(t, err)
	assert.Equal(t, "9999.00", got.HSCode)
	assert.True(t, got.DutyRate.Equal(decimal.NewFromInt(10)))
}
