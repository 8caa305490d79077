package screening

import (
	"context"
	"testing"
	"time"

	"freightgate/internal/audit"
	"freightgate/internal/domain"
	"freightgate/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyComplianceOfficer(ctx context.Context, shipmentID string, overallRisk domain.RiskLevel, criticalIssues []string) {
	m.Called(ctx, shipmentID, overallRisk, criticalIssues)
}

func newTestEvaluator(gw Gateway, notifier Notifier) (*Evaluator, *audit.Log) {
	auditLog := audit.NewLog(1000, nil, logger.NewNop())
	screener := NewPartyScreener(gw, NewMemoryCache(), DefaultPolicy(), auditLog, logger.NewNop())
	return NewEvaluator(screener, auditLog, notifier, logger.NewNop()), auditLog
}

func TestEvaluateAllClear(t *testing.T) {
	mockGw := new(MockGateway)
	mockNotifier := new(MockNotifier)
	evaluator, _ := newTestEvaluator(mockGw, mockNotifier)

	mockGw.On("Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]RawListHit{}, nil)

	result := evaluator.Evaluate(context.Background(), "SHIP-100", ShipmentParties{
		Shipper:   &domain.ScreeningParty{Name: "Nordsee Export GmbH", Country: "DE"},
		Consignee: &domain.ScreeningParty{Name: "Maple Leaf Imports", Country: "CA"},
		Carrier:   &domain.ScreeningParty{Name: "Blue Anchor Lines"},
	})

	assert.Equal(t, domain.RiskClear, result.OverallRisk)
	assert.True(t, result.OverallPassed)
	assert.False(t, result.ComplianceOfficerNotified)
	assert.Len(t, result.Parties, 3)
	assert.Empty(t, result.CriticalIssues)
	assert.Contains(t, result.Recommendations, "Proceed with standard procedures")
	assert.NotEmpty(t, result.AuditTrail)

	// roles are forced from the slot, not trusted from input
	assert.Equal(t, domain.RoleShipper, result.Parties[domain.RoleShipper].Party.Role)
	assert.Equal(t, domain.RoleCarrier, result.Parties[domain.RoleCarrier].Party.Role)

	mockNotifier.AssertNotCalled(t, "NotifyComplianceOfficer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEvaluateSanctionedConsigneeBlocksShipment(t *testing.T) {
	mockGw := new(MockGateway)
	mockNotifier := new(MockNotifier)
	evaluator, auditLog := newTestEvaluator(mockGw, mockNotifier)

	mockGw.On("Query", mock.Anything, "Nordsee Export GmbH", mock.Anything, mock.Anything).Return([]RawListHit{}, nil)
	mockGw.On("Query", mock.Anything, "Rosoboronexport", mock.Anything, mock.Anything).Return([]RawListHit{
		{
			Name:        "Rosoboronexport",
			Programs:    []string{"OFAC SDN List"},
			SourceLabel: "OFAC SDN List",
		},
	}, nil)
	mockNotifier.On("NotifyComplianceOfficer", mock.Anything, "SHIP-101", domain.RiskCritical, mock.Anything).Return()

	result := evaluator.Evaluate(context.Background(), "SHIP-101", ShipmentParties{
		Shipper:   &domain.ScreeningParty{Name: "Nordsee Export GmbH"},
		Consignee: &domain.ScreeningParty{Name: "Rosoboronexport"},
	})

	assert.Equal(t, domain.RiskCritical, result.OverallRisk)
	assert.False(t, result.OverallPassed)
	assert.True(t, result.ComplianceOfficerNotified)
	assert.Len(t, result.CriticalIssues, 1)
	assert.Contains(t, result.CriticalIssues[0], "Rosoboronexport")
	assert.Contains(t, result.Recommendations, "Obtain senior management approval before proceeding")

	mockNotifier.AssertExpectations(t)

	counts := auditLog.CountByAction()
	assert.Equal(t, 1, counts[domain.AuditOfficerNotified])
}

func TestEvaluateBlockedMatchHaltsMediumRiskShipment(t *testing.T) {
	mockGw := new(MockGateway)
	mockNotifier := new(MockNotifier)
	evaluator, _ := newTestEvaluator(mockGw, mockNotifier)

	mockGw.On("Query", mock.Anything, "Nordsee Export GmbH", mock.Anything, mock.Anything).Return([]RawListHit{}, nil)
	// a weak Entity List match grades MEDIUM, but the program is in the
	// blocking set, so the shipment must still halt
	mockGw.On("Query", mock.Anything, "Acme Industrial Supply", mock.Anything, mock.Anything).Return([]RawListHit{
		{
			Name:        "Acme Industries",
			Programs:    []string{"Entity List"},
			SourceLabel: "Entity List (EL) - Bureau of Industry and Security",
		},
	}, nil)

	result := evaluator.Evaluate(context.Background(), "SHIP-106", ShipmentParties{
		Shipper:   &domain.ScreeningParty{Name: "Nordsee Export GmbH"},
		Consignee: &domain.ScreeningParty{Name: "Acme Industrial Supply"},
	})

	consignee := result.Parties[domain.RoleConsignee]
	assert.Equal(t, domain.RiskMedium, consignee.RiskLevel)
	assert.True(t, consignee.Blocked)
	assert.Equal(t, domain.RiskMedium, result.OverallRisk)
	assert.False(t, result.OverallPassed)
	assert.False(t, result.ComplianceOfficerNotified)
	mockNotifier.AssertNotCalled(t, "NotifyComplianceOfficer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEvaluateMissingConsigneeFailsClosed(t *testing.T) {
	mockGw := new(MockGateway)
	evaluator, _ := newTestEvaluator(mockGw, nil)

	mockGw.On("Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]RawListHit{}, nil)

	result := evaluator.Evaluate(context.Background(), "SHIP-102", ShipmentParties{
		Shipper: &domain.ScreeningParty{Name: "Nordsee Export GmbH"},
	})

	assert.False(t, result.OverallPassed)
	assert.Equal(t, domain.RiskCritical, result.OverallRisk)

	consignee, ok := result.Parties[domain.RoleConsignee]
	assert.True(t, ok)
	assert.Equal(t, domain.RiskCritical, consignee.RiskLevel)
	assert.True(t, consignee.Blocked)
	assert.NotEmpty(t, consignee.Error)
}

// slowGateway keeps screening goroutines in flight while the evaluator
// settles missing mandatory slots. Run with -race.
type slowGateway struct{}

func (slowGateway) Query(ctx context.Context, name, country, address string) ([]RawListHit, error) {
	time.Sleep(time.Millisecond)
	return nil, nil
}

func TestEvaluateMissingConsigneeWhileShipperScreens(t *testing.T) {
	for i := 0; i < 50; i++ {
		evaluator, _ := newTestEvaluator(slowGateway{}, nil)

		result := evaluator.Evaluate(context.Background(), "SHIP-107", ShipmentParties{
			Shipper: &domain.ScreeningParty{Name: "Nordsee Export GmbH"},
		})

		assert.False(t, result.OverallPassed)

		consignee, ok := result.Parties[domain.RoleConsignee]
		assert.True(t, ok)
		assert.Equal(t, domain.RiskCritical, consignee.RiskLevel)
		assert.True(t, consignee.Blocked)

		shipper, ok := result.Parties[domain.RoleShipper]
		assert.True(t, ok)
		assert.Equal(t, domain.RiskClear, shipper.RiskLevel)
	}
}

func TestEvaluateOptionalPartiesSkippedWhenAbsent(t *testing.T) {
	mockGw := new(MockGateway)
	evaluator, _ := newTestEvaluator(mockGw, nil)

	mockGw.On("Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]RawListHit{}, nil)

	result := evaluator.Evaluate(context.Background(), "SHIP-103", ShipmentParties{
		Shipper:   &domain.ScreeningParty{Name: "Nordsee Export GmbH"},
		Consignee: &domain.ScreeningParty{Name: "Maple Leaf Imports"},
	})

	assert.Len(t, result.Parties, 2)
	_, hasCarrier := result.Parties[domain.RoleCarrier]
	assert.False(t, hasCarrier)
	assert.True(t, result.OverallPassed)
}

func TestEvaluateOverallRiskIsMaxSeverity(t *testing.T) {
	mockGw := new(MockGateway)
	mockNotifier := new(MockNotifier)
	evaluator, _ := newTestEvaluator(mockGw, mockNotifier)

	mockGw.On("Query", mock.Anything, "Clean Shipper", mock.Anything, mock.Anything).Return([]RawListHit{}, nil)
	// high-confidence Entity List match grades HIGH
	mockGw.On("Query", mock.Anything, "Acme Corp", mock.Anything, mock.Anything).Return([]RawListHit{
		{Name: "Acme Corp", Programs: []string{"EAR"}, SourceLabel: "Entity List"},
	}, nil)
	mockNotifier.On("NotifyComplianceOfficer", mock.Anything, "SHIP-104", domain.RiskHigh, mock.Anything).Return()

	result := evaluator.Evaluate(context.Background(), "SHIP-104", ShipmentParties{
		Shipper:   &domain.ScreeningParty{Name: "Clean Shipper"},
		Consignee: &domain.ScreeningParty{Name: "Acme Corp"},
	})

	assert.Equal(t, domain.RiskHigh, result.OverallRisk)
	assert.Equal(t, domain.RiskClear, result.Parties[domain.RoleShipper].RiskLevel)
	assert.Equal(t, domain.RiskHigh, result.Parties[domain.RoleConsignee].RiskLevel)
	assert.False(t, result.OverallPassed)
}

func TestEvaluateGatewayOutageHoldsShipment(t *testing.T) {
	mockGw := new(MockGateway)
	mockNotifier := new(MockNotifier)
	evaluator, _ := newTestEvaluator(mockGw, mockNotifier)

	mockGw.On("Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, assert.AnError)
	mockNotifier.On("NotifyComplianceOfficer", mock.Anything, "SHIP-105", domain.RiskCritical, mock.Anything).Return()

	result := evaluator.Evaluate(context.Background(), "SHIP-105", ShipmentParties{
		Shipper:   &domain.ScreeningParty{Name: "Nordsee Export GmbH"},
		Consignee: &domain.ScreeningParty{Name: "Maple Leaf Imports"},
	})

	assert.False(t, result.OverallPassed)
	assert.Equal(t, domain.RiskCritical, result.OverallRisk)
	assert.Len(t, result.CriticalIssues, 2)
	for _, issue := range result.CriticalIssues {
		assert.Contains(t, issue, "could not be screened")
	}
}
