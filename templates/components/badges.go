package components

import (
	"context"

	"claims_backoffice/models"
	"claims_backoffice/services/i18n"
)

// Badge tones map to CSS classes in app.css
const (
	ToneNeutral = "neutral"
	ToneInfo    = "info"
	ToneSuccess = "success"
	ToneWarning = "warning"
	ToneDanger  = "danger"
)

var claimStatusTones = map[string]string{
	models.ClaimStatusOpen:        ToneInfo,
	models.ClaimStatusUnderReview: ToneWarning,
	models.ClaimStatusApproved:    ToneSuccess,
	models.ClaimStatusPaid:        ToneSuccess,
	models.ClaimStatusClosed:      ToneNeutral,
	models.ClaimStatusSoftClosed:  ToneNeutral,
}

var slaTones = map[string]string{
	models.SLAOverdue: ToneDanger,
	models.SLAAtRisk:  ToneWarning,
	models.SLAOnTrack: ToneSuccess,
}

var policyStateTones = map[string]string{
	models.PolicyStateNotStarted: ToneInfo,
	models.PolicyStateActive:     ToneSuccess,
	models.PolicyStateExpired:    ToneNeutral,
}

func toneOrNeutral(tone string) string {
	if tone == "" {
		return ToneNeutral
	}
	return tone
}

func activityTone(status string) string {
	if models.IsOpenActivityStatus(status) {
		return ToneInfo
	}
	return ToneNeutral
}

// slaLabel adds the day count to every state but OnTrack
func slaLabel(ctx context.Context, state string, days int) string {
	label := i18n.Label(ctx, "sla", state, models.GetSLADisplayName(state))
	if state == models.SLAOnTrack {
		return label
	}
	if days < 0 {
		days = -days
	}
	return label + " (" + i18n.T(ctx, "common.days", map[string]interface{}{"count": days}) + ")"
}
