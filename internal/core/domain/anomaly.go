package domain

import "time"

// AnomalyType identifies which detector produced an anomaly.
type AnomalyType string

const (
	AnomalyImpressionChange AnomalyType = "impression_change"
	AnomalyTransactionDrop  AnomalyType = "transaction_drop"
	AnomalyTransactionZero  AnomalyType = "transaction_zero"
	AnomalyBotActivity      AnomalyType = "suspected_bot_activity"
)

// Severity classifies how serious an anomaly is.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// AnomalyDetails is the variant payload attached to a CampaignAnomaly.
// Exactly one concrete type exists per AnomalyType; Kind reports which
// one a value is so callers can switch without reflection.
type AnomalyDetails interface {
	Kind() AnomalyType
}

// ChangeDetails describes a day-over-day change flagged by the
// impression-change detector.
type ChangeDetails struct {
	PreviousValue     float64 `json:"previous_value"`
	CurrentValue      float64 `json:"current_value"`
	PercentageChange  float64 `json:"percentage_change"`
	ThresholdExceeded float64 `json:"threshold_exceeded"`
}

// DropDetails mirrors ChangeDetails for the transaction-drop detector,
// which only flags decreases.
type DropDetails struct {
	PreviousValue     float64 `json:"previous_value"`
	CurrentValue      float64 `json:"current_value"`
	PercentageChange  float64 `json:"percentage_change"`
	ThresholdExceeded float64 `json:"threshold_exceeded"`
}

// StreakDetails describes a run of consecutive zero-transaction days.
type StreakDetails struct {
	ConsecutiveDays int `json:"consecutive_days"`
}

// BotActivityDetails describes a day whose click-through rate exceeded
// the suspected-bot threshold.
type BotActivityDetails struct {
	CTRPercentage     float64 `json:"ctr_percentage"`
	Clicks            float64 `json:"clicks"`
	Impressions       float64 `json:"impressions"`
	ThresholdExceeded float64 `json:"threshold_exceeded"`
}

func (ChangeDetails) Kind() AnomalyType      { return AnomalyImpressionChange }
func (DropDetails) Kind() AnomalyType        { return AnomalyTransactionDrop }
func (StreakDetails) Kind() AnomalyType      { return AnomalyTransactionZero }
func (BotActivityDetails) Kind() AnomalyType { return AnomalyBotActivity }

// CampaignAnomaly is one detected delivery irregularity. ID is assigned by
// the persistence layer and is zero until the anomaly is stored. Each
// detection run creates anomalies fresh; deduplication against previously
// stored rows happens in the repository (upsert by natural key), not here.
type CampaignAnomaly struct {
	ID             int64
	CampaignName   string
	Type           AnomalyType
	DateDetected   time.Time
	Severity       Severity
	Details        AnomalyDetails
	IsIgnored      bool
	CustomDuration *int
}
