package domain

import "time"

// DeliveryRecord is one campaign-day observation as produced by the
// ingestion boundary. The date carries no time-of-day component and all
// numeric fields default to zero when the source row was missing or
// unparseable. The analytics core only ever reads these records.
type DeliveryRecord struct {
	Date         time.Time
	CampaignName string
	Impressions  float64
	Clicks       float64
	Revenue      float64
	Spend        float64
	Transactions float64
}

// ContractTerms is the goal envelope for a single campaign. StartDate and
// EndDate are inclusive calendar bounds. Budget, CPM and ImpressionGoal
// arrive as strings that may contain "$" and "," and are parsed at the
// ingestion boundary via ParseMoney.
type ContractTerms struct {
	CampaignName   string
	StartDate      time.Time
	EndDate        time.Time
	Budget         float64
	CPM            float64
	ImpressionGoal float64
}
