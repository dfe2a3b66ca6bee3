package configs

// Detector holds the default thresholds for the anomaly detectors. Each
// value can be overridden per request by the caller; these defaults apply
// when a run is triggered without explicit thresholds.
type Detector struct {
	// ImpressionThresholdPct flags day-over-day impression swings at or
	// above this absolute percentage.
	ImpressionThresholdPct float64 `env:"IMPRESSION_THRESHOLD" envDefault:"20"`
	// TransactionDropThresholdPct flags day-over-day transaction
	// decreases at or above this percentage.
	TransactionDropThresholdPct float64 `env:"TRANSACTION_DROP_THRESHOLD" envDefault:"90"`
	// ZeroTransactionDays is the streak length of zero-transaction days
	// that triggers an anomaly.
	ZeroTransactionDays int `env:"ZERO_TRANSACTION_DAYS" envDefault:"2"`
	// CTRThresholdPct flags days whose click-through rate strictly
	// exceeds this percentage as suspected bot activity.
	CTRThresholdPct float64 `env:"CTR_THRESHOLD" envDefault:"1.0"`
}
