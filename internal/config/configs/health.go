package configs

// Health holds the band cut-points used by the campaign health scorer.
// The cut-points are a tuning surface rather than fixed business rules,
// so each one can be overridden through the environment.
type Health struct {
	// ROAS bands (revenue / spend). At or above Excellent scores 10,
	// sliding down to 0 below Poor.
	ROASExcellent float64 `env:"ROAS_EXCELLENT" envDefault:"4"`
	ROASGood      float64 `env:"ROAS_GOOD" envDefault:"3"`
	ROASFair      float64 `env:"ROAS_FAIR" envDefault:"2"`
	ROASPoor      float64 `env:"ROAS_POOR" envDefault:"1"`

	// Pacing bands are absolute distance from the ideal ratio of 1.0.
	// A campaign within Tight of 1.0 scores 10.
	PacingTight float64 `env:"PACING_TIGHT" envDefault:"0.1"`
	PacingNear  float64 `env:"PACING_NEAR" envDefault:"0.25"`
	PacingWide  float64 `env:"PACING_WIDE" envDefault:"0.5"`

	// Burn-rate bands compare spend progress against schedule progress.
	BurnTight float64 `env:"BURN_TIGHT" envDefault:"0.1"`
	BurnNear  float64 `env:"BURN_NEAR" envDefault:"0.25"`
	BurnWide  float64 `env:"BURN_WIDE" envDefault:"0.5"`

	// CTR bands in percent. Between Floor and Ceiling scores 10; a rate
	// above Ceiling suggests click fraud and scores down, below Floor
	// suggests poor creative and also scores down.
	CTRFloor   float64 `env:"CTR_FLOOR" envDefault:"0.05"`
	CTRLow     float64 `env:"CTR_LOW" envDefault:"0.1"`
	CTRCeiling float64 `env:"CTR_CEILING" envDefault:"1.0"`
	CTRHigh    float64 `env:"CTR_HIGH" envDefault:"2.0"`

	// Overspend bands compare spend against budget consumed. The
	// overspend sub-score is 0-5 and scaled before weighting.
	OverspendMinor float64 `env:"OVERSPEND_MINOR" envDefault:"1.0"`
	OverspendMajor float64 `env:"OVERSPEND_MAJOR" envDefault:"1.1"`

	// Composite weights. They should sum to 1; the scorer does not
	// renormalise.
	WeightROAS      float64 `env:"WEIGHT_ROAS" envDefault:"0.40"`
	WeightPacing    float64 `env:"WEIGHT_PACING" envDefault:"0.30"`
	WeightBurnRate  float64 `env:"WEIGHT_BURN_RATE" envDefault:"0.15"`
	WeightCTR       float64 `env:"WEIGHT_CTR" envDefault:"0.10"`
	WeightOverspend float64 `env:"WEIGHT_OVERSPEND" envDefault:"0.05"`
}
