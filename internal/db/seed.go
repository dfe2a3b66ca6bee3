package db

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"adpulse/internal/core/domain"
)

// Seed inserts demo delivery history and contract terms so the service is
// explorable without a real upstream feed. Thirty days of rows per
// campaign, with a few deliberately odd days (impression cliffs, zero
// transaction stretches, click storms) so a detection run finds
// something.
func Seed(ctx context.Context, db *pgxpool.Pool) error {
	r := rand.New(rand.NewSource(42))

	campaigns := []struct {
		name           string
		budget         float64
		cpm            float64
		impressionGoal float64
	}{
		{"Spring Sale", 25000, 12.5, 2000000},
		{"Brand Awareness Q3", 40000, 8.0, 5000000},
		{"Holiday Push", 15000, 15.0, 1000000},
	}

	end := domain.DateOnly(time.Now().UTC())
	start := end.AddDate(0, 0, -29)

	for _, c := range campaigns {
		_, err := db.Exec(ctx, `INSERT INTO contract_terms
    (campaign_name, start_date, end_date, budget, cpm, impression_goal)
VALUES ($1,$2,$3,$4,$5,$6) ON CONFLICT (campaign_name) DO NOTHING`,
			c.name, start, end.AddDate(0, 1, 0), c.budget, c.cpm, c.impressionGoal)
		if err != nil {
			return err
		}

		baseline := 30000 + r.Float64()*40000
		for day := 0; day < 30; day++ {
			date := start.AddDate(0, 0, day)

			impressions := baseline * (0.85 + r.Float64()*0.3)
			switch day {
			case 12:
				// impression cliff
				impressions = baseline * 0.2
			case 20:
				impressions = baseline * 1.8
			}

			ctr := 0.002 + r.Float64()*0.004
			if day == 25 {
				// click storm, CTR well above the bot threshold
				ctr = 0.03
			}
			clicks := impressions * ctr

			transactions := float64(5 + r.Intn(20))
			if day >= 15 && day <= 17 {
				transactions = 0
			}

			spend := impressions / 1000 * c.cpm
			revenue := transactions * (50 + r.Float64()*150)

			_, err = db.Exec(ctx, `INSERT INTO delivery_records
    (delivery_date, campaign_name, impressions, clicks, revenue, spend, transactions)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (delivery_date, campaign_name) DO NOTHING`,
				date, c.name, impressions, clicks, revenue, spend, transactions)
			if err != nil {
				return fmt.Errorf("seed %s day %d: %w", c.name, day, err)
			}
		}
	}
	return nil
}
