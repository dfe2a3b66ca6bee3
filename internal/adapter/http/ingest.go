package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"adpulse/internal/core/domain"
)

// deliveryRowRequest is one raw delivery row as sent by the upload UI.
// Dates arrive as strings in any supported layout; rows that fail to
// parse are skipped and counted rather than failing the batch.
type deliveryRowRequest struct {
	Date         string  `json:"date"`
	CampaignName string  `json:"campaign_name"`
	Impressions  float64 `json:"impressions"`
	Clicks       float64 `json:"clicks"`
	Revenue      float64 `json:"revenue"`
	Spend        float64 `json:"spend"`
	Transactions float64 `json:"transactions"`
}

// contractRequest is one contract as sent by the upload UI. The money
// fields may contain "$" and "," and are normalised here; the core only
// ever sees parsed numbers.
type contractRequest struct {
	CampaignName   string `json:"campaign_name"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	Budget         string `json:"budget"`
	CPM            string `json:"cpm"`
	ImpressionGoal string `json:"impression_goal"`
}

// handleDeliveryImport ingests raw delivery rows. Each row is parsed
// into the canonical record shape; malformed rows are skipped row by
// row, never failing the whole batch. The response reports how many
// rows were stored and how many were skipped.
func (h *Handler) handleDeliveryImport(w http.ResponseWriter, r *http.Request) {
	var rows []deliveryRowRequest
	if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	records := make([]domain.DeliveryRecord, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		date, err := domain.ParseDate(row.Date)
		if err != nil || row.CampaignName == "" {
			skipped++
			continue
		}
		records = append(records, domain.DeliveryRecord{
			Date:         date,
			CampaignName: row.CampaignName,
			Impressions:  nonNegative(row.Impressions),
			Clicks:       nonNegative(row.Clicks),
			Revenue:      nonNegative(row.Revenue),
			Spend:        nonNegative(row.Spend),
			Transactions: nonNegative(row.Transactions),
		})
	}

	stored, err := h.svc.ImportDeliveryRecords(r.Context(), records)
	if err != nil {
		h.logger.Error("delivery import error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, map[string]int{"stored": stored, "skipped": skipped})
}

// handleContractImport ingests contract terms. Money fields are
// normalised with ParseMoney and dates with ParseDate; entries that fail
// to parse are skipped with a warning.
func (h *Handler) handleContractImport(w http.ResponseWriter, r *http.Request) {
	var reqs []contractRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	terms := make([]domain.ContractTerms, 0, len(reqs))
	skipped := 0
	for _, req := range reqs {
		ct, err := parseContract(req)
		if err != nil {
			h.logger.Warn("skipping malformed contract",
				slog.String("campaign", req.CampaignName),
				slog.Any("error", err))
			skipped++
			continue
		}
		terms = append(terms, ct)
	}

	stored, err := h.svc.ImportContractTerms(r.Context(), terms)
	if err != nil {
		h.logger.Error("contract import error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, map[string]int{"stored": stored, "skipped": skipped})
}

func parseContract(req contractRequest) (domain.ContractTerms, error) {
	var (
		ct  domain.ContractTerms
		err error
	)
	ct.CampaignName = req.CampaignName
	if ct.StartDate, err = domain.ParseDate(req.StartDate); err != nil {
		return ct, err
	}
	if ct.EndDate, err = domain.ParseDate(req.EndDate); err != nil {
		return ct, err
	}
	if ct.Budget, err = domain.ParseMoney(req.Budget); err != nil {
		return ct, err
	}
	if ct.CPM, err = domain.ParseMoney(req.CPM); err != nil {
		return ct, err
	}
	if ct.ImpressionGoal, err = domain.ParseMoney(req.ImpressionGoal); err != nil {
		return ct, err
	}
	return ct, nil
}

func nonNegative(value float64) float64 {
	if value < 0 {
		return 0
	}
	return value
}
