package ledger

import (
	"slices"
	"time"

	"github.com/mmynk/tabout/internal/models"
	"github.com/mmynk/tabout/internal/money"
)

// MonthlyTotal is the spending for one calendar month ("2006-01").
type MonthlyTotal struct {
	Month string      `json:"month"`
	Total money.Money `json:"total"`
}

// SpendingSummary backs the stats screen.
type SpendingSummary struct {
	TotalSpent   money.Money    `json:"total_spent"`
	AverageShare money.Money    `json:"average_share"`
	SplitCount   int            `json:"split_count"`
	Monthly      []MonthlyTotal `json:"monthly"`
}

// SummarizeSpending totals the user's paid shares. Monthly holds at most
// `months` entries, oldest first, bucketed in loc.
func SummarizeSpending(rows []models.Participation, months int, loc *time.Location) SpendingSummary {
	if loc == nil {
		loc = time.UTC
	}

	var summary SpendingSummary
	byMonth := make(map[string]money.Money)
	for _, row := range rows {
		if row.Status != models.StatusPaid {
			continue
		}
		summary.TotalSpent = summary.TotalSpent.Add(row.TotalAmount)
		summary.SplitCount++

		month := time.Unix(row.CreatedAt, 0).In(loc).Format("2006-01")
		byMonth[month] = byMonth[month].Add(row.TotalAmount)
	}

	if summary.SplitCount > 0 {
		summary.AverageShare = summary.TotalSpent.Div(summary.SplitCount)
	}

	keys := make([]string, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	if months > 0 && len(keys) > months {
		keys = keys[len(keys)-months:]
	}

	summary.Monthly = make([]MonthlyTotal, 0, len(keys))
	for _, k := range keys {
		summary.Monthly = append(summary.Monthly, MonthlyTotal{Month: k, Total: byMonth[k]})
	}
	return summary
}
