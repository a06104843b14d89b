package api

import "github.com/mmynk/tabout/internal/money"

type GetBalancesRequest struct{}

// GetBalancesResponse is the home screen summary over the caller's pending shares.
type GetBalancesResponse struct {
	TotalOwedToUser money.Money `json:"total_owed_to_user"`
	TotalOwedByUser money.Money `json:"total_owed_by_user"`
	PendingCount    int         `json:"pending_count"`
}

// GetStatsRequest asks for spending over the caller's paid shares. Months
// defaults to 6; TimeZone is an IANA name and defaults to UTC.
type GetStatsRequest struct {
	Months   int    `json:"months,omitempty"`
	TimeZone string `json:"time_zone,omitempty"`
}

type MonthlyTotal struct {
	Month string      `json:"month"`
	Total money.Money `json:"total"`
}

type GetStatsResponse struct {
	TotalSpent   money.Money    `json:"total_spent"`
	AverageShare money.Money    `json:"average_share"`
	SplitCount   int            `json:"split_count"`
	Monthly      []MonthlyTotal `json:"monthly"`
}
