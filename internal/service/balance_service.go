package service

import (
	"context"
	"log/slog"
	"time"
	_ "time/tzdata" // clients send IANA zone names

	"connectrpc.com/connect"

	"github.com/mmynk/tabout/internal/ledger"
	"github.com/mmynk/tabout/internal/middleware"
	"github.com/mmynk/tabout/internal/models"
	"github.com/mmynk/tabout/internal/storage"
	"github.com/mmynk/tabout/pkg/api"
	"github.com/mmynk/tabout/pkg/api/apiconnect"
)

const (
	defaultStatsMonths = 6
	maxStatsMonths     = 24
)

var _ apiconnect.BalanceServiceHandler = (*BalanceService)(nil)

// BalanceService derives dashboard figures from participant rows. Nothing it
// returns is stored.
type BalanceService struct {
	store  storage.Store
	logger *slog.Logger
}

func NewBalanceService(store storage.Store, logger *slog.Logger) *BalanceService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BalanceService{store: store, logger: logger}
}

// GetBalances folds the caller's pending shares into what they are owed and what they owe.
func (s *BalanceService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, errAuthRequired)
	}

	rows, err := s.store.ListParticipations(ctx, userID, models.StatusPending)
	if err != nil {
		s.logger.Error("GetBalances failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	snap := ledger.AggregateBalances(userID, rows)
	return connect.NewResponse(&api.GetBalancesResponse{
		TotalOwedToUser: snap.TotalOwedToUser,
		TotalOwedByUser: snap.TotalOwedByUser,
		PendingCount:    len(rows),
	}), nil
}

// GetStats summarizes the caller's settled spending by month.
func (s *BalanceService) GetStats(ctx context.Context, req *connect.Request[api.GetStatsRequest]) (*connect.Response[api.GetStatsResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, errAuthRequired)
	}

	months := req.Msg.Months
	if months <= 0 {
		months = defaultStatsMonths
	}
	if months > maxStatsMonths {
		return nil, invalidArgument("months must be at most %d", maxStatsMonths)
	}

	loc := time.UTC
	if tz := req.Msg.TimeZone; tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return nil, invalidArgument("unknown time zone %q", tz)
		}
		loc = l
	}

	rows, err := s.store.ListParticipations(ctx, userID, models.StatusPaid)
	if err != nil {
		s.logger.Error("GetStats failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	summary := ledger.SummarizeSpending(rows, months, loc)
	resp := &api.GetStatsResponse{
		TotalSpent:   summary.TotalSpent,
		AverageShare: summary.AverageShare,
		SplitCount:   summary.SplitCount,
		Monthly:      make([]api.MonthlyTotal, len(summary.Monthly)),
	}
	for i, m := range summary.Monthly {
		resp.Monthly[i] = api.MonthlyTotal{Month: m.Month, Total: m.Total}
	}
	return connect.NewResponse(resp), nil
}
