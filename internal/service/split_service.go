// Package service implements the tabout RPC services on top of the calculator,
// the settlement ledger and the store.
package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tabout/internal/calculator"
	"github.com/mmynk/tabout/internal/ledger"
	"github.com/mmynk/tabout/internal/metrics"
	"github.com/mmynk/tabout/internal/middleware"
	"github.com/mmynk/tabout/internal/models"
	"github.com/mmynk/tabout/internal/storage"
	"github.com/mmynk/tabout/pkg/api"
	"github.com/mmynk/tabout/pkg/api/apiconnect"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

var _ apiconnect.SplitServiceHandler = (*SplitService)(nil)

// SplitService previews, records and settles splits.
type SplitService struct {
	store           storage.Store
	metrics         *metrics.Metrics
	logger          *slog.Logger
	defaultCurrency string
}

// NewSplitService creates a new SplitService with the given storage backend.
// m may be nil.
func NewSplitService(store storage.Store, m *metrics.Metrics, logger *slog.Logger, defaultCurrency string) *SplitService {
	if logger == nil {
		logger = slog.Default()
	}
	if defaultCurrency == "" {
		defaultCurrency = models.DefaultCurrency
	}
	return &SplitService{
		store:           store,
		metrics:         m,
		logger:          logger,
		defaultCurrency: defaultCurrency,
	}
}

// PreviewEqualSplit computes an equal split without saving it. Every call
// recomputes from the request alone.
func (s *SplitService) PreviewEqualSplit(ctx context.Context, req *connect.Request[api.PreviewEqualSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error) {
	fees, err := feeOptions(req.Msg.Fees)
	if err != nil {
		return nil, err
	}

	result, err := calculator.ComputeEqualSplit(req.Msg.Total, req.Msg.ParticipantIDs, fees, req.Msg.PayerID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.PreviewSplitResponse{Breakdown: toBreakdown(result)}), nil
}

// PreviewItemizedSplit computes an itemized split without saving it.
func (s *SplitService) PreviewItemizedSplit(ctx context.Context, req *connect.Request[api.PreviewItemizedSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error) {
	fees, err := feeOptions(req.Msg.Fees)
	if err != nil {
		return nil, err
	}

	result, err := calculator.ComputeItemizedSplit(calculatorItems(req.Msg.Items), req.Msg.ParticipantIDs, fees, req.Msg.PayerID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.PreviewSplitResponse{Breakdown: toBreakdown(result)}), nil
}

// CreateSplit computes the split, seeds the participant rows and persists the
// whole record in one write. The caller must be one of the participants.
func (s *SplitService) CreateSplit(ctx context.Context, req *connect.Request[api.CreateSplitRequest]) (*connect.Response[api.CreateSplitResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, errAuthRequired)
	}

	msg := req.Msg
	description := strings.TrimSpace(msg.Description)
	if description == "" {
		return nil, invalidArgument("description is required")
	}
	if !slices.Contains(msg.ParticipantIDs, userID) {
		return nil, connect.NewError(connect.CodePermissionDenied, errors.New("you must be a participant to create this split"))
	}

	fees, err := feeOptions(msg.Fees)
	if err != nil {
		return nil, err
	}

	var result *calculator.SplitResult
	switch calculator.SplitType(msg.SplitType) {
	case calculator.SplitEqual:
		result, err = calculator.ComputeEqualSplit(msg.Total, msg.ParticipantIDs, fees, msg.PayerID)
	case calculator.SplitItemized:
		result, err = calculator.ComputeItemizedSplit(calculatorItems(msg.Items), msg.ParticipantIDs, fees, msg.PayerID)
	default:
		return nil, invalidArgument("split_type must be %q or %q, got %q", calculator.SplitEqual, calculator.SplitItemized, msg.SplitType)
	}
	if err != nil {
		return nil, toConnectError(err)
	}

	rows, err := ledger.Seed("", result, msg.PayerID)
	if err != nil {
		return nil, toConnectError(err)
	}

	currency, err := s.currencyFor(ctx, userID, msg.Currency)
	if err != nil {
		s.logger.Error("CreateSplit currency lookup failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	split := &models.Split{
		Description:       description,
		Currency:          currency,
		SplitType:         string(result.SplitType),
		HasService:        fees.HasService,
		ServicePercentage: fees.ServicePercent(),
		ServiceAmount:     result.ServiceAmount,
		HasTax:            fees.HasTax,
		TaxPercentage:     fees.TaxPercent(),
		TaxAmount:         result.TaxAmount,
		HasDeliveryFee:    fees.HasDeliveryFee,
		DeliveryFee:       result.DeliveryAmount,
		AllocationMethod:  string(fees.Method()),
		Subtotal:          result.Subtotal,
		TotalAmount:       result.TotalAmount,
		CreatedBy:         userID,
		PaidBy:            msg.PayerID,
		Settled:           ledger.AllSettled(rows),
		Participants:      rows,
	}
	if result.SplitType == calculator.SplitItemized {
		for _, item := range calculatorItems(msg.Items) {
			split.Items = append(split.Items, models.Item{
				Name:      item.Name,
				Price:     item.Price,
				OrderedBy: item.OwnerID,
			})
		}
	}

	if err := s.store.CreateSplit(ctx, split); err != nil {
		s.logger.Error("CreateSplit failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}
	s.metrics.SplitCreated(split.SplitType)

	s.logger.Info("Split created",
		"split_id", split.ID,
		"split_type", split.SplitType,
		"participants", len(split.Participants),
		"total", split.TotalAmount.String(),
	)

	return connect.NewResponse(&api.CreateSplitResponse{
		Split: toAPISplit(split, s.displayNames(ctx, split)),
	}), nil
}

// GetSplit returns one split. Only its participants and its creator may read it.
func (s *SplitService) GetSplit(ctx context.Context, req *connect.Request[api.GetSplitRequest]) (*connect.Response[api.GetSplitResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, errAuthRequired)
	}
	if req.Msg.SplitID == "" {
		return nil, invalidArgument("split_id is required")
	}

	split, err := s.store.GetSplit(ctx, req.Msg.SplitID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if !canView(split, userID) {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotParticipant)
	}

	return connect.NewResponse(&api.GetSplitResponse{
		Split: toAPISplit(split, s.displayNames(ctx, split)),
	}), nil
}

// ListSplits returns the caller's splits, newest first, each with the caller's own share.
func (s *SplitService) ListSplits(ctx context.Context, req *connect.Request[api.ListSplitsRequest]) (*connect.Response[api.ListSplitsResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, errAuthRequired)
	}

	status := models.SettlementStatus(req.Msg.Status)
	switch status {
	case "", models.StatusPending, models.StatusPaid:
	default:
		return nil, invalidArgument("unknown status %q", req.Msg.Status)
	}

	limit := req.Msg.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)

	summaries, err := s.store.ListSplitsByUser(ctx, userID, status, limit)
	if err != nil {
		s.logger.Error("ListSplits failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	resp := &api.ListSplitsResponse{Splits: make([]api.SplitSummary, len(summaries))}
	for i, sum := range summaries {
		resp.Splits[i] = toAPISummary(sum)
	}
	return connect.NewResponse(resp), nil
}

// MarkSettled records that a participant has paid their share. The participant
// can settle their own row and the split's payer can settle anyone's.
func (s *SplitService) MarkSettled(ctx context.Context, req *connect.Request[api.MarkSettledRequest]) (*connect.Response[api.MarkSettledResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, errAuthRequired)
	}
	if req.Msg.SplitID == "" {
		return nil, invalidArgument("split_id is required")
	}

	target := req.Msg.UserID
	if target == "" {
		target = userID
	}

	split, err := s.store.GetSplit(ctx, req.Msg.SplitID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if target != userID && split.PaidBy != userID {
		return nil, connect.NewError(connect.CodePermissionDenied, errors.New("only the payer can settle another participant's share"))
	}

	settled, err := s.store.MarkSettled(ctx, split.ID, target, req.Msg.ExpectedVersion)
	if err != nil {
		var conflict *storage.ConflictError
		if errors.As(err, &conflict) {
			s.metrics.Settlement(metrics.OutcomeConflict)
			s.logger.Warn("MarkSettled conflict", "split_id", split.ID, "user_id", target, "reason", conflict.Reason)
		} else {
			s.metrics.Settlement(metrics.OutcomeError)
			s.logger.Error("MarkSettled failed", "split_id", split.ID, "user_id", target, "error", err)
		}
		return nil, toConnectError(err)
	}
	s.metrics.Settlement(metrics.OutcomeSettled)

	updated, err := s.store.GetSplit(ctx, split.ID)
	if err != nil {
		return nil, toConnectError(err)
	}

	s.logger.Info("Share settled",
		"split_id", split.ID,
		"user_id", target,
		"settled_by", userID,
		"amount", settled.AmountPaid.String(),
		"split_settled", updated.Settled,
	)

	return connect.NewResponse(&api.MarkSettledResponse{
		Participant:  toAPIParticipant(*settled, nil),
		SplitSettled: updated.Settled,
	}), nil
}

// currencyFor picks the requested currency, then the user's preference, then the default.
func (s *SplitService) currencyFor(ctx context.Context, userID, requested string) (string, error) {
	if c := strings.ToUpper(strings.TrimSpace(requested)); c != "" {
		return c, nil
	}
	user, err := s.store.GetUserByID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return s.defaultCurrency, nil
	}
	if err != nil {
		return "", err
	}
	if user.Currency == "" {
		return s.defaultCurrency, nil
	}
	return user.Currency, nil
}

// displayNames looks up participants' names. A failed lookup only costs the names.
func (s *SplitService) displayNames(ctx context.Context, split *models.Split) map[string]*models.User {
	ids := make([]string, len(split.Participants))
	for i, p := range split.Participants {
		ids[i] = p.UserID
	}
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("Failed to load participant names", "split_id", split.ID, "error", err)
		return nil
	}
	return users
}

func canView(split *models.Split, userID string) bool {
	if split.CreatedBy == userID {
		return true
	}
	for _, p := range split.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}
