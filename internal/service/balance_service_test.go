package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/tabout/pkg/api"
)

func TestGetBalances(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	created, err := env.splits.CreateSplit(ctx, as("alice", dinner()))
	if err != nil {
		t.Fatalf("CreateSplit failed: %v", err)
	}

	bob, err := env.balances.GetBalances(ctx, as("bob", &api.GetBalancesRequest{}))
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	if bob.Msg.TotalOwedByUser != m("57") || !bob.Msg.TotalOwedToUser.IsZero() || bob.Msg.PendingCount != 1 {
		t.Errorf("bob balances = %+v", bob.Msg)
	}

	alice, err := env.balances.GetBalances(ctx, as("alice", &api.GetBalancesRequest{}))
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	if !alice.Msg.TotalOwedByUser.IsZero() || alice.Msg.PendingCount != 0 {
		t.Errorf("alice balances = %+v, want nothing pending", alice.Msg)
	}

	if _, err := env.splits.MarkSettled(ctx, as("bob", &api.MarkSettledRequest{SplitID: created.Msg.Split.ID})); err != nil {
		t.Fatalf("MarkSettled failed: %v", err)
	}

	bob, err = env.balances.GetBalances(ctx, as("bob", &api.GetBalancesRequest{}))
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	if !bob.Msg.TotalOwedByUser.IsZero() || bob.Msg.PendingCount != 0 {
		t.Errorf("bob balances after settling = %+v", bob.Msg)
	}

	_, err = env.balances.GetBalances(ctx, connect.NewRequest(&api.GetBalancesRequest{}))
	wantCode(t, err, connect.CodeUnauthenticated)
}

func TestGetStats(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	for range 2 {
		if _, err := env.splits.CreateSplit(ctx, as("alice", dinner())); err != nil {
			t.Fatalf("CreateSplit failed: %v", err)
		}
	}

	resp, err := env.balances.GetStats(ctx, as("alice", &api.GetStatsRequest{TimeZone: "Africa/Cairo"}))
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if resp.Msg.TotalSpent != m("114") || resp.Msg.SplitCount != 2 || resp.Msg.AverageShare != m("57") {
		t.Errorf("stats = %+v", resp.Msg)
	}
	if len(resp.Msg.Monthly) != 1 || resp.Msg.Monthly[0].Total != m("114") {
		t.Errorf("monthly = %+v, want one month of 114.00", resp.Msg.Monthly)
	}

	empty, err := env.balances.GetStats(ctx, as("bob", &api.GetStatsRequest{}))
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if !empty.Msg.TotalSpent.IsZero() || len(empty.Msg.Monthly) != 0 {
		t.Errorf("bob has paid nothing, got %+v", empty.Msg)
	}

	_, err = env.balances.GetStats(ctx, as("alice", &api.GetStatsRequest{TimeZone: "Mars/Olympus"}))
	wantCode(t, err, connect.CodeInvalidArgument)

	_, err = env.balances.GetStats(ctx, as("alice", &api.GetStatsRequest{Months: 100}))
	wantCode(t, err, connect.CodeInvalidArgument)
}
