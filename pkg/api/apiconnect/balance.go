package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tabout/pkg/api"
)

// BalanceServiceHandler is implemented by the balance service.
type BalanceServiceHandler interface {
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	GetStats(context.Context, *connect.Request[api.GetStatsRequest]) (*connect.Response[api.GetStatsResponse], error)
}

func NewBalanceServiceHandler(svc BalanceServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	unary(mux, BalanceServiceGetBalancesProcedure, svc.GetBalances, opts)
	unary(mux, BalanceServiceGetStatsProcedure, svc.GetStats, opts)
	return "/" + BalanceServiceName + "/", mux
}

type BalanceServiceClient interface {
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	GetStats(context.Context, *connect.Request[api.GetStatsRequest]) (*connect.Response[api.GetStatsResponse], error)
}

func NewBalanceServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BalanceServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	return &balanceServiceClient{
		getBalances: client[api.GetBalancesRequest, api.GetBalancesResponse](httpClient, baseURL, BalanceServiceGetBalancesProcedure, opts),
		getStats:    client[api.GetStatsRequest, api.GetStatsResponse](httpClient, baseURL, BalanceServiceGetStatsProcedure, opts),
	}
}

type balanceServiceClient struct {
	getBalances *connect.Client[api.GetBalancesRequest, api.GetBalancesResponse]
	getStats    *connect.Client[api.GetStatsRequest, api.GetStatsResponse]
}

func (c *balanceServiceClient) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *balanceServiceClient) GetStats(ctx context.Context, req *connect.Request[api.GetStatsRequest]) (*connect.Response[api.GetStatsResponse], error) {
	return c.getStats.CallUnary(ctx, req)
}
