// Package apiconnect binds the api messages to connect handlers and clients.
package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/tabout/pkg/api"
)

const (
	SplitServiceName   = "tabout.v1.SplitService"
	BalanceServiceName = "tabout.v1.BalanceService"
	AuthServiceName    = "tabout.v1.AuthService"
)

// Fully-qualified procedure names.
const (
	SplitServicePreviewEqualSplitProcedure    = "/" + SplitServiceName + "/PreviewEqualSplit"
	SplitServicePreviewItemizedSplitProcedure = "/" + SplitServiceName + "/PreviewItemizedSplit"
	SplitServiceCreateSplitProcedure          = "/" + SplitServiceName + "/CreateSplit"
	SplitServiceGetSplitProcedure             = "/" + SplitServiceName + "/GetSplit"
	SplitServiceListSplitsProcedure           = "/" + SplitServiceName + "/ListSplits"
	SplitServiceMarkSettledProcedure          = "/" + SplitServiceName + "/MarkSettled"

	BalanceServiceGetBalancesProcedure = "/" + BalanceServiceName + "/GetBalances"
	BalanceServiceGetStatsProcedure    = "/" + BalanceServiceName + "/GetStats"

	AuthServiceRegisterProcedure       = "/" + AuthServiceName + "/Register"
	AuthServiceLoginProcedure          = "/" + AuthServiceName + "/Login"
	AuthServiceGetCurrentUserProcedure = "/" + AuthServiceName + "/GetCurrentUser"
)

// PublicProcedures can be called without a bearer token.
var PublicProcedures = []string{
	AuthServiceRegisterProcedure,
	AuthServiceLoginProcedure,
}

// AnonymousProcedures accept a bearer token but do not require one.
var AnonymousProcedures = []string{
	SplitServicePreviewEqualSplitProcedure,
	SplitServicePreviewItemizedSplitProcedure,
}

// unary mounts one procedure on mux with the JSON codec installed ahead of opts.
func unary[Req, Res any](mux *http.ServeMux, procedure string, fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error), opts []connect.HandlerOption) {
	opts = append([]connect.HandlerOption{api.WithJSON()}, opts...)
	mux.Handle(procedure, connect.NewUnaryHandler(procedure, fn, opts...))
}

func client[Req, Res any](httpClient connect.HTTPClient, baseURL, procedure string, opts []connect.ClientOption) *connect.Client[Req, Res] {
	opts = append([]connect.ClientOption{api.WithJSON()}, opts...)
	return connect.NewClient[Req, Res](httpClient, baseURL+procedure, opts...)
}
