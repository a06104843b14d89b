package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tabout/pkg/api"
)

// SplitServiceHandler is implemented by the split service.
type SplitServiceHandler interface {
	PreviewEqualSplit(context.Context, *connect.Request[api.PreviewEqualSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error)
	PreviewItemizedSplit(context.Context, *connect.Request[api.PreviewItemizedSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error)
	CreateSplit(context.Context, *connect.Request[api.CreateSplitRequest]) (*connect.Response[api.CreateSplitResponse], error)
	GetSplit(context.Context, *connect.Request[api.GetSplitRequest]) (*connect.Response[api.GetSplitResponse], error)
	ListSplits(context.Context, *connect.Request[api.ListSplitsRequest]) (*connect.Response[api.ListSplitsResponse], error)
	MarkSettled(context.Context, *connect.Request[api.MarkSettledRequest]) (*connect.Response[api.MarkSettledResponse], error)
}

// NewSplitServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewSplitServiceHandler(svc SplitServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	unary(mux, SplitServicePreviewEqualSplitProcedure, svc.PreviewEqualSplit, opts)
	unary(mux, SplitServicePreviewItemizedSplitProcedure, svc.PreviewItemizedSplit, opts)
	unary(mux, SplitServiceCreateSplitProcedure, svc.CreateSplit, opts)
	unary(mux, SplitServiceGetSplitProcedure, svc.GetSplit, opts)
	unary(mux, SplitServiceListSplitsProcedure, svc.ListSplits, opts)
	unary(mux, SplitServiceMarkSettledProcedure, svc.MarkSettled, opts)
	return "/" + SplitServiceName + "/", mux
}

// SplitServiceClient is a client for the split service.
type SplitServiceClient interface {
	PreviewEqualSplit(context.Context, *connect.Request[api.PreviewEqualSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error)
	PreviewItemizedSplit(context.Context, *connect.Request[api.PreviewItemizedSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error)
	CreateSplit(context.Context, *connect.Request[api.CreateSplitRequest]) (*connect.Response[api.CreateSplitResponse], error)
	GetSplit(context.Context, *connect.Request[api.GetSplitRequest]) (*connect.Response[api.GetSplitResponse], error)
	ListSplits(context.Context, *connect.Request[api.ListSplitsRequest]) (*connect.Response[api.ListSplitsResponse], error)
	MarkSettled(context.Context, *connect.Request[api.MarkSettledRequest]) (*connect.Response[api.MarkSettledResponse], error)
}

// NewSplitServiceClient constructs a client for the split service at baseURL
// (for example, "http://localhost:8080").
func NewSplitServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SplitServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	return &splitServiceClient{
		previewEqualSplit:    client[api.PreviewEqualSplitRequest, api.PreviewSplitResponse](httpClient, baseURL, SplitServicePreviewEqualSplitProcedure, opts),
		previewItemizedSplit: client[api.PreviewItemizedSplitRequest, api.PreviewSplitResponse](httpClient, baseURL, SplitServicePreviewItemizedSplitProcedure, opts),
		createSplit:          client[api.CreateSplitRequest, api.CreateSplitResponse](httpClient, baseURL, SplitServiceCreateSplitProcedure, opts),
		getSplit:             client[api.GetSplitRequest, api.GetSplitResponse](httpClient, baseURL, SplitServiceGetSplitProcedure, opts),
		listSplits:           client[api.ListSplitsRequest, api.ListSplitsResponse](httpClient, baseURL, SplitServiceListSplitsProcedure, opts),
		markSettled:          client[api.MarkSettledRequest, api.MarkSettledResponse](httpClient, baseURL, SplitServiceMarkSettledProcedure, opts),
	}
}

type splitServiceClient struct {
	previewEqualSplit    *connect.Client[api.PreviewEqualSplitRequest, api.PreviewSplitResponse]
	previewItemizedSplit *connect.Client[api.PreviewItemizedSplitRequest, api.PreviewSplitResponse]
	createSplit          *connect.Client[api.CreateSplitRequest, api.CreateSplitResponse]
	getSplit             *connect.Client[api.GetSplitRequest, api.GetSplitResponse]
	listSplits           *connect.Client[api.ListSplitsRequest, api.ListSplitsResponse]
	markSettled          *connect.Client[api.MarkSettledRequest, api.MarkSettledResponse]
}

func (c *splitServiceClient) PreviewEqualSplit(ctx context.Context, req *connect.Request[api.PreviewEqualSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error) {
	return c.previewEqualSplit.CallUnary(ctx, req)
}

func (c *splitServiceClient) PreviewItemizedSplit(ctx context.Context, req *connect.Request[api.PreviewItemizedSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error) {
	return c.previewItemizedSplit.CallUnary(ctx, req)
}

func (c *splitServiceClient) CreateSplit(ctx context.Context, req *connect.Request[api.CreateSplitRequest]) (*connect.Response[api.CreateSplitResponse], error) {
	return c.createSplit.CallUnary(ctx, req)
}

func (c *splitServiceClient) GetSplit(ctx context.Context, req *connect.Request[api.GetSplitRequest]) (*connect.Response[api.GetSplitResponse], error) {
	return c.getSplit.CallUnary(ctx, req)
}

func (c *splitServiceClient) ListSplits(ctx context.Context, req *connect.Request[api.ListSplitsRequest]) (*connect.Response[api.ListSplitsResponse], error) {
	return c.listSplits.CallUnary(ctx, req)
}

func (c *splitServiceClient) MarkSettled(ctx context.Context, req *connect.Request[api.MarkSettledRequest]) (*connect.Response[api.MarkSettledResponse], error) {
	return c.markSettled.CallUnary(ctx, req)
}
