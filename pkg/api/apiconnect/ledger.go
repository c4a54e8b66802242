package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/pkg/api"
)

const (
	// LedgerServiceName is the fully-qualified name of the LedgerService.
	LedgerServiceName = "tripledger.v1.LedgerService"

	LedgerServiceGetBalancesProcedure      = "/tripledger.v1.LedgerService/GetBalances"
	LedgerServiceGetSettlementProcedure    = "/tripledger.v1.LedgerService/GetSettlement"
	LedgerServiceGetSpendingProcedure      = "/tripledger.v1.LedgerService/GetSpending"
	LedgerServiceListTransfersProcedure    = "/tripledger.v1.LedgerService/ListTransfers"
	LedgerServiceCompleteTransferProcedure = "/tripledger.v1.LedgerService/CompleteTransfer"
	LedgerServiceResetTransfersProcedure   = "/tripledger.v1.LedgerService/ResetTransfers"
)

// LedgerServiceHandler serves balances, settlements and transfers.
type LedgerServiceHandler interface {
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	GetSettlement(context.Context, *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error)
	GetSpending(context.Context, *connect.Request[api.GetSpendingRequest]) (*connect.Response[api.GetSpendingResponse], error)
	ListTransfers(context.Context, *connect.Request[api.ListTransfersRequest]) (*connect.Response[api.ListTransfersResponse], error)
	CompleteTransfer(context.Context, *connect.Request[api.CompleteTransferRequest]) (*connect.Response[api.CompleteTransferResponse], error)
	ResetTransfers(context.Context, *connect.Request[api.ResetTransfersRequest]) (*connect.Response[api.ResetTransfersResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withJSONHandler(opts)
	return serviceHandler(LedgerServiceName, map[string]http.Handler{
		LedgerServiceGetBalancesProcedure:      connect.NewUnaryHandler(LedgerServiceGetBalancesProcedure, svc.GetBalances, opts...),
		LedgerServiceGetSettlementProcedure:    connect.NewUnaryHandler(LedgerServiceGetSettlementProcedure, svc.GetSettlement, opts...),
		LedgerServiceGetSpendingProcedure:      connect.NewUnaryHandler(LedgerServiceGetSpendingProcedure, svc.GetSpending, opts...),
		LedgerServiceListTransfersProcedure:    connect.NewUnaryHandler(LedgerServiceListTransfersProcedure, svc.ListTransfers, opts...),
		LedgerServiceCompleteTransferProcedure: connect.NewUnaryHandler(LedgerServiceCompleteTransferProcedure, svc.CompleteTransfer, opts...),
		LedgerServiceResetTransfersProcedure:   connect.NewUnaryHandler(LedgerServiceResetTransfersProcedure, svc.ResetTransfers, opts...),
	})
}

// LedgerServiceClient is a client for the LedgerService.
type LedgerServiceClient interface {
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	GetSettlement(context.Context, *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error)
	GetSpending(context.Context, *connect.Request[api.GetSpendingRequest]) (*connect.Response[api.GetSpendingResponse], error)
	ListTransfers(context.Context, *connect.Request[api.ListTransfersRequest]) (*connect.Response[api.ListTransfersResponse], error)
	CompleteTransfer(context.Context, *connect.Request[api.CompleteTransferRequest]) (*connect.Response[api.CompleteTransferResponse], error)
	ResetTransfers(context.Context, *connect.Request[api.ResetTransfersRequest]) (*connect.Response[api.ResetTransfersResponse], error)
}

// NewLedgerServiceClient constructs a client for the LedgerService at baseURL
// (for example, http://localhost:8080).
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = withJSONClient(opts)
	return &ledgerServiceClient{
		getBalances:      connect.NewClient[api.GetBalancesRequest, api.GetBalancesResponse](httpClient, baseURL+LedgerServiceGetBalancesProcedure, opts...),
		getSettlement:    connect.NewClient[api.GetSettlementRequest, api.GetSettlementResponse](httpClient, baseURL+LedgerServiceGetSettlementProcedure, opts...),
		getSpending:      connect.NewClient[api.GetSpendingRequest, api.GetSpendingResponse](httpClient, baseURL+LedgerServiceGetSpendingProcedure, opts...),
		listTransfers:    connect.NewClient[api.ListTransfersRequest, api.ListTransfersResponse](httpClient, baseURL+LedgerServiceListTransfersProcedure, opts...),
		completeTransfer: connect.NewClient[api.CompleteTransferRequest, api.CompleteTransferResponse](httpClient, baseURL+LedgerServiceCompleteTransferProcedure, opts...),
		resetTransfers:   connect.NewClient[api.ResetTransfersRequest, api.ResetTransfersResponse](httpClient, baseURL+LedgerServiceResetTransfersProcedure, opts...),
	}
}

type ledgerServiceClient struct {
	getBalances      *connect.Client[api.GetBalancesRequest, api.GetBalancesResponse]
	getSettlement    *connect.Client[api.GetSettlementRequest, api.GetSettlementResponse]
	getSpending      *connect.Client[api.GetSpendingRequest, api.GetSpendingResponse]
	listTransfers    *connect.Client[api.ListTransfersRequest, api.ListTransfersResponse]
	completeTransfer *connect.Client[api.CompleteTransferRequest, api.CompleteTransferResponse]
	resetTransfers   *connect.Client[api.ResetTransfersRequest, api.ResetTransfersResponse]
}

func (c *ledgerServiceClient) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetSettlement(ctx context.Context, req *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	return c.getSettlement.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetSpending(ctx context.Context, req *connect.Request[api.GetSpendingRequest]) (*connect.Response[api.GetSpendingResponse], error) {
	return c.getSpending.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListTransfers(ctx context.Context, req *connect.Request[api.ListTransfersRequest]) (*connect.Response[api.ListTransfersResponse], error) {
	return c.listTransfers.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) CompleteTransfer(ctx context.Context, req *connect.Request[api.CompleteTransferRequest]) (*connect.Response[api.CompleteTransferResponse], error) {
	return c.completeTransfer.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ResetTransfers(ctx context.Context, req *connect.Request[api.ResetTransfersRequest]) (*connect.Response[api.ResetTransfersResponse], error) {
	return c.resetTransfers.CallUnary(ctx, req)
}
