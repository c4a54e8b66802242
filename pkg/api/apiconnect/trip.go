package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/pkg/api"
)

const (
	// TripServiceName is the fully-qualified name of the TripService.
	TripServiceName = "tripledger.v1.TripService"

	TripServiceCreateTripProcedure   = "/tripledger.v1.TripService/CreateTrip"
	TripServiceGetTripProcedure      = "/tripledger.v1.TripService/GetTrip"
	TripServiceAddMembersProcedure   = "/tripledger.v1.TripService/AddMembers"
	TripServiceRemoveMemberProcedure = "/tripledger.v1.TripService/RemoveMember"
)

// TripServiceHandler manages trips and their membership.
type TripServiceHandler interface {
	CreateTrip(context.Context, *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error)
	GetTrip(context.Context, *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error)
	AddMembers(context.Context, *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error)
}

// NewTripServiceHandler builds an HTTP handler from the service
// implementation.
func NewTripServiceHandler(svc TripServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withJSONHandler(opts)
	return serviceHandler(TripServiceName, map[string]http.Handler{
		TripServiceCreateTripProcedure:   connect.NewUnaryHandler(TripServiceCreateTripProcedure, svc.CreateTrip, opts...),
		TripServiceGetTripProcedure:      connect.NewUnaryHandler(TripServiceGetTripProcedure, svc.GetTrip, opts...),
		TripServiceAddMembersProcedure:   connect.NewUnaryHandler(TripServiceAddMembersProcedure, svc.AddMembers, opts...),
		TripServiceRemoveMemberProcedure: connect.NewUnaryHandler(TripServiceRemoveMemberProcedure, svc.RemoveMember, opts...),
	})
}

// TripServiceClient is a client for the TripService.
type TripServiceClient interface {
	CreateTrip(context.Context, *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error)
	GetTrip(context.Context, *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error)
	AddMembers(context.Context, *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error)
	RemoveMember(context.Context, *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error)
}

// NewTripServiceClient constructs a client for the TripService.
func NewTripServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) TripServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = withJSONClient(opts)
	return &tripServiceClient{
		createTrip:   connect.NewClient[api.CreateTripRequest, api.CreateTripResponse](httpClient, baseURL+TripServiceCreateTripProcedure, opts...),
		getTrip:      connect.NewClient[api.GetTripRequest, api.GetTripResponse](httpClient, baseURL+TripServiceGetTripProcedure, opts...),
		addMembers:   connect.NewClient[api.AddMembersRequest, api.AddMembersResponse](httpClient, baseURL+TripServiceAddMembersProcedure, opts...),
		removeMember: connect.NewClient[api.RemoveMemberRequest, api.RemoveMemberResponse](httpClient, baseURL+TripServiceRemoveMemberProcedure, opts...),
	}
}

type tripServiceClient struct {
	createTrip   *connect.Client[api.CreateTripRequest, api.CreateTripResponse]
	getTrip      *connect.Client[api.GetTripRequest, api.GetTripResponse]
	addMembers   *connect.Client[api.AddMembersRequest, api.AddMembersResponse]
	removeMember *connect.Client[api.RemoveMemberRequest, api.RemoveMemberResponse]
}

func (c *tripServiceClient) CreateTrip(ctx context.Context, req *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error) {
	return c.createTrip.CallUnary(ctx, req)
}

func (c *tripServiceClient) GetTrip(ctx context.Context, req *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error) {
	return c.getTrip.CallUnary(ctx, req)
}

func (c *tripServiceClient) AddMembers(ctx context.Context, req *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error) {
	return c.addMembers.CallUnary(ctx, req)
}

func (c *tripServiceClient) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	return c.removeMember.CallUnary(ctx, req)
}
