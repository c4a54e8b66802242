package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/reconcile"
	"github.com/mmynk/tripledger/internal/storage"
	"github.com/mmynk/tripledger/pkg/api"
	"github.com/mmynk/tripledger/pkg/api/apiconnect"
)

var _ apiconnect.TripServiceHandler = (*TripService)(nil)

// TripService implements the Connect TripService
type TripService struct {
	store      storage.Store
	reconciler *reconcile.Reconciler
}

// NewTripService creates a new TripService with the given storage backend.
func NewTripService(store storage.Store, reconciler *reconcile.Reconciler) *TripService {
	return &TripService{store: store, reconciler: reconciler}
}

// CreateTrip creates a new trip. The caller becomes its first member.
func (s *TripService) CreateTrip(ctx context.Context, req *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error) {
	caller, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateTrip request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
	)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("name required"))
	}

	trip := &models.Trip{
		Name:      name,
		Members:   models.NewParticipants(req.Msg.Members...),
		CreatedBy: caller,
	}
	if err := s.store.CreateTrip(ctx, trip); err != nil {
		slog.Error("CreateTrip failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Trip created", "trip_id", trip.ID)

	return connect.NewResponse(&api.CreateTripResponse{Trip: toAPITrip(trip)}), nil
}

// GetTrip retrieves a trip the caller belongs to.
func (s *TripService) GetTrip(ctx context.Context, req *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error) {
	slog.Info("GetTrip request received", "trip_id", req.Msg.TripID)

	trip, _, err := requireMember(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	return connect.NewResponse(&api.GetTripResponse{Trip: toAPITrip(trip)}), nil
}

// AddMembers adds usernames to a trip. Expenses that were excluded because
// they named these users start counting again, so the ledger is re-synced.
func (s *TripService) AddMembers(ctx context.Context, req *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error) {
	slog.Info("AddMembers request received",
		"trip_id", req.Msg.TripID,
		"usernames_count", len(req.Msg.Usernames),
	)

	_, caller, err := requireMember(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	usernames := models.NewParticipants(req.Msg.Usernames...)
	if len(usernames) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("usernames required"))
	}

	if err := s.store.AddTripMembers(ctx, req.Msg.TripID, usernames); err != nil {
		slog.Error("AddMembers failed", "trip_id", req.Msg.TripID, "error", err)
		return nil, toConnectError(err)
	}
	syncAfter(ctx, s.reconciler, req.Msg.TripID, caller, "members added")

	trip, err := s.store.GetTrip(ctx, req.Msg.TripID)
	if err != nil {
		return nil, toConnectError(err)
	}
	slog.Info("Members added", "trip_id", trip.ID, "members_count", len(trip.Members))

	return connect.NewResponse(&api.AddMembersResponse{Trip: toAPITrip(trip)}), nil
}

// RemoveMember removes a username from a trip. Expenses naming the removed
// member stop counting towards balances.
func (s *TripService) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	slog.Info("RemoveMember request received",
		"trip_id", req.Msg.TripID,
		"username", req.Msg.Username,
	)

	trip, caller, err := requireMember(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(req.Msg.Username)
	if username == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("username required"))
	}
	if username == trip.CreatedBy {
		return nil, connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf("the trip creator cannot be removed"))
	}

	if err := s.store.RemoveTripMember(ctx, trip.ID, username); err != nil {
		slog.Error("RemoveMember failed", "trip_id", trip.ID, "error", err)
		return nil, toConnectError(err)
	}
	syncAfter(ctx, s.reconciler, trip.ID, caller, "member removed")

	trip, err = s.store.GetTrip(ctx, trip.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	slog.Info("Member removed", "trip_id", trip.ID, "username", username)

	return connect.NewResponse(&api.RemoveMemberResponse{Trip: toAPITrip(trip)}), nil
}
