package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/pkg/api"
)

func TestCreateTrip(t *testing.T) {
	c := setupTestServer(t)

	trip := createTrip(t, c, "alice", "bob", " carol ", "bob", "")

	if trip.ID == "" {
		t.Error("expected non-empty trip ID")
	}
	if trip.CreatedBy != "alice" {
		t.Errorf("created_by: expected alice, got %s", trip.CreatedBy)
	}
	if len(trip.Members) != 3 {
		t.Fatalf("expected 3 members, got %v", trip.Members)
	}
	if trip.Members[0] != "alice" {
		t.Errorf("expected creator to be the first member, got %v", trip.Members)
	}
}

func TestCreateTrip_Validation(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	_, err := c.trips.CreateTrip(ctx, as("alice", &api.CreateTripRequest{Name: "  "}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = c.trips.CreateTrip(ctx, as("", &api.CreateTripRequest{Name: "Lisbon"}))
	assertCode(t, err, connect.CodeUnauthenticated)
}

func TestGetTrip(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	trip := createTrip(t, c, "alice", "bob")

	resp, err := c.trips.GetTrip(ctx, as("bob", &api.GetTripRequest{TripID: trip.ID}))
	if err != nil {
		t.Fatalf("GetTrip failed: %v", err)
	}
	if resp.Msg.Trip.Name != "Lisbon" {
		t.Errorf("name: expected Lisbon, got %s", resp.Msg.Trip.Name)
	}

	_, err = c.trips.GetTrip(ctx, as("mallory", &api.GetTripRequest{TripID: trip.ID}))
	assertCode(t, err, connect.CodePermissionDenied)

	_, err = c.trips.GetTrip(ctx, as("alice", &api.GetTripRequest{TripID: "missing"}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = c.trips.GetTrip(ctx, as("alice", &api.GetTripRequest{}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestMembership(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	trip := createTrip(t, c, "alice", "bob", "carol")

	t.Run("add members", func(t *testing.T) {
		resp, err := c.trips.AddMembers(ctx, as("bob", &api.AddMembersRequest{
			TripID:    trip.ID,
			Usernames: []string{"dave", "alice"},
		}))
		if err != nil {
			t.Fatalf("AddMembers failed: %v", err)
		}
		if len(resp.Msg.Trip.Members) != 4 {
			t.Errorf("expected 4 members, got %v", resp.Msg.Trip.Members)
		}

		_, err = c.trips.AddMembers(ctx, as("bob", &api.AddMembersRequest{TripID: trip.ID}))
		assertCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("remove member", func(t *testing.T) {
		resp, err := c.trips.RemoveMember(ctx, as("alice", &api.RemoveMemberRequest{TripID: trip.ID, Username: "dave"}))
		if err != nil {
			t.Fatalf("RemoveMember failed: %v", err)
		}
		for _, m := range resp.Msg.Trip.Members {
			if m == "dave" {
				t.Error("expected dave to be removed")
			}
		}

		_, err = c.trips.RemoveMember(ctx, as("alice", &api.RemoveMemberRequest{TripID: trip.ID, Username: "dave"}))
		assertCode(t, err, connect.CodeNotFound)

		_, err = c.trips.RemoveMember(ctx, as("bob", &api.RemoveMemberRequest{TripID: trip.ID, Username: "alice"}))
		assertCode(t, err, connect.CodeFailedPrecondition)
	})

	t.Run("removed member loses access", func(t *testing.T) {
		if _, err := c.trips.RemoveMember(ctx, as("alice", &api.RemoveMemberRequest{TripID: trip.ID, Username: "carol"})); err != nil {
			t.Fatalf("RemoveMember failed: %v", err)
		}
		_, err := c.trips.GetTrip(ctx, as("carol", &api.GetTripRequest{TripID: trip.ID}))
		assertCode(t, err, connect.CodePermissionDenied)
	})
}
