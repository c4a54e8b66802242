package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/tripledger/internal/middleware"
	"github.com/mmynk/tripledger/internal/reconcile"
	"github.com/mmynk/tripledger/internal/storage/sqlite"
	"github.com/mmynk/tripledger/pkg/api"
	"github.com/mmynk/tripledger/pkg/api/apiconnect"
)

const testUserHeader = "X-Test-User"

type testClients struct {
	trips    apiconnect.TripServiceClient
	expenses apiconnect.ExpenseServiceClient
	ledger   apiconnect.LedgerServiceClient
	store    *sqlite.SQLiteStore
}

// setupTestServer serves all three services against a temp database. The
// caller is taken from the X-Test-User header.
func setupTestServer(t *testing.T) *testClients {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	reconciler := reconcile.New(store, nil)

	interceptors := connect.WithInterceptors(middleware.TrustedHeaderAuth(testUserHeader))

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewTripServiceHandler(NewTripService(store, reconciler), interceptors))
	mux.Handle(apiconnect.NewExpenseServiceHandler(NewExpenseService(store, reconciler), interceptors))
	mux.Handle(apiconnect.NewLedgerServiceHandler(NewLedgerService(store, reconciler), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testClients{
		trips:    apiconnect.NewTripServiceClient(http.DefaultClient, server.URL),
		expenses: apiconnect.NewExpenseServiceClient(http.DefaultClient, server.URL),
		ledger:   apiconnect.NewLedgerServiceClient(http.DefaultClient, server.URL),
		store:    store,
	}
}

// as builds a request made by user.
func as[T any](user string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	if user != "" {
		req.Header().Set(testUserHeader, user)
	}
	return req
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected code %v, got %v (%v)", want, got, err)
	}
}

func createTrip(t *testing.T, c *testClients, creator string, members ...string) *api.Trip {
	t.Helper()
	resp, err := c.trips.CreateTrip(context.Background(), as(creator, &api.CreateTripRequest{
		Name:    "Lisbon",
		Members: members,
	}))
	if err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}
	return resp.Msg.Trip
}

func addExpense(t *testing.T, c *testClients, payer, tripID, amount string, participants ...string) *api.AddExpenseResponse {
	t.Helper()
	resp, err := c.expenses.AddExpense(context.Background(), as(payer, &api.AddExpenseRequest{
		TripID:       tripID,
		Amount:       decimal.RequireFromString(amount),
		Participants: participants,
	}))
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	return resp.Msg
}
