package middleware

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/internal/auth"
	"github.com/mmynk/tripledger/internal/metrics"
)

type ping struct{}

// captureUsername runs interceptor around a handler that records the
// username it sees.
func captureUsername(t *testing.T, interceptor connect.UnaryInterceptorFunc, header http.Header) (string, error) {
	t.Helper()
	var seen string
	handler := interceptor(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		seen = GetUsername(ctx)
		return connect.NewResponse(&ping{}), nil
	})

	req := connect.NewRequest(&ping{})
	for k, vs := range header {
		for _, v := range vs {
			req.Header().Add(k, v)
		}
	}
	_, err := handler(context.Background(), req)
	return seen, err
}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour)
	token, err := jwtManager.Generate("alice")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	tests := []struct {
		name     string
		header   string
		wantUser string
		wantCode connect.Code
	}{
		{"valid token", "Bearer " + token, "alice", 0},
		{"missing header", "", "", connect.CodeUnauthenticated},
		{"wrong scheme", "Basic " + token, "", connect.CodeUnauthenticated},
		{"garbage token", "Bearer nope", "", connect.CodeUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.header != "" {
				header.Set("Authorization", tt.header)
			}
			got, err := captureUsername(t, RequireAuth(jwtManager), header)
			if tt.wantCode != 0 {
				if connect.CodeOf(err) != tt.wantCode {
					t.Fatalf("Expected %v, got %v", tt.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.wantUser {
				t.Errorf("Expected username %q, got %q", tt.wantUser, got)
			}
		})
	}
}

func TestTrustedHeaderAuth(t *testing.T) {
	got, err := captureUsername(t, TrustedHeaderAuth("X-Username"), http.Header{"X-Username": {" bob "}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != "bob" {
		t.Errorf("Expected bob, got %q", got)
	}

	if _, err := captureUsername(t, TrustedHeaderAuth("X-Username"), http.Header{}); connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Errorf("Expected Unauthenticated, got %v", err)
	}
}

func TestLoggingAndMetricsInterceptors(t *testing.T) {
	m := metrics.New(nil)
	chain := func(next connect.UnaryFunc) connect.UnaryFunc {
		return LoggingInterceptor()(MetricsInterceptor(m)(next))
	}

	failing := chain(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("trip not found"))
	})
	if _, err := failing(context.Background(), connect.NewRequest(&ping{})); connect.CodeOf(err) != connect.CodeNotFound {
		t.Errorf("Expected NotFound to pass through, got %v", err)
	}

	ok := chain(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return connect.NewResponse(&ping{}), nil
	})
	if _, err := ok(WithUsername(context.Background(), "alice"), connect.NewRequest(&ping{})); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}
