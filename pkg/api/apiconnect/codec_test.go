package apiconnect

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tripledger/pkg/api"
)

func TestJSONCodec(t *testing.T) {
	codec := jsonCodec{}
	if codec.Name() != "json" {
		t.Errorf("Name() = %s, want json", codec.Name())
	}

	t.Run("amount accepts numbers and strings", func(t *testing.T) {
		for _, body := range []string{
			`{"trip_id":"t1","amount":12.5,"participants":["a"]}`,
			`{"trip_id":"t1","amount":"12.50","participants":["a"]}`,
		} {
			var req api.AddExpenseRequest
			if err := codec.Unmarshal([]byte(body), &req); err != nil {
				t.Fatalf("Unmarshal(%s) failed: %v", body, err)
			}
			if !req.Amount.Equal(decimal.RequireFromString("12.5")) {
				t.Errorf("Amount = %s, want 12.5", req.Amount)
			}
		}
	})

	t.Run("empty body is an empty message", func(t *testing.T) {
		var req api.ResetTransfersRequest
		if err := codec.Unmarshal(nil, &req); err != nil {
			t.Fatalf("Unmarshal(nil) failed: %v", err)
		}
		if req.Mode != "" {
			t.Errorf("Expected zero value, got %+v", req)
		}
	})

	t.Run("ledger sync fields are flattened", func(t *testing.T) {
		b, err := codec.Marshal(&api.DeleteExpenseResponse{LedgerSync: api.LedgerSync{LedgerSynced: true}})
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		if string(b) != `{"ledger_synced":true}` {
			t.Errorf("Marshal = %s", b)
		}
	})
}
