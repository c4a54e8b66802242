package models

import (
	"reflect"
	"testing"
)

func TestParseParticipants(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Participants
		wantErr bool
	}{
		{name: "json array", raw: `["alice","bob"]`, want: Participants{"alice", "bob"}},
		{name: "comma delimited", raw: "alice,bob, carol", want: Participants{"alice", "bob", "carol"}},
		{name: "semicolon delimited", raw: "alice; bob", want: Participants{"alice", "bob"}},
		{name: "duplicates and blanks dropped", raw: `["alice"," alice ","","bob"]`, want: Participants{"alice", "bob"}},
		{name: "empty string", raw: "", want: Participants{}},
		{name: "broken array", raw: `["alice",`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseParticipants(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseParticipants(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseParticipants(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParticipantsScan(t *testing.T) {
	var p Participants
	if err := p.Scan([]byte("alice,bob")); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if !reflect.DeepEqual(p, Participants{"alice", "bob"}) {
		t.Errorf("Scan = %v", p)
	}

	if err := p.Scan(42); err == nil {
		t.Error("expected error scanning an int")
	}

	v, err := Participants{"alice", "bob"}.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if v != `["alice","bob"]` {
		t.Errorf("Value = %v", v)
	}
}

func TestTransferIsCreditor(t *testing.T) {
	tr := &Transfer{From: "bob", To: "Alice"}
	if !tr.IsCreditor(" alice ") {
		t.Error("expected case-insensitive creditor match")
	}
	if tr.IsCreditor("bob") {
		t.Error("debtor must not match as creditor")
	}
}
