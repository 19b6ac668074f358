package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateOnlyJSON(t *testing.T) {
	var date DateOnly
	if err := json.Unmarshal([]byte(`"2026-03-15"`), &date); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	if !date.Time().Equal(want) {
		t.Errorf("parsed %v, want %v", date.Time(), want)
	}

	out, err := json.Marshal(date)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"2026-03-15"` {
		t.Errorf("marshalled %s, want %q", out, "2026-03-15")
	}

	if err := json.Unmarshal([]byte(`"15/03/2026"`), &date); err == nil {
		t.Error("unmarshal of non-ISO date should fail")
	}
	if err := json.Unmarshal([]byte(`20260315`), &date); err == nil {
		t.Error("unmarshal of a number should fail")
	}
}

func TestDateOnlyScan(t *testing.T) {
	var date DateOnly
	want := time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)

	if err := date.Scan(want); err != nil {
		t.Fatalf("scan time.Time: %v", err)
	}
	if !date.Time().Equal(want) {
		t.Errorf("scanned %v, want %v", date.Time(), want)
	}

	if err := date.Scan([]byte("2026-01-02")); err != nil {
		t.Fatalf("scan []byte: %v", err)
	}
	if date.String() != "2026-01-02" {
		t.Errorf("scanned %q, want 2026-01-02", date.String())
	}

	if err := date.Scan(42); err == nil {
		t.Error("scan of an int should fail")
	}
}
