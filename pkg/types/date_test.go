package types

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2026-08-30 ")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if d.String() != "2026-08-30" {
		t.Fatalf("unexpected date %s", d)
	}

	if _, err := ParseDate("30/08/2026"); err == nil {
		t.Fatalf("expected error for wrong layout")
	}
	if _, err := ParseDate(""); err == nil {
		t.Fatalf("expected error for empty string")
	}
}

func TestDateOfTruncates(t *testing.T) {
	stamp := time.Date(2026, 8, 30, 23, 59, 1, 0, time.UTC)
	d := DateOf(stamp)
	if d.Hour() != 0 || d.Minute() != 0 {
		t.Fatalf("expected midnight, got %v", d.Time)
	}
	if d.String() != "2026-08-30" {
		t.Fatalf("unexpected date %s", d)
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d, _ := ParseDate("2026-01-05")
	payload, err := json.Marshal(struct {
		LogDate Date `json:"log_date"`
	}{LogDate: d})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(payload) != `{"log_date":"2026-01-05"}` {
		t.Fatalf("unexpected payload %s", payload)
	}

	var decoded struct {
		LogDate Date `json:"log_date"`
	}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.LogDate.String() != "2026-01-05" {
		t.Fatalf("round trip mismatch: %s", decoded.LogDate)
	}

	if err := json.Unmarshal([]byte(`{"log_date":"bad"}`), &decoded); err == nil {
		t.Fatalf("expected error for malformed date")
	}
}
