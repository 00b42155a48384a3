package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rg-retail/packsplit-backend/internal/ledger"
	pkgerrors "github.com/rg-retail/packsplit-backend/pkg/errors"
)

type stubLedgerService struct {
	apply   *ledger.ApplyResult
	undo    *ledger.UndoResult
	preview *ledger.PreviewResult
	entries []ledger.DayEntry
	err     error

	lastApply ledger.ApplyOpeningInput
	lastDay   time.Time
}

func (s *stubLedgerService) ApplyOpening(ctx context.Context, input ledger.ApplyOpeningInput) (*ledger.ApplyResult, error) {
	s.lastApply = input
	return s.apply, s.err
}

func (s *stubLedgerService) UndoLastEntry(ctx context.Context) (*ledger.UndoResult, error) {
	return s.undo, s.err
}

func (s *stubLedgerService) PreviewSplit(ctx context.Context, input ledger.PreviewInput) (*ledger.PreviewResult, error) {
	return s.preview, s.err
}

func (s *stubLedgerService) EntriesForDate(ctx context.Context, day time.Time) ([]ledger.DayEntry, error) {
	s.lastDay = day
	return s.entries, s.err
}

func TestApplyOpeningSuccess(t *testing.T) {
	svc := &stubLedgerService{apply: &ledger.ApplyResult{
		EventID:        42,
		Barcode:        "0123",
		Description:    "Cola 330ml",
		NewClosedBoxes: 8,
		NewSingles:     80,
		DerivedSingles: 80,
	}}
	handler := ApplyOpening(svc, nil)

	payload := `{"barcode":"0123","boxes_opened":2,"date":"2026-08-14","note":"evening shift"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/openings", bytes.NewReader([]byte(payload)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastApply.Barcode != "0123" || svc.lastApply.BoxesOpened != 2 {
		t.Fatalf("expected input forwarded, got %+v", svc.lastApply)
	}
	if svc.lastApply.Date.Format("2006-01-02") != "2026-08-14" {
		t.Fatalf("expected parsed date, got %v", svc.lastApply.Date)
	}

	var envelope struct {
		Data ledger.ApplyResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.EventID != 42 || envelope.Data.NewSingles != 80 {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestApplyOpeningRejectsBadDate(t *testing.T) {
	handler := ApplyOpening(&stubLedgerService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/openings", bytes.NewReader([]byte(`{"barcode":"0123","boxes_opened":1,"date":"14/08/2026"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestApplyOpeningSurfacesConflict(t *testing.T) {
	svc := &stubLedgerService{err: pkgerrors.New(pkgerrors.CodeConflict, "stock changed during apply")}
	handler := ApplyOpening(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/openings", bytes.NewReader([]byte(`{"barcode":"0123","boxes_opened":1}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestUndoOpeningEmptyLog(t *testing.T) {
	svc := &stubLedgerService{undo: &ledger.UndoResult{Found: false}}
	handler := UndoOpening(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/openings/undo", nil)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data ledger.UndoResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Found {
		t.Fatalf("expected found=false on empty log")
	}
}

func TestPreviewOpeningInvalidPolicy(t *testing.T) {
	svc := &stubLedgerService{err: pkgerrors.New(pkgerrors.CodeInvalidPolicy, "unknown split policy")}
	handler := PreviewOpening(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/openings/preview", bytes.NewReader([]byte(`{"barcode":"0123","boxes_opened":1}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}

func TestListOpeningsForwardsDate(t *testing.T) {
	svc := &stubLedgerService{entries: []ledger.DayEntry{{EventID: 1, Barcode: "0123", BoxesOpened: 2}}}
	handler := ListOpenings(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/openings?date=2026-08-14", nil)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastDay.Format("2006-01-02") != "2026-08-14" {
		t.Fatalf("expected parsed date, got %v", svc.lastDay)
	}

	var envelope struct {
		Data []ledger.DayEntry `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0].EventID != 1 {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestListOpeningsRejectsBadDate(t *testing.T) {
	handler := ListOpenings(&stubLedgerService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/openings?date=yesterday", nil)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
