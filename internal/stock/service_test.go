package stock

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rg-retail/packsplit-backend/internal/events"
	"github.com/rg-retail/packsplit-backend/pkg/db/models"
	pkgerrors "github.com/rg-retail/packsplit-backend/pkg/errors"
	"gorm.io/gorm"
)

type stubStockRepo struct {
	snapshots map[string]*models.StockSnapshot
	position  []PositionRow
}

func newStubStockRepo() *stubStockRepo {
	return &stubStockRepo{snapshots: make(map[string]*models.StockSnapshot)}
}

func (s *stubStockRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubStockRepo) Get(ctx context.Context, barcode string) (*models.StockSnapshot, error) {
	snapshot, ok := s.snapshots[barcode]
	if !ok {
		return nil, nil
	}
	copied := *snapshot
	return &copied, nil
}

func (s *stubStockRepo) EnsureRow(ctx context.Context, barcode string) (*models.StockSnapshot, error) {
	if _, ok := s.snapshots[barcode]; !ok {
		s.snapshots[barcode] = &models.StockSnapshot{Barcode: barcode}
	}
	copied := *s.snapshots[barcode]
	return &copied, nil
}

func (s *stubStockRepo) Overwrite(ctx context.Context, barcode string, closedBoxes, singles, sixpk int) error {
	s.snapshots[barcode] = &models.StockSnapshot{
		Barcode:     barcode,
		ClosedBoxes: closedBoxes,
		Singles:     singles,
		Sixpk:       sixpk,
	}
	return nil
}

func (s *stubStockRepo) CompareAndSwap(ctx context.Context, prior, next *models.StockSnapshot) (bool, error) {
	copied := *next
	s.snapshots[next.Barcode] = &copied
	return true, nil
}

func (s *stubStockRepo) Position(ctx context.Context) ([]PositionRow, error) {
	return s.position, nil
}

func (s *stubStockRepo) LowStock(ctx context.Context, threshold int) ([]PositionRow, error) {
	var rows []PositionRow
	for _, row := range s.position {
		if row.ClosedBoxes <= threshold {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (s *stubStockRepo) CountRows(ctx context.Context) (int64, error) {
	return int64(len(s.snapshots)), nil
}

type stubProductStore struct {
	products map[string]*models.Product
}

func (s *stubProductStore) FindByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	product, ok := s.products[barcode]
	if !ok {
		return nil, nil
	}
	return product, nil
}

func (s *stubProductStore) CountRows(ctx context.Context) (int64, error) {
	return int64(len(s.products)), nil
}

type stubCounter struct{ count int64 }

func (s *stubCounter) Count(ctx context.Context) (int64, error) { return s.count, nil }

type capturingPublisher struct {
	emitted []events.StockEvent
}

func (c *capturingPublisher) Emit(ctx context.Context, event events.StockEvent) {
	c.emitted = append(c.emitted, event)
}

func newStockTestService(t *testing.T, repo Repository, products *stubProductStore, publisher events.Publisher) Service {
	t.Helper()
	svc, err := NewService(repo, products, &stubCounter{count: 7}, Options{Events: publisher})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestGetSnapshotLazyInit(t *testing.T) {
	repo := newStubStockRepo()
	products := &stubProductStore{products: map[string]*models.Product{
		"111": {Barcode: "111", Description: "widget"},
	}}
	svc := newStockTestService(t, repo, products, nil)

	snapshot, err := svc.GetSnapshot(context.Background(), "111")
	if err != nil {
		t.Fatalf("get snapshot failed: %v", err)
	}
	if snapshot.ClosedBoxes != 0 || snapshot.Singles != 0 || snapshot.Sixpk != 0 {
		t.Fatalf("expected zero snapshot, got %+v", snapshot)
	}
	if _, ok := repo.snapshots["111"]; !ok {
		t.Fatalf("expected lazy row to persist")
	}
}

func TestGetSnapshotUnknownProduct(t *testing.T) {
	svc := newStockTestService(t, newStubStockRepo(), &stubProductStore{products: map[string]*models.Product{}}, nil)

	_, err := svc.GetSnapshot(context.Background(), "missing")
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSetStockOverridesAndEmits(t *testing.T) {
	repo := newStubStockRepo()
	products := &stubProductStore{products: map[string]*models.Product{
		"111": {Barcode: "111", Description: "widget"},
	}}
	publisher := &capturingPublisher{}
	svc := newStockTestService(t, repo, products, publisher)

	snapshot, err := svc.SetStock(context.Background(), "111", 9, 4, 2)
	if err != nil {
		t.Fatalf("set stock failed: %v", err)
	}
	if snapshot.ClosedBoxes != 9 || snapshot.Singles != 4 || snapshot.Sixpk != 2 {
		t.Fatalf("unexpected snapshot after override: %+v", snapshot)
	}

	if len(publisher.emitted) != 1 {
		t.Fatalf("expected one stock event, got %d", len(publisher.emitted))
	}
	if publisher.emitted[0].Kind != events.KindStockOverride {
		t.Fatalf("unexpected event kind %s", publisher.emitted[0].Kind)
	}
}

func TestLowStockRejectsNegativeThreshold(t *testing.T) {
	svc := newStockTestService(t, newStubStockRepo(), &stubProductStore{products: map[string]*models.Product{}}, nil)

	_, err := svc.LowStock(context.Background(), -1)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPositionCSV(t *testing.T) {
	packSize := 24
	repo := newStubStockRepo()
	repo.position = []PositionRow{
		{Barcode: "111", Description: "widget, large", PackSize: &packSize, ClosedBoxes: 2, Singles: 3, Sixpk: 1, TotalUnitsEquiv: 57},
		{Barcode: "222", Description: "gadget", ClosedBoxes: 0, TotalUnitsEquiv: 0},
	}
	svc := newStockTestService(t, repo, &stubProductStore{products: map[string]*models.Product{}}, nil)

	var buf bytes.Buffer
	if err := svc.PositionCSV(context.Background(), &buf); err != nil {
		t.Fatalf("csv export failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "barcode,description,pack_size,closed_boxes,singles,sixpk,total_units_equiv" {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	// Comma in the description must be quoted.
	if !strings.Contains(lines[1], `"widget, large"`) {
		t.Fatalf("expected quoted description, got %s", lines[1])
	}
	if !strings.HasSuffix(lines[2], ",,0,0,0,0") {
		t.Fatalf("expected empty pack size and zero balances, got %s", lines[2])
	}
}

func TestCounts(t *testing.T) {
	repo := newStubStockRepo()
	products := &stubProductStore{products: map[string]*models.Product{
		"111": {Barcode: "111"},
		"222": {Barcode: "222"},
	}}
	svc := newStockTestService(t, repo, products, nil)

	if _, err := svc.GetSnapshot(context.Background(), "111"); err != nil {
		t.Fatalf("get snapshot failed: %v", err)
	}

	counts, err := svc.Counts(context.Background())
	if err != nil {
		t.Fatalf("counts failed: %v", err)
	}
	if counts.Products != 2 || counts.Stock != 1 || counts.OpenLog != 7 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}
