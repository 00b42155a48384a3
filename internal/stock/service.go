package stock

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/rg-retail/packsplit-backend/internal/events"
	"github.com/rg-retail/packsplit-backend/pkg/db/models"
	pkgerrors "github.com/rg-retail/packsplit-backend/pkg/errors"
	"github.com/rg-retail/packsplit-backend/pkg/metrics"
)

type productStore interface {
	FindByBarcode(ctx context.Context, barcode string) (*models.Product, error)
	CountRows(ctx context.Context) (int64, error)
}

type openLogCounter interface {
	Count(ctx context.Context) (int64, error)
}

// TableCounts reports row counts for the diagnostics view.
type TableCounts struct {
	Products int64 `json:"products"`
	Stock    int64 `json:"stock"`
	OpenLog  int64 `json:"open_log"`
}

// Service exposes snapshot reads, the administrative overwrite and the
// dashboard queries.
type Service interface {
	GetSnapshot(ctx context.Context, barcode string) (*models.StockSnapshot, error)
	SetStock(ctx context.Context, barcode string, closedBoxes, singles, sixpk int) (*models.StockSnapshot, error)
	Position(ctx context.Context) ([]PositionRow, error)
	LowStock(ctx context.Context, threshold int) ([]PositionRow, error)
	PositionCSV(ctx context.Context, w io.Writer) error
	Counts(ctx context.Context) (*TableCounts, error)
}

// Options carries the ambient collaborators; all fields are optional.
type Options struct {
	Metrics *metrics.LedgerMetrics
	Events  events.Publisher
}

type service struct {
	repo     Repository
	products productStore
	openLog  openLogCounter
	opts     Options
}

// NewService wires the stock service with its persistence collaborators.
func NewService(repo Repository, products productStore, openLog openLogCounter, opts Options) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "stock repository required")
	}
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "product finder required")
	}
	if openLog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "open log counter required")
	}
	return &service{
		repo:     repo,
		products: products,
		openLog:  openLog,
		opts:     opts,
	}, nil
}

// GetSnapshot returns the current balance, lazily creating the zero row on
// first access.
func (s *service) GetSnapshot(ctx context.Context, barcode string) (*models.StockSnapshot, error) {
	barcode, err := s.requireProduct(ctx, barcode)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.repo.EnsureRow(ctx, barcode)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock snapshot")
	}
	return snapshot, nil
}

// SetStock unconditionally overwrites the balance. This is the stocktake
// escape hatch: it bypasses the opening log entirely and is the only way the
// snapshot may diverge from a replay of the log.
func (s *service) SetStock(ctx context.Context, barcode string, closedBoxes, singles, sixpk int) (*models.StockSnapshot, error) {
	barcode, err := s.requireProduct(ctx, barcode)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.EnsureRow(ctx, barcode); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock snapshot")
	}
	if err := s.repo.Overwrite(ctx, barcode, closedBoxes, singles, sixpk); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "overwrite stock snapshot")
	}

	s.opts.Metrics.IncOverride()
	if s.opts.Events != nil {
		s.opts.Events.Emit(ctx, events.StockEvent{
			Kind:        events.KindStockOverride,
			Barcode:     barcode,
			ClosedBoxes: closedBoxes,
			Singles:     singles,
			Sixpk:       sixpk,
		})
	}

	snapshot, err := s.repo.Get(ctx, barcode)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload stock snapshot")
	}
	return snapshot, nil
}

func (s *service) Position(ctx context.Context) ([]PositionRow, error) {
	rows, err := s.repo.Position(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock position")
	}
	return rows, nil
}

func (s *service) LowStock(ctx context.Context, threshold int) ([]PositionRow, error) {
	if threshold < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "threshold must be non-negative")
	}
	rows, err := s.repo.LowStock(ctx, threshold)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load low stock")
	}
	return rows, nil
}

// PositionCSV streams the full position as CSV, one row per product.
func (s *service) PositionCSV(ctx context.Context, w io.Writer) error {
	rows, err := s.Position(ctx)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	header := []string{"barcode", "description", "pack_size", "closed_boxes", "singles", "sixpk", "total_units_equiv"}
	if err := writer.Write(header); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write csv header")
	}
	for _, row := range rows {
		packSize := ""
		if row.PackSize != nil {
			packSize = strconv.Itoa(*row.PackSize)
		}
		record := []string{
			row.Barcode,
			row.Description,
			packSize,
			strconv.Itoa(row.ClosedBoxes),
			strconv.Itoa(row.Singles),
			strconv.Itoa(row.Sixpk),
			strconv.Itoa(row.TotalUnitsEquiv),
		}
		if err := writer.Write(record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write csv row")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "flush csv")
	}
	return nil
}

func (s *service) Counts(ctx context.Context) (*TableCounts, error) {
	counts := &TableCounts{}

	var err error
	if counts.Stock, err = s.repo.CountRows(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count stock rows")
	}
	if counts.OpenLog, err = s.openLog.Count(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count open log rows")
	}
	if counts.Products, err = s.products.CountRows(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}
	return counts, nil
}

func (s *service) requireProduct(ctx context.Context, barcode string) (string, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "barcode is required")
	}
	product, err := s.products.FindByBarcode(ctx, barcode)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product == nil {
		return "", pkgerrors.New(pkgerrors.CodeNotFound, "product not found: "+barcode)
	}
	return barcode, nil
}
