package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/rg-retail/packsplit-backend/internal/catalog"
	"github.com/rg-retail/packsplit-backend/internal/events"
	"github.com/rg-retail/packsplit-backend/internal/stock"
	"github.com/rg-retail/packsplit-backend/pkg/db/models"
	pkgerrors "github.com/rg-retail/packsplit-backend/pkg/errors"
	"github.com/rg-retail/packsplit-backend/pkg/metrics"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service orchestrates apply/undo over the catalog, snapshot and event stores.
type Service interface {
	ApplyOpening(ctx context.Context, input ApplyOpeningInput) (*ApplyResult, error)
	UndoLastEntry(ctx context.Context) (*UndoResult, error)
	PreviewSplit(ctx context.Context, input PreviewInput) (*PreviewResult, error)
	EntriesForDate(ctx context.Context, day time.Time) ([]DayEntry, error)
}

// Options carries the ambient collaborators; all fields are optional.
type Options struct {
	Metrics             *metrics.LedgerMetrics
	Events              events.Publisher
	RejectNegativeBoxes bool
}

type service struct {
	repo      Repository
	products  catalog.Repository
	snapshots stock.Repository
	tx        txRunner
	opts      Options
}

// NewService wires the ledger service with its persistence collaborators.
func NewService(repo Repository, products catalog.Repository, snapshots stock.Repository, tx txRunner, opts Options) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "opening event repository required")
	}
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "catalog repository required")
	}
	if snapshots == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "stock repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	return &service{
		repo:      repo,
		products:  products,
		snapshots: snapshots,
		tx:        tx,
		opts:      opts,
	}, nil
}

func (s *service) ApplyOpening(ctx context.Context, input ApplyOpeningInput) (*ApplyResult, error) {
	barcode := strings.TrimSpace(input.Barcode)
	if barcode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "barcode is required")
	}
	if input.BoxesOpened < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "boxes opened must be non-negative")
	}

	logDate := input.Date
	if logDate.IsZero() {
		logDate = time.Now().UTC()
	}

	start := time.Now()
	var (
		result *ApplyResult
		policy string
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)
		snapshots := s.snapshots.WithTx(tx)
		repo := s.repo.WithTx(tx)

		product, err := products.FindByBarcode(ctx, barcode)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		if product == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found: "+barcode)
		}
		policy = product.SplitMode.String()

		prior, err := snapshots.EnsureRow(ctx, barcode)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock snapshot")
		}

		split, err := DeriveSplit(
			product.SplitMode,
			product.AutoSinglesPerBox,
			product.AutoSixpkPerBox,
			input.BoxesOpened,
			input.ManualSingles,
			input.ManualSixpk,
		)
		if err != nil {
			return err
		}

		next := &models.StockSnapshot{
			Barcode:     barcode,
			ClosedBoxes: prior.ClosedBoxes - input.BoxesOpened,
			Singles:     prior.Singles + split.DerivedSingles,
			Sixpk:       prior.Sixpk + split.DerivedSixpk,
		}
		if s.opts.RejectNegativeBoxes && next.ClosedBoxes < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "opening would drive closed boxes negative")
		}

		event := &models.OpeningEvent{
			LogDate:        logDate,
			Barcode:        barcode,
			BoxesOpened:    input.BoxesOpened,
			SinglesMade:    split.StoredSingles,
			SixpkMade:      split.StoredSixpk,
			DerivedSingles: split.DerivedSingles,
			DerivedSixpk:   split.DerivedSixpk,
			Note:           strings.TrimSpace(input.Note),
		}
		if err := repo.Create(ctx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append opening event")
		}

		swapped, err := snapshots.CompareAndSwap(ctx, prior, next)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist stock snapshot")
		}
		if !swapped {
			s.opts.Metrics.IncConflict()
			return pkgerrors.New(pkgerrors.CodeConflict, "stock changed concurrently, retry the opening")
		}

		result = &ApplyResult{
			EventID:        event.ID,
			Barcode:        barcode,
			Description:    product.Description,
			NewClosedBoxes: next.ClosedBoxes,
			NewSingles:     next.Singles,
			NewSixpk:       next.Sixpk,
			DerivedSingles: split.DerivedSingles,
			DerivedSixpk:   split.DerivedSixpk,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.opts.Metrics.IncApplied(policy)
	s.opts.Metrics.ObserveDuration("apply", time.Since(start))
	s.emit(ctx, events.KindOpeningApplied, result.Barcode, result.NewClosedBoxes, result.NewSingles, result.NewSixpk)
	return result, nil
}

func (s *service) UndoLastEntry(ctx context.Context) (*UndoResult, error) {
	start := time.Now()
	result := &UndoResult{}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)
		snapshots := s.snapshots.WithTx(tx)
		repo := s.repo.WithTx(tx)

		event, err := repo.MostRecent(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load most recent event")
		}
		if event == nil {
			return nil
		}

		product, err := products.FindByBarcode(ctx, event.Barcode)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		if product == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found: "+event.Barcode)
		}

		prior, err := snapshots.EnsureRow(ctx, event.Barcode)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock snapshot")
		}

		// Reverse from the amounts stored at write time. Recomputing from the
		// product's current multipliers would corrupt the undo when an AUTO
		// multiplier changed since the entry was made.
		next := &models.StockSnapshot{
			Barcode:     event.Barcode,
			ClosedBoxes: prior.ClosedBoxes + event.BoxesOpened,
			Singles:     prior.Singles - event.DerivedSingles,
			Sixpk:       prior.Sixpk - event.DerivedSixpk,
		}

		if err := repo.DeleteByID(ctx, event.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete opening event")
		}

		swapped, err := snapshots.CompareAndSwap(ctx, prior, next)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist stock snapshot")
		}
		if !swapped {
			s.opts.Metrics.IncConflict()
			return pkgerrors.New(pkgerrors.CodeConflict, "stock changed concurrently, retry the undo")
		}

		result = &UndoResult{
			Found:          true,
			EventID:        event.ID,
			Barcode:        event.Barcode,
			Description:    product.Description,
			NewClosedBoxes: next.ClosedBoxes,
			NewSingles:     next.Singles,
			NewSixpk:       next.Sixpk,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Found {
		s.opts.Metrics.IncUndone()
		s.opts.Metrics.ObserveDuration("undo", time.Since(start))
		s.emit(ctx, events.KindOpeningUndone, result.Barcode, result.NewClosedBoxes, result.NewSingles, result.NewSixpk)
	}
	return result, nil
}

// PreviewSplit runs the split policy without touching any state so the caller
// can show "units used / max units" before committing.
func (s *service) PreviewSplit(ctx context.Context, input PreviewInput) (*PreviewResult, error) {
	barcode := strings.TrimSpace(input.Barcode)
	if barcode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "barcode is required")
	}
	if input.BoxesOpened < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "boxes opened must be non-negative")
	}

	product, err := s.products.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found: "+barcode)
	}

	split, err := DeriveSplit(
		product.SplitMode,
		product.AutoSinglesPerBox,
		product.AutoSixpkPerBox,
		input.BoxesOpened,
		input.ManualSingles,
		input.ManualSixpk,
	)
	if err != nil {
		return nil, err
	}

	result := &PreviewResult{
		Barcode:        barcode,
		Description:    product.Description,
		Policy:         product.SplitMode.String(),
		DerivedSingles: split.DerivedSingles,
		DerivedSixpk:   split.DerivedSixpk,
		UnitsUsed:      split.UnitsUsed(),
	}
	if max, ok := MaxUnits(product.PackSize, input.BoxesOpened); ok {
		result.MaxUnits = &max
		result.ExceedsBudget = result.UnitsUsed > max
	}
	return result, nil
}

func (s *service) EntriesForDate(ctx context.Context, day time.Time) ([]DayEntry, error) {
	entries, err := s.repo.ListDayEntries(ctx, day)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list opening entries")
	}
	return entries, nil
}

func (s *service) emit(ctx context.Context, kind events.Kind, barcode string, closedBoxes, singles, sixpk int) {
	if s.opts.Events == nil {
		return
	}
	s.opts.Events.Emit(ctx, events.StockEvent{
		Kind:        kind,
		Barcode:     barcode,
		ClosedBoxes: closedBoxes,
		Singles:     singles,
		Sixpk:       sixpk,
	})
}
