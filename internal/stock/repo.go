package stock

import (
	"context"
	"time"

	"github.com/rg-retail/packsplit-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PositionRow is one product's balance joined with its catalog entry.
type PositionRow struct {
	Barcode         string `json:"barcode"`
	Description     string `json:"description"`
	PackSize        *int   `json:"pack_size,omitempty"`
	ClosedBoxes     int    `json:"closed_boxes"`
	Singles         int    `json:"singles"`
	Sixpk           int    `json:"sixpk"`
	TotalUnitsEquiv int    `json:"total_units_equiv"`
}

const positionQuery = `
SELECT p.barcode,
       p.description,
       p.pack_size,
       COALESCE(s.closed_boxes, 0) AS closed_boxes,
       COALESCE(s.singles, 0) AS singles,
       COALESCE(s.sixpk, 0) AS sixpk,
       COALESCE(s.singles, 0)
         + COALESCE(s.sixpk, 0) * 6
         + COALESCE(s.closed_boxes, 0) * COALESCE(p.pack_size, 0) AS total_units_equiv
FROM products p
LEFT JOIN stock s ON s.barcode = p.barcode
`

// Repository manages persistence for stock snapshots.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Get(ctx context.Context, barcode string) (*models.StockSnapshot, error)
	EnsureRow(ctx context.Context, barcode string) (*models.StockSnapshot, error)
	Overwrite(ctx context.Context, barcode string, closedBoxes, singles, sixpk int) error
	CompareAndSwap(ctx context.Context, prior, next *models.StockSnapshot) (bool, error)
	Position(ctx context.Context) ([]PositionRow, error)
	LowStock(ctx context.Context, threshold int) ([]PositionRow, error)
	CountRows(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a stock repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Get returns the snapshot row, or nil when the product has never been touched.
func (r *repository) Get(ctx context.Context, barcode string) (*models.StockSnapshot, error) {
	var snapshot models.StockSnapshot
	err := r.db.WithContext(ctx).First(&snapshot, "barcode = ?", barcode).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &snapshot, nil
}

// EnsureRow creates a zero-valued snapshot on first access and returns the
// current row either way.
func (r *repository) EnsureRow(ctx context.Context, barcode string) (*models.StockSnapshot, error) {
	snapshot := models.StockSnapshot{Barcode: barcode}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "barcode"}},
			DoNothing: true,
		}).
		Create(&snapshot).Error; err != nil {
		return nil, err
	}
	return r.Get(ctx, barcode)
}

// Overwrite replaces the snapshot unconditionally. Administrative path only.
func (r *repository) Overwrite(ctx context.Context, barcode string, closedBoxes, singles, sixpk int) error {
	return r.db.WithContext(ctx).
		Model(&models.StockSnapshot{}).
		Where("barcode = ?", barcode).
		Updates(map[string]any{
			"closed_boxes": closedBoxes,
			"singles":      singles,
			"sixpk":        sixpk,
			"updated_at":   time.Now().UTC(),
		}).Error
}

// CompareAndSwap overwrites the snapshot only when the row still holds the
// prior balances. Returns false when another writer got there first.
func (r *repository) CompareAndSwap(ctx context.Context, prior, next *models.StockSnapshot) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.StockSnapshot{}).
		Where("barcode = ? AND closed_boxes = ? AND singles = ? AND sixpk = ?",
			prior.Barcode, prior.ClosedBoxes, prior.Singles, prior.Sixpk).
		Updates(map[string]any{
			"closed_boxes": next.ClosedBoxes,
			"singles":      next.Singles,
			"sixpk":        next.Sixpk,
			"updated_at":   time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Position returns every catalog entry joined with its balance, including
// products that have never had a snapshot row.
func (r *repository) Position(ctx context.Context) ([]PositionRow, error) {
	var rows []PositionRow
	if err := r.db.WithContext(ctx).
		Raw(positionQuery + " ORDER BY p.barcode ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// LowStock returns products whose unopened-box balance is at or below the
// threshold.
func (r *repository) LowStock(ctx context.Context, threshold int) ([]PositionRow, error) {
	var rows []PositionRow
	query := positionQuery + `
WHERE COALESCE(s.closed_boxes, 0) <= ?
ORDER BY closed_boxes ASC, p.barcode ASC`
	if err := r.db.WithContext(ctx).
		Raw(query, threshold).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) CountRows(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.StockSnapshot{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
