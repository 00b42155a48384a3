package catalog

import (
	"context"

	"github.com/rg-retail/packsplit-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository manages persistence for catalog products.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByBarcode(ctx context.Context, barcode string) (*models.Product, error)
	Upsert(ctx context.Context, product *models.Product) error
	List(ctx context.Context) ([]models.Product, error)
	CountRows(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a catalog repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// FindByBarcode loads the product, or nil when no catalog entry exists.
func (r *repository) FindByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).First(&product, "barcode = ?", barcode).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// Upsert creates or fully replaces the product keyed by barcode.
func (r *repository) Upsert(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "barcode"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"description",
				"pack_size",
				"split_mode",
				"auto_singles_per_box",
				"auto_sixpk_per_box",
			}),
		}).
		Create(product).Error
}

func (r *repository) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Order("description ASC, barcode ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) CountRows(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
