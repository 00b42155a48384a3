package models

import (
	"time"

	"github.com/rg-retail/packsplit-backend/pkg/enums"
)

// Product is one catalog entry, keyed by its barcode.
type Product struct {
	Barcode           string            `gorm:"column:barcode;primaryKey"`
	Description       string            `gorm:"column:description;not null"`
	PackSize          *int              `gorm:"column:pack_size"`
	SplitMode         enums.SplitPolicy `gorm:"column:split_mode;not null"`
	AutoSinglesPerBox int               `gorm:"column:auto_singles_per_box;not null;default:0"`
	AutoSixpkPerBox   int               `gorm:"column:auto_sixpk_per_box;not null;default:0"`
	Stock             *StockSnapshot    `gorm:"foreignKey:Barcode;references:Barcode;constraint:OnDelete:CASCADE"`
	Openings          []OpeningEvent    `gorm:"foreignKey:Barcode;references:Barcode;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time         `gorm:"column:created_at;autoCreateTime"`
}

func (Product) TableName() string {
	return "products"
}
