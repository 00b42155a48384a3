package models

import "time"

// StockSnapshot is the denormalized running balance per product. It is always
// derivable by replaying the opening log from zero, except after an operator
// stock override.
type StockSnapshot struct {
	Barcode     string    `gorm:"column:barcode;primaryKey"`
	ClosedBoxes int       `gorm:"column:closed_boxes;not null;default:0"`
	Singles     int       `gorm:"column:singles;not null;default:0"`
	Sixpk       int       `gorm:"column:sixpk;not null;default:0"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (StockSnapshot) TableName() string {
	return "stock"
}
