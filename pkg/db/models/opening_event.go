package models

import "time"

// OpeningEvent is one append-only row of the daily opening log. The row id is
// the undo order: the event with the highest id is the only one undo may remove.
//
// SinglesMade/SixpkMade keep the legacy per-policy semantics (zero for AUTO and
// NONE, the operator's inputs for MANUAL). DerivedSingles/DerivedSixpk record
// what was actually added to the snapshot at write time for every policy, so
// undo never has to re-derive against multipliers that may have changed since.
type OpeningEvent struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement"`
	LogDate        time.Time `gorm:"column:log_date;type:date;not null"`
	Barcode        string    `gorm:"column:barcode;not null"`
	BoxesOpened    int       `gorm:"column:boxes_opened;not null"`
	SinglesMade    int       `gorm:"column:singles_made;not null;default:0"`
	SixpkMade      int       `gorm:"column:sixpk_made;not null;default:0"`
	DerivedSingles int       `gorm:"column:derived_singles;not null;default:0"`
	DerivedSixpk   int       `gorm:"column:derived_sixpk;not null;default:0"`
	Note           string    `gorm:"column:note"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (OpeningEvent) TableName() string {
	return "open_log"
}
