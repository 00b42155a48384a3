package ledger

import (
	"context"
	"time"

	"github.com/rg-retail/packsplit-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository manages persistence for opening events.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, event *models.OpeningEvent) error
	MostRecent(ctx context.Context) (*models.OpeningEvent, error)
	DeleteByID(ctx context.Context, id int64) error
	ListDayEntries(ctx context.Context, day time.Time) ([]DayEntry, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an opening event repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, event *models.OpeningEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// MostRecent returns the newest event across all products, or nil when the
// log is empty.
func (r *repository) MostRecent(ctx context.Context) (*models.OpeningEvent, error) {
	var event models.OpeningEvent
	err := r.db.WithContext(ctx).
		Order("id DESC").
		First(&event).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

func (r *repository) DeleteByID(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.OpeningEvent{}, id).Error
}

const dayEntriesQuery = `
SELECT e.id AS event_id,
       e.barcode,
       p.description,
       e.boxes_opened,
       e.singles_made,
       e.sixpk_made,
       e.derived_singles,
       e.derived_sixpk,
       e.note
FROM open_log e
LEFT JOIN products p ON p.barcode = e.barcode
WHERE e.log_date >= ? AND e.log_date < ?
ORDER BY e.id DESC
`

// ListDayEntries returns the entries logged for a calendar day, newest first,
// joined with the product description for display.
func (r *repository) ListDayEntries(ctx context.Context, day time.Time) ([]DayEntry, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	var entries []DayEntry
	if err := r.db.WithContext(ctx).
		Raw(dayEntriesQuery, start, start.Add(24*time.Hour)).
		Scan(&entries).Error; err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].LogDate = day.Format("2006-01-02")
	}
	return entries, nil
}

func (r *repository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.OpeningEvent{}).
		Where("created_at >= ?", since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.OpeningEvent{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
