package db

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rg-retail/packsplit-backend/pkg/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.StockSnapshot{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func TestWithTx_CommitsAndRollbacks(t *testing.T) {
	db := newTestDB(t)
	client := &Client{conn: db}

	ctx := context.Background()
	if err := client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&models.StockSnapshot{Barcode: "0123456789012", ClosedBoxes: 4}).Error
	}); err != nil {
		t.Fatalf("WithTx commit failed: %v", err)
	}

	var snap models.StockSnapshot
	if err := db.First(&snap, "barcode = ?", "0123456789012").Error; err != nil {
		t.Fatalf("expected committed snapshot: %v", err)
	}
	if snap.ClosedBoxes != 4 {
		t.Fatalf("expected 4 closed boxes, got %d", snap.ClosedBoxes)
	}

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Model(&models.StockSnapshot{}).
			Where("barcode = ?", "0123456789012").
			Update("closed_boxes", 3).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected WithTx to return an error")
	}
	if err := db.First(&snap, "barcode = ?", "0123456789012").Error; err != nil {
		t.Fatalf("reload after rollback failed: %v", err)
	}
	if snap.ClosedBoxes != 4 {
		t.Fatalf("expected rollback to keep 4 closed boxes, got %d", snap.ClosedBoxes)
	}
}

func TestPing(t *testing.T) {
	db := newTestDB(t)
	client := &Client{conn: db}
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
}
