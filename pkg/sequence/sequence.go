package sequence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/bigappletaxi/fleetops-backend/pkg/db/models"
)

// ReceiptSeries is the series backing daily receipt numbering.
const ReceiptSeries = "daily_receipt"

// Next increments the named series inside the caller's transaction and
// returns the new value. The row update takes a write lock, so concurrent
// callers always observe distinct values.
func Next(ctx context.Context, tx *gorm.DB, name string) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("sequence name is required")
	}

	res := tx.WithContext(ctx).
		Model(&models.Sequence{}).
		Where("name = ?", name).
		Update("current_value", gorm.Expr("current_value + 1"))
	if res.Error != nil {
		return 0, fmt.Errorf("increment sequence %s: %w", name, res.Error)
	}
	if res.RowsAffected == 0 {
		row := models.Sequence{Name: name, CurrentValue: 1}
		if err := tx.WithContext(ctx).Create(&row).Error; err != nil {
			return 0, fmt.Errorf("initialize sequence %s: %w", name, err)
		}
		return 1, nil
	}

	var row models.Sequence
	if err := tx.WithContext(ctx).Where("name = ?", name).First(&row).Error; err != nil {
		return 0, fmt.Errorf("read sequence %s: %w", name, err)
	}
	return row.CurrentValue, nil
}

// Format renders a series value zero-padded to the given width.
func Format(value int64, width int) string {
	return fmt.Sprintf("%0*d", width, value)
}
