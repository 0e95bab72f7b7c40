package models

import "time"

// Audit carries the bookkeeping columns shared by every seeded table. The
// seeder stamps CreatedBy on insert and ModifiedBy on update.
type Audit struct {
	CreatedBy  int64      `gorm:"column:created_by"`
	ModifiedBy *int64     `gorm:"column:modified_by"`
	CreatedOn  time.Time  `gorm:"column:created_on;autoCreateTime"`
	UpdatedOn  *time.Time `gorm:"column:updated_on;autoUpdateTime"`
}
