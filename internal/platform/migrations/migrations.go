package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema of the reference server.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(&PetRecord{})
}

// PetRecord is the pets table row shared with the Postgres adapter.
type PetRecord struct {
	ID           int64          `gorm:"primaryKey;autoIncrement:false;column:id"`
	CategoryID   *int64         `gorm:"column:category_id"`
	CategoryName string         `gorm:"column:category_name"`
	Name         string         `gorm:"column:name"`
	PhotoURLs    pq.StringArray `gorm:"column:photo_urls;type:text[]"`
	Status       string         `gorm:"column:status;type:varchar(64);index"`
	TagIDs       pq.Int64Array  `gorm:"column:tag_ids;type:bigint[]"`
	TagNames     pq.StringArray `gorm:"column:tag_names;type:text[]"`
	CreatedAt    time.Time      `gorm:"column:created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at"`
}

func (PetRecord) TableName() string { return "pets" }
