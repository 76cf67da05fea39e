package importfiles

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/webcodesigner/pricemanager-backend/pkg/db/models"
)

// Repository remembers the last successfully imported file per import kind.
// Failed runs never touch these rows, so the reference always points at a
// file that actually changed prices.
type Repository interface {
	Save(ctx context.Context, kind, locator string) error
	Get(ctx context.Context, kind string) (*models.ImportFile, error)
	List(ctx context.Context) ([]models.ImportFile, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an import file repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Save(ctx context.Context, kind, locator string) error {
	record := models.ImportFile{Kind: kind, Locator: locator, UpdatedAt: time.Now().UTC()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kind"}},
		DoUpdates: clause.AssignmentColumns([]string{"locator", "updated_at"}),
	}).Create(&record).Error
}

// Get returns the reference for the kind, or nil when no successful import
// has happened yet.
func (r *repository) Get(ctx context.Context, kind string) (*models.ImportFile, error) {
	var record models.ImportFile
	err := r.db.WithContext(ctx).Where("kind = ?", kind).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) List(ctx context.Context) ([]models.ImportFile, error) {
	var records []models.ImportFile
	err := r.db.WithContext(ctx).Order("kind ASC").Find(&records).Error
	return records, err
}
