package repository

import (
	"examdesk_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MetadataRepository struct {
	DB *gorm.DB
}

func NewMetadataRepository(db *gorm.DB) *MetadataRepository {
	return &MetadataRepository{DB: db}
}

func (r *MetadataRepository) Get(key string) (*model.Metadata, error) {
	var meta model.Metadata
	err := r.DB.Where("`key` = ?", key).First(&meta).Error
	return &meta, err
}

func (r *MetadataRepository) GetAll() ([]model.Metadata, error) {
	var entries []model.Metadata
	err := r.DB.Find(&entries).Error
	return entries, err
}

// Upsert 按 key 插入或覆盖。
func (r *MetadataRepository) Upsert(meta *model.Metadata) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(meta).Error
}
