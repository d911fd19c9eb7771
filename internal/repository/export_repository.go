package repository

import (
	"edu_eval_backend/internal/model"

	"gorm.io/gorm"
)

type ExportRepository struct {
	DB *gorm.DB
}

func NewExportRepository(db *gorm.DB) *ExportRepository {
	return &ExportRepository{DB: db}
}

func (r *ExportRepository) Create(e *model.XadeExport) error {
	return r.DB.Create(e).Error
}

func (r *ExportRepository) ListByGroup(group string, page, limit int) ([]model.XadeExport, int64, error) {
	var es []model.XadeExport
	var total int64
	query := r.DB.Model(&model.XadeExport{}).Where("group_code = ?", group)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&es).Error
	return es, total, err
}
