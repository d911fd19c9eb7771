package repository

import (
	"edu_eval_backend/internal/model"

	"gorm.io/gorm"
)

type CurriculumRepository struct {
	DB *gorm.DB
}

func NewCurriculumRepository(db *gorm.DB) *CurriculumRepository {
	return &CurriculumRepository{DB: db}
}

func (r *CurriculumRepository) ListCriteria() ([]model.Criterion, error) {
	var cs []model.Criterion
	err := r.DB.Preload("Descriptors").Order("course asc, code asc").Find(&cs).Error
	return cs, err
}

func (r *CurriculumRepository) FindCriterionByID(id uint) (*model.Criterion, error) {
	var c model.Criterion
	err := r.DB.Preload("Descriptors").First(&c, id).Error
	return &c, err
}

func (r *CurriculumRepository) ListCompetencies() ([]model.Competency, error) {
	var cs []model.Competency
	err := r.DB.Order("`order` asc, code asc").Find(&cs).Error
	return cs, err
}
