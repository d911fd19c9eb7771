package repository

import (
	"edu_eval_backend/internal/model"

	"gorm.io/gorm"
)

type StudentRepository struct {
	DB *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{DB: db}
}

func (r *StudentRepository) FindByID(id uint) (*model.Student, error) {
	var s model.Student
	err := r.DB.First(&s, id).Error
	return &s, err
}

// ListByGroup 按名单序号排序，未编号的排在最后
func (r *StudentRepository) ListByGroup(group string) ([]model.Student, error) {
	var ss []model.Student
	err := r.DB.Where("group_code = ?", group).
		Order("list_number = 0, list_number asc, surname asc, given_name asc").
		Find(&ss).Error
	return ss, err
}
