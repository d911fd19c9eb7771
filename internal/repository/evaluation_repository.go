package repository

import (
	"edu_eval_backend/internal/model"

	"gorm.io/gorm"
)

type EvaluationRepository struct {
	DB *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) *EvaluationRepository {
	return &EvaluationRepository{DB: db}
}

func (r *EvaluationRepository) CreateCriterionEvaluation(e *model.CriterionEvaluation) error {
	return r.DB.Create(e).Error
}

// CreateLinkedEvaluation 同一事务写入评价及其能力关联
func (r *EvaluationRepository) CreateLinkedEvaluation(e *model.LinkedEvaluation) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(e).Error
	})
}

func (r *EvaluationRepository) ListCriterionEvaluations(studentIDs []uint) ([]model.CriterionEvaluation, error) {
	var es []model.CriterionEvaluation
	if len(studentIDs) == 0 {
		return es, nil
	}
	err := r.DB.Where("student_id IN ?", studentIDs).
		Order("evaluated_at asc, id asc").
		Find(&es).Error
	return es, err
}

func (r *EvaluationRepository) ListLinkedEvaluations(studentIDs []uint) ([]model.LinkedEvaluation, error) {
	var es []model.LinkedEvaluation
	if len(studentIDs) == 0 {
		return es, nil
	}
	err := r.DB.Preload("Links").
		Where("student_id IN ?", studentIDs).
		Order("evaluated_at asc, id asc").
		Find(&es).Error
	return es, err
}
