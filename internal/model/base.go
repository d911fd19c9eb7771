package model

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// swagger:model
type BaseModel struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Key is the id as the scoring engine sees it.
func (b BaseModel) Key() string {
	return strconv.FormatUint(uint64(b.ID), 10)
}

// swagger:model
type UUIDBase struct {
	ID        string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (b *UUIDBase) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return
}

func GenerateUUID() string {
	return uuid.New().String()
}

// AllModels 需要自动迁移的表
func AllModels() []interface{} {
	return []interface{}{
		&Student{},
		&Criterion{},
		&CriterionDescriptor{},
		&Competency{},
		&CriterionEvaluation{},
		&LinkedEvaluation{},
		&EvaluationLink{},
		&XadeExport{},
	}
}
