package model

import "time"

// CriterionEvaluation 针对评价标准的一次评分（0-4）
type CriterionEvaluation struct {
	BaseModel
	StudentID   uint      `gorm:"index;type:bigint unsigned" json:"studentId"`
	CriterionID uint      `gorm:"index;type:bigint unsigned" json:"criterionId"`
	Score       float64   `json:"score"`
	Weight      *float64  `json:"weight,omitempty"`
	Comment     string    `gorm:"type:text" json:"comment"`
	TeacherID   uint      `gorm:"index;type:bigint unsigned" json:"teacherId"`
	EvaluatedAt time.Time `gorm:"index" json:"evaluatedAt"`
}

func (CriterionEvaluation) TableName() string {
	return "criterion_evaluations"
}

// LinkedEvaluation 任务/情境评价，经 EvaluationLink 关联到能力
type LinkedEvaluation struct {
	BaseModel
	StudentID    uint             `gorm:"index;type:bigint unsigned" json:"studentId"`
	Kind         string           `gorm:"size:20;not null" json:"kind"` // task, situation
	TargetID     string           `gorm:"size:64;index" json:"targetId"`
	Rating       string           `gorm:"size:10" json:"rating"`
	NumericValue float64          `json:"numericValue"`
	TeacherID    uint             `gorm:"index;type:bigint unsigned" json:"teacherId"`
	EvaluatedAt  time.Time        `gorm:"index" json:"evaluatedAt"`
	Links        []EvaluationLink `gorm:"foreignKey:EvaluationID" json:"links"`
}

func (LinkedEvaluation) TableName() string {
	return "linked_evaluations"
}

type EvaluationLink struct {
	BaseModel
	EvaluationID      uint    `gorm:"index;type:bigint unsigned" json:"evaluationId"`
	CompetencyCode    string  `gorm:"size:20;index" json:"competencyCode"`
	SubCompetencyCode string  `gorm:"size:20" json:"subCompetencyCode"`
	Weight            float64 `gorm:"default:0" json:"weight"`
}

func (EvaluationLink) TableName() string {
	return "evaluation_links"
}
