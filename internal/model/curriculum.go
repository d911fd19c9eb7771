package model

// Criterion 评价标准，属于某一年级并关联若干描述符
type Criterion struct {
	BaseModel
	Code        string                `gorm:"size:50;uniqueIndex" json:"code"`
	Subject     string                `gorm:"size:100" json:"subject"`
	Area        string                `gorm:"size:150" json:"area"`
	Course      int                   `gorm:"not null" json:"course"`
	Description string                `gorm:"type:text" json:"description"`
	Weight      *float64              `json:"weight,omitempty"`
	Descriptors []CriterionDescriptor `gorm:"foreignKey:CriterionID" json:"descriptors"`
}

func (Criterion) TableName() string {
	return "criteria"
}

// CriterionDescriptor 关联表：标准 <-> 描述符(DO)
type CriterionDescriptor struct {
	BaseModel
	CriterionID uint   `gorm:"index;type:bigint unsigned" json:"criterionId"`
	Code        string `gorm:"size:20;index" json:"code"`
}

func (CriterionDescriptor) TableName() string {
	return "criterion_descriptors"
}

// Competency 关键能力，Weight 为百分比
type Competency struct {
	BaseModel
	Code   string   `gorm:"size:20;uniqueIndex" json:"code"`
	Name   string   `gorm:"size:255;not null" json:"name"`
	Weight *float64 `json:"weight,omitempty"`
	Order  int      `gorm:"default:0" json:"order"`
}

func (Competency) TableName() string {
	return "competencies"
}
