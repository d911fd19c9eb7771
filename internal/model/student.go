package model

// Student 学生（按班级分组）
type Student struct {
	BaseModel
	NIA        string `gorm:"size:32;uniqueIndex" json:"nia"`
	GivenName  string `gorm:"size:100;not null" json:"givenName"`
	Surname    string `gorm:"size:150;not null" json:"surname"`
	GroupCode  string `gorm:"size:20;index" json:"groupCode"`
	Course     int    `gorm:"default:6" json:"course"`
	ListNumber int    `gorm:"default:0" json:"listNumber"`
}

func (Student) TableName() string {
	return "students"
}
