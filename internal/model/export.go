package model

// XadeExport 每次 XADE 导出的记录
type XadeExport struct {
	UUIDBase
	GroupCode     string `gorm:"size:20;index" json:"groupCode"`
	ObjectKey     string `gorm:"size:255" json:"objectKey"`
	URL           string `gorm:"size:512" json:"url"`
	Rows          int    `json:"rows"`
	UnmappedAreas string `gorm:"type:text" json:"unmappedAreas"`
	CreatorID     uint   `gorm:"index;type:bigint unsigned" json:"creatorId"`
}

func (XadeExport) TableName() string {
	return "xade_exports"
}
