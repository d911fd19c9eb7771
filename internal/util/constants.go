package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	MimeCSV  = "text/csv; charset=utf-8"
	MimeJSON = "application/json"
)

// 角色（由外部认证服务签发）
const (
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)
