package entities

// FileInfo holds the physical location of an uploaded artifact. FilePath is a
// local path while the upload is being staged and an S3 object key afterwards.
type FileInfo struct {
	FileID   int64  `gorm:"column:file_id;primaryKey;autoIncrement"`
	FilePath string `gorm:"column:file_path;type:varchar(500);not null"`
}

func (FileInfo) TableName() string {
	return "file_info"
}
