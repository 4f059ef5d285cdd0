package entities

import "time"

// UserUploadVideo is a member-uploaded source video awaiting or under
// processing. The orchestrator mutates only the status code and, on success,
// the underlying FileInfo path.
type UserUploadVideo struct {
	UploadFileID     int64       `gorm:"column:upload_file_id;primaryKey"`
	UploadFile       *FileInfo   `gorm:"foreignKey:UploadFileID;references:FileID"`
	UserID           int64       `gorm:"column:user_id;not null"`
	UploadStatusCode *int64      `gorm:"column:upload_status_code"`
	StatusCode       *CommonCode `gorm:"foreignKey:UploadStatusCode;references:CodeID"`
	UploadTitle      string      `gorm:"column:upload_title;type:varchar(100)"`
	DownloadCount    int         `gorm:"column:download_count;default:0"`
	UploadDate       time.Time   `gorm:"column:upload_date"`
	UseYN            bool        `gorm:"column:use_yn;default:true"`
}

func (UserUploadVideo) TableName() string {
	return "user_upload_video"
}
