package db

import (
	"video-orchestrator/internal/domain/entities"

	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entities.CommonCode{},
		&entities.FileInfo{},
		&entities.UserUploadVideo{},
		&entities.SubtitleInfo{},
	)
}
