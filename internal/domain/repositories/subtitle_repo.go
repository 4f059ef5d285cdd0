package repositories

import "video-orchestrator/internal/domain/entities"

type SubtitleRepository interface {
	// Upsert stores the subtitle payload for (upload, commentator), replacing
	// any existing row for the same pair.
	Upsert(uploadFileID int64, commentatorCodeID *int64, payload []byte) error

	GetByUploadAndCommentator(uploadFileID int64, commentatorCodeID int64) (*entities.SubtitleInfo, error)
}
