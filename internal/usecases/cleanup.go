package usecases

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"video-orchestrator/internal/domain/repositories"
	consts "video-orchestrator/pkg/constants"
)

type CleanupService interface {
	// ReapStaleUploads marks uploads stuck in PROCESSING longer than maxAge
	// as FAILED. Covers runs lost to a process crash mid-monitor.
	ReapStaleUploads(maxAge time.Duration) error
	CleanupOldTempFiles(maxAge time.Duration) error
}

type cleanupService struct {
	uploads repositories.UploadVideoRepository
	codes   repositories.CommonCodeRepository
	tempDir string
}

func NewCleanupService(uploads repositories.UploadVideoRepository, codes repositories.CommonCodeRepository, tempDir string) CleanupService {
	return &cleanupService{
		uploads: uploads,
		codes:   codes,
		tempDir: tempDir,
	}
}

func (s *cleanupService) ReapStaleUploads(maxAge time.Duration) error {
	processing, err := s.codes.Get(consts.StatusCodeProcessing, consts.CodeGroupStatus)
	if err != nil || processing == nil {
		return err
	}
	failed, err := s.codes.Get(consts.StatusCodeFailed, consts.CodeGroupStatus)
	if err != nil || failed == nil {
		return err
	}

	cutoff := time.Now().Add(-maxAge)
	stale, err := s.uploads.ListProcessingOlderThan(processing.CodeID, cutoff)
	if err != nil {
		return err
	}

	for _, upload := range stale {
		if err := s.uploads.UpdateStatusCode(upload.UploadFileID, failed.CodeID); err != nil {
			log.Printf("Reaper: upload %d could not be failed: %v", upload.UploadFileID, err)
			continue
		}
		log.Printf("Reaper: upload %d stuck in processing since %s, marked failed", upload.UploadFileID, upload.UploadDate)
	}
	return nil
}

func (s *cleanupService) CleanupOldTempFiles(maxAge time.Duration) error {
	entries, err := os.ReadDir(s.tempDir)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, entry := range entries {
		path := filepath.Join(s.tempDir, entry.Name())
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) > maxAge {
			if err := os.Remove(path); err != nil {
				log.Printf("Cleanup: %s could not be removed: %v", path, err)
				continue
			}
			log.Printf("Removed old temp file: %s", path)
		}
	}
	return nil
}
