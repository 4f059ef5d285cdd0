package usecases

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"video-orchestrator/internal/domain/entities"
	consts "video-orchestrator/pkg/constants"
)

type reaperUploads struct {
	fakeUploads
	stale      []entities.UserUploadVideo
	listedCode int64
	listedCut  time.Time
}

func (r *reaperUploads) ListProcessingOlderThan(statusCodeID int64, cutoff time.Time) ([]entities.UserUploadVideo, error) {
	r.listedCode = statusCodeID
	r.listedCut = cutoff
	return r.stale, nil
}

// TestReapStaleUploads verifies stuck PROCESSING rows get marked FAILED.
func TestReapStaleUploads(t *testing.T) {
	uploads := &reaperUploads{stale: []entities.UserUploadVideo{
		{UploadFileID: 3, UploadDate: time.Now().Add(-2 * time.Hour)},
		{UploadFileID: 9, UploadDate: time.Now().Add(-3 * time.Hour)},
	}}
	svc := NewCleanupService(uploads, fakeCodes{}, t.TempDir())

	if err := svc.ReapStaleUploads(30 * time.Minute); err != nil {
		t.Fatalf("reap: %v", err)
	}

	if uploads.listedCode != int64(consts.StatusCodeProcessing) {
		t.Fatalf("listed status code = %d, want processing", uploads.listedCode)
	}
	if len(uploads.statusLog) != 2 {
		t.Fatalf("status writes = %d, want 2", len(uploads.statusLog))
	}
	for _, code := range uploads.statusLog {
		if code != int64(consts.StatusCodeFailed) {
			t.Fatalf("status write = %d, want failed", code)
		}
	}
}

// TestCleanupOldTempFiles verifies only files past the age cutoff are swept.
func TestCleanupOldTempFiles(t *testing.T) {
	dir := t.TempDir()
	oldFile := filepath.Join(dir, "old.mp4")
	newFile := filepath.Join(dir, "new.mp4")
	for _, p := range []string{oldFile, newFile} {
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatalf("fixture: %v", err)
		}
	}
	past := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(oldFile, past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	svc := NewCleanupService(&reaperUploads{}, fakeCodes{}, dir)
	if err := svc.CleanupOldTempFiles(24 * time.Hour); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	if _, err := os.Stat(oldFile); !os.IsNotExist(err) {
		t.Fatal("old file should be removed")
	}
	if _, err := os.Stat(newFile); err != nil {
		t.Fatal("new file should survive")
	}
}
