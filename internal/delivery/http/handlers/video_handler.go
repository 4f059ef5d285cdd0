package handlers

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"video-orchestrator/internal/domain/dto"
	"video-orchestrator/internal/domain/entities"
	"video-orchestrator/internal/domain/repositories"
	"video-orchestrator/internal/infrastructure/queue"
	consts "video-orchestrator/pkg/constants"
	pkgerrors "video-orchestrator/pkg/errors"
	"video-orchestrator/pkg/helper"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Guard TTL outlives the monitor deadline so an abandoned run cannot block a
// retry forever.
const processingGuardTTL = 25 * time.Minute

type VideoHandler struct {
	uploads   repositories.UploadVideoRepository
	subtitles repositories.SubtitleRepository
	codes     repositories.CommonCodeRepository
	pool      *queue.WorkerPool
	rdb       *redis.Client
	tempDir   string
}

func NewVideoHandler(
	uploads repositories.UploadVideoRepository,
	subtitles repositories.SubtitleRepository,
	codes repositories.CommonCodeRepository,
	pool *queue.WorkerPool,
	rdb *redis.Client,
	tempDir string,
) *VideoHandler {
	return &VideoHandler{
		uploads:   uploads,
		subtitles: subtitles,
		codes:     codes,
		pool:      pool,
		rdb:       rdb,
		tempDir:   tempDir,
	}
}

// UploadVideo accepts a multipart video, persists the upload record and hands
// the orchestration to the worker pool. The request returns immediately; the
// client polls the status endpoint afterwards.
func (h *VideoHandler) UploadVideo(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return pkgerrors.HandleError(c, pkgerrors.ErrInvalidRequest(err))
	}
	if !helper.IsVideoFile(fileHeader.Filename) {
		return pkgerrors.HandleError(c, pkgerrors.ErrInvalidRequest(fmt.Errorf("unsupported file type: %s", fileHeader.Filename)))
	}

	userID, err := strconv.ParseInt(c.FormValue("user_id"), 10, 64)
	if err != nil {
		return pkgerrors.HandleError(c, pkgerrors.ErrInvalidRequest(err))
	}
	analystCode, err := strconv.Atoi(c.FormValue("analyst_code"))
	if err != nil {
		return pkgerrors.HandleError(c, pkgerrors.ErrInvalidRequest(err))
	}
	title := c.FormValue("title")

	localName := uuid.New().String() + filepath.Ext(fileHeader.Filename)
	localPath := filepath.Join(h.tempDir, localName)
	if err := c.SaveFile(fileHeader, localPath); err != nil {
		return pkgerrors.HandleError(c, pkgerrors.ErrTmpFile(err))
	}

	file := &entities.FileInfo{FilePath: localPath}
	upload := &entities.UserUploadVideo{
		UserID:      userID,
		UploadTitle: title,
		UploadDate:  time.Now(),
		UseYN:       true,
	}
	if err := h.uploads.Create(file, upload); err != nil {
		return pkgerrors.HandleError(c, pkgerrors.ErrInternal(err))
	}

	if err := h.enqueue(c, upload.UploadFileID, analystCode); err != nil {
		return pkgerrors.HandleError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(dto.UploadVideoResponse{
		Status:       consts.StatusQueued,
		UploadFileID: upload.UploadFileID,
		Title:        title,
		Message:      "video işleme kuyruğuna alındı",
	})
}

// ProcessVideo re-runs orchestration for an existing upload, e.g. with a
// different commentator.
func (h *VideoHandler) ProcessVideo(c *fiber.Ctx) error {
	uploadFileID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return pkgerrors.HandleError(c, pkgerrors.ErrInvalidRequest(err))
	}
	analystCode, err := strconv.Atoi(c.FormValue("analyst_code"))
	if err != nil {
		return pkgerrors.HandleError(c, pkgerrors.ErrInvalidRequest(err))
	}

	if _, err := h.uploads.GetByID(uploadFileID); err != nil {
		return pkgerrors.HandleError(c, pkgerrors.ErrNotFound(err))
	}

	if err := h.enqueue(c, uploadFileID, analystCode); err != nil {
		return pkgerrors.HandleError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(dto.UploadVideoResponse{
		Status:       consts.StatusQueued,
		UploadFileID: uploadFileID,
	})
}

// enqueue takes the per-upload guard and dispatches the job. At most one
// orchestration may run per upload; the monitor loop itself has no lock.
func (h *VideoHandler) enqueue(c *fiber.Ctx, uploadFileID int64, analystCode int) error {
	guardKey := fmt.Sprintf("processing:%d", uploadFileID)
	ok, err := h.rdb.SetNX(c.Context(), guardKey, 1, processingGuardTTL).Result()
	if err != nil {
		return pkgerrors.ErrInternal(err)
	}
	if !ok {
		return pkgerrors.ErrAlreadyRunning(fmt.Errorf("upload %d has an active run", uploadFileID))
	}

	h.pool.AddJob(queue.Job{UploadFileID: uploadFileID, AnalystCode: analystCode})
	return nil
}

// UploadStatus projects the upload's status code for UI polling.
func (h *VideoHandler) UploadStatus(c *fiber.Ctx) error {
	uploadFileID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return pkgerrors.HandleError(c, pkgerrors.ErrInvalidRequest(err))
	}

	upload, err := h.uploads.GetByID(uploadFileID)
	if err != nil {
		return pkgerrors.HandleError(c, pkgerrors.ErrNotFound(err))
	}

	status := consts.StatusQueued
	if upload.StatusCode != nil {
		status = consts.StatusLabel(upload.StatusCode.CommonCode)
	}

	resp := dto.UploadStatusResponse{
		UploadFileID: uploadFileID,
		Status:       status,
	}
	if upload.UploadFile != nil {
		resp.MediaKey = upload.UploadFile.FilePath
	}
	return c.JSON(resp)
}

// Subtitle returns the stored script for an upload and commentator.
func (h *VideoHandler) Subtitle(c *fiber.Ctx) error {
	uploadFileID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return pkgerrors.HandleError(c, pkgerrors.ErrInvalidRequest(err))
	}
	analystCode, err := strconv.Atoi(c.Query("analyst"))
	if err != nil {
		return pkgerrors.HandleError(c, pkgerrors.ErrInvalidRequest(err))
	}

	code, err := h.codes.Get(analystCode, consts.CodeGroupCommentator)
	if err != nil || code == nil {
		return pkgerrors.HandleError(c, pkgerrors.ErrNotFound(fmt.Errorf("commentator code %d", analystCode)))
	}

	subtitle, err := h.subtitles.GetByUploadAndCommentator(uploadFileID, code.CodeID)
	if err != nil {
		return pkgerrors.HandleError(c, pkgerrors.ErrNotFound(err))
	}

	return c.JSON(dto.SubtitleResponse{
		UploadFileID: uploadFileID,
		AnalystCode:  analystCode,
		Subtitle:     string(subtitle.Subtitle),
	})
}
