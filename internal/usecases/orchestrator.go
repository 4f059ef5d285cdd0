package usecases

import (
	"context"
	"log"
	"net/url"
	"strings"
	"time"

	"video-orchestrator/internal/domain/entities"
	"video-orchestrator/internal/domain/repositories"
	"video-orchestrator/internal/infrastructure/runpod"
	consts "video-orchestrator/pkg/constants"
)

// OrchestratorService drives one upload through the remote processing
// pipeline: stage to S3, submit to the worker, poll to a terminal state,
// reconcile the result. Fire-and-forget; callers observe the outcome through
// the upload's status code.
type OrchestratorService interface {
	ProcessUpload(uploadFileID int64, analystCode int)
}

type orchestratorService struct {
	uploads   repositories.UploadVideoRepository
	subtitles repositories.SubtitleRepository
	codes     repositories.CommonCodeRepository
	storage   repositories.ObjectStorage
	compute   repositories.ComputeWorker

	pollInterval time.Duration
	maxWait      time.Duration
	sleep        func(time.Duration)
	now          func() time.Time
}

func NewOrchestratorService(
	uploads repositories.UploadVideoRepository,
	subtitles repositories.SubtitleRepository,
	codes repositories.CommonCodeRepository,
	storage repositories.ObjectStorage,
	compute repositories.ComputeWorker,
	pollInterval, maxWait time.Duration,
) OrchestratorService {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	if maxWait <= 0 {
		maxWait = 20 * time.Minute
	}
	return &orchestratorService{
		uploads:      uploads,
		subtitles:    subtitles,
		codes:        codes,
		storage:      storage,
		compute:      compute,
		pollInterval: pollInterval,
		maxWait:      maxWait,
		sleep:        time.Sleep,
		now:          time.Now,
	}
}

func (s *orchestratorService) ProcessUpload(uploadFileID int64, analystCode int) {
	ctx := context.Background()

	s.updateStatus(uploadFileID, consts.StatusCodeProcessing)

	upload, err := s.uploads.GetByID(uploadFileID)
	if err != nil || upload.UploadFile == nil {
		log.Printf("Upload %d could not be loaded: %v", uploadFileID, err)
		s.updateStatus(uploadFileID, consts.StatusCodeFailed)
		return
	}

	workerAnalyst := runpod.MapAnalyst(analystCode)

	inputKey, err := s.storage.StageInput(ctx, upload.UploadFile.FilePath)
	if err != nil {
		log.Printf("Upload %d staging failed: %v", uploadFileID, err)
		s.updateStatus(uploadFileID, consts.StatusCodeFailed)
		return
	}

	urls, err := s.storage.MintAccessURLs(ctx, inputKey)
	if err != nil {
		log.Printf("Upload %d presign failed: %v", uploadFileID, err)
		s.updateStatus(uploadFileID, consts.StatusCodeFailed)
		return
	}

	jobID, err := s.compute.SubmitJob(ctx, urls.DownloadURL, urls.UploadURL, urls.ScriptUploadURL, workerAnalyst)
	if err != nil {
		// No job id means nothing to poll; the run ends here.
		log.Printf("Upload %d submission failed: %v", uploadFileID, err)
		s.updateStatus(uploadFileID, consts.StatusCodeFailed)
		return
	}

	s.monitorLoop(ctx, uploadFileID, jobID, analystCode, urls.OutputKey)
}

// monitorLoop polls the worker until a terminal snapshot or the deadline.
// The deadline is measured from loop entry and is the only cancellation
// mechanism; poll transport errors are tolerated and retried.
func (s *orchestratorService) monitorLoop(ctx context.Context, uploadFileID int64, jobID string, analystCode int, outputKey string) {
	start := s.now()

	for {
		if s.now().Sub(start) > s.maxWait {
			log.Printf("Upload %d timed out after %s (job: %s)", uploadFileID, s.maxWait, jobID)
			s.updateStatus(uploadFileID, consts.StatusCodeFailed)
			return
		}

		snapshot, err := s.compute.JobStatus(ctx, jobID)
		if err != nil {
			log.Printf("Polling job %s failed, retrying: %v", jobID, err)
			s.sleep(s.pollInterval)
			continue
		}

		rawStatus := strings.ToUpper(snapshot.Status)
		if snapshot.Step != "" {
			log.Printf("Job %s: %s | progress %.0f%% | step %s", jobID, rawStatus, snapshot.Progress, snapshot.Step)
		}

		switch rawStatus {
		case "COMPLETED", "SUCCESS":
			log.Printf("Job %s completed, reconciling result", jobID)
			if err := s.reconcile(ctx, uploadFileID, analystCode, outputKey, snapshot); err != nil {
				// Remote work succeeded but the durable side effects did
				// not; the run is still a failure.
				log.Printf("Upload %d reconciliation failed: %v", uploadFileID, err)
				s.updateStatus(uploadFileID, consts.StatusCodeFailed)
				return
			}
			s.updateStatus(uploadFileID, consts.StatusCodeComplete)
			return
		case "FAILED":
			log.Printf("Job %s failed on the worker: %s", jobID, snapshot.Error)
			s.updateStatus(uploadFileID, consts.StatusCodeFailed)
			return
		default:
			// QUEUED, RUNNING or anything unrecognized counts as in
			// progress.
			s.sleep(s.pollInterval)
		}
	}
}

// reconcile rebinds the upload's media to the known output key and stores the
// generated subtitle when the worker produced one. Subtitle problems are
// logged and skipped; only the rebind is load-bearing.
func (s *orchestratorService) reconcile(ctx context.Context, uploadFileID int64, analystCode int, outputKey string, snapshot *repositories.StatusSnapshot) error {
	if err := s.uploads.RebindMediaKey(uploadFileID, outputKey); err != nil {
		return err
	}
	log.Printf("Upload %d media rebound to %s", uploadFileID, outputKey)

	if snapshot.Output.Script != "" {
		s.storeSubtitle(ctx, uploadFileID, analystCode, snapshot.Output.Script)
	}
	return nil
}

// storeSubtitle fetches, validates and upserts the script artifact. A missing
// or invalid subtitle never fails the parent reconciliation.
func (s *orchestratorService) storeSubtitle(ctx context.Context, uploadFileID int64, analystCode int, scriptURL string) {
	parsed, err := url.Parse(scriptURL)
	if err != nil {
		log.Printf("Subtitle url %q unparseable: %v", scriptURL, err)
		return
	}
	scriptKey := strings.TrimPrefix(parsed.Path, "/")

	log.Printf("Fetching subtitle (key: %s)", scriptKey)
	data, err := s.storage.FetchObject(ctx, scriptKey)
	if err != nil {
		log.Printf("Subtitle fetch failed (key: %s): %v", scriptKey, err)
		return
	}

	if _, err := entities.ParseSubtitleCues(data); err != nil {
		log.Printf("Subtitle payload invalid (key: %s): %v", scriptKey, err)
		return
	}

	var commentatorCodeID *int64
	code, err := s.codes.Get(analystCode, consts.CodeGroupCommentator)
	if err != nil {
		log.Printf("Commentator code %d lookup failed: %v", analystCode, err)
		return
	}
	if code != nil {
		commentatorCodeID = &code.CodeID
	}

	if err := s.subtitles.Upsert(uploadFileID, commentatorCodeID, data); err != nil {
		log.Printf("Subtitle save failed (upload: %d): %v", uploadFileID, err)
		return
	}
	log.Printf("Subtitle saved (upload: %d, analyst: %d)", uploadFileID, analystCode)
}

// updateStatus is the single choke point for externally visible status
// writes, so observers always see a monotonically advancing status.
func (s *orchestratorService) updateStatus(uploadFileID int64, codeVal int) {
	code, err := s.codes.Get(codeVal, consts.CodeGroupStatus)
	if err != nil || code == nil {
		log.Printf("Status code %d not resolvable: %v", codeVal, err)
		return
	}
	if err := s.uploads.UpdateStatusCode(uploadFileID, code.CodeID); err != nil {
		log.Printf("Status update to %d failed (upload: %d): %v", codeVal, uploadFileID, err)
		return
	}
	log.Printf("DB status updated: %d (upload: %d)", codeVal, uploadFileID)
}
