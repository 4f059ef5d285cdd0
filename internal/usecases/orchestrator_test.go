package usecases

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"video-orchestrator/internal/domain/entities"
	"video-orchestrator/internal/domain/repositories"
	consts "video-orchestrator/pkg/constants"
)

type fakeUploads struct {
	mu         sync.Mutex
	statusLog  []int64
	mediaKey   string
	rebindErr  error
	getErr     error
	localPath  string
	statusErr  error
	rebindHits int
}

func (f *fakeUploads) Create(file *entities.FileInfo, upload *entities.UserUploadVideo) error {
	return nil
}

func (f *fakeUploads) GetByID(uploadFileID int64) (*entities.UserUploadVideo, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	path := f.localPath
	if path == "" {
		path = "/tmp/match.mp4"
	}
	return &entities.UserUploadVideo{
		UploadFileID: uploadFileID,
		UploadFile:   &entities.FileInfo{FileID: uploadFileID, FilePath: path},
	}, nil
}

func (f *fakeUploads) UpdateStatusCode(uploadFileID int64, statusCodeID int64) error {
	if f.statusErr != nil {
		return f.statusErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusLog = append(f.statusLog, statusCodeID)
	return nil
}

func (f *fakeUploads) RebindMediaKey(uploadFileID int64, key string) error {
	if f.rebindErr != nil {
		return f.rebindErr
	}
	f.rebindHits++
	f.mediaKey = key
	return nil
}

func (f *fakeUploads) ListProcessingOlderThan(statusCodeID int64, cutoff time.Time) ([]entities.UserUploadVideo, error) {
	return nil, nil
}

type subtitleKey struct {
	upload int64
	code   int64
}

type fakeSubtitles struct {
	stored     map[subtitleKey][]byte
	upsertErr  error
	upsertHits int
}

func (f *fakeSubtitles) Upsert(uploadFileID int64, commentatorCodeID *int64, payload []byte) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if f.stored == nil {
		f.stored = make(map[subtitleKey][]byte)
	}
	var code int64 = -1
	if commentatorCodeID != nil {
		code = *commentatorCodeID
	}
	f.upsertHits++
	f.stored[subtitleKey{uploadFileID, code}] = payload
	return nil
}

func (f *fakeSubtitles) GetByUploadAndCommentator(uploadFileID int64, commentatorCodeID int64) (*entities.SubtitleInfo, error) {
	return nil, errors.New("not implemented")
}

// fakeCodes resolves every code to a row whose CodeID equals the code value.
type fakeCodes struct{}

func (fakeCodes) Get(codeVal int, group string) (*entities.CommonCode, error) {
	return &entities.CommonCode{CodeID: int64(codeVal), CommonCode: codeVal, CommonCodeGrp: group}, nil
}

type fakeStorage struct {
	stageErr  error
	mintErr   error
	fetchData []byte
	fetchErr  error
	fetchKey  string
}

func (f *fakeStorage) StageInput(ctx context.Context, localPath string) (string, error) {
	if f.stageErr != nil {
		return "", f.stageErr
	}
	return "inputs/match.mp4", nil
}

func (f *fakeStorage) MintAccessURLs(ctx context.Context, inputKey string) (*repositories.AccessURLs, error) {
	if f.mintErr != nil {
		return nil, f.mintErr
	}
	return &repositories.AccessURLs{
		DownloadURL:     "https://bucket.s3.amazonaws.com/inputs/match.mp4?sig=get",
		UploadURL:       "https://bucket.s3.amazonaws.com/outputs/result_123.mp4?sig=put",
		ScriptUploadURL: "https://bucket.s3.amazonaws.com/outputs/script_123.json?sig=put",
		OutputKey:       "outputs/result_123.mp4",
	}, nil
}

func (f *fakeStorage) FetchObject(ctx context.Context, key string) ([]byte, error) {
	f.fetchKey = key
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.fetchData, nil
}

type pollResult struct {
	snap *repositories.StatusSnapshot
	err  error
}

type fakeCompute struct {
	submitErr     error
	submittedWith int
	polls         []pollResult
	pollCount     int
}

func (f *fakeCompute) SubmitJob(ctx context.Context, downloadURL, uploadURL, scriptUploadURL string, analystID int) (string, error) {
	f.submittedWith = analystID
	if f.submitErr != nil {
		return "", f.submitErr
	}
	return "job-1", nil
}

func (f *fakeCompute) JobStatus(ctx context.Context, jobID string) (*repositories.StatusSnapshot, error) {
	idx := f.pollCount
	if idx >= len(f.polls) {
		idx = len(f.polls) - 1
	}
	f.pollCount++
	r := f.polls[idx]
	return r.snap, r.err
}

func newTestService(uploads *fakeUploads, subtitles *fakeSubtitles, storage *fakeStorage, compute *fakeCompute) *orchestratorService {
	svc := NewOrchestratorService(uploads, subtitles, fakeCodes{}, storage, compute, 5*time.Second, 20*time.Minute).(*orchestratorService)
	clk := time.Unix(0, 0)
	svc.now = func() time.Time { return clk }
	svc.sleep = func(d time.Duration) { clk = clk.Add(d) }
	return svc
}

func lastStatus(t *testing.T, uploads *fakeUploads) int64 {
	t.Helper()
	if len(uploads.statusLog) == 0 {
		t.Fatal("no status written")
	}
	return uploads.statusLog[len(uploads.statusLog)-1]
}

const validScript = `[{"start":0.0,"end":2.5,"text":"Kickoff!"},{"start":2.5,"end":5.0,"text":"Great pass"}]`

func completedSnapshot(script string) *repositories.StatusSnapshot {
	s := &repositories.StatusSnapshot{Status: "COMPLETED", Progress: 100, Step: "finished"}
	s.Output.Script = script
	return s
}

// TestProcessUploadCompletesAndStoresSubtitle walks the full happy path:
// running, then completed with a script, media rebound, subtitle stored.
func TestProcessUploadCompletesAndStoresSubtitle(t *testing.T) {
	uploads := &fakeUploads{}
	subtitles := &fakeSubtitles{}
	storage := &fakeStorage{fetchData: []byte(validScript)}
	compute := &fakeCompute{polls: []pollResult{
		{snap: &repositories.StatusSnapshot{Status: "RUNNING", Progress: 40, Step: "render"}},
		{snap: completedSnapshot("https://bucket.s3.amazonaws.com/outputs/script_123.json")},
	}}

	newTestService(uploads, subtitles, storage, compute).ProcessUpload(7, 17)

	if got := lastStatus(t, uploads); got != consts.StatusCodeComplete {
		t.Fatalf("final status = %d, want %d", got, consts.StatusCodeComplete)
	}
	if uploads.statusLog[0] != consts.StatusCodeProcessing {
		t.Fatalf("first status = %d, want %d", uploads.statusLog[0], consts.StatusCodeProcessing)
	}
	if uploads.mediaKey != "outputs/result_123.mp4" {
		t.Fatalf("media key = %q", uploads.mediaKey)
	}
	if storage.fetchKey != "outputs/script_123.json" {
		t.Fatalf("fetched key = %q", storage.fetchKey)
	}
	stored, ok := subtitles.stored[subtitleKey{7, 17}]
	if !ok {
		t.Fatalf("subtitle not stored, map = %v", subtitles.stored)
	}
	if string(stored) != validScript {
		t.Fatalf("stored payload = %s", stored)
	}
}

// TestCompletedWithoutScript verifies the media is rebound and the run is
// complete with no subtitle row.
func TestCompletedWithoutScript(t *testing.T) {
	uploads := &fakeUploads{}
	subtitles := &fakeSubtitles{}
	compute := &fakeCompute{polls: []pollResult{{snap: completedSnapshot("")}}}

	newTestService(uploads, subtitles, &fakeStorage{}, compute).ProcessUpload(7, 18)

	if got := lastStatus(t, uploads); got != consts.StatusCodeComplete {
		t.Fatalf("final status = %d, want complete", got)
	}
	if uploads.mediaKey == "" {
		t.Fatal("media was not rebound")
	}
	if subtitles.upsertHits != 0 {
		t.Fatalf("upsert hits = %d, want 0", subtitles.upsertHits)
	}
}

// TestCompletedWithUnparseableScript verifies a bad script is skipped without
// failing the run.
func TestCompletedWithUnparseableScript(t *testing.T) {
	uploads := &fakeUploads{}
	subtitles := &fakeSubtitles{}
	storage := &fakeStorage{fetchData: []byte("not json at all")}
	compute := &fakeCompute{polls: []pollResult{
		{snap: completedSnapshot("https://bucket.s3.amazonaws.com/outputs/script_123.json")},
	}}

	newTestService(uploads, subtitles, storage, compute).ProcessUpload(7, 17)

	if got := lastStatus(t, uploads); got != consts.StatusCodeComplete {
		t.Fatalf("final status = %d, want complete", got)
	}
	if subtitles.upsertHits != 0 {
		t.Fatalf("upsert hits = %d, want 0", subtitles.upsertHits)
	}
}

// TestWorkerFailureSkipsReconciliation verifies a FAILED snapshot ends the
// run immediately with no rebind.
func TestWorkerFailureSkipsReconciliation(t *testing.T) {
	uploads := &fakeUploads{}
	compute := &fakeCompute{polls: []pollResult{
		{snap: &repositories.StatusSnapshot{Status: "failed", Error: "gpu oom"}},
	}}

	newTestService(uploads, &fakeSubtitles{}, &fakeStorage{}, compute).ProcessUpload(7, 17)

	if got := lastStatus(t, uploads); got != consts.StatusCodeFailed {
		t.Fatalf("final status = %d, want failed", got)
	}
	if uploads.rebindHits != 0 {
		t.Fatal("rebind should not run for a failed job")
	}
}

// TestDeadlineExceeded verifies a never-terminal job hits the wall-clock
// deadline and is marked failed with no reconciliation.
func TestDeadlineExceeded(t *testing.T) {
	uploads := &fakeUploads{}
	compute := &fakeCompute{polls: []pollResult{
		{snap: &repositories.StatusSnapshot{Status: "RUNNING"}},
	}}

	newTestService(uploads, &fakeSubtitles{}, &fakeStorage{}, compute).ProcessUpload(7, 17)

	if got := lastStatus(t, uploads); got != consts.StatusCodeFailed {
		t.Fatalf("final status = %d, want failed", got)
	}
	if uploads.rebindHits != 0 {
		t.Fatal("no reconciliation expected on timeout")
	}
	if compute.pollCount == 0 {
		t.Fatal("expected at least one poll before the deadline")
	}
}

// TestPollErrorsAreTolerated verifies transient poll failures do not end the
// loop and the run can still complete.
func TestPollErrorsAreTolerated(t *testing.T) {
	uploads := &fakeUploads{}
	compute := &fakeCompute{polls: []pollResult{
		{err: errors.New("connection reset")},
		{err: errors.New("connection reset")},
		{snap: completedSnapshot("")},
	}}

	newTestService(uploads, &fakeSubtitles{}, &fakeStorage{}, compute).ProcessUpload(7, 17)

	if got := lastStatus(t, uploads); got != consts.StatusCodeComplete {
		t.Fatalf("final status = %d, want complete", got)
	}
	if compute.pollCount != 3 {
		t.Fatalf("poll count = %d, want 3", compute.pollCount)
	}
}

// TestSubmissionFailureIsFatal verifies no poll loop is entered when the
// worker rejects the job.
func TestSubmissionFailureIsFatal(t *testing.T) {
	uploads := &fakeUploads{}
	compute := &fakeCompute{submitErr: errors.New("worker rejected submission")}

	newTestService(uploads, &fakeSubtitles{}, &fakeStorage{}, compute).ProcessUpload(7, 17)

	if got := lastStatus(t, uploads); got != consts.StatusCodeFailed {
		t.Fatalf("final status = %d, want failed", got)
	}
	if compute.pollCount != 0 {
		t.Fatalf("poll count = %d, want 0", compute.pollCount)
	}
}

// TestStagingFailureIsFatal covers a storage error before submission.
func TestStagingFailureIsFatal(t *testing.T) {
	uploads := &fakeUploads{}
	storage := &fakeStorage{stageErr: errors.New("upload failed after retries")}
	compute := &fakeCompute{polls: []pollResult{{snap: completedSnapshot("")}}}

	newTestService(uploads, &fakeSubtitles{}, storage, compute).ProcessUpload(7, 17)

	if got := lastStatus(t, uploads); got != consts.StatusCodeFailed {
		t.Fatalf("final status = %d, want failed", got)
	}
}

// TestRebindFailureFailsRun verifies a reconciliation persistence error is
// reported as failure even though the remote job succeeded.
func TestRebindFailureFailsRun(t *testing.T) {
	uploads := &fakeUploads{rebindErr: errors.New("db down")}
	compute := &fakeCompute{polls: []pollResult{{snap: completedSnapshot("")}}}

	newTestService(uploads, &fakeSubtitles{}, &fakeStorage{}, compute).ProcessUpload(7, 17)

	if got := lastStatus(t, uploads); got != consts.StatusCodeFailed {
		t.Fatalf("final status = %d, want failed", got)
	}
}

// TestSubtitleStoreFailureDoesNotFailRun verifies the optional artifact's own
// persistence error is swallowed.
func TestSubtitleStoreFailureDoesNotFailRun(t *testing.T) {
	uploads := &fakeUploads{}
	subtitles := &fakeSubtitles{upsertErr: errors.New("unique violation")}
	storage := &fakeStorage{fetchData: []byte(validScript)}
	compute := &fakeCompute{polls: []pollResult{
		{snap: completedSnapshot("https://bucket.s3.amazonaws.com/outputs/script_123.json")},
	}}

	newTestService(uploads, subtitles, storage, compute).ProcessUpload(7, 17)

	if got := lastStatus(t, uploads); got != consts.StatusCodeComplete {
		t.Fatalf("final status = %d, want complete", got)
	}
}

// TestAnalystMappingForwardedToWorker checks the lookup table and its default.
func TestAnalystMappingForwardedToWorker(t *testing.T) {
	cases := []struct {
		dbCode int
		want   int
	}{
		{17, 3},
		{18, 2},
		{19, 1},
		{99, 1},
	}
	for _, tc := range cases {
		compute := &fakeCompute{polls: []pollResult{{snap: completedSnapshot("")}}}
		newTestService(&fakeUploads{}, &fakeSubtitles{}, &fakeStorage{}, compute).ProcessUpload(7, tc.dbCode)
		if compute.submittedWith != tc.want {
			t.Fatalf("analyst %d submitted as %d, want %d", tc.dbCode, compute.submittedWith, tc.want)
		}
	}
}

// TestRerunReplacesSubtitle verifies upsert semantics across two runs for the
// same (upload, analyst) pair.
func TestRerunReplacesSubtitle(t *testing.T) {
	subtitles := &fakeSubtitles{}

	for i, script := range []string{
		`[{"start":0,"end":1,"text":"first run"}]`,
		`[{"start":0,"end":1,"text":"second run"}]`,
	} {
		uploads := &fakeUploads{}
		storage := &fakeStorage{fetchData: []byte(script)}
		compute := &fakeCompute{polls: []pollResult{
			{snap: completedSnapshot("https://bucket.s3.amazonaws.com/outputs/script_123.json")},
		}}
		newTestService(uploads, subtitles, storage, compute).ProcessUpload(7, 17)
		if len(subtitles.stored) != 1 {
			t.Fatalf("run %d: stored entries = %d, want 1", i+1, len(subtitles.stored))
		}
	}

	got := string(subtitles.stored[subtitleKey{7, 17}])
	if got != `[{"start":0,"end":1,"text":"second run"}]` {
		t.Fatalf("payload after rerun = %s", got)
	}
	if subtitles.upsertHits != 2 {
		t.Fatalf("upsert hits = %d, want 2", subtitles.upsertHits)
	}
}

// TestTerminalStatusIsNeverProcessing is the property check over a handful of
// scripted outcomes.
func TestTerminalStatusIsNeverProcessing(t *testing.T) {
	outcomes := []*fakeCompute{
		{polls: []pollResult{{snap: completedSnapshot("")}}},
		{polls: []pollResult{{snap: &repositories.StatusSnapshot{Status: "FAILED"}}}},
		{polls: []pollResult{{snap: &repositories.StatusSnapshot{Status: "RUNNING"}}}}, // times out
		{submitErr: fmt.Errorf("rejected")},
	}
	for i, compute := range outcomes {
		uploads := &fakeUploads{}
		newTestService(uploads, &fakeSubtitles{}, &fakeStorage{}, compute).ProcessUpload(7, 17)
		final := lastStatus(t, uploads)
		if final != consts.StatusCodeComplete && final != consts.StatusCodeFailed {
			t.Fatalf("case %d: terminal status = %d", i, final)
		}
	}
}
