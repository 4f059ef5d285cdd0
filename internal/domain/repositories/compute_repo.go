package repositories

import "context"

// StatusSnapshot is a point-in-time read of a remote job. Status strings are
// compared case-insensitively; anything outside COMPLETED/SUCCESS/FAILED
// counts as still in progress.
type StatusSnapshot struct {
	Status   string         `json:"status"`
	Progress float64        `json:"progress"`
	Step     string         `json:"step"`
	Output   SnapshotOutput `json:"output"`
	Error    string         `json:"error"`
}

type SnapshotOutput struct {
	Script string `json:"script"`
	Video  string `json:"video"`
}

// ComputeWorker is the remote processing service the orchestrator drives.
type ComputeWorker interface {
	// SubmitJob dispatches one processing job and returns the worker's
	// opaque job id. A rejected submission has no job to poll.
	SubmitJob(ctx context.Context, downloadURL, uploadURL, scriptUploadURL string, analystID int) (string, error)

	// JobStatus fetches the current snapshot for a submitted job.
	JobStatus(ctx context.Context, jobID string) (*StatusSnapshot, error)
}
