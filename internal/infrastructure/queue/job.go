package queue

// Job is one orchestration request: process this upload with this
// commentator.
type Job struct {
	UploadFileID int64 `json:"upload_file_id"`
	AnalystCode  int   `json:"analyst_code"`
}

// Runner executes one orchestration run end to end. Outcomes are observed
// through the upload's status code, never returned.
type Runner interface {
	ProcessUpload(uploadFileID int64, analystCode int)
}
