package constants

// COMMON_CODE values used by the orchestrator.
const (
	CodeGroupStatus      = "STATUS"
	CodeGroupCommentator = "COMMENTATOR"

	StatusCodeProcessing = 21
	StatusCodeComplete   = 22
	StatusCodeFailed     = 23
)

// Externally visible status strings for API responses.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusQueued     = "queued"
	StatusOK         = "ok"
)

// StatusLabel maps a STATUS common-code value to its API string.
func StatusLabel(codeVal int) string {
	switch codeVal {
	case StatusCodeProcessing:
		return StatusProcessing
	case StatusCodeComplete:
		return StatusCompleted
	case StatusCodeFailed:
		return StatusFailed
	default:
		return StatusQueued
	}
}
