package dto

type UploadVideoResponse struct {
	Status       string `json:"status"`
	UploadFileID int64  `json:"upload_file_id"`
	Title        string `json:"title"`
	Message      string `json:"message,omitempty"`
}

type UploadStatusResponse struct {
	UploadFileID int64  `json:"upload_file_id"`
	Status       string `json:"status"`
	MediaKey     string `json:"media_key,omitempty"`
}

type SubtitleResponse struct {
	UploadFileID int64  `json:"upload_file_id"`
	AnalystCode  int    `json:"analyst_code"`
	Subtitle     string `json:"subtitle"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
