package entities

import "encoding/json"

// SubtitleInfo stores the generated commentary script for one upload and one
// commentator. The payload is kept as the raw JSON blob the worker produced.
type SubtitleInfo struct {
	SubtitleID      int64  `gorm:"column:subtitle_id;primaryKey;autoIncrement"`
	UploadFileID    int64  `gorm:"column:upload_file_id;not null"`
	CommentatorCode *int64 `gorm:"column:commentator_code"`
	Subtitle        []byte `gorm:"column:subtitle;not null"`
}

func (SubtitleInfo) TableName() string {
	return "subtitle_info"
}

// SubtitleCue is one timed line of the generated script.
type SubtitleCue struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// ParseSubtitleCues validates that raw is a JSON array of cues and returns it.
func ParseSubtitleCues(raw []byte) ([]SubtitleCue, error) {
	var cues []SubtitleCue
	if err := json.Unmarshal(raw, &cues); err != nil {
		return nil, err
	}
	return cues, nil
}
