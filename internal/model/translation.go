package model

import "time"

const (
	StatusPending    = "pending"
	StatusTranslated = "translated"
)

// TranslationJob is a single uploaded file awaiting or having undergone translation.
// TranslatedFilePath is set if and only if Translated is true.
type TranslationJob struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"userId"`
	OriginName         string    `json:"originName"`
	FileName           string    `json:"fileName"`
	FilePath           string    `json:"filePath"`
	FileType           string    `json:"fileType"`
	FileSize           int64     `json:"fileSize"`
	ToLanguage         string    `json:"toLanguage"`
	Translated         bool      `json:"translated"`
	TranslatedFilePath *string   `json:"translatedFilePath"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Status reports the lifecycle state derived from the translated flag.
func (j *TranslationJob) Status() string {
	if j.Translated {
		return StatusTranslated
	}
	return StatusPending
}
