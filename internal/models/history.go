package models

import "time"

// InvalidHistoryID is returned when a history record could not be created.
// Callers must not finalize or attach artifacts to it.
const InvalidHistoryID int64 = -1

type HistoryState string

const (
	HistoryStateRunning  HistoryState = "running"
	HistoryStateTerminal HistoryState = "terminal"
)

// History is the audit row for one job attempt. It is inserted once when the
// job starts and finalized once when the engine returns.
type History struct {
	ID               int64         `json:"id" gorm:"primaryKey"`
	UserID           int64         `json:"userId" gorm:"not null;index"`
	InputFileTypeID  int           `json:"inputFileTypeId" gorm:"not null"`
	InputFileType    *FileType     `json:"inputFileType,omitempty" gorm:"foreignKey:InputFileTypeID"`
	OutputFormatID   int           `json:"outputFormatId" gorm:"not null"`
	OutputFormat     *OutputFormat `json:"outputFormat,omitempty" gorm:"foreignKey:OutputFormatID"`
	PromptText       string        `json:"promptText" gorm:"type:text"`
	ProcessType      string        `json:"processType" gorm:"not null;size:32"`
	ProcessDate      time.Time     `json:"processDate" gorm:"not null;index"`
	ProcessingTimeMs *int64        `json:"processingTimeMs"`
	IsSuccess        *bool         `json:"isSuccess"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

func (History) TableName() string {
	return "history"
}

// State reports whether the record has been finalized.
func (h *History) State() HistoryState {
	if h.IsSuccess == nil {
		return HistoryStateRunning
	}
	return HistoryStateTerminal
}

// FileTypeStat is the per-user usage count of one input file type.
type FileTypeStat struct {
	FileType   string `json:"fileType"`
	UsageCount int64  `json:"usageCount"`
}
