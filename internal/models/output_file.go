package models

import "time"

// OutputFile is the artifact a successful job produced. At most one exists per
// history record.
type OutputFile struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	HistoryID int64     `json:"historyId" gorm:"not null;uniqueIndex"`
	History   *History  `json:"history,omitempty" gorm:"foreignKey:HistoryID;constraint:OnDelete:CASCADE"`
	FileName  string    `json:"fileName" gorm:"not null"`
	FilePath  string    `json:"filePath" gorm:"not null;size:1024"`
	SizeBytes int64     `json:"sizeBytes"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}

func (OutputFile) TableName() string {
	return "output_files"
}
