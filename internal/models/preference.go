package models

import "time"

// DefaultPreferredFormat is reported for users without a stored preference.
const DefaultPreferredFormat = "Excel"

// OutputFormatPreference holds one user's last chosen output format.
type OutputFormatPreference struct {
	UserID    int64     `json:"userId" gorm:"primaryKey;autoIncrement:false"`
	Format    string    `json:"format" gorm:"not null;size:32"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (OutputFormatPreference) TableName() string {
	return "output_format_preferences"
}
