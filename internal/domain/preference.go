package domain

import "time"

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Preference 与 User 一对一；userId 无外键约束，硬删级联负责清理
type Preference struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	UserID        string    `gorm:"uniqueIndex;size:36;not null" json:"userId"`
	Theme         string    `gorm:"size:16;not null;default:light" json:"theme"` // "light"/"dark"
	Notifications bool      `gorm:"not null;default:true" json:"notifications"`
	Language      string    `gorm:"size:16;not null;default:en" json:"language"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (Preference) TableName() string { return "preferences" }
