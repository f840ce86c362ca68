package domain

import "time"

// Post 多对一 User；只有软删入口，硬删仅经由用户级联
type Post struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	UserID    string     `gorm:"size:36;not null;index" json:"userId"`
	Title     string     `gorm:"size:191;not null" json:"title"`
	Content   string     `gorm:"type:text" json:"content"`
	IsDeleted bool       `gorm:"not null;default:false;index" json:"isDeleted"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (Post) TableName() string { return "posts" }
