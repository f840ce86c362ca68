package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// 审计动作
const (
	AuditCreate     = "CREATE"
	AuditUpdate     = "UPDATE"
	AuditSoftDelete = "SOFT_DELETE"
	AuditHardDelete = "HARD_DELETE"
)

type User struct {
	ID        string       `gorm:"primaryKey;size:36" json:"id"`
	Username  string       `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email     string       `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Role      string       `gorm:"size:16;not null;default:user" json:"role"` // "user"/"admin"
	IsDeleted bool         `gorm:"not null;default:false;index" json:"isDeleted"`
	DeletedAt *time.Time   `json:"deletedAt,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Audit     []AuditEntry `gorm:"foreignKey:UserID;references:ID" json:"audit,omitempty"`
}

func (User) TableName() string { return "users" }

// AuditEntry 只追加；不改写、不截断
type AuditEntry struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID    string         `gorm:"size:36;not null;index" json:"-"`
	Action    string         `gorm:"size:16;not null" json:"action"`
	Details   map[string]any `gorm:"serializer:json" json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

func (AuditEntry) TableName() string { return "audit_entries" }
