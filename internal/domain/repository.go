package domain

import (
	"context"
	"time"
)

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	// FindByID 返回 (nil, nil) 表示不存在
	FindByID(ctx context.Context, id string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context, offset, limit int, withDeleted bool, q string) ([]User, int64, error)
	Update(ctx context.Context, u *User) error
	MarkDeleted(ctx context.Context, id string, at time.Time) error
	AppendAudit(ctx context.Context, e *AuditEntry) error
	LoadAudit(ctx context.Context, userID string) ([]AuditEntry, error)
	Delete(ctx context.Context, id string) error
	DeleteAudit(ctx context.Context, userID string) error
}

type PreferenceRepository interface {
	FindByUserID(ctx context.Context, userID string) (*Preference, error)
	Save(ctx context.Context, p *Preference) error
	DeleteByUserID(ctx context.Context, userID string) error
}

type PostRepository interface {
	Create(ctx context.Context, p *Post) error
	FindByID(ctx context.Context, id string) (*Post, error)
	ListByUserID(ctx context.Context, userID string) ([]Post, error)
	MarkDeleted(ctx context.Context, id string, at time.Time) error
	// MarkDeletedByUserID 只触碰 isDeleted=false 的帖子，已删的 deletedAt 不被覆盖
	MarkDeletedByUserID(ctx context.Context, userID string, at time.Time) error
	DeleteByUserID(ctx context.Context, userID string) error
}

// Store 聚合三个集合的仓储，并暴露事务能力。
// SupportsTransactions 为 false 时 Atomic 退化为顺序执行（无回滚保证）。
type Store interface {
	Users() UserRepository
	Preferences() PreferenceRepository
	Posts() PostRepository
	SupportsTransactions() bool
	Atomic(ctx context.Context, fn func(Store) error) error
}
