package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"datagov-console/internal/domain"
)

// Store gorm 实现；txCapable 启动时探测一次，之后不再变化
type Store struct {
	db        *gorm.DB
	txCapable bool
}

// NewStore disableTx 为 true 时强制走顺序降级（兼容不支持事务的后端）
func NewStore(db *gorm.DB, disableTx bool) *Store {
	s := &Store{db: db}
	if !disableTx {
		s.txCapable = probeTx(db)
	}
	return s
}

// probeTx 用一次 BEGIN/ROLLBACK 探测后端事务能力
func probeTx(db *gorm.DB) bool {
	tx := db.Begin()
	if tx.Error != nil {
		return false
	}
	tx.Rollback()
	return true
}

// DB 暴露底层连接，测试与迁移工具使用
func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) Users() domain.UserRepository             { return &UserRepo{db: s.db} }
func (s *Store) Preferences() domain.PreferenceRepository { return &PreferenceRepo{db: s.db} }
func (s *Store) Posts() domain.PostRepository             { return &PostRepo{db: s.db} }

func (s *Store) SupportsTransactions() bool { return s.txCapable }

// Atomic 支持事务时整体提交/回滚；否则顺序执行，中途失败可能留下部分生效
func (s *Store) Atomic(ctx context.Context, fn func(domain.Store) error) error {
	if !s.txCapable {
		return fn(&Store{db: s.db.WithContext(ctx)})
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx, txCapable: true})
	})
}

func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(&domain.User{}, &domain.AuditEntry{}, &domain.Preference{}, &domain.Post{})
}

// isDupKey 不依赖 gorm.ErrDuplicatedKey，避免驱动差异
func isDupKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}
