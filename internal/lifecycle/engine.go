package lifecycle

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"datagov-console/internal/domain"
	"datagov-console/pkg/utils"
)

// 软删到允许硬删的最短间隔
const GracePeriodHours = 24.0

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Engine 用户/偏好/帖子的删除生命周期与级联
type Engine struct {
	store   domain.Store
	cascade Cascade
	log     *zap.Logger
	now     func() time.Time
}

// New 构造时一次性选定级联策略，不在每次调用里穿事务对象
func New(store domain.Store, log *zap.Logger) *Engine {
	e := &Engine{store: store, log: log, now: time.Now}
	if store.SupportsTransactions() {
		e.cascade = TransactionalCascade{}
	} else {
		log.Warn("store lacks transaction support, cascades degrade to best-effort sequential apply")
		e.cascade = BestEffortCascade{}
	}
	return e
}

type CreateUserInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type UpdateUserInput struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
}

type PreferencePatch struct {
	Theme         *string `json:"theme"`
	Notifications *bool   `json:"notifications"`
	Language      *string `json:"language"`
}

type CreatePostInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (e *Engine) CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || email == "" {
		return nil, domain.Invalid("username and email are required")
	}
	if !emailRe.MatchString(email) {
		return nil, domain.Invalid("invalid email format")
	}
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return nil, domain.Invalid("role must be user or admin")
	}

	users := e.store.Users()
	existing, err := users.FindByUsername(ctx, username)
	if err != nil {
		return nil, storeFail("find username", err)
	}
	if existing != nil {
		return nil, domain.ErrConflict
	}

	u := &domain.User{
		ID:       utils.NewID(),
		Username: username,
		Email:    email,
		Role:     role,
	}
	if err := users.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.ErrConflict
		}
		return nil, storeFail("create user", err)
	}
	entry := &domain.AuditEntry{
		UserID:    u.ID,
		Action:    domain.AuditCreate,
		Details:   map[string]any{"username": username, "email": email, "role": role},
		Timestamp: e.now(),
	}
	if err := users.AppendAudit(ctx, entry); err != nil {
		return nil, storeFail("append audit", err)
	}
	u.Audit = []domain.AuditEntry{*entry}
	e.log.Info("user created", zap.String("user_id", u.ID))
	return u, nil
}

// GetUser 软删用户对外不可见
func (e *Engine) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	users := e.store.Users()
	u, err := users.FindByID(ctx, userID)
	if err != nil {
		return nil, storeFail("find user", err)
	}
	if u == nil || u.IsDeleted {
		return nil, domain.ErrNotFound
	}
	audit, err := users.LoadAudit(ctx, u.ID)
	if err != nil {
		return nil, storeFail("load audit", err)
	}
	u.Audit = audit
	return u, nil
}

func (e *Engine) ListUsers(ctx context.Context, offset, limit int, withDeleted bool, q string) ([]domain.User, int64, error) {
	users, total, err := e.store.Users().List(ctx, offset, limit, withDeleted, q)
	if err != nil {
		return nil, 0, storeFail("list users", err)
	}
	return users, total, nil
}

func (e *Engine) UpdateUser(ctx context.Context, userID string, in UpdateUserInput) (*domain.User, error) {
	users := e.store.Users()
	u, err := users.FindByID(ctx, userID)
	if err != nil {
		return nil, storeFail("find user", err)
	}
	if u == nil || u.IsDeleted {
		return nil, domain.ErrNotFound
	}

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username == "" {
			return nil, domain.Invalid("username must not be empty")
		}
		if username != u.Username {
			other, err := users.FindByUsername(ctx, username)
			if err != nil {
				return nil, storeFail("find username", err)
			}
			if other != nil && other.ID != u.ID {
				return nil, domain.ErrConflict
			}
		}
		u.Username = username
	}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if !emailRe.MatchString(email) {
			return nil, domain.Invalid("invalid email format")
		}
		u.Email = email
	}
	if in.Role != nil {
		if *in.Role != domain.RoleUser && *in.Role != domain.RoleAdmin {
			return nil, domain.Invalid("role must be user or admin")
		}
		u.Role = *in.Role
	}

	u.UpdatedAt = e.now()
	if err := users.Update(ctx, u); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.ErrConflict
		}
		return nil, storeFail("update user", err)
	}
	entry := &domain.AuditEntry{
		UserID:    u.ID,
		Action:    domain.AuditUpdate,
		Details:   map[string]any{"username": u.Username, "email": u.Email, "role": u.Role},
		Timestamp: e.now(),
	}
	if err := users.AppendAudit(ctx, entry); err != nil {
		return nil, storeFail("append audit", err)
	}
	audit, err := users.LoadAudit(ctx, u.ID)
	if err != nil {
		return nil, storeFail("load audit", err)
	}
	u.Audit = audit
	return u, nil
}

// SoftDeleteUser 标删用户并级联标删其全部未删帖子，作为一个单元提交
func (e *Engine) SoftDeleteUser(ctx context.Context, userID string) error {
	u, err := e.store.Users().FindByID(ctx, userID)
	if err != nil {
		return storeFail("find user", err)
	}
	if u == nil {
		return domain.ErrNotFound
	}
	if u.IsDeleted {
		return domain.ErrAlreadyDeleted
	}

	now := e.now()
	err = e.cascade.Run(ctx, e.store, func(s domain.Store) error {
		if err := s.Users().MarkDeleted(ctx, userID, now); err != nil {
			return err
		}
		if err := s.Users().AppendAudit(ctx, &domain.AuditEntry{
			UserID: userID, Action: domain.AuditSoftDelete, Timestamp: now,
		}); err != nil {
			return err
		}
		return s.Posts().MarkDeletedByUserID(ctx, userID, now)
	})
	if err != nil {
		return storeFail("soft delete cascade", err)
	}
	e.log.Info("user soft-deleted", zap.String("user_id", userID))
	return nil
}

// HardDeleteUser 宽限期过后永久移除用户及其偏好、帖子、审计。
// 先落一条 HARD_DELETE 审计再整体删除：该标记随后与记录一起消失，
// 仅当后续删除中途失败时才可观察到，保留为删除前的落盘标记。
func (e *Engine) HardDeleteUser(ctx context.Context, userID string) error {
	u, err := e.store.Users().FindByID(ctx, userID)
	if err != nil {
		return storeFail("find user", err)
	}
	if u == nil {
		return domain.ErrNotFound
	}
	if !u.IsDeleted {
		return domain.ErrNotSoftDeleted
	}
	if u.DeletedAt == nil || e.now().Sub(*u.DeletedAt).Hours() < GracePeriodHours {
		return domain.ErrGracePeriodActive
	}

	err = e.cascade.Run(ctx, e.store, func(s domain.Store) error {
		if err := s.Users().AppendAudit(ctx, &domain.AuditEntry{
			UserID: userID, Action: domain.AuditHardDelete, Timestamp: e.now(),
		}); err != nil {
			return err
		}
		if err := s.Posts().DeleteByUserID(ctx, userID); err != nil {
			return err
		}
		if err := s.Preferences().DeleteByUserID(ctx, userID); err != nil {
			return err
		}
		if err := s.Users().DeleteAudit(ctx, userID); err != nil {
			return err
		}
		return s.Users().Delete(ctx, userID)
	})
	if err != nil {
		return storeFail("hard delete cascade", err)
	}
	e.log.Info("user hard-deleted", zap.String("user_id", userID))
	return nil
}

// UpsertPreference 未给出的字段保留现值，不回落默认
func (e *Engine) UpsertPreference(ctx context.Context, userID string, patch PreferencePatch) (*domain.Preference, error) {
	u, err := e.store.Users().FindByID(ctx, userID)
	if err != nil {
		return nil, storeFail("find user", err)
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	if u.IsDeleted {
		return nil, domain.ErrAlreadyDeleted
	}
	if patch.Theme != nil && *patch.Theme != domain.ThemeLight && *patch.Theme != domain.ThemeDark {
		return nil, domain.Invalid("theme must be light or dark")
	}

	prefs := e.store.Preferences()
	p, err := prefs.FindByUserID(ctx, userID)
	if err != nil {
		return nil, storeFail("find preference", err)
	}
	if p == nil {
		p = &domain.Preference{
			ID:            utils.NewID(),
			UserID:        userID,
			Theme:         domain.ThemeLight,
			Notifications: true,
			Language:      "en",
		}
	}
	if patch.Theme != nil {
		p.Theme = *patch.Theme
	}
	if patch.Notifications != nil {
		p.Notifications = *patch.Notifications
	}
	if patch.Language != nil {
		p.Language = *patch.Language
	}
	p.UpdatedAt = e.now()
	if err := prefs.Save(ctx, p); err != nil {
		return nil, storeFail("save preference", err)
	}
	return p, nil
}

func (e *Engine) GetPreference(ctx context.Context, userID string) (*domain.Preference, error) {
	p, err := e.store.Preferences().FindByUserID(ctx, userID)
	if err != nil {
		return nil, storeFail("find preference", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (e *Engine) CreatePost(ctx context.Context, userID string, in CreatePostInput) (*domain.Post, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.Invalid("title is required")
	}
	p := &domain.Post{
		ID:      utils.NewID(),
		UserID:  userID,
		Title:   title,
		Content: in.Content,
	}
	if err := e.store.Posts().Create(ctx, p); err != nil {
		return nil, storeFail("create post", err)
	}
	return p, nil
}

// GetUserPosts 只返回未软删帖子
func (e *Engine) GetUserPosts(ctx context.Context, userID string) ([]domain.Post, error) {
	posts, err := e.store.Posts().ListByUserID(ctx, userID)
	if err != nil {
		return nil, storeFail("list posts", err)
	}
	return posts, nil
}

func (e *Engine) SoftDeletePost(ctx context.Context, postID string) error {
	p, err := e.store.Posts().FindByID(ctx, postID)
	if err != nil {
		return storeFail("find post", err)
	}
	if p == nil {
		return domain.ErrNotFound
	}
	if p.IsDeleted {
		return domain.ErrAlreadyDeleted
	}
	if err := e.store.Posts().MarkDeleted(ctx, postID, e.now()); err != nil {
		return storeFail("soft delete post", err)
	}
	return nil
}

func storeFail(op string, err error) error {
	return &domain.StoreError{Op: op, Err: err}
}
