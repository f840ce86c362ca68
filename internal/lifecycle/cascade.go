package lifecycle

import (
	"context"

	"datagov-console/internal/domain"
)

// Cascade 把多条集合变更作为一个单元提交。
// 引擎负责顺序与前置校验，提交/回滚语义由具体策略决定。
type Cascade interface {
	Run(ctx context.Context, store domain.Store, fn func(domain.Store) error) error
}

// TransactionalCascade 整体提交，任一步失败全部回滚
type TransactionalCascade struct{}

func (TransactionalCascade) Run(ctx context.Context, store domain.Store, fn func(domain.Store) error) error {
	return store.Atomic(ctx, fn)
}

// BestEffortCascade 顺序执行，无回滚。后端不支持事务时的兼容降级：
// 中途崩溃可能留下用户已标删、帖子未级联的中间态，属可容忍范围。
type BestEffortCascade struct{}

func (BestEffortCascade) Run(ctx context.Context, store domain.Store, fn func(domain.Store) error) error {
	return fn(store)
}
