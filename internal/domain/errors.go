package domain

import (
	"errors"
	"fmt"
)

// 生命周期错误分类；transport 层统一映射到 HTTP 状态码
var (
	ErrNotFound          = errors.New("not found")            // 404
	ErrAlreadyDeleted    = errors.New("already deleted")      // 400
	ErrNotSoftDeleted    = errors.New("must be soft deleted") // 400
	ErrGracePeriodActive = errors.New("grace period active")  // 403
	ErrConflict          = errors.New("uniqueness conflict")  // 409
)

// ValidationError 持有可直接返回给调用方的 message
type ValidationError struct {
	Cause string
}

func (e *ValidationError) Error() string { return e.Cause }

func Invalid(cause string) error { return &ValidationError{Cause: cause} }

// StoreError 包装底层持久化错误，细节不外漏
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store: %s: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }
