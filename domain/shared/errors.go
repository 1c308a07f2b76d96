/*
Package shared - 领域层共享错误定义

设计原则:
1. 领域层定义哨兵错误(sentinel errors)，用于 errors.Is() 类型安全判断
2. 各子领域的哨兵错误包装这里的错误类别，例如
   ErrPaymentNotFound = fmt.Errorf("payment not found: %w", ErrNotFound)
   这样既能按具体错误判断，也能按类别判断
3. DomainError 在创建时捕获堆栈，但延迟格式化（按需打印）
4. 领域错误不包含 HTTP 状态码等传输层概念
*/
package shared

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ============================================================================
// 错误类别 (Error Kinds)
// ============================================================================

var (
	// ErrNotFound 资源未找到
	ErrNotFound = errors.New("not found")

	// ErrConflict 资源冲突（唯一约束、重复创建）
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput 无效输入（参数或跨字段校验失败）
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidState 当前状态不允许该操作
	ErrInvalidState = errors.New("invalid state")

	// ErrUnknownVariant 无法识别的促销类型
	ErrUnknownVariant = errors.New("unknown variant")

	// ErrUnauthorized 未提供调用方身份
	ErrUnauthorized = errors.New("unauthorized")

	// ErrConcurrentModification 乐观锁冲突，属于 Conflict 类别，调用方应重试
	ErrConcurrentModification = fmt.Errorf("concurrent modification: %w", ErrConflict)
)

// DomainError 领域错误 - 携带业务上下文和堆栈的结构化错误
type DomainError struct {
	// Err 底层哨兵错误，用于 errors.Is() 判断
	Err error

	// Entity 发生错误的实体名称（如 "order", "payment"）
	Entity string

	// Message 人类可读的错误描述
	Message string

	// Field 可选：发生错误的字段名
	Field string

	stack []uintptr
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Stack 按需格式化堆栈（只在打印日志时调用）
func (e *DomainError) Stack() []string {
	return FormatStack(e.stack)
}

// CaptureStack 捕获当前调用栈
// skip: 跳过的帧数（通常为 3：Callers, CaptureStack, 构造函数）
func CaptureStack(skip int) []uintptr {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	return pcs[:n]
}

// FormatStack 格式化堆栈帧为字符串切片，过滤 runtime 内部帧，最多 10 帧
func FormatStack(stack []uintptr) []string {
	if len(stack) == 0 {
		return nil
	}

	frames := runtime.CallersFrames(stack)
	var result []string
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			result = append(result, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		}
		if !more || len(result) > 10 {
			break
		}
	}
	return result
}

// NewDomainError 创建领域错误，堆栈从调用方开始
// 子领域的错误构造函数都通过它创建错误
func NewDomainError(sentinel error, entity, field, message string) *DomainError {
	return &DomainError{
		Err:     sentinel,
		Entity:  entity,
		Field:   field,
		Message: message,
		stack:   CaptureStack(3),
	}
}

// NewNotFoundError 创建"未找到"领域错误
func NewNotFoundError(entity string) error {
	return &DomainError{
		Err:     ErrNotFound,
		Entity:  entity,
		Message: entity + " not found",
		stack:   CaptureStack(3),
	}
}

// NewValidationError 创建"校验失败"领域错误
func NewValidationError(entity, field, reason string) error {
	return &DomainError{
		Err:     ErrInvalidInput,
		Entity:  entity,
		Field:   field,
		Message: reason,
		stack:   CaptureStack(3),
	}
}

// NewConcurrentModificationError 创建乐观锁冲突错误
func NewConcurrentModificationError(entity, id string) error {
	return &DomainError{
		Err:     ErrConcurrentModification,
		Entity:  entity,
		Message: entity + " " + id + " was modified by another transaction, please retry",
		stack:   CaptureStack(3),
	}
}

// Stacker 可提供堆栈的错误接口，API 层用它统一提取堆栈
type Stacker interface {
	Stack() []string
}
