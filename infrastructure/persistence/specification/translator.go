package specification

import (
	"fmt"

	"gorm.io/gorm"

	"ecommerce/domain/order"
	"ecommerce/domain/promotion"
	"ecommerce/domain/shared"
)

// GormTranslator converts domain specifications to GORM WHERE conditions
// DDD principle: Infrastructure layer handles framework-specific concerns
type GormTranslator struct{}

// NewGormTranslator creates a new GORM translator
func NewGormTranslator() *GormTranslator {
	return &GormTranslator{}
}

// Translate 返回可用于 db.Scopes 的查询函数
// 不支持的规格会作为错误加到 db 上，而不是被忽略后返回全表
func Translate[T any](t *GormTranslator, spec shared.Specification[T]) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		cond, args, err := build(t, spec)
		if err != nil {
			_ = db.AddError(err)
			return db
		}
		if cond == "" {
			return db
		}
		return db.Where(cond, args...)
	}
}

// build 组合规格递归展开，空条件表示匹配全部
func build[T any](t *GormTranslator, spec shared.Specification[T]) (string, []any, error) {
	switch s := any(spec).(type) {
	case nil, shared.All[T]:
		return "", nil, nil
	case shared.AndSpecification[T]:
		left, leftArgs, err := build(t, s.Left)
		if err != nil {
			return "", nil, err
		}
		right, rightArgs, err := build(t, s.Right)
		if err != nil {
			return "", nil, err
		}
		switch {
		case left == "":
			return right, rightArgs, nil
		case right == "":
			return left, leftArgs, nil
		}
		return "(" + left + ") AND (" + right + ")", append(leftArgs, rightArgs...), nil
	case shared.NotSpecification[T]:
		inner, args, err := build(t, s.Spec)
		if err != nil {
			return "", nil, err
		}
		if inner == "" {
			return "1 = 0", nil, nil
		}
		return "NOT (" + inner + ")", args, nil
	}

	if cond, args, ok := t.concrete(spec); ok {
		return cond, args, nil
	}
	return "", nil, fmt.Errorf("unsupported specification %T", spec)
}

// concrete translates concrete domain specifications
func (t *GormTranslator) concrete(spec any) (string, []any, bool) {
	switch s := spec.(type) {
	case promotion.ByTypeSpecification:
		return "type = ?", []any{string(s.Type)}, true
	case promotion.ByStatusSpecification:
		return "status = ?", []any{string(s.Status)}, true
	case order.ByUserIDSpecification:
		return "user_id = ?", []any{s.UserID}, true
	case order.ByStatusSpecification:
		return "status = ?", []any{string(s.Status)}, true
	}
	return "", nil, false
}
