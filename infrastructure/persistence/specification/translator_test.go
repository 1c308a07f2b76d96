package specification

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"ecommerce/domain/order"
	"ecommerce/domain/promotion"
	"ecommerce/domain/shared"
)

// dryRunDB 只生成 SQL，不连接数据库
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "user:pass@tcp(127.0.0.1:3306)/shop?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

type row struct {
	ID string
}

func (row) TableName() string { return "t" }

func sqlFor[T any](t *testing.T, spec shared.Specification[T]) (string, []any, error) {
	t.Helper()
	stmt := dryRunDB(t).Scopes(Translate(NewGormTranslator(), spec)).Find(&[]row{})
	return stmt.Statement.SQL.String(), stmt.Statement.Vars, stmt.Error
}

type unsupported struct{}

func (unsupported) IsSatisfiedBy(context.Context, *order.Order) bool { return true }

func TestTranslate(t *testing.T) {
	sql, vars, err := sqlFor[*promotion.Promotion](t, promotion.NewListSpecification(""))
	require.NoError(t, err)
	assert.NotContains(t, sql, "WHERE")
	assert.Empty(t, vars)

	sql, vars, err = sqlFor[*promotion.Promotion](t, promotion.NewListSpecification(promotion.TypeCoupon))
	require.NoError(t, err)
	assert.Contains(t, sql, "type = ?")
	assert.Equal(t, []any{"coupon"}, vars)

	sql, vars, err = sqlFor(t, order.NewUserStatusSpecification("user-1", order.StatusPaid))
	require.NoError(t, err)
	assert.Contains(t, sql, "(user_id = ?) AND (status = ?)")
	assert.Equal(t, []any{"user-1", "paid"}, vars)

	sql, _, err = sqlFor(t, shared.Not[*order.Order](order.ByStatusSpecification{Status: order.StatusCancelled}))
	require.NoError(t, err)
	assert.Contains(t, sql, "NOT (status = ?)")

	_, _, err = sqlFor[*order.Order](t, unsupported{})
	assert.ErrorContains(t, err, "unsupported specification")
}
