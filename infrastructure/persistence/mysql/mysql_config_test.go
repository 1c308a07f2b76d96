package mysql

import (
	"errors"
	"fmt"
	"testing"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestConfig_DSNAndDefaults(t *testing.T) {
	c := &Config{Host: "db", Port: "3306", Username: "shop", Password: "secret", Database: "shop", MaxIdleConns: 100}
	c.applyDefaults()

	assert.Contains(t, c.DSN(), "shop:secret@tcp(db:3306)/shop?parseTime=true")
	assert.Equal(t, DefaultMaxOpenConns, c.MaxOpenConns)
	assert.Equal(t, c.MaxOpenConns, c.MaxIdleConns, "idle conns capped by open conns")
	assert.Equal(t, DefaultSlowThreshold, c.SlowThreshold)
	assert.Equal(t, 10*time.Minute, c.ConnMaxLifetime)
}

func TestIsDuplicateKeyError(t *testing.T) {
	dup := &mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry 'o-1' for key 'idx_payments_order_id'"}

	assert.True(t, isDuplicateKeyError(dup))
	assert.True(t, isDuplicateKeyError(fmt.Errorf("insert payment: %w", dup)))
	assert.True(t, isDuplicateKeyError(gorm.ErrDuplicatedKey))
	assert.False(t, isDuplicateKeyError(&mysqldriver.MySQLError{Number: 1213}))
	assert.False(t, isDuplicateKeyError(errors.New("connection refused")))
	assert.False(t, isDuplicateKeyError(nil))
}
