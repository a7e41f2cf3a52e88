package db

import (
	"context"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/techvent/inventory-backend/pkg/config"
)

// Client wraps the gorm handle so callers share one pool and one
// transaction helper instead of passing *gorm.DB around.
type Client struct {
	gorm *gorm.DB
}

// New opens a MySQL-backed gorm connection using the resolved DSN and
// applies the pool settings from config.
func New(ctx context.Context, cfg config.DBConfig) (*Client, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}

	gdb, err := gorm.Open(mysql.Open(cfg.DSN), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	return &Client{gorm: gdb}, nil
}

// NewWithDB builds a Client around an existing gorm handle. Used by tests
// that open an in-memory database.
func NewWithDB(gdb *gorm.DB) *Client {
	return &Client{gorm: gdb}
}

// Gorm exposes the underlying handle for repository constructors.
func (c *Client) Gorm() *gorm.DB {
	return c.gorm
}

// Ping verifies the connection is alive.
func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying pool.
func (c *Client) Close() error {
	sqlDB, err := c.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// WithTx runs fn inside a transaction. The transaction is rolled back when
// fn returns an error or panics, and committed otherwise.
func (c *Client) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := c.gorm.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin tx: %w", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
