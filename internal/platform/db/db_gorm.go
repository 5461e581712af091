// Package db はGORMによるデータベース接続の確立とマイグレーションを提供します。
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// retryInterval は接続リトライの間隔です。
const retryInterval = 3 * time.Second

// Config はデータベース接続設定です。
// DatabaseURL が空の場合はSQLiteファイルを使用します。
type Config struct {
	DatabaseURL    string
	SQLitePath     string
	ConnectTimeout time.Duration
	RunMigrations  bool
}

// Opener はDSNからgorm.DBを開く関数です。テストで差し替え可能にするために分離しています。
type Opener func(dsn string) (*gorm.DB, error)

// gormConfig は全ドライバ共通のGORM設定です。
// TranslateError により一意制約違反は gorm.ErrDuplicatedKey に変換されます。
func gormConfig() *gorm.Config {
	return &gorm.Config{TranslateError: true}
}

// IsPostgres は設定がPostgreSQLを指しているかを返します。
func (c Config) IsPostgres() bool {
	return c.DatabaseURL != ""
}

// BuildDSN は接続先に応じたDSN文字列を生成します。
func BuildDSN(cfg Config) string {
	if cfg.IsPostgres() {
		return cfg.DatabaseURL
	}
	path := cfg.SQLitePath
	if path == "" {
		path = "tasks.db"
	}
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_busy_timeout=5000&_foreign_keys=on"
}

// OpenerFor は設定に対応するドライバのOpenerを返します。
func OpenerFor(cfg Config) Opener {
	if cfg.IsPostgres() {
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), gormConfig())
		}
	}
	return func(dsn string) (*gorm.DB, error) {
		return gorm.Open(sqlite.Open(dsn), gormConfig())
	}
}

// ConnectWithRetry は timeout に達するまで retryInterval 間隔で接続を試みます。
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err, "retry_in", retryInterval)
		time.Sleep(retryInterval)
	}
}

// OpenDB はデータベースへ接続し、必要であれば models のマイグレーションを実行します。
func OpenDB(cfg Config, models ...any) (*gorm.DB, error) {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 60 * time.Second
	}

	db, err := ConnectWithRetry(BuildDSN(cfg), cfg.ConnectTimeout, OpenerFor(cfg))
	if err != nil {
		return nil, err
	}

	if !cfg.IsPostgres() {
		// SQLiteは単一ライターのため、書き込みの競合を避ける
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if cfg.RunMigrations && len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
	}

	driver := "sqlite"
	if cfg.IsPostgres() {
		driver = "postgres"
	}
	slog.Info("DB connection established", "driver", driver, "migrated", cfg.RunMigrations)
	return db, nil
}

// Ping はコネクションプール経由でデータベースの疎通を確認します。
func Ping(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return errors.New("db is not initialized")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
