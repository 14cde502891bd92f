package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"necklace_web/pkg/config"
)

type PostgresDB struct {
	*gorm.DB
}

// NewPostgresDB 依配置建立 PostgreSQL 連線並設定連線池
func NewPostgresDB(cfg config.DBConfig, log zerolog.Logger) (*PostgresDB, error) {
	db, err := open(postgres.Open(cfg.DSN()), log)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}

// NewPostgresDBWithConn 以既有的 *sql.DB 建立連線，例如 sqlmock
func NewPostgresDBWithConn(conn *sql.DB, log zerolog.Logger) (*PostgresDB, error) {
	return open(postgres.New(postgres.Config{Conn: conn}), log)
}

func open(dialector gorm.Dialector, log zerolog.Logger) (*PostgresDB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(gormWriter{log: log.With().Str("component", "gorm").Logger()}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		// 讓唯一鍵、外鍵衝突轉成 gorm.ErrDuplicatedKey / gorm.ErrForeignKeyViolated
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &PostgresDB{DB: db}, nil
}

func (db *PostgresDB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping 檢查資料庫是否可連線
func (db *PostgresDB) Ping(ctx context.Context) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// gormWriter 把 gorm 的慢查詢與錯誤輸出導到 zerolog
type gormWriter struct {
	log zerolog.Logger
}

// Printf 依 gorm 訊息決定日誌等級。
// 查詢失敗時參數中帶有 error，慢查詢含有 "SLOW SQL"
func (w gormWriter) Printf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)

	switch {
	case hasError(args), strings.Contains(msg, "[error]"):
		w.log.Error().Msg(msg)
	case strings.Contains(msg, "SLOW SQL"), strings.Contains(msg, "[warn]"):
		w.log.Warn().Msg(msg)
	default:
		w.log.Info().Msg(msg)
	}
}

func hasError(args []interface{}) bool {
	for _, arg := range args {
		if _, ok := arg.(error); ok {
			return true
		}
	}
	return false
}
