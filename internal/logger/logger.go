// Package logger 建立整個應用共用的 zerolog 日誌器。
//
// 日誌器在 main 中建立一次，之後以參數傳入各元件，不使用全域實例。
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"necklace_web/pkg/config"
)

// New 依照配置建立日誌器，輸出到 stdout
func New(cfg config.LogConfig) zerolog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter 與 New 相同，但可以指定輸出目標
func NewWithWriter(cfg config.LogConfig, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "necklace_web").
		Logger()
}
