package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix 是環境變數的前綴，例如 NECKLACE_DB_CONNECTION_STRING
const EnvPrefix = "NECKLACE"

// 支援的儲存驅動
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	DB     DBConfig     `mapstructure:"db" validate:"required"`
	Log    LogConfig    `mapstructure:"log" validate:"required"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address" validate:"required"`
	Mode            string        `mapstructure:"mode" validate:"oneof=debug release test"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// DBConfig 描述儲存層連線。ConnectionString 優先於個別欄位
type DBConfig struct {
	Driver           string        `mapstructure:"driver" validate:"oneof=postgres memory"`
	ConnectionString string        `mapstructure:"connection_string"`
	Host             string        `mapstructure:"host"`
	User             string        `mapstructure:"user"`
	Password         string        `mapstructure:"password"`
	Name             string        `mapstructure:"name"`
	Port             int           `mapstructure:"port" validate:"gte=0,lte=65535"`
	SSLMode          string        `mapstructure:"ssl_mode"`
	TimeZone         string        `mapstructure:"time_zone"`
	MaxOpenConns     int           `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns     int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime  time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// DSN 回傳 PostgreSQL 連線字串
func (c DBConfig) DSN() string {
	if c.ConnectionString != "" {
		return c.ConnectionString
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode, c.TimeZone)
}

// Redacted 回傳不含密碼的連線描述，用於日誌
func (c DBConfig) Redacted() string {
	if c.ConnectionString != "" {
		return "connection_string"
	}
	return fmt.Sprintf("host=%s user=%s dbname=%s port=%d", c.Host, c.User, c.Name, c.Port)
}

var defaults = map[string]any{
	"server.address":          ":8080",
	"server.mode":             "release",
	"server.read_timeout":     "5s",
	"server.write_timeout":    "10s",
	"server.shutdown_timeout": "5s",

	"db.driver":            DriverPostgres,
	"db.connection_string": "",
	"db.host":              "localhost",
	"db.user":              "postgres",
	"db.password":          "",
	"db.name":              "necklace",
	"db.port":              5432,
	"db.ssl_mode":          "disable",
	"db.time_zone":         "UTC",
	"db.max_open_conns":    10,
	"db.max_idle_conns":    5,
	"db.conn_max_lifetime": "30m",

	"log.level":  "info",
	"log.format": "json",
}

// Load 讀取配置：預設值 < config.yaml < NECKLACE_ 環境變數。
// 沒有指定路徑時會在 ./pkg/config 與目前目錄尋找 config.yaml，檔案不存在不算錯誤
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"./pkg/config", "."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&config); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &config, nil
}
