// Package config loads the library's tunables from an optional yaml file
// overlaid with environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Resource ResourceConfig `mapstructure:"resource"`
	Mirror   MirrorConfig   `mapstructure:"mirror"`
	Store    StoreConfig    `mapstructure:"store"`
	Guard    GuardConfig    `mapstructure:"guard"`
	Log      LogConfig      `mapstructure:"log"`
}

type ResourceConfig struct {
	Debounce   time.Duration `mapstructure:"debounce"`
	BufferSize int           `mapstructure:"buffer_size"`
}

type MirrorConfig struct {
	FlushDelay    time.Duration `mapstructure:"flush_delay"`
	NumWorkers    int           `mapstructure:"num_workers"`
	BufferSize    int           `mapstructure:"buffer_size"`
	JournalBuffer int           `mapstructure:"journal_buffer"`
}

type StoreConfig struct {
	Backend    string      `mapstructure:"backend"` // "memory" | "file" | "sqlite" | "redis"
	SQLitePath string      `mapstructure:"sqlite_path"`
	FileDir    string      `mapstructure:"file_dir"`
	Redis      RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type GuardConfig struct {
	BufferSize int `mapstructure:"buffer_size"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Build constructs the zap logger the config describes: production JSON
// for format "json", development console otherwise.
func (c LogConfig) Build() (*zap.Logger, error) {
	var zcfg zap.Config
	if c.Format == "json" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	if c.Level != "" {
		lvl, err := zapcore.ParseLevel(c.Level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		zcfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	return zcfg.Build()
}

// Load reads the yaml file at path, overlays environment variables, and
// fills the gaps with defaults. An empty path skips the file and yields
// defaults plus environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyResourceDebounce, 250*time.Millisecond)
	v.SetDefault(KeyResourceBufferSize, 8)

	v.SetDefault(KeyMirrorFlushDelay, 500*time.Millisecond)
	v.SetDefault(KeyMirrorNumWorkers, 4)
	v.SetDefault(KeyMirrorBufferSize, 16)
	v.SetDefault(KeyMirrorJournalBuffer, 64)

	v.SetDefault(KeyStoreBackend, "memory")
	v.SetDefault(KeyStoreSQLitePath, "reactive.db")
	v.SetDefault(KeyStoreFileDir, ".reactive")

	v.SetDefault(KeyRedisAddr, "localhost:6379")
	v.SetDefault(KeyRedisPassword, "")
	v.SetDefault(KeyRedisDB, 0)

	v.SetDefault(KeyGuardBufferSize, 16)

	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
}
