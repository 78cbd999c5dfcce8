package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	DBPath    string `mapstructure:"db_path"`
	InboxDir  string `mapstructure:"inbox_dir"`
	OutputDir string `mapstructure:"output_dir"`

	Layout LayoutConfig `mapstructure:"layout"`
	Server ServerConfig `mapstructure:"server"`
	Watch  WatchConfig  `mapstructure:"watch"`
	Phone  PhoneConfig  `mapstructure:"phone"`
	Log    LogConfig    `mapstructure:"log"`
}

// LayoutConfig holds the markers of the listing source.
type LayoutConfig struct {
	RecordMarker string `mapstructure:"record_marker"`
	NoiseMarker  string `mapstructure:"noise_marker"`
	LinkLabel    string `mapstructure:"link_label"`
}

type ServerConfig struct {
	Addr       string `mapstructure:"addr"`
	RatePerSec int    `mapstructure:"rate_per_sec"`
}

type WatchConfig struct {
	IntervalSec int  `mapstructure:"interval_sec"`
	AutoExport  bool `mapstructure:"auto_export"`
}

type PhoneConfig struct {
	Validate bool `mapstructure:"validate"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads .env, an optional config.yaml from the working directory and
// LISTINGSHEET_* environment overrides, in increasing precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return nil, eris.Wrap(err, "config: working dir")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("LISTINGSHEET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("db_path", filepath.Join(cwd, "data", "runs.db"))
	v.SetDefault("inbox_dir", filepath.Join(cwd, "data", "inbox"))
	v.SetDefault("output_dir", filepath.Join(cwd, "out"))
	v.SetDefault("layout.record_marker", "Photos")
	v.SetDefault("layout.noise_marker", "Review")
	v.SetDefault("layout.link_label", "Open WhatsApp")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.rate_per_sec", 10)
	v.SetDefault("watch.interval_sec", 30)
	v.SetDefault("watch.auto_export", true)
	v.SetDefault("phone.validate", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	return &cfg, nil
}

// InitLogger installs the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)
	return nil
}
