package config

import (
	"github.com/spf13/viper"

	"github.com/moyu-x/file-organizer/internal"
)

type Config struct {
	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
	Scan struct {
		MinSize       int64    `mapstructure:"min_size"`
		Exclude       []string `mapstructure:"exclude"`
		IncludeHidden bool     `mapstructure:"include_hidden"`
	} `mapstructure:"scan"`
	Performance struct {
		Workers int `mapstructure:"workers"`
	} `mapstructure:"performance"`
	Cleanup struct {
		TempPatterns []string `mapstructure:"temp_patterns"`
		MaxAgeDays   int      `mapstructure:"max_age_days"`
	} `mapstructure:"cleanup"`
	Report struct {
		TopFiles int `mapstructure:"top_files"`
	} `mapstructure:"report"`
	Logging struct {
		Level string `mapstructure:"level"`
		File  string `mapstructure:"file"`
	} `mapstructure:"logging"`
}

var cfg Config

// DefaultTempPatterns match the usual editor/OS droppings.
var DefaultTempPatterns = []string{
	"~*", "*.tmp", "*.temp", "*.cache", "*.bak", "*.old",
	"*.swp", "*.swo", "Desktop.ini", "Thumbs.db", ".DS_Store",
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AddConfigPath("$HOME/.file-organizer")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/file-organizer")

	viper.SetDefault("database.path", internal.DefaultDatabasePath)
	viper.SetDefault("scan.min_size", internal.DefaultMinFileSize)
	viper.SetDefault("scan.exclude", []string{})
	viper.SetDefault("scan.include_hidden", true)
	viper.SetDefault("performance.workers", internal.DefaultWorkers)
	viper.SetDefault("cleanup.temp_patterns", DefaultTempPatterns)
	viper.SetDefault("cleanup.max_age_days", internal.DefaultMaxAgeDays)
	viper.SetDefault("report.top_files", internal.DefaultTopFiles)
	viper.SetDefault("logging.level", "info")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func Get() *Config {
	return &cfg
}
