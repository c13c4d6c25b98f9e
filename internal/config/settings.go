package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Settings struct {
	AppName     string `mapstructure:"app_name"`
	AppVersion  string `mapstructure:"app_version"`
	Environment string `mapstructure:"app_env"`
	Debug       bool   `mapstructure:"debug"`
	Port        string `mapstructure:"app_port"`

	MaxFileSize       int64    `mapstructure:"max_file_size"`
	AllowedImageTypes []string `mapstructure:"allowed_image_types"`
	MaxBatchSize      int      `mapstructure:"max_batch_size"`
	BatchConcurrency  int      `mapstructure:"batch_concurrency"`

	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	AIResultTTL    time.Duration `mapstructure:"ai_result_ttl"`

	PoseModelComplexity        int     `mapstructure:"pose_model_complexity"`
	PoseMinDetectionConfidence float64 `mapstructure:"pose_min_detection_confidence"`
	PoseMinTrackingConfidence  float64 `mapstructure:"pose_min_tracking_confidence"`

	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "Body Measurement Service")
	v.SetDefault("app_version", "1.0.0")
	v.SetDefault("app_env", "development")
	v.SetDefault("debug", false)
	v.SetDefault("app_port", "3000")

	v.SetDefault("max_file_size", 10*1024*1024)
	v.SetDefault("allowed_image_types", []string{"image/jpeg", "image/jpg", "image/png"})
	v.SetDefault("max_batch_size", 10)
	v.SetDefault("batch_concurrency", 4)

	v.SetDefault("request_timeout", 30*time.Second)
	v.SetDefault("ai_result_ttl", 24*time.Hour)

	v.SetDefault("pose_model_complexity", 1)
	v.SetDefault("pose_min_detection_confidence", 0.5)
	v.SetDefault("pose_min_tracking_confidence", 0.5)

	v.SetDefault("rate_limit", 50)
	v.SetDefault("rate_burst", 100)
}

// LoadSettings reads defaults, an optional config.yaml in the working
// directory, then environment variables named after the upper-cased keys.
func LoadSettings() (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("unable to decode settings: %w", err)
	}

	if err := settings.validate(); err != nil {
		return nil, err
	}

	return &settings, nil
}

func (s *Settings) validate() error {
	if s.MaxFileSize <= 0 {
		return fmt.Errorf("max_file_size must be positive")
	}
	if s.MaxBatchSize <= 0 {
		return fmt.Errorf("max_batch_size must be positive")
	}
	if s.BatchConcurrency <= 0 {
		s.BatchConcurrency = 1
	}
	if len(s.AllowedImageTypes) == 0 {
		return fmt.Errorf("allowed_image_types must not be empty")
	}
	return nil
}
