package config

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"yearbars/domain/chart"
	"yearbars/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Upload   UploadConfig
	Chart    ChartConfig
	LogLevel string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// UploadConfig holds upload limits
type UploadConfig struct {
	MaxBytes int64
}

// ChartConfig holds extraction and rendering constants
type ChartConfig struct {
	Extract chart.ExtractConfig
	Layout  chart.Layout
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:   loadServerConfig(),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	uploadConfig, err := loadUploadConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load upload configuration")
	}
	config.Upload = *uploadConfig

	chartConfig, err := loadChartConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load chart configuration")
	}
	config.Chart = *chartConfig

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadUploadConfig() (*UploadConfig, error) {
	mb, err := getEnvInt("MAX_UPLOAD_MB", 50)
	if err != nil {
		return nil, err
	}
	return &UploadConfig{MaxBytes: int64(mb) * 1024 * 1024}, nil
}

func loadChartConfig() (*ChartConfig, error) {
	extract := chart.DefaultExtractConfig()
	layout := chart.DefaultLayout()

	ints := []struct {
		key string
		dst *int
	}{
		{"EXTRACT_START_ROW", &extract.StartRow},
		{"EXTRACT_END_ROW", &extract.EndRow},
		{"EXTRACT_STEP", &extract.Step},
		{"EXTRACT_LABEL_COLUMN", &extract.LabelColumn},
		{"EXTRACT_VALUE_COLUMN", &extract.ValueColumn},
	}
	for _, f := range ints {
		v, err := getEnvInt(f.key, *f.dst)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"CHART_WIDTH", &layout.Width},
		{"CHART_HEIGHT", &layout.Height},
		{"CHART_MARGIN", &layout.Margin},
	}
	for _, f := range floats {
		v, err := getEnvFloat(f.key, *f.dst)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	strict, err := getEnvBool("STRICT_EXTRACTION", true)
	if err != nil {
		return nil, err
	}
	extract.Strict = strict

	layout.XAxisTitle = getEnvOrDefault("CHART_X_TITLE", layout.XAxisTitle)
	layout.YAxisTitle = getEnvOrDefault("CHART_Y_TITLE", layout.YAxisTitle)

	return &ChartConfig{Extract: extract, Layout: layout}, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid(fmt.Sprintf("GIN_MODE must be debug, release or test, got %q", config.Server.GinMode))
	}
	if config.Upload.MaxBytes <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}

	ex := config.Chart.Extract
	if ex.Step <= 0 {
		return errors.ConfigInvalid("EXTRACT_STEP must be positive")
	}
	if ex.StartRow < 1 || ex.EndRow <= ex.StartRow {
		return errors.ConfigInvalid(fmt.Sprintf("extraction rows [%d, %d) are empty or start above the year row", ex.StartRow, ex.EndRow))
	}
	if ex.LabelColumn < 0 || ex.ValueColumn < 0 {
		return errors.ConfigInvalid("extraction columns must not be negative")
	}

	l := config.Chart.Layout
	if l.Width <= 0 || l.Height <= 0 {
		return errors.ConfigInvalid("chart width and height must be positive")
	}
	if l.Margin < 0 || 2*l.Margin >= l.Height || 2*l.Margin >= l.Width {
		return errors.ConfigInvalid("chart margin leaves no plot area")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s must be an integer, got %q", key, value))
	}
	return intValue, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(floatValue) || math.IsInf(floatValue, 0) {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s must be a finite number, got %q", key, value))
	}
	return floatValue, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return false, errors.ConfigInvalid(fmt.Sprintf("%s must be a boolean, got %q", key, value))
	}
	return boolValue, nil
}
