package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации приложения.
// Содержит секции редактора, хранилища, шины событий и метрик.

type Config struct {
	Editor   EditorConfig   `yaml:"editor"`
	Storage  StorageConfig  `yaml:"storage"`
	EventBus EventBusConfig `yaml:"eventbus"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

type EditorConfig struct {
	HistoryCapacity int          `yaml:"history_capacity"`
	VerticalStepPx  float64      `yaml:"vertical_step_px"`
	Camera          CameraConfig `yaml:"camera"`
}

type CameraConfig struct {
	DefaultYaw      float64 `yaml:"default_yaw"`
	DefaultPitch    float64 `yaml:"default_pitch"`
	DefaultDistance float64 `yaml:"default_distance"`
	MinPitch        float64 `yaml:"min_pitch"`
	MaxPitch        float64 `yaml:"max_pitch"`
	MinDistance     float64 `yaml:"min_distance"`
	MaxDistance     float64 `yaml:"max_distance"`
}

type StorageConfig struct {
	// Backend выбирает реализацию хранилища структур:
	// memory | badger | maria | redis | mongo
	Backend   string `yaml:"backend"`
	DataPath  string `yaml:"data_path"`  // Каталог BadgerDB
	MariaDSN  string `yaml:"maria_dsn"`  // user:pass@tcp(host:port)/dbname
	RedisAddr string `yaml:"redis_addr"` // host:port
	MongoURI  string `yaml:"mongo_uri"`  // mongodb://host:port
	MongoDB   string `yaml:"mongo_db"`
}

type EventBusConfig struct {
	URL       string `yaml:"url"`
	Stream    string `yaml:"stream"`
	Retention int    `yaml:"retention_hours"`
}

type MetricsConfig struct {
	Port int `yaml:"port"`
}

// GetBackend возвращает бэкенд хранилища с fallback: config -> env -> memory
func (s *StorageConfig) GetBackend() string {
	if s.Backend != "" {
		return s.Backend
	}
	if env := os.Getenv("DESIGNER_STORAGE_BACKEND"); env != "" {
		return env
	}
	return "memory"
}

// GetDataPath возвращает каталог данных с fallback значением
func (s *StorageConfig) GetDataPath() string {
	if s.DataPath != "" {
		return s.DataPath
	}
	if env := os.Getenv("DESIGNER_DATA_PATH"); env != "" {
		return env
	}
	return "data"
}

// GetMetricsPort возвращает порт метрик с поддержкой fallback значений
func (m *MetricsConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(m.Port, "DESIGNER_METRICS_PORT", 2112)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// Load читает YAML файл конфигурации.
// Если path == "", пытается прочитать из ENV DESIGNER_CONFIG или возвращает nil, nil.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("DESIGNER_CONFIG")
		if path == "" {
			return nil, nil // конфиг не задан — использовать дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
