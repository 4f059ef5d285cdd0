package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	Server  ServerConfig
	Upload  UploadConfig
	AWS     AWSConfig
	RunPod  RunPodConfig
	Redis   RedisConfig
	Monitor MonitorConfig
}

type ServerConfig struct {
	Port string
	Host string
}

type UploadConfig struct {
	TempDir     string
	MaxFileSize int64 // bytes
	Workers     int   // orchestration worker sayısı
}

type AWSConfig struct {
	Region string
	Bucket string
}

type RunPodConfig struct {
	BaseURL string
}

type RedisConfig struct {
	Host string
	Port string
}

type MonitorConfig struct {
	PollInterval time.Duration
	MaxWait      time.Duration
}

func LoadConfig() *Config {
	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "3000"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Upload: UploadConfig{
			TempDir:     getEnv("UPLOAD_TEMP_DIR", "temp_uploads"),
			MaxFileSize: getEnvAsInt64("UPLOAD_MAX_FILE_SIZE", 5*1024*1024*1024), // 5GB
			Workers:     getEnvAsInt("ORCHESTRATOR_WORKERS", 4),
		},
		AWS: AWSConfig{
			Region: getEnv("AWS_S3_REGION_NAME", "ap-northeast-2"),
			Bucket: getEnv("AWS_STORAGE_BUCKET_NAME", ""),
		},
		RunPod: RunPodConfig{
			BaseURL: getEnv("RUNPOD_API_URL", "http://localhost:8000"),
		},
		Redis: RedisConfig{
			Host: getEnv("REDIS_HOST", "localhost"),
			Port: getEnv("REDIS_PORT", "6379"),
		},
		Monitor: MonitorConfig{
			PollInterval: getEnvAsDuration("MONITOR_POLL_INTERVAL", 5*time.Second),
			MaxWait:      getEnvAsDuration("MONITOR_MAX_WAIT", 20*time.Minute),
		},
	}

	// Temp klasörünü proje köküne göre oluştur
	projectRoot, err := findProjectRoot()
	if err != nil {
		panic(err)
	}
	config.Upload.TempDir = filepath.Join(projectRoot, config.Upload.TempDir)

	if err := os.MkdirAll(config.Upload.TempDir, 0755); err != nil {
		panic(err)
	}

	return config
}

func findProjectRoot() (string, error) {
	current, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(current, "go.mod")); err == nil {
			return current, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			// Root'a ulaştık, go.mod bulunamadı
			return os.Getwd()
		}
		current = parent
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
