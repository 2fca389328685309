package config

import (
	"os"
	"strconv"
	"strings"
)

// MinIOConfig holds object storage settings for the optional MinIO backend.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AppConfig is the centralized configuration struct for the application.
// It is built once at process start and passed explicitly into the service
// layer; core logic never reads the environment on its own.
type AppConfig struct {
	Port string

	// UploadDir is where retained files are stored (filesystem backend).
	UploadDir string

	// ZeroRetentionDefault applies when a request carries no retention override.
	// Privacy-first: files are not stored unless a caller opts in.
	ZeroRetentionDefault bool

	// MaxDocsPerBatch is the whole-batch-fatal file count ceiling.
	MaxDocsPerBatch int

	// MaxFileSizeMB is the per-file payload ceiling in megabytes.
	MaxFileSizeMB int

	// OCRLanguages are optional Tesseract language hints (e.g. "eng", "deu").
	OCRLanguages []string

	// StorageBackend selects the retention store: "filesystem" (default) or "minio".
	StorageBackend string

	MinIO MinIOConfig
}

// MaxFileBytes returns the per-file ceiling in bytes.
func (c *AppConfig) MaxFileBytes() int {
	return c.MaxFileSizeMB << 20
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Port:                 getEnv("PORT", "8080"),
		UploadDir:            getEnv("UPLOAD_DIR", "uploads"),
		ZeroRetentionDefault: getEnvBool("ZERO_RETENTION_DEFAULT", true),
		MaxDocsPerBatch:      getEnvInt("MAX_DOCS_PER_BATCH", 20),
		MaxFileSizeMB:        getEnvInt("MAX_FILE_SIZE_MB", 20),
		OCRLanguages:         getEnvList("OCR_LANGUAGES"),
		StorageBackend:       getEnv("STORAGE_BACKEND", "filesystem"),
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

// getEnvList parses a comma-separated variable into a slice, dropping blanks.
func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
