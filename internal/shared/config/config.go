package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	Env             string

	RecordStore   string
	DatabaseURL   string
	MongoURI      string
	MongoDatabase string

	AssetStoreType         string
	LocalStoreDir          string
	LocalPublicURL         string
	AWSRegion              string
	S3Bucket               string
	S3Prefix               string
	S3PublicBaseURL        string
	SSEKMSKeyID            string
	GCSBucket              string
	GCSPrefix              string
	GCSCDNDomain           string
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryFolder       string
	RollbackPartialUploads bool
	MaxUploadBytes         int64

	RedisAddr    string
	RedisListTTL time.Duration

	OTelEnabled bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" && os.Getenv("MONGO_URI") == "" {
		log.Printf("DATABASE_URL or MONGO_URI is required in production")
	}

	return Config{
		Port:            getEnv("PORT", "3001"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")),
		Env:             env,

		RecordStore:   normalizeRecordStore(getEnv("RECORD_STORE", ""), dbURL),
		DatabaseURL:   dbURL,
		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDatabase: getEnv("MONGO_DATABASE", "focus"),

		AssetStoreType:         normalizeAssetStore(getEnv("ASSET_STORE", "local")),
		LocalStoreDir:          getEnv("LOCAL_STORE_DIR", "./uploads"),
		LocalPublicURL:         getEnv("LOCAL_PUBLIC_URL", "/uploads"),
		AWSRegion:              getEnv("AWS_REGION", ""),
		S3Bucket:               getEnv("S3_BUCKET", ""),
		S3Prefix:               getEnv("S3_PREFIX", "backgrounds"),
		S3PublicBaseURL:        getEnv("S3_PUBLIC_BASE_URL", ""),
		SSEKMSKeyID:            getEnv("SSE_KMS_KEY_ID", ""),
		GCSBucket:              getEnv("GCS_BUCKET", ""),
		GCSPrefix:              getEnv("GCS_PREFIX", "backgrounds"),
		GCSCDNDomain:           getEnv("GCS_CDN_DOMAIN", ""),
		CloudinaryCloudName:    getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:       getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret:    getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryFolder:       getEnv("CLOUDINARY_FOLDER", "backgrounds"),
		RollbackPartialUploads: getBool("ASSET_ROLLBACK_PARTIAL_UPLOADS", false),
		MaxUploadBytes:         getInt64("MAX_UPLOAD_BYTES", 100<<20),

		RedisAddr:    getEnv("REDIS_ADDR", ""),
		RedisListTTL: getDuration("REDIS_LIST_TTL", time.Minute),

		OTelEnabled: getBool("OTEL_ENABLED", false),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}

func getInt64(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || val <= 0 {
		log.Printf("config %s invalid int: %q", key, raw)
		return def
	}
	return val
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("config %s invalid duration: %q", key, raw)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeRecordStore(raw, dbURL string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "postgres", "pg":
		return "postgres"
	case "mongo", "mongodb":
		return "mongo"
	case "memory":
		return "memory"
	}
	if strings.TrimSpace(dbURL) != "" {
		return "postgres"
	}
	return "memory"
}

func normalizeAssetStore(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	case "gcs":
		return "gcs"
	case "cloudinary":
		return "cloudinary"
	default:
		return "local"
	}
}
