package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type DB struct {
	DbHOST     string
	DbPORT     string
	DbUSER     string
	DbPASSWORD string
	DbNAME     string
	DbSSLMODE  string
}

type MinIO struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	BucketName string
	UseSSL     bool
	Region     string
	PublicURL  string
}

type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	UseSSL   bool
	Timeout  time.Duration
}

type OAuthProvider struct {
	ClientID     string
	ClientSecret string
}

type OAuth struct {
	RedirectBaseURL string
	Google          OAuthProvider
	GitHub          OAuthProvider
}

// Storage namespaces used to route thumbnail callbacks.
type Namespaces struct {
	Avatars string
	Images  string
}

type Config struct {
	ServerPort          int
	ReadTimeout         time.Duration
	WriteTimeout        time.Duration
	SiteDomain          string
	LogLevel            string
	DB                  DB
	MinIO               MinIO
	SMTP                SMTP
	OAuth               OAuth
	Namespaces          Namespaces
	JWTSecretKey        string
	AccessTokenDuration time.Duration
	ActivationWindow    time.Duration
	PasswordResetWindow time.Duration
	PostsPerPage        int
	MaxUploadSize       int64
	MaxImagesPerPost    int
	WebhookToken        string
	MigrationsPath      string
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration understands Go durations plus a "d" suffix for whole days.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return defaultValue
	}
	if d, err := parseDuration(value); err == nil {
		return d
	}
	slog.Warn("invalid duration, using default", slog.String("key", key), slog.String("value", value))
	return defaultValue
}

func parseDuration(value string) (time.Duration, error) {
	if days, found := strings.CutSuffix(value, "d"); found {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, err
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(value)
}

func LoadDB() DB {
	return DB{
		DbHOST:     getEnv("DB_HOST", "localhost"),
		DbPORT:     getEnv("DB_PORT", "5432"),
		DbUSER:     getEnv("DB_USER", "postgres"),
		DbPASSWORD: getEnv("DB_PASSWORD", "password"),
		DbNAME:     getEnv("DB_NAME", "gramm"),
		DbSSLMODE:  getEnv("DB_SSLMODE", "disable"),
	}
}

func LoadMinIO() MinIO {
	endpoint := getEnv("MINIO_ENDPOINT", "localhost:9000")
	bucket := getEnv("MINIO_BUCKET_NAME", "gramm")
	useSSL := getEnvBool("MINIO_USE_SSL", false)

	scheme := "http"
	if useSSL {
		scheme = "https"
	}

	return MinIO{
		Endpoint:   endpoint,
		AccessKey:  getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		SecretKey:  getEnv("MINIO_SECRET_KEY", "minioadmin"),
		BucketName: bucket,
		UseSSL:     useSSL,
		Region:     getEnv("MINIO_REGION", "us-east-1"),
		PublicURL:  getEnv("MINIO_PUBLIC_URL", scheme+"://"+endpoint+"/"+bucket),
	}
}

func LoadSMTP() SMTP {
	return SMTP{
		Host:     getEnv("SMTP_HOST", "localhost"),
		Port:     getEnvAsInt("SMTP_PORT", 587),
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", "noreply@gramm.local"),
		FromName: getEnv("SMTP_FROM_NAME", "Gramm"),
		UseSSL:   getEnvBool("SMTP_USE_SSL", false),
		Timeout:  getEnvDuration("SMTP_TIMEOUT", 30*time.Second),
	}
}

func LoadOAuth() OAuth {
	return OAuth{
		RedirectBaseURL: getEnv("OAUTH_REDIRECT_BASE_URL", "http://localhost:8080"),
		Google: OAuthProvider{
			ClientID:     getEnv("OAUTH_GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("OAUTH_GOOGLE_CLIENT_SECRET", ""),
		},
		GitHub: OAuthProvider{
			ClientID:     getEnv("OAUTH_GITHUB_CLIENT_ID", ""),
			ClientSecret: getEnv("OAUTH_GITHUB_CLIENT_SECRET", ""),
		},
	}
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		slog.Info(".env file not found, using environment variables")
	}

	return &Config{
		ServerPort:   getEnvAsInt("SERVER_PORT", 8080),
		ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		SiteDomain:   getEnv("SITE_DOMAIN", "localhost:8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DB:           LoadDB(),
		MinIO:        LoadMinIO(),
		SMTP:         LoadSMTP(),
		OAuth:        LoadOAuth(),
		Namespaces: Namespaces{
			Avatars: getEnv("STORAGE_AVATARS_PREFIX", "avatars/"),
			Images:  getEnv("STORAGE_IMAGES_PREFIX", "images/"),
		},
		JWTSecretKey:        getEnv("JWT_SECRET_KEY", ""),
		AccessTokenDuration: getEnvDuration("ACCESS_TOKEN_DURATION", 2*time.Hour),
		ActivationWindow:    getEnvDuration("ACTIVATION_WINDOW", 7*24*time.Hour),
		PasswordResetWindow: getEnvDuration("PASSWORD_RESET_WINDOW", 7*24*time.Hour),
		PostsPerPage:        getEnvAsInt("POSTS_PER_PAGE", 10),
		MaxUploadSize:       getEnvAsInt64("MAX_UPLOAD_SIZE", 10*1024*1024),
		MaxImagesPerPost:    getEnvAsInt("MAX_IMAGES_PER_POST", 5),
		WebhookToken:        getEnv("WEBHOOK_TOKEN", ""),
		MigrationsPath:      getEnv("MIGRATIONS_PATH", "migrations/001_create_tables.sql"),
	}
}
