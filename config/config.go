package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerHost  string   `toml:"server_host"`
	ServerPort  string   `toml:"server_port"`
	CORSOrigins []string `toml:"cors_origins"`

	// Database configuration
	DBDriver      string `toml:"db_driver"`
	DBHost        string `toml:"db_host"`
	DBPort        string `toml:"db_port"`
	DBUser        string `toml:"db_user"`
	DBPassword    string `toml:"db_password"`
	DBName        string `toml:"db_name"`
	DBSSLMode     string `toml:"db_ssl_mode"`
	SQLitePath    string `toml:"sqlite_path"`
	MigrationsDir string `toml:"migrations_dir"`

	// Redis configuration. Redis is optional: without it token versions live
	// in the users table and recipe writes are not rate limited.
	RedisHost     string `toml:"redis_host"`
	RedisPort     string `toml:"redis_port"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisURL      string `toml:"redis_url"`

	// JWT configuration
	JWTSecret string        `toml:"jwt_secret"`
	TokenTTL  time.Duration `toml:"-"`

	// Image storage: "local", "s3" or "minio"
	ImageStore     string `toml:"image_store"`
	MediaRoot      string `toml:"media_root"`
	MediaURL       string `toml:"media_url"`
	S3Bucket       string `toml:"s3_bucket"`
	S3Region       string `toml:"s3_region"`
	MinioEndpoint  string `toml:"minio_endpoint"`
	MinioAccessKey string `toml:"minio_access_key"`
	MinioSecretKey string `toml:"minio_secret_key"`
	MinioBucket    string `toml:"minio_bucket"`
	MinioUseSSL    bool   `toml:"minio_use_ssl"`
	MinioPublicURL string `toml:"minio_public_url"`

	// Pagination and limits
	PageSize          int `toml:"page_size"`
	MaxPageSize       int `toml:"max_page_size"`
	RecipeCreateLimit int `toml:"recipe_create_limit"`
	RecipeUpdateLimit int `toml:"recipe_update_limit"`
}

// fileConfig mirrors Config for the TOML file; durations are written as
// strings there ("24h").
type fileConfig struct {
	Config
	TokenTTL string `toml:"token_ttl"`
}

// LoadConfig builds the configuration from defaults, an optional .env file,
// an optional TOML file, environment variables and Docker secrets, in that
// order, then validates it for the current environment.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := defaultConfig()

	if env.UsesDotEnv() {
		// A missing .env file is the normal case outside local development.
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Printf("[Config] ignoring .env: %v", err)
		}
	}

	if err := loadFile(cfg); err != nil {
		return nil, err
	}

	overrideByEnv(cfg)

	if env != CI {
		overrideBySecrets(cfg)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server listens on
func (c *Config) HTTPAddr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// PostgresDSN returns the connection string for the configured Postgres database
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func defaultConfig() *Config {
	return &Config{
		ServerHost:        "0.0.0.0",
		ServerPort:        "8080",
		CORSOrigins:       []string{"http://localhost:3000"},
		DBDriver:          "postgres",
		DBHost:            "localhost",
		DBPort:            "5432",
		DBUser:            "postgres",
		DBName:            "foodgram",
		DBSSLMode:         "disable",
		SQLitePath:        "foodgram.db",
		MigrationsDir:     "migrations",
		RedisHost:         "localhost",
		RedisPort:         "6379",
		TokenTTL:          24 * time.Hour,
		ImageStore:        "local",
		MediaRoot:         "media",
		MediaURL:          "/media",
		S3Bucket:          "foodgram-recipe-images",
		MinioBucket:       "foodgram",
		PageSize:          6,
		MaxPageSize:       100,
		RecipeCreateLimit: 30,
		RecipeUpdateLimit: 60,
	}
}

func loadFile(cfg *Config) error {
	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}

	fc := fileConfig{Config: *cfg}
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("decode config file failed: %w", err)
	}
	*cfg = fc.Config
	if fc.TokenTTL != "" {
		ttl, err := time.ParseDuration(fc.TokenTTL)
		if err != nil {
			return fmt.Errorf("token_ttl: %w", err)
		}
		cfg.TokenTTL = ttl
	}
	return nil
}

func overrideByEnv(cfg *Config) {
	cfg.ServerHost = getEnv("SERVER_HOST", cfg.ServerHost)
	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = splitList(origins)
	}

	cfg.DBDriver = getEnv("DB_DRIVER", cfg.DBDriver)
	cfg.DBHost = getEnv("DB_HOST", cfg.DBHost)
	cfg.DBPort = getEnv("DB_PORT", cfg.DBPort)
	cfg.DBUser = getEnv("DB_USER", cfg.DBUser)
	cfg.DBPassword = getEnv("DB_PASSWORD", cfg.DBPassword)
	cfg.DBName = getEnv("DB_NAME", cfg.DBName)
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", cfg.DBSSLMode)
	cfg.SQLitePath = getEnv("SQLITE_PATH", cfg.SQLitePath)
	cfg.MigrationsDir = getEnv("MIGRATIONS_DIR", cfg.MigrationsDir)

	cfg.RedisHost = getEnv("REDIS_HOST", cfg.RedisHost)
	cfg.RedisPort = getEnv("REDIS_PORT", cfg.RedisPort)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = getEnvAsInt("REDIS_DB", cfg.RedisDB)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)

	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		if ttl, err := time.ParseDuration(raw); err == nil {
			cfg.TokenTTL = ttl
		} else {
			log.Printf("[Config] invalid TOKEN_TTL %q, keeping %s", raw, cfg.TokenTTL)
		}
	}

	cfg.ImageStore = getEnv("IMAGE_STORE", cfg.ImageStore)
	cfg.MediaRoot = getEnv("MEDIA_ROOT", cfg.MediaRoot)
	cfg.MediaURL = getEnv("MEDIA_URL", cfg.MediaURL)
	cfg.S3Bucket = getEnv("S3_BUCKET_NAME", cfg.S3Bucket)
	cfg.S3Region = getEnv("AWS_REGION", cfg.S3Region)
	cfg.MinioEndpoint = getEnv("MINIO_ENDPOINT", cfg.MinioEndpoint)
	cfg.MinioAccessKey = getEnv("MINIO_ACCESS_KEY", cfg.MinioAccessKey)
	cfg.MinioSecretKey = getEnv("MINIO_SECRET_KEY", cfg.MinioSecretKey)
	cfg.MinioBucket = getEnv("MINIO_BUCKET", cfg.MinioBucket)
	cfg.MinioUseSSL = getEnvAsBool("MINIO_USE_SSL", cfg.MinioUseSSL)
	cfg.MinioPublicURL = getEnv("MINIO_PUBLIC_URL", cfg.MinioPublicURL)

	cfg.PageSize = getEnvAsInt("PAGE_SIZE", cfg.PageSize)
	cfg.MaxPageSize = getEnvAsInt("MAX_PAGE_SIZE", cfg.MaxPageSize)
	cfg.RecipeCreateLimit = getEnvAsInt("RECIPE_CREATE_LIMIT", cfg.RecipeCreateLimit)
	cfg.RecipeUpdateLimit = getEnvAsInt("RECIPE_UPDATE_LIMIT", cfg.RecipeUpdateLimit)
}

// overrideBySecrets applies Docker secrets, which win over plain env vars
// for sensitive values.
func overrideBySecrets(cfg *Config) {
	if v := readSecret("db_user"); v != "" {
		cfg.DBUser = v
	}
	if v := readSecret("db_password"); v != "" {
		cfg.DBPassword = v
	}
	if v := readSecret("jwt_secret"); v != "" {
		cfg.JWTSecret = v
	}
	if v := readSecret("redis_password"); v != "" {
		cfg.RedisPassword = v
	}
	if v := readSecret("minio_secret_key"); v != "" {
		cfg.MinioSecretKey = v
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	data, err := os.ReadFile(filepath.Join(secretsDir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
