package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigRequirements defines required configuration for each environment
type ConfigRequirements struct {
	RequiredFields []string
	// RequireSecretJWT rejects the development fallback secret.
	RequireSecretJWT bool
}

const devJWTSecret = "dev-insecure-secret"

var requirements = map[Environment]ConfigRequirements{
	Development: {
		RequiredFields: []string{"SERVER_PORT", "DB_DRIVER"},
	},
	Test: {
		RequiredFields: []string{"SERVER_PORT", "DB_DRIVER"},
	},
	CI: {
		RequiredFields:   []string{"SERVER_PORT", "DB_DRIVER", "JWT_SECRET"},
		RequireSecretJWT: true,
	},
	Production: {
		RequiredFields:   []string{"SERVER_PORT", "DB_DRIVER", "DB_HOST", "DB_NAME", "DB_USER", "DB_PASSWORD", "JWT_SECRET"},
		RequireSecretJWT: true,
	},
}

// fieldValue maps a requirement name onto the loaded configuration.
func fieldValue(cfg *Config, name string) string {
	switch name {
	case "SERVER_PORT":
		return cfg.ServerPort
	case "DB_DRIVER":
		return cfg.DBDriver
	case "DB_HOST":
		return cfg.DBHost
	case "DB_NAME":
		return cfg.DBName
	case "DB_USER":
		return cfg.DBUser
	case "DB_PASSWORD":
		return cfg.DBPassword
	case "JWT_SECRET":
		return cfg.JWTSecret
	}
	return ""
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	return validateFor(GetEnvironment(), cfg)
}

func validateFor(env Environment, cfg *Config) error {
	reqs := requirements[env]

	var errs []ValidationError

	for _, name := range reqs.RequiredFields {
		if fieldValue(cfg, name) == "" {
			errs = append(errs, ValidationError{Field: name, Message: "is required"})
		}
	}

	if cfg.JWTSecret == "" && !reqs.RequireSecretJWT {
		cfg.JWTSecret = devJWTSecret
	}

	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: "must be postgres or sqlite"})
	}
	if env == Production && cfg.DBDriver == "sqlite" {
		errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: "sqlite is not supported in production"})
	}

	switch cfg.ImageStore {
	case "local":
		if cfg.MediaRoot == "" {
			errs = append(errs, ValidationError{Field: "MEDIA_ROOT", Message: "is required for the local image store"})
		}
	case "s3":
		if cfg.S3Bucket == "" {
			errs = append(errs, ValidationError{Field: "S3_BUCKET_NAME", Message: "is required for the s3 image store"})
		}
	case "minio":
		if cfg.MinioEndpoint == "" || cfg.MinioAccessKey == "" || cfg.MinioSecretKey == "" {
			errs = append(errs, ValidationError{Field: "MINIO_ENDPOINT", Message: "endpoint and credentials are required for the minio image store"})
		}
	default:
		errs = append(errs, ValidationError{Field: "IMAGE_STORE", Message: "must be local, s3 or minio"})
	}

	if cfg.TokenTTL <= 0 {
		errs = append(errs, ValidationError{Field: "TOKEN_TTL", Message: "must be positive"})
	}
	if cfg.PageSize < 1 || cfg.MaxPageSize < cfg.PageSize {
		errs = append(errs, ValidationError{Field: "PAGE_SIZE", Message: "must be at least 1 and not exceed MAX_PAGE_SIZE"})
	}

	if len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(msgs, "\n"))
	}

	return nil
}
