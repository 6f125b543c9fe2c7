package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// dotenvFile is loaded (if present) before the environment is read.
// Variables already set in the process environment win.
var dotenvFile = ".env"

// parseEnv overlays values from environment variables:
//
//	PORT / ADDRESS     HTTP bind port or full address
//	DATABASE_DSN       PostgreSQL DSN
//	JWT_SECRET         token signing secret
//	ACCESS_TOKEN_TTL   token lifetime, Go duration ("24h")
//	EXPORT_DIR         temporary export directory
//	AUTH_RATE_LIMIT    auth requests per minute per IP
//	CORS_ORIGINS       comma separated origins
//	TRUSTED_PROXIES    comma separated proxy IPs or CIDRs
//	LOG_LEVEL          debug|info|warn|error
//	ARCHIVE_EXPORTS    true/false
//	S3_ROOT_USER, S3_ROOT_PASSWORD, S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT
//
// Malformed numeric, boolean or duration values are ignored.
func parseEnv(config *Config) {
	_ = godotenv.Load(dotenvFile)

	if v, ok := lookup("PORT"); ok {
		config.EndpointAddrHTTP = ":" + strings.TrimPrefix(v, ":")
	}
	if v, ok := lookup("ADDRESS"); ok {
		config.EndpointAddrHTTP = v
	}
	setString(&config.DatabaseDSN, "DATABASE_DSN")
	setString(&config.SecretKey, "JWT_SECRET")
	if v, ok := lookup("ACCESS_TOKEN_TTL"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.AccessTokenValidityDuration = d
		}
	}
	setString(&config.ExportDir, "EXPORT_DIR")
	if v, ok := lookup("AUTH_RATE_LIMIT"); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.AuthRateLimit = n
		}
	}
	if v, ok := lookup("CORS_ORIGINS"); ok {
		config.AllowedOrigins = splitList(v)
	}
	if v, ok := lookup("TRUSTED_PROXIES"); ok {
		config.TrustedProxies = splitList(v)
	}
	setString(&config.LogLevel, "LOG_LEVEL")
	if v, ok := lookup("ARCHIVE_EXPORTS"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			config.ArchiveExports = b
		}
	}
	setString(&config.S3RootUser, "S3_ROOT_USER")
	setString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	setString(&config.S3Bucket, "S3_BUCKET")
	setString(&config.S3Region, "S3_REGION")
	setString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
