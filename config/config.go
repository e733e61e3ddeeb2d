package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var (
	TLS_DOMAINS  = ""              // e.g. "example.com,example2.com"
	BIND_ADDRESS = "0.0.0.0:8080"
	MYSQL_DSN    = ""              // MySQL will be used if this is set
	SQLITE_FILE  = "snapengine.db" // SQLite is used when MYSQL_DSN is not configured
	UPLOADS_DIR  = "uploads"       // Base dir for the disk asset store
	TMP_DIR      = "/tmp"          // Local scratch space when the S3 asset store is used

	// S3 asset store. Used instead of UPLOADS_DIR when S3_BUCKET is set
	S3_BUCKET   = ""
	S3_REGION   = "us-east-1"
	S3_ENDPOINT = "" // Optional, for S3-compatible services
	S3_KEY      = ""
	S3_SECRET   = ""

	SESSION_KEY = "change me in production"
	BASE_URL    = "http://localhost:8080"

	// Each OAuth provider is enabled when both of its values are set
	GOOGLE_OAUTH_KEY      = ""
	GOOGLE_OAUTH_SECRET   = ""
	FACEBOOK_OAUTH_KEY    = ""
	FACEBOOK_OAUTH_SECRET = ""

	DEBUG_MODE = true

	// Derivative generation
	MEDIUM_MAX_SIZE = 1024 // longest side of the medium variant
	THUMB_SIZE      = 200  // square thumbnail edge
)

func Load() {
	// A missing .env file is fine, plain env variables still apply
	_ = godotenv.Load()

	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("UPLOADS_DIR", &UPLOADS_DIR)
	readEnvString("TMP_DIR", &TMP_DIR)
	readEnvString("S3_BUCKET", &S3_BUCKET)
	readEnvString("S3_REGION", &S3_REGION)
	readEnvString("S3_ENDPOINT", &S3_ENDPOINT)
	readEnvString("S3_KEY", &S3_KEY)
	readEnvString("S3_SECRET", &S3_SECRET)
	readEnvString("SESSION_KEY", &SESSION_KEY)
	readEnvString("BASE_URL", &BASE_URL)
	readEnvString("GOOGLE_OAUTH_KEY", &GOOGLE_OAUTH_KEY)
	readEnvString("GOOGLE_OAUTH_SECRET", &GOOGLE_OAUTH_SECRET)
	readEnvString("FACEBOOK_OAUTH_KEY", &FACEBOOK_OAUTH_KEY)
	readEnvString("FACEBOOK_OAUTH_SECRET", &FACEBOOK_OAUTH_SECRET)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
	readEnvInt("MEDIUM_MAX_SIZE", &MEDIUM_MAX_SIZE)
	readEnvInt("THUMB_SIZE", &THUMB_SIZE)
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}

func readEnvInt(name string, value *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*value = f
}
