package config // package config loads application configuration from environment variables

import (
	"encoding/base64"
	"log"
	"os"
	"strconv"

	"github.com/iliyamo/movie-catalog/internal/cryptox"
)

// Config holds all runtime configuration values. Each field
// corresponds to an environment variable. Secrets are injected here at
// startup and treated as read-only afterwards; nothing in the
// application regenerates or rotates them while running.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	DBUser       string // database username
	DBPass       string // database password (optional)
	DBHost       string // database host address
	DBPort       string // database port number
	DBName       string // database name
	JWTSecret    string // secret used to sign access tokens
	AccessTTLMin int    // access token time-to-live in minutes
	BcryptCost   int    // bcrypt cost for password hashing
	TOTPIssuer   string // issuer name embedded in otpauth:// URIs
	CardEncKey   []byte // 32-byte AES key for credit-card field encryption
}

// Load reads configuration from environment variables. Required
// variables are enforced by must() and missing values cause the
// program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:          must("APP_ENV"),
		Port:         must("APP_PORT"),
		DBUser:       must("DB_USER"),
		DBPass:       os.Getenv("DB_PASS"), // empty allowed
		DBHost:       must("DB_HOST"),
		DBPort:       must("DB_PORT"),
		DBName:       must("DB_NAME"),
		JWTSecret:    must("JWT_SECRET"),
		AccessTTLMin: intOr("ACCESS_TOKEN_TTL_MIN", 30),
		BcryptCost:   intOr("BCRYPT_COST", 12),
		TOTPIssuer:   envStr("TOTP_ISSUER", "movie-catalog"),
		CardEncKey:   cardKey(),
	}
}

// cardKey reads CARD_ENC_KEY (base64, 32 bytes decoded). When the
// variable is unset a random key is generated so the service still
// starts, but previously encrypted card fields become unreadable after
// a restart; the warning makes that trade-off visible.
func cardKey() []byte {
	if v := os.Getenv("CARD_ENC_KEY"); v != "" {
		key, err := base64.StdEncoding.DecodeString(v)
		if err != nil || len(key) != cryptox.KeySize {
			log.Fatalf("CARD_ENC_KEY must be base64 of %d bytes", cryptox.KeySize)
		}
		return key
	}
	key, err := cryptox.NewRandomKey()
	if err != nil {
		log.Fatalf("generate card encryption key: %v", err)
	}
	log.Printf("config: CARD_ENC_KEY not set, generated an ephemeral key; encrypted card data will not survive a restart")
	return key
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and
// exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// intOr converts an optional environment variable to an int, falling
// back to def when unset. A set-but-invalid value is fatal.
func intOr(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}
