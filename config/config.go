package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	DBDriver   string // postgres, mysql or sqlite
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBLogLevel string

	CorsOrigins  string
	CookieSecure bool

	// Usernames that always receive the contributor claim, on top of the
	// Admin and Contributor roles.
	Contributors []string

	SessionSweepSpec string

	SendgridApiKey  string
	EmailSender     string
	EmailSenderName string

	OpenTDBURL string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "8080"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "quizhub"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBLogLevel: getEnv("DB_LOG_LEVEL", "warn"),

		CorsOrigins:  getEnv("CORS_ORIGINS", "http://localhost:3000"),
		CookieSecure: getEnvBool("COOKIE_SECURE", false),

		Contributors: getEnvList("QUIZ_CONTRIBUTORS"),

		SessionSweepSpec: getEnv("SESSION_SWEEP_SPEC", "@every 1m"),

		SendgridApiKey:  getEnv("SENDGRID_API_KEY", ""),
		EmailSender:     getEnv("EMAIL_SENDER", "no-reply@quizhub.local"),
		EmailSenderName: getEnv("EMAIL_SENDER_NAME", "QuizHub"),

		OpenTDBURL: getEnv("OPENTDB_URL", "https://opentdb.com"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.DBDriver == "sqlite" {
		log.Printf("Warning: Using sqlite database %q. Not meant for production.", AppConfig.DBName)
	}
}

// IsContributor reports whether userName is listed in QUIZ_CONTRIBUTORS.
func (c *Config) IsContributor(userName string) bool {
	for _, name := range c.Contributors {
		if strings.EqualFold(name, userName) {
			return true
		}
	}
	return false
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to bool: %v", key, err)
		return defaultValue
	}
	return boolValue
}

// getEnvList splits a comma separated variable, dropping empty items
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
