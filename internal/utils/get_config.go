package utils

import (
	"AgroTech-Vision/domain"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Application
	AppEnv  string `yaml:"APP_ENV"`
	AppPort string `yaml:"PORT"`

	// Comma separated; empty allows every origin
	CORSAllowOrigins string `yaml:"CORS_ALLOW_ORIGINS"`

	// Prediction backend
	APIBaseURL        string `yaml:"API_BASE_URL"`
	PredictionTimeout string `yaml:"PREDICTION_TIMEOUT"`

	// History persistence: "file" (default) or "postgres"
	StorageDriver string `yaml:"STORAGE_DRIVER"`
	HistoryDir    string `yaml:"HISTORY_DIR"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`
}

var config Config

// configKeys lists every key that may be overridden from the environment or a .env file.
var configKeys = []string{
	"APP_ENV", "PORT", "CORS_ALLOW_ORIGINS", "API_BASE_URL", "PREDICTION_TIMEOUT", "STORAGE_DRIVER", "HISTORY_DIR",
	"DB_USER", "DB_NAME", "DB_PASSWORD", "DB_PORT", "DB_HOST",
	"SMTP_HOST", "SMTP_PORT", "SMTP_SENDER_NAME", "SMTP_AUTH_EMAIL", "SMTP_AUTH_PASSWORD",
	"AWS_S3_BUCKET", "AWS_S3_REGION", "AWS_ACCESS_KEY", "AWS_SECRET_KEY",
}

func LoadConfig() {
	LoadConfigFile("config.yaml")
}

// LoadConfigFile reads the yaml file (if any), then overlays .env and process environment.
func LoadConfigFile(path string) {
	config = Config{}

	file, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Error reading YAML file: %s\n", err)
	} else if err = yaml.Unmarshal(file, &config); err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Error loading .env file: %s\n", err)
	}

	for _, key := range configKeys {
		if value, ok := os.LookupEnv(key); ok {
			SetConfig(key, value)
		}
	}
}

// SetConfig overrides a single key. Unknown keys are ignored.
func SetConfig(key, value string) {
	if field := configField(key); field != nil {
		*field = value
	}
}

func GetConfig(key string) string {
	if field := configField(key); field != nil {
		return *field
	}
	return ""
}

func configField(key string) *string {
	switch key {
	case "APP_ENV":
		return &config.AppEnv
	case "PORT":
		return &config.AppPort
	case "CORS_ALLOW_ORIGINS":
		return &config.CORSAllowOrigins
	case "API_BASE_URL":
		return &config.APIBaseURL
	case "PREDICTION_TIMEOUT":
		return &config.PredictionTimeout
	case "STORAGE_DRIVER":
		return &config.StorageDriver
	case "HISTORY_DIR":
		return &config.HistoryDir
	case "DB_USER":
		return &config.DBUser
	case "DB_NAME":
		return &config.DBName
	case "DB_PASSWORD":
		return &config.DBPassword
	case "DB_PORT":
		return &config.DBPort
	case "DB_HOST":
		return &config.DBHost
	case "SMTP_HOST":
		return &config.SMTPHost
	case "SMTP_PORT":
		return &config.SMTPPort
	case "SMTP_SENDER_NAME":
		return &config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return &config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return &config.SMTPAuthPassword
	case "AWS_S3_BUCKET":
		return &config.AWSS3Bucket
	case "AWS_S3_REGION":
		return &config.AWSS3Region
	case "AWS_ACCESS_KEY":
		return &config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return &config.AWSSecretKey
	default:
		return nil
	}
}

// APIBaseURL returns the prediction backend base URL without a trailing slash.
// An explicit API_BASE_URL wins; otherwise APP_ENV picks the production or local URL.
func APIBaseURL() string {
	base := GetConfig("API_BASE_URL")
	if base == "" {
		if strings.EqualFold(GetConfig("APP_ENV"), domain.EnvProduction) {
			base = domain.ProductionAPIURL
		} else {
			base = domain.DevelopmentAPIURL
		}
	}
	return strings.TrimRight(base, "/")
}

// PredictionTimeout returns zero (transport default) when unset or unparsable.
func PredictionTimeout() time.Duration {
	raw := GetConfig("PREDICTION_TIMEOUT")
	if raw == "" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		log.Printf("Invalid PREDICTION_TIMEOUT %q, using transport default\n", raw)
		return 0
	}
	return d
}

func GetConfigOrDefault(key, defaultValue string) string {
	if value := GetConfig(key); value != "" {
		return value
	}
	return defaultValue
}
