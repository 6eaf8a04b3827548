package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBType     string // postgres or sqlite
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	ServerPort string

	MailHost    string
	MailPort    string
	MailUser    string
	MailPass    string
	SupportMail string

	OSSEndpoint  string
	OSSKeyID     string
	OSSKeySecret string
	OSSBucket    string
	FolderName   string

	GeminiAPIKey    string
	GeminiModel     string
	Json2VideoKey   string
	VideoPollMaxSec int
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	return &Config{
		DBType:     getEnv("DB_TYPE", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "academix"),
		JWTSecret:  getEnv("JWT_SECRET", "secret"),
		ServerPort: getEnv("SERVER_PORT", "4000"),

		MailHost:    getEnv("MAIL_HOST", ""),
		MailPort:    getEnv("MAIL_PORT", "587"),
		MailUser:    getEnv("MAIL_USER", ""),
		MailPass:    getEnv("MAIL_PASS", ""),
		SupportMail: getEnv("SUPPORT_MAIL", ""),

		OSSEndpoint:  getEnv("OSS_ENDPOINT", ""),
		OSSKeyID:     getEnv("OSS_ACCESS_KEY_ID", ""),
		OSSKeySecret: getEnv("OSS_ACCESS_KEY_SECRET", ""),
		OSSBucket:    getEnv("OSS_BUCKET", ""),
		FolderName:   getEnv("FOLDER_NAME", "academix"),

		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.0-flash-exp"),
		Json2VideoKey:   getEnv("JSON2VIDEO_API_KEY", ""),
		VideoPollMaxSec: getEnvInt("VIDEO_POLL_MAX_SECONDS", 300),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
