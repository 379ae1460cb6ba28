package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	GigaChat    GigaChatConfig
	OTP         OTPConfig
	Chat        ChatConfig
	OpenBanking OpenBankingConfig
	Jobs        JobsConfig
	Logger      LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey  string
	Expiration time.Duration
	RefreshExp time.Duration
}

type GigaChatConfig struct {
	APIKey             string
	Scope              string
	Model              string
	InsecureSkipVerify bool
}

type OTPConfig struct {
	TTL    time.Duration
	Length int
}

type ChatConfig struct {
	HistoryWindow int
}

type OpenBankingConfig struct {
	BaseURL     string
	FinancialID string
	Timeout     time.Duration
}

type JobsConfig struct {
	OTPPurgeSchedule    string
	FXRefreshSchedule   string
	CatalogSyncSchedule string
}

func Load() (*Config, error) {
	// Try to load .env file from current directory or project root
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}
	// If no .env file was found, plain environment variables are used
	// (useful for Docker/K8s).

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	jwtExp, _ := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24"))
	refreshExp, _ := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRATION_HOURS", "168"))
	otpTTL, _ := strconv.Atoi(getEnv("OTP_TTL_MINUTES", "5"))
	otpLength, _ := strconv.Atoi(getEnv("OTP_LENGTH", "6"))
	historyWindow, _ := strconv.Atoi(getEnv("CHAT_HISTORY_WINDOW", "5"))
	obTimeout, _ := strconv.Atoi(getEnv("OPEN_BANKING_TIMEOUT", "15"))
	insecureSkipVerify := getEnv("GIGACHAT_INSECURE_SKIP_VERIFY", "true") == "true"

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "fincompare"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", "your-secret-key-change-in-production"),
			Expiration: time.Duration(jwtExp) * time.Hour,
			RefreshExp: time.Duration(refreshExp) * time.Hour,
		},
		GigaChat: GigaChatConfig{
			APIKey:             getEnv("GIGACHAT_API_KEY", ""),
			Scope:              getEnv("GIGACHAT_SCOPE", "GIGACHAT_API_PERS"),
			Model:              getEnv("GIGACHAT_MODEL", "GigaChat"),
			InsecureSkipVerify: insecureSkipVerify,
		},
		OTP: OTPConfig{
			TTL:    time.Duration(otpTTL) * time.Minute,
			Length: otpLength,
		},
		Chat: ChatConfig{
			HistoryWindow: historyWindow,
		},
		OpenBanking: OpenBankingConfig{
			BaseURL:     getEnv("OPEN_BANKING_BASE_URL", ""),
			FinancialID: getEnv("OPEN_BANKING_FINANCIAL_ID", "1"),
			Timeout:     time.Duration(obTimeout) * time.Second,
		},
		Jobs: JobsConfig{
			OTPPurgeSchedule:    getEnv("JOB_OTP_PURGE_SCHEDULE", "@hourly"),
			FXRefreshSchedule:   getEnv("JOB_FX_REFRESH_SCHEDULE", "@every 30m"),
			CatalogSyncSchedule: getEnv("JOB_CATALOG_SYNC_SCHEDULE", "@daily"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
