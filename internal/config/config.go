package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Cfg struct {
	Server     Server
	Database   Database
	Logger     Logger
	OpenAI     OpenAI
	AWS        AWS
	Mail       Mail
	Frontend   Frontend
	Worker     Worker
	Migrations Migrations
}

type Server struct {
	Addr string
}

type Database struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

type Logger struct {
	Env   string
	Level string
}

type OpenAI struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	BaseURL     string
}

type AWS struct {
	Region string
	Key    string
	Secret string
	Bucket string
	Folder string
}

type Mail struct {
	Endpoint  string
	APIKey    string
	FromEmail string
	FromName  string
}

type Frontend struct {
	URL string
}

type Worker struct {
	Concurrency int
	QueueSize   int
}

type Migrations struct {
	Path string
}

func Load() (*Cfg, error) {
	_ = godotenv.Load()

	cfg := &Cfg{
		Server: Server{
			Addr: env("HTTP_ADDR", ":8080"),
		},
		Database: Database{
			Host:     os.Getenv("DB_HOST"),
			Port:     env("DB_PORT", "5432"),
			Name:     os.Getenv("DB_NAME"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASS"),
			SSLMode:  env("DB_SSLMODE", "disable"),
		},
		Logger: Logger{
			Env:   env("ENV", "dev"),
			Level: env("LOG_LEVEL", "info"),
		},
		OpenAI: OpenAI{
			APIKey:      os.Getenv("OPENAI_API_KEY"),
			Model:       env("AI_MODEL", "gpt-4o"),
			MaxTokens:   envInt("AI_MAX_TOKENS", 100000),
			Temperature: envFloat("AI_TEMPERATURE", 0.7),
			BaseURL:     env("OPENAI_BASE_URL", ""),
		},
		AWS: AWS{
			Region: env("AWS_DEFAULT_REGION", "us-east-2"),
			Key:    os.Getenv("AWS_KEY"),
			Secret: os.Getenv("AWS_SECRET"),
			Bucket: os.Getenv("AWS_BUCKET"),
			Folder: env("AWS_S3_FOLDER", "curriculums"),
		},
		Mail: Mail{
			Endpoint:  os.Getenv("MAIL_ENDPOINT"),
			APIKey:    os.Getenv("MAIL_API_KEY"),
			FromEmail: env("MAIL_SENDER", "no-reply@multitalent.local"),
			FromName:  env("MAIL_SENDER_NAME", "Multitalent"),
		},
		Frontend: Frontend{
			URL: env("FRONTEND_URL", "http://localhost:5173"),
		},
		Worker: Worker{
			Concurrency: envInt("WORKER_CONCURRENCY", 4),
			QueueSize:   envInt("WORKER_QUEUE_SIZE", 64),
		},
		Migrations: Migrations{
			Path: env("MIGRATIONS_PATH", "file://migrations"),
		},
	}

	return cfg, nil
}

func env(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func envInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func envFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
