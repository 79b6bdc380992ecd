package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL         string        `validate:"required"`
	HTTPAddr            string        `validate:"required"`
	QueryTimeout        time.Duration `validate:"gt=0"`
	ReputationURL       string        `validate:"required,url"`
	PageTitle           string        `validate:"required"`
	PriceIndexSymbol    string        `validate:"omitempty,alphanum,uppercase"`
	CORSOrigins         []string      `validate:"min=1,dive,required"`
	RateLimitPerMinute  int           `validate:"gte=0"`
	MetricsUser         string        `validate:"required_with=MetricsPasswordHash"`
	MetricsPasswordHash string        `validate:"required_with=MetricsUser"`
	LogLevel            string        `validate:"oneof=debug info warn error"`
}

var validate = validator.New()

func Load() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg := &Config{
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		QueryTimeout:        getDuration("QUERY_TIMEOUT", 5*time.Second),
		ReputationURL:       getEnv("REPUTATION_URL", "https://bitcoin-otc.com/viewratingdetail.php"),
		PageTitle:           getEnv("PAGE_TITLE", "#bitcoin-otc order book"),
		PriceIndexSymbol:    os.Getenv("PRICE_INDEX_SYMBOL"),
		CORSOrigins:         splitList(getEnv("CORS_ORIGINS", "*")),
		RateLimitPerMinute:  getInt("RATE_LIMIT_PER_MINUTE", 120),
		MetricsUser:         os.Getenv("METRICS_USER"),
		MetricsPasswordHash: os.Getenv("METRICS_PASSWORD_HASH"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

// Некорректные значения молча заменяются значением по умолчанию
func getDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return def
	}
	return d
}

func getInt(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
