package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Session SessionConfig
	Cart    CartConfig
	Orders  OrdersConfig
	Auth    AuthConfig
}

type ServerConfig struct {
	Port string
	Host string
	Env  string
}

type StorageConfig struct {
	Backend       string // memory, file, sqlite or redis
	FilePath      string
	SQLitePath    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

type SessionConfig struct {
	Secret string
}

type CartConfig struct {
	MaxItems int // line-item capacity of the cart
}

type OrdersConfig struct {
	CancellationWindowDays int // days before the visit date that cancellation closes
	AdultTicketPrice       int // in cents
	ChildTicketPrice       int // in cents
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTLHours int
}

func Load() (*Config, error) {
	// Load .env files if they exist (try .env.local first, then .env)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "localhost"),
			Env:  getEnv("ENV", "development"),
		},
		Storage: StorageConfig{
			Backend:       getEnv("STORAGE_BACKEND", "memory"),
			FilePath:      getEnv("STORAGE_FILE_PATH", "data"),
			SQLitePath:    getEnv("STORAGE_SQLITE_PATH", "parkpass.db"),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvAsInt("REDIS_DB", 0),
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", "your-secret-key-change-in-production"),
		},
		Cart: CartConfig{
			MaxItems: getEnvAsInt("CART_MAX_ITEMS", 6),
		},
		Orders: OrdersConfig{
			CancellationWindowDays: getEnvAsInt("CANCELLATION_WINDOW_DAYS", 0),
			AdultTicketPrice:       getEnvAsInt("ADULT_TICKET_PRICE", 4500),
			ChildTicketPrice:       getEnvAsInt("CHILD_TICKET_PRICE", 2500),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", "dev-jwt-secret-change-in-production"),
			TokenTTLHours: getEnvAsInt("JWT_TTL_HOURS", 24),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
