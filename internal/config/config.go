package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress       string
	MongoURI            string
	MongoDB             string
	JWTSecret           string
	JWTExpiration       time.Duration
	DataDir             string
	FirebaseProjectID   string
	FirebaseCredentials string
	StripeSecretKey     string
	AllowedOrigins      []string
}

func Load() *Config {
	// Local development reads a .env file; deployed environments set real
	// env vars and the load is a no-op.
	_ = godotenv.Load()

	return &Config{
		ServerAddress:       getEnv("SERVER_ADDRESS", ":8080"),
		MongoURI:            getEnv("MONGO_URI", ""),
		MongoDB:             getEnv("MONGO_DB", "neighborDB"),
		JWTSecret:           getEnv("ACCESS_TOKEN_SECRET", "your-secret-key-change-in-production"),
		JWTExpiration:       time.Hour,
		DataDir:             getEnv("DATA_DIR", "./data"),
		FirebaseProjectID:   getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS_JSON", ""),
		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		AllowedOrigins: []string{
			getEnv("FRONTEND_ORIGIN", "http://localhost:5173"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
