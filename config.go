package main

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ChangeServiceURL string
	MongoURI         string
	MongoDB          string
	Port             string
}

func mustConfig() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	return Config{
		ChangeServiceURL: getenv("CHANGE_SERVICE_URL", "http://127.0.0.1:8000"),
		MongoURI:         getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:          getenv("MONGO_DB", "changedetector"),
		Port:             getenv("PORT", "8080"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
