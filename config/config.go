package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port        int
	DatabaseURL string
	AuthUser    string
	AuthPass    string
	CacheSize   int
	LogLevel    string

	// Blob storage backend: "fs" or "minio"
	StorageBackend string
	AssetDir       string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool
}

func LoadConfig() Config {
	port, _ := strconv.Atoi(getEnv("PORT", "8080"))
	cacheSize, _ := strconv.Atoi(getEnv("CACHE_SIZE", "1000"))
	useSSL, _ := strconv.ParseBool(getEnv("MINIO_USE_SSL", "false"))

	return Config{
		Port:        port,
		DatabaseURL: getEnv("DATABASE_URL", "etiqueta.db"),
		AuthUser:    getEnv("AUTH_USER", "admin"),
		AuthPass:    getEnv("AUTH_PASS", "password"),
		CacheSize:   cacheSize,
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),

		StorageBackend: getEnv("STORAGE_BACKEND", "fs"),
		AssetDir:       getEnv("ASSET_DIR", "assets"),

		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinIOBucket:    getEnv("MINIO_BUCKET", "etiqueta-assets"),
		MinIOUseSSL:    useSSL,
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
