// Package config loads service configuration from the environment, optionally seeded by a .env file.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverMongo     = "mongo"
	DriverMemory    = "memory"
	DriverCassandra = "cassandra"
)

// Config holds every setting used by the gateway and the backend services. Each binary reads
// only the fields it needs.
type Config struct {
	ServiceName string
	Port        string

	StoreDriver string
	MongoURI    string
	MongoDBName string

	JWTSecret string
	JWTTTL    time.Duration
	RedisURL  string

	NotificationsStore string
	CassandraHosts     []string
	CassandraKeyspace  string

	UsersServiceURL         string
	ProjectsServiceURL      string
	TasksServiceURL         string
	CommentsServiceURL      string
	NotificationsServiceURL string
	ComposerServiceURL      string

	AssertionSecret   string
	HTTPClientTimeout time.Duration
	LoginRateLimit    int
	CORSOrigin        string

	LogFile  string
	LogLevel string
}

// Load reads the optional .env file and builds the configuration for the named service.
// It returns whether a .env file was found so the caller can log it once logging is up.
func Load(serviceName, defaultPort string) (*Config, bool) {
	envLoaded := godotenv.Load(getEnv("ENV_FILE", ".env")) == nil

	cfg := &Config{
		ServiceName: serviceName,
		Port:        getEnv("SERVER_PORT", defaultPort),

		StoreDriver: getEnv("STORE_DRIVER", DriverMongo),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName: getEnv("MONGO_DB_NAME", strings.ReplaceAll(serviceName, "-", "_")),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTTTL:    getDuration("JWT_TTL", 24*time.Hour),
		RedisURL:  getEnv("REDIS_URL", ""),

		NotificationsStore: getEnv("NOTIFICATIONS_STORE", DriverMongo),
		CassandraHosts:     getList("CASSANDRA_HOSTS", []string{"127.0.0.1"}),
		CassandraKeyspace:  getEnv("CASSANDRA_KEYSPACE", "notifications"),

		UsersServiceURL:         getEnv("USERS_SERVICE_URL", "http://localhost:8001"),
		ProjectsServiceURL:      getEnv("PROJECTS_SERVICE_URL", "http://localhost:8003"),
		TasksServiceURL:         getEnv("TASKS_SERVICE_URL", "http://localhost:8002"),
		CommentsServiceURL:      getEnv("COMMENTS_SERVICE_URL", "http://localhost:8005"),
		NotificationsServiceURL: getEnv("NOTIFICATIONS_SERVICE_URL", "http://localhost:8004"),
		ComposerServiceURL:      getEnv("COMPOSER_SERVICE_URL", "http://localhost:8006"),

		AssertionSecret:   getEnv("INTERNAL_ASSERTION_SECRET", ""),
		HTTPClientTimeout: getDuration("HTTP_CLIENT_TIMEOUT", 10*time.Second),
		LoginRateLimit:    getInt("LOGIN_RATE_LIMIT", 10),
		CORSOrigin:        getEnv("CORS_ORIGIN", "http://localhost:3000"),

		LogFile:  getEnv("LOG_FILE", ""),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg, envLoaded
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
