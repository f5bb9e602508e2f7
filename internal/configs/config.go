package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type DBconfig struct {
	URL string
}

type RedisConfig struct {
	URL string
}

type RabbitMQConfig struct {
	URL string
}

type RESTconfig struct {
	PORT           string
	AllowedOrigins []string
}

type StdoutLogConfig struct {
	Level string
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
	Tag     string
}

// AnnoncesConfig groups the business tuning knobs of the service.
type AnnoncesConfig struct {
	SeuilBasPrix              float64
	LimiteAnnoncesGratuit     int
	DureeValiditeGratuitJours int
	DureeValiditePremiumJours int
}

type GeocodingConfig struct {
	NominatimBaseURL string
	UserAgent        string
	CacheTTLJours    int
}

type SchedulerConfig struct {
	CronMarquerAnnoncesExpirees string
}

// AppConfig holds the whole application configuration.
type AppConfig struct {
	AppName      string
	Database     DBconfig
	Redis        RedisConfig
	RabbitMQ     RabbitMQConfig
	Rest         RESTconfig
	StdoutLogger StdoutLogConfig
	FluentBit    FluentBitConfig
	Annonces     AnnoncesConfig
	Geocoding    GeocodingConfig
	Scheduler    SchedulerConfig
}

// LoadConfig loads the configuration from environment variables,
// reading a .env file first when one is available.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Printf("Info: Could not load .env file (path: %v): %v. Using environment variables.\n", envPath, err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "listing-service")

	cfg.Database.URL = os.Getenv("DATABASE_URL")
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	cfg.Redis.URL = getEnvAsString("REDIS_URL", "redis://localhost:6379/0")

	cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
	if cfg.RabbitMQ.URL == "" {
		return nil, fmt.Errorf("RABBITMQ_URL environment variable is required")
	}

	cfg.Rest.PORT = getEnvAsString("PORT", "8083")
	cfg.Rest.AllowedOrigins = splitAndTrim(getEnvAsString("ALLOWED_ORIGINS", "*"))

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
		cfg.FluentBit.Tag = getEnvAsString("FLUENTBIT_TAG", "listing-service")
	}

	cfg.Annonces.SeuilBasPrix = getEnvAsFloat("SEUIL_BAS_PRIX", 5000)
	cfg.Annonces.LimiteAnnoncesGratuit = getEnvAsInt("LIMITE_ANNONCES_GRATUIT", 3)
	cfg.Annonces.DureeValiditeGratuitJours = getEnvAsInt("DUREE_VALIDITE_ANNONCE_GRATUIT_JOURS", 30)
	cfg.Annonces.DureeValiditePremiumJours = getEnvAsInt("DUREE_VALIDITE_ANNONCE_PREMIUM_JOURS", 60)

	cfg.Geocoding.NominatimBaseURL = getEnvAsString("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org")
	cfg.Geocoding.UserAgent = getEnvAsString("NOMINATIM_USER_AGENT", "listing-service/1.0")
	cfg.Geocoding.CacheTTLJours = getEnvAsInt("GEOCODE_CACHE_TTL_JOURS", 30)

	cfg.Scheduler.CronMarquerAnnoncesExpirees = getEnvAsString("CRON_MARQUER_ANNONCES_EXPIREES", "0 * * * *")

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("WARNING: invalid value for %s: %q, using default %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("WARNING: invalid value for %s: %q, using default %g", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("WARNING: invalid value for %s: %q, using default %t", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func splitAndTrim(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
