package config

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Options struct {
	flagRunAddr, flagLogLevel, flagDataBaseDSN,
	flagJWTSigningKey, flagConcurrency, flagRedisAddr,
	flagKafkaBrokers, flagKafkaTopic, flagSampleInterval,
	flagSessionSweepInterval, flagFileStoreRoot,
	flagWeatherAddress, flagGeocodingAddress string
}

func NewOptions() *Options {
	return new(Options)
}

// ParseFlags handles command line arguments
// and stores their values in the corresponding variables.
func (o *Options) ParseFlags() {
	// Load environment variables from the .env file
	loadEnvFile()

	// Override variable values with values from command line flags
	regStringVar(&o.flagRunAddr, "a", getEnvOrDefault("RUN_ADDRESS", ":8080"), "address and port to run server")
	regStringVar(&o.flagConcurrency, "c", getEnvOrDefault("CONCURRENCY", "5"), "worker pool concurrency")
	regStringVar(&o.flagDataBaseDSN, "d", getEnvOrDefault("DATABASE_URI", ""), "postgres connection DSN")
	regStringVar(&o.flagJWTSigningKey, "j", getEnvOrDefault("JWT_SIGNING_KEY", "test_key"), "jwt signing key")
	regStringVar(&o.flagLogLevel, "l", getEnvOrDefault("LOG_LEVEL", "debug"), "log level")
	regStringVar(&o.flagRedisAddr, "r", getEnvOrDefault("REDIS_ADDRESS", ""), "redis address for the session cache")
	regStringVar(&o.flagKafkaBrokers, "k", getEnvOrDefault("KAFKA_BROKERS", ""), "kafka broker list, comma separated")
	regStringVar(&o.flagKafkaTopic, "t", getEnvOrDefault("KAFKA_TOPIC", "worksession-events"), "kafka topic for session events")
	regStringVar(&o.flagSampleInterval, "i", getEnvOrDefault("SAMPLE_INTERVAL", "10m"), "location sampling interval for active sessions")
	regStringVar(&o.flagSessionSweepInterval, "w", getEnvOrDefault("SESSION_SWEEP_INTERVAL", "1h"), "expired auth session sweep interval")
	regStringVar(&o.flagFileStoreRoot, "f", getEnvOrDefault("FILE_STORE_ROOT", "./work-files"), "root directory of the file store")
	regStringVar(&o.flagWeatherAddress, "weather", getEnvOrDefault("WEATHER_API_ADDRESS", "https://api.open-meteo.com/v1/forecast"), "weather forecast API address")
	regStringVar(&o.flagGeocodingAddress, "geocoding", getEnvOrDefault("GEOCODING_API_ADDRESS", "https://geocoding-api.open-meteo.com/v1/search"), "geocoding API address")

	// parse the arguments passed to the server into registered variables
	flag.Parse()
}

func (o *Options) RunAddr() string {
	return o.flagRunAddr
}

func (o *Options) LogLevel() string {
	return o.flagLogLevel
}

func (o *Options) DataBaseDSN() string {
	return o.flagDataBaseDSN
}

func (o *Options) JWTSigningKey() string {
	return o.flagJWTSigningKey
}

func (o *Options) Concurrency() string {
	return o.flagConcurrency
}

func (o *Options) RedisAddr() string {
	return o.flagRedisAddr
}

func (o *Options) KafkaBrokers() string {
	return o.flagKafkaBrokers
}

func (o *Options) KafkaTopic() string {
	return o.flagKafkaTopic
}

func (o *Options) SampleInterval() string {
	return o.flagSampleInterval
}

func (o *Options) SessionSweepInterval() string {
	return o.flagSessionSweepInterval
}

func (o *Options) FileStoreRoot() string {
	return o.flagFileStoreRoot
}

func (o *Options) WeatherAddress() string {
	return o.flagWeatherAddress
}

func (o *Options) GeocodingAddress() string {
	return o.flagGeocodingAddress
}

func regStringVar(p *string, name string, value string, usage string) {
	if flag.Lookup(name) == nil {
		flag.StringVar(p, name, value, usage)
	}
}

// getEnvOrDefault reads an environment variable or returns a default value if the variable is not set or is empty.
func getEnvOrDefault(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// loadEnvFile loads environment variables from a .env file
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	envPath := filepath.Join(cwd, ".env")

	err = godotenv.Load(envPath)
	if err != nil {
		log.Printf("No .env file found at %s, proceeding without it", envPath)
	}
}

// GetAsString reads an environment variable or returns a default value.
func GetAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultValue
}
